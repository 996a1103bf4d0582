package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
)

// LandAppraisal is one appraisal line of the FAAS sheet (rows 22-25 of
// the printed template).
type LandAppraisal struct {
	Classification  string
	SubClass        string
	Area            decimal.Decimal
	UnitValue       decimal.Decimal
	BaseMarketValue decimal.Decimal
}

// OtherImprovement covers plantings and structures appraised alongside
// the land (template rows 29-32).
type OtherImprovement struct {
	ProductClass string
	Quantity     int
	UnitValue    decimal.Decimal
}

// MarketValueAdjustment is one value-adjustment line (rows 36-39).
type MarketValueAdjustment struct {
	AdjustmentFactor  string
	PercentAdjustment decimal.Decimal
	ValueAdjustment   decimal.Decimal
}

// PropertyAssessment is one assessment line (rows 43-46).
type PropertyAssessment struct {
	Kind            string
	ActualUse       string
	MarketValue     decimal.Decimal
	AssessmentLevel decimal.Decimal
	AssessedValue   decimal.Decimal
}

// PreviousAssessment carries the prior tax declaration block.
type PreviousAssessment struct {
	TDNo            string
	Owner           string
	EffectivityYear int
	Taxability      string
	AVLand          decimal.Decimal
	AVImprovements  decimal.Decimal
	TotalAV         decimal.Decimal
}

// RecordFields is the client-editable payload of a FAAS record. Status,
// ownership, and timestamps live on FaasRecord and are never accepted
// from callers.
type RecordFields struct {
	ArfNo    string
	PIN      string
	OctTctNo string
	CLN      string

	OwnerName    string
	OwnerAddress string

	AdministratorName    string
	AdministratorAddress string

	PropertyLocation     string
	PropertyBarangay     string
	PropertyMunicipality string
	PropertyProvince     string

	NorthBoundary string
	SouthBoundary string
	EastBoundary  string
	WestBoundary  string

	LandAppraisals         []LandAppraisal
	Improvements           []OtherImprovement
	MarketValueAdjustments []MarketValueAdjustment
	Assessments            []PropertyAssessment

	Previous PreviousAssessment

	MemorandaCode      string
	MemorandaParagraph string

	CTCNo       string
	CTCIssuedOn *time.Time
	CTCIssuedAt string
}

// templateLineLimit matches the printed FAAS template: four rows per
// appraisal/assessment section.
const templateLineLimit = 4

func (f RecordFields) Validate() bool {
	if strings.TrimSpace(f.OwnerName) == "" {
		return false
	}
	if len(f.LandAppraisals) > templateLineLimit ||
		len(f.Improvements) > templateLineLimit ||
		len(f.MarketValueAdjustments) > templateLineLimit ||
		len(f.Assessments) > templateLineLimit {
		return false
	}
	for _, line := range f.LandAppraisals {
		if strings.TrimSpace(line.Classification) == "" {
			return false
		}
	}
	return true
}

// FaasRecord is a Field Appraisal and Assessment Sheet moving through
// the draft -> submitted -> approved lifecycle.
type FaasRecord struct {
	RecordID string
	Status   Status
	OwnerID  string

	Fields RecordFields

	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedByID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
