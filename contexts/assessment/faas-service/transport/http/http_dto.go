package http

import "github.com/shopspring/decimal"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LandAppraisalDTO struct {
	Classification  string          `json:"classification" validate:"required"`
	SubClass        string          `json:"sub_class"`
	Area            decimal.Decimal `json:"area"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	BaseMarketValue decimal.Decimal `json:"base_market_value"`
}

type OtherImprovementDTO struct {
	ProductClass string          `json:"product_class"`
	Quantity     int             `json:"quantity" validate:"min=0"`
	UnitValue    decimal.Decimal `json:"unit_value"`
}

type MarketValueAdjustmentDTO struct {
	AdjustmentFactor  string          `json:"adjustment_factor"`
	PercentAdjustment decimal.Decimal `json:"percent_adjustment"`
	ValueAdjustment   decimal.Decimal `json:"value_adjustment"`
}

type PropertyAssessmentDTO struct {
	Kind            string          `json:"kind"`
	ActualUse       string          `json:"actual_use"`
	MarketValue     decimal.Decimal `json:"market_value"`
	AssessmentLevel decimal.Decimal `json:"assessment_level"`
	AssessedValue   decimal.Decimal `json:"assessed_value"`
}

type PreviousAssessmentDTO struct {
	TDNo            string          `json:"td_no"`
	Owner           string          `json:"owner"`
	EffectivityYear int             `json:"effectivity_year"`
	Taxability      string          `json:"taxability"`
	AVLand          decimal.Decimal `json:"av_land"`
	AVImprovements  decimal.Decimal `json:"av_improvements"`
	TotalAV         decimal.Decimal `json:"total_av"`
}

type RecordFieldsDTO struct {
	ArfNo    string `json:"arf_no"`
	PIN      string `json:"pin"`
	OctTctNo string `json:"oct_tct_no"`
	CLN      string `json:"cln"`

	OwnerName    string `json:"owner_name" validate:"required"`
	OwnerAddress string `json:"owner_address"`

	AdministratorName    string `json:"administrator_name"`
	AdministratorAddress string `json:"administrator_address"`

	PropertyLocation     string `json:"property_location"`
	PropertyBarangay     string `json:"property_barangay"`
	PropertyMunicipality string `json:"property_municipality"`
	PropertyProvince     string `json:"property_province"`

	NorthBoundary string `json:"north_boundary"`
	SouthBoundary string `json:"south_boundary"`
	EastBoundary  string `json:"east_boundary"`
	WestBoundary  string `json:"west_boundary"`

	LandAppraisals         []LandAppraisalDTO         `json:"land_appraisals" validate:"max=4,dive"`
	Improvements           []OtherImprovementDTO      `json:"improvements" validate:"max=4,dive"`
	MarketValueAdjustments []MarketValueAdjustmentDTO `json:"market_value_adjustments" validate:"max=4,dive"`
	Assessments            []PropertyAssessmentDTO    `json:"assessments" validate:"max=4,dive"`

	Previous PreviousAssessmentDTO `json:"previous_assessment"`

	MemorandaCode      string `json:"memoranda_code"`
	MemorandaParagraph string `json:"memoranda_paragraph"`

	CTCNo       string `json:"ctc_no"`
	CTCIssuedOn string `json:"ctc_issued_on,omitempty"`
	CTCIssuedAt string `json:"ctc_issued_at"`
}

type CreateRecordRequest struct {
	Fields RecordFieldsDTO `json:"fields" validate:"required"`
}

type UpdateRecordRequest struct {
	Fields RecordFieldsDTO `json:"fields" validate:"required"`
}

// SaveDraftRequest creates a draft when record_id is empty and
// overwrites the existing draft otherwise.
type SaveDraftRequest struct {
	RecordID string          `json:"record_id,omitempty"`
	Fields   RecordFieldsDTO `json:"fields" validate:"required"`
}

type RecordDTO struct {
	RecordID     string          `json:"record_id"`
	Status       string          `json:"status"`
	OwnerID      string          `json:"owner_id"`
	Fields       RecordFieldsDTO `json:"fields"`
	SubmittedAt  string          `json:"submitted_at,omitempty"`
	ApprovedAt   string          `json:"approved_at,omitempty"`
	ApprovedByID string          `json:"approved_by_id,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type RecordResponse struct {
	Record RecordDTO `json:"record"`
}

type ListRecordsResponse struct {
	Items []RecordDTO `json:"items"`
}

type HistoryEntryDTO struct {
	EntryID   string         `json:"entry_id"`
	RecordID  string         `json:"record_id"`
	ActorID   string         `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Action    string         `json:"action"`
	Snapshot  map[string]any `json:"snapshot"`
	CreatedAt string         `json:"created_at"`
}

type ListHistoryResponse struct {
	Items []HistoryEntryDTO `json:"items"`
}

type ClearHistoryResponse struct {
	Removed int `json:"removed"`
}
