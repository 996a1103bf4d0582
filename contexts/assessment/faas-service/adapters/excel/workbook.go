package excel

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"faas/contexts/assessment/faas-service/domain/entities"
)

const sheetName = "FAAS"

// Template row anchors, matching the printed provincial assessor form.
const (
	rowLandAppraisalFirst    = 22
	rowImprovementFirst      = 29
	rowAdjustmentFirst       = 36
	rowAssessmentFirst       = 43
	rowPreviousTD            = 65
	rowPreviousOwner         = 66
	rowPreviousValues        = 67
	rowMemorandaCode         = 59
	rowMemorandaParagraph    = 60
	maxLinesPerSection       = 4
	workbookDateLayout       = "January 2, 2006"
	workbookShortDateLayout  = "2006-01-02"
	workbookDefaultSheetName = "Sheet1"
)

// Renderer produces the printable FAAS workbook from a record.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(record entities.FaasRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create faas sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(workbookDefaultSheetName); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	fields := record.Fields

	header := map[string]any{
		"B2": "FIELD APPRAISAL AND ASSESSMENT SHEET",
		"B6": fields.ArfNo,
		"F6": fields.PIN,
		"B8": fields.OctTctNo,
		"F8": fields.CLN,

		"B10": fields.OwnerName,
		"B11": fields.OwnerAddress,
		"F10": fields.AdministratorName,
		"F11": fields.AdministratorAddress,

		"B13": fields.PropertyLocation,
		"D13": fields.PropertyBarangay,
		"F13": fields.PropertyMunicipality,
		"H13": fields.PropertyProvince,

		"B16": fields.NorthBoundary,
		"D16": fields.SouthBoundary,
		"F16": fields.EastBoundary,
		"H16": fields.WestBoundary,
	}
	for cell, value := range header {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return nil, fmt.Errorf("write header cell %s: %w", cell, err)
		}
	}

	if err := writeLandAppraisals(f, fields.LandAppraisals); err != nil {
		return nil, err
	}
	if err := writeImprovements(f, fields.Improvements); err != nil {
		return nil, err
	}
	if err := writeAdjustments(f, fields.MarketValueAdjustments); err != nil {
		return nil, err
	}
	if err := writeAssessments(f, fields.Assessments); err != nil {
		return nil, err
	}
	if err := writePrevious(f, fields.Previous); err != nil {
		return nil, err
	}

	memoranda := map[string]string{
		fmt.Sprintf("B%d", rowMemorandaCode):      fields.MemorandaCode,
		fmt.Sprintf("A%d", rowMemorandaParagraph): fields.MemorandaParagraph,
	}
	for cell, value := range memoranda {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return nil, fmt.Errorf("write memoranda cell %s: %w", cell, err)
		}
	}

	if err := writeCertification(f, fields); err != nil {
		return nil, err
	}
	if err := writeApprovalBlock(f, record); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLandAppraisals(f *excelize.File, lines []entities.LandAppraisal) error {
	for i, line := range lines {
		if i >= maxLinesPerSection {
			break
		}
		row := rowLandAppraisalFirst + i
		cells := map[string]any{
			fmt.Sprintf("A%d", row): line.Classification,
			fmt.Sprintf("C%d", row): line.SubClass,
			fmt.Sprintf("D%d", row): decimalCell(line.Area),
			fmt.Sprintf("F%d", row): decimalCell(line.UnitValue),
			fmt.Sprintf("H%d", row): decimalCell(line.BaseMarketValue),
		}
		if err := setCells(f, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeImprovements(f *excelize.File, lines []entities.OtherImprovement) error {
	for i, line := range lines {
		if i >= maxLinesPerSection {
			break
		}
		row := rowImprovementFirst + i
		cells := map[string]any{
			fmt.Sprintf("A%d", row): line.ProductClass,
			fmt.Sprintf("D%d", row): line.Quantity,
			fmt.Sprintf("F%d", row): decimalCell(line.UnitValue),
			fmt.Sprintf("H%d", row): decimalCell(line.UnitValue.Mul(decimal.NewFromInt(int64(line.Quantity)))),
		}
		if err := setCells(f, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeAdjustments(f *excelize.File, lines []entities.MarketValueAdjustment) error {
	for i, line := range lines {
		if i >= maxLinesPerSection {
			break
		}
		row := rowAdjustmentFirst + i
		cells := map[string]any{
			fmt.Sprintf("A%d", row): line.AdjustmentFactor,
			fmt.Sprintf("E%d", row): decimalCell(line.PercentAdjustment),
			fmt.Sprintf("H%d", row): decimalCell(line.ValueAdjustment),
		}
		if err := setCells(f, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeAssessments(f *excelize.File, lines []entities.PropertyAssessment) error {
	for i, line := range lines {
		if i >= maxLinesPerSection {
			break
		}
		row := rowAssessmentFirst + i
		cells := map[string]any{
			fmt.Sprintf("A%d", row): line.Kind,
			fmt.Sprintf("C%d", row): line.ActualUse,
			fmt.Sprintf("D%d", row): decimalCell(line.MarketValue),
			fmt.Sprintf("F%d", row): decimalCell(line.AssessmentLevel),
			fmt.Sprintf("H%d", row): decimalCell(line.AssessedValue),
		}
		if err := setCells(f, cells); err != nil {
			return err
		}
	}
	return nil
}

func writePrevious(f *excelize.File, previous entities.PreviousAssessment) error {
	cells := map[string]any{
		fmt.Sprintf("B%d", rowPreviousTD):    previous.TDNo,
		fmt.Sprintf("F%d", rowPreviousTD):    previous.EffectivityYear,
		fmt.Sprintf("B%d", rowPreviousOwner): previous.Owner,
		fmt.Sprintf("F%d", rowPreviousOwner): previous.Taxability,

		fmt.Sprintf("B%d", rowPreviousValues): decimalCell(previous.AVLand),
		fmt.Sprintf("D%d", rowPreviousValues): decimalCell(previous.AVImprovements),
		fmt.Sprintf("F%d", rowPreviousValues): decimalCell(previous.TotalAV),
	}
	return setCells(f, cells)
}

func writeCertification(f *excelize.File, fields entities.RecordFields) error {
	issuedOn := ""
	if fields.CTCIssuedOn != nil {
		issuedOn = fields.CTCIssuedOn.Format(workbookShortDateLayout)
	}
	cells := map[string]any{
		"B70": fields.CTCNo,
		"D70": issuedOn,
		"F70": fields.CTCIssuedAt,
	}
	return setCells(f, cells)
}

func writeApprovalBlock(f *excelize.File, record entities.FaasRecord) error {
	cells := map[string]any{
		"B73": string(record.Status),
	}
	if record.SubmittedAt != nil {
		cells["D73"] = record.SubmittedAt.UTC().Format(workbookDateLayout)
	}
	if record.ApprovedAt != nil {
		cells["F73"] = record.ApprovedAt.UTC().Format(workbookDateLayout)
	}
	return setCells(f, cells)
}

func setCells(f *excelize.File, cells map[string]any) error {
	for cell, value := range cells {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	return nil
}

// decimalCell renders decimals as floats so spreadsheet totals stay
// numeric rather than text.
func decimalCell(value decimal.Decimal) float64 {
	f, _ := value.Float64()
	return f
}
