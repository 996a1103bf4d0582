package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"faas/contexts/assessment/faas-service/application/commands"
	"faas/contexts/assessment/faas-service/application/queries"
	"faas/contexts/assessment/faas-service/domain/entities"
	domainerrors "faas/contexts/assessment/faas-service/domain/errors"
	httptransport "faas/contexts/assessment/faas-service/transport/http"
	"faas/internal/shared/identity"
)

const ctcDateLayout = "2006-01-02"

var validate = validator.New()

type Handler struct {
	CreateRecord commands.CreateRecordUseCase
	UpdateRecord commands.UpdateRecordUseCase
	ReviewRecord commands.ReviewRecordUseCase
	DeleteDraft  commands.DeleteDraftUseCase
	EraseHistory commands.EraseHistoryUseCase
	Queries      queries.QueryUseCase
	Export       queries.ExportRecordUseCase
	Logger       *slog.Logger
}

// CreateRecordHandler godoc
// @Summary Create a FAAS record
// @Description Creates a new record in draft status owned by the caller. Encoder role required.
// @Tags faas-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body http.CreateRecordRequest true "Record fields"
// @Success 201 {object} http.RecordResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Failure 422 {object} http.ErrorResponse
// @Router /api/faas [post]
func (h Handler) CreateRecordHandler(
	ctx context.Context,
	actor identity.Identity,
	req httptransport.CreateRecordRequest,
) (httptransport.RecordResponse, error) {
	fields, err := fieldsFromDTO(req.Fields)
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	record, err := h.CreateRecord.Execute(ctx, actor, commands.CreateRecordCommand{Fields: fields})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return httptransport.RecordResponse{Record: mapRecord(record)}, nil
}

// UpdateRecordHandler godoc
// @Summary Update a FAAS record's fields
// @Description Replaces the editable fields of a draft or submitted record. Status is never changed by this route.
// @Tags faas-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Param request body http.UpdateRecordRequest true "Record fields"
// @Success 200 {object} http.RecordResponse
// @Failure 403 {object} http.ErrorResponse
// @Failure 404 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /api/faas/{record_id} [put]
func (h Handler) UpdateRecordHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
	req httptransport.UpdateRecordRequest,
) (httptransport.RecordResponse, error) {
	fields, err := fieldsFromDTO(req.Fields)
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	record, err := h.UpdateRecord.Update(ctx, actor, commands.UpdateRecordCommand{
		RecordID: recordID,
		Fields:   fields,
	})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return httptransport.RecordResponse{Record: mapRecord(record)}, nil
}

// SaveDraftHandler godoc
// @Summary Save a draft
// @Description Creates a draft when record_id is empty, otherwise overwrites the existing draft's fields.
// @Tags faas-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body http.SaveDraftRequest true "Draft payload"
// @Success 200 {object} http.RecordResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /api/faas/drafts [post]
func (h Handler) SaveDraftHandler(
	ctx context.Context,
	actor identity.Identity,
	req httptransport.SaveDraftRequest,
) (httptransport.RecordResponse, error) {
	fields, err := fieldsFromDTO(req.Fields)
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	record, err := h.UpdateRecord.SaveDraft(ctx, actor, commands.SaveDraftCommand{
		RecordID: req.RecordID,
		Fields:   fields,
	})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return httptransport.RecordResponse{Record: mapRecord(record)}, nil
}

// SubmitRecordHandler godoc
// @Summary Submit a draft for approval
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 200 {object} http.RecordResponse
// @Failure 404 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /api/faas/{record_id}/submit [post]
func (h Handler) SubmitRecordHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (httptransport.RecordResponse, error) {
	record, err := h.ReviewRecord.Submit(ctx, actor, commands.SubmitRecordCommand{RecordID: recordID})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return httptransport.RecordResponse{Record: mapRecord(record)}, nil
}

// ApproveRecordHandler godoc
// @Summary Approve a submitted record
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 200 {object} http.RecordResponse
// @Failure 403 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /api/faas/{record_id}/approve [post]
func (h Handler) ApproveRecordHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (httptransport.RecordResponse, error) {
	record, err := h.ReviewRecord.Approve(ctx, actor, commands.ApproveRecordCommand{RecordID: recordID})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return httptransport.RecordResponse{Record: mapRecord(record)}, nil
}

// DeleteDraftHandler godoc
// @Summary Delete a draft
// @Description Removes a draft owned by the caller. Submitted and approved records cannot be deleted.
// @Tags faas-service
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 204
// @Failure 404 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /api/faas/{record_id} [delete]
func (h Handler) DeleteDraftHandler(ctx context.Context, actor identity.Identity, recordID string) error {
	return h.DeleteDraft.Execute(ctx, actor, commands.DeleteDraftCommand{RecordID: recordID})
}

// GetRecordHandler godoc
// @Summary Fetch one record
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 200 {object} http.RecordResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /api/faas/{record_id} [get]
func (h Handler) GetRecordHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (httptransport.RecordResponse, error) {
	record, err := h.Queries.GetRecord(ctx, actor, recordID)
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return httptransport.RecordResponse{Record: mapRecord(record)}, nil
}

// ListMyRecordsHandler godoc
// @Summary List the caller's records
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Success 200 {object} http.ListRecordsResponse
// @Router /api/faas/mine [get]
func (h Handler) ListMyRecordsHandler(
	ctx context.Context,
	actor identity.Identity,
) (httptransport.ListRecordsResponse, error) {
	items, err := h.Queries.ListMyRecords(ctx, actor)
	if err != nil {
		return httptransport.ListRecordsResponse{}, err
	}
	return httptransport.ListRecordsResponse{Items: mapRecords(items)}, nil
}

// ListDraftsHandler godoc
// @Summary List drafts
// @Description Encoders see their own drafts; approvers and administrators see every draft.
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Success 200 {object} http.ListRecordsResponse
// @Router /api/faas/drafts [get]
func (h Handler) ListDraftsHandler(
	ctx context.Context,
	actor identity.Identity,
) (httptransport.ListRecordsResponse, error) {
	items, err := h.Queries.ListDrafts(ctx, actor)
	if err != nil {
		return httptransport.ListRecordsResponse{}, err
	}
	return httptransport.ListRecordsResponse{Items: mapRecords(items)}, nil
}

// ListHistoryHandler godoc
// @Summary List a record's history ledger
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 200 {object} http.ListHistoryResponse
// @Router /api/faas/{record_id}/history [get]
func (h Handler) ListHistoryHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (httptransport.ListHistoryResponse, error) {
	entries, err := h.Queries.ListHistory(ctx, actor, recordID)
	if err != nil {
		return httptransport.ListHistoryResponse{}, err
	}
	items := make([]httptransport.HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, mapHistoryEntry(entry))
	}
	return httptransport.ListHistoryResponse{Items: items}, nil
}

// DeleteHistoryEntryHandler godoc
// @Summary Erase one history entry
// @Description Administrator only. The erasure is traced to the event outbox.
// @Tags faas-service
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Param entry_id path string true "History entry ID"
// @Success 204
// @Failure 403 {object} http.ErrorResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /api/faas/{record_id}/history/{entry_id} [delete]
func (h Handler) DeleteHistoryEntryHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID, entryID string,
) error {
	return h.EraseHistory.DeleteEntry(ctx, actor, recordID, entryID)
}

// ClearHistoryHandler godoc
// @Summary Erase a record's entire history ledger
// @Description Administrator only. The erasure is traced to the event outbox.
// @Tags faas-service
// @Produce json
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 200 {object} http.ClearHistoryResponse
// @Failure 403 {object} http.ErrorResponse
// @Router /api/faas/{record_id}/history [delete]
func (h Handler) ClearHistoryHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (httptransport.ClearHistoryResponse, error) {
	removed, err := h.EraseHistory.Clear(ctx, actor, recordID)
	if err != nil {
		return httptransport.ClearHistoryResponse{}, err
	}
	return httptransport.ClearHistoryResponse{Removed: removed}, nil
}

// ExportRecordHandler godoc
// @Summary Export a record as the printable FAAS workbook
// @Tags faas-service
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param record_id path string true "Record ID"
// @Success 200 {file} binary
// @Failure 404 {object} http.ErrorResponse
// @Router /api/faas/{record_id}/export [get]
func (h Handler) ExportRecordHandler(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (queries.ExportResult, error) {
	return h.Export.Execute(ctx, actor, recordID)
}

// fieldsFromDTO validates the wire payload and maps it onto the domain
// shape. CTC issue dates arrive as plain YYYY-MM-DD strings.
func fieldsFromDTO(dto httptransport.RecordFieldsDTO) (entities.RecordFields, error) {
	if err := validate.Struct(dto); err != nil {
		return entities.RecordFields{}, domainerrors.ErrInvalidRecordInput
	}

	fields := entities.RecordFields{
		ArfNo:    dto.ArfNo,
		PIN:      dto.PIN,
		OctTctNo: dto.OctTctNo,
		CLN:      dto.CLN,

		OwnerName:    dto.OwnerName,
		OwnerAddress: dto.OwnerAddress,

		AdministratorName:    dto.AdministratorName,
		AdministratorAddress: dto.AdministratorAddress,

		PropertyLocation:     dto.PropertyLocation,
		PropertyBarangay:     dto.PropertyBarangay,
		PropertyMunicipality: dto.PropertyMunicipality,
		PropertyProvince:     dto.PropertyProvince,

		NorthBoundary: dto.NorthBoundary,
		SouthBoundary: dto.SouthBoundary,
		EastBoundary:  dto.EastBoundary,
		WestBoundary:  dto.WestBoundary,

		Previous: entities.PreviousAssessment{
			TDNo:            dto.Previous.TDNo,
			Owner:           dto.Previous.Owner,
			EffectivityYear: dto.Previous.EffectivityYear,
			Taxability:      dto.Previous.Taxability,
			AVLand:          dto.Previous.AVLand,
			AVImprovements:  dto.Previous.AVImprovements,
			TotalAV:         dto.Previous.TotalAV,
		},

		MemorandaCode:      dto.MemorandaCode,
		MemorandaParagraph: dto.MemorandaParagraph,

		CTCNo:       dto.CTCNo,
		CTCIssuedAt: dto.CTCIssuedAt,
	}

	if dto.CTCIssuedOn != "" {
		issuedOn, err := time.Parse(ctcDateLayout, dto.CTCIssuedOn)
		if err != nil {
			return entities.RecordFields{}, domainerrors.ErrInvalidRecordInput
		}
		issuedOn = issuedOn.UTC()
		fields.CTCIssuedOn = &issuedOn
	}

	for _, line := range dto.LandAppraisals {
		fields.LandAppraisals = append(fields.LandAppraisals, entities.LandAppraisal{
			Classification:  line.Classification,
			SubClass:        line.SubClass,
			Area:            line.Area,
			UnitValue:       line.UnitValue,
			BaseMarketValue: line.BaseMarketValue,
		})
	}
	for _, line := range dto.Improvements {
		fields.Improvements = append(fields.Improvements, entities.OtherImprovement{
			ProductClass: line.ProductClass,
			Quantity:     line.Quantity,
			UnitValue:    line.UnitValue,
		})
	}
	for _, line := range dto.MarketValueAdjustments {
		fields.MarketValueAdjustments = append(fields.MarketValueAdjustments, entities.MarketValueAdjustment{
			AdjustmentFactor:  line.AdjustmentFactor,
			PercentAdjustment: line.PercentAdjustment,
			ValueAdjustment:   line.ValueAdjustment,
		})
	}
	for _, line := range dto.Assessments {
		fields.Assessments = append(fields.Assessments, entities.PropertyAssessment{
			Kind:            line.Kind,
			ActualUse:       line.ActualUse,
			MarketValue:     line.MarketValue,
			AssessmentLevel: line.AssessmentLevel,
			AssessedValue:   line.AssessedValue,
		})
	}
	return fields, nil
}

func mapRecord(record entities.FaasRecord) httptransport.RecordDTO {
	dto := httptransport.RecordDTO{
		RecordID:     record.RecordID,
		Status:       string(record.Status),
		OwnerID:      record.OwnerID,
		Fields:       fieldsToDTO(record.Fields),
		ApprovedByID: record.ApprovedByID,
		CreatedAt:    record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    record.UpdatedAt.Format(time.RFC3339),
	}
	if record.SubmittedAt != nil {
		dto.SubmittedAt = record.SubmittedAt.Format(time.RFC3339)
	}
	if record.ApprovedAt != nil {
		dto.ApprovedAt = record.ApprovedAt.Format(time.RFC3339)
	}
	return dto
}

func mapRecords(records []entities.FaasRecord) []httptransport.RecordDTO {
	items := make([]httptransport.RecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, mapRecord(record))
	}
	return items
}

func fieldsToDTO(fields entities.RecordFields) httptransport.RecordFieldsDTO {
	dto := httptransport.RecordFieldsDTO{
		ArfNo:    fields.ArfNo,
		PIN:      fields.PIN,
		OctTctNo: fields.OctTctNo,
		CLN:      fields.CLN,

		OwnerName:    fields.OwnerName,
		OwnerAddress: fields.OwnerAddress,

		AdministratorName:    fields.AdministratorName,
		AdministratorAddress: fields.AdministratorAddress,

		PropertyLocation:     fields.PropertyLocation,
		PropertyBarangay:     fields.PropertyBarangay,
		PropertyMunicipality: fields.PropertyMunicipality,
		PropertyProvince:     fields.PropertyProvince,

		NorthBoundary: fields.NorthBoundary,
		SouthBoundary: fields.SouthBoundary,
		EastBoundary:  fields.EastBoundary,
		WestBoundary:  fields.WestBoundary,

		Previous: httptransport.PreviousAssessmentDTO{
			TDNo:            fields.Previous.TDNo,
			Owner:           fields.Previous.Owner,
			EffectivityYear: fields.Previous.EffectivityYear,
			Taxability:      fields.Previous.Taxability,
			AVLand:          fields.Previous.AVLand,
			AVImprovements:  fields.Previous.AVImprovements,
			TotalAV:         fields.Previous.TotalAV,
		},

		MemorandaCode:      fields.MemorandaCode,
		MemorandaParagraph: fields.MemorandaParagraph,

		CTCNo:       fields.CTCNo,
		CTCIssuedAt: fields.CTCIssuedAt,
	}
	if fields.CTCIssuedOn != nil {
		dto.CTCIssuedOn = fields.CTCIssuedOn.Format(ctcDateLayout)
	}

	for _, line := range fields.LandAppraisals {
		dto.LandAppraisals = append(dto.LandAppraisals, httptransport.LandAppraisalDTO{
			Classification:  line.Classification,
			SubClass:        line.SubClass,
			Area:            line.Area,
			UnitValue:       line.UnitValue,
			BaseMarketValue: line.BaseMarketValue,
		})
	}
	for _, line := range fields.Improvements {
		dto.Improvements = append(dto.Improvements, httptransport.OtherImprovementDTO{
			ProductClass: line.ProductClass,
			Quantity:     line.Quantity,
			UnitValue:    line.UnitValue,
		})
	}
	for _, line := range fields.MarketValueAdjustments {
		dto.MarketValueAdjustments = append(dto.MarketValueAdjustments, httptransport.MarketValueAdjustmentDTO{
			AdjustmentFactor:  line.AdjustmentFactor,
			PercentAdjustment: line.PercentAdjustment,
			ValueAdjustment:   line.ValueAdjustment,
		})
	}
	for _, line := range fields.Assessments {
		dto.Assessments = append(dto.Assessments, httptransport.PropertyAssessmentDTO{
			Kind:            line.Kind,
			ActualUse:       line.ActualUse,
			MarketValue:     line.MarketValue,
			AssessmentLevel: line.AssessmentLevel,
			AssessedValue:   line.AssessedValue,
		})
	}
	return dto
}

func mapHistoryEntry(entry entities.HistoryEntry) httptransport.HistoryEntryDTO {
	return httptransport.HistoryEntryDTO{
		EntryID:   entry.EntryID,
		RecordID:  entry.RecordID,
		ActorID:   entry.ActorID,
		ActorName: entry.ActorName,
		Action:    string(entry.Action),
		Snapshot:  entry.Snapshot,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}
