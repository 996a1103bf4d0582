package commands

import (
	"context"
	"log/slog"
	"strings"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/domain/entities"
	domainerrors "faas/contexts/assessment/faas-service/domain/errors"
	"faas/contexts/assessment/faas-service/domain/services"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

type UpdateRecordCommand struct {
	RecordID string
	Fields   entities.RecordFields
}

type SaveDraftCommand struct {
	// RecordID is optional: empty means create a fresh draft.
	RecordID string
	Fields   entities.RecordFields
}

// UpdateRecordUseCase covers the two field-editing paths. Update never
// touches status; SaveDraft is the status-forcing path and only applies
// while the record is still a draft.
type UpdateRecordUseCase struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

var editableStatuses = services.EditableStatuses()

func (uc UpdateRecordUseCase) Update(
	ctx context.Context,
	actor identity.Identity,
	cmd UpdateRecordCommand,
) (entities.FaasRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleEncoder); err != nil {
		return entities.FaasRecord{}, err
	}
	if !cmd.Fields.Validate() {
		return entities.FaasRecord{}, domainerrors.ErrInvalidRecordInput
	}

	now := uc.Clock.Now().UTC()
	record, err := uc.Repository.MutateRecord(ctx, strings.TrimSpace(cmd.RecordID), editableStatuses,
		func(current *entities.FaasRecord) error {
			if current.OwnerID != actor.ID && !actor.IsAdministrator() {
				return identity.ErrForbidden
			}
			current.Fields = cmd.Fields
			current.UpdatedAt = now
			return nil
		})
	if err != nil {
		return entities.FaasRecord{}, err
	}

	entry, err := newHistoryEntry(ctx, uc.IDGen, record.RecordID, actor, entities.ActionUpdate, fieldsSnapshot(record), now)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return entities.FaasRecord{}, err
	}

	logger.Info("faas record updated",
		"event", "faas_record_updated",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
	)
	return record, nil
}

func (uc UpdateRecordUseCase) SaveDraft(
	ctx context.Context,
	actor identity.Identity,
	cmd SaveDraftCommand,
) (entities.FaasRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleEncoder); err != nil {
		return entities.FaasRecord{}, err
	}
	if !cmd.Fields.Validate() {
		return entities.FaasRecord{}, domainerrors.ErrInvalidRecordInput
	}

	now := uc.Clock.Now().UTC()
	recordID := strings.TrimSpace(cmd.RecordID)
	if recordID == "" {
		return uc.createDraft(ctx, actor, cmd.Fields)
	}

	record, err := uc.Repository.MutateRecord(ctx, recordID, []entities.Status{entities.StatusDraft},
		func(current *entities.FaasRecord) error {
			if current.OwnerID != actor.ID && !actor.IsAdministrator() {
				return identity.ErrForbidden
			}
			current.Fields = cmd.Fields
			current.Status = entities.StatusDraft
			current.UpdatedAt = now
			return nil
		})
	if err != nil {
		return entities.FaasRecord{}, err
	}

	entry, err := newHistoryEntry(ctx, uc.IDGen, record.RecordID, actor, entities.ActionDraftSave, fieldsSnapshot(record), now)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return entities.FaasRecord{}, err
	}

	logger.Info("faas draft saved",
		"event", "faas_draft_saved",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
	)
	return record, nil
}

func (uc UpdateRecordUseCase) createDraft(
	ctx context.Context,
	actor identity.Identity,
	fields entities.RecordFields,
) (entities.FaasRecord, error) {
	recordID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	now := uc.Clock.Now().UTC()
	record := entities.FaasRecord{
		RecordID:  recordID,
		Status:    entities.StatusDraft,
		OwnerID:   actor.ID,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Repository.CreateRecord(ctx, record); err != nil {
		return entities.FaasRecord{}, err
	}

	entry, err := newHistoryEntry(ctx, uc.IDGen, recordID, actor, entities.ActionDraftSave, fieldsSnapshot(record), now)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return entities.FaasRecord{}, err
	}

	application.ResolveLogger(uc.Logger).Info("faas draft created",
		"event", "faas_draft_created",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
	)
	return record, nil
}
