package commands

import (
	"context"
	"log/slog"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/domain/entities"
	domainerrors "faas/contexts/assessment/faas-service/domain/errors"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

type CreateRecordCommand struct {
	Fields entities.RecordFields
}

type CreateRecordUseCase struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CreateRecordUseCase) Execute(
	ctx context.Context,
	actor identity.Identity,
	cmd CreateRecordCommand,
) (entities.FaasRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleEncoder); err != nil {
		return entities.FaasRecord{}, err
	}
	if !cmd.Fields.Validate() {
		return entities.FaasRecord{}, domainerrors.ErrInvalidRecordInput
	}

	recordID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	now := uc.Clock.Now().UTC()
	record := entities.FaasRecord{
		RecordID:  recordID,
		Status:    entities.StatusDraft,
		OwnerID:   actor.ID,
		Fields:    cmd.Fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Repository.CreateRecord(ctx, record); err != nil {
		return entities.FaasRecord{}, err
	}

	entry, err := newHistoryEntry(ctx, uc.IDGen, recordID, actor, entities.ActionCreate, fieldsSnapshot(record), now)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return entities.FaasRecord{}, err
	}

	logger.Info("faas record created",
		"event", "faas_record_created",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
		"owner_id", record.OwnerID,
	)
	return record, nil
}
