package commands

import (
	"context"
	"log/slog"
	"strings"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/contexts/assessment/faas-service/domain/services"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

type SubmitRecordCommand struct {
	RecordID string
}

type ApproveRecordCommand struct {
	RecordID string
}

// ReviewRecordUseCase moves a record along the lifecycle. Both paths go
// through the repository's compare-and-set so concurrent transitions on
// the same record resolve to exactly one winner.
type ReviewRecordUseCase struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ReviewRecordUseCase) Submit(
	ctx context.Context,
	actor identity.Identity,
	cmd SubmitRecordCommand,
) (entities.FaasRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleEncoder); err != nil {
		return entities.FaasRecord{}, err
	}

	now := uc.Clock.Now().UTC()
	record, err := uc.Repository.MutateRecord(ctx, strings.TrimSpace(cmd.RecordID),
		services.SourcesFor(entities.StatusSubmitted),
		func(current *entities.FaasRecord) error {
			if current.OwnerID != actor.ID && !actor.IsAdministrator() {
				return identity.ErrForbidden
			}
			current.Status = entities.StatusSubmitted
			current.SubmittedAt = &now
			current.UpdatedAt = now
			return nil
		})
	if err != nil {
		return entities.FaasRecord{}, err
	}

	entry, err := newHistoryEntry(ctx, uc.IDGen, record.RecordID, actor, entities.ActionSubmit, fieldsSnapshot(record), now)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return entities.FaasRecord{}, err
	}

	logger.Info("faas record submitted for approval",
		"event", "faas_record_submitted",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
	)
	return record, nil
}

func (uc ReviewRecordUseCase) Approve(
	ctx context.Context,
	actor identity.Identity,
	cmd ApproveRecordCommand,
) (entities.FaasRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleApprover); err != nil {
		return entities.FaasRecord{}, err
	}

	now := uc.Clock.Now().UTC()
	record, err := uc.Repository.MutateRecord(ctx, strings.TrimSpace(cmd.RecordID),
		services.SourcesFor(entities.StatusApproved),
		func(current *entities.FaasRecord) error {
			current.Status = entities.StatusApproved
			current.ApprovedAt = &now
			current.ApprovedByID = actor.ID
			current.UpdatedAt = now
			return nil
		})
	if err != nil {
		return entities.FaasRecord{}, err
	}

	entry, err := newHistoryEntry(ctx, uc.IDGen, record.RecordID, actor, entities.ActionApprove, fieldsSnapshot(record), now)
	if err != nil {
		return entities.FaasRecord{}, err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return entities.FaasRecord{}, err
	}

	logger.Info("faas record approved",
		"event", "faas_record_approved",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
		"approved_by", actor.ID,
	)
	return record, nil
}
