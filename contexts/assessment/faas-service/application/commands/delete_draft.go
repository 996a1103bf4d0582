package commands

import (
	"context"
	"log/slog"
	"strings"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

type DeleteDraftCommand struct {
	RecordID string
}

type DeleteDraftUseCase struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc DeleteDraftUseCase) Execute(
	ctx context.Context,
	actor identity.Identity,
	cmd DeleteDraftCommand,
) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleEncoder); err != nil {
		return err
	}

	recordID := strings.TrimSpace(cmd.RecordID)
	record, err := uc.Repository.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if record.OwnerID != actor.ID && !actor.IsAdministrator() {
		return identity.ErrForbidden
	}

	// The delete itself re-checks the draft status atomically; the
	// ownership check above may act on a copy, but status races cannot
	// delete a submitted or approved record.
	if err := uc.Repository.DeleteRecord(ctx, recordID, entities.StatusDraft); err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	entry, err := newHistoryEntry(ctx, uc.IDGen, recordID, actor, entities.ActionDelete, fieldsSnapshot(record), now)
	if err != nil {
		return err
	}
	if err := uc.Ledger.AppendHistory(ctx, entry); err != nil {
		return err
	}

	logger.Info("faas draft deleted",
		"event", "faas_draft_deleted",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", recordID,
	)
	return nil
}
