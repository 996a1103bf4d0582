package commands

import (
	"context"
	"log/slog"
	"strings"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/events"
	"faas/internal/shared/identity"
)

const (
	EventHistoryEntryErased = "faas.history.entry_erased"
	EventHistoryCleared     = "faas.history.cleared"
)

// EraseHistoryUseCase hosts the administrator-only ledger erasures.
// Every erasure leaves an event in the outbox, outside the ledger it
// erases, so the erasure itself stays auditable.
type EraseHistoryUseCase struct {
	Ledger ports.HistoryLedger
	Outbox ports.ErasureOutbox
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc EraseHistoryUseCase) DeleteEntry(
	ctx context.Context,
	actor identity.Identity,
	recordID, entryID string,
) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleAdministrator); err != nil {
		return err
	}

	recordID = strings.TrimSpace(recordID)
	entryID = strings.TrimSpace(entryID)
	if err := uc.Ledger.DeleteHistoryEntry(ctx, recordID, entryID); err != nil {
		return err
	}

	if err := uc.appendTrace(ctx, actor, EventHistoryEntryErased, recordID, map[string]any{
		"record_id": recordID,
		"entry_id":  entryID,
	}); err != nil {
		return err
	}

	logger.Info("history entry erased",
		"event", "faas_history_entry_erased",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", recordID,
		"entry_id", entryID,
		"actor_id", actor.ID,
	)
	return nil
}

func (uc EraseHistoryUseCase) Clear(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleAdministrator); err != nil {
		return 0, err
	}

	recordID = strings.TrimSpace(recordID)
	removed, err := uc.Ledger.ClearHistory(ctx, recordID)
	if err != nil {
		return 0, err
	}

	if err := uc.appendTrace(ctx, actor, EventHistoryCleared, recordID, map[string]any{
		"record_id":       recordID,
		"entries_removed": removed,
	}); err != nil {
		return 0, err
	}

	logger.Info("history ledger cleared",
		"event", "faas_history_cleared",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", recordID,
		"entries_removed", removed,
		"actor_id", actor.ID,
	)
	return removed, nil
}

func (uc EraseHistoryUseCase) appendTrace(
	ctx context.Context,
	actor identity.Identity,
	eventType, recordID string,
	payload map[string]any,
) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendErasure(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "assessment/faas-service",
		OccurredAtUTC:  uc.Clock.Now().UTC(),
		EntityType:     "faas_record_history",
		EntityID:       recordID,
		ActorID:        actor.ID,
		PayloadVersion: 1,
		Payload:        payload,
	})
}
