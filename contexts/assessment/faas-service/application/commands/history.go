package commands

import (
	"context"
	"time"

	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

// newHistoryEntry builds the audit line appended after a committed
// operation. Callers append it only once the store write has succeeded,
// so failed operations leave no trace in the ledger.
func newHistoryEntry(
	ctx context.Context,
	idGen ports.IDGenerator,
	recordID string,
	actor identity.Identity,
	action entities.HistoryAction,
	snapshot map[string]any,
	at time.Time,
) (entities.HistoryEntry, error) {
	entryID, err := idGen.NewID(ctx)
	if err != nil {
		return entities.HistoryEntry{}, err
	}
	return entities.HistoryEntry{
		EntryID:   entryID,
		RecordID:  recordID,
		ActorID:   actor.ID,
		ActorName: actor.FullName,
		Action:    action,
		Snapshot:  snapshot,
		CreatedAt: at,
	}, nil
}

func fieldsSnapshot(record entities.FaasRecord) map[string]any {
	return map[string]any{
		"status":     string(record.Status),
		"owner_name": record.Fields.OwnerName,
		"arf_no":     record.Fields.ArfNo,
		"pin":        record.Fields.PIN,
	}
}
