package queries

import (
	"context"
	"log/slog"
	"strings"

	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

type QueryUseCase struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetRecord(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (entities.FaasRecord, error) {
	if err := identity.Authorize(actor, identity.RoleEncoder, identity.RoleApprover); err != nil {
		return entities.FaasRecord{}, err
	}
	return uc.Repository.GetRecord(ctx, strings.TrimSpace(recordID))
}

func (uc QueryUseCase) ListMyRecords(
	ctx context.Context,
	actor identity.Identity,
) ([]entities.FaasRecord, error) {
	if err := identity.Authorize(actor, identity.RoleEncoder, identity.RoleApprover); err != nil {
		return nil, err
	}
	return uc.Repository.ListRecords(ctx, ports.RecordFilter{OwnerID: actor.ID})
}

// ListDrafts shows an encoder their own drafts; approvers and
// administrators see every draft.
func (uc QueryUseCase) ListDrafts(
	ctx context.Context,
	actor identity.Identity,
) ([]entities.FaasRecord, error) {
	if err := identity.Authorize(actor, identity.RoleEncoder, identity.RoleApprover); err != nil {
		return nil, err
	}

	filter := ports.RecordFilter{Status: entities.StatusDraft}
	if actor.Role == identity.RoleEncoder {
		filter.OwnerID = actor.ID
	}
	return uc.Repository.ListRecords(ctx, filter)
}

func (uc QueryUseCase) ListHistory(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) ([]entities.HistoryEntry, error) {
	if err := identity.Authorize(actor, identity.RoleEncoder, identity.RoleApprover); err != nil {
		return nil, err
	}
	return uc.Ledger.ListHistory(ctx, strings.TrimSpace(recordID))
}
