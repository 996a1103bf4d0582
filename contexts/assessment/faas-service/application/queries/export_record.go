package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/identity"
)

type ExportResult struct {
	Filename string
	Content  []byte
}

// ExportRecordUseCase renders a record as the printable FAAS workbook.
// The export is recorded in the history ledger like any other action.
type ExportRecordUseCase struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Renderer   ports.WorkbookRenderer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ExportRecordUseCase) Execute(
	ctx context.Context,
	actor identity.Identity,
	recordID string,
) (ExportResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := identity.Authorize(actor, identity.RoleEncoder, identity.RoleApprover); err != nil {
		return ExportResult{}, err
	}

	record, err := uc.Repository.GetRecord(ctx, strings.TrimSpace(recordID))
	if err != nil {
		return ExportResult{}, err
	}

	content, err := uc.Renderer.Render(record)
	if err != nil {
		return ExportResult{}, err
	}

	now := uc.Clock.Now().UTC()
	filename := fmt.Sprintf("FAAS_%s_%s_%s.xlsx",
		sanitizeFilePart(record.Fields.ArfNo),
		sanitizeFilePart(record.Fields.OwnerName),
		now.Format("20060102150405"),
	)

	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	err = uc.Ledger.AppendHistory(ctx, entities.HistoryEntry{
		EntryID:   entryID,
		RecordID:  record.RecordID,
		ActorID:   actor.ID,
		ActorName: actor.FullName,
		Action:    entities.ActionExport,
		Snapshot:  map[string]any{"filename": filename},
		CreatedAt: now,
	})
	if err != nil {
		return ExportResult{}, err
	}

	logger.Info("faas record exported",
		"event", "faas_record_exported",
		"module", "assessment/faas-service",
		"layer", "application",
		"record_id", record.RecordID,
		"filename", filename,
	)
	return ExportResult{Filename: filename, Content: content}, nil
}

// sanitizeFilePart strips characters that are illegal or awkward in
// generated filenames, collapsing runs to single underscores.
func sanitizeFilePart(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	cleaned := strings.Trim(b.String(), "_")
	if cleaned == "" {
		return "Unknown"
	}
	return cleaned
}
