package ports

import (
	"context"
	"time"

	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/internal/shared/events"
)

type RecordFilter struct {
	OwnerID string
	Status  entities.Status
}

// Repository is the durable store for FAAS records. The engine takes it
// as an injected capability and re-reads state on every operation.
type Repository interface {
	CreateRecord(ctx context.Context, record entities.FaasRecord) error
	GetRecord(ctx context.Context, recordID string) (entities.FaasRecord, error)

	// MutateRecord is the compare-and-set used for every status-sensitive
	// write: the implementation must load the current row, verify its
	// status is in allowed, apply mutate, and persist, all in one
	// transaction. A status outside allowed fails with
	// ErrInvalidStatusTransition; an error from mutate aborts the write.
	MutateRecord(
		ctx context.Context,
		recordID string,
		allowed []entities.Status,
		mutate func(*entities.FaasRecord) error,
	) (entities.FaasRecord, error)

	// DeleteRecord removes the record only while its status equals
	// expected, atomically.
	DeleteRecord(ctx context.Context, recordID string, expected entities.Status) error

	ListRecords(ctx context.Context, filter RecordFilter) ([]entities.FaasRecord, error)
}

// HistoryLedger is the append-only audit log per record. The engine
// appends only after a transition commits; the erase operations are
// administrator-only side doors.
type HistoryLedger interface {
	AppendHistory(ctx context.Context, entry entities.HistoryEntry) error
	ListHistory(ctx context.Context, recordID string) ([]entities.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, recordID, entryID string) error
	ClearHistory(ctx context.Context, recordID string) (int, error)
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// ErasureOutbox records history erasures outside the ledger they erase,
// so the erasure's own trace survives.
type ErasureOutbox interface {
	AppendErasure(ctx context.Context, event events.Envelope) error
	ListPendingErasures(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkErasurePublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// WorkbookRenderer turns a record into the FAAS spreadsheet artifact.
type WorkbookRenderer interface {
	Render(record entities.FaasRecord) ([]byte, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
