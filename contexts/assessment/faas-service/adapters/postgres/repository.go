package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"faas/contexts/assessment/faas-service/domain/entities"
	domainerrors "faas/contexts/assessment/faas-service/domain/errors"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/events"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateRecord(ctx context.Context, record entities.FaasRecord) error {
	row, err := recordModelFromEntity(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRecordInput
		}
		return mapStoreErr(err)
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, recordID string) (entities.FaasRecord, error) {
	var row faasRecordModel
	err := r.db.WithContext(ctx).
		Where("record_id = ?", strings.TrimSpace(recordID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FaasRecord{}, domainerrors.ErrRecordNotFound
		}
		return entities.FaasRecord{}, mapStoreErr(err)
	}
	return row.toEntity()
}

// MutateRecord locks the row, verifies status, applies mutate, and
// persists inside one transaction. This is the serialization point for
// all same-record status transitions.
func (r *Repository) MutateRecord(
	ctx context.Context,
	recordID string,
	allowed []entities.Status,
	mutate func(*entities.FaasRecord) error,
) (entities.FaasRecord, error) {
	recordID = strings.TrimSpace(recordID)
	var result entities.FaasRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row faasRecordModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("record_id = ?", recordID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRecordNotFound
			}
			return err
		}
		if !statusAllowed(entities.Status(row.Status), allowed) {
			return domainerrors.ErrInvalidStatusTransition
		}

		record, err := row.toEntity()
		if err != nil {
			return err
		}
		if err := mutate(&record); err != nil {
			return err
		}

		updated, err := recordModelFromEntity(record)
		if err != nil {
			return err
		}
		if err := tx.Model(&faasRecordModel{}).
			Where("record_id = ?", recordID).
			Updates(recordUpdates(updated)).
			Error; err != nil {
			return err
		}
		result = record
		return nil
	})
	if err != nil {
		return entities.FaasRecord{}, mapStoreErr(err)
	}
	return result, nil
}

func (r *Repository) DeleteRecord(ctx context.Context, recordID string, expected entities.Status) error {
	recordID = strings.TrimSpace(recordID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row faasRecordModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("record_id = ?", recordID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRecordNotFound
			}
			return err
		}
		if entities.Status(row.Status) != expected {
			return domainerrors.ErrInvalidStatusTransition
		}
		return tx.Where("record_id = ?", recordID).Delete(&faasRecordModel{}).Error
	})
	return mapStoreErr(err)
}

func (r *Repository) ListRecords(ctx context.Context, filter ports.RecordFilter) ([]entities.FaasRecord, error) {
	tx := r.db.WithContext(ctx).Model(&faasRecordModel{})
	if strings.TrimSpace(filter.OwnerID) != "" {
		tx = tx.Where("owner_id = ?", strings.TrimSpace(filter.OwnerID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []faasRecordModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, mapStoreErr(err)
	}

	items := make([]entities.FaasRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, nil
}

func (r *Repository) AppendHistory(ctx context.Context, entry entities.HistoryEntry) error {
	snapshot, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return err
	}
	row := faasHistoryModel{
		EntryID:   strings.TrimSpace(entry.EntryID),
		RecordID:  strings.TrimSpace(entry.RecordID),
		ActorID:   strings.TrimSpace(entry.ActorID),
		ActorName: strings.TrimSpace(entry.ActorName),
		Action:    string(entry.Action),
		Snapshot:  snapshot,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return mapStoreErr(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *Repository) ListHistory(ctx context.Context, recordID string) ([]entities.HistoryEntry, error) {
	var rows []faasHistoryModel
	err := r.db.WithContext(ctx).
		Where("record_id = ?", strings.TrimSpace(recordID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, mapStoreErr(err)
	}

	entries := make([]entities.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntity())
	}
	return entries, nil
}

func (r *Repository) DeleteHistoryEntry(ctx context.Context, recordID, entryID string) error {
	result := r.db.WithContext(ctx).
		Where("record_id = ?", strings.TrimSpace(recordID)).
		Where("entry_id = ?", strings.TrimSpace(entryID)).
		Delete(&faasHistoryModel{})
	if result.Error != nil {
		return mapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrHistoryEntryNotFound
	}
	return nil
}

func (r *Repository) ClearHistory(ctx context.Context, recordID string) (int, error) {
	result := r.db.WithContext(ctx).
		Where("record_id = ?", strings.TrimSpace(recordID)).
		Delete(&faasHistoryModel{})
	if result.Error != nil {
		return 0, mapStoreErr(result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) AppendErasure(ctx context.Context, event events.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := erasureOutboxModel{
		OutboxID:  strings.TrimSpace(event.EventID),
		EventType: strings.TrimSpace(event.EventType),
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: event.OccurredAtUTC.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	return mapStoreErr(createResult.Error)
}

func (r *Repository) ListPendingErasures(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []erasureOutboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, mapStoreErr(err)
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkErasurePublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&erasureOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return mapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrHistoryEntryNotFound
	}
	return nil
}

type faasRecordModel struct {
	RecordID     string     `gorm:"column:record_id;primaryKey"`
	Status       string     `gorm:"column:status"`
	OwnerID      string     `gorm:"column:owner_id"`
	Fields       []byte     `gorm:"column:fields"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at"`
	ApprovedAt   *time.Time `gorm:"column:approved_at"`
	ApprovedByID string     `gorm:"column:approved_by_id"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (faasRecordModel) TableName() string {
	return "faas_records"
}

func recordModelFromEntity(record entities.FaasRecord) (faasRecordModel, error) {
	fields, err := json.Marshal(record.Fields)
	if err != nil {
		return faasRecordModel{}, err
	}
	return faasRecordModel{
		RecordID:     strings.TrimSpace(record.RecordID),
		Status:       string(record.Status),
		OwnerID:      strings.TrimSpace(record.OwnerID),
		Fields:       fields,
		SubmittedAt:  normalizeOptionalTime(record.SubmittedAt),
		ApprovedAt:   normalizeOptionalTime(record.ApprovedAt),
		ApprovedByID: strings.TrimSpace(record.ApprovedByID),
		CreatedAt:    record.CreatedAt.UTC(),
		UpdatedAt:    record.UpdatedAt.UTC(),
	}, nil
}

func recordUpdates(row faasRecordModel) map[string]any {
	return map[string]any{
		"status":         row.Status,
		"owner_id":       row.OwnerID,
		"fields":         row.Fields,
		"submitted_at":   row.SubmittedAt,
		"approved_at":    row.ApprovedAt,
		"approved_by_id": row.ApprovedByID,
		"updated_at":     row.UpdatedAt,
	}
}

func (m faasRecordModel) toEntity() (entities.FaasRecord, error) {
	var fields entities.RecordFields
	if len(m.Fields) > 0 {
		if err := json.Unmarshal(m.Fields, &fields); err != nil {
			return entities.FaasRecord{}, err
		}
	}
	return entities.FaasRecord{
		RecordID:     m.RecordID,
		Status:       entities.Status(m.Status),
		OwnerID:      m.OwnerID,
		Fields:       fields,
		SubmittedAt:  normalizeOptionalTime(m.SubmittedAt),
		ApprovedAt:   normalizeOptionalTime(m.ApprovedAt),
		ApprovedByID: m.ApprovedByID,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

type faasHistoryModel struct {
	EntryID   string    `gorm:"column:entry_id;primaryKey"`
	RecordID  string    `gorm:"column:record_id;index"`
	ActorID   string    `gorm:"column:actor_id"`
	ActorName string    `gorm:"column:actor_name"`
	Action    string    `gorm:"column:action"`
	Snapshot  []byte    `gorm:"column:snapshot"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (faasHistoryModel) TableName() string {
	return "faas_record_history"
}

func (m faasHistoryModel) toEntity() entities.HistoryEntry {
	snapshot := map[string]any{}
	if len(m.Snapshot) > 0 {
		_ = json.Unmarshal(m.Snapshot, &snapshot)
	}
	return entities.HistoryEntry{
		EntryID:   m.EntryID,
		RecordID:  m.RecordID,
		ActorID:   m.ActorID,
		ActorName: m.ActorName,
		Action:    entities.HistoryAction(m.Action),
		Snapshot:  snapshot,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type erasureOutboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (erasureOutboxModel) TableName() string {
	return "faas_erasure_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func statusAllowed(status entities.Status, allowed []entities.Status) bool {
	for _, candidate := range allowed {
		if status == candidate {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapStoreErr keeps business errors intact and folds infrastructure
// timeouts into the retryable store-unavailable kind.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domainerrors.ErrRecordNotFound),
		errors.Is(err, domainerrors.ErrHistoryEntryNotFound),
		errors.Is(err, domainerrors.ErrInvalidStatusTransition),
		errors.Is(err, domainerrors.ErrInvalidRecordInput):
		return err
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		pgconn.Timeout(err):
		return domainerrors.ErrStoreUnavailable
	default:
		return err
	}
}
