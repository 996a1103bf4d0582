package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"faas/contexts/assessment/faas-service/domain/entities"
	domainerrors "faas/contexts/assessment/faas-service/domain/errors"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/events"
)

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter used by tests and demo runs. The
// single mutex makes MutateRecord a true compare-and-set: status check
// and mutation happen under one critical section.
type Store struct {
	mu sync.RWMutex

	records map[string]entities.FaasRecord
	history map[string][]entities.HistoryEntry
	outbox  []outboxRow
}

func NewStore(seed []entities.FaasRecord) *Store {
	records := make(map[string]entities.FaasRecord, len(seed))
	for _, item := range seed {
		records[item.RecordID] = item
	}
	return &Store{
		records: records,
		history: make(map[string][]entities.HistoryEntry),
	}
}

func (s *Store) CreateRecord(_ context.Context, record entities.FaasRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.RecordID]; exists {
		return domainerrors.ErrInvalidRecordInput
	}
	s.records[record.RecordID] = record
	return nil
}

func (s *Store) GetRecord(_ context.Context, recordID string) (entities.FaasRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[strings.TrimSpace(recordID)]
	if !exists {
		return entities.FaasRecord{}, domainerrors.ErrRecordNotFound
	}
	return record, nil
}

func (s *Store) MutateRecord(
	_ context.Context,
	recordID string,
	allowed []entities.Status,
	mutate func(*entities.FaasRecord) error,
) (entities.FaasRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[strings.TrimSpace(recordID)]
	if !exists {
		return entities.FaasRecord{}, domainerrors.ErrRecordNotFound
	}
	if !statusAllowed(record.Status, allowed) {
		return entities.FaasRecord{}, domainerrors.ErrInvalidStatusTransition
	}

	updated := record
	if err := mutate(&updated); err != nil {
		return entities.FaasRecord{}, err
	}
	s.records[updated.RecordID] = updated
	return updated, nil
}

func (s *Store) DeleteRecord(_ context.Context, recordID string, expected entities.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordID = strings.TrimSpace(recordID)
	record, exists := s.records[recordID]
	if !exists {
		return domainerrors.ErrRecordNotFound
	}
	if record.Status != expected {
		return domainerrors.ErrInvalidStatusTransition
	}
	delete(s.records, recordID)
	return nil
}

func (s *Store) ListRecords(_ context.Context, filter ports.RecordFilter) ([]entities.FaasRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.FaasRecord, 0, len(s.records))
	for _, record := range s.records {
		if strings.TrimSpace(filter.OwnerID) != "" && record.OwnerID != strings.TrimSpace(filter.OwnerID) {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		items = append(items, record)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AppendHistory(_ context.Context, entry entities.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[entry.RecordID] = append(s.history[entry.RecordID], entry)
	return nil
}

func (s *Store) ListHistory(_ context.Context, recordID string) ([]entities.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]entities.HistoryEntry(nil), s.history[strings.TrimSpace(recordID)]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *Store) DeleteHistoryEntry(_ context.Context, recordID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordID = strings.TrimSpace(recordID)
	entries := s.history[recordID]
	for i, entry := range entries {
		if entry.EntryID == strings.TrimSpace(entryID) {
			s.history[recordID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return domainerrors.ErrHistoryEntryNotFound
}

func (s *Store) ClearHistory(_ context.Context, recordID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordID = strings.TrimSpace(recordID)
	removed := len(s.history[recordID])
	delete(s.history, recordID)
	return removed, nil
}

func (s *Store) AppendErasure(_ context.Context, event events.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAtUTC,
		},
	})
	return nil
}

func (s *Store) ListPendingErasures(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkErasurePublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrHistoryEntryNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func statusAllowed(status entities.Status, allowed []entities.Status) bool {
	for _, candidate := range allowed {
		if status == candidate {
			return true
		}
	}
	return false
}
