package entities

import "time"

type HistoryAction string

const (
	ActionCreate    HistoryAction = "create"
	ActionUpdate    HistoryAction = "update"
	ActionDraftSave HistoryAction = "draft-save"
	ActionSubmit    HistoryAction = "submit"
	ActionApprove   HistoryAction = "approve"
	ActionDelete    HistoryAction = "delete"
	ActionExport    HistoryAction = "export"
)

// HistoryEntry is one immutable audit line for a record. Entries are
// append-only from the lifecycle engine's perspective; only the
// administrator erase operations may remove them.
type HistoryEntry struct {
	EntryID   string
	RecordID  string
	ActorID   string
	ActorName string
	Action    HistoryAction
	Snapshot  map[string]any
	CreatedAt time.Time
}
