package errors

import "errors"

var (
	ErrRecordNotFound          = errors.New("faas record not found")
	ErrHistoryEntryNotFound    = errors.New("history entry not found")
	ErrInvalidStatusTransition = errors.New("invalid record status transition")
	ErrInvalidRecordInput      = errors.New("invalid faas record input")
	ErrStoreUnavailable        = errors.New("record store temporarily unavailable")
)
