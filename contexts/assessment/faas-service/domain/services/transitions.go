package services

import "faas/contexts/assessment/faas-service/domain/entities"

// The lifecycle is strictly draft -> submitted -> approved. Approved is
// terminal: no further mutation and no re-submission.
var transitions = map[entities.Status]entities.Status{
	entities.StatusDraft:     entities.StatusSubmitted,
	entities.StatusSubmitted: entities.StatusApproved,
}

func CanTransition(from, to entities.Status) bool {
	return transitions[from] == to
}

// SourcesFor lists the statuses a record may hold immediately before
// moving to the given status. Used as the compare-and-set allow-list.
func SourcesFor(to entities.Status) []entities.Status {
	var sources []entities.Status
	for from, next := range transitions {
		if next == to {
			sources = append(sources, from)
		}
	}
	return sources
}

// EditableStatuses is the compare-and-set allow-list for field updates.
func EditableStatuses() []entities.Status {
	return []entities.Status{entities.StatusDraft, entities.StatusSubmitted}
}

// Editable reports whether field updates are still allowed.
func Editable(status entities.Status) bool {
	return status == entities.StatusDraft || status == entities.StatusSubmitted
}

// Deletable reports whether the draft-delete operation applies.
func Deletable(status entities.Status) bool {
	return status == entities.StatusDraft
}
