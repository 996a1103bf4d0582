package services

import (
	"testing"

	"faas/contexts/assessment/faas-service/domain/entities"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to entities.Status }{
		{entities.StatusDraft, entities.StatusSubmitted},
		{entities.StatusSubmitted, entities.StatusApproved},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Fatalf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to entities.Status }{
		{entities.StatusDraft, entities.StatusApproved},
		{entities.StatusSubmitted, entities.StatusDraft},
		{entities.StatusApproved, entities.StatusSubmitted},
		{entities.StatusApproved, entities.StatusDraft},
		{entities.StatusApproved, entities.StatusApproved},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Fatalf("expected %s -> %s to be rejected", c.from, c.to)
		}
	}
}

func TestEditableAndDeletable(t *testing.T) {
	if !Editable(entities.StatusDraft) || !Editable(entities.StatusSubmitted) {
		t.Fatalf("draft and submitted records must stay editable")
	}
	if Editable(entities.StatusApproved) {
		t.Fatalf("approved records must be terminal")
	}
	if !Deletable(entities.StatusDraft) {
		t.Fatalf("drafts must be deletable")
	}
	if Deletable(entities.StatusSubmitted) || Deletable(entities.StatusApproved) {
		t.Fatalf("only drafts are deletable")
	}
}
