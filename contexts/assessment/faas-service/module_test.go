package faasservice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"faas/contexts/assessment/faas-service/application/commands"
	"faas/contexts/assessment/faas-service/domain/entities"
	domainerrors "faas/contexts/assessment/faas-service/domain/errors"
	"faas/internal/shared/events"
	"faas/internal/shared/identity"
)

var (
	encoderElena = identity.Identity{ID: "user-encoder-1", Username: "encoder1", Role: identity.RoleEncoder, FullName: "Elena Cruz"}
	encoderMarco = identity.Identity{ID: "user-encoder-2", Username: "encoder2", Role: identity.RoleEncoder, FullName: "Marco Reyes"}
	approverDia  = identity.Identity{ID: "user-approver-1", Username: "approver1", Role: identity.RoleApprover, FullName: "Diana Santos"}
	adminRamon   = identity.Identity{ID: "user-admin-1", Username: "admin1", Role: identity.RoleAdministrator, FullName: "Ramon Villanueva"}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newTestModule() (Module, *recordingPublisher) {
	publisher := &recordingPublisher{}
	return NewInMemoryModule(nil, publisher, nil), publisher
}

func sampleFields(owner string) entities.RecordFields {
	return entities.RecordFields{
		ArfNo:     "ARF-2025-0001",
		PIN:       "012-34-5678-901",
		OwnerName: owner,
		LandAppraisals: []entities.LandAppraisal{
			{Classification: "Agricultural"},
		},
	}
}

func createDraft(t *testing.T, module Module, actor identity.Identity) entities.FaasRecord {
	t.Helper()
	record, err := module.Handler.CreateRecord.Execute(context.Background(), actor, commands.CreateRecordCommand{
		Fields: sampleFields("Juan Dela Cruz"),
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	return record
}

func TestRecordLifecycleDraftToApproved(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	if record.Status != entities.StatusDraft {
		t.Fatalf("expected draft status, got %s", record.Status)
	}
	if record.OwnerID != encoderElena.ID {
		t.Fatalf("expected owner %s, got %s", encoderElena.ID, record.OwnerID)
	}

	submitted, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != entities.StatusSubmitted || submitted.SubmittedAt == nil {
		t.Fatalf("expected submitted with timestamp, got %+v", submitted)
	}

	approved, err := module.Handler.ReviewRecord.Approve(ctx, approverDia, commands.ApproveRecordCommand{RecordID: record.RecordID})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != entities.StatusApproved || approved.ApprovedAt == nil {
		t.Fatalf("expected approved with timestamp, got %+v", approved)
	}
	if approved.ApprovedByID != approverDia.ID {
		t.Fatalf("expected approver %s, got %s", approverDia.ID, approved.ApprovedByID)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(entries))
	}
	wantActions := []entities.HistoryAction{entities.ActionCreate, entities.ActionSubmit, entities.ActionApprove}
	for i, want := range wantActions {
		if entries[i].Action != want {
			t.Fatalf("entry %d: expected action %s, got %s", i, want, entries[i].Action)
		}
	}
}

func TestUpdateAfterApproveRejected(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	if _, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := module.Handler.ReviewRecord.Approve(ctx, approverDia, commands.ApproveRecordCommand{RecordID: record.RecordID}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := module.Handler.UpdateRecord.Update(ctx, encoderElena, commands.UpdateRecordCommand{
		RecordID: record.RecordID,
		Fields:   sampleFields("Maria Clara"),
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid status transition, got %v", err)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("failed update must not append history, got %d entries", len(entries))
	}
}

func TestUpdateByNonOwnerEncoderForbidden(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	_, err := module.Handler.UpdateRecord.Update(ctx, encoderMarco, commands.UpdateRecordCommand{
		RecordID: record.RecordID,
		Fields:   sampleFields("Maria Clara"),
	})
	if !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner encoder, got %v", err)
	}
}

func TestUpdateByAdministratorAllowed(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	updated, err := module.Handler.UpdateRecord.Update(ctx, adminRamon, commands.UpdateRecordCommand{
		RecordID: record.RecordID,
		Fields:   sampleFields("Maria Clara"),
	})
	if err != nil {
		t.Fatalf("administrator update: %v", err)
	}
	if updated.Fields.OwnerName != "Maria Clara" {
		t.Fatalf("expected updated owner name, got %s", updated.Fields.OwnerName)
	}
	if updated.Status != entities.StatusDraft {
		t.Fatalf("update must not change status, got %s", updated.Status)
	}
}

func TestSaveDraftCreatesWhenRecordIDEmpty(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record, err := module.Handler.UpdateRecord.SaveDraft(ctx, encoderElena, commands.SaveDraftCommand{
		Fields: sampleFields("Juan Dela Cruz"),
	})
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if record.RecordID == "" || record.Status != entities.StatusDraft {
		t.Fatalf("expected fresh draft, got %+v", record)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != entities.ActionDraftSave {
		t.Fatalf("expected one draft-save entry, got %+v", entries)
	}
}

func TestSaveDraftOnSubmittedRejected(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	if _, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := module.Handler.UpdateRecord.SaveDraft(ctx, encoderElena, commands.SaveDraftCommand{
		RecordID: record.RecordID,
		Fields:   sampleFields("Juan Dela Cruz"),
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("submitted records must not be pulled back to draft, got %v", err)
	}
}

func TestApproveRequiresApproverRole(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	if _, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := module.Handler.ReviewRecord.Approve(ctx, encoderElena, commands.ApproveRecordCommand{RecordID: record.RecordID})
	if !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected forbidden for encoder approve, got %v", err)
	}
}

func TestApproveDraftRejected(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	_, err := module.Handler.ReviewRecord.Approve(ctx, approverDia, commands.ApproveRecordCommand{RecordID: record.RecordID})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("draft must not be approvable, got %v", err)
	}
}

func TestDeleteDraftOnlyWhileDraft(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	if _, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := module.Handler.DeleteDraft.Execute(ctx, encoderElena, commands.DeleteDraftCommand{RecordID: record.RecordID})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("submitted record must not be deletable, got %v", err)
	}

	draft := createDraft(t, module, encoderElena)
	if err := module.Handler.DeleteDraft.Execute(ctx, encoderElena, commands.DeleteDraftCommand{RecordID: draft.RecordID}); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if _, err := module.Handler.Queries.GetRecord(ctx, encoderElena, draft.RecordID); !errors.Is(err, domainerrors.ErrRecordNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestConcurrentSubmitExactlyOneWinner(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrInvalidStatusTransition):
			conflicts++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning submit, got %d", wins)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected create + one submit entry, got %d", len(entries))
	}
}

func TestDraftVisibility(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	createDraft(t, module, encoderElena)
	createDraft(t, module, encoderMarco)

	mine, err := module.Handler.Queries.ListDrafts(ctx, encoderElena)
	if err != nil {
		t.Fatalf("encoder list drafts: %v", err)
	}
	if len(mine) != 1 || mine[0].OwnerID != encoderElena.ID {
		t.Fatalf("encoder must only see own drafts, got %+v", mine)
	}

	all, err := module.Handler.Queries.ListDrafts(ctx, approverDia)
	if err != nil {
		t.Fatalf("approver list drafts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("approver must see every draft, got %d", len(all))
	}
}

func TestHistoryErasureAdministratorOnly(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)

	if _, err := module.Handler.EraseHistory.Clear(ctx, encoderElena, record.RecordID); !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("encoder clear must be forbidden, got %v", err)
	}
	if _, err := module.Handler.EraseHistory.Clear(ctx, approverDia, record.RecordID); !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("approver clear must be forbidden, got %v", err)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("failed erasures must not touch the ledger, got %d entries", len(entries))
	}
}

func TestClearHistoryLeavesOutboxTrace(t *testing.T) {
	module, publisher := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	if _, err := module.Handler.ReviewRecord.Submit(ctx, encoderElena, commands.SubmitRecordCommand{RecordID: record.RecordID}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	removed, err := module.Handler.EraseHistory.Clear(ctx, adminRamon, record.RecordID)
	if err != nil {
		t.Fatalf("clear history: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 entries removed, got %d", removed)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, adminRamon, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty ledger after clear, got %d entries", len(entries))
	}

	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one published erasure trace, got %d", len(publisher.events))
	}
	trace := publisher.events[0]
	if trace.EventType != commands.EventHistoryCleared {
		t.Fatalf("expected %s, got %s", commands.EventHistoryCleared, trace.EventType)
	}
	if trace.EntityID != record.RecordID || trace.ActorID != adminRamon.ID {
		t.Fatalf("trace must carry record and actor, got %+v", trace)
	}
}

func TestDeleteHistoryEntryLeavesOutboxTrace(t *testing.T) {
	module, publisher := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	entries, err := module.Handler.Queries.ListHistory(ctx, adminRamon, record.RecordID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry, got %d (%v)", len(entries), err)
	}

	if err := module.Handler.EraseHistory.DeleteEntry(ctx, adminRamon, record.RecordID, entries[0].EntryID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}

	err = module.Handler.EraseHistory.DeleteEntry(ctx, adminRamon, record.RecordID, entries[0].EntryID)
	if !errors.Is(err, domainerrors.ErrHistoryEntryNotFound) {
		t.Fatalf("expected entry-not-found on repeat, got %v", err)
	}

	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one published trace, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != commands.EventHistoryEntryErased {
		t.Fatalf("expected %s, got %s", commands.EventHistoryEntryErased, publisher.events[0].EventType)
	}
}

func TestExportRecordWorkbook(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	record := createDraft(t, module, encoderElena)
	result, err := module.Handler.Export.Execute(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("expected workbook bytes")
	}
	if !strings.HasPrefix(result.Filename, "FAAS_ARF-2025-0001_Juan_Dela_Cruz_") || !strings.HasSuffix(result.Filename, ".xlsx") {
		t.Fatalf("unexpected export filename %q", result.Filename)
	}

	entries, err := module.Handler.Queries.ListHistory(ctx, encoderElena, record.RecordID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 || entries[1].Action != entities.ActionExport {
		t.Fatalf("expected export history entry, got %+v", entries)
	}
}

func TestCreateRecordRequiresEncoder(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	_, err := module.Handler.CreateRecord.Execute(ctx, approverDia, commands.CreateRecordCommand{
		Fields: sampleFields("Juan Dela Cruz"),
	})
	if !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected forbidden for approver create, got %v", err)
	}

	_, err = module.Handler.CreateRecord.Execute(ctx, identity.Identity{}, commands.CreateRecordCommand{
		Fields: sampleFields("Juan Dela Cruz"),
	})
	if !errors.Is(err, identity.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for zero identity, got %v", err)
	}
}

func TestCreateRecordValidatesFields(t *testing.T) {
	module, _ := newTestModule()
	ctx := context.Background()

	_, err := module.Handler.CreateRecord.Execute(ctx, encoderElena, commands.CreateRecordCommand{
		Fields: entities.RecordFields{},
	})
	if !errors.Is(err, domainerrors.ErrInvalidRecordInput) {
		t.Fatalf("expected invalid input for missing owner name, got %v", err)
	}
}
