package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	faasservice "faas/contexts/assessment/faas-service"
	faashttp "faas/contexts/assessment/faas-service/transport/http"
	identityservice "faas/contexts/identity-access/identity-service"
	"faas/internal/shared/events"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, events.Envelope) error { return nil }

func newTestServer() *Server {
	identityModule := identityservice.NewInMemoryModule(nil, nil)
	faasModule := faasservice.NewInMemoryModule(nil, nopPublisher{}, nil)
	return New(identityModule, faasModule, []string{"*"}, nil, ":0")
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createPayload(owner string) faashttp.CreateRecordRequest {
	return faashttp.CreateRecordRequest{
		Fields: faashttp.RecordFieldsDTO{
			ArfNo:     "ARF-2025-0100",
			OwnerName: owner,
		},
	}
}

func createRecordAs(t *testing.T, handler http.Handler, token string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/faas", token, createPayload("Juan Dela Cruz"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create record: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp faashttp.RecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.Record.RecordID
}

func TestRequestsWithoutCredentialRejected(t *testing.T) {
	handler := newTestServer().Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/faas/mine", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credential, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/faas", "demo:nobody", createPayload("Juan Dela Cruz"))
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected rejection for unknown demo user, got %d", rec.Code)
	}
}

func TestDemoTokenLifecycleOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()

	recordID := createRecordAs(t, handler, "demo:encoder1")

	rec := doJSON(t, handler, http.MethodPost, "/api/faas/"+recordID+"/submit", "demo:encoder1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/faas/"+recordID+"/submit", "demo:encoder1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second submit: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/faas/"+recordID+"/approve", "demo:encoder1", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("encoder approve: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/faas/"+recordID+"/approve", "demo:approver1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approver approve: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestHistoryErasureRequiresAdministratorOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()

	recordID := createRecordAs(t, handler, "demo:encoder1")

	rec := doJSON(t, handler, http.MethodDelete, "/api/faas/"+recordID+"/history", "demo:encoder1", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("encoder clear: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/faas/"+recordID+"/history", "demo:admin1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin clear: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp faashttp.ClearHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode clear response: %v", err)
	}
	if resp.Removed != 1 {
		t.Fatalf("expected 1 removed entry, got %d", resp.Removed)
	}
}

func TestIssueTokenAndWhoAmI(t *testing.T) {
	handler := newTestServer().Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/token", "", map[string]string{"username": "approver1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("issue token: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var issued struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if issued.Token == "" {
		t.Fatal("expected signed token")
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/auth/me", issued.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("whoami: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var me struct {
		Identity struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"identity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode whoami response: %v", err)
	}
	if me.Identity.Username != "approver1" || me.Identity.Role != "approver" {
		t.Fatalf("unexpected identity %+v", me.Identity)
	}
}

func TestDraftDeletionRules(t *testing.T) {
	handler := newTestServer().Handler()

	recordID := createRecordAs(t, handler, "demo:encoder1")

	rec := doJSON(t, handler, http.MethodDelete, "/api/faas/"+recordID, "demo:encoder2", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/faas/"+recordID, "demo:encoder1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/faas/"+recordID, "demo:encoder1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}
