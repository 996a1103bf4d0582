package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	faasservice "faas/contexts/assessment/faas-service"
	faaserrors "faas/contexts/assessment/faas-service/domain/errors"
	faashttp "faas/contexts/assessment/faas-service/transport/http"
	identityservice "faas/contexts/identity-access/identity-service"
	identityerrors "faas/contexts/identity-access/identity-service/domain/errors"
	identityhttp "faas/contexts/identity-access/identity-service/transport/http"
	"faas/internal/shared/identity"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "faas/internal/platform/httpserver/docs"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	addr           string
	allowedOrigins []string
	identityModule identityservice.Module
	faasModule     faasservice.Module
}

func New(
	identityModule identityservice.Module,
	faasModule faasservice.Module,
	allowedOrigins []string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		addr:           addr,
		allowedOrigins: allowedOrigins,
		identityModule: identityModule,
		faasModule:     faasModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler returns the fully wired handler chain, exported so tests can
// drive the server without binding a port.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/auth/token", s.handleIssueToken)
	s.mux.HandleFunc("GET /api/auth/me", s.withIdentity(s.handleWhoAmI))

	s.mux.HandleFunc("POST /api/faas", s.withIdentity(s.handleCreateRecord))
	s.mux.HandleFunc("GET /api/faas/mine", s.withIdentity(s.handleListMyRecords))
	s.mux.HandleFunc("POST /api/faas/drafts", s.withIdentity(s.handleSaveDraft))
	s.mux.HandleFunc("GET /api/faas/drafts", s.withIdentity(s.handleListDrafts))
	s.mux.HandleFunc("GET /api/faas/{record_id}", s.withIdentity(s.handleGetRecord))
	s.mux.HandleFunc("PUT /api/faas/{record_id}", s.withIdentity(s.handleUpdateRecord))
	s.mux.HandleFunc("DELETE /api/faas/{record_id}", s.withIdentity(s.handleDeleteDraft))
	s.mux.HandleFunc("POST /api/faas/{record_id}/submit", s.withIdentity(s.handleSubmitRecord))
	s.mux.HandleFunc("POST /api/faas/{record_id}/approve", s.withIdentity(s.handleApproveRecord))
	s.mux.HandleFunc("GET /api/faas/{record_id}/history", s.withIdentity(s.handleListHistory))
	s.mux.HandleFunc("DELETE /api/faas/{record_id}/history", s.withIdentity(s.handleClearHistory))
	s.mux.HandleFunc("DELETE /api/faas/{record_id}/history/{entry_id}", s.withIdentity(s.handleDeleteHistoryEntry))
	s.mux.HandleFunc("GET /api/faas/{record_id}/export", s.withIdentity(s.handleExportRecord))
}

// withIdentity resolves the bearer credential on every request before
// it reaches a record handler. Demo tokens and signed JWTs both pass
// through the identity module's resolver.
func (s *Server) withIdentity(next func(http.ResponseWriter, *http.Request, identity.Identity)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		credential := bearerCredential(r)
		if credential == "" {
			writeError(w, http.StatusUnauthorized, "missing_credential", "Authorization bearer token is required")
			return
		}

		actor, err := s.identityModule.Handler.ResolveCredential(r.Context(), credential)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		next(w, r, actor)
	}
}

func bearerCredential(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identityModule.Handler.IssueTokenHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	writeJSON(w, http.StatusOK, s.identityModule.Handler.WhoAmIHandler(r.Context(), actor))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	var req faashttp.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.faasModule.Handler.CreateRecordHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	var req faashttp.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.faasModule.Handler.UpdateRecordHandler(r.Context(), actor, r.PathValue("record_id"), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	var req faashttp.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.faasModule.Handler.SaveDraftHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitRecord(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.SubmitRecordHandler(r.Context(), actor, r.PathValue("record_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveRecord(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.ApproveRecordHandler(r.Context(), actor, r.PathValue("record_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	if err := s.faasModule.Handler.DeleteDraftHandler(r.Context(), actor, r.PathValue("record_id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.GetRecordHandler(r.Context(), actor, r.PathValue("record_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyRecords(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.ListMyRecordsHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.ListDraftsHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.ListHistoryHandler(r.Context(), actor, r.PathValue("record_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	resp, err := s.faasModule.Handler.ClearHistoryHandler(r.Context(), actor, r.PathValue("record_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	err := s.faasModule.Handler.DeleteHistoryEntryHandler(
		r.Context(),
		actor,
		r.PathValue("record_id"),
		r.PathValue("entry_id"),
	)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportRecord(w http.ResponseWriter, r *http.Request, actor identity.Identity) {
	result, err := s.faasModule.Handler.ExportRecordHandler(r.Context(), actor, r.PathValue("record_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated),
		errors.Is(err, identityerrors.ErrInvalidCredential),
		errors.Is(err, identityerrors.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, faaserrors.ErrRecordNotFound),
		errors.Is(err, faaserrors.ErrHistoryEntryNotFound),
		errors.Is(err, identityerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, faaserrors.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, faaserrors.ErrInvalidRecordInput),
		errors.Is(err, identityerrors.ErrUnknownRole):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", err.Error())
	case errors.Is(err, faaserrors.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "record store is temporarily unavailable")
	default:
		s.logger.Error("unhandled domain error",
			"event", "http_unhandled_error",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, faashttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
