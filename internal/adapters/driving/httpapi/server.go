// Package httpapi exposes the action dispatch endpoint over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/ports/driven"
	"github.com/custodia-labs/graph-actions/internal/core/services"
)

// maxBodyBytes bounds the request body so a hostile caller cannot make the
// decoder buffer arbitrary payloads.
const maxBodyBytes = 4 << 20

// Server dispatches incoming invocation requests against the action
// registry.
type Server struct {
	registry *services.ActionRegistry
	tokens   driven.TokenProvider
	audit    driven.AuditStore
	log      *slog.Logger
}

// NewServer wires the dispatch handler. audit may be nil when invocation
// recording is disabled.
func NewServer(registry *services.ActionRegistry, tokens driven.TokenProvider, audit driven.AuditStore, log *slog.Logger) *Server {
	return &Server{registry: registry, tokens: tokens, audit: audit, log: log}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/invoke", s.handleInvoke)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "actions": s.registry.Len()})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	log := s.log.With("request_id", requestID)

	var req domain.InvocationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		log.Warn("malformed request body", "error", err)
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		s.record(r, "", domain.OutcomeBadRequest, "malformed_body", started)
		return
	}
	if req.Accion == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingAction.Error())
		s.record(r, "", domain.OutcomeBadRequest, "missing_action", started)
		return
	}
	log = log.With("action", req.Accion)

	action, err := s.registry.Resolve(req.Accion)
	if err != nil {
		var unknown *domain.UnknownActionError
		if errors.As(err, &unknown) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":               unknown.Error(),
				"acciones_disponibles": unknown.Known,
			})
			s.record(r, req.Accion, domain.OutcomeBadRequest, "unknown_action", started)
			return
		}
		log.Error("resolving action", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error resolving action")
		s.record(r, req.Accion, domain.OutcomeError, "resolve", started)
		return
	}

	params, err := services.CoerceParams(req.Parametros, action.Params)
	if err != nil {
		var unsupported *domain.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			// A declared type the coercer does not know is a catalog
			// bug, not a caller mistake.
			log.Error("action schema broken", "error", err)
			writeError(w, http.StatusInternalServerError, "action parameter schema is invalid")
			s.record(r, req.Accion, domain.OutcomeError, "schema", started)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		s.record(r, req.Accion, domain.OutcomeBadRequest, "parameter_type", started)
		return
	}

	auth, err := s.authorize(r, action)
	if err != nil {
		log.Error("acquiring token", "error", err)
		writeError(w, http.StatusInternalServerError, "could not authenticate against Microsoft Graph")
		s.record(r, req.Accion, domain.OutcomeError, "auth", started)
		return
	}

	result, err := services.ExecuteAction(r.Context(), action, params, auth)
	if err != nil {
		s.writeExecutionError(w, r, log, req.Accion, err, started)
		return
	}

	s.writeResult(w, log, result)
	s.record(r, req.Accion, domain.OutcomeOK, "", started)
	log.Info("action completed", "duration", time.Since(started))
}

// authorize fetches a Graph token only for actions that declare an
// authenticated handler.
func (s *Server) authorize(r *http.Request, action *domain.Action) (domain.AuthContext, error) {
	if _, needsAuth := action.Handler.(domain.AuthActionFunc); !needsAuth {
		return domain.AuthContext{}, nil
	}
	token, err := s.tokens.GetToken(r.Context())
	if err != nil {
		return domain.AuthContext{}, err
	}
	return domain.NewAuthContext(token), nil
}

func (s *Server) writeExecutionError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error, started time.Time) {
	var binding *domain.BindingError
	if errors.As(err, &binding) {
		writeError(w, http.StatusBadRequest, binding.Error())
		s.record(r, action, domain.OutcomeBadRequest, "binding", started)
		return
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		writeError(w, http.StatusBadRequest, err.Error())
		s.record(r, action, domain.OutcomeBadRequest, "invalid_argument", started)
		return
	}
	log.Error("action failed", "error", err)
	writeError(w, http.StatusInternalServerError, "error executing action '"+action+"'")
	s.record(r, action, domain.OutcomeError, "execution", started)
}

func (s *Server) writeResult(w http.ResponseWriter, log *slog.Logger, result any) {
	switch v := result.(type) {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case domain.Binary:
		contentType := v.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(v.Content); err != nil {
			log.Warn("writing binary response", "error", err)
		}
	case string:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(v)); err != nil {
			log.Warn("writing text response", "error", err)
		}
	default:
		writeJSON(w, http.StatusOK, v)
	}
}

// record persists an invocation outcome. Failures are logged and never
// surface to the caller.
func (s *Server) record(r *http.Request, action string, outcome string, errorKind string, started time.Time) {
	if s.audit == nil {
		return
	}
	rec := domain.InvocationRecord{
		ID:        uuid.NewString(),
		Action:    action,
		Outcome:   outcome,
		ErrorKind: errorKind,
		Duration:  time.Since(started),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.audit.Record(r.Context(), rec); err != nil {
		s.log.Warn("recording invocation", "error", err)
	}
}
