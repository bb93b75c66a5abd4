// Package httpapi exposes the refinement engine over HTTP. The surface is
// 1:1 with the engine's operations; all bodies are JSON and sessions are
// serialized with their canonical export shape.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mortise/tenon/internal/engine"
	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// Server handles the session routes.
type Server struct {
	engine *engine.Engine
	log    *slog.Logger
}

// NewHandler builds the router. Pass a nil logger for slog.Default().
func NewHandler(e *engine.Engine, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{engine: e, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/export", s.exportSession)
			r.Get("/suggestions", s.suggestResolutions)
			r.Post("/resolutions", s.resolveHole)
			r.Post("/validate", s.validateSession)
			r.Post("/finalize", s.finalizeSession)
		})
	})
	return r
}

type createRequest struct {
	Prompt string `json:"prompt,omitempty"`
	// Draft switches to reverse mode: the session starts from this IR
	// instead of a drafter proposal. Source without a draft also selects
	// reverse mode, with the lifter producing the draft; alongside a
	// draft it is recorded as provenance only.
	Draft  *ir.IR `json:"draft,omitempty"`
	Source string `json:"source,omitempty"`
}

type resolveRequest struct {
	HoleID string                 `json:"hole_id"`
	Text   string                 `json:"resolution_text"`
	Type   session.ResolutionType `json:"resolution_type"`
}

type errorBody struct {
	Code    session.ErrorCode         `json:"code"`
	Message string                    `json:"message"`
	Hole    string                    `json:"hole_id,omitempty"`
	Result  *session.ValidationResult `json:"validation_result,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var (
		sess *session.Session
		err  error
	)
	switch {
	case req.Draft != nil:
		sess, err = s.engine.CreateFromIR(r.Context(), req.Draft, req.Source)
	case req.Source != "":
		sess, err = s.engine.CreateFromSource(r.Context(), req.Source)
	default:
		sess, err = s.engine.Create(r.Context(), req.Prompt)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sums, err := s.engine.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sums == nil {
		sums = []session.Summary{}
	}
	s.writeJSON(w, http.StatusOK, sums)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportSession(w http.ResponseWriter, r *http.Request) {
	data, err := s.engine.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) suggestResolutions(w http.ResponseWriter, r *http.Request) {
	holes := r.URL.Query()["hole"]
	sug, err := s.engine.Suggest(r.Context(), chi.URLParam(r, "id"), holes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sug)
}

func (s *Server) resolveHole(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sess, err := s.engine.Resolve(r.Context(), chi.URLParam(r, "id"), req.HoleID, req.Text, req.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) validateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) finalizeSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}

// writeError maps structured refinement errors onto HTTP statuses.
// Anything without a code is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var se *session.Error
	if !errors.As(err, &se) {
		s.log.Error("internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, statusFor(se.Code), errorBody{
		Code:    se.Code,
		Message: se.Message,
		Hole:    se.HoleID,
		Result:  se.Result,
	})
}

func statusFor(code session.ErrorCode) int {
	switch code {
	case session.ErrCodeSessionNotFound, session.ErrCodeHoleNotFound:
		return http.StatusNotFound
	case session.ErrCodeInvalidResolutionType, session.ErrCodeInvalidResolutionText:
		return http.StatusUnprocessableEntity
	case session.ErrCodeSessionFinalized,
		session.ErrCodeUnresolvedAmbiguities,
		session.ErrCodeValidationFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
