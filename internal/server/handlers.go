package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/internal/models"
	"github.com/hyperjump/verso/internal/search"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"default":      s.engine.DefaultTranslation(),
		"translations": s.engine.Translations(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		s.respondError(w, http.StatusNotImplemented, "reload not enabled")
		return
	}
	name := chi.URLParam(r, "name")
	if !slices.Contains(s.engine.Translations(), name) {
		s.respondError(w, http.StatusNotFound, "unknown translation: "+name)
		return
	}
	s.logger.Debug("reload request", zap.String("translation", name))
	if err := s.reloader.Reload(r.Context(), name); err != nil {
		s.logger.Error("reload failed", zap.String("translation", name), zap.Error(err))
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"translation": name, "status": "reloaded"})
}

func (s *Server) handlePassage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("book") == "" {
		s.respondError(w, http.StatusBadRequest, "book is required")
		return
	}
	p, err := location.ParsePartial(q.Get("book"), q.Get("location"))
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondPassage(w, q.Get("translation"), p)
}

func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	addr, err := location.ParseReference(chi.URLParam(r, "ref"))
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondPassage(w, r.URL.Query().Get("translation"), addr.Partial())
}

func (s *Server) respondPassage(w http.ResponseWriter, translation string, p location.PartialAddress) {
	passage, err := s.engine.Passage(translation, p)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, passage)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", query.Query),
		zap.String("within", query.Within),
		zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// respondFailure maps parse and validation errors to 400 and missing
// translations, books, chapters or verses to 404.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	var (
		bookErr   *book.ParseError
		locErr    *location.ParseError
		formatErr *location.FormatError
		notFound  *corpus.NotFoundError
	)
	switch {
	case errors.As(err, &bookErr):
		resp := errorResponse{Error: err.Error()}
		if b, ok := bookErr.Suggest(); ok {
			resp.Suggestion = b.Name()
		}
		s.respondJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &locErr), errors.As(err, &formatErr),
		errors.Is(err, models.ErrInvalidQuery), errors.Is(err, corpus.ErrBookRequired):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound), errors.Is(err, search.ErrUnknownTranslation):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}
