package server

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/documind/documind/internal/auth"
	"github.com/documind/documind/internal/common"
	"github.com/documind/documind/internal/document"
	"github.com/documind/documind/internal/export"
	"github.com/documind/documind/internal/repository"
)

// Server wires the HTTP surface: document parsing, API key management, and
// the PDF utility endpoints.
type Server struct {
	pipeline *document.Pipeline
	auth     *auth.Service
	docs     repository.DocumentRepository
	exporter *export.Service
	cfg      common.ServerConfig
	storage  common.StorageConfig
	logger   *slog.Logger
}

func New(
	pipeline *document.Pipeline,
	authSvc *auth.Service,
	docs repository.DocumentRepository,
	exporter *export.Service,
	cfg common.ServerConfig,
	storage common.StorageConfig,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		pipeline: pipeline,
		auth:     authSvc,
		docs:     docs,
		exporter: exporter,
		cfg:      cfg,
		storage:  storage,
		logger:   logger,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		// Key management is authorized by the operator's admin token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdminToken)
			r.Post("/keys", s.handleCreateKey)
			r.Get("/keys", s.handleListKeys)
			r.Delete("/keys/{id}", s.handleRevokeKey)
		})

		// Everything else is authorized by an issued API key.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAPIKey)
			r.Post("/documents/parse", s.handleParse)
			r.Get("/documents", s.handleListDocuments)
			r.Get("/documents/export", s.handleExport)
			r.Get("/documents/pdf/sample", s.handleSamplePDF)
			r.Post("/documents/pdf/split", s.handleSplitPDF)
		})
	})

	return r
}

// presentedKey pulls the credential from X-API-Key or a bearer Authorization
// header.
func presentedKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.auth.Authenticate(r.Context(), presentedKey(r))
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		s.logger.Debug("request authenticated", "key_id", rec.ID, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdminToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := presentedKey(r)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "admin token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
