package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/documind/documind/internal/common"
)

type createKeyRequest struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	ExpiresAt string `json:"expiresAt,omitempty"` // RFC 3339, optional
}

func (s *Server) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == "" || req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "userId and name are required")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "expiresAt must be RFC 3339")
			return
		}
		expiresAt = &t
	}

	key, err := s.auth.GenerateKey(r.Context(), req.UserID, req.Name, expiresAt)
	if err != nil {
		s.logger.Error("key generation failed", "user_id", req.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate API key")
		return
	}
	s.writeJSON(w, http.StatusCreated, key)
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	keys, err := s.auth.ListKeys(r.Context(), userID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list API keys")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

func (s *Server) handleRevokeKey(w http.ResponseWriter, r *http.Request) {
	keyID := chi.URLParam(r, "id")
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	if err := s.auth.RevokeKey(r.Context(), userID, keyID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "API key not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to revoke API key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
