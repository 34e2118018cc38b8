package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/documind/documind/internal/common"
	"github.com/documind/documind/internal/repository"
)

// keyPrefix marks issued keys so they are recognizable in logs and configs.
const keyPrefix = "dk_"

// Service issues, lists, revokes, and authenticates API keys.
type Service struct {
	repo   repository.APIKeyRepository
	logger *slog.Logger
}

func NewService(repo repository.APIKeyRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// GenerateKey issues a new opaque key for userID. The key value is returned
// exactly once; only callers holding it can authenticate.
func (s *Service) GenerateKey(ctx context.Context, userID, name string, expiresAt *time.Time) (*repository.APIKey, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate key material: %w", err)
	}

	key := &repository.APIKey{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Key:       keyPrefix + hex.EncodeToString(raw),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, err
	}

	s.logger.Info("api key issued", "key_id", key.ID, "user_id", userID, "name", name)
	return key, nil
}

// Authenticate resolves a presented key to its record. Missing, revoked, and
// expired keys all fail with ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, key string) (*repository.APIKey, error) {
	if key == "" {
		return nil, common.ErrUnauthorized
	}
	rec, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if !rec.IsActive {
		return nil, common.ErrUnauthorized
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		return nil, common.ErrUnauthorized
	}

	// Best effort; a failed timestamp update must not reject the caller.
	if err := s.repo.TouchLastUsed(ctx, rec.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update key last_used_at", "key_id", rec.ID, "error", err)
	}
	return rec, nil
}

// ListKeys returns every key issued to userID, newest first.
func (s *Service) ListKeys(ctx context.Context, userID string) ([]*repository.APIKey, error) {
	return s.repo.ListByUser(ctx, userID)
}

// RevokeKey soft-disables a key. Revocation is permanent.
func (s *Service) RevokeKey(ctx context.Context, userID, keyID string) error {
	if err := s.repo.Revoke(ctx, userID, keyID); err != nil {
		return err
	}
	s.logger.Info("api key revoked", "key_id", keyID, "user_id", userID)
	return nil
}
