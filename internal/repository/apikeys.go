package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/documind/documind/internal/common"
)

// APIKey is an issued credential for data transfer between layers.
type APIKey struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Name       string     `json:"name"`
	Key        string     `json:"key"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	IsActive   bool       `json:"isActive"`
}

// APIKeyRepository persists issued API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByKey(ctx context.Context, key string) (*APIKey, error)
	ListByUser(ctx context.Context, userID string) ([]*APIKey, error)
	Revoke(ctx context.Context, userID, keyID string) error
	TouchLastUsed(ctx context.Context, keyID string, at time.Time) error
}

type apiKeyRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAPIKeyRepository(db *sql.DB, logger *slog.Logger) APIKeyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &apiKeyRepo{db: db, logger: logger}
}

func (r *apiKeyRepo) Create(ctx context.Context, k *APIKey) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, user_id, name, key, created_at, expires_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.UserID, k.Name, k.Key, k.CreatedAt, k.ExpiresAt, k.IsActive,
	)
	if err != nil {
		r.logger.Error("failed to create api key", "user_id", k.UserID, "error", err)
		return common.WrapError(err, "create api key")
	}
	return nil
}

func (r *apiKeyRepo) GetByKey(ctx context.Context, key string) (*APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, key, created_at, last_used_at, expires_at, is_active
		 FROM api_keys WHERE key = ?`, key)

	var k APIKey
	err := row.Scan(&k.ID, &k.UserID, &k.Name, &k.Key, &k.CreatedAt, &k.LastUsedAt, &k.ExpiresAt, &k.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get api key", "error", err)
		return nil, common.WrapError(err, "get api key")
	}
	return &k, nil
}

func (r *apiKeyRepo) ListByUser(ctx context.Context, userID string) ([]*APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, key, created_at, last_used_at, expires_at, is_active
		 FROM api_keys WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		r.logger.Error("failed to list api keys", "user_id", userID, "error", err)
		return nil, common.WrapError(err, "list api keys")
	}
	defer rows.Close()

	var keys []*APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.UserID, &k.Name, &k.Key, &k.CreatedAt, &k.LastUsedAt, &k.ExpiresAt, &k.IsActive); err != nil {
			return nil, common.WrapError(err, "scan api key")
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (r *apiKeyRepo) Revoke(ctx context.Context, userID, keyID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET is_active = FALSE WHERE id = ? AND user_id = ?`, keyID, userID)
	if err != nil {
		r.logger.Error("failed to revoke api key", "key_id", keyID, "error", err)
		return common.WrapError(err, "revoke api key")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, keyID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, at, keyID)
	return common.WrapError(err, "touch api key")
}
