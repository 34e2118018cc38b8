package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/documind/documind/internal/common"
)

// DocumentRecord is the persisted metadata of one processed document.
// Extracted text is not stored; only what listing and export need.
type DocumentRecord struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	FileExt      string    `json:"fileExt"`
	FileSize     int64     `json:"fileSize"`
	DocumentType string    `json:"documentType"`
	Language     string    `json:"language"`
	Pages        int       `json:"pages"`
	WarningCount int       `json:"warningCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DocumentRepository persists processed-document metadata.
type DocumentRepository interface {
	Insert(ctx context.Context, rec *DocumentRecord) error
	List(ctx context.Context, limit int) ([]*DocumentRecord, error)
}

type documentRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDocumentRepository(db *sql.DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepo{db: db, logger: logger}
}

func (r *documentRepo) Insert(ctx context.Context, rec *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, file_ext, file_size, document_type, language, pages, warning_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Filename, rec.FileExt, rec.FileSize, rec.DocumentType,
		rec.Language, rec.Pages, rec.WarningCount, rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert document record", "document_id", rec.ID, "error", err)
		return common.WrapError(err, "insert document record")
	}
	return nil
}

func (r *documentRepo) List(ctx context.Context, limit int) ([]*DocumentRecord, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, filename, file_ext, file_size, document_type, language, pages, warning_count, created_at
		 FROM documents ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		r.logger.Error("failed to list document records", "error", err)
		return nil, common.WrapError(err, "list document records")
	}
	defer rows.Close()

	var recs []*DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.FileExt, &rec.FileSize, &rec.DocumentType,
			&rec.Language, &rec.Pages, &rec.WarningCount, &rec.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan document record")
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
