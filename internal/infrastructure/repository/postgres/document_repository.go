package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	storage_path TEXT NOT NULL DEFAULT '',
	rel_path TEXT NOT NULL DEFAULT '',
	uploaded_by TEXT NOT NULL,
	status TEXT NOT NULL,
	metadata JSONB,
	entities JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_uploaded_by ON documents(uploaded_by);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents((metadata->>'category'));
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `id, filename, mime_type, size_bytes, storage_path, rel_path, uploaded_by, status, metadata, entities, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	metadataJSON, entitiesJSON, err := marshalKnowledge(doc.Metadata, doc.Entities)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		doc.ID, doc.FileName, doc.MimeType, doc.SizeBytes, doc.StoragePath, doc.RelPath,
		doc.UploadedBy, string(doc.Status), metadataJSON, entitiesJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

// List returns a filtered snapshot in arrival order.
func (r *DocumentRepository) List(ctx context.Context, filter ports.DocumentFilter) ([]domain.Document, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, string(status))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.UploadedBy != "" {
		args = append(args, filter.UploadedBy)
		where = append(where, fmt.Sprintf("uploaded_by = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		where = append(where, fmt.Sprintf("metadata->>'category' = $%d", len(args)))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRowAffected(res, "update status", id)
}

// SaveKnowledge replaces metadata and entities wholesale and sets the status,
// keyed by document id so concurrent completions stay isolated.
func (r *DocumentRepository) SaveKnowledge(
	ctx context.Context,
	id string,
	status domain.DocumentStatus,
	md *domain.Metadata,
	entities []domain.Entity,
) error {
	metadataJSON, entitiesJSON, err := marshalKnowledge(md, entities)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, metadata = $3, entities = $4, updated_at = $5
WHERE id = $1
`, id, string(status), metadataJSON, entitiesJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document knowledge: %w", err)
	}
	return requireRowAffected(res, "save knowledge", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc         domain.Document
		status      string
		metadataRaw []byte
		entitiesRaw []byte
	)
	err := row.Scan(
		&doc.ID, &doc.FileName, &doc.MimeType, &doc.SizeBytes, &doc.StoragePath, &doc.RelPath,
		&doc.UploadedBy, &status, &metadataRaw, &entitiesRaw, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatus(status)
	if len(metadataRaw) > 0 {
		var md domain.Metadata
		if err := json.Unmarshal(metadataRaw, &md); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
		doc.Metadata = &md
	}
	if len(entitiesRaw) > 0 {
		if err := json.Unmarshal(entitiesRaw, &doc.Entities); err != nil {
			return nil, fmt.Errorf("unmarshal entities: %w", err)
		}
	}
	return &doc, nil
}

func marshalKnowledge(md *domain.Metadata, entities []domain.Entity) (metadataJSON any, entitiesJSON []byte, err error) {
	if md != nil {
		raw, err := json.Marshal(md)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal metadata: %w", err)
		}
		metadataJSON = raw
	}
	if entities == nil {
		entities = []domain.Entity{}
	}
	entitiesJSON, err = json.Marshal(entities)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal entities: %w", err)
	}
	return metadataJSON, entitiesJSON, nil
}

func requireRowAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
