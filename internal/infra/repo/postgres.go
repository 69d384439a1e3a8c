package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

const (
	documentColumns = `id, source_id, title, source, format, mime_type, size_bytes, storage_key, status, failure_reason, created_at, updated_at`
	recordColumns   = `id, document_id, filename, summary, extracted_text, num_sentences, strategy, language, created_at`

	// seq breaks created_at ties so the newest insert always comes first.
	postgresListRecordsSQL = `SELECT ` + recordColumns + ` FROM pdfs WHERE document_id = $1 ORDER BY created_at DESC, seq DESC`
)

type rowScanner interface {
	Scan(dest ...any) error
}

// EnsurePostgresSchema creates the documents and pdfs tables.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements(postgresSchema) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply postgres schema: %w", err)
		}
	}
	return nil
}

// PostgresDocumentRepository persists documents in Postgres.
type PostgresDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDocumentRepository constructs the repository.
func NewPostgresDocumentRepository(pool *pgxpool.Pool) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{pool: pool}
}

func (r *PostgresDocumentRepository) Create(ctx context.Context, doc domain.Document) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, doc.ID, doc.SourceID, doc.Title, string(doc.Source), doc.Format, doc.MimeType, doc.SizeBytes, doc.StorageKey,
		string(doc.Status), doc.FailureReason, doc.CreatedAt, doc.UpdatedAt)
	return err
}

func (r *PostgresDocumentRepository) UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus, failureReason *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3
	`, string(status), failureReason, docID)
	return err
}

func (r *PostgresDocumentRepository) Get(ctx context.Context, docID uuid.UUID) (domain.Document, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 LIMIT 1`, docID)
	doc, err := scanPostgresDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, err
	}
	return doc, true, nil
}

func (r *PostgresDocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		args = append(args, statuses)
		query += ` WHERE status = ANY($1)`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanPostgresDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Ping checks pool connectivity.
func (r *PostgresDocumentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ domain.DocumentRepository = (*PostgresDocumentRepository)(nil)

// PostgresRecordRepository persists summary records in the pdfs table.
type PostgresRecordRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecordRepository constructs the repository.
func NewPostgresRecordRepository(pool *pgxpool.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool}
}

func (r *PostgresRecordRepository) Save(ctx context.Context, rec domain.SummaryRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pdfs (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.DocumentID, rec.SourceID, rec.SummaryText, rec.ExtractedText,
		rec.NumSentences, rec.Strategy, rec.Language, rec.CreatedAt)
	return err
}

func (r *PostgresRecordRepository) Get(ctx context.Context, id uuid.UUID) (domain.SummaryRecord, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM pdfs WHERE id = $1 LIMIT 1`, id)
	rec, err := scanPostgresRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SummaryRecord{}, false, nil
	}
	if err != nil {
		return domain.SummaryRecord{}, false, err
	}
	return rec, true, nil
}

func (r *PostgresRecordRepository) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.SummaryRecord, error) {
	rows, err := r.pool.Query(ctx, postgresListRecordsSQL, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SummaryRecord
	for rows.Next() {
		rec, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Ping checks pool connectivity.
func (r *PostgresRecordRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ domain.RecordRepository = (*PostgresRecordRepository)(nil)

func scanPostgresDocument(row rowScanner) (domain.Document, error) {
	var (
		doc            domain.Document
		source, status string
		failureReason  *string
	)
	if err := row.Scan(&doc.ID, &doc.SourceID, &doc.Title, &source, &doc.Format, &doc.MimeType, &doc.SizeBytes,
		&doc.StorageKey, &status, &failureReason, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return domain.Document{}, err
	}
	doc.Source = domain.DocumentSource(source)
	doc.Status = domain.DocumentStatus(status)
	doc.FailureReason = failureReason
	return doc, nil
}

func scanPostgresRecord(row rowScanner) (domain.SummaryRecord, error) {
	var rec domain.SummaryRecord
	if err := row.Scan(&rec.ID, &rec.DocumentID, &rec.SourceID, &rec.SummaryText, &rec.ExtractedText,
		&rec.NumSentences, &rec.Strategy, &rec.Language, &rec.CreatedAt); err != nil {
		return domain.SummaryRecord{}, err
	}
	return rec, nil
}
