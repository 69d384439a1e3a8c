package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

// OpenSQLite opens (creating when needed) the database at path with WAL and
// foreign keys enabled. ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// EnsureSQLiteSchema creates the documents and pdfs tables.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements(sqliteSchema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

// SQLiteDocumentRepository persists documents in SQLite.
type SQLiteDocumentRepository struct {
	db *sql.DB
}

// NewSQLiteDocumentRepository constructs the repository.
func NewSQLiteDocumentRepository(db *sql.DB) *SQLiteDocumentRepository {
	return &SQLiteDocumentRepository{db: db}
}

func (r *SQLiteDocumentRepository) Create(ctx context.Context, doc domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, title, source, format, mime_type, size_bytes, storage_key, status, failure_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID.String(), doc.SourceID, doc.Title, string(doc.Source), doc.Format, doc.MimeType, doc.SizeBytes, doc.StorageKey,
		string(doc.Status), doc.FailureReason, formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
	return err
}

func (r *SQLiteDocumentRepository) UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus, failureReason *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = ?, failure_reason = ?, updated_at = ?
		WHERE id = ?
	`, string(status), failureReason, formatTime(time.Now()), docID.String())
	return err
}

func (r *SQLiteDocumentRepository) Get(ctx context.Context, docID uuid.UUID) (domain.Document, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ? LIMIT 1`, docID.String())
	doc, err := scanSQLiteDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, err
	}
	return doc, true, nil
}

func (r *SQLiteDocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanSQLiteDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Ping checks the database connection.
func (r *SQLiteDocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ domain.DocumentRepository = (*SQLiteDocumentRepository)(nil)

// SQLiteRecordRepository persists summary records in the pdfs table.
type SQLiteRecordRepository struct {
	db *sql.DB
}

// NewSQLiteRecordRepository constructs the repository.
func NewSQLiteRecordRepository(db *sql.DB) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{db: db}
}

func (r *SQLiteRecordRepository) Save(ctx context.Context, rec domain.SummaryRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pdfs (id, document_id, filename, summary, extracted_text, num_sentences, strategy, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID.String(), rec.DocumentID.String(), rec.SourceID, rec.SummaryText, rec.ExtractedText,
		rec.NumSentences, rec.Strategy, rec.Language, formatTime(rec.CreatedAt))
	return err
}

func (r *SQLiteRecordRepository) Get(ctx context.Context, id uuid.UUID) (domain.SummaryRecord, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM pdfs WHERE id = ? LIMIT 1`, id.String())
	rec, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SummaryRecord{}, false, nil
	}
	if err != nil {
		return domain.SummaryRecord{}, false, err
	}
	return rec, true, nil
}

func (r *SQLiteRecordRepository) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.SummaryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM pdfs
		WHERE document_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, docID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SummaryRecord
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Ping checks the database connection.
func (r *SQLiteRecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ domain.RecordRepository = (*SQLiteRecordRepository)(nil)

func scanSQLiteDocument(row rowScanner) (domain.Document, error) {
	var (
		doc                  domain.Document
		id, source, status   string
		failureReason        sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &doc.SourceID, &doc.Title, &source, &doc.Format, &doc.MimeType, &doc.SizeBytes,
		&doc.StorageKey, &status, &failureReason, &createdAt, &updatedAt); err != nil {
		return domain.Document{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse document id: %w", err)
	}
	doc.ID = parsed
	doc.Source = domain.DocumentSource(source)
	doc.Status = domain.DocumentStatus(status)
	if failureReason.Valid {
		doc.FailureReason = &failureReason.String
	}
	doc.CreatedAt = parseTime(createdAt)
	doc.UpdatedAt = parseTime(updatedAt)
	return doc, nil
}

func scanSQLiteRecord(row rowScanner) (domain.SummaryRecord, error) {
	var (
		rec              domain.SummaryRecord
		id, docID, stamp string
	)
	if err := row.Scan(&id, &docID, &rec.SourceID, &rec.SummaryText, &rec.ExtractedText,
		&rec.NumSentences, &rec.Strategy, &rec.Language, &stamp); err != nil {
		return domain.SummaryRecord{}, err
	}
	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return domain.SummaryRecord{}, fmt.Errorf("parse record id: %w", err)
	}
	if rec.DocumentID, err = uuid.Parse(docID); err != nil {
		return domain.SummaryRecord{}, fmt.Errorf("parse document id: %w", err)
	}
	rec.CreatedAt = parseTime(stamp)
	return rec, nil
}

// formatTime stores timestamps as sortable UTC text.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// timeLayout has fixed width fractions so lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
