package documents

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// ObjectStorage abstracts blob storage (R2/S3/local disk/memory).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Extractor turns an uploaded artifact into plain text.
type Extractor interface {
	Extract(ctx context.Context, in ExtractInput) (Extraction, error)
	Supports(filename, mimeType string) bool
}

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc Document) error
	UpdateStatus(ctx context.Context, docID uuid.UUID, status DocumentStatus, failureReason *string) error
	Get(ctx context.Context, docID uuid.UUID) (Document, bool, error)
	List(ctx context.Context, filter DocumentFilter) ([]Document, error)
}

// RecordRepository persists summary records.
type RecordRepository interface {
	Save(ctx context.Context, rec SummaryRecord) error
	Get(ctx context.Context, id uuid.UUID) (SummaryRecord, bool, error)
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]SummaryRecord, error)
}

// HealthChecker is implemented by stores that can verify connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// JobQueue enqueues processing tasks.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// DocumentFilter restricts listing to statuses and a maximum count.
type DocumentFilter struct {
	Statuses []DocumentStatus
	Limit    int
}

// Matches reports whether doc passes the status filter.
func (f DocumentFilter) Matches(doc Document) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, status := range f.Statuses {
		if doc.Status == status {
			return true
		}
	}
	return false
}
