package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	domain "github.com/yanqian/docsum/internal/domain/documents"
	"github.com/yanqian/docsum/pkg/util"
)

// MemoryDocumentRepository is a simple in-memory store for documents.
type MemoryDocumentRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]domain.Document
}

// NewMemoryDocumentRepository constructs a document repository.
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{
		data: make(map[uuid.UUID]domain.Document),
	}
}

func (r *MemoryDocumentRepository) Create(_ context.Context, doc domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

func (r *MemoryDocumentRepository) UpdateStatus(_ context.Context, docID uuid.UUID, status domain.DocumentStatus, failureReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[docID]
	if !ok {
		return nil
	}
	doc.Status = status
	doc.FailureReason = failureReason
	doc.UpdatedAt = util.NowUTC()
	r.data[docID] = doc
	return nil
}

func (r *MemoryDocumentRepository) Get(_ context.Context, docID uuid.UUID) (domain.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[docID]
	return doc, ok, nil
}

func (r *MemoryDocumentRepository) List(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	r.mu.RLock()
	out := make([]domain.Document, 0, len(r.data))
	for _, doc := range r.data {
		if filter.Matches(doc) {
			out = append(out, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

var _ domain.DocumentRepository = (*MemoryDocumentRepository)(nil)

// MemoryRecordRepository keeps summary records in insertion order.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records []domain.SummaryRecord
}

// NewMemoryRecordRepository constructs a record repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{}
}

func (r *MemoryRecordRepository) Save(_ context.Context, rec domain.SummaryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRecordRepository) Get(_ context.Context, id uuid.UUID) (domain.SummaryRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return domain.SummaryRecord{}, false, nil
}

// ListByDocument returns newest records first.
func (r *MemoryRecordRepository) ListByDocument(_ context.Context, docID uuid.UUID) ([]domain.SummaryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SummaryRecord, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].DocumentID == docID {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

// Ping always succeeds.
func (r *MemoryRecordRepository) Ping(context.Context) error { return nil }

var _ domain.RecordRepository = (*MemoryRecordRepository)(nil)
