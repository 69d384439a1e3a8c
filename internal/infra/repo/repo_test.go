package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

type stores struct {
	docs    domain.DocumentRepository
	records domain.RecordRepository
}

func newSQLiteStores(t *testing.T, path string) stores {
	t.Helper()
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureSQLiteSchema(context.Background(), db))
	// applying twice must be harmless
	require.NoError(t, EnsureSQLiteSchema(context.Background(), db))
	return stores{docs: NewSQLiteDocumentRepository(db), records: NewSQLiteRecordRepository(db)}
}

func TestRepositoryContract(t *testing.T) {
	backends := map[string]func(t *testing.T) stores{
		"memory": func(*testing.T) stores {
			return stores{docs: NewMemoryDocumentRepository(), records: NewMemoryRecordRepository()}
		},
		"sqlite-memory": func(t *testing.T) stores { return newSQLiteStores(t, ":memory:") },
		"sqlite-file": func(t *testing.T) stores {
			return newSQLiteStores(t, filepath.Join(t.TempDir(), "data", "docsum.db"))
		},
	}

	for name, build := range backends {
		build := build
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := build(t)
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			older := domain.Document{
				ID: uuid.New(), SourceID: "old.pdf", Title: "old", Source: domain.DocumentSourceUpload,
				Format: "pdf", MimeType: "application/pdf", SizeBytes: 10, StorageKey: "uploads/a/old.pdf",
				Status: domain.DocumentStatusPending, CreatedAt: base, UpdatedAt: base,
			}
			newer := older
			newer.ID = uuid.New()
			newer.SourceID = "new.txt"
			newer.CreatedAt = base.Add(time.Hour)
			newer.UpdatedAt = newer.CreatedAt
			require.NoError(t, s.docs.Create(ctx, older))
			require.NoError(t, s.docs.Create(ctx, newer))

			got, found, err := s.docs.Get(ctx, older.ID)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "old.pdf", got.SourceID)
			require.Equal(t, domain.DocumentStatusPending, got.Status)
			require.Nil(t, got.FailureReason)
			require.True(t, base.Equal(got.CreatedAt))

			_, found, err = s.docs.Get(ctx, uuid.New())
			require.NoError(t, err)
			require.False(t, found)

			reason := "extraction failed"
			require.NoError(t, s.docs.UpdateStatus(ctx, older.ID, domain.DocumentStatusFailed, &reason))
			got, _, err = s.docs.Get(ctx, older.ID)
			require.NoError(t, err)
			require.Equal(t, domain.DocumentStatusFailed, got.Status)
			require.NotNil(t, got.FailureReason)
			require.Equal(t, reason, *got.FailureReason)

			all, err := s.docs.List(ctx, domain.DocumentFilter{})
			require.NoError(t, err)
			require.Len(t, all, 2)
			require.Equal(t, newer.ID, all[0].ID, "newest first")

			failed, err := s.docs.List(ctx, domain.DocumentFilter{Statuses: []domain.DocumentStatus{domain.DocumentStatusFailed}})
			require.NoError(t, err)
			require.Len(t, failed, 1)
			require.Equal(t, older.ID, failed[0].ID)

			limited, err := s.docs.List(ctx, domain.DocumentFilter{Limit: 1})
			require.NoError(t, err)
			require.Len(t, limited, 1)

			first := domain.SummaryRecord{
				ID: uuid.New(), DocumentID: older.ID, SourceID: "old.pdf", SummaryText: "First.",
				ExtractedText: "First. Second.", NumSentences: 1, Strategy: "frequency", Language: "en", CreatedAt: base,
			}
			second := first
			second.ID = uuid.New()
			second.SummaryText = "First. Second."
			second.NumSentences = 2
			second.CreatedAt = base.Add(time.Minute)
			require.NoError(t, s.records.Save(ctx, first))
			require.NoError(t, s.records.Save(ctx, second))

			rec, found, err := s.records.Get(ctx, first.ID)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "First. Second.", rec.ExtractedText)
			require.Equal(t, "en", rec.Language)

			_, found, err = s.records.Get(ctx, uuid.New())
			require.NoError(t, err)
			require.False(t, found)

			records, err := s.records.ListByDocument(ctx, older.ID)
			require.NoError(t, err)
			require.Len(t, records, 2)
			require.Equal(t, second.ID, records[0].ID)

			none, err := s.records.ListByDocument(ctx, newer.ID)
			require.NoError(t, err)
			require.Empty(t, none)

			// same timestamp: the record saved last is listed first
			tieA := first
			tieA.ID = uuid.New()
			tieA.DocumentID = newer.ID
			tieA.CreatedAt = base.Add(time.Hour)
			tieB := tieA
			tieB.ID = uuid.New()
			require.NoError(t, s.records.Save(ctx, tieA))
			require.NoError(t, s.records.Save(ctx, tieB))
			tied, err := s.records.ListByDocument(ctx, newer.ID)
			require.NoError(t, err)
			require.Len(t, tied, 2)
			require.Equal(t, tieB.ID, tied[0].ID)
		})
	}
}

func TestSQLiteRejectsOrphanRecords(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t, ":memory:")

	err := s.records.Save(context.Background(), domain.SummaryRecord{
		ID: uuid.New(), DocumentID: uuid.New(), SourceID: "x", SummaryText: "x", CreatedAt: time.Now(),
	})
	require.Error(t, err)
}

func TestStatements(t *testing.T) {
	t.Parallel()
	require.Len(t, statements(postgresSchema), 5)
	require.Len(t, statements(sqliteSchema), 4)
	require.Equal(t, []string{"SELECT 1"}, statements(" SELECT 1 ;\n ; "))
}

func TestPostgresRecordOrderingHasTiebreak(t *testing.T) {
	t.Parallel()
	require.Contains(t, postgresListRecordsSQL, "ORDER BY created_at DESC, seq DESC")
	require.Contains(t, postgresSchema, "ADD COLUMN IF NOT EXISTS seq BIGSERIAL")
}
