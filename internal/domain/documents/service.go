package documents

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/docsum/internal/domain/summarizer"
	apperrors "github.com/yanqian/docsum/pkg/errors"
	"github.com/yanqian/docsum/pkg/util"
)

// JobSummarizeDocument is the queue job name for deferred processing.
const JobSummarizeDocument = "summarize_document"

// Config drives upload limits.
type Config struct {
	MaxFileBytes      int64
	AllowedExtensions []string
	MaxPreviewChars   int
	DefaultListLimit  int
}

// Service orchestrates upload, extraction, summarization and persistence.
type Service struct {
	cfg        Config
	docs       DocumentRepository
	records    RecordRepository
	storage    ObjectStorage
	extractor  Extractor
	summarizer summarizer.Service
	queue      JobQueue
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a Service. queue may be nil, in which case every
// upload is processed synchronously.
func NewService(cfg Config, docs DocumentRepository, records RecordRepository, storage ObjectStorage, extractor Extractor, summarizer summarizer.Service, queue JobQueue, logger *slog.Logger) *Service {
	if cfg.DefaultListLimit <= 0 {
		cfg.DefaultListLimit = 50
	}
	if cfg.MaxPreviewChars <= 0 {
		cfg.MaxPreviewChars = 120
	}
	return &Service{
		cfg:        cfg,
		docs:       docs,
		records:    records,
		storage:    storage,
		extractor:  extractor,
		summarizer: summarizer,
		queue:      queue,
		logger:     logger.With("component", "documents.service"),
		now:        util.NowUTC,
	}
}

// UploadRequest captures a multipart submission.
type UploadRequest struct {
	Filename     string
	MimeType     string
	Content      []byte
	NumSentences *int
	Language     string
	Source       DocumentSource
	Async        bool
}

// UploadResponse returns the document and, for synchronous uploads, its summary.
type UploadResponse struct {
	Document  Document             `json:"document"`
	Summary   *summarizer.Response `json:"summary,omitempty"`
	Record    *SummaryRecord       `json:"record,omitempty"`
	Persisted bool                 `json:"persisted"`
	Queued    bool                 `json:"queued"`
}

// ResummarizeRequest re-runs the summarizer over a stored extraction.
type ResummarizeRequest struct {
	NumSentences *int   `json:"numSentences,omitempty"`
	Language     string `json:"language,omitempty"`
}

// Upload validates and stores the artifact, then summarizes it either inline
// or through the job queue.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	if len(req.Content) == 0 {
		return UploadResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "file content cannot be empty", nil)
	}
	if s.cfg.MaxFileBytes > 0 && int64(len(req.Content)) > s.cfg.MaxFileBytes {
		return UploadResponse{}, apperrors.Wrap(apperrors.CodeTooLarge, "file exceeds maximum allowed size", nil)
	}
	if req.NumSentences != nil && *req.NumSentences < 0 {
		return UploadResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "numSentences cannot be negative", nil)
	}
	if ext := ClientExtension(req.Filename); !s.allowed(ext) {
		return UploadResponse{}, apperrors.Wrap(apperrors.CodeUnsupportedFormat, fmt.Sprintf("file type %q is not allowed", ext), nil)
	}
	filename := SanitizeFilename(req.Filename)
	if s.extractor != nil && !s.extractor.Supports(filename, req.MimeType) {
		return UploadResponse{}, apperrors.Wrap(apperrors.CodeUnsupportedFormat, "no extractor for "+filename, nil)
	}

	mime := req.MimeType
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(req.Content)
	}
	source := req.Source
	if source == "" {
		source = DocumentSourceUpload
	}
	now := s.now()
	doc := Document{
		ID:        uuid.New(),
		SourceID:  filename,
		Title:     strings.TrimSuffix(filename, "."+Extension(filename)),
		Source:    source,
		Format:    Extension(filename),
		MimeType:  mime,
		SizeBytes: int64(len(req.Content)),
		Status:    DocumentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	storageKey := fmt.Sprintf("uploads/%s/%s", doc.ID.String(), filename)
	if obj, err := s.storage.Put(ctx, storageKey, req.Content, mime); err != nil {
		if req.Async {
			return UploadResponse{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to store file", err)
		}
		s.logger.Warn("store upload failed, continuing in memory", "document_id", doc.ID, "error", err)
	} else {
		doc.StorageKey = obj.Key
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		if doc.StorageKey != "" {
			if delErr := s.storage.Delete(ctx, doc.StorageKey); delErr != nil {
				s.logger.Warn("remove orphaned upload failed", "key", doc.StorageKey, "error", delErr)
			}
		}
		return UploadResponse{}, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to persist document", err)
	}

	if req.Async && s.queue != nil {
		payload := map[string]any{"document_id": doc.ID.String()}
		if req.NumSentences != nil {
			payload["num_sentences"] = *req.NumSentences
		}
		if req.Language != "" {
			payload["language"] = req.Language
		}
		err := s.queue.Enqueue(ctx, JobSummarizeDocument, payload)
		if err == nil {
			s.logger.Info("summarize_document enqueued", "document_id", doc.ID, "source_id", doc.SourceID)
			return UploadResponse{Document: doc, Queued: true}, nil
		}
		s.logger.Warn("enqueue summarize_document failed, processing inline", "document_id", doc.ID, "error", err)
	}

	result, err := s.process(ctx, doc, req.Content, req.NumSentences, req.Language)
	if err != nil {
		return UploadResponse{}, err
	}
	return UploadResponse{
		Document:  result.Document,
		Summary:   &result.Summary,
		Record:    &result.Record,
		Persisted: result.Persisted,
	}, nil
}

// ProcessResult is the outcome of one summarization of a document.
type ProcessResult struct {
	Document  Document            `json:"document"`
	Summary   summarizer.Response `json:"summary"`
	Record    SummaryRecord       `json:"record"`
	Persisted bool                `json:"persisted"`
}

// ProcessDocument loads a stored upload and summarizes it. Already processed
// documents are left untouched.
func (s *Service) ProcessDocument(ctx context.Context, docID uuid.UUID, numSentences *int, language string) error {
	s.logger.Info("process_document start", "document_id", docID)
	doc, found, err := s.docs.Get(ctx, docID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRepositoryError, "failed to load document", err)
	}
	if !found {
		return apperrors.Wrap(apperrors.CodeNotFound, "document not found", nil)
	}
	if doc.Status == DocumentStatusProcessed {
		return nil
	}
	if doc.StorageKey == "" {
		_ = s.docs.UpdateStatus(ctx, docID, DocumentStatusFailed, ptrString("no stored artifact"))
		return apperrors.Wrap(apperrors.CodeNotFound, "document has no stored artifact", nil)
	}

	reader, err := s.storage.Get(ctx, doc.StorageKey)
	if err != nil {
		_ = s.docs.UpdateStatus(ctx, docID, DocumentStatusFailed, ptrString("failed to read storage"))
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to fetch stored file", err)
	}
	defer reader.Close()
	raw, err := io.ReadAll(reader)
	if err != nil {
		_ = s.docs.UpdateStatus(ctx, docID, DocumentStatusFailed, ptrString("failed to read storage"))
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to read stored file", err)
	}

	_, err = s.process(ctx, doc, raw, numSentences, language)
	return err
}

// process extracts text and summarizes it. Extraction failures degrade to an
// empty text, and a failed record save only clears Persisted.
func (s *Service) process(ctx context.Context, doc Document, content []byte, numSentences *int, language string) (ProcessResult, error) {
	s.setStatus(ctx, &doc, DocumentStatusProcessing, nil)

	var (
		text          string
		failureReason *string
	)
	if s.extractor == nil {
		failureReason = ptrString("no extractor configured")
	} else {
		extraction, err := s.extractor.Extract(ctx, ExtractInput{Filename: doc.SourceID, MimeType: doc.MimeType, Content: content})
		if err != nil {
			s.logger.Warn("extraction failed", "document_id", doc.ID, "source_id", doc.SourceID, "error", err)
			failureReason = ptrString("extraction failed: " + err.Error())
		} else {
			text = extraction.Text
			if extraction.Title != "" {
				doc.Title = extraction.Title
			}
		}
	}

	summary, err := s.summarizer.Summarize(ctx, summarizer.Request{Text: text, NumSentences: numSentences, Language: language})
	if err != nil {
		s.setStatus(ctx, &doc, DocumentStatusFailed, ptrString("summarization failed"))
		return ProcessResult{}, err
	}

	record := SummaryRecord{
		ID:            uuid.New(),
		DocumentID:    doc.ID,
		SourceID:      doc.SourceID,
		SummaryText:   summary.Summary,
		ExtractedText: text,
		NumSentences:  summary.NumSentences,
		Strategy:      string(summary.Strategy),
		Language:      summary.Language,
		CreatedAt:     s.now(),
	}
	persisted := s.saveRecord(ctx, record)

	status := DocumentStatusProcessed
	if failureReason != nil {
		status = DocumentStatusFailed
	}
	s.setStatus(ctx, &doc, status, failureReason)

	s.logger.Info("process_document complete",
		"document_id", doc.ID,
		"source_id", doc.SourceID,
		"strategy", summary.Strategy,
		"persisted", persisted,
		"preview", snippet(summary.Summary, s.cfg.MaxPreviewChars),
	)
	return ProcessResult{Document: doc, Summary: summary, Record: record, Persisted: persisted}, nil
}

// Resummarize runs the summarizer again over the latest stored extraction.
func (s *Service) Resummarize(ctx context.Context, docID uuid.UUID, req ResummarizeRequest) (ProcessResult, error) {
	doc, found, err := s.docs.Get(ctx, docID)
	if err != nil {
		return ProcessResult{}, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to load document", err)
	}
	if !found {
		return ProcessResult{}, apperrors.Wrap(apperrors.CodeNotFound, "document not found", nil)
	}
	records, err := s.records.ListByDocument(ctx, docID)
	if err != nil {
		return ProcessResult{}, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to load records", err)
	}
	if len(records) == 0 {
		return ProcessResult{}, apperrors.Wrap(apperrors.CodeNotFound, "document has no extracted text yet", nil)
	}
	latest := records[0]

	summary, err := s.summarizer.Summarize(ctx, summarizer.Request{Text: latest.ExtractedText, NumSentences: req.NumSentences, Language: req.Language})
	if err != nil {
		return ProcessResult{}, err
	}
	record := SummaryRecord{
		ID:            uuid.New(),
		DocumentID:    doc.ID,
		SourceID:      doc.SourceID,
		SummaryText:   summary.Summary,
		ExtractedText: latest.ExtractedText,
		NumSentences:  summary.NumSentences,
		Strategy:      string(summary.Strategy),
		Language:      summary.Language,
		CreatedAt:     s.now(),
	}
	persisted := s.saveRecord(ctx, record)
	return ProcessResult{Document: doc, Summary: summary, Record: record, Persisted: persisted}, nil
}

// GetDocument returns one document.
func (s *Service) GetDocument(ctx context.Context, docID uuid.UUID) (Document, error) {
	doc, found, err := s.docs.Get(ctx, docID)
	if err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to load document", err)
	}
	if !found {
		return Document{}, apperrors.Wrap(apperrors.CodeNotFound, "document not found", nil)
	}
	return doc, nil
}

// ListDocuments returns the newest documents first.
func (s *Service) ListDocuments(ctx context.Context, filter DocumentFilter) ([]Document, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultListLimit
	}
	docs, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to list documents", err)
	}
	return docs, nil
}

// GetRecord returns one summary record.
func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (SummaryRecord, error) {
	rec, found, err := s.records.Get(ctx, id)
	if err != nil {
		return SummaryRecord{}, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to load record", err)
	}
	if !found {
		return SummaryRecord{}, apperrors.Wrap(apperrors.CodeNotFound, "record not found", nil)
	}
	return rec, nil
}

// ListRecords returns the records of a document, newest first.
func (s *Service) ListRecords(ctx context.Context, docID uuid.UUID) ([]SummaryRecord, error) {
	if _, err := s.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	records, err := s.records.ListByDocument(ctx, docID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRepositoryError, "failed to list records", err)
	}
	return records, nil
}

// HandleJob is the queue handler for deferred work.
func (s *Service) HandleJob(ctx context.Context, name string, payload map[string]any) {
	if name != JobSummarizeDocument {
		s.logger.Warn("unknown job", "name", name)
		return
	}
	rawID, _ := payload["document_id"].(string)
	docID, err := uuid.Parse(rawID)
	if err != nil {
		s.logger.Warn("invalid job payload", "name", name, "document_id", rawID, "error", err)
		return
	}
	numSentences := intFromPayload(payload["num_sentences"])
	language, _ := payload["language"].(string)
	if err := s.ProcessDocument(ctx, docID, numSentences, language); err != nil {
		s.logger.Error("process_document failed", "document_id", docID, "error", err)
	}
}

// Health pings the record store when it supports it.
func (s *Service) Health(ctx context.Context) error {
	for _, candidate := range []any{s.records, s.docs} {
		checker, ok := candidate.(HealthChecker)
		if !ok {
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			return apperrors.Wrap(apperrors.CodeRepositoryError, "store unavailable", err)
		}
	}
	return nil
}

// AllowedExtensions lists accepted upload extensions.
func (s *Service) AllowedExtensions() []string {
	return slices.Clone(s.cfg.AllowedExtensions)
}

func (s *Service) allowed(ext string) bool {
	if len(s.cfg.AllowedExtensions) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AllowedExtensions, ext)
}

func (s *Service) saveRecord(ctx context.Context, record SummaryRecord) bool {
	if err := s.records.Save(ctx, record); err != nil {
		s.logger.Error("save summary record failed", "document_id", record.DocumentID, "error", err)
		return false
	}
	return true
}

func (s *Service) setStatus(ctx context.Context, doc *Document, status DocumentStatus, reason *string) {
	doc.Status = status
	doc.FailureReason = reason
	doc.UpdatedAt = s.now()
	if err := s.docs.UpdateStatus(ctx, doc.ID, status, reason); err != nil {
		s.logger.Warn("update document status failed", "document_id", doc.ID, "status", status, "error", err)
	}
}

func intFromPayload(v any) *int {
	var n int
	switch typed := v.(type) {
	case int:
		n = typed
	case int64:
		n = int(typed)
	case float64:
		n = int(typed)
	default:
		return nil
	}
	return &n
}
