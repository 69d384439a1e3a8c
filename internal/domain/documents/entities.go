package documents

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks pipeline progress.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusProcessed  DocumentStatus = "processed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// DocumentSource describes how the document was ingested.
type DocumentSource string

const (
	DocumentSourceUpload DocumentSource = "upload"
	DocumentSourceAPI    DocumentSource = "api"
	DocumentSourceInbox  DocumentSource = "inbox"
)

// Document is one uploaded artifact and its processing state.
type Document struct {
	ID            uuid.UUID      `json:"id"`
	SourceID      string         `json:"sourceId"`
	Title         string         `json:"title"`
	Source        DocumentSource `json:"source"`
	Format        string         `json:"format"`
	MimeType      string         `json:"mimeType"`
	SizeBytes     int64          `json:"sizeBytes"`
	StorageKey    string         `json:"storageKey,omitempty"`
	Status        DocumentStatus `json:"status"`
	FailureReason *string        `json:"failureReason,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// SummaryRecord is one persisted summarization result.
type SummaryRecord struct {
	ID            uuid.UUID `json:"id"`
	DocumentID    uuid.UUID `json:"documentId"`
	SourceID      string    `json:"sourceId"`
	SummaryText   string    `json:"summaryText"`
	ExtractedText string    `json:"extractedText,omitempty"`
	NumSentences  int       `json:"numSentences"`
	Strategy      string    `json:"strategy"`
	Language      string    `json:"language,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ExtractInput is handed to an Extractor.
type ExtractInput struct {
	Filename string
	MimeType string
	Content  []byte
}

// Extraction is the plain text recovered from an artifact.
type Extraction struct {
	Text      string
	Title     string
	Format    string
	PageCount int
}
