package documents

import (
	"time"

	"docflow-backend/internal/extraction"
)

// Document statuses. A document starts as uploaded, moves to processing
// when an extraction claims it, and ends in extracted or failed. Failed
// and extracted documents can be re-claimed by a later extraction.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusExtracted  = "extracted"
	StatusFailed     = "failed"
)

// Document is one uploaded file and its extraction state. OwnerID and
// OrgID are denormalized from the project so access checks and cascade
// queries never need a join.
type Document struct {
	ID         string             `json:"id"`
	ProjectID  string             `json:"projectId"`
	OrgID      string             `json:"-"`
	OwnerID    string             `json:"-"`
	Name       string             `json:"name"`
	MimeType   string             `json:"mimeType"`
	FileFormat string             `json:"fileFormat"`
	SizeBytes  int64              `json:"sizeBytes"`
	StorageKey string             `json:"-"`
	Status     string             `json:"status"`
	Extraction *extraction.Result `json:"extractedData,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
