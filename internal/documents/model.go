package documents

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Document is an uploaded file plus its analysis state. Summary and Insights are set iff
// Status is completed.
type Document struct {
	ID            string
	UserID        string
	Name          string
	StorageKey    string
	FileType      string
	MimeType      string
	SizeBytes     int64
	UploadedAt    time.Time
	Status        string
	Summary       string
	Insights      []string
	AnalysisError string
	AnalyzedAt    *time.Time
}
