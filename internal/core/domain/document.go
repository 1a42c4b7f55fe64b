package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded     DocumentStatus = "uploaded"
	StatusProcessing   DocumentStatus = "processing"
	StatusReviewNeeded DocumentStatus = "review_needed"
	StatusApproved     DocumentStatus = "approved"
	StatusRejected     DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusReviewNeeded, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo encodes the document lifecycle: extraction advances
// processing to review_needed, a reviewer decides review_needed, and
// re-extraction keeps a review_needed document in place. uploaded (folder
// containers), approved and rejected are terminal.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case StatusProcessing:
		return next == StatusReviewNeeded
	case StatusReviewNeeded:
		return next == StatusApproved || next == StatusRejected || next == StatusReviewNeeded
	}
	return false
}

// MimeFolder marks a folder container entry. Containers are registered for
// display grouping only and never enter the extraction pipeline.
const MimeFolder = "folder"

type Document struct {
	ID          string         `json:"id"`
	FileName    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	SizeBytes   int64          `json:"size_bytes"`
	StoragePath string         `json:"storage_path,omitempty"`
	RelPath     string         `json:"rel_path,omitempty"`
	UploadedBy  string         `json:"uploaded_by"`
	Status      DocumentStatus `json:"status"`
	Metadata    *Metadata      `json:"metadata,omitempty"`
	Entities    []Entity       `json:"entities,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (d *Document) IsFolder() bool {
	return d.MimeType == MimeFolder
}

// InReview reports whether the document sits in the review queue.
func (d *Document) InReview() bool {
	return d.Status == StatusProcessing || d.Status == StatusReviewNeeded
}

// ArchiveStats backs the dashboard view.
type ArchiveStats struct {
	Total        int              `json:"total"`
	Approved     int              `json:"approved"`
	ReviewNeeded int              `json:"review_needed"`
	Processing   int              `json:"processing"`
	Rejected     int              `json:"rejected"`
	TotalBytes   int64            `json:"total_bytes"`
	ByCategory   map[Category]int `json:"by_category"`
}
