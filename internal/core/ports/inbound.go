package ports

import (
	"context"
	"io"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// UploadItem is one file (or folder container) in an ingestion batch.
type UploadItem struct {
	FileName string
	MimeType string
	RelPath  string
	Size     int64
	Body     io.Reader
	Folder   bool
}

// DocumentIngestor is the inbound contract for upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, uploader *domain.User, items []UploadItem) ([]domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous extraction.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// ReviewService drives the human verification workflow.
type ReviewService interface {
	Queue(ctx context.Context) ([]domain.Document, error)
	Approve(ctx context.Context, reviewer *domain.User, documentID string, md domain.Metadata, entities []domain.Entity) (*domain.Document, error)
	Reject(ctx context.Context, reviewer *domain.User, documentID string) (*domain.Document, error)
	RequestReanalysis(ctx context.Context, reviewer *domain.User, documentID string) error
}

// BrowseFilter selects archived documents in the listing projection.
type BrowseFilter struct {
	Category domain.Category
	Entity   string
}

// ArchiveBrowser exposes read-only projections over approved documents.
type ArchiveBrowser interface {
	List(ctx context.Context, filter BrowseFilter) ([]domain.Document, error)
	EntityDirectory(ctx context.Context) (domain.EntityDirectory, error)
	Graph(ctx context.Context, selectedEntity string) (*domain.Graph, error)
	Stats(ctx context.Context) (*domain.ArchiveStats, error)
}

// DocumentReader is the inbound read model for single documents and
// per-uploader listings.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByUploader(ctx context.Context, uploaderID string) ([]domain.Document, error)
}
