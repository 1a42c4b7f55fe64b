package ports

import (
	"context"
	"io"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// DocumentFilter narrows store reads. Zero values mean "no constraint".
type DocumentFilter struct {
	Statuses   []domain.DocumentStatus
	UploadedBy string
	Category   domain.Category
}

// DocumentRepository persists and reads document state. Writes are keyed by
// document id; concurrent extraction completions only ever touch their own
// record.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error
	SaveKnowledge(ctx context.Context, id string, status domain.DocumentStatus, md *domain.Metadata, entities []domain.Entity) error
}

// UserRepository reads the seeded user records backing the access policy.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes extraction jobs.
type MessageQueue interface {
	PublishExtractionJob(ctx context.Context, documentID string) error
	SubscribeExtractionJobs(ctx context.Context, handler func(context.Context, string) error) error
}

// DocumentParser is the external AI collaborator. It never surfaces a hard
// failure: on any terminal error it returns the labeled fallback result, and
// only context cancellation yields a non-nil error.
type DocumentParser interface {
	Parse(ctx context.Context, content []byte, mimeType string) (domain.ParseResult, error)
}

// ExtractionObserver receives outcome signals from the extraction step so
// the worker can count fallbacks and extracted entities. Optional; a nil
// observer is ignored.
type ExtractionObserver interface {
	ExtractionFallback()
	ExtractionEntities(count int)
}

// FileInspector derives physical file properties locally (page count, sheet
// format and the like) to supplement what the AI reports.
type FileInspector interface {
	Inspect(filename, mimeType string, content []byte) *domain.FileProperties
}

// GraphMirror pushes approved documents and their entities to an external
// graph database. Best effort: mirror failures never block approval.
type GraphMirror interface {
	MirrorApproved(ctx context.Context, doc *domain.Document) error
	Close(ctx context.Context) error
}
