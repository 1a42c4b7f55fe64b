package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

// IngestUseCase registers uploaded files, stores their raw bytes and fires
// one extraction job per file. Folder containers are registered but never
// queued.
type IngestUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	queue      ports.MessageQueue
	extensions map[string]struct{}
}

// NewIngestUseCase builds the ingestion flow. allowedExtensions is advisory
// only: unmatched files are still accepted, just logged.
func NewIngestUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	allowedExtensions []string,
) *IngestUseCase {
	exts := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = struct{}{}
	}
	return &IngestUseCase{repo: repo, storage: storage, queue: queue, extensions: exts}
}

func (uc *IngestUseCase) Upload(ctx context.Context, uploader *domain.User, items []ports.UploadItem) ([]domain.Document, error) {
	if uploader == nil || !uploader.CanUpload() {
		return nil, domain.WrapError(domain.ErrForbidden, "upload", fmt.Errorf("user lacks import permission"))
	}
	if len(items) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", fmt.Errorf("no files in request"))
	}

	docs := make([]domain.Document, 0, len(items))
	for _, item := range items {
		doc, err := uc.ingestOne(ctx, uploader, item)
		if err != nil {
			// A file-read or storage failure rejects that file outright and
			// surfaces an ingestion error; already-registered siblings stand.
			return docs, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (uc *IngestUseCase) ingestOne(ctx context.Context, uploader *domain.User, item ports.UploadItem) (*domain.Document, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	doc := &domain.Document{
		ID:         id,
		FileName:   path.Base(strings.ReplaceAll(item.FileName, "\\", "/")),
		MimeType:   item.MimeType,
		SizeBytes:  item.Size,
		RelPath:    relPathOf(item),
		UploadedBy: uploader.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if item.Folder {
		doc.MimeType = domain.MimeFolder
		doc.Status = domain.StatusUploaded
		if err := uc.repo.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("register folder entry: %w", err)
		}
		return doc, nil
	}

	if !uc.extensionAllowed(doc.FileName) {
		slog.Warn("upload_extension_not_advertised", "document_id", id, "filename", doc.FileName)
	}

	doc.Status = domain.StatusProcessing
	doc.StoragePath = fmt.Sprintf("%s_%s", id, sanitizeFilename(doc.FileName))

	if err := uc.storage.Save(ctx, doc.StoragePath, item.Body); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "save upload", err)
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}
	if err := uc.queue.PublishExtractionJob(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish extraction job: %w", err)
	}
	return doc, nil
}

func (uc *IngestUseCase) extensionAllowed(filename string) bool {
	if len(uc.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := uc.extensions[ext]
	return ok
}

func relPathOf(item ports.UploadItem) string {
	if item.RelPath != "" {
		return item.RelPath
	}
	normalized := strings.ReplaceAll(item.FileName, "\\", "/")
	if dir := path.Dir(normalized); dir != "." && dir != "/" {
		return dir + "/"
	}
	return ""
}

func sanitizeFilename(name string) string {
	base := path.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
