package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

// deadlineWriteBackTimeout bounds the detached save after a job deadline
// already expired.
const deadlineWriteBackTimeout = 10 * time.Second

// ExtractUseCase runs the asynchronous extraction step for one document.
// Extraction is never fatal: unreadable content or a failed AI call still
// moves the document to review_needed carrying the fallback metadata, so the
// review queue is the single place technical failures surface.
type ExtractUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	parser    ports.DocumentParser
	inspector ports.FileInspector
	observer  ports.ExtractionObserver
}

func NewExtractUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	parser ports.DocumentParser,
	inspector ports.FileInspector,
) *ExtractUseCase {
	return &ExtractUseCase{repo: repo, storage: storage, parser: parser, inspector: inspector}
}

// SetObserver attaches an outcome observer. Call before processing starts.
func (uc *ExtractUseCase) SetObserver(observer ports.ExtractionObserver) {
	uc.observer = observer
}

func (uc *ExtractUseCase) ProcessByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.IsFolder() {
		return domain.WrapError(domain.ErrInvalidState, "process document", fmt.Errorf("folder entries are not parseable"))
	}
	if !doc.InReview() {
		return domain.WrapError(domain.ErrInvalidState, "process document",
			fmt.Errorf("status %s is outside the extraction path", doc.Status))
	}

	result, degraded := uc.extract(ctx, doc)
	saveCtx := ctx
	if err := ctx.Err(); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		// The job deadline fired mid-extraction. The consumed message will
		// not be redelivered, so write the fallback block on a detached
		// context instead of stranding the document in processing.
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), deadlineWriteBackTimeout)
		defer cancel()
		result = domain.FallbackParseResult(time.Now())
		degraded = true
	}
	result.Normalize()
	if uc.observer != nil {
		if degraded {
			uc.observer.ExtractionFallback()
		}
		uc.observer.ExtractionEntities(len(result.Entities))
	}

	// Re-analysis of a review_needed document replaces metadata/entities but
	// keeps the status; first extraction advances processing to review_needed.
	if err := uc.repo.SaveKnowledge(saveCtx, doc.ID, domain.StatusReviewNeeded, &result.Metadata, result.Entities); err != nil {
		return fmt.Errorf("save extraction result: %w", err)
	}
	return nil
}

func (uc *ExtractUseCase) extract(ctx context.Context, doc *domain.Document) (domain.ParseResult, bool) {
	content, err := uc.readContent(ctx, doc)
	if err != nil {
		slog.Warn("extraction_content_unreadable", "document_id", doc.ID, "error", err)
		return domain.FallbackParseResult(time.Now()), true
	}

	result, err := uc.parser.Parse(ctx, content, doc.MimeType)
	if err != nil {
		// Only context cancellation reaches here; the adapter degrades every
		// other failure to the fallback result itself.
		slog.Warn("extraction_aborted", "document_id", doc.ID, "error", err)
		return domain.FallbackParseResult(time.Now()), true
	}

	uc.supplementProperties(doc, content, &result)
	return result, result.Metadata.IsFallback()
}

func (uc *ExtractUseCase) readContent(ctx context.Context, doc *domain.Document) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	return content, nil
}

// supplementProperties fills fileProperties fields the AI left empty with
// locally inspected values. AI output wins where present.
func (uc *ExtractUseCase) supplementProperties(doc *domain.Document, content []byte, result *domain.ParseResult) {
	if uc.inspector == nil {
		return
	}
	local := uc.inspector.Inspect(doc.FileName, doc.MimeType, content)
	if local == nil {
		return
	}
	props := result.Metadata.FileProperties
	if props == nil {
		props = &domain.FileProperties{}
		result.Metadata.FileProperties = props
	}
	if props.PageCount == 0 {
		props.PageCount = local.PageCount
	}
	if props.Language == "" {
		props.Language = local.Language
	}
	if props.OriginalFormat == "" {
		props.OriginalFormat = local.OriginalFormat
	}
	if props.Duration == "" {
		props.Duration = local.Duration
	}
}
