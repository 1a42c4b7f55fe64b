package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

// ReviewUseCase drives human verification: the queue of documents awaiting
// attention and the approve/reject/reanalyze decisions on them.
type ReviewUseCase struct {
	repo   ports.DocumentRepository
	queue  ports.MessageQueue
	mirror ports.GraphMirror
}

func NewReviewUseCase(repo ports.DocumentRepository, queue ports.MessageQueue, mirror ports.GraphMirror) *ReviewUseCase {
	return &ReviewUseCase{repo: repo, queue: queue, mirror: mirror}
}

// Queue returns all documents awaiting review, in arrival order.
func (uc *ReviewUseCase) Queue(ctx context.Context) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx, ports.DocumentFilter{
		Statuses: []domain.DocumentStatus{domain.StatusProcessing, domain.StatusReviewNeeded},
	})
	if err != nil {
		return nil, fmt.Errorf("list review queue: %w", err)
	}
	return docs, nil
}

// Approve persists the reviewer's working copy as the authoritative metadata
// and entities, discarding whatever extraction produced, and archives the
// document. Required metadata fields are enforced strictly.
func (uc *ReviewUseCase) Approve(
	ctx context.Context,
	reviewer *domain.User,
	documentID string,
	md domain.Metadata,
	entities []domain.Entity,
) (*domain.Document, error) {
	doc, err := uc.loadForDecision(ctx, reviewer, documentID)
	if err != nil {
		return nil, err
	}

	uc.applySecurityPolicy(reviewer, doc, &md)
	if err := md.ValidateForApproval(); err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []domain.Entity{}
	}

	if err := uc.repo.SaveKnowledge(ctx, doc.ID, domain.StatusApproved, &md, entities); err != nil {
		return nil, fmt.Errorf("approve document: %w", err)
	}
	doc.Status = domain.StatusApproved
	doc.Metadata = &md
	doc.Entities = entities

	if uc.mirror != nil {
		if err := uc.mirror.MirrorApproved(ctx, doc); err != nil {
			slog.Warn("graph_mirror_failed", "document_id", doc.ID, "error", err)
		}
	}
	return doc, nil
}

// Reject removes the document from the active queue. Rejection is terminal:
// there is no path back to review.
func (uc *ReviewUseCase) Reject(ctx context.Context, reviewer *domain.User, documentID string) (*domain.Document, error) {
	doc, err := uc.loadForDecision(ctx, reviewer, documentID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusRejected); err != nil {
		return nil, fmt.Errorf("reject document: %w", err)
	}
	doc.Status = domain.StatusRejected
	return doc, nil
}

// RequestReanalysis re-enqueues the extraction job for a document already in
// review. The worker replaces metadata/entities without changing status.
func (uc *ReviewUseCase) RequestReanalysis(ctx context.Context, reviewer *domain.User, documentID string) error {
	if !reviewer.CanReview() {
		return domain.WrapError(domain.ErrForbidden, "reanalyze", fmt.Errorf("user lacks modify permission"))
	}
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.StatusReviewNeeded {
		return domain.WrapError(domain.ErrInvalidState, "reanalyze",
			fmt.Errorf("document is %s, re-analysis needs review_needed", doc.Status))
	}
	if err := uc.queue.PublishExtractionJob(ctx, doc.ID); err != nil {
		return fmt.Errorf("publish re-analysis job: %w", err)
	}
	return nil
}

func (uc *ReviewUseCase) loadForDecision(ctx context.Context, reviewer *domain.User, documentID string) (*domain.Document, error) {
	if !reviewer.CanReview() {
		return nil, domain.WrapError(domain.ErrForbidden, "review decision", fmt.Errorf("user lacks modify permission"))
	}
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusReviewNeeded {
		return nil, domain.WrapError(domain.ErrInvalidState, "review decision",
			fmt.Errorf("document is %s, decisions need review_needed", doc.Status))
	}
	return doc, nil
}

// applySecurityPolicy keeps the security level read-only for non-admins: the
// submitted value is replaced by the stored one, or the internal default when
// the document never had metadata.
func (uc *ReviewUseCase) applySecurityPolicy(reviewer *domain.User, doc *domain.Document, md *domain.Metadata) {
	if reviewer.CanEditSecurityLevel() {
		return
	}
	if doc.Metadata != nil && doc.Metadata.SecurityLevel.Valid() {
		md.SecurityLevel = doc.Metadata.SecurityLevel
		return
	}
	md.SecurityLevel = domain.SecurityInternal
}
