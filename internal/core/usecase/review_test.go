package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/unirecords/archive-console/internal/core/domain"
)

func reviewNeededDoc(id string) domain.Document {
	doc := processingDoc(id)
	doc.Status = domain.StatusReviewNeeded
	md := approvedMetadata()
	doc.Metadata = &md
	return doc
}

func TestApproveArchivesWorkingCopy(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	mirror := &mirrorFake{}
	uc := NewReviewUseCase(repo, &queueFake{}, mirror)

	edited := approvedMetadata()
	edited.Title = "修订后的标题"
	entities := []domain.Entity{{ID: "e1", Name: "李校长", Type: domain.EntityPerson, Context: "签署文件"}}

	doc, err := uc.Approve(context.Background(), adminUser(), "d1", edited, entities)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if doc.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", doc.Status)
	}
	if repo.savedMetadata.Title != "修订后的标题" {
		t.Fatalf("saved title = %s, reviewer's copy must win", repo.savedMetadata.Title)
	}
	if len(repo.savedEntities) != 1 || repo.savedEntities[0].Name != "李校长" {
		t.Fatalf("saved entities = %+v", repo.savedEntities)
	}
	if len(mirror.mirrored) != 1 || mirror.mirrored[0] != "d1" {
		t.Fatalf("expected mirror call for d1, got %v", mirror.mirrored)
	}
}

func TestApproveRejectsIncompleteMetadata(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{})

	edited := approvedMetadata()
	edited.Title = ""

	_, err := uc.Approve(context.Background(), adminUser(), "d1", edited, nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if repo.savedMetadata != nil {
		t.Fatal("incomplete metadata must not be persisted")
	}
}

func TestApproveNonAdminCannotChangeSecurityLevel(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{})

	edited := approvedMetadata()
	edited.SecurityLevel = domain.SecurityTopSecret

	_, err := uc.Approve(context.Background(), staffUser(), "d1", edited, nil)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if repo.savedMetadata.SecurityLevel != domain.SecurityInternal {
		t.Fatalf("security level = %s, stored value must be preserved for non-admins", repo.savedMetadata.SecurityLevel)
	}
}

func TestApproveRequiresReviewNeededStatus(t *testing.T) {
	repo := newRepoFake(processingDoc("d1"))
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{})

	_, err := uc.Approve(context.Background(), adminUser(), "d1", approvedMetadata(), nil)
	if !domain.IsKind(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{})

	doc, err := uc.Reject(context.Background(), adminUser(), "d1")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if doc.Status != domain.StatusRejected {
		t.Fatalf("status = %s, want rejected", doc.Status)
	}

	if _, err := uc.Approve(context.Background(), adminUser(), "d1", approvedMetadata(), nil); !domain.IsKind(err, domain.ErrInvalidState) {
		t.Fatalf("rejected documents must not be approvable, got %v", err)
	}
}

func TestReanalysisRepublishesWithoutStatusChange(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	queue := &queueFake{}
	uc := NewReviewUseCase(repo, queue, &mirrorFake{})

	if err := uc.RequestReanalysis(context.Background(), adminUser(), "d1"); err != nil {
		t.Fatalf("RequestReanalysis() error = %v", err)
	}
	if len(queue.published) != 1 || queue.published[0] != "d1" {
		t.Fatalf("expected republished job for d1, got %v", queue.published)
	}
	if repo.docs["d1"].Status != domain.StatusReviewNeeded {
		t.Fatalf("status = %s, re-analysis must not change it", repo.docs["d1"].Status)
	}
}

func TestReviewForbiddenWithoutModifyPermission(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{})

	if _, err := uc.Approve(context.Background(), viewerUser(), "d1", approvedMetadata(), nil); !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("approve: expected forbidden, got %v", err)
	}
	if _, err := uc.Reject(context.Background(), viewerUser(), "d1"); !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("reject: expected forbidden, got %v", err)
	}
	if err := uc.RequestReanalysis(context.Background(), viewerUser(), "d1"); !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("reanalyze: expected forbidden, got %v", err)
	}
}

func TestApproveMirrorFailureDoesNotBlock(t *testing.T) {
	repo := newRepoFake(reviewNeededDoc("d1"))
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{err: errors.New("graph down")})

	doc, err := uc.Approve(context.Background(), adminUser(), "d1", approvedMetadata(), nil)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if doc.Status != domain.StatusApproved {
		t.Fatalf("status = %s, mirror failures are best effort", doc.Status)
	}
}

func TestQueueListsDocumentsAwaitingReview(t *testing.T) {
	processing := processingDoc("d1")
	inReview := reviewNeededDoc("d2")
	done := reviewNeededDoc("d3")
	done.Status = domain.StatusApproved
	repo := newRepoFake(processing, inReview, done)
	uc := NewReviewUseCase(repo, &queueFake{}, &mirrorFake{})

	docs, err := uc.Queue(context.Background())
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "d1" || docs[1].ID != "d2" {
		t.Fatalf("queue = %+v, want d1 and d2 in arrival order", docs)
	}
}
