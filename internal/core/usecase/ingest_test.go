package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

func TestUploadFileRegistersStoresAndQueues(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := NewIngestUseCase(repo, storage, queue, nil)

	docs, err := uc.Upload(context.Background(), adminUser(), []ports.UploadItem{{
		FileName: "毕业 论文.pdf",
		MimeType: "application/pdf",
		Size:     5,
		Body:     bytes.NewBufferString("hello"),
	}})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	doc := docs[0]
	if doc.ID == "" {
		t.Fatal("expected document id")
	}
	if doc.Status != domain.StatusProcessing {
		t.Fatalf("status = %s, want processing", doc.Status)
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("expected one queued job for %s, got %v", doc.ID, queue.published)
	}
	if _, ok := repo.docs[doc.ID]; !ok {
		t.Fatal("expected repo.Create call")
	}
	if !strings.HasSuffix(doc.StoragePath, ".pdf") || strings.Contains(doc.StoragePath, " ") {
		t.Fatalf("expected sanitized storage path, got %s", doc.StoragePath)
	}
	if string(storage.files[doc.StoragePath]) != "hello" {
		t.Fatalf("expected stored body hello, got %q", storage.files[doc.StoragePath])
	}
}

func TestUploadFolderRegisteredButNeverQueued(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := NewIngestUseCase(repo, storage, queue, nil)

	docs, err := uc.Upload(context.Background(), adminUser(), []ports.UploadItem{{
		FileName: "外事档案/2023",
		Folder:   true,
	}})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	doc := docs[0]
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("status = %s, want uploaded", doc.Status)
	}
	if doc.MimeType != domain.MimeFolder {
		t.Fatalf("mime type = %s, want folder", doc.MimeType)
	}
	if len(queue.published) != 0 {
		t.Fatalf("folder entries must not be queued, got %v", queue.published)
	}
	if len(storage.files) != 0 {
		t.Fatal("folder entries must not touch storage")
	}
}

func TestUploadForbiddenWithoutImportPermission(t *testing.T) {
	uc := NewIngestUseCase(newRepoFake(), newStorageFake(), &queueFake{}, nil)

	_, err := uc.Upload(context.Background(), viewerUser(), []ports.UploadItem{{
		FileName: "a.txt", Body: bytes.NewBufferString("x"),
	}})
	if !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUploadEmptyBatchRejected(t *testing.T) {
	uc := NewIngestUseCase(newRepoFake(), newStorageFake(), &queueFake{}, nil)

	_, err := uc.Upload(context.Background(), adminUser(), nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestUploadStorageFailureRejectsFileKeepsSiblings(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := NewIngestUseCase(repo, storage, queue, nil)

	items := []ports.UploadItem{
		{FileName: "ok.txt", Body: bytes.NewBufferString("fine")},
		{FileName: "broken.txt", Body: bytes.NewBufferString("doomed")},
	}

	docs, err := uc.Upload(context.Background(), adminUser(), items[:1])
	if err != nil || len(docs) != 1 {
		t.Fatalf("first upload failed: %v", err)
	}

	storage.saveErr = errors.New("disk full")
	moreDocs, err := uc.Upload(context.Background(), adminUser(), items[1:])
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if len(moreDocs) != 0 {
		t.Fatalf("failed file must not be registered, got %d docs", len(moreDocs))
	}
	if len(repo.docs) != 1 {
		t.Fatalf("earlier sibling must stand, repo has %d docs", len(repo.docs))
	}
}

func TestUploadKeepsRelativePathFromNestedFilename(t *testing.T) {
	repo := newRepoFake()
	uc := NewIngestUseCase(repo, newStorageFake(), &queueFake{}, nil)

	docs, err := uc.Upload(context.Background(), adminUser(), []ports.UploadItem{{
		FileName: "外事处/2023/纪要.docx",
		Body:     bytes.NewBufferString("x"),
	}})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if docs[0].FileName != "纪要.docx" {
		t.Fatalf("filename = %s, want base name", docs[0].FileName)
	}
	if docs[0].RelPath != "外事处/2023/" {
		t.Fatalf("rel path = %s, want 外事处/2023/", docs[0].RelPath)
	}
}
