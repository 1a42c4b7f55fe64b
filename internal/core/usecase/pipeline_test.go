package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

// Walks one document through the whole lifecycle: upload, extraction,
// reviewer approval, archive visibility.
func TestDocumentLifecycleUploadToArchive(t *testing.T) {
	ctx := context.Background()
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	parser := &parserFake{result: domain.ParseResult{
		Metadata: approvedMetadata(),
		Entities: []domain.Entity{{ID: "e1", Name: "王院长", Type: domain.EntityPerson, Context: "主持开学典礼"}},
	}}

	ingest := NewIngestUseCase(repo, storage, queue, []string{"pdf"})
	process := NewExtractUseCase(repo, storage, parser, nil)
	review := NewReviewUseCase(repo, queue, &mirrorFake{})
	browse := NewBrowseUseCase(repo)

	docs, err := ingest.Upload(ctx, staffUser(), []ports.UploadItem{{
		FileName: "Report.pdf",
		MimeType: "application/pdf",
		Size:     9,
		Body:     bytes.NewBufferString("pdf bytes"),
	}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	docID := docs[0].ID

	if archived, _ := browse.List(ctx, ports.BrowseFilter{}); len(archived) != 0 {
		t.Fatal("unreviewed document must not be browsable")
	}

	// The worker picks the queued job up.
	if len(queue.published) != 1 || queue.published[0] != docID {
		t.Fatalf("queued jobs = %v", queue.published)
	}
	if err := process.ProcessByID(ctx, docID); err != nil {
		t.Fatalf("process: %v", err)
	}

	pending, err := review.Queue(ctx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("review queue = %+v, err = %v", pending, err)
	}

	edited := *pending[0].Metadata
	edited.Title = "2023年开学典礼纪要"
	if _, err := review.Approve(ctx, adminUser(), docID, edited, pending[0].Entities); err != nil {
		t.Fatalf("approve: %v", err)
	}

	archived, err := browse.List(ctx, ports.BrowseFilter{})
	if err != nil || len(archived) != 1 {
		t.Fatalf("archive listing = %+v, err = %v", archived, err)
	}
	if archived[0].Metadata.Title != "2023年开学典礼纪要" {
		t.Fatalf("archived title = %s", archived[0].Metadata.Title)
	}

	graph, err := browse.Graph(ctx, "王院长")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if len(graph.Nodes) != 2 || len(graph.Links) != 1 {
		t.Fatalf("focus graph = %+v, want one spoke to the approved document", graph)
	}
}
