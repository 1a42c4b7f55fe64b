package usecase

import (
	"context"
	"fmt"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

// BrowseUseCase serves the archive browser: read-only projections over the
// approved document set. Every call takes a fresh snapshot from the store;
// nothing here mutates documents.
type BrowseUseCase struct {
	repo ports.DocumentRepository
}

func NewBrowseUseCase(repo ports.DocumentRepository) *BrowseUseCase {
	return &BrowseUseCase{repo: repo}
}

// List filters approved documents by category and/or entity. An entity value
// naming one of the five type buckets matches any document holding at least
// one entity of that type; any other value matches by exact entity name.
func (uc *BrowseUseCase) List(ctx context.Context, filter ports.BrowseFilter) ([]domain.Document, error) {
	docs, err := uc.approvedSnapshot(ctx, filter.Category)
	if err != nil {
		return nil, err
	}
	if filter.Entity == "" {
		return docs, nil
	}

	matched := make([]domain.Document, 0, len(docs))
	bucket := domain.EntityType(filter.Entity)
	for _, doc := range docs {
		if bucket.Valid() {
			if hasEntityOfType(doc, bucket) {
				matched = append(matched, doc)
			}
			continue
		}
		if hasEntityNamed(doc, filter.Entity) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// EntityDirectory collects distinct entity names per type across approved
// documents, in first-seen order.
func (uc *BrowseUseCase) EntityDirectory(ctx context.Context) (domain.EntityDirectory, error) {
	docs, err := uc.approvedSnapshot(ctx, "")
	if err != nil {
		return nil, err
	}
	return buildEntityDirectory(docs), nil
}

// Graph derives the positioned knowledge-graph layout for the current
// approved set and selection.
func (uc *BrowseUseCase) Graph(ctx context.Context, selectedEntity string) (*domain.Graph, error) {
	docs, err := uc.approvedSnapshot(ctx, "")
	if err != nil {
		return nil, err
	}
	graph := LayoutGraph(docs, selectedEntity)
	return &graph, nil
}

// Stats aggregates dashboard counters over the whole store.
func (uc *BrowseUseCase) Stats(ctx context.Context) (*domain.ArchiveStats, error) {
	docs, err := uc.repo.List(ctx, ports.DocumentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list documents for stats: %w", err)
	}

	stats := domain.ArchiveStats{ByCategory: make(map[domain.Category]int)}
	for _, doc := range docs {
		stats.Total++
		stats.TotalBytes += doc.SizeBytes
		switch doc.Status {
		case domain.StatusApproved:
			stats.Approved++
		case domain.StatusReviewNeeded:
			stats.ReviewNeeded++
		case domain.StatusProcessing:
			stats.Processing++
		case domain.StatusRejected:
			stats.Rejected++
		}
		if doc.Status == domain.StatusApproved && doc.Metadata != nil {
			stats.ByCategory[doc.Metadata.Category]++
		}
	}
	return &stats, nil
}

func (uc *BrowseUseCase) approvedSnapshot(ctx context.Context, category domain.Category) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx, ports.DocumentFilter{
		Statuses: []domain.DocumentStatus{domain.StatusApproved},
		Category: category,
	})
	if err != nil {
		return nil, fmt.Errorf("list approved documents: %w", err)
	}
	return docs, nil
}

func hasEntityOfType(doc domain.Document, t domain.EntityType) bool {
	for _, e := range doc.Entities {
		if e.Type == t {
			return true
		}
	}
	return false
}

func hasEntityNamed(doc domain.Document, name string) bool {
	for _, e := range doc.Entities {
		if e.Name == name {
			return true
		}
	}
	return false
}

func buildEntityDirectory(docs []domain.Document) domain.EntityDirectory {
	dir := make(domain.EntityDirectory, len(domain.EntityTypes()))
	seen := make(map[domain.EntityType]map[string]struct{})
	for _, t := range domain.EntityTypes() {
		dir[t] = []string{}
		seen[t] = make(map[string]struct{})
	}
	for _, doc := range docs {
		for _, e := range doc.Entities {
			if !e.Type.Valid() {
				continue
			}
			if _, dup := seen[e.Type][e.Name]; dup {
				continue
			}
			seen[e.Type][e.Name] = struct{}{}
			dir[e.Type] = append(dir[e.Type], e.Name)
		}
	}
	return dir
}
