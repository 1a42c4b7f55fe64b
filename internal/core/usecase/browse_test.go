package usecase

import (
	"context"
	"testing"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

func approvedDoc(id string, category domain.Category, entities ...domain.Entity) domain.Document {
	doc := processingDoc(id)
	doc.Status = domain.StatusApproved
	md := approvedMetadata()
	md.Category = category
	doc.Metadata = &md
	doc.Entities = entities
	return doc
}

func TestListReturnsApprovedOnly(t *testing.T) {
	repo := newRepoFake(
		approvedDoc("d1", domain.CategoryAcademic),
		processingDoc("d2"),
		reviewNeededDoc("d3"),
	)
	uc := NewBrowseUseCase(repo)

	docs, err := uc.List(context.Background(), ports.BrowseFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("docs = %+v, want only d1", docs)
	}
}

func TestListFiltersByCategory(t *testing.T) {
	repo := newRepoFake(
		approvedDoc("d1", domain.CategoryAcademic),
		approvedDoc("d2", domain.CategoryResearch),
	)
	uc := NewBrowseUseCase(repo)

	docs, err := uc.List(context.Background(), ports.BrowseFilter{Category: domain.CategoryResearch})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d2" {
		t.Fatalf("docs = %+v, want only d2", docs)
	}
}

func TestListEntityTypeBucketMatchesByType(t *testing.T) {
	repo := newRepoFake(
		approvedDoc("d1", domain.CategoryAcademic,
			domain.Entity{Name: "王院长", Type: domain.EntityPerson, Context: "c"}),
		approvedDoc("d2", domain.CategoryAcademic,
			domain.Entity{Name: "图书馆", Type: domain.EntityLocation, Context: "c"}),
	)
	uc := NewBrowseUseCase(repo)

	docs, err := uc.List(context.Background(), ports.BrowseFilter{Entity: "Person"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("docs = %+v, want only the document with a Person entity", docs)
	}
}

func TestListEntityExactNameMatch(t *testing.T) {
	repo := newRepoFake(
		approvedDoc("d1", domain.CategoryAcademic,
			domain.Entity{Name: "王院长", Type: domain.EntityPerson, Context: "c"}),
		approvedDoc("d2", domain.CategoryAcademic,
			domain.Entity{Name: "王院", Type: domain.EntityPerson, Context: "c"}),
	)
	uc := NewBrowseUseCase(repo)

	docs, err := uc.List(context.Background(), ports.BrowseFilter{Entity: "王院长"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("docs = %+v, entity match is exact name only", docs)
	}
}

func TestEntityDirectoryFirstSeenOrderAndDedup(t *testing.T) {
	repo := newRepoFake(
		approvedDoc("d1", domain.CategoryAcademic,
			domain.Entity{Name: "王院长", Type: domain.EntityPerson, Context: "c"},
			domain.Entity{Name: "张教授", Type: domain.EntityPerson, Context: "c"}),
		approvedDoc("d2", domain.CategoryAcademic,
			domain.Entity{Name: "王院长", Type: domain.EntityPerson, Context: "c"},
			domain.Entity{Name: "校庆", Type: domain.EntityEvent, Context: "c"}),
	)
	uc := NewBrowseUseCase(repo)

	dir, err := uc.EntityDirectory(context.Background())
	if err != nil {
		t.Fatalf("EntityDirectory() error = %v", err)
	}
	persons := dir[domain.EntityPerson]
	if len(persons) != 2 || persons[0] != "王院长" || persons[1] != "张教授" {
		t.Fatalf("persons = %v, want first-seen order without duplicates", persons)
	}
	if events := dir[domain.EntityEvent]; len(events) != 1 || events[0] != "校庆" {
		t.Fatalf("events = %v", events)
	}
	if locations := dir[domain.EntityLocation]; len(locations) != 0 {
		t.Fatalf("locations = %v, want empty bucket present", locations)
	}
}

func TestStatsAggregatesCountersAndCategories(t *testing.T) {
	rejected := reviewNeededDoc("d4")
	rejected.Status = domain.StatusRejected
	repo := newRepoFake(
		approvedDoc("d1", domain.CategoryAcademic),
		approvedDoc("d2", domain.CategoryAcademic),
		reviewNeededDoc("d3"),
		rejected,
		processingDoc("d5"),
	)
	uc := NewBrowseUseCase(repo)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 5 || stats.Approved != 2 || stats.ReviewNeeded != 1 || stats.Rejected != 1 || stats.Processing != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.ByCategory[domain.CategoryAcademic] != 2 {
		t.Fatalf("by category = %v, only approved documents count", stats.ByCategory)
	}
	if stats.TotalBytes != 5*12 {
		t.Fatalf("total bytes = %d, want 60", stats.TotalBytes)
	}
}
