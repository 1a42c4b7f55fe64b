package usecase

import (
	"bytes"
	"context"
	"io"
	"slices"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

type repoFake struct {
	order []string
	docs  map[string]*domain.Document

	createErr error
	listErr   error

	savedStatus   domain.DocumentStatus
	savedMetadata *domain.Metadata
	savedEntities []domain.Entity
}

func newRepoFake(docs ...domain.Document) *repoFake {
	f := &repoFake{docs: make(map[string]*domain.Document)}
	for _, doc := range docs {
		copyDoc := doc
		f.order = append(f.order, doc.ID)
		f.docs[doc.ID] = &copyDoc
	}
	return f
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.order = append(f.order, doc.ID)
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *repoFake) List(_ context.Context, filter ports.DocumentFilter) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Document, 0, len(f.order))
	for _, id := range f.order {
		doc := f.docs[id]
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, doc.Status) {
			continue
		}
		if filter.UploadedBy != "" && doc.UploadedBy != filter.UploadedBy {
			continue
		}
		if filter.Category != "" && (doc.Metadata == nil || doc.Metadata.Category != filter.Category) {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus) error {
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Status = status
	f.savedStatus = status
	return nil
}

func (f *repoFake) SaveKnowledge(
	_ context.Context,
	id string,
	status domain.DocumentStatus,
	md *domain.Metadata,
	entities []domain.Entity,
) error {
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Status = status
	doc.Metadata = md
	doc.Entities = entities
	f.savedStatus = status
	f.savedMetadata = md
	f.savedEntities = entities
	return nil
}

type storageFake struct {
	files   map[string][]byte
	saveErr error
	openErr error
}

func newStorageFake() *storageFake {
	return &storageFake{files: make(map[string][]byte)}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.files[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	raw, ok := f.files[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishExtractionJob(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeExtractionJobs(context.Context, func(context.Context, string) error) error {
	return nil
}

type parserFake struct {
	result     domain.ParseResult
	err        error
	gotContent []byte
	gotMime    string
}

func (f *parserFake) Parse(_ context.Context, content []byte, mimeType string) (domain.ParseResult, error) {
	f.gotContent = content
	f.gotMime = mimeType
	if f.err != nil {
		return domain.ParseResult{}, f.err
	}
	return f.result, nil
}

type inspectorFake struct {
	props *domain.FileProperties
}

func (f *inspectorFake) Inspect(string, string, []byte) *domain.FileProperties {
	return f.props
}

type mirrorFake struct {
	mirrored []string
	err      error
}

func (f *mirrorFake) MirrorApproved(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	f.mirrored = append(f.mirrored, doc.ID)
	return nil
}

func (f *mirrorFake) Close(context.Context) error { return nil }

func adminUser() *domain.User {
	return &domain.User{
		ID:   "u1",
		Name: "Admin User",
		Role: domain.RoleAdmin,
		Permissions: domain.Permissions{
			CanView: true, CanImport: true, CanExport: true, CanModify: true, CanDelete: true,
		},
	}
}

func staffUser() *domain.User {
	return &domain.User{
		ID:   "u2",
		Name: "Staff A",
		Role: domain.RoleUser,
		Permissions: domain.Permissions{
			CanView: true, CanImport: true, CanModify: true, RequiresApproval: true,
		},
	}
}

func viewerUser() *domain.User {
	return &domain.User{
		ID:          "u3",
		Name:        "Researcher B",
		Role:        domain.RoleUser,
		Permissions: domain.Permissions{CanView: true},
	}
}

func approvedMetadata() domain.Metadata {
	return domain.Metadata{
		Title:           "2023级新生录取名册",
		Category:        domain.CategoryAcademic,
		Date:            "2023-09-01",
		Summary:         "2023级本科新生录取信息汇总。",
		SecurityLevel:   domain.SecurityInternal,
		ConfidenceScore: 95,
	}
}
