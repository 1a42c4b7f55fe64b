package usecase

import (
	"context"
	"fmt"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

// ReaderUseCase is the plain read model behind the detail and my-uploads
// views.
type ReaderUseCase struct {
	repo ports.DocumentRepository
}

func NewReaderUseCase(repo ports.DocumentRepository) *ReaderUseCase {
	return &ReaderUseCase{repo: repo}
}

func (uc *ReaderUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *ReaderUseCase) ListByUploader(ctx context.Context, uploaderID string) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx, ports.DocumentFilter{UploadedBy: uploaderID})
	if err != nil {
		return nil, fmt.Errorf("list documents by uploader: %w", err)
	}
	return docs, nil
}
