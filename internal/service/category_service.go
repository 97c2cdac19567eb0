package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"menu-catalog/internal/domain"
	"menu-catalog/internal/repository"
	"menu-catalog/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, in domain.CreateCategoryInput, imagePath string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch, imagePath string) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	assets     storage.AssetStore
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, assets storage.AssetStore, logger *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		assets:     assets,
		logger:     logger,
	}
}

func validTaxType(taxType string) bool {
	return taxType == "" || taxType == domain.TaxTypePercentage || taxType == domain.TaxTypeFixed
}

// Create validates input, uploads the image, and persists the category.
// The image is mandatory; the upload happens before the insert, so a
// failed insert can leave an orphaned remote asset (accepted, logged).
func (s *categoryService) Create(ctx context.Context, in domain.CreateCategoryInput, imagePath string) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || in.Description == "" {
		return nil, invalidInput("name and description are required")
	}
	if !validTaxType(in.TaxType) {
		return nil, invalidInput("taxType must be 'percentage' or 'fixed'")
	}
	if imagePath == "" {
		return nil, invalidInput("image is required")
	}

	asset, err := s.assets.Upload(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	now := time.Now()
	category := &domain.Category{
		ID:               uuid.New(),
		Name:             in.Name,
		Description:      in.Description,
		ImageURL:         asset.URL,
		TaxApplicability: in.TaxApplicability,
		Tax:              in.Tax,
		TaxType:          in.TaxType,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Warn("Category insert failed after upload; remote asset orphaned",
			zap.String("asset_url", asset.URL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// List returns all categories.
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// Get returns a category by id.
func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category not found")
		}
		return nil, err
	}
	return category, nil
}

// Update applies a partial update. Supplying a new image uploads it and
// deletes the previous asset best-effort, keeping exactly one live asset
// referenced by the record.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch, imagePath string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category not found")
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidInput("name cannot be empty")
		}
		category.Name = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, invalidInput("description cannot be empty")
		}
		category.Description = description
	}
	if patch.TaxApplicability != nil {
		category.TaxApplicability = *patch.TaxApplicability
	}
	if patch.Tax != nil {
		category.Tax = *patch.Tax
	}
	if patch.TaxType != nil {
		if !validTaxType(*patch.TaxType) {
			return nil, invalidInput("taxType must be 'percentage' or 'fixed'")
		}
		category.TaxType = *patch.TaxType
	}

	if imagePath != "" {
		asset, err := s.assets.Upload(ctx, imagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		deleteAsset(ctx, s.assets, s.logger, storage.PublicIDFromURL(category.ImageURL))
		category.ImageURL = asset.URL
	}

	category.UpdatedAt = time.Now()

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category not found")
		}
		return nil, err
	}

	return category, nil
}

// Delete removes the category and its remote image asset (best-effort).
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return notFound("category not found")
		}
		return err
	}

	deleteAsset(ctx, s.assets, s.logger, storage.PublicIDFromURL(category.ImageURL))

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return notFound("category not found")
		}
		return err
	}

	return nil
}
