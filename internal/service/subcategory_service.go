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
	"menu-catalog/internal/tax"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubCategoryService defines the interface for sub-category business logic
type SubCategoryService interface {
	Create(ctx context.Context, in domain.CreateSubCategoryInput, imagePath string) (*domain.SubCategory, error)
	List(ctx context.Context) ([]*domain.SubCategory, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.SubCategoryPatch, imagePath string) (*domain.SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryService struct {
	subCategories repository.SubCategoryRepository
	categories    repository.CategoryRepository
	assets        storage.AssetStore
	logger        *zap.Logger
}

// NewSubCategoryService creates a new instance of SubCategoryService
func NewSubCategoryService(
	subCategories repository.SubCategoryRepository,
	categories repository.CategoryRepository,
	assets storage.AssetStore,
	logger *zap.Logger,
) SubCategoryService {
	return &subCategoryService{
		subCategories: subCategories,
		categories:    categories,
		assets:        assets,
		logger:        logger,
	}
}

// Create validates input, uploads the image, and persists the sub-category
// with the tax snapshot inherited from the parent category.
func (s *subCategoryService) Create(ctx context.Context, in domain.CreateSubCategoryInput, imagePath string) (*domain.SubCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || in.Description == "" || in.CategoryID == uuid.Nil {
		return nil, invalidInput("name, description and category are required")
	}

	parent, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("parent category not found")
		}
		return nil, err
	}

	if imagePath == "" {
		return nil, invalidInput("image is required")
	}

	asset, err := s.assets.Upload(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	snapshot := tax.Inherit(tax.Snapshot{
		Applicability: parent.TaxApplicability,
		Rate:          parent.Tax,
	})

	now := time.Now()
	subCategory := &domain.SubCategory{
		ID:               uuid.New(),
		Name:             in.Name,
		Description:      in.Description,
		ImageURL:         asset.URL,
		CategoryID:       parent.ID,
		TaxApplicability: snapshot.Applicability,
		Tax:              snapshot.Rate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.subCategories.Create(ctx, subCategory); err != nil {
		s.logger.Warn("Sub-category insert failed after upload; remote asset orphaned",
			zap.String("asset_url", asset.URL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create sub-category: %w", err)
	}

	subCategory.Category = categoryRef(parent)
	return subCategory, nil
}

// List returns all sub-categories with their parent projections.
func (s *subCategoryService) List(ctx context.Context) ([]*domain.SubCategory, error) {
	return s.subCategories.List(ctx)
}

// Get returns a sub-category by id.
func (s *subCategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, notFound("sub-category not found")
		}
		return nil, err
	}
	return subCategory, nil
}

// ListByCategory returns the sub-categories under a category. The category
// must exist.
func (s *subCategoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category not found")
		}
		return nil, err
	}
	return s.subCategories.FindByCategory(ctx, categoryID)
}

// Update applies a partial update. Moving the sub-category to a different
// category re-inherits the tax snapshot from the new parent; re-supplying
// the current category id changes nothing and fetches nothing.
func (s *subCategoryService) Update(ctx context.Context, id uuid.UUID, patch domain.SubCategoryPatch, imagePath string) (*domain.SubCategory, error) {
	subCategory, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, notFound("sub-category not found")
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidInput("name cannot be empty")
		}
		subCategory.Name = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, invalidInput("description cannot be empty")
		}
		subCategory.Description = description
	}

	if patch.CategoryID != nil && *patch.CategoryID != subCategory.CategoryID {
		newParent, err := s.categories.FindByID(ctx, *patch.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, notFound("new category not found")
			}
			return nil, err
		}
		snapshot := tax.Inherit(tax.Snapshot{
			Applicability: newParent.TaxApplicability,
			Rate:          newParent.Tax,
		})
		subCategory.CategoryID = newParent.ID
		subCategory.TaxApplicability = snapshot.Applicability
		subCategory.Tax = snapshot.Rate
		subCategory.Category = categoryRef(newParent)
	}

	if imagePath != "" {
		asset, err := s.assets.Upload(ctx, imagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		deleteAsset(ctx, s.assets, s.logger, storage.PublicIDFromURL(subCategory.ImageURL))
		subCategory.ImageURL = asset.URL
	}

	subCategory.UpdatedAt = time.Now()

	if err := s.subCategories.Update(ctx, subCategory); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, notFound("sub-category not found")
		}
		return nil, err
	}

	return subCategory, nil
}

// Delete removes the sub-category and its remote image asset (best-effort).
func (s *subCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	subCategory, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return notFound("sub-category not found")
		}
		return err
	}

	deleteAsset(ctx, s.assets, s.logger, storage.PublicIDFromURL(subCategory.ImageURL))

	if err := s.subCategories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return notFound("sub-category not found")
		}
		return err
	}

	return nil
}

func categoryRef(category *domain.Category) *domain.CategoryRef {
	return &domain.CategoryRef{
		ID:               category.ID,
		Name:             category.Name,
		TaxApplicability: category.TaxApplicability,
		Tax:              category.Tax,
	}
}
