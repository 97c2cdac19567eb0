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

// ItemService defines the interface for item business logic
type ItemService interface {
	Create(ctx context.Context, in domain.CreateItemInput, imagePath string) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Item, error)
	ListBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*domain.Item, error)
	Search(ctx context.Context, query string, categoryID, subCategoryID *uuid.UUID) ([]*domain.Item, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch, imagePath string) (*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	items         repository.ItemRepository
	categories    repository.CategoryRepository
	subCategories repository.SubCategoryRepository
	assets        storage.AssetStore
	logger        *zap.Logger
}

// NewItemService creates a new instance of ItemService
func NewItemService(
	items repository.ItemRepository,
	categories repository.CategoryRepository,
	subCategories repository.SubCategoryRepository,
	assets storage.AssetStore,
	logger *zap.Logger,
) ItemService {
	return &itemService{
		items:         items,
		categories:    categories,
		subCategories: subCategories,
		assets:        assets,
		logger:        logger,
	}
}

// Create validates input, uploads the mandatory image, derives the total
// amount, and persists the item. Parent references are verified before the
// upload so a bad reference cannot orphan an asset.
func (s *itemService) Create(ctx context.Context, in domain.CreateItemInput, imagePath string) (*domain.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || in.Description == "" || in.CategoryID == uuid.Nil {
		return nil, invalidInput("name, description, baseAmount and category are required")
	}
	if in.BaseAmount <= 0 {
		return nil, invalidInput("baseAmount must be a positive number")
	}
	if imagePath == "" {
		return nil, invalidInput("image is required")
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category not found")
		}
		return nil, err
	}

	var subRef *domain.SubCategoryRef
	if in.SubCategoryID != nil {
		subCategory, err := s.subCategories.FindByID(ctx, *in.SubCategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrSubCategoryNotFound) {
				return nil, notFound("sub-category not found")
			}
			return nil, err
		}
		subRef = &domain.SubCategoryRef{
			ID:               subCategory.ID,
			Name:             subCategory.Name,
			TaxApplicability: subCategory.TaxApplicability,
			Tax:              subCategory.Tax,
		}
	}

	asset, err := s.assets.Upload(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	now := time.Now()
	item := &domain.Item{
		ID:               uuid.New(),
		Name:             in.Name,
		Description:      in.Description,
		ImageURL:         asset.URL,
		ImagePublicID:    asset.PublicID,
		TaxApplicability: in.TaxApplicability,
		Tax:              in.Tax,
		BaseAmount:       in.BaseAmount,
		Discount:         in.Discount,
		TotalAmount:      tax.ComputeTotal(in.BaseAmount, in.Discount, in.TaxApplicability, in.Tax),
		CategoryID:       in.CategoryID,
		SubCategoryID:    in.SubCategoryID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Warn("Item insert failed after upload; remote asset orphaned",
			zap.String("asset_url", asset.URL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	item.Category = categoryRef(category)
	item.SubCategory = subRef
	return item, nil
}

// List returns all items with their parent projections.
func (s *itemService) List(ctx context.Context) ([]*domain.Item, error) {
	return s.items.List(ctx)
}

// Get returns an item by id.
func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, notFound("item not found")
		}
		return nil, err
	}
	return item, nil
}

// ListByCategory returns the items under a category. The category must exist.
func (s *itemService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Item, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category not found")
		}
		return nil, err
	}
	return s.items.FindByCategory(ctx, categoryID)
}

// ListBySubCategory returns the items under a sub-category. The
// sub-category must exist.
func (s *itemService) ListBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*domain.Item, error) {
	if _, err := s.subCategories.FindByID(ctx, subCategoryID); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, notFound("sub-category not found")
		}
		return nil, err
	}
	return s.items.FindBySubCategory(ctx, subCategoryID)
}

// Search matches a term against item names and descriptions, optionally
// narrowed by parent filters. A blank term is rejected.
func (s *itemService) Search(ctx context.Context, query string, categoryID, subCategoryID *uuid.UUID) ([]*domain.Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidInput("search query is required")
	}
	return s.items.Search(ctx, query, categoryID, subCategoryID)
}

// Update applies a partial update and recomputes the total from the final
// field values. Tax fields are replaced on every update, absent values
// falling back to their defaults; the remaining fields only change when
// supplied.
func (s *itemService) Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch, imagePath string) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, notFound("item not found")
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidInput("name cannot be empty")
		}
		item.Name = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, invalidInput("description cannot be empty")
		}
		item.Description = description
	}

	// Tax fields are unconditionally replaced from the request.
	item.TaxApplicability = patch.TaxApplicability
	item.Tax = patch.Tax

	if patch.BaseAmount != nil {
		if *patch.BaseAmount <= 0 {
			return nil, invalidInput("baseAmount must be a positive number")
		}
		item.BaseAmount = *patch.BaseAmount
	}
	if patch.Discount != nil {
		item.Discount = *patch.Discount
	}

	if patch.CategoryID != nil && *patch.CategoryID != item.CategoryID {
		category, err := s.categories.FindByID(ctx, *patch.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, notFound("new category not found")
			}
			return nil, err
		}
		item.CategoryID = category.ID
		item.Category = categoryRef(category)
	}
	if patch.SubCategoryID != nil && (item.SubCategoryID == nil || *patch.SubCategoryID != *item.SubCategoryID) {
		subCategory, err := s.subCategories.FindByID(ctx, *patch.SubCategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrSubCategoryNotFound) {
				return nil, notFound("new sub-category not found")
			}
			return nil, err
		}
		item.SubCategoryID = &subCategory.ID
		item.SubCategory = &domain.SubCategoryRef{
			ID:               subCategory.ID,
			Name:             subCategory.Name,
			TaxApplicability: subCategory.TaxApplicability,
			Tax:              subCategory.Tax,
		}
	}

	item.TotalAmount = tax.ComputeTotal(item.BaseAmount, item.Discount, item.TaxApplicability, item.Tax)

	if imagePath != "" {
		asset, err := s.assets.Upload(ctx, imagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		deleteAsset(ctx, s.assets, s.logger, s.publicID(item))
		item.ImageURL = asset.URL
		item.ImagePublicID = asset.PublicID
	}

	item.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, notFound("item not found")
		}
		return nil, err
	}

	return item, nil
}

// Delete removes the item and its remote image asset (best-effort).
func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return notFound("item not found")
		}
		return err
	}

	deleteAsset(ctx, s.assets, s.logger, s.publicID(item))

	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return notFound("item not found")
		}
		return err
	}

	return nil
}

// publicID prefers the persisted public id and falls back to deriving one
// from the stored URL for records written before the id was tracked.
func (s *itemService) publicID(item *domain.Item) string {
	if item.ImagePublicID != "" {
		return item.ImagePublicID
	}
	return storage.PublicIDFromURL(item.ImageURL)
}
