package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"menu-catalog/internal/domain"
	"menu-catalog/internal/repository"
	"menu-catalog/internal/storage"

	"github.com/google/uuid"
)

// Mock repositories and asset store for testing

type mockAssetStore struct {
	uploads    int
	deletes    []string
	failUpload bool
	failDelete bool
}

func (m *mockAssetStore) Upload(ctx context.Context, localPath string) (storage.Asset, error) {
	if m.failUpload {
		return storage.Asset{}, errors.New("upload rejected")
	}
	m.uploads++
	publicID := fmt.Sprintf("asset-%d", m.uploads)
	return storage.Asset{
		URL:      "https://assets.test/catalog/" + publicID,
		PublicID: publicID,
	}, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, publicID string) error {
	m.deletes = append(m.deletes, publicID)
	if m.failDelete {
		return errors.New("delete rejected")
	}
	return nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	findCalls  int
	failCreate bool
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, category := range m.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	m.findCalls++
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.ID]; !exists {
		return repository.ErrCategoryNotFound
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockSubCategoryRepository struct {
	subCategories map[uuid.UUID]*domain.SubCategory
}

func newMockSubCategoryRepository() *mockSubCategoryRepository {
	return &mockSubCategoryRepository{subCategories: make(map[uuid.UUID]*domain.SubCategory)}
}

func (m *mockSubCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) error {
	copied := *subCategory
	m.subCategories[subCategory.ID] = &copied
	return nil
}

func (m *mockSubCategoryRepository) List(ctx context.Context) ([]*domain.SubCategory, error) {
	out := make([]*domain.SubCategory, 0, len(m.subCategories))
	for _, subCategory := range m.subCategories {
		out = append(out, subCategory)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, exists := m.subCategories[id]
	if !exists {
		return nil, repository.ErrSubCategoryNotFound
	}
	copied := *subCategory
	return &copied, nil
}

func (m *mockSubCategoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	out := make([]*domain.SubCategory, 0)
	for _, subCategory := range m.subCategories {
		if subCategory.CategoryID == categoryID {
			out = append(out, subCategory)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockSubCategoryRepository) Update(ctx context.Context, subCategory *domain.SubCategory) error {
	if _, exists := m.subCategories[subCategory.ID]; !exists {
		return repository.ErrSubCategoryNotFound
	}
	copied := *subCategory
	m.subCategories[subCategory.ID] = &copied
	return nil
}

func (m *mockSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.subCategories[id]; !exists {
		return repository.ErrSubCategoryNotFound
	}
	delete(m.subCategories, id)
	return nil
}

type mockItemRepository struct {
	items map[uuid.UUID]*domain.Item
}

func newMockItemRepository() *mockItemRepository {
	return &mockItemRepository{items: make(map[uuid.UUID]*domain.Item)}
}

func (m *mockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockItemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, exists := m.items[id]
	if !exists {
		return nil, repository.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockItemRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0)
	for _, item := range m.items {
		if item.CategoryID == categoryID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockItemRepository) FindBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0)
	for _, item := range m.items {
		if item.SubCategoryID != nil && *item.SubCategoryID == subCategoryID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockItemRepository) Search(ctx context.Context, query string, categoryID, subCategoryID *uuid.UUID) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0)
	for _, item := range m.items {
		if categoryID != nil && item.CategoryID != *categoryID {
			continue
		}
		if subCategoryID != nil && (item.SubCategoryID == nil || *item.SubCategoryID != *subCategoryID) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *mockItemRepository) Update(ctx context.Context, item *domain.Item) error {
	if _, exists := m.items[item.ID]; !exists {
		return repository.ErrItemNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.items[id]; !exists {
		return repository.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}
