package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"menu-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func seedCategory(repo *mockCategoryRepository, applicable bool, rate float64) *domain.Category {
	now := time.Now()
	category := &domain.Category{
		ID:               uuid.New(),
		Name:             "Seeded",
		Description:      "Seeded category",
		ImageURL:         "https://assets.test/catalog/seed",
		TaxApplicability: applicable,
		Tax:              rate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	repo.categories[category.ID] = category
	return category
}

// Feature: menu-catalog, Property 5: New sub-categories snapshot the parent's tax fields
// Validates: Requirements 2.2, 2.3
func TestProperty_SubCategoryInheritsParentTaxSnapshot(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("created sub-categories carry the parent's tax fields", prop.ForAll(
		func(name string, applicable bool, rate float64) bool {
			categoryRepo := newMockCategoryRepository()
			subCategoryRepo := newMockSubCategoryRepository()
			assets := &mockAssetStore{}
			service := NewSubCategoryService(subCategoryRepo, categoryRepo, assets, zap.NewNop())
			ctx := context.Background()

			parent := seedCategory(categoryRepo, applicable, rate)

			subCategory, err := service.Create(ctx, domain.CreateSubCategoryInput{
				Name:        name,
				Description: "child of seeded",
				CategoryID:  parent.ID,
			}, "/tmp/upload.png")
			if err != nil {
				t.Logf("FAIL: Create returned error: %v", err)
				return false
			}

			if subCategory.TaxApplicability != applicable || subCategory.Tax != rate {
				t.Logf("FAIL: snapshot mismatch: got (%v, %v), want (%v, %v)",
					subCategory.TaxApplicability, subCategory.Tax, applicable, rate)
				return false
			}
			if subCategory.Category == nil || subCategory.Category.ID != parent.ID {
				t.Logf("FAIL: parent projection missing")
				return false
			}
			return true
		},
		gen.RegexMatch(`[A-Za-z][a-z]{2,30}`),
		gen.Bool(),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: menu-catalog, Property 6: Parent edits never propagate to existing snapshots
// Validates: Requirements 2.3
func TestProperty_ParentTaxEditsDoNotPropagate(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("editing the parent leaves child snapshots untouched", prop.ForAll(
		func(initialRate float64, editedRate float64) bool {
			categoryRepo := newMockCategoryRepository()
			subCategoryRepo := newMockSubCategoryRepository()
			assets := &mockAssetStore{}
			service := NewSubCategoryService(subCategoryRepo, categoryRepo, assets, zap.NewNop())
			ctx := context.Background()

			parent := seedCategory(categoryRepo, true, initialRate)

			subCategory, err := service.Create(ctx, domain.CreateSubCategoryInput{
				Name:        "child",
				Description: "child of seeded",
				CategoryID:  parent.ID,
			}, "/tmp/upload.png")
			if err != nil {
				t.Logf("FAIL: Create returned error: %v", err)
				return false
			}

			// Mutate the parent directly, as a category update would.
			parent.Tax = editedRate
			categoryRepo.categories[parent.ID] = parent

			stored, err := service.Get(ctx, subCategory.ID)
			if err != nil {
				t.Logf("FAIL: Get returned error: %v", err)
				return false
			}
			return stored.Tax == initialRate
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSubCategoryCreateRequiresExistingParent(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	assets := &mockAssetStore{}
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, assets, zap.NewNop())

	_, err := service.Create(context.Background(), domain.CreateSubCategoryInput{
		Name:        "child",
		Description: "orphan",
		CategoryID:  uuid.New(),
	}, "/tmp/upload.png")

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
	// Parent lookup happens before the upload, so no asset is orphaned.
	if assets.uploads != 0 {
		t.Fatalf("no upload should happen for a missing parent, got %d", assets.uploads)
	}
}

func TestSubCategoryCreateRequiresImage(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, &mockAssetStore{}, zap.NewNop())

	parent := seedCategory(categoryRepo, true, 10)

	_, err := service.Create(context.Background(), domain.CreateSubCategoryInput{
		Name:        "child",
		Description: "no image",
		CategoryID:  parent.ID,
	}, "")

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubCategoryReassignmentReInheritsSnapshot(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	assets := &mockAssetStore{}
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, assets, zap.NewNop())
	ctx := context.Background()

	oldParent := seedCategory(categoryRepo, true, 8)
	newParent := seedCategory(categoryRepo, false, 0)

	subCategory, err := service.Create(ctx, domain.CreateSubCategoryInput{
		Name:        "child",
		Description: "moves between parents",
		CategoryID:  oldParent.ID,
	}, "/tmp/upload.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := service.Update(ctx, subCategory.ID, domain.SubCategoryPatch{CategoryID: &newParent.ID}, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.CategoryID != newParent.ID {
		t.Fatal("parent reference should change")
	}
	if updated.TaxApplicability != false || updated.Tax != 0 {
		t.Fatalf("snapshot should re-inherit from the new parent, got (%v, %v)",
			updated.TaxApplicability, updated.Tax)
	}
}

func TestSubCategorySameParentReassignmentSkipsLookup(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	assets := &mockAssetStore{}
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, assets, zap.NewNop())
	ctx := context.Background()

	parent := seedCategory(categoryRepo, true, 8)

	subCategory, err := service.Create(ctx, domain.CreateSubCategoryInput{
		Name:        "child",
		Description: "stays put",
		CategoryID:  parent.ID,
	}, "/tmp/upload.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	lookupsBefore := categoryRepo.findCalls
	if _, err := service.Update(ctx, subCategory.ID, domain.SubCategoryPatch{CategoryID: &parent.ID}, ""); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Supplying the current parent id is a no-op: no category fetch, no
	// snapshot change.
	if categoryRepo.findCalls != lookupsBefore {
		t.Fatalf("same-parent reassignment should not fetch the category, got %d extra lookups",
			categoryRepo.findCalls-lookupsBefore)
	}
}

func TestSubCategoryReassignmentToMissingParentFails(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, &mockAssetStore{}, zap.NewNop())
	ctx := context.Background()

	parent := seedCategory(categoryRepo, true, 8)
	subCategory, err := service.Create(ctx, domain.CreateSubCategoryInput{
		Name:        "child",
		Description: "valid at first",
		CategoryID:  parent.ID,
	}, "/tmp/upload.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	missing := uuid.New()
	_, err = service.Update(ctx, subCategory.ID, domain.SubCategoryPatch{CategoryID: &missing}, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing new parent, got %v", err)
	}

	stored, err := service.Get(ctx, subCategory.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CategoryID != parent.ID || stored.Tax != 8 {
		t.Fatal("failed reassignment must leave the record unchanged")
	}
}

func TestSubCategoryListByCategoryValidatesParent(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, &mockAssetStore{}, zap.NewNop())

	_, err := service.ListByCategory(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestSubCategoryDeleteRemovesRecordAndAsset(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	assets := &mockAssetStore{}
	service := NewSubCategoryService(subCategoryRepo, categoryRepo, assets, zap.NewNop())
	ctx := context.Background()

	parent := seedCategory(categoryRepo, true, 8)
	subCategory, err := service.Create(ctx, domain.CreateSubCategoryInput{
		Name:        "child",
		Description: "short-lived",
		CategoryID:  parent.ID,
	}, "/tmp/upload.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.Delete(ctx, subCategory.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(assets.deletes) != 1 || assets.deletes[0] != "asset-1" {
		t.Fatalf("expected the sub-category's asset deleted once, got %v", assets.deletes)
	}
}
