package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"menu-catalog/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSubCategoryNotFound = errors.New("sub-category not found")
)

// SubCategoryRepository defines the interface for sub-category data access
type SubCategoryRepository interface {
	Create(ctx context.Context, subCategory *domain.SubCategory) error
	List(ctx context.Context) ([]*domain.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	Update(ctx context.Context, subCategory *domain.SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryRepository struct {
	db *sql.DB
}

// NewSubCategoryRepository creates a new instance of SubCategoryRepository
func NewSubCategoryRepository(db *sql.DB) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

// selectSubCategory joins the parent so responses can embed its
// {name, taxApplicability, tax} projection.
const selectSubCategory = `
	SELECT s.id, s.name, s.description, s.image_url, s.category_id,
	       s.tax_applicability, s.tax, s.created_at, s.updated_at,
	       c.name, c.tax_applicability, c.tax
	FROM sub_categories s
	JOIN categories c ON c.id = s.category_id
`

func scanSubCategory(row interface{ Scan(...any) error }) (*domain.SubCategory, error) {
	subCategory := &domain.SubCategory{}
	ref := &domain.CategoryRef{}
	err := row.Scan(
		&subCategory.ID,
		&subCategory.Name,
		&subCategory.Description,
		&subCategory.ImageURL,
		&subCategory.CategoryID,
		&subCategory.TaxApplicability,
		&subCategory.Tax,
		&subCategory.CreatedAt,
		&subCategory.UpdatedAt,
		&ref.Name,
		&ref.TaxApplicability,
		&ref.Tax,
	)
	if err != nil {
		return nil, err
	}
	ref.ID = subCategory.CategoryID
	subCategory.Category = ref
	return subCategory, nil
}

// Create inserts a new sub-category using parameterized queries
func (r *subCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) error {
	query := `
		INSERT INTO sub_categories (id, name, description, image_url, category_id, tax_applicability, tax, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		subCategory.ID,
		subCategory.Name,
		subCategory.Description,
		subCategory.ImageURL,
		subCategory.CategoryID,
		subCategory.TaxApplicability,
		subCategory.Tax,
		subCategory.CreatedAt,
		subCategory.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create sub-category: %w", err)
	}

	return nil
}

// List retrieves all sub-categories with their parent projection
func (r *subCategoryRepository) List(ctx context.Context) ([]*domain.SubCategory, error) {
	query := selectSubCategory + ` ORDER BY s.name ASC`
	return r.query(ctx, query)
}

// FindByID retrieves a sub-category by ID
func (r *subCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	query := selectSubCategory + ` WHERE s.id = $1`

	subCategory, err := scanSubCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find sub-category by ID: %w", err)
	}

	return subCategory, nil
}

// FindByCategory retrieves the sub-categories referencing a category,
// sorted by name
func (r *subCategoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	query := selectSubCategory + ` WHERE s.category_id = $1 ORDER BY s.name ASC`
	return r.query(ctx, query, categoryID)
}

func (r *subCategoryRepository) query(ctx context.Context, query string, args ...any) ([]*domain.SubCategory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-categories: %w", err)
	}
	defer rows.Close()

	subCategories := []*domain.SubCategory{}
	for rows.Next() {
		subCategory, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sub-category: %w", err)
		}
		subCategories = append(subCategories, subCategory)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sub-categories: %w", err)
	}

	return subCategories, nil
}

// Update writes the full merged record back
func (r *subCategoryRepository) Update(ctx context.Context, subCategory *domain.SubCategory) error {
	query := `
		UPDATE sub_categories
		SET name = $2, description = $3, image_url = $4, category_id = $5,
		    tax_applicability = $6, tax = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		subCategory.ID,
		subCategory.Name,
		subCategory.Description,
		subCategory.ImageURL,
		subCategory.CategoryID,
		subCategory.TaxApplicability,
		subCategory.Tax,
	)

	if err != nil {
		return fmt.Errorf("failed to update sub-category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}

// Delete removes a sub-category by ID
func (r *subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sub_categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sub-category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}
