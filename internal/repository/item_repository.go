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
	ErrItemNotFound = errors.New("item not found")
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	List(ctx context.Context) ([]*domain.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Item, error)
	FindBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*domain.Item, error)
	Search(ctx context.Context, query string, categoryID, subCategoryID *uuid.UUID) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

// selectItem joins both parents so responses can embed their
// {name, taxApplicability, tax} projections. The sub-category join is LEFT
// because the reference is optional.
const selectItem = `
	SELECT i.id, i.name, i.description, i.image_url, i.image_public_id,
	       i.tax_applicability, i.tax, i.base_amount, i.discount, i.total_amount,
	       i.category_id, i.sub_category_id, i.created_at, i.updated_at,
	       c.name, c.tax_applicability, c.tax,
	       s.name, s.tax_applicability, s.tax
	FROM items i
	JOIN categories c ON c.id = i.category_id
	LEFT JOIN sub_categories s ON s.id = i.sub_category_id
`

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	item := &domain.Item{}
	ref := &domain.CategoryRef{}
	var (
		subName          sql.NullString
		subApplicability sql.NullBool
		subTax           sql.NullFloat64
	)
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.ImageURL,
		&item.ImagePublicID,
		&item.TaxApplicability,
		&item.Tax,
		&item.BaseAmount,
		&item.Discount,
		&item.TotalAmount,
		&item.CategoryID,
		&item.SubCategoryID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&ref.Name,
		&ref.TaxApplicability,
		&ref.Tax,
		&subName,
		&subApplicability,
		&subTax,
	)
	if err != nil {
		return nil, err
	}
	ref.ID = item.CategoryID
	item.Category = ref
	if item.SubCategoryID != nil {
		item.SubCategory = &domain.SubCategoryRef{
			ID:               *item.SubCategoryID,
			Name:             subName.String,
			TaxApplicability: subApplicability.Bool,
			Tax:              subTax.Float64,
		}
	}
	return item, nil
}

// Create inserts a new item using parameterized queries
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, description, image_url, image_public_id,
			tax_applicability, tax, base_amount, discount, total_amount,
			category_id, sub_category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.ImageURL,
		item.ImagePublicID,
		item.TaxApplicability,
		item.Tax,
		item.BaseAmount,
		item.Discount,
		item.TotalAmount,
		item.CategoryID,
		item.SubCategoryID,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// List retrieves all items with their parent projections
func (r *itemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	return r.query(ctx, selectItem+` ORDER BY i.name ASC`)
}

// FindByID retrieves an item by ID
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := selectItem + ` WHERE i.id = $1`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}

	return item, nil
}

// FindByCategory retrieves the items referencing a category
func (r *itemRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Item, error) {
	return r.query(ctx, selectItem+` WHERE i.category_id = $1 ORDER BY i.name ASC`, categoryID)
}

// FindBySubCategory retrieves the items referencing a sub-category
func (r *itemRepository) FindBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*domain.Item, error) {
	return r.query(ctx, selectItem+` WHERE i.sub_category_id = $1 ORDER BY i.name ASC`, subCategoryID)
}

// Search matches the term case-insensitively against name or description,
// optionally constrained by parent equality filters
func (r *itemRepository) Search(ctx context.Context, query string, categoryID, subCategoryID *uuid.UUID) ([]*domain.Item, error) {
	pattern := "%" + query + "%"

	where := `WHERE (i.name ILIKE $1 OR i.description ILIKE $1)`
	args := []any{pattern}

	if categoryID != nil {
		args = append(args, *categoryID)
		where += fmt.Sprintf(" AND i.category_id = $%d", len(args))
	}
	if subCategoryID != nil {
		args = append(args, *subCategoryID)
		where += fmt.Sprintf(" AND i.sub_category_id = $%d", len(args))
	}

	return r.query(ctx, selectItem+" "+where+` ORDER BY i.name ASC`, args...)
}

func (r *itemRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Update writes the full merged record back
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, image_url = $4, image_public_id = $5,
		    tax_applicability = $6, tax = $7, base_amount = $8, discount = $9,
		    total_amount = $10, category_id = $11, sub_category_id = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.ImageURL,
		item.ImagePublicID,
		item.TaxApplicability,
		item.Tax,
		item.BaseAmount,
		item.Discount,
		item.TotalAmount,
		item.CategoryID,
		item.SubCategoryID,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete removes an item by ID
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}
