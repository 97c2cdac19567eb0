package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tax type values allowed on a category.
const (
	TaxTypePercentage = "percentage"
	TaxTypeFixed      = "fixed"
)

// Category is the top level of the menu hierarchy.
type Category struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image"`
	TaxApplicability bool      `json:"taxApplicability"`
	Tax              float64   `json:"tax"`
	TaxType          string    `json:"taxType,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CategoryRef is the projection of a parent category embedded in
// sub-category and item responses.
type CategoryRef struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TaxApplicability bool      `json:"taxApplicability"`
	Tax              float64   `json:"tax"`
}

// SubCategory belongs to exactly one category. Its tax fields are a
// snapshot of the parent taken at creation or at the last reassignment;
// later edits to the parent do not propagate.
type SubCategory struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	ImageURL         string       `json:"image"`
	CategoryID       uuid.UUID    `json:"categoryId"`
	Category         *CategoryRef `json:"category,omitempty"`
	TaxApplicability bool         `json:"taxApplicability"`
	Tax              float64      `json:"tax"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// SubCategoryRef is the projection of a parent sub-category embedded in
// item responses.
type SubCategoryRef struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TaxApplicability bool      `json:"taxApplicability"`
	Tax              float64   `json:"tax"`
}

// Item is a sellable menu entry. TotalAmount is derived and stored:
// baseAmount - discount + (taxApplicability ? baseAmount*tax/100 : 0).
type Item struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ImageURL         string          `json:"image"`
	ImagePublicID    string          `json:"imagePublicId,omitempty"`
	TaxApplicability bool            `json:"taxApplicability"`
	Tax              float64         `json:"tax"`
	BaseAmount       float64         `json:"baseAmount"`
	Discount         float64         `json:"discount"`
	TotalAmount      float64         `json:"totalAmount"`
	CategoryID       uuid.UUID       `json:"categoryId"`
	Category         *CategoryRef    `json:"category,omitempty"`
	SubCategoryID    *uuid.UUID      `json:"subCategoryId,omitempty"`
	SubCategory      *SubCategoryRef `json:"subCategory,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// CreateCategoryInput carries the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name             string
	Description      string
	TaxApplicability bool
	Tax              float64
	TaxType          string
}

// CreateSubCategoryInput carries the fields accepted when creating a
// sub-category. Tax fields are not accepted; they are inherited from the
// parent category.
type CreateSubCategoryInput struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
}

// CreateItemInput carries the fields accepted when creating an item.
type CreateItemInput struct {
	Name             string
	Description      string
	TaxApplicability bool
	Tax              float64
	BaseAmount       float64
	Discount         float64
	CategoryID       uuid.UUID
	SubCategoryID    *uuid.UUID
}

// CategoryPatch is a partial update. Nil means "leave unchanged"; a
// pointed-to zero value is an explicit zero.
type CategoryPatch struct {
	Name             *string
	Description      *string
	TaxApplicability *bool
	Tax              *float64
	TaxType          *string
}

// SubCategoryPatch is a partial update. Changing CategoryID to a different
// category re-inherits the tax snapshot from the new parent.
type SubCategoryPatch struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
}

// ItemPatch is a partial update. TaxApplicability and Tax are not optional:
// every update replaces them with the request values, absent fields falling
// back to their defaults. The remaining fields follow presence semantics.
type ItemPatch struct {
	Name             *string
	Description      *string
	TaxApplicability bool
	Tax              float64
	BaseAmount       *float64
	Discount         *float64
	CategoryID       *uuid.UUID
	SubCategoryID    *uuid.UUID
}
