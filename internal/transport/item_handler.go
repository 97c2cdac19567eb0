package transport

import (
	"net/http"
	"strings"

	"menu-catalog/internal/domain"
	"menu-catalog/internal/middleware"
	"menu-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// updateItemRequest is the JSON body accepted by PUT. TaxApplicability and
// Tax are plain values: every update replaces them, and leaving them out of
// the payload resets them to their zero values.
type updateItemRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=1"`
	Description      *string  `json:"description" validate:"omitempty,min=1"`
	TaxApplicability bool     `json:"taxApplicability"`
	Tax              float64  `json:"tax" validate:"gte=0"`
	BaseAmount       *float64 `json:"baseAmount" validate:"omitempty,gt=0"`
	Discount         *float64 `json:"discount" validate:"omitempty,gte=0"`
	Category         *string  `json:"category" validate:"omitempty,uuid"`
	SubCategory      *string  `json:"subCategory" validate:"omitempty,uuid"`
}

// searchResult is the payload shape for item search responses.
type searchResult struct {
	Count int            `json:"count"`
	Items []*domain.Item `json:"items"`
}

// ItemHandler handles HTTP requests for item operations
type ItemHandler struct {
	itemService service.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// RegisterRoutes registers all item routes
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/items", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/{id}", h.GetByID)
		r.Get("/{id}/categories", h.ListByCategory)
		r.Get("/{id}/subCategories", h.ListBySubCategory)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles POST /api/items/create (multipart form + image file)
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := domain.CreateItemInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}
	in.TaxApplicability = parseTruthy(r.FormValue("taxApplicability"))

	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"tax", &in.Tax},
		{"baseAmount", &in.BaseAmount},
		{"discount", &in.Discount},
	} {
		v, ok := formValue(r, field.name)
		if !ok {
			continue
		}
		f, err := parseFloatField(v, field.name)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		*field.dst = f
	}

	if v, ok := formValue(r, "category"); ok {
		categoryID, err := parseUUIDField(v, "category")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.CategoryID = categoryID
	}
	if v, ok := formValue(r, "subCategory"); ok && v != "" {
		subCategoryID, err := parseUUIDField(v, "subCategory")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.SubCategoryID = &subCategoryID
	}

	imagePath, cleanup, err := saveUploadedImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded image")
		return
	}
	defer cleanup()

	item, err := h.itemService.Create(r.Context(), in, imagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "create item")
		return
	}

	h.logger.Info("Item created", zap.String("item_id", item.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, "item created successfully", item)
}

// List handles GET /api/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "items fetched successfully", items)
}

// Search handles GET /api/items/search?query=...&category=...&subCategory=...
// A blank query is rejected; the optional filters narrow the match set.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	var categoryID, subCategoryID *uuid.UUID
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := parseUUIDField(v, "category")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		categoryID = &id
	}
	if v := r.URL.Query().Get("subCategory"); v != "" {
		id, err := parseUUIDField(v, "subCategory")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		subCategoryID = &id
	}

	items, err := h.itemService.Search(r.Context(), query, categoryID, subCategoryID)
	if err != nil {
		respondServiceError(w, h.logger, err, "search items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "items searched successfully", searchResult{
		Count: len(items),
		Items: items,
	})
}

// GetByID handles GET /api/items/{id}
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.itemService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "item fetched successfully", item)
}

// ListByCategory handles GET /api/items/{id}/categories, where the path id
// names the category whose items are listed.
func (h *ItemHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.itemService.ListByCategory(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list items by category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "items by category fetched successfully", items)
}

// ListBySubCategory handles GET /api/items/{id}/subCategories, where the
// path id names the sub-category whose items are listed.
func (h *ItemHandler) ListBySubCategory(w http.ResponseWriter, r *http.Request) {
	subCategoryID, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.itemService.ListBySubCategory(r.Context(), subCategoryID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list items by sub-category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "items by sub-category fetched successfully", items)
}

// Update handles PUT /api/items/{id} (multipart or JSON). TaxApplicability
// and Tax always come from the request; the other fields only change when
// the client supplies them.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	var (
		patch     domain.ItemPatch
		imagePath string
	)

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		if v, ok := formValue(r, "name"); ok {
			patch.Name = &v
		}
		if v, ok := formValue(r, "description"); ok {
			patch.Description = &v
		}
		patch.TaxApplicability = parseTruthy(r.FormValue("taxApplicability"))
		if v, ok := formValue(r, "tax"); ok {
			tax, err := parseFloatField(v, "tax")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.Tax = tax
		}
		if v, ok := formValue(r, "baseAmount"); ok {
			baseAmount, err := parseFloatField(v, "baseAmount")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.BaseAmount = &baseAmount
		}
		if v, ok := formValue(r, "discount"); ok {
			discount, err := parseFloatField(v, "discount")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.Discount = &discount
		}
		if v, ok := formValue(r, "category"); ok {
			categoryID, err := parseUUIDField(v, "category")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.CategoryID = &categoryID
		}
		if v, ok := formValue(r, "subCategory"); ok && v != "" {
			subCategoryID, err := parseUUIDField(v, "subCategory")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.SubCategoryID = &subCategoryID
		}

		var (
			cleanup func()
			err     error
		)
		imagePath, cleanup, err = saveUploadedImage(r)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded image")
			return
		}
		defer cleanup()
	} else {
		var req updateItemRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
			return
		}
		patch = domain.ItemPatch{
			Name:             req.Name,
			Description:      req.Description,
			TaxApplicability: req.TaxApplicability,
			Tax:              req.Tax,
			BaseAmount:       req.BaseAmount,
			Discount:         req.Discount,
		}
		if req.Category != nil {
			categoryID, err := parseUUIDField(*req.Category, "category")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.CategoryID = &categoryID
		}
		if req.SubCategory != nil {
			subCategoryID, err := parseUUIDField(*req.SubCategory, "subCategory")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.SubCategoryID = &subCategoryID
		}
	}

	item, err := h.itemService.Update(r.Context(), id, patch, imagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "update item")
		return
	}

	h.logger.Info("Item updated", zap.String("item_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, "item updated successfully", item)
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete item")
		return
	}

	h.logger.Info("Item deleted", zap.String("item_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, "item deleted successfully", nil)
}
