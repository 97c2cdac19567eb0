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

// updateCategoryRequest is the JSON body accepted by PUT. Pointer fields
// distinguish omitted fields from explicit zero values.
type updateCategoryRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=1"`
	Description      *string  `json:"description" validate:"omitempty,min=1"`
	TaxApplicability *bool    `json:"taxApplicability"`
	Tax              *float64 `json:"tax" validate:"omitempty,gte=0"`
	TaxType          *string  `json:"taxType" validate:"omitempty,oneof=percentage fixed"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles POST /api/categories/create (multipart form + image file)
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := domain.CreateCategoryInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		TaxType:     r.FormValue("taxType"),
	}
	in.TaxApplicability = parseTruthy(r.FormValue("taxApplicability"))
	if v, ok := formValue(r, "tax"); ok {
		tax, err := parseFloatField(v, "tax")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.Tax = tax
	}

	imagePath, cleanup, err := saveUploadedImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded image")
		return
	}
	defer cleanup()

	category, err := h.categoryService.Create(r.Context(), in, imagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, "category created successfully", category)
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "categories fetched successfully", categories)
}

// GetByID handles GET /api/categories/{id}
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "category fetched successfully", category)
}

// Update handles PUT /api/categories/{id} (multipart or JSON)
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	var (
		patch     domain.CategoryPatch
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
		if v, ok := formValue(r, "taxApplicability"); ok {
			b := parseTruthy(v)
			patch.TaxApplicability = &b
		}
		if v, ok := formValue(r, "tax"); ok {
			tax, err := parseFloatField(v, "tax")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.Tax = &tax
		}
		if v, ok := formValue(r, "taxType"); ok {
			patch.TaxType = &v
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
		var req updateCategoryRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
			return
		}
		patch = domain.CategoryPatch{
			Name:             req.Name,
			Description:      req.Description,
			TaxApplicability: req.TaxApplicability,
			Tax:              req.Tax,
			TaxType:          req.TaxType,
		}
	}

	category, err := h.categoryService.Update(r.Context(), id, patch, imagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "update category")
		return
	}

	h.logger.Info("Category updated", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, "category updated successfully", category)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete category")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, "category deleted successfully", nil)
}

// parsePathID validates the uuid path parameter at the HTTP edge so
// malformed ids never reach the service or the database.
func parsePathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
