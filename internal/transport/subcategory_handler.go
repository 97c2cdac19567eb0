package transport

import (
	"net/http"

	"menu-catalog/internal/domain"
	"menu-catalog/internal/middleware"
	"menu-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// updateSubCategoryRequest is the JSON body accepted by PUT. Tax fields
// are absent on purpose: they are inherited, never set directly.
type updateSubCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Category    *string `json:"category" validate:"omitempty,uuid"`
}

// SubCategoryHandler handles HTTP requests for sub-category operations
type SubCategoryHandler struct {
	subCategoryService service.SubCategoryService
	logger             *zap.Logger
}

// NewSubCategoryHandler creates a new SubCategoryHandler
func NewSubCategoryHandler(subCategoryService service.SubCategoryService, logger *zap.Logger) *SubCategoryHandler {
	return &SubCategoryHandler{
		subCategoryService: subCategoryService,
		logger:             logger,
	}
}

// RegisterRoutes registers all sub-category routes
func (h *SubCategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sub-categories", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Get("/{id}/categories", h.ListByCategory)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles POST /api/sub-categories/create (multipart form + image file)
func (h *SubCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := domain.CreateSubCategoryInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}
	if v, ok := formValue(r, "category"); ok {
		categoryID, err := parseUUIDField(v, "category")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.CategoryID = categoryID
	}

	imagePath, cleanup, err := saveUploadedImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded image")
		return
	}
	defer cleanup()

	subCategory, err := h.subCategoryService.Create(r.Context(), in, imagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "create sub-category")
		return
	}

	h.logger.Info("Sub-category created", zap.String("sub_category_id", subCategory.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, "sub-category created successfully", subCategory)
}

// List handles GET /api/sub-categories
func (h *SubCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	subCategories, err := h.subCategoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list sub-categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "sub-categories fetched successfully", subCategories)
}

// GetByID handles GET /api/sub-categories/{id}
func (h *SubCategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	subCategory, err := h.subCategoryService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get sub-category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "sub-category fetched successfully", subCategory)
}

// ListByCategory handles GET /api/sub-categories/{id}/categories, where
// the path id names the parent category. Malformed ids are rejected here,
// before any repository access.
func (h *SubCategoryHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	subCategories, err := h.subCategoryService.ListByCategory(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list sub-categories by category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, "sub-categories by category fetched successfully", subCategories)
}

// Update handles PUT /api/sub-categories/{id} (multipart or JSON)
func (h *SubCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	var (
		patch     domain.SubCategoryPatch
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
		if v, ok := formValue(r, "category"); ok {
			categoryID, err := parseUUIDField(v, "category")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.CategoryID = &categoryID
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
		var req updateSubCategoryRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
			return
		}
		patch.Name = req.Name
		patch.Description = req.Description
		if req.Category != nil {
			categoryID, err := parseUUIDField(*req.Category, "category")
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.CategoryID = &categoryID
		}
	}

	subCategory, err := h.subCategoryService.Update(r.Context(), id, patch, imagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "update sub-category")
		return
	}

	h.logger.Info("Sub-category updated", zap.String("sub_category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, "sub-category updated successfully", subCategory)
}

// Delete handles DELETE /api/sub-categories/{id}
func (h *SubCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.subCategoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete sub-category")
		return
	}

	h.logger.Info("Sub-category deleted", zap.String("sub_category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, "sub-category deleted successfully", nil)
}
