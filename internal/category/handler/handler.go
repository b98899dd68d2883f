package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts the storefront listing on public and management
// endpoints on admin.
func (h *CategoryHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/categories", h.ListActive).Methods(http.MethodGet)

	admin.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	admin.HandleFunc("/categories", h.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/reorder", h.ReorderCategories).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id}", h.GetCategory).Methods(http.MethodGet)
	admin.HandleFunc("/categories/{id}", h.UpdateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id}", h.DeleteCategory).Methods(http.MethodDelete)
}

func (h *CategoryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	categories, err := h.uc.ListActive(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.CategoryListResponse{Categories: categories, Total: len(categories)})
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	filters := &dto.CategoryFilters{
		IsActive: httpx.QueryBool(r, "is_active"),
		Page:     httpx.QueryInt(r, "page", 1),
		PageSize: httpx.QueryInt(r, "page_size", 0),
	}

	categories, total, err := h.uc.ListCategories(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.CategoryListResponse{Categories: categories, Total: total})
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	cat, err := h.uc.CreateCategory(r.Context(), &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.uc.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	cat, err := h.uc.UpdateCategory(r.Context(), &dto.UpdateCategoryInput{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *CategoryHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.uc.ReorderCategories(r.Context(), req.IDs); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *CategoryHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httpx.FieldErrors(w, r, "category.invalid", verr.Fields, verr.Params)
	case errors.Is(err, category.ErrCategoryNotFound):
		httpx.Error(w, r, http.StatusNotFound, "error.not_found", nil)
	case errors.Is(err, category.ErrUnknownCategory):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "category.invalid", nil)
	default:
		h.logger.Error("category request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
