package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts storefront reads on public and catalog management
// on admin.
func (h *ProductHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/catalog", h.GetCatalog).Methods(http.MethodGet)
	public.HandleFunc("/products", h.ListActiveProducts).Methods(http.MethodGet)
	public.HandleFunc("/products/{id}", h.GetActiveProduct).Methods(http.MethodGet)

	admin.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	admin.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/export", h.ExportProducts).Methods(http.MethodGet)
	admin.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	admin.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	admin.HandleFunc("/products/{id}/active", h.ToggleActive).Methods(http.MethodPatch)

	admin.HandleFunc("/products/{id}/images", h.AddImage).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}/images/reorder", h.ReorderImages).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}/images/{imageID}", h.UpdateImage).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}/images/{imageID}", h.RemoveImage).Methods(http.MethodDelete)
	admin.HandleFunc("/products/{id}/images/{imageID}/main", h.SetMainImage).Methods(http.MethodPut)

	admin.HandleFunc("/products/{id}/groups", h.AddGroup).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}/groups/{groupID}", h.UpdateGroup).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}/groups/{groupID}", h.RemoveGroup).Methods(http.MethodDelete)
	admin.HandleFunc("/products/{id}/groups/{groupID}/options", h.AddOption).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}/groups/{groupID}/options/{optionID}", h.UpdateOption).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}/groups/{groupID}/options/{optionID}", h.RemoveOption).Methods(http.MethodDelete)
}

// --- Storefront ---

func (h *ProductHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.uc.GetCatalog(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, catalog)
}

func (h *ProductHandler) ListActiveProducts(w http.ResponseWriter, r *http.Request) {
	active := true
	filters := filtersFromQuery(r)
	filters.IsActive = &active
	h.list(w, r, filters)
}

func (h *ProductHandler) GetActiveProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !p.IsActive {
		h.writeError(w, r, product.ErrProductNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// --- Admin ---

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters := filtersFromQuery(r)
	filters.IsActive = httpx.QueryBool(r, "is_active")
	h.list(w, r, filters)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, filters *dto.ProductFilters) {
	products, total, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.ProductListResponse{
		Products: products,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}

func filtersFromQuery(r *http.Request) *dto.ProductFilters {
	q := r.URL.Query()
	return &dto.ProductFilters{
		CategoryID:  q.Get("category_id"),
		SearchQuery: q.Get("q"),
		SortBy:      q.Get("sort"),
		SortOrder:   q.Get("order"),
		Page:        httpx.QueryInt(r, "page", 1),
		PageSize:    httpx.QueryInt(r, "page_size", 0),
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateProductInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	input.ID = mux.Vars(r)["id"]

	p, err := h.uc.UpdateProduct(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ProductHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.ToggleActive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.uc.ExportProducts(r.Context(), &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	filename := "products-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to stream product export", zap.Error(err))
	}
}

// --- Images ---

func (h *ProductHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var input dto.ImageInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	input.ProductID = mux.Vars(r)["id"]

	img, err := h.uc.AddImage(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, img)
}

func (h *ProductHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var input dto.ImageInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	vars := mux.Vars(r)
	input.ProductID, input.ID = vars["id"], vars["imageID"]

	img, err := h.uc.UpdateImage(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, img)
}

func (h *ProductHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.uc.RemoveImage(r.Context(), vars["id"], vars["imageID"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ProductHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.uc.ReorderImages(r.Context(), mux.Vars(r)["id"], req.IDs); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ProductHandler) SetMainImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.uc.SetMainImage(r.Context(), vars["id"], vars["imageID"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// --- Variations ---

func (h *ProductHandler) AddGroup(w http.ResponseWriter, r *http.Request) {
	var input dto.GroupInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	input.ProductID = mux.Vars(r)["id"]

	g, err := h.uc.AddVariationGroup(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, g)
}

func (h *ProductHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var input dto.GroupInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	vars := mux.Vars(r)
	input.ProductID, input.ID = vars["id"], vars["groupID"]

	g, err := h.uc.UpdateVariationGroup(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, g)
}

func (h *ProductHandler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.uc.RemoveVariationGroup(r.Context(), vars["id"], vars["groupID"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ProductHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	var input dto.OptionInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	vars := mux.Vars(r)
	input.ProductID, input.GroupID = vars["id"], vars["groupID"]

	o, err := h.uc.AddVariationOption(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *ProductHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	var input dto.OptionInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	vars := mux.Vars(r)
	input.ProductID, input.GroupID, input.ID = vars["id"], vars["groupID"], vars["optionID"]

	o, err := h.uc.UpdateVariationOption(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *ProductHandler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.uc.RemoveVariationOption(r.Context(), vars["id"], vars["groupID"], vars["optionID"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httpx.FieldErrors(w, r, "product.invalid", verr.Fields, verr.Params)
	case errors.Is(err, product.ErrProductNotFound):
		httpx.Error(w, r, http.StatusNotFound, "error.not_found", nil)
	case errors.Is(err, product.ErrImageNotFound):
		httpx.Error(w, r, http.StatusNotFound, "product.image_not_found", nil)
	case errors.Is(err, product.ErrVariationNotFound):
		httpx.Error(w, r, http.StatusNotFound, "product.variation_not_found", nil)
	case errors.Is(err, product.ErrCategoryNotFound):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "product.category_not_found", nil)
	default:
		h.logger.Error("product request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
