package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/inventory"
	"github.com/fekuna/omnipos-storefront-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(admin *mux.Router) {
	admin.HandleFunc("/inventory", h.ListStock).Methods(http.MethodGet)
	admin.HandleFunc("/inventory/movements", h.ListMovements).Methods(http.MethodGet)
	admin.HandleFunc("/inventory/{productID}", h.GetStock).Methods(http.MethodGet)
	admin.HandleFunc("/inventory/{productID}/adjust", h.AdjustStock).Methods(http.MethodPost)
}

func (h *InventoryHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	filters := &dto.StockFilters{
		Page:     httpx.QueryInt(r, "page", 1),
		PageSize: httpx.QueryInt(r, "page_size", 20),
	}
	if r.URL.Query().Has("low_stock") {
		threshold := httpx.QueryInt(r, "low_stock", 0)
		filters.LowStock = &threshold
	}

	items, total, err := h.uc.ListStock(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.StockListResponse{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.MovementFilters{
		ProductID:    q.Get("product_id"),
		MovementType: q.Get("type"),
		Page:         httpx.QueryInt(r, "page", 1),
		PageSize:     httpx.QueryInt(r, "page_size", 20),
	}

	movements, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.MovementListResponse{
		Movements: movements,
		Total:     total,
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	})
}

func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	level, err := h.uc.GetStock(r.Context(), mux.Vars(r)["productID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, level)
}

func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustStockInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	req.ProductID = mux.Vars(r)["productID"]
	req.UserID = auth.GetAdminEmail(r.Context())

	level, err := h.uc.AdjustStock(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, level)
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httpx.FieldErrors(w, r, "inventory.invalid", verr.Fields, verr.Params)
	case errors.Is(err, inventory.ErrProductNotFound):
		httpx.Error(w, r, http.StatusNotFound, "error.not_found", nil)
	case errors.Is(err, inventory.ErrNotTracked):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "inventory.not_tracked", nil)
	case errors.Is(err, inventory.ErrInsufficientStock):
		httpx.Error(w, r, http.StatusConflict, "inventory.insufficient_stock", nil)
	case errors.Is(err, inventory.ErrStockBusy):
		httpx.Error(w, r, http.StatusServiceUnavailable, "inventory.busy", nil)
	default:
		h.logger.Error("inventory request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
