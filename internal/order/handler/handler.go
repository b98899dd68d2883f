package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/order"
	"github.com/fekuna/omnipos-storefront-service/internal/order/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	feed   http.Handler
	logger logger.ZapLogger
}

// NewOrderHandler serves the admin order endpoints. feed upgrades requests
// to the live order websocket.
func NewOrderHandler(uc order.UseCase, feed http.Handler, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		feed:   feed,
		logger: log,
	}
}

// RegisterRoutes mounts the endpoints on an admin-only router.
func (h *OrderHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	if h.feed != nil {
		r.Handle("/orders/feed", h.feed).Methods(http.MethodGet)
	}
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/status", h.UpdateStatus).Methods(http.MethodPatch)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filters := &dto.OrderFilters{
		Status:   r.URL.Query().Get("status"),
		Page:     httpx.QueryInt(r, "page", 1),
		PageSize: httpx.QueryInt(r, "page_size", 20),
	}

	res, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	o, err := h.uc.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		httpx.Error(w, r, http.StatusNotFound, "error.not_found", nil)
	case errors.Is(err, order.ErrInvalidStatus):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "order.invalid_status", nil)
	default:
		h.logger.Error("order request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
