package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts the cart endpoints on a router that already carries
// the session middleware.
func (h *CartHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{itemId}", h.UpdateQuantity).Methods(http.MethodPatch)
	r.HandleFunc("/cart/items/{itemId}", h.RemoveItem).Methods(http.MethodDelete)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetCart(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewCartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	c, err := h.uc.AddItem(r.Context(), &dto.AddItemInput{
		SessionID:  middleware.SessionID(r.Context()),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Selections: req.Selections,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewCartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateQuantityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	c, err := h.uc.UpdateQuantity(r.Context(), &dto.UpdateQuantityInput{
		SessionID: middleware.SessionID(r.Context()),
		ItemID:    mux.Vars(r)["itemId"],
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewCartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.RemoveItem(r.Context(), middleware.SessionID(r.Context()), mux.Vars(r)["itemId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewCartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.ClearCart(r.Context(), middleware.SessionID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "cart.invalid_quantity", nil)
	case errors.Is(err, cart.ErrInvalidVariation):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "cart.invalid_variation", nil)
	case errors.Is(err, cart.ErrProductUnavailable):
		httpx.Error(w, r, http.StatusNotFound, "cart.product_unavailable", nil)
	case errors.Is(err, cart.ErrItemNotFound):
		httpx.Error(w, r, http.StatusNotFound, "cart.item_not_found", nil)
	case errors.Is(err, cart.ErrInsufficientStock):
		httpx.Error(w, r, http.StatusConflict, "cart.insufficient_stock", nil)
	case errors.Is(err, cart.ErrTooManyItems):
		httpx.Error(w, r, http.StatusConflict, "cart.too_many_items", nil)
	case errors.Is(err, cart.ErrStoreInMaintenance):
		httpx.Error(w, r, http.StatusServiceUnavailable, "error.maintenance", nil)
	default:
		h.logger.Error("cart request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
