package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	logger logger.ZapLogger
}

func NewCheckoutHandler(uc checkout.UseCase, log logger.ZapLogger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/checkout", h.GetCheckout).Methods(http.MethodGet)
	r.HandleFunc("/checkout/next", h.Next).Methods(http.MethodPost)
	r.HandleFunc("/checkout/back", h.Back).Methods(http.MethodPost)
	r.HandleFunc("/checkout/delivery", h.SelectDelivery).Methods(http.MethodPut)
	r.HandleFunc("/checkout/neighborhood", h.SelectNeighborhood).Methods(http.MethodPut)
	r.HandleFunc("/checkout/form", h.UpdateForm).Methods(http.MethodPut)
	r.HandleFunc("/checkout/submit", h.Submit).Methods(http.MethodPost)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, v *checkout.View, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.GetCheckout(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, v, err)
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.Next(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, v, err)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.Back(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, v, err)
}

func (h *CheckoutHandler) SelectDelivery(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectDeliveryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	v, err := h.uc.SelectDelivery(r.Context(), middleware.SessionID(r.Context()), req.DeliveryType)
	h.respond(w, r, v, err)
}

func (h *CheckoutHandler) SelectNeighborhood(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectNeighborhoodRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	v, err := h.uc.SelectNeighborhood(r.Context(), middleware.SessionID(r.Context()), req.NeighborhoodID)
	h.respond(w, r, v, err)
}

func (h *CheckoutHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerFormRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	v, err := h.uc.UpdateForm(r.Context(), middleware.SessionID(r.Context()), req.Form())
	h.respond(w, r, v, err)
}

// Submit accepts an optional form body; without one the stored form is used.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form *checkout.CustomerForm
	if r.ContentLength != 0 {
		var req dto.CustomerFormRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
			return
		}
		f := req.Form()
		form = &f
	}

	rcpt, err := h.uc.Submit(r.Context(), middleware.SessionID(r.Context()), form)
	if errors.Is(err, checkout.ErrHandoffFailed) && rcpt != nil && rcpt.Order != nil {
		lang := r.Header.Get("Accept-Language")
		httpx.JSON(w, http.StatusBadGateway, dto.HandoffFailedResponse{
			ErrorBody: httpx.ErrorBody{
				Error:   "checkout.handoff_failed",
				Message: i18n.T("checkout.handoff_failed", map[string]interface{}{"Number": rcpt.Order.OrderNumber}, lang),
			},
			Order: rcpt.Order,
		})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rcpt)
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.FieldErrors(w, r, "checkout.validation", verr.Fields, verr.Params)
	case errors.Is(err, checkout.ErrEmptyCart):
		httpx.Error(w, r, http.StatusConflict, "cart.empty", nil)
	case errors.Is(err, checkout.ErrDeliveryOptionRequired):
		httpx.Error(w, r, http.StatusConflict, "checkout.delivery_required", nil)
	case errors.Is(err, checkout.ErrNeighborhoodRequired):
		httpx.Error(w, r, http.StatusConflict, "checkout.neighborhood_required", nil)
	case errors.Is(err, checkout.ErrNotAtCustomerInfo):
		httpx.Error(w, r, http.StatusConflict, "checkout.wrong_step", nil)
	case errors.Is(err, checkout.ErrSubmitInProgress):
		httpx.Error(w, r, http.StatusConflict, "checkout.in_progress", nil)
	case errors.Is(err, checkout.ErrInvalidDeliveryOption):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "checkout.invalid_delivery", nil)
	case errors.Is(err, checkout.ErrDeliveryOptionUnavailable):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "checkout.delivery_unavailable", nil)
	case errors.Is(err, checkout.ErrUnknownNeighborhood):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "checkout.unknown_neighborhood", nil)
	case errors.Is(err, checkout.ErrContactNotConfigured):
		httpx.Error(w, r, http.StatusPreconditionFailed, "checkout.contact_missing", nil)
	case errors.Is(err, checkout.ErrOrderNotSaved):
		h.logger.Error("order not saved", zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "checkout.order_not_saved", nil)
	default:
		h.logger.Error("checkout request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
