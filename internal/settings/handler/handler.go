package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/settings"
	"github.com/fekuna/omnipos-storefront-service/internal/settings/dto"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)

	admin.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/settings/delivery", h.UpdateDeliverySettings).Methods(http.MethodPut)
	admin.HandleFunc("/settings/store-config", h.UpdateStoreConfig).Methods(http.MethodPut)
	admin.HandleFunc("/settings/neighborhoods", h.AddNeighborhood).Methods(http.MethodPost)
	admin.HandleFunc("/settings/neighborhoods/{id}", h.UpdateNeighborhood).Methods(http.MethodPut)
	admin.HandleFunc("/settings/neighborhoods/{id}", h.RemoveNeighborhood).Methods(http.MethodDelete)
	admin.HandleFunc("/settings/social-links", h.AddSocialLink).Methods(http.MethodPost)
	admin.HandleFunc("/settings/social-links/{id}", h.UpdateSocialLink).Methods(http.MethodPut)
	admin.HandleFunc("/settings/social-links/{id}", h.RemoveSocialLink).Methods(http.MethodDelete)
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	s, err := h.uc.UpdateSettings(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) UpdateDeliverySettings(w http.ResponseWriter, r *http.Request) {
	var req dto.DeliverySettingsInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	s, err := h.uc.UpdateDeliverySettings(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s.DeliverySettings)
}

func (h *SettingsHandler) UpdateStoreConfig(w http.ResponseWriter, r *http.Request) {
	var req model.StoreConfig
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	s, err := h.uc.UpdateStoreConfig(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s.StoreConfig)
}

func (h *SettingsHandler) AddNeighborhood(w http.ResponseWriter, r *http.Request) {
	var req dto.NeighborhoodInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	n, err := h.uc.AddNeighborhood(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, n)
}

func (h *SettingsHandler) UpdateNeighborhood(w http.ResponseWriter, r *http.Request) {
	var req dto.NeighborhoodInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	n, err := h.uc.UpdateNeighborhood(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

func (h *SettingsHandler) RemoveNeighborhood(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.RemoveNeighborhood(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *SettingsHandler) AddSocialLink(w http.ResponseWriter, r *http.Request) {
	var req dto.SocialLinkInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	link, err := h.uc.AddSocialLink(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, link)
}

func (h *SettingsHandler) UpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	var req dto.SocialLinkInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}
	link, err := h.uc.UpdateSocialLink(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, link)
}

func (h *SettingsHandler) RemoveSocialLink(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.RemoveSocialLink(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *SettingsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httpx.FieldErrors(w, r, "settings.invalid", verr.Fields, verr.Params)
	case errors.Is(err, settings.ErrNeighborhoodNotFound), errors.Is(err, settings.ErrSocialLinkNotFound):
		httpx.Error(w, r, http.StatusNotFound, "settings.not_found", nil)
	default:
		h.logger.Error("settings request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}
