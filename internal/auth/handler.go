package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Handler struct {
	svc    *Service
	logger logger.ZapLogger
}

func NewHandler(svc *Service, log logger.ZapLogger) *Handler {
	return &Handler{svc: svc, logger: log}
}

// RegisterRoutes mounts the login endpoint. r must not be behind RequireAdmin.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "error.bad_request", nil)
		return
	}

	token, expiresAt, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Warn("admin login rejected", zap.String("email", req.Email))
			httpx.Error(w, r, http.StatusUnauthorized, "error.invalid_credentials", nil)
			return
		}
		h.logger.Error("admin login failed", zap.Error(err))
		httpx.Error(w, r, http.StatusInternalServerError, "error.internal", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}
