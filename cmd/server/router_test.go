package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type pingRoutes struct{ path string }

func (p pingRoutes) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(p.path, func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"session": middleware.SessionID(r.Context())})
	}).Methods(http.MethodGet)
}

type splitRoutes struct{ public, admin string }

func (s splitRoutes) RegisterRoutes(public, admin *mux.Router) {
	pingRoutes{s.public}.RegisterRoutes(public)
	pingRoutes{s.admin}.RegisterRoutes(admin)
}

func testRouter(t *testing.T, ping func(context.Context) error) (http.Handler, *auth.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := auth.NewService("admin@loja.com", string(hash), "secret", time.Hour)
	log := logger.NewNop()

	return newRouter(routes{
		logger:   log,
		auth:     svc,
		health:   ping,
		login:    auth.NewHandler(svc, log),
		products: splitRoutes{"/products", "/products"},
		catalog:  splitRoutes{"/categories", "/categories"},
		settings: splitRoutes{"/settings", "/settings"},
		cart:     pingRoutes{"/cart"},
		checkout: pingRoutes{"/checkout"},
		orders:   pingRoutes{"/orders"},
		stock:    pingRoutes{"/inventory"},
	}), svc
}

func TestHealthz(t *testing.T) {
	h, _ := testRouter(t, func(context.Context) error { return nil })
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	h, _ = testRouter(t, func(context.Context) error { return errors.New("db down") })
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStorefrontRoutesCarrySession(t *testing.T) {
	h, _ := testRouter(t, func(context.Context) error { return nil })

	for _, path := range []string{"/api/cart", "/api/checkout", "/api/products", "/api/settings"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["session"], path)
		assert.Equal(t, body["session"], w.Header().Get(middleware.SessionHeader), path)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h, svc := testRouter(t, func(context.Context) error { return nil })

	for _, path := range []string{"/admin/orders", "/admin/inventory", "/admin/products", "/admin/settings"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	token, _, err := svc.Login("admin@loja.com", "segredo")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	h, _ := testRouter(t, func(context.Context) error { return nil })
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error.not_found", body.Error)
}

func TestWithColon(t *testing.T) {
	assert.Equal(t, ":8080", withColon("8080"))
	assert.Equal(t, ":8080", withColon(":8080"))
	assert.Equal(t, "0.0.0.0:8080", withColon("0.0.0.0:8080"))
}
