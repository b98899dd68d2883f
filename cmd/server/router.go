package main

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type publicAdminRoutes interface {
	RegisterRoutes(public, admin *mux.Router)
}

type routeSet interface {
	RegisterRoutes(r *mux.Router)
}

type routes struct {
	logger logger.ZapLogger
	auth   *auth.Service
	health func(ctx context.Context) error

	login    routeSet
	products publicAdminRoutes
	catalog  publicAdminRoutes
	settings publicAdminRoutes
	cart     routeSet
	checkout routeSet
	orders   routeSet
	stock    routeSet
}

// newRouter mounts the storefront under /api, where every request carries a
// session id, and the management endpoints under /admin behind the admin
// token check.
func newRouter(rt routes) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.AccessLog(rt.logger))
	r.HandleFunc("/healthz", healthz(rt.health, rt.logger)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Session)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireAdmin(rt.auth))

	rt.login.RegisterRoutes(api)
	rt.products.RegisterRoutes(api, admin)
	rt.catalog.RegisterRoutes(api, admin)
	rt.settings.RegisterRoutes(api, admin)
	rt.cart.RegisterRoutes(api)
	rt.checkout.RegisterRoutes(api)
	rt.orders.RegisterRoutes(admin)
	rt.stock.RegisterRoutes(admin)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, r, http.StatusNotFound, "error.not_found", nil)
	})
	return r
}

func healthz(ping func(ctx context.Context) error, log logger.ZapLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
