package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/settings"
	"github.com/fekuna/omnipos-storefront-service/internal/settings/dto"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUseCase records the last input. Methods not overridden panic.
type stubUseCase struct {
	settings.UseCase
	err          error
	update       *dto.UpdateSettingsInput
	delivery     *dto.DeliverySettingsInput
	neighborhood dto.NeighborhoodInput
	removed      string
}

func (s *stubUseCase) GetSettings(context.Context) (*model.StoreSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return model.DefaultStoreSettings("s1"), nil
}

func (s *stubUseCase) UpdateSettings(_ context.Context, in *dto.UpdateSettingsInput) (*model.StoreSettings, error) {
	s.update = in
	if s.err != nil {
		return nil, s.err
	}
	out := model.DefaultStoreSettings("s1")
	if in.StoreName != nil {
		out.StoreName = *in.StoreName
	}
	return out, nil
}

func (s *stubUseCase) UpdateDeliverySettings(_ context.Context, in *dto.DeliverySettingsInput) (*model.StoreSettings, error) {
	s.delivery = in
	if s.err != nil {
		return nil, s.err
	}
	out := model.DefaultStoreSettings("s1")
	in.Apply(&out.DeliverySettings)
	return out, nil
}

func (s *stubUseCase) AddNeighborhood(_ context.Context, in dto.NeighborhoodInput) (*model.Neighborhood, error) {
	s.neighborhood = in
	if s.err != nil {
		return nil, s.err
	}
	return &model.Neighborhood{ID: "n1", Name: in.Name, Fee: in.Fee}, nil
}

func (s *stubUseCase) RemoveNeighborhood(_ context.Context, id string) error {
	s.removed = id
	return s.err
}

func (s *stubUseCase) RemoveSocialLink(_ context.Context, id string) error {
	s.removed = id
	return s.err
}

func newRouter(uc settings.UseCase) http.Handler {
	r := mux.NewRouter()
	h := NewSettingsHandler(uc, logger.NewNop())
	h.RegisterRoutes(r.PathPrefix("/api").Subrouter(), r.PathPrefix("/admin").Subrouter())
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	r.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestGetSettings_Public(t *testing.T) {
	w := do(newRouter(&stubUseCase{}), http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Nome da Loja Padrão", body["store_name"])
	assert.Contains(t, body, "delivery_settings")
}

func TestUpdateSettings(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodPut, "/admin/settings",
		`{"store_name":"Gold Pods","delivery_settings":{"fixed_rate":{"enabled":true,"fee":"8.00"}}}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, uc.update)
	require.NotNil(t, uc.update.DeliverySettings)
	assert.Nil(t, uc.update.DeliverySettings.Pickup)
	assert.True(t, uc.update.DeliverySettings.FixedRate.Fee.Equal(decimal.NewFromInt(8)))

	w = do(newRouter(uc), http.MethodPut, "/admin/settings", `{"theme":"dark"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDeliverySettings_ReturnsDeliverySection(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodPut, "/admin/settings/delivery", `{"pickup":{"enabled":true}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body model.DeliverySettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Pickup.Enabled)
}

func TestAddNeighborhood(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodPost, "/admin/settings/neighborhoods", `{"name":"Centro","fee":"5.50"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Centro", uc.neighborhood.Name)
	assert.True(t, uc.neighborhood.Fee.Equal(decimal.RequireFromString("5.5")))
}

func TestRemoveRoutes(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodDelete, "/admin/settings/neighborhoods/n9", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "n9", uc.removed)

	w = do(newRouter(uc), http.MethodDelete, "/admin/settings/social-links/l3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "l3", uc.removed)
}

func TestErrorMapping(t *testing.T) {
	require.NoError(t, i18n.Init())

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &validation.Error{Fields: map[string]string{"primary_color": "validation.hexcolor"}}, http.StatusUnprocessableEntity, "settings.invalid"},
		{"neighborhood", settings.ErrNeighborhoodNotFound, http.StatusNotFound, "settings.not_found"},
		{"social link", settings.ErrSocialLinkNotFound, http.StatusNotFound, "settings.not_found"},
		{"backend", errors.New("connection refused"), http.StatusInternalServerError, "error.internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(&stubUseCase{err: tt.err}), http.MethodDelete, "/admin/settings/neighborhoods/n1", "")
			assert.Equal(t, tt.status, w.Code)

			var body httpx.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}
