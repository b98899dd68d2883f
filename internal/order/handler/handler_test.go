package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/order"
	"github.com/fekuna/omnipos-storefront-service/internal/order/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	filters *dto.OrderFilters
	status  model.OrderStatus
	err     error
}

func (s *stubUseCase) CreateOrder(context.Context, *model.Order) error  { return nil }
func (s *stubUseCase) MarkWhatsAppSent(context.Context, string) error { return nil }

func (s *stubUseCase) GetOrder(_ context.Context, id string) (*model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{ID: id, OrderNumber: "GPD-1"}, nil
}

func (s *stubUseCase) ListOrders(_ context.Context, f *dto.OrderFilters) (*dto.OrderListResponse, error) {
	s.filters = f
	return &dto.OrderListResponse{Orders: []model.Order{}, Page: f.Page, PageSize: f.PageSize}, s.err
}

func (s *stubUseCase) UpdateStatus(_ context.Context, id string, st model.OrderStatus) (*model.Order, error) {
	s.status = st
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{ID: id, Status: st}, nil
}

func newRouter(uc order.UseCase, feed http.Handler) http.Handler {
	r := mux.NewRouter()
	NewOrderHandler(uc, feed, logger.NewNop()).RegisterRoutes(r.PathPrefix("/admin").Subrouter())
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestListOrders_ParsesQuery(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc, nil), http.MethodGet, "/admin/orders?status=new&page=3&page_size=10", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, &dto.OrderFilters{Status: "new", Page: 3, PageSize: 10}, uc.filters)
}

func TestUpdateStatus(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc, nil), http.MethodPatch, "/admin/orders/o1/status", `{"status":"shipped"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.OrderStatusShipped, uc.status)

	var o model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Equal(t, "o1", o.ID)
}

func TestErrors(t *testing.T) {
	require.NoError(t, i18n.Init())

	w := do(newRouter(&stubUseCase{err: order.ErrOrderNotFound}, nil), http.MethodGet, "/admin/orders/x", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(newRouter(&stubUseCase{err: order.ErrInvalidStatus}, nil), http.MethodPatch, "/admin/orders/x/status", `{"status":"lost"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "order.invalid_status", body.Error)
}

func TestFeedRouteTakesPrecedence(t *testing.T) {
	feed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	w := do(newRouter(&stubUseCase{}, feed), http.MethodGet, "/admin/orders/feed", "")
	assert.Equal(t, http.StatusSwitchingProtocols, w.Code)
}
