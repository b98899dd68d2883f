package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

var columns = []string{
	"id", "order_number", "customer_name", "customer_phone", "customer_address", "items",
	"subtotal", "delivery_option", "total", "notes", "status", "whatsapp_sent", "created_at", "updated_at",
}

var createdAt = time.Date(2026, 5, 10, 14, 30, 0, 0, time.UTC)

func sampleOrder() *model.Order {
	return &model.Order{
		ID:          "7b0e2c2e-8f55-4a51-9d55-0f7f6b1f2a10",
		OrderNumber: "GPD-123456001",
		Customer: model.Customer{
			Name:    "Maria Silva",
			Phone:   "(11) 98765-4321",
			Address: &model.Address{Street: "Rua A", Number: "10", District: "Centro"},
		},
		Items: []model.CartItem{
			{ID: "i1", ProductID: "p1", ProductName: "Pod", Quantity: 2, BasePrice: decimal.NewFromInt(25), TotalPrice: decimal.NewFromInt(50)},
		},
		Subtotal:       decimal.NewFromInt(50),
		DeliveryOption: model.OrderDeliveryOption{Type: model.DeliveryFixedRate, Name: "Entrega Taxa Fixa: R$ 8,00", Fee: decimal.NewFromInt(8)},
		Total:          decimal.NewFromInt(58),
		Status:         model.OrderStatusNew,
		CreatedAt:      createdAt,
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	o := sampleOrder()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(
			o.ID, o.OrderNumber, "Maria Silva", "(11) 98765-4321",
			sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"", "new", false, createdAt, createdAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToRow_PickupHasNullAddress(t *testing.T) {
	o := sampleOrder()
	o.Customer.Address = nil
	o.Items = nil

	row, err := toRow(o)
	require.NoError(t, err)
	assert.False(t, row.CustomerAddress.Valid)
	assert.Equal(t, "[]", string(row.Items))
}

func TestFindByID(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows(columns).AddRow(
		"o1", "GPD-1", "Maria Silva", "(11) 98765-4321",
		[]byte(`{"street":"Rua A","number":"10","district":"Centro"}`),
		[]byte(`[{"id":"i1","product_id":"p1","product_name":"Pod","quantity":2,"base_price":"25","selected_variations":[{"group_id":"g","group_name":"Sabor","option_id":"o","option_name":"Menta","price_modifier":"2"}],"total_price":"54"}]`),
		"54.00",
		[]byte(`{"type":"pickup","name":"Retirada no Local","fee":"0"}`),
		"54.00", "sem troco", "processing", true, createdAt, createdAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).WithArgs("o1").WillReturnRows(rows)

	o, err := repo.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, "GPD-1", o.OrderNumber)
	assert.Equal(t, model.OrderStatusProcessing, o.Status)
	assert.True(t, o.WhatsAppSent)
	require.NotNil(t, o.Customer.Address)
	assert.Equal(t, "Centro", o.Customer.Address.District)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Menta", o.Items[0].SelectedVariations[0].OptionName)
	assert.True(t, o.Items[0].UnitPrice().Equal(decimal.NewFromInt(27)))
	assert.Equal(t, model.DeliveryPickup, o.DeliveryOption.Type)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(54)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	o, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestFindAll_FiltersAndPaginates(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM orders WHERE status = $1")).
		WithArgs("new").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectPrepare(regexp.QuoteMeta("WHERE status = $1 ORDER BY created_at DESC LIMIT 2 OFFSET 2")).
		ExpectQuery().
		WithArgs("new").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"o3", "GPD-3", "Ana", "(21) 91234-5678", nil,
			[]byte(`[]`), "10", []byte(`{"type":"pickup","name":"Retirada no Local","fee":"0"}`),
			"10", "", "new", false, createdAt, createdAt,
		))

	orders, total, err := repo.FindAll(context.Background(), &dto.OrderFilters{Status: "new", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, orders, 1)
	assert.Nil(t, orders[0].Customer.Address)
	assert.Empty(t, orders[0].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1")).
		WithArgs("shipped", "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1")).
		WithArgs("shipped", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(context.Background(), "o1", model.OrderStatusShipped)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(context.Background(), "missing", model.OrderStatusShipped)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkWhatsAppSent(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("SET whatsapp_sent = TRUE")).WithArgs("o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkWhatsAppSent(context.Background(), "o1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
