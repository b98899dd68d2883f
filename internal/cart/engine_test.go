package cart

import (
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEngine() *Engine {
	e := NewEngine(model.Cart{})
	n := 0
	e.newID = func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
	return e
}

func pod() *model.Product {
	return &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		Name:      "Pod Descartável",
		Price:     d("10.00"),
		Images: []model.ProductImage{
			{URL: "side.jpg"},
			{URL: "main.jpg", IsMain: true},
		},
	}
}

var (
	mint  = model.SelectedVariation{GroupID: "g-flavor", GroupName: "Sabor", OptionID: "o-mint", OptionName: "Menta", PriceModifier: d("2.00")}
	grape = model.SelectedVariation{GroupID: "g-flavor", GroupName: "Sabor", OptionID: "o-grape", OptionName: "Uva", PriceModifier: d("0")}
	large = model.SelectedVariation{GroupID: "g-size", GroupName: "Tamanho", OptionID: "o-large", OptionName: "Grande", PriceModifier: d("3.50")}
)

// assertInvariants checks every line total and the subtotal against their formulas.
func assertInvariants(t *testing.T, c model.Cart) {
	t.Helper()
	sum := decimal.Zero
	for _, it := range c.Items {
		want := it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
		assert.Truef(t, want.Equal(it.TotalPrice), "line %s total %s, want %s", it.ID, it.TotalPrice, want)
		sum = sum.Add(it.TotalPrice)
	}
	assert.Truef(t, sum.Equal(c.Subtotal), "subtotal %s, want %s", c.Subtotal, sum)
}

func TestAddItem_PricesWithModifiers(t *testing.T) {
	e := newTestEngine()

	line, err := e.AddItem(pod(), 3, []model.SelectedVariation{mint})
	require.NoError(t, err)

	assert.Equal(t, "line-1", line.ID)
	assert.Equal(t, "Pod Descartável", line.ProductName)
	assert.Equal(t, "main.jpg", line.ImageURL)
	assert.True(t, line.TotalPrice.Equal(d("36.00")))
	assert.True(t, e.Subtotal().Equal(d("36.00")))
	assertInvariants(t, e.Snapshot())
}

func TestAddItem_RejectsQuantityBelowOne(t *testing.T) {
	e := newTestEngine()
	for _, q := range []int{0, -1} {
		_, err := e.AddItem(pod(), q, nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Empty(t, e.Snapshot().Items)
}

func TestAddItem_MergeRule(t *testing.T) {
	tests := []struct {
		name      string
		first     []model.SelectedVariation
		second    []model.SelectedVariation
		wantLines int
	}{
		{"no variations", nil, nil, 1},
		{"identical selection", []model.SelectedVariation{mint}, []model.SelectedVariation{mint}, 1},
		{"same set other order", []model.SelectedVariation{mint, large}, []model.SelectedVariation{large, mint}, 1},
		{"different option", []model.SelectedVariation{mint}, []model.SelectedVariation{grape}, 2},
		{"subset is not a match", []model.SelectedVariation{mint, large}, []model.SelectedVariation{mint}, 2},
		{"empty vs selected", nil, []model.SelectedVariation{mint}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			_, err := e.AddItem(pod(), 2, tt.first)
			require.NoError(t, err)
			_, err = e.AddItem(pod(), 3, tt.second)
			require.NoError(t, err)

			snap := e.Snapshot()
			assert.Len(t, snap.Items, tt.wantLines)
			if tt.wantLines == 1 {
				assert.Equal(t, 5, snap.Items[0].Quantity)
			}
			assertInvariants(t, snap)
		})
	}
}

func TestAddItem_MergeKeepsFirstPrice(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddItem(pod(), 1, []model.SelectedVariation{mint})
	require.NoError(t, err)

	repriced := pod()
	repriced.Price = d("99.00")
	line, err := e.AddItem(repriced, 1, []model.SelectedVariation{mint})
	require.NoError(t, err)

	assert.True(t, line.BasePrice.Equal(d("10.00")))
	assert.True(t, line.TotalPrice.Equal(d("24.00")))
}

func TestAddItem_DifferentProductsNeverMerge(t *testing.T) {
	e := newTestEngine()
	other := pod()
	other.ID = "p2"

	_, _ = e.AddItem(pod(), 1, nil)
	_, _ = e.AddItem(other, 1, nil)

	assert.Len(t, e.Snapshot().Items, 2)
}

func TestUpdateQuantity(t *testing.T) {
	e := newTestEngine()
	line, _ := e.AddItem(pod(), 1, []model.SelectedVariation{mint, large})

	require.True(t, e.UpdateQuantity(line.ID, 4))
	got, ok := e.Item(line.ID)
	require.True(t, ok)
	assert.Equal(t, 4, got.Quantity)
	assert.True(t, got.TotalPrice.Equal(d("62.00")))
	assertInvariants(t, e.Snapshot())

	assert.False(t, e.UpdateQuantity("missing", 2))
}

func TestUpdateQuantity_BelowOneRemoves(t *testing.T) {
	for _, q := range []int{0, -5} {
		t.Run(fmt.Sprint(q), func(t *testing.T) {
			e := newTestEngine()
			keep, _ := e.AddItem(pod(), 1, nil)
			drop, _ := e.AddItem(pod(), 1, []model.SelectedVariation{grape})

			assert.True(t, e.UpdateQuantity(drop.ID, q))

			snap := e.Snapshot()
			require.Len(t, snap.Items, 1)
			assert.Equal(t, keep.ID, snap.Items[0].ID)
			assertInvariants(t, snap)
		})
	}
}

func TestRemoveItem_Idempotent(t *testing.T) {
	e := newTestEngine()
	line, _ := e.AddItem(pod(), 2, nil)

	assert.True(t, e.RemoveItem(line.ID))
	assert.False(t, e.RemoveItem(line.ID))
	assert.True(t, e.Subtotal().IsZero())
}

func TestClear(t *testing.T) {
	e := newTestEngine()
	_, _ = e.AddItem(pod(), 2, nil)
	_, _ = e.AddItem(pod(), 1, []model.SelectedVariation{mint})

	e.Clear()

	snap := e.Snapshot()
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Subtotal.IsZero())
}

func TestQuantityOf_SumsAcrossVariations(t *testing.T) {
	e := newTestEngine()
	_, _ = e.AddItem(pod(), 2, nil)
	_, _ = e.AddItem(pod(), 3, []model.SelectedVariation{mint})

	assert.Equal(t, 5, e.QuantityOf("p1"))
	assert.Equal(t, 0, e.QuantityOf("p2"))
}

func TestNewEngine_RecomputesStoredTotals(t *testing.T) {
	tampered := model.Cart{
		Items: []model.CartItem{{
			ID: "x", ProductID: "p1", Quantity: 2, BasePrice: d("10.00"),
			SelectedVariations: []model.SelectedVariation{mint},
			TotalPrice:         d("1.00"),
		}},
		Subtotal: d("1.00"),
	}

	snap := NewEngine(tampered).Snapshot()

	assert.True(t, snap.Items[0].TotalPrice.Equal(d("24.00")))
	assert.True(t, snap.Subtotal.Equal(d("24.00")))
}

func TestSnapshot_IsACopy(t *testing.T) {
	e := newTestEngine()
	_, _ = e.AddItem(pod(), 1, nil)

	snap := e.Snapshot()
	snap.Items[0].Quantity = 100

	got, _ := e.Item(snap.Items[0].ID)
	assert.Equal(t, 1, got.Quantity)
}

func TestQuantityOfOption(t *testing.T) {
	e := newTestEngine()
	_, _ = e.AddItem(pod(), 2, nil)
	_, _ = e.AddItem(pod(), 3, []model.SelectedVariation{mint})

	assert.Equal(t, 3, e.QuantityOfOption("p1", mint.GroupID, mint.OptionID))
	assert.Equal(t, 0, e.QuantityOfOption("p1", mint.GroupID, "other"))
	assert.Equal(t, 0, e.QuantityOfOption("p2", mint.GroupID, mint.OptionID))
}
