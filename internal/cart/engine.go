package cart

import (
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine owns the line items of one cart. Every mutation reprices the
// touched line from its own snapshot and recomputes the subtotal, so
// TotalPrice and Subtotal never drift from their formulas.
type Engine struct {
	items []model.CartItem
	newID func() string
}

// NewEngine restores an engine from a persisted cart. Stored totals are
// recomputed rather than trusted.
func NewEngine(snapshot model.Cart) *Engine {
	e := &Engine{
		items: make([]model.CartItem, len(snapshot.Items)),
		newID: func() string { return uuid.New().String() },
	}
	copy(e.items, snapshot.Items)
	for i := range e.items {
		reprice(&e.items[i])
	}
	return e
}

// AddItem merges into the line holding the same product and the same
// variation set, or appends a new line. A merged line keeps the prices it
// was first added with.
func (e *Engine) AddItem(p *model.Product, quantity int, selected []model.SelectedVariation) (model.CartItem, error) {
	if quantity < 1 {
		return model.CartItem{}, ErrInvalidQuantity
	}

	for i := range e.items {
		line := &e.items[i]
		if line.ProductID == p.ID && sameSelection(line.SelectedVariations, selected) {
			line.Quantity += quantity
			reprice(line)
			return *line, nil
		}
	}

	vars := make([]model.SelectedVariation, len(selected))
	copy(vars, selected)

	line := model.CartItem{
		ID:                 e.newID(),
		ProductID:          p.ID,
		ProductName:        p.Name,
		Quantity:           quantity,
		BasePrice:          p.Price,
		SelectedVariations: vars,
		ImageURL:           p.MainImageURL(),
	}
	reprice(&line)
	e.items = append(e.items, line)
	return line, nil
}

// UpdateQuantity sets the quantity of a line; anything below 1 removes it.
// It reports false when the line does not exist.
func (e *Engine) UpdateQuantity(itemID string, quantity int) bool {
	if quantity < 1 {
		return e.RemoveItem(itemID)
	}
	line := e.find(itemID)
	if line == nil {
		return false
	}
	line.Quantity = quantity
	reprice(line)
	return true
}

// RemoveItem deletes the line. Removing a missing id is a no-op that
// reports false.
func (e *Engine) RemoveItem(itemID string) bool {
	for i := range e.items {
		if e.items[i].ID == itemID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) Clear() {
	e.items = nil
}

func (e *Engine) Item(itemID string) (model.CartItem, bool) {
	if line := e.find(itemID); line != nil {
		return *line, true
	}
	return model.CartItem{}, false
}

// QuantityOf sums the quantity of every line for productID, whatever the
// variations.
func (e *Engine) QuantityOf(productID string) int {
	n := 0
	for _, line := range e.items {
		if line.ProductID == productID {
			n += line.Quantity
		}
	}
	return n
}

// QuantityOfOption sums the quantity of the lines for productID that carry
// the given option.
func (e *Engine) QuantityOfOption(productID, groupID, optionID string) int {
	n := 0
	for _, line := range e.items {
		if line.ProductID != productID {
			continue
		}
		for _, sel := range line.SelectedVariations {
			if sel.GroupID == groupID && sel.OptionID == optionID {
				n += line.Quantity
				break
			}
		}
	}
	return n
}

func (e *Engine) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range e.items {
		sum = sum.Add(line.TotalPrice)
	}
	return sum
}

// Snapshot returns a copy safe to persist or hand to callers.
func (e *Engine) Snapshot() model.Cart {
	items := make([]model.CartItem, len(e.items))
	copy(items, e.items)
	return model.Cart{Items: items, Subtotal: e.Subtotal()}
}

func (e *Engine) find(itemID string) *model.CartItem {
	for i := range e.items {
		if e.items[i].ID == itemID {
			return &e.items[i]
		}
	}
	return nil
}

func reprice(line *model.CartItem) {
	line.TotalPrice = line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
}

type selectionKey struct {
	groupID  string
	optionID string
}

// sameSelection compares two selections as unordered multisets of
// (group, option) pairs.
func sameSelection(a, b []model.SelectedVariation) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[selectionKey]int, len(a))
	for _, v := range a {
		counts[selectionKey{v.GroupID, v.OptionID}]++
	}
	for _, v := range b {
		k := selectionKey{v.GroupID, v.OptionID}
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}
