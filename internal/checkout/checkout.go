package checkout

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

type Step int

const (
	StepCartReview Step = iota
	StepDeliverySelection
	StepCustomerInfo
)

var stepNames = [...]string{"cart_review", "delivery_selection", "customer_info"}

func (s Step) String() string {
	if s < StepCartReview || s > StepCustomerInfo {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range stepNames {
		if n == name {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown checkout step %q", name)
}

// CustomerForm holds what the customer typed. It survives step navigation.
type CustomerForm struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	Notes      string `json:"notes"`
}

// State is the persisted part of a checkout session. Fee and total are
// always derived from it, never stored.
type State struct {
	Step           Step               `json:"step"`
	DeliveryType   model.DeliveryType `json:"delivery_type"`
	NeighborhoodID string             `json:"neighborhood_id,omitempty"`
	Form           CustomerForm       `json:"form"`
}

// NewState is a fresh session: first step, default delivery option, empty form.
func NewState(delivery model.DeliverySettings) State {
	return State{Step: StepCartReview, DeliveryType: delivery.DefaultOption()}
}

// Checkout drives the three-step flow over one cart and the store's
// delivery settings.
type Checkout struct {
	state    State
	cart     model.Cart
	delivery model.DeliverySettings
}

func New(state State, cart model.Cart, delivery model.DeliverySettings) *Checkout {
	return &Checkout{state: state, cart: cart, delivery: delivery}
}

func (c *Checkout) State() State { return c.state }

func (c *Checkout) Step() Step { return c.state.Step }

// Next advances one step when the current step's guard passes. On the last
// step it does nothing.
func (c *Checkout) Next() error {
	switch c.state.Step {
	case StepCartReview:
		if len(c.cart.Items) == 0 {
			return ErrEmptyCart
		}
		c.state.Step = StepDeliverySelection
	case StepDeliverySelection:
		if len(c.cart.Items) == 0 {
			return ErrEmptyCart
		}
		if err := c.deliveryReady(); err != nil {
			return err
		}
		c.state.Step = StepCustomerInfo
	}
	return nil
}

// Back moves one step back. Form values and delivery choice are kept.
func (c *Checkout) Back() {
	if c.state.Step > StepCartReview {
		c.state.Step--
	}
}

// Reset returns to the first step with the default delivery option and an
// empty form.
func (c *Checkout) Reset() {
	c.state = NewState(c.delivery)
}

// SelectDelivery switches the delivery option. Leaving neighborhood delivery
// drops the chosen neighborhood.
func (c *Checkout) SelectDelivery(t model.DeliveryType) error {
	if !t.Valid() {
		return ErrInvalidDeliveryOption
	}
	if !c.delivery.Enabled(t) {
		return ErrDeliveryOptionUnavailable
	}
	if t != model.DeliveryNeighborhood {
		c.state.NeighborhoodID = ""
	}
	c.state.DeliveryType = t
	return nil
}

// SelectNeighborhood picks the neighborhood for neighborhood delivery. An
// unknown id clears any previous choice.
func (c *Checkout) SelectNeighborhood(id string) error {
	if c.state.DeliveryType != model.DeliveryNeighborhood {
		return ErrInvalidDeliveryOption
	}
	if c.delivery.FindNeighborhood(id) == nil {
		c.state.NeighborhoodID = ""
		return ErrUnknownNeighborhood
	}
	c.state.NeighborhoodID = id
	return nil
}

func (c *Checkout) UpdateForm(f CustomerForm) {
	c.state.Form = f
}

func (c *Checkout) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.cart.Items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

// DeliveryFee is 0 for pickup, the flat fee for fixedRate and the selected
// neighborhood's fee for neighborhood delivery (0 until one is chosen).
func (c *Checkout) DeliveryFee() decimal.Decimal {
	switch c.state.DeliveryType {
	case model.DeliveryFixedRate:
		return c.delivery.FixedRate.Fee
	case model.DeliveryNeighborhood:
		if n := c.delivery.FindNeighborhood(c.state.NeighborhoodID); n != nil {
			return n.Fee
		}
	}
	return decimal.Zero
}

func (c *Checkout) Total() decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryFee())
}

func (c *Checkout) deliveryReady() error {
	if c.state.DeliveryType == "" {
		return ErrDeliveryOptionRequired
	}
	if c.state.DeliveryType == model.DeliveryNeighborhood && c.delivery.FindNeighborhood(c.state.NeighborhoodID) == nil {
		return ErrNeighborhoodRequired
	}
	return nil
}

// DeliveryOption describes the current choice the way it is stored on an order.
func (c *Checkout) DeliveryOption(currencySymbol string) model.OrderDeliveryOption {
	opt := model.OrderDeliveryOption{Type: c.state.DeliveryType, Fee: c.DeliveryFee()}
	switch c.state.DeliveryType {
	case model.DeliveryPickup:
		opt.Name = "Retirada no Local"
	case model.DeliveryFixedRate:
		opt.Name = "Entrega Taxa Fixa: " + model.FormatMoney(currencySymbol, opt.Fee)
	case model.DeliveryNeighborhood:
		if n := c.delivery.FindNeighborhood(c.state.NeighborhoodID); n != nil {
			opt.Name = fmt.Sprintf("Entrega %s: %s", n.Name, model.FormatMoney(currencySymbol, n.Fee))
			opt.NeighborhoodID = n.ID
			opt.NeighborhoodName = n.Name
		}
	}
	return opt
}

// BuildOrder snapshots the cart and the validated form into a new order.
func (c *Checkout) BuildOrder(id, number, currencySymbol string, now time.Time) *model.Order {
	f := trimForm(c.state.Form)

	customer := model.Customer{Name: f.Name, Phone: f.Phone}
	if c.state.DeliveryType != model.DeliveryPickup {
		customer.Address = &model.Address{
			Street:     f.Street,
			Number:     f.Number,
			Complement: f.Complement,
			District:   f.District,
		}
	}

	items := make([]model.CartItem, len(c.cart.Items))
	copy(items, c.cart.Items)

	return &model.Order{
		ID:             id,
		OrderNumber:    number,
		Customer:       customer,
		Items:          items,
		Subtotal:       c.Subtotal(),
		DeliveryOption: c.DeliveryOption(currencySymbol),
		Total:          c.Total(),
		Notes:          f.Notes,
		Status:         model.OrderStatusNew,
		CreatedAt:      now,
		WhatsAppSent:   false,
	}
}

func trimForm(f CustomerForm) CustomerForm {
	return CustomerForm{
		Name:       strings.TrimSpace(f.Name),
		Phone:      strings.TrimSpace(f.Phone),
		Street:     strings.TrimSpace(f.Street),
		Number:     strings.TrimSpace(f.Number),
		Complement: strings.TrimSpace(f.Complement),
		District:   strings.TrimSpace(f.District),
		Notes:      strings.TrimSpace(f.Notes),
	}
}
