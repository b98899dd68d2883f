package checkout

import (
	"regexp"

	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)

// submission is the shape validated at submit time. Address fields only
// matter for delivery, the neighborhood only for neighborhood delivery.
type submission struct {
	Name           string `json:"name" validate:"required,min=3"`
	Phone          string `json:"phone" validate:"required,phone"`
	DeliveryType   string `json:"delivery_type" validate:"required,oneof=pickup fixedRate neighborhood"`
	NeighborhoodID string `json:"neighborhood_id" validate:"required_if=DeliveryType neighborhood"`
	Street         string `json:"street" validate:"required_unless=DeliveryType pickup"`
	Number         string `json:"number" validate:"required_unless=DeliveryType pickup"`
	District       string `json:"district" validate:"required_unless=DeliveryType pickup"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validation.New()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic("checkout: register phone validation: " + err.Error())
	}
	return v
}

var phoneMessages = map[string]string{"phone": "validation.phone"}

// Validate checks the form against the current delivery choice. It has no
// side effects; a failure is always a *ValidationError.
func (c *Checkout) Validate() error {
	f := trimForm(c.state.Form)
	s := submission{
		Name:         f.Name,
		Phone:        f.Phone,
		DeliveryType: string(c.state.DeliveryType),
		Street:       f.Street,
		Number:       f.Number,
		District:     f.District,
	}
	// a neighborhood that is no longer offered counts as not chosen
	if c.delivery.FindNeighborhood(c.state.NeighborhoodID) != nil {
		s.NeighborhoodID = c.state.NeighborhoodID
	}

	return validation.Struct(validate, s, phoneMessages)
}
