package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Error carries one i18n message id per offending field, keyed by the
// field's JSON name. Params holds the rule argument where the message needs it.
type Error struct {
	Fields map[string]string
	Params map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

var messages = map[string]string{
	"required":        "validation.required",
	"required_if":     "validation.required",
	"required_unless": "validation.required",
	"min":             "validation.min",
	"gte":             "validation.gte",
	"email":           "validation.email",
	"url":             "validation.url",
	"hexcolor":        "validation.hexcolor",
}

// withParam lists the rules whose message shows the rule argument.
var withParam = map[string]bool{"min": true, "gte": true}

// New returns a validator that reports JSON field names and compares
// decimal.Decimal fields numerically.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Struct validates s and converts failures into *Error. extra maps custom
// tags to message ids.
func Struct(v *validator.Validate, s interface{}, extra map[string]string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: map[string]string{}, Params: map[string]string{}}
	for _, fe := range verrs {
		msg, ok := extra[fe.Tag()]
		if !ok {
			msg, ok = messages[fe.Tag()]
		}
		if !ok {
			msg = "validation.invalid"
		}
		out.Fields[fe.Field()] = msg
		if withParam[fe.Tag()] && fe.Param() != "" {
			out.Params[fe.Field()] = fe.Param()
		}
	}
	return out
}
