// Package validation wraps go-playground/validator for service inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/yukikurage/recipe-api/internal/constants"
)

// Error carries per-field messages keyed by JSON field name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError builds an Error for a single field.
func FieldError(field, message string) *Error {
	return &Error{Fields: map[string]string{field: message}}
}

// Validator wraps go-playground/validator with field-keyed errors.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports JSON tag names and understands
// decimal.Decimal fields through the "price" tag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", validators.NotBlank)

	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// recipe column limits shared with the models
	v.RegisterAlias("recipetitle", fmt.Sprintf("notblank,max=%d", constants.MaxTitleLength))
	v.RegisterAlias("recipelink", fmt.Sprintf("url,max=%d", constants.MaxLinkLength))

	// price: non-negative and fits the price column
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return ValidPrice(d)
	})

	return &Validator{v: v}
}

// priceLimit is the first value that no longer fits the price column
var priceLimit = decimal.New(1, constants.PriceDigits-constants.PricePlaces)

// ValidPrice reports whether d fits the decimal(PriceDigits,PricePlaces)
// price column and is not negative.
func ValidPrice(d decimal.Decimal) bool {
	if d.IsNegative() {
		return false
	}
	if !d.Equal(d.Round(constants.PricePlaces)) {
		return false
	}
	return d.LessThan(priceLimit)
}

// Validate validates a struct.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return &Error{Fields: fields}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "price":
		return "must be between 0 and 999.99 with at most 2 decimal places"
	case "notblank":
		return "must not be blank"
	default:
		return "is invalid"
	}
}
