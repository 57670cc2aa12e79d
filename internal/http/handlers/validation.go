package handlers

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateRequest(req any) []ValidationError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "body", Description: err.Error()}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Field: fe.Field(), Description: describe(fe)})
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s cannot be lower than %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// quantityValue converts loosely typed input to a number. Non-numeric and
// falsy values become 0.
func quantityValue(v any) float64 {
	switch q := v.(type) {
	case float64:
		if math.IsNaN(q) {
			return 0
		}
		return q
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	case bool:
		if q {
			return 1
		}
		return 0
	default:
		return 0
	}
}
