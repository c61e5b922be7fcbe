package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct using go-playground/validator and flattens
// field failures into one readable error.
func ValidateStruct(s interface{}) error {
	if s == nil {
		return nil
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, e := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	return fmt.Errorf("validation failed: %w", err)
}

// ValidateVar validates a single value against a tag expression, e.g. "url"
// for fulfillment links.
func ValidateVar(value interface{}, tag string) error {
	return validate.Var(value, tag)
}
