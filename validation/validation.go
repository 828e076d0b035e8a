// Package validation wraps go-playground/validator with the rules used by
// request structs in this module.
//
// Besides the built-in tags, the "notblank" rule is registered: a string
// field must contain at least one non-whitespace character.
package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
)

var (
	validate *validator.Validate
	initOnce sync.Once
)

func instance() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// nolint:errcheck // registration only fails for empty tags or nil funcs
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// FieldError describes the first failed rule of a struct.
type FieldError struct {
	Field string // Go field name
	Tag   string // failed rule, e.g. "notblank"
}

func (e *FieldError) Error() string {
	return "field " + e.Field + " failed on the '" + e.Tag + "' rule"
}

// Struct validates v. It returns a *FieldError for the first failed field,
// or the validator's own error when v is not a struct.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "failed to validate")
	}

	return &FieldError{Field: verrs[0].Field(), Tag: verrs[0].Tag()}
}

// Failed reports whether err came from a failed rule on field.
func Failed(err error, field string) bool {
	var fe *FieldError
	return errors.As(err, &fe) && fe.Field == field
}
