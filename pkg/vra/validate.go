package vra

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
	})

	return validate
}

// fieldName reports a field by its json name, then its mapstructure name,
// then its Go name.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "mapstructure"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return field.Name
}

// ValidateStruct checks v against its `validate` tags. Failures of required
// rules are reported as missing, every other failure as invalid. The result
// is a *ValidationError wrapping ErrValidation, or nil.
func ValidateStruct(subject string, v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s: %w: %w", subject, ErrValidation, err)
	}

	validationErr := &ValidationError{Subject: subject}

	for _, fieldErr := range fieldErrs {
		if strings.HasPrefix(fieldErr.Tag(), "required") {
			validationErr.Missing = append(validationErr.Missing, fieldErr.Field())

			continue
		}

		validationErr.Invalid = append(validationErr.Invalid, fmt.Sprintf("%s (%s)", fieldErr.Field(), describeRule(fieldErr)))
	}

	return validationErr
}

func describeRule(fieldErr validator.FieldError) string {
	if fieldErr.Param() == "" {
		return fieldErr.Tag()
	}

	return fieldErr.Tag() + "=" + fieldErr.Param()
}
