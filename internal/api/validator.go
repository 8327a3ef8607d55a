package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	apperrors "chatloom/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Centralized validation for API request bodies. The validator instance is a
// singleton: recreating it per request would rebuild its reflection caches.

var (
	validate *validator.Validate
	once     sync.Once
)

func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// validateRequest checks a payload against its `validate` field tags. On
// failure it returns a wrapped apperrors.ErrValidation with a readable,
// per-field message.
func validateRequest(payload interface{}) error {
	v := getInstance()
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", apperrors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag()))
	}

	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(errorMessages, "; "))
}
