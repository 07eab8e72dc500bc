package errs

import (
	"errors"
	"net/http"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// FieldError is a single failed validation rule, tied to the payload field
// that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every rule a payload failed. It satisfies the
// error interface so it can travel through the same channels as ApiErr.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add records one failed rule.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Empty reports whether every rule passed.
func (v *ValidationErrors) Empty() bool {
	return len(v.Errors) == 0
}

func (v *ValidationErrors) Error() string {
	if v.Empty() {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(v.Errors))
	for _, fe := range v.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (v *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// AsApiErr converts the collected failures into a 400 response carrying the
// first failed field, with the full list in the details.
func (v *ValidationErrors) AsApiErr() *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    v.Error(),
	}
	if !v.Empty() {
		apiErr.Field = v.Errors[0].Field
	}
	return apiErr
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
