package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
)

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		if customErrors, isCustom := err.(CustomValidationErrors); isCustom {
			for _, cerr := range customErrors {
				fieldErrors = append(fieldErrors, errs.FieldError{
					Field: cerr.Field,
					Error: cerr.Message,
				})
			}
			return "Validation failed", fieldErrors
		}

		// Not a recognized validation error type; surface it as a single
		// unattributed failure rather than panicking on an assertion.
		return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
	}

	for _, verr := range validationErrors {
		field := strings.ToLower(verr.Field())
		var msg string

		switch verr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", verr.Param())
			}

		case "max":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", verr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", verr.Param())

		case "email":
			msg = "must be a valid email address"

		case "uuid":
			msg = "must be a valid UUID"

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", verr.Param())

		case "url":
			msg = "must be a valid URL"

		case "dive":
			msg = "some items are invalid"

		default:
			if verr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, verr.Tag(), verr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, verr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// uuidRegex matches the canonical textual UUID form.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID checks format only, not version/variant semantics.
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}
