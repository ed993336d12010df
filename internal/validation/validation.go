// Package validation binds and validates request payloads.
//
// Request structs declare rules via validator tags and implement Validate;
// failures are converted into field-level errors the client can render next
// to form inputs.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
)

// validate is shared: validator caches struct metadata, so one instance
// serves the whole process.
var validate = validator.New()

// Struct runs tag-based validation on v. Request types call this from their
// Validate methods before any custom checks.
func Struct(v any) error {
	return validate.Struct(v)
}

// Validatable is implemented by request payload types that know how to
// validate themselves, typically by running validator.Struct on their tags
// plus any cross-field checks tags cannot express.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single validation issue that could not be
// expressed via struct tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors satisfying
// the error interface.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds the request into payload (body, path and query
// params) and validates it. payload must be a pointer so Bind can populate
// it. On failure it returns a 400 with field-level errors.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		message := "Malformed request payload"
		// Echo formats bind errors as "code=400, message=...". Pull the
		// message part out when the format holds.
		if parts := strings.SplitN(err.Error(), "message=", 2); len(parts) == 2 {
			message = strings.SplitN(parts[1], ", ", 2)[0]
		}
		return errs.NewBadRequestError(message, false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}
