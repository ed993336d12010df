package errs

import "strings"

// FieldError is a field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType names what the client should do next.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate; Value holds the target.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional client instruction attached to an error, used for
// flows like "session expired, redirect to sign-in".
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the wire error shape for all API responses.
//
// Override marks messages that are safe for the UI to display verbatim;
// the frontend falls back to a generic message otherwise.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError so errors.Is can test for the type without
// comparing contents.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of the error with only the message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores turns HTTP status text into a stable error
// code, e.g. "Bad Request" -> "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
