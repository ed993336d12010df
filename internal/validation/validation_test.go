package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
)

type samplePayload struct {
	Title string `json:"title" validate:"required,min=3,max=10"`
	Kind  string `json:"kind" validate:"required,oneof=LISTING REQUEST"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

type customPayload struct {
	Code string `json:"code"`
}

func (p *customPayload) Validate() error {
	if len(p.Code) != 6 {
		return CustomValidationErrors{{Field: "code", Message: "must be 6 digits"}}
	}
	return nil
}

func bindContext(t *testing.T, body string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := bindContext(t, `{"title":"books","kind":"LISTING"}`)

	payload := &samplePayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "books", payload.Title)
	assert.Equal(t, "LISTING", payload.Kind)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	c := bindContext(t, `{"title":`)

	err := BindAndValidate(c, &samplePayload{})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	c := bindContext(t, `{"title":"ab","kind":"AUCTION","email":"not-an-email"}`)

	err := BindAndValidate(c, &samplePayload{})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.True(t, httpErr.Override)
	require.Len(t, httpErr.Errors, 3)

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}
	assert.Equal(t, "must be at least 3 characters", byField["title"])
	assert.Equal(t, "must be one of: LISTING REQUEST", byField["kind"])
	assert.Equal(t, "must be a valid email address", byField["email"])
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	c := bindContext(t, `{"code":"123"}`)

	err := BindAndValidate(c, &customPayload{})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "code", httpErr.Errors[0].Field)
	assert.Equal(t, "must be 6 digits", httpErr.Errors[0].Error)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("a2c9be0f-7c33-4f7f-9b47-0fcfd4a3ce71"))
	assert.True(t, IsValidUUID("A2C9BE0F-7C33-4F7F-9B47-0FCFD4A3CE71"))
	assert.False(t, IsValidUUID("a2c9be0f7c334f7f9b470fcfd4a3ce71"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}
