package errs

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", MakeUpperCaseWithUnderscores("Internal Server Error"))
	assert.Equal(t, "OK", MakeUpperCaseWithUnderscores("OK"))
}

func TestConstructors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		err := NewUnauthorizedError("Unauthorized", false)
		assert.Equal(t, http.StatusUnauthorized, err.Status)
		assert.Equal(t, "UNAUTHORIZED", err.Code)
		assert.False(t, err.Override)
	})

	t.Run("bad request with custom code", func(t *testing.T) {
		code := "DEAL_ALREADY_EXISTS"
		err := NewBadRequestError("A deal already exists for this post", true, &code, nil, nil)
		assert.Equal(t, http.StatusBadRequest, err.Status)
		assert.Equal(t, "DEAL_ALREADY_EXISTS", err.Code)
		assert.True(t, err.Override)
	})

	t.Run("bad request default code", func(t *testing.T) {
		err := NewBadRequestError("nope", false, nil, nil, nil)
		assert.Equal(t, "BAD_REQUEST", err.Code)
	})

	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("Deal not found", true, nil)
		assert.Equal(t, http.StatusNotFound, err.Status)
		assert.Equal(t, "NOT_FOUND", err.Code)
		assert.Equal(t, "Deal not found", err.Message)
	})

	t.Run("too many requests", func(t *testing.T) {
		err := NewTooManyRequestsError("slow down", false)
		assert.Equal(t, http.StatusTooManyRequests, err.Status)
		assert.Equal(t, "TOO_MANY_REQUESTS", err.Code)
	})

	t.Run("internal hides details", func(t *testing.T) {
		err := NewInternalServerError()
		assert.Equal(t, http.StatusInternalServerError, err.Status)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), err.Message)
	})
}

func TestHTTPErrorIs(t *testing.T) {
	err := NewNotFoundError("missing", false, nil)

	var httpErr *HTTPError
	assert.True(t, errors.As(error(err), &httpErr))
	assert.True(t, errors.Is(error(err), &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithMessage(t *testing.T) {
	base := NewForbiddenError("Forbidden", true)
	changed := base.WithMessage("You are not a member of this chat")

	assert.Equal(t, "You are not a member of this chat", changed.Message)
	assert.Equal(t, base.Code, changed.Code)
	assert.Equal(t, base.Status, changed.Status)
	assert.Equal(t, base.Override, changed.Override)
	assert.Equal(t, "Forbidden", base.Message)
}
