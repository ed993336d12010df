package sqlerr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorPassesThroughHTTPErrors(t *testing.T) {
	original := errs.NewForbiddenError("nope", false)
	assert.Equal(t, error(original), HandleError(original))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "deals",
		ConstraintName: "deals_post_id_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "DEAL_ALREADY_EXISTS", httpErr.Code)
	assert.True(t, httpErr.Override)
	// Column inferred from the constraint name replaces "identifier".
	assert.Contains(t, httpErr.Message, "Post Id")
}

func TestHandleErrorUniqueViolationUnderscorePrefix(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "interests",
		ConstraintName: "unique_interests_post_user",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, "INTEREST_ALREADY_EXISTS", httpErr.Code)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		Severity:   "ERROR",
		TableName:  "posts",
		ColumnName: "category_id",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "POST_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Category does not exist", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "posts",
		ColumnName: "title",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, "POST_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23514",
		Severity:   "ERROR",
		TableName:  "deals",
		ColumnName: "status",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "DEAL_INVALID", httpErr.Code)
}

func TestHandleErrorNoRowsWithTableAnnotation(t *testing.T) {
	err := HandleError(fmt.Errorf("table:deals: %w", pgx.ErrNoRows))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Deal not found", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNoRowsWithoutAnnotation(t *testing.T) {
	err := HandleError(pgx.ErrNoRows)

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknownBecomes500(t *testing.T) {
	err := HandleError(errors.New("connection reset by peer"))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	// Internals never leak to clients.
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
}

func TestGenerateErrorCode(t *testing.T) {
	tests := []struct {
		table string
		code  Code
		want  string
	}{
		{"deals", UniqueViolation, "DEAL_ALREADY_EXISTS"},
		{"interests", UniqueViolation, "INTEREST_ALREADY_EXISTS"},
		{"posts", ForeignKeyViolation, "POST_NOT_FOUND"},
		{"users", NotNullViolation, "USER_REQUIRED"},
		{"", UniqueViolation, "RECORD_ALREADY_EXISTS"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, generateErrorCode(tt.table, tt.code))
	}
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "user", extractColumnForUniqueViolation("unique_interests_post_user"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}
