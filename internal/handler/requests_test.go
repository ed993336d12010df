package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreatePostRequestValidate(t *testing.T) {
	valid := func() *CreatePostRequest {
		return &CreatePostRequest{
			Type:  "LISTING",
			Title: "Calculus textbook",
			Price: decPtr("250.00"),
		}
	}

	t.Run("valid listing", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("valid request with urgency", func(t *testing.T) {
		r := valid()
		r.Type = "REQUEST"
		r.Urgency = strPtr("HIGH")
		assert.NoError(t, r.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		r := valid()
		r.Title = ""
		assert.Error(t, r.Validate())
	})

	t.Run("bad type", func(t *testing.T) {
		r := valid()
		r.Type = "AUCTION"
		assert.Error(t, r.Validate())
	})

	t.Run("bad urgency", func(t *testing.T) {
		r := valid()
		r.Urgency = strPtr("EXTREME")
		assert.Error(t, r.Validate())
	})

	t.Run("negative price", func(t *testing.T) {
		r := valid()
		r.Price = decPtr("-1")
		err := r.Validate()
		require.Error(t, err)

		custom, ok := err.(validation.CustomValidationErrors)
		require.True(t, ok)
		assert.Equal(t, "price", custom[0].Field)
	})

	t.Run("bad image url", func(t *testing.T) {
		r := valid()
		r.ImageURLs = []string{"not a url"}
		assert.Error(t, r.Validate())
	})

	t.Run("bad category id", func(t *testing.T) {
		r := valid()
		r.CategoryID = strPtr("123")
		assert.Error(t, r.Validate())
	})
}

func TestVerifyOTPRequestValidate(t *testing.T) {
	id := "a2c9be0f-7c33-4f7f-9b47-0fcfd4a3ce71"

	tests := []struct {
		name string
		req  VerifyOTPRequest
		ok   bool
	}{
		{"valid", VerifyOTPRequest{ID: id, Code: "123456"}, true},
		{"short code", VerifyOTPRequest{ID: id, Code: "123"}, false},
		{"alphabetic code", VerifyOTPRequest{ID: id, Code: "abcdef"}, false},
		{"missing code", VerifyOTPRequest{ID: id}, false},
		{"bad deal id", VerifyOTPRequest{ID: "nope", Code: "123456"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCompletePaymentRequestValidate(t *testing.T) {
	id := "a2c9be0f-7c33-4f7f-9b47-0fcfd4a3ce71"

	t.Run("valid with amount", func(t *testing.T) {
		r := &CompletePaymentRequest{ID: id, AmountPaid: decPtr("99.50")}
		assert.NoError(t, r.Validate())
	})

	t.Run("valid without amount", func(t *testing.T) {
		r := &CompletePaymentRequest{ID: id}
		assert.NoError(t, r.Validate())
	})

	t.Run("zero amount", func(t *testing.T) {
		r := &CompletePaymentRequest{ID: id, AmountPaid: decPtr("0")}
		assert.Error(t, r.Validate())
	})
}

func TestSendMessageRequestValidate(t *testing.T) {
	id := "a2c9be0f-7c33-4f7f-9b47-0fcfd4a3ce71"

	assert.NoError(t, (&SendMessageRequest{ChatID: id, Content: "hello"}).Validate())
	assert.Error(t, (&SendMessageRequest{ChatID: id, Content: ""}).Validate())
	assert.Error(t, (&SendMessageRequest{ChatID: "x", Content: "hello"}).Validate())
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateProfileRequest{UpiID: strPtr("someone@upi")}).Validate())
	assert.NoError(t, (&UpdateProfileRequest{FirstName: strPtr("Rohith")}).Validate())
	assert.Error(t, (&UpdateProfileRequest{}).Validate())
	assert.Error(t, (&UpdateProfileRequest{UpiID: strPtr("ab")}).Validate())
	assert.Error(t, (&UpdateProfileRequest{ImageURL: strPtr("not a url")}).Validate())
}

func TestNewRequestReturnsFreshInstances(t *testing.T) {
	proto := &CreatePostRequest{}

	a := newRequest(proto)
	b := newRequest(proto)

	require.NotSame(t, a, b)
	require.NotSame(t, proto, a)

	a.Title = "mutated"
	assert.Empty(t, b.Title)
	assert.Empty(t, proto.Title)
}
