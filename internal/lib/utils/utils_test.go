package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(OTPLength)
	require.NoError(t, err)
	require.Len(t, code, OTPLength)

	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "OTP must be numeric, got %q", code)
	}
}

func TestGenerateOTPLengths(t *testing.T) {
	for _, n := range []int{1, 4, 6, 8} {
		code, err := GenerateOTP(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
	}
}

func TestOTPExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, OTPExpired(now.Add(time.Minute), now))
	assert.True(t, OTPExpired(now.Add(-time.Minute), now))
	// Expiry instant itself is expired.
	assert.True(t, OTPExpired(now, now))
}
