// Package utils contains small helpers shared across the project.
package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

// OTPLength is the number of digits in a handoff verification code.
const OTPLength = 6

// GenerateOTP returns a random numeric code of the given length, drawn from
// crypto/rand. Leading zeros are allowed; the code is a string, not a number.
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		buf[i] = digits[n.Int64()]
	}

	return string(buf), nil
}

// OTPExpired reports whether an OTP with the given expiry is no longer
// usable at the given instant.
func OTPExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}
