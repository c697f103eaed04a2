package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// VerificationCodeValidity is how long an emailed verification code stays usable.
const VerificationCodeValidity = 15 * time.Minute

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random 6-digit code and its expiry relative to now.
func GenerateOTP(now time.Time) (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), now.Add(VerificationCodeValidity), nil
}

// IsOTPExpired reports whether a code with the given expiry is no longer valid at now.
func IsOTPExpired(expires, now time.Time) bool {
	return now.After(expires)
}

// OTPGenerator adapts GenerateOTP to the generator port.
type OTPGenerator struct{}

func (OTPGenerator) Generate(now time.Time) (string, time.Time, error) {
	return GenerateOTP(now)
}
