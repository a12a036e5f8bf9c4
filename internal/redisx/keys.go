package redisx

import "time"

const (
	// Login OTP: otp:login:{mobile} -> 6-digit code. Deleted on successful
	// verification so a code is single use.
	KeyLoginOTP = "otp:login:%s"
)

var (
	TTLLoginOTP = 5 * time.Minute
)
