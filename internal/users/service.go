package users

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/sms"
)

// UserStore is the subset of Repo the login service needs.
type UserStore interface {
	ByMobile(ctx context.Context, mobile string) (User, error)
	Create(ctx context.Context, in RegisterInput) (User, error)
}

var ErrBadOTP = fmt.Errorf("invalid or expired otp")

// Service runs the OTP login flow: request a code, verify it, get a token.
type Service struct {
	Users  UserStore
	OTP    OTPStore
	SMS    sms.Sender
	Tokens *auth.Tokens
}

// RequestOTP generates a fresh code for a registered mobile, stores it
// with its TTL, and sends it out. Unregistered mobiles get ErrNotFound so
// the client can route to registration.
func (s *Service) RequestOTP(ctx context.Context, mobile string) error {
	if !validMobile(mobile) {
		return apperr.Invalid("mobile", "must be 10 digits")
	}
	u, err := s.Users.ByMobile(ctx, mobile)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return fmt.Errorf("user account disabled: %w", apperr.ErrForbidden)
	}

	code, err := newOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.OTP.Put(ctx, mobile, code); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	msg := fmt.Sprintf("Your Kishan login OTP is %s. It is valid for 5 minutes.", code)
	if err := s.SMS.Send(ctx, mobile, msg); err != nil {
		return fmt.Errorf("deliver otp: %w", err)
	}
	return nil
}

// VerifyOTP checks the code, consumes it, and issues a user token.
func (s *Service) VerifyOTP(ctx context.Context, mobile, code string) (string, User, error) {
	if len(code) != 6 {
		return "", User{}, apperr.Invalid("otp", "must be 6 digits")
	}
	u, err := s.Users.ByMobile(ctx, mobile)
	if err != nil {
		return "", User{}, err
	}

	stored, err := s.OTP.Get(ctx, mobile)
	if err != nil {
		return "", User{}, fmt.Errorf("load otp: %w", err)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", User{}, ErrBadOTP
	}
	if err := s.OTP.Delete(ctx, mobile); err != nil {
		return "", User{}, fmt.Errorf("consume otp: %w", err)
	}

	token, err := s.Tokens.Issue(auth.Identity{UserID: u.ID, Name: u.Name, Mobile: u.Mobile})
	if err != nil {
		return "", User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// Register creates the user account used by the OTP flow.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.Users.Create(ctx, in)
}
