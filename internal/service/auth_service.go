package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/cache"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,14}$`)

// AuthService implements phone OTP login. Sending the SMS/WhatsApp
// message is delegated to the comms provider; here the code is only
// generated, stored and checked.
type AuthService struct {
	otp   *cache.OTPStore
	users repository.UserRepository
	log   *zap.Logger
}

func NewAuthService(otp *cache.OTPStore, users repository.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{otp: otp, users: users, log: log}
}

// RequestOTP issues a 6-digit code for the phone. Frequent resends for
// the same phone are throttled.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	if !phonePattern.MatchString(phone) {
		return domain.Invalidf("invalid phone number")
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}
	if err := s.otp.Save(ctx, phone, code); err != nil {
		return err
	}

	// TODO: send via MSG91/Twilio once the comms account is provisioned.
	s.log.Debug("otp issued", zap.String("phone", phone), zap.String("code", code))
	return nil
}

// generateOTP draws a 6-digit login code from the system CSPRNG. OTPs
// are credentials, so the sequence must not be guessable.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// VerifyOTP consumes the code and returns the (possibly new) user.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error) {
	ok, err := s.otp.Verify(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid or expired code", domain.ErrUnauthorized)
	}
	return s.users.UpsertByPhone(ctx, phone)
}
