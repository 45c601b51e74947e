package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrOTPThrottled = errors.New("otp resend throttled")

// OTPStore keeps one-time login codes in Redis with a short TTL.
// Codes are single use: a successful verify deletes the key.
type OTPStore struct {
	client       *redis.Client
	ttl          time.Duration
	resendWindow time.Duration
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{
		client:       client,
		ttl:          5 * time.Minute,
		resendWindow: time.Minute,
	}
}

// Save stores a fresh code unless the previous one is still too young.
func (s *OTPStore) Save(ctx context.Context, phone, code string) error {
	key := otpKey(phone)

	remaining, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("otp ttl check failed: %w", err)
	}
	if remaining > s.ttl-s.resendWindow {
		return ErrOTPThrottled
	}

	if err := s.client.Set(ctx, key, code, s.ttl).Err(); err != nil {
		return fmt.Errorf("otp save failed: %w", err)
	}
	return nil
}

// Verify consumes the code for phone. It reports false for a missing,
// expired or mismatched code.
func (s *OTPStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	key := otpKey(phone)

	saved, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("otp get failed: %w", err)
	}
	if saved != code {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("otp delete failed: %w", err)
	}
	return true, nil
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}
