package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"GlobalDent/cache"
)

const ResetCodeExpiry = 15 * time.Minute

// GenerateResetCode generates a random 6-digit reset code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ResetCodeStore keeps password reset codes in Redis.
type ResetCodeStore struct {
	cache *cache.Cache
}

func NewResetCodeStore(cache *cache.Cache) *ResetCodeStore {
	return &ResetCodeStore{cache: cache}
}

// Set stores the reset code for an email for 15 minutes.
func (s *ResetCodeStore) Set(ctx context.Context, email, code string) error {
	if !s.cache.Enabled() {
		return fmt.Errorf("reset codes require Redis")
	}
	return s.cache.Set(ctx, resetCodeKey(email), code, ResetCodeExpiry)
}

// Get returns the stored code, or nil when none exists.
func (s *ResetCodeStore) Get(ctx context.Context, email string) (*string, error) {
	var code string
	hit, err := s.cache.Get(ctx, resetCodeKey(email), &code)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, nil
	}
	return &code, nil
}

func (s *ResetCodeStore) Delete(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, resetCodeKey(email))
}

func resetCodeKey(email string) string {
	return "reset_code:" + email
}
