package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/redis/go-redis/v9"

	"github.com/brijmohangurjar/kishan/internal/redisx"
)

// OTPStore holds pending login codes. Codes expire on their own and are
// removed on first successful use.
type OTPStore interface {
	Put(ctx context.Context, mobile, code string) error
	Get(ctx context.Context, mobile string) (string, error)
	Delete(ctx context.Context, mobile string) error
}

type RedisOTPStore struct{ RDB *redis.Client }

func (s *RedisOTPStore) Put(ctx context.Context, mobile, code string) error {
	key := fmt.Sprintf(redisx.KeyLoginOTP, mobile)
	return s.RDB.Set(ctx, key, code, redisx.TTLLoginOTP).Err()
}

func (s *RedisOTPStore) Get(ctx context.Context, mobile string) (string, error) {
	key := fmt.Sprintf(redisx.KeyLoginOTP, mobile)
	code, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (s *RedisOTPStore) Delete(ctx context.Context, mobile string) error {
	key := fmt.Sprintf(redisx.KeyLoginOTP, mobile)
	return s.RDB.Del(ctx, key).Err()
}

// newOTP returns a 6-digit code from crypto/rand.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
