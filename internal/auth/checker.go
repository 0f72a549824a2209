package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTTL = 24 * time.Hour

	verifiedTokenKeyPrefix = "gymstats::auth::verified::"
)

var _ Checker = (*SecretChecker)(nil)

type Checker interface {
	IsValid(ctx context.Context, token string) (bool, error)
}

// SecretChecker validates app tokens against a bcrypt hash of the app secret.
// Tokens that passed once are remembered in redis for ttl, keyed by their sha256,
// so the bcrypt comparison runs once per token and ttl.
type SecretChecker struct {
	secretHash  string
	ttl         time.Duration
	redisClient *redis.Client
}

func NewSecretChecker(secretHash string, ttl time.Duration, redisClient *redis.Client) *SecretChecker {
	return &SecretChecker{
		secretHash:  secretHash,
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (c *SecretChecker) IsValid(ctx context.Context, token string) (bool, error) {
	if token == "" || c.secretHash == "" {
		return false, nil
	}

	key := verifiedTokenKey(token)
	err := c.redisClient.Get(ctx, key).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		// not seen yet
	default:
		return false, fmt.Errorf("get verified token: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(c.secretHash), []byte(token)) != nil {
		return false, nil
	}

	if err := c.redisClient.Set(ctx, key, time.Now().Unix(), c.ttl).Err(); err != nil {
		// token is valid regardless
		return true, fmt.Errorf("remember verified token: %w", err)
	}

	return true, nil
}

func verifiedTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return verifiedTokenKeyPrefix + hex.EncodeToString(sum[:])
}
