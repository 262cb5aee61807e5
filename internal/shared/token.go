package shared

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenManager issues and resolves opaque bearer tokens backed by Redis.
// Tokens are stored under an HMAC of their value so a Redis dump does not
// leak usable credentials.
type TokenManager struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

type tokenPayload struct {
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{client: client, secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue creates a token for the given identity and returns its value and expiry.
func (tm *TokenManager) Issue(ctx context.Context, id Identity) (string, time.Time, error) {
	if tm == nil || tm.client == nil {
		return "", time.Time{}, errors.New("token manager not initialised")
	}
	token := tm.generateToken()
	payload, err := json.Marshal(tokenPayload{UserID: id.UserID, Email: id.Email, IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", time.Time{}, err
	}
	if err := tm.client.Set(ctx, tm.redisKey(token), payload, tm.ttl).Err(); err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(tm.ttl), nil
}

// Resolve maps a bearer token back to the caller identity.
func (tm *TokenManager) Resolve(ctx context.Context, token string) (Identity, error) {
	if tm == nil || tm.client == nil {
		return Identity{}, errors.New("token manager not initialised")
	}
	if token == "" {
		return Identity{}, ErrTokenInvalid
	}
	raw, err := tm.client.Get(ctx, tm.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrTokenInvalid
		}
		return Identity{}, err
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Identity{}, err
	}
	return Identity{UserID: payload.UserID, Email: payload.Email}, nil
}

// Revoke deletes a token.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	if tm == nil || tm.client == nil {
		return errors.New("token manager not initialised")
	}
	if token == "" {
		return nil
	}
	err := tm.client.Del(ctx, tm.redisKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (tm *TokenManager) generateToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (tm *TokenManager) redisKey(token string) string {
	mac := hmac.New(sha256.New, tm.secret)
	mac.Write([]byte(token))
	return "auth:token:" + hex.EncodeToString(mac.Sum(nil))
}
