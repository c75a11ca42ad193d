package core

import (
	"context"
	"time"
)

// TokenStore remembers revoked session token ids until the tokens would have expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
