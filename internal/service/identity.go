package service

import (
	"context"
	"time"
)

// Identity is the authenticated caller as seen by the core: an opaque user
// id plus the admin flag. A nil *Identity means an anonymous request.
type Identity struct {
	UserID   string
	Username string
	Admin    bool
}

// Cache is the key-value collaborator the post service invalidates and
// reads through. Implemented by cache.RedisCache; mocked in tests.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Notifier dispatches fire-and-forget notifications outside the
// request path. Implementations must never block the caller.
type Notifier interface {
	PostCreated(postID int64, title, authorID string)
	Feedback(name, email, message string)
}
