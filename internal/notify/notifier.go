package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDispatcher publishes notifications to redis channels. Every dispatch
// is fire-and-forget: it runs on its own goroutine and never blocks or
// fails the request path. A nil client makes dispatch a no-op.
type RedisDispatcher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewRedisDispatcher(rdb *redis.Client, logger *slog.Logger) *RedisDispatcher {
	return &RedisDispatcher{rdb: rdb, logger: logger}
}

// PostCreated announces a newly published post.
func (n *RedisDispatcher) PostCreated(postID int64, title, authorID string) {
	go n.publish("notifications:posts", map[string]any{
		"type":      "post_created",
		"post_id":   postID,
		"title":     title,
		"author_id": authorID,
	})
}

// Feedback forwards a contact-form message to the feedback channel, where
// the mailer worker picks it up.
func (n *RedisDispatcher) Feedback(name, email, message string) {
	go n.publish("notifications:feedback", map[string]any{
		"type":    "feedback",
		"name":    name,
		"email":   email,
		"message": message,
	})
}

func (n *RedisDispatcher) publish(channel string, payload any) {
	if n.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := json.Marshal(payload)
	if err != nil {
		n.logger.Warn("notification marshal failed", "channel", channel, "error", err)
		return
	}
	if err := n.rdb.Publish(ctx, channel, b).Err(); err != nil {
		n.logger.Warn("notification publish failed", "channel", channel, "error", err)
	}
}
