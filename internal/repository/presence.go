package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type PresenceRepository interface {
	MarkOnline(ctx context.Context, username string, ttl time.Duration) error
	MarkOffline(ctx context.Context, username string) error
	IsOnline(ctx context.Context, username string) (bool, error)
}

type dbPresence struct {
	client *redis.Client
}

func NewPresenceRepository(client *redis.Client) PresenceRepository {
	return &dbPresence{
		client: client,
	}
}

func onlineKey(username string) string {
	return "online:" + username
}

// MarkOnline sets or refreshes the presence key. It disappears on its own after ttl.
func (that *dbPresence) MarkOnline(ctx context.Context, username string, ttl time.Duration) error {
	if err := that.client.Set(ctx, onlineKey(username), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark %s online: %w", username, err)
	}

	return nil
}

func (that *dbPresence) MarkOffline(ctx context.Context, username string) error {
	if err := that.client.Del(ctx, onlineKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to mark %s offline: %w", username, err)
	}

	return nil
}

func (that *dbPresence) IsOnline(ctx context.Context, username string) (bool, error) {
	count, err := that.client.Exists(ctx, onlineKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence of %s: %w", username, err)
	}

	return count > 0, nil
}
