// Package redisstate implements the live-state repository ports on Redis.
package redisstate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/sirupsen/logrus"
)

// RedisPresenceRepository is the Redis implementation of PresenceRepository.
// Each room owns a set of user ids under <prefix>room:<key>:online. The sets
// are a live view only: they are written on join/disconnect and never treated
// as durable state.
type RedisPresenceRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPresenceRepository creates a RedisPresenceRepository.
func NewRedisPresenceRepository(client *redis.Client, keyPrefix string) *RedisPresenceRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisPresenceRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "pc:"
	}
	return &RedisPresenceRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisPresenceRepository) onlineKey(roomKey string) string {
	return fmt.Sprintf("%sroom:%s:online", r.keyPrefix, roomKey)
}

func (r *RedisPresenceRepository) Join(ctx context.Context, roomKey string, userID uint) error {
	key := r.onlineKey(roomKey)
	if err := r.client.SAdd(ctx, key, userID).Err(); err != nil {
		return fmt.Errorf("redis: add user %d to presence set %s: %w", userID, key, err)
	}
	return nil
}

func (r *RedisPresenceRepository) Leave(ctx context.Context, roomKey string, userID uint) error {
	key := r.onlineKey(roomKey)
	if err := r.client.SRem(ctx, key, userID).Err(); err != nil {
		return fmt.Errorf("redis: remove user %d from presence set %s: %w", userID, key, err)
	}
	return nil
}

func (r *RedisPresenceRepository) Online(ctx context.Context, roomKey string) ([]uint, error) {
	key := r.onlineKey(roomKey)
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read presence set %s: %w", key, err)
	}
	userIDs := make([]uint, 0, len(members))
	for _, member := range members {
		id, parseErr := strconv.ParseUint(member, 10, 32)
		if parseErr != nil {
			// A malformed member is an operational anomaly, not fatal.
			logrus.Warnf("redis: skipping malformed presence member %q in %s", member, key)
			continue
		}
		userIDs = append(userIDs, uint(id))
	}
	return userIDs, nil
}
