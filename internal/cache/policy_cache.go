package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RedisPolicyCache implements services.PolicyCache
var _ services.PolicyCache = (*RedisPolicyCache)(nil)

// RedisPolicyCache is a best-effort read cache for reward policies. Policy
// changes are rare and the spin flow tolerates staleness up to the TTL;
// writes through the policy service invalidate eagerly.
type RedisPolicyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPolicyCache creates a new RedisPolicyCache
func NewRedisPolicyCache(client *redis.Client, ttl time.Duration) *RedisPolicyCache {
	return &RedisPolicyCache{
		client: client,
		ttl:    ttl,
	}
}

func policyKey(adminID primitive.ObjectID) string {
	return "reward-policy:" + adminID.Hex()
}

// Get returns the cached policy for an admin, or a miss. Redis errors are
// logged and treated as misses.
func (c *RedisPolicyCache) Get(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, bool) {
	data, err := c.client.Get(ctx, policyKey(adminID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Policy cache read failed", "error", err, "adminId", adminID.Hex())
		}
		return nil, false
	}

	var policy models.RewardPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		slog.Warn("Policy cache entry corrupt, dropping", "error", err, "adminId", adminID.Hex())
		c.Invalidate(ctx, adminID)
		return nil, false
	}
	return &policy, true
}

// Set stores the policy under its admin key with the configured TTL
func (c *RedisPolicyCache) Set(ctx context.Context, policy *models.RewardPolicy) {
	data, err := json.Marshal(policy)
	if err != nil {
		slog.Warn("Policy cache marshal failed", "error", err, "adminId", policy.AdminID.Hex())
		return
	}
	if err := c.client.Set(ctx, policyKey(policy.AdminID), data, c.ttl).Err(); err != nil {
		slog.Warn("Policy cache write failed", "error", err, "adminId", policy.AdminID.Hex())
	}
}

// Invalidate removes the cached policy for an admin
func (c *RedisPolicyCache) Invalidate(ctx context.Context, adminID primitive.ObjectID) {
	if err := c.client.Del(ctx, policyKey(adminID)).Err(); err != nil {
		slog.Warn("Policy cache invalidation failed", "error", err, "adminId", adminID.Hex())
	}
}
