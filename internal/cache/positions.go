// internal/cache/positions.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetops-service/internal/domain/fleet"

	"github.com/redis/go-redis/v9"
)

const positionTTL = 10 * time.Minute

// PositionCache mirrors each vehicle's last known position into redis so
// dashboard position polls never touch postgres.
type PositionCache struct {
	client *redis.Client
}

func NewPositionCache(client *redis.Client) *PositionCache {
	return &PositionCache{client: client}
}

func positionKey(vehicleID string) string {
	return "fleet:position:" + vehicleID
}

func (c *PositionCache) SetPosition(ctx context.Context, vehicleID string, p *fleet.Position) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}
	return c.client.Set(ctx, positionKey(vehicleID), data, positionTTL).Err()
}

// GetPosition returns the cached position, or nil on a cache miss.
func (c *PositionCache) GetPosition(ctx context.Context, vehicleID string) (*fleet.Position, error) {
	data, err := c.client.Get(ctx, positionKey(vehicleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p fleet.Position
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal position: %w", err)
	}
	return &p, nil
}
