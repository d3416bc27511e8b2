package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docsched/clinic-booking-api/internal/models"
)

const presenceKey = "clinic:presence"

// PresenceRepository stores the practitioner's online flag in Redis.
// An absent key reads as offline.
type PresenceRepository struct {
	client *redis.Client
}

// NewPresenceRepository constructs a presence repository.
func NewPresenceRepository(client *redis.Client) *PresenceRepository {
	return &PresenceRepository{client: client}
}

// Get returns the current presence flag.
func (r *PresenceRepository) Get(ctx context.Context) (*models.Presence, error) {
	raw, err := r.client.Get(ctx, presenceKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &models.Presence{Online: false}, nil
		}
		return nil, fmt.Errorf("redis get presence: %w", err)
	}

	var p models.Presence
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal presence: %w", err)
	}
	return &p, nil
}

// Set overwrites the presence flag. The key has no TTL; presence persists
// until the practitioner toggles it again.
func (r *PresenceRepository) Set(ctx context.Context, online bool) (*models.Presence, error) {
	p := &models.Presence{Online: online, UpdatedAt: time.Now().UTC()}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal presence: %w", err)
	}
	if err := r.client.Set(ctx, presenceKey, payload, 0).Err(); err != nil {
		return nil, fmt.Errorf("redis set presence: %w", err)
	}
	return p, nil
}
