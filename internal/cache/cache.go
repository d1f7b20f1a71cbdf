// Package cache stores projection results for reproducible runs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"CrestCast/internal/model"
	"CrestCast/internal/projection"
)

// Cache is a string key/value store with per-entry expiry. A ttl of 0 never expires.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type keyMaterial struct {
	Inputs model.ProjectionInputs `json:"inputs"`
	Engine projection.Config      `json:"engine"`
	Seed   int64                  `json:"seed"`
}

// Key derives the cache key of a run. Only runs whose output is fully
// determined by these values (deterministic mode, or Monte Carlo with a
// fixed seed) may be cached.
func Key(in model.ProjectionInputs, cfg projection.Config, seed int64) (string, error) {
	if in.Mode == model.ModeDeterministic {
		seed = 0
	}
	b, err := json.Marshal(keyMaterial{Inputs: in, Engine: cfg, Seed: seed})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	return fmt.Sprintf("crestcast:projection:%016x", xxhash.Sum64(b)), nil
}
