package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Load decodes the document stored at key into out. A missing key reports
// found=false with a nil error.
func Load(ctx context.Context, store Store, key string, out any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Save encodes v and upserts it at key.
func Save(ctx context.Context, store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Put(ctx, key, raw)
}
