// Package metadata serves the static form options the UI renders (POD names, products,
// task lists). They live in a JSON file next to the binary, not in the database.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rakshithjm97/ivms3/internal/cache"
)

type file struct {
	UIOptions json.RawMessage `json:"uiOptions"`
}

type Loader struct {
	path  string
	cache cache.Store
}

// NewLoader reads path on demand. A nil store disables caching.
func NewLoader(path string, store cache.Store) *Loader {
	return &Loader{path: path, cache: store}
}

// UIOptions returns the raw uiOptions object.
func (l *Loader) UIOptions(ctx context.Context) (json.RawMessage, error) {
	if l.cache != nil {
		if b, ok := l.cache.Get(ctx, cache.UIOptionsKey); ok {
			return b, nil
		}
	}

	b, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	if len(f.UIOptions) == 0 || string(f.UIOptions) == "null" {
		// an absent section renders as an empty object
		f.UIOptions = json.RawMessage(`{}`)
	}

	if l.cache != nil {
		l.cache.Set(ctx, cache.UIOptionsKey, f.UIOptions)
	}

	return f.UIOptions, nil
}
