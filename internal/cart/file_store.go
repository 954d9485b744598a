package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"spendly/internal/model"

	"github.com/rs/zerolog"
)

// fileStore implements Store with one JSON file per key under a cache
// directory.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed cart store rooted at dir.
func NewFileStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart cache directory %s: %w", dir, err)
	}

	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the cart snapshot for a key. A missing file is an empty cart.
func (s *fileStore) Load(key string) ([]model.CartItem, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cart cache %s: %w", key, err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart cache %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("items", len(items)).Msg("cart cache loaded")
	return items, nil
}

// Save writes the full cart snapshot for a key.
func (s *fileStore) Save(key string, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart cache %s: %w", key, err)
	}

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cart cache %s: %w", key, err)
	}
	return nil
}

// Delete purges the cache entry for a key. A missing entry is not an error.
func (s *fileStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cart cache %s: %w", key, err)
	}
	return nil
}
