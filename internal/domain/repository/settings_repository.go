package repository

import "context"

// SettingsRepository is a small key/value store for JSON documents that do not
// deserve a table of their own.
type SettingsRepository interface {
	// Get returns the stored value, or ok=false when the key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// All returns every stored key/value pair
	All(ctx context.Context) (map[string]string, error)
}
