// Package store keeps volatile session records. Records expire after an idle TTL
// that is refreshed on every save.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

// Store persists encoded session records by id.
type Store interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
}
