// Package metadata is the client's durable key–value medium. Every backend
// stores opaque byte values under string keys and shares one contract:
// a missing key reads as (nil, nil), deletes are idempotent and SetMany is
// all-or-nothing.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically: readers see either none or all.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
