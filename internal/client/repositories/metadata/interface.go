// Package metadata is the durable key/value store of the client. It backs
// the session credential and survives restarts of the process.
package metadata

import "context"

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) when the key is absent. Delete of a missing key is
// not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
