package service

import "context"

// DraftStore is the raw key/value backend behind wizard drafts.
type DraftStore interface {
	// Get returns the stored bytes; ok is false when nothing is stored under key.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Put overwrites the value under key.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
