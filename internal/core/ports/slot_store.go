package ports

import "context"

// SlotStore is a string-keyed durable key-value store. It stands in for the
// browser local storage the console was designed around.
type SlotStore interface {
	// Get returns the value stored under key. found is false when the slot is empty.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an empty slot is not an error.
	Delete(ctx context.Context, key string) error
}
