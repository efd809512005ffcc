package store

import "context"

// Tree is a hierarchical key-value store addressed by '/'-separated paths.
//
// Values are JSON-compatible: objects (map[string]any), strings, numbers,
// booleans and lists. Objects are addressable by path; lists are stored as
// a single value.
type Tree interface {
	// Get returns the value at path: a scalar, a list, or a map[string]any
	// assembled from every leaf below path. It returns (nil, nil) when
	// nothing is stored there.
	Get(ctx context.Context, path string) (any, error)

	// Set replaces whatever is stored at path with value. A nil value
	// deletes the subtree.
	Set(ctx context.Context, path string, value any) error

	// Update sets each field below path, leaving sibling fields untouched.
	Update(ctx context.Context, path string, fields map[string]any) error
}
