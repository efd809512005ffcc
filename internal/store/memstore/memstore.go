// Package memstore is an in-process store.Tree used by tests and by the
// "memory" store driver.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/phrazzld/simfleet/internal/store"
)

// Tree keeps leaves in a map guarded by a read-write mutex.
type Tree struct {
	mu     sync.RWMutex
	leaves map[string][]byte

	// Hooks let tests inject failures; nil means no failure.
	GetErr func(path string) error
	SetErr func(path string) error
}

var _ store.Tree = (*Tree)(nil)

// New returns an empty tree.
func New() *Tree {
	return &Tree{leaves: make(map[string][]byte)}
}

// Get implements store.Tree.
func (t *Tree) Get(_ context.Context, path string) (any, error) {
	p, err := store.CleanPath(path)
	if err != nil {
		return nil, err
	}
	if t.GetErr != nil {
		if err := t.GetErr(p); err != nil {
			return nil, err
		}
	}

	t.mu.RLock()
	var found []store.Leaf
	for key, value := range t.leaves {
		if store.InSubtree(key, p) {
			found = append(found, store.Leaf{Path: key, Value: value})
		}
	}
	t.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return store.Assemble(p, found)
}

// Set implements store.Tree.
func (t *Tree) Set(_ context.Context, path string, value any) error {
	p, err := store.CleanPath(path)
	if err != nil {
		return err
	}
	leaves, err := store.Flatten(p, value)
	if err != nil {
		return err
	}
	if err := t.checkSet(p); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.replace(p, leaves)
	return nil
}

// Update implements store.Tree. All fields are applied under one lock.
func (t *Tree) Update(_ context.Context, path string, fields map[string]any) error {
	p, err := store.CleanPath(path)
	if err != nil {
		return err
	}
	if err := t.checkSet(p); err != nil {
		return err
	}

	subtrees, err := store.FlattenFields(p, fields)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range subtrees {
		t.replace(sub.Path, sub.Leaves)
	}
	return nil
}

// Len returns the number of stored leaves.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.leaves)
}

func (t *Tree) checkSet(p string) error {
	if t.SetErr == nil {
		return nil
	}
	return t.SetErr(p)
}

// replace must be called with mu held.
func (t *Tree) replace(p string, leaves []store.Leaf) {
	for key := range t.leaves {
		if store.InSubtree(key, p) {
			delete(t.leaves, key)
		}
	}
	for _, ancestor := range store.Ancestors(p) {
		delete(t.leaves, ancestor)
	}
	for _, leaf := range leaves {
		t.leaves[leaf.Path] = leaf.Value
	}
}
