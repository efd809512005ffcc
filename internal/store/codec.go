package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Leaf is one stored scalar (or list) and its full path.
type Leaf struct {
	Path  string
	Value json.RawMessage
}

// Flatten encodes value as the leaves stored under path. Objects are split
// into one leaf per scalar; an empty object or nil produces no leaves.
// Arbitrary Go values are normalised through encoding/json first, so structs
// and typed maps are accepted.
func Flatten(path string, value any) ([]Leaf, error) {
	normalized, err := normalize(value)
	if err != nil {
		return nil, err
	}
	var leaves []Leaf
	if err := flattenInto(&leaves, path, normalized); err != nil {
		return nil, err
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Path < leaves[j].Path })
	return leaves, nil
}

func flattenInto(leaves *[]Leaf, path string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		for key, child := range v {
			if key == "" || strings.Contains(key, Separator) {
				return fmt.Errorf("%w: key %q under %q", ErrInvalidValue, key, path)
			}
			if err := flattenInto(leaves, path+Separator+key, child); err != nil {
				return err
			}
		}
		return nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		*leaves = append(*leaves, Leaf{Path: path, Value: raw})
		return nil
	}
}

// Assemble rebuilds the value stored at path from its leaves. Leaves outside
// the subtree are ignored. It returns nil when no leaf belongs to path.
func Assemble(path string, leaves []Leaf) (any, error) {
	var root map[string]any
	for _, leaf := range leaves {
		var v any
		if err := json.Unmarshal(leaf.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: decoding %q: %w", ErrInvalidValue, leaf.Path, err)
		}
		if leaf.Path == path {
			return v, nil
		}
		rel, ok := strings.CutPrefix(leaf.Path, path+Separator)
		if !ok {
			continue
		}
		if root == nil {
			root = make(map[string]any)
		}
		insert(root, strings.Split(rel, Separator), v)
	}
	if root == nil {
		return nil, nil
	}
	return root, nil
}

func insert(node map[string]any, segments []string, v any) {
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = v
}

func normalize(value any) (any, error) {
	switch value.(type) {
	case nil, string, bool, float64, int, int64:
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return out, nil
}

// ScanLeaves reads (path, value) rows into leaves and closes rows.
func ScanLeaves(rows *sql.Rows) ([]Leaf, error) {
	defer func() { _ = rows.Close() }()

	var leaves []Leaf
	for rows.Next() {
		var (
			path  string
			value []byte
		)
		if err := rows.Scan(&path, &value); err != nil {
			return nil, err
		}
		leaves = append(leaves, Leaf{Path: path, Value: json.RawMessage(value)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaves, nil
}

// Subtree is the set of leaves that replaces everything stored at Path.
type Subtree struct {
	Path   string
	Leaves []Leaf
}

// FlattenFields encodes the fields of an Update below path, ordered by field
// path so backends write them deterministically.
func FlattenFields(path string, fields map[string]any) ([]Subtree, error) {
	out := make([]Subtree, 0, len(fields))
	for key, value := range fields {
		child, err := CleanPath(JoinPath(path, key))
		if err != nil {
			return nil, err
		}
		if strings.Count(child, Separator) != strings.Count(path, Separator)+1 {
			return nil, fmt.Errorf("%w: field %q is not a direct child", ErrInvalidPath, key)
		}
		leaves, err := Flatten(child, value)
		if err != nil {
			return nil, err
		}
		out = append(out, Subtree{Path: child, Leaves: leaves})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
