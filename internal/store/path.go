package store

import (
	"fmt"
	"strings"
)

// Separator joins path segments.
const Separator = "/"

// JoinPath joins segments into a tree path.
func JoinPath(segments ...string) string {
	return strings.Join(segments, Separator)
}

// CleanPath trims surrounding separators and rejects empty paths or empty
// segments.
func CleanPath(path string) (string, error) {
	p := strings.Trim(path, Separator)
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, seg := range strings.Split(p, Separator) {
		if strings.TrimSpace(seg) == "" {
			return "", fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
	}
	return p, nil
}

// SubtreeRange returns the half-open key range [lo, hi) holding every path
// strictly below path. '0' is the byte after '/', so the range works as a
// plain string comparison in any collation that orders by bytes.
func SubtreeRange(path string) (lo, hi string) {
	return path + Separator, path + "0"
}

// InSubtree reports whether key equals path or lies below it.
func InSubtree(key, path string) bool {
	return key == path || strings.HasPrefix(key, path+Separator)
}

// Ancestors lists the proper ancestors of path, nearest last.
// Ancestors("a/b/c") returns ["a", "a/b"].
func Ancestors(path string) []string {
	var out []string
	for i := 0; i < len(path); i++ {
		if path[i] == Separator[0] {
			out = append(out, path[:i])
		}
	}
	return out
}
