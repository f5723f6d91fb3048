package blob

import (
	"fmt"
	"path/filepath"
	"strings"
)

// confiner keeps resolved paths inside one root directory.
type confiner struct {
	root string
}

func newConfiner(root string) (*confiner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	if !strings.HasSuffix(abs, string(filepath.Separator)) {
		abs += string(filepath.Separator)
	}
	return &confiner{root: abs}, nil
}

// resolve maps key to a file path under the root. Keys that would escape the
// root, name the root itself, or contain separators are rejected.
func (c *confiner) resolve(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	abs := filepath.Clean(filepath.Join(c.root, key))
	if !strings.HasPrefix(abs, c.root) {
		return "", fmt.Errorf("blob key %q is outside the storage root", key)
	}
	return abs, nil
}
