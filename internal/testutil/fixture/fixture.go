// Package fixture builds and captures small directory trees for filesystem tests.
package fixture

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// Dir marks a tree entry as (empty) directory.
const Dir = "<DIR>"

// Tree maps slash-separated relative paths to file contents, Dir creates a directory.
type Tree map[string]string

// Write materializes the tree below root, parents are created as needed.
func Write(t *testing.T, root string, tree Tree) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if content == Dir {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Read captures everything below root in the same format Write accepts.
// Symbolic links are recorded as "-> target".
func Read(t *testing.T, root string) Tree {
	t.Helper()
	tree := Tree{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			tree[rel] = "-> " + target
		case d.IsDir():
			tree[rel] = Dir
		default:
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree[rel] = string(content)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

// Equal reports differences between two trees as test errors.
func Equal(t *testing.T, expected Tree, actual Tree) {
	t.Helper()
	for rel, want := range expected {
		got, found := actual[rel]
		if !found {
			t.Errorf("expected %s to exist", rel)
			continue
		}
		if got != want {
			t.Errorf("content of %s is %q, expected %q", rel, got, want)
		}
	}
	for rel := range actual {
		if _, found := expected[rel]; !found {
			t.Errorf("unexpected %s", rel)
		}
	}
}
