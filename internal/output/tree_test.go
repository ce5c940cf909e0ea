package output

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVisualFileTree(t *testing.T) {
	tree := NewVisualFileTree("profile")
	tree.InsertDir("empty")
	tree.InsertPath(filepath.Join("a", "b", "deep.txt"), "")
	tree.InsertPath(filepath.Join("a", "top.txt"), "! ")
	tree.InsertPath("root.txt", "")

	rendered := tree.Render()
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	if lines[0] != "profile" {
		t.Fatalf("root label missing:\n%s", rendered)
	}
	for _, node := range []string{"empty", "a", "b", "deep.txt", "! top.txt", "root.txt"} {
		found := false
		for _, line := range lines[1:] {
			if strings.HasSuffix(line, " "+node) {
				found = true
			}
		}
		if !found {
			t.Errorf("node %q missing:\n%s", node, rendered)
		}
	}
	if count := strings.Count(rendered, " a\n"); count != 1 {
		t.Errorf("directory must be created once, found %d times:\n%s", count, rendered)
	}
}
