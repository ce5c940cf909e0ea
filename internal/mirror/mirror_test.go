package mirror

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/n2code/copyprofile/internal/testutil/fixture"
	"github.com/n2code/copyprofile/internal/testutil/testlog"
)

func setupRequest(t *testing.T, source fixture.Tree, exclusions ...string) Request {
	t.Helper()
	testlog.Start(t)
	base := t.TempDir()
	req := Request{
		Source:      filepath.Join(base, "project"),
		Destination: filepath.Join(base, "out", "profiles", "contrib", "profile"),
		Exclusions:  NewExclusionSet(exclusions...),
	}
	if err := os.MkdirAll(req.Source, 0o755); err != nil {
		t.Fatal(err)
	}
	fixture.Write(t, req.Source, source)
	return req
}

func mustMirror(t *testing.T, req Request) Report {
	t.Helper()
	report, err := Mirror(req)
	if err != nil {
		t.Fatalf("mirror failed: %s", err)
	}
	return report
}

func TestMirrorSkipsExcludedDirectories(t *testing.T) {
	//GIVEN
	req := setupRequest(t, fixture.Tree{
		"a/keep.txt":       "keep",
		"vendor/lib.php":   "<?php",
		".git/HEAD":        "ref: refs/heads/main",
		"profile.info.yml": "name: Profile",
	}, "vendor", ".git")

	//WHEN
	report := mustMirror(t, req)

	//THEN
	fixture.Equal(t, fixture.Tree{
		"a":                fixture.Dir,
		"a/keep.txt":       "keep",
		"profile.info.yml": "name: Profile",
	}, fixture.Read(t, req.Destination))
	if report.Files != 2 || report.Directories != 1 || report.Bytes != int64(len("keep")+len("name: Profile")) {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestMirrorMatchesExclusionsByNameAtAnyDepth(t *testing.T) {
	req := setupRequest(t, fixture.Tree{
		"modules/custom/node_modules/pkg/index.js": "x",
		"modules/custom/custom.module":             "<?php",
		"node_modules/top.js":                      "y",
		"docs/vendor":                              "a file, not a directory",
		"Vendor/kept.txt":                          "case matters",
	}, "node_modules", "vendor")

	mustMirror(t, req)

	fixture.Equal(t, fixture.Tree{
		"modules":                      fixture.Dir,
		"modules/custom":               fixture.Dir,
		"modules/custom/custom.module": "<?php",
		"docs":                         fixture.Dir,
		"docs/vendor":                  "a file, not a directory",
		"Vendor":                       fixture.Dir,
		"Vendor/kept.txt":              "case matters",
	}, fixture.Read(t, req.Destination))
}

func TestMirrorWithoutExclusionsCopiesEverything(t *testing.T) {
	source := fixture.Tree{
		"a/b/c/deep.txt": "deep",
		"empty":          fixture.Dir,
		".git/HEAD":      "ref",
		"root.txt":       "",
	}
	req := setupRequest(t, source)

	mustMirror(t, req)

	fixture.Equal(t, fixture.Read(t, req.Source), fixture.Read(t, req.Destination))
}

func TestMirrorIsIdempotent(t *testing.T) {
	req := setupRequest(t, fixture.Tree{
		"a/keep.txt":       "keep",
		"vendor/lib.php":   "<?php",
		"profile.info.yml": "name: Profile",
	}, "vendor")

	mustMirror(t, req)
	first := fixture.Read(t, req.Destination)
	mustMirror(t, req)
	second := fixture.Read(t, req.Destination)

	fixture.Equal(t, first, second)
}

func TestMirrorRemovesStaleContent(t *testing.T) {
	req := setupRequest(t, fixture.Tree{"profile.info.yml": "name: Profile"})
	fixture.Write(t, req.Destination, fixture.Tree{
		"stale.txt":         "left over",
		"old/dir/stale.txt": "left over",
	})

	mustMirror(t, req)

	if _, err := os.Stat(filepath.Join(req.Destination, "stale.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stale file survived the mirror run (stat error: %v)", err)
	}
	fixture.Equal(t, fixture.Tree{"profile.info.yml": "name: Profile"}, fixture.Read(t, req.Destination))
}

func TestMirrorReplacesFileAtDestination(t *testing.T) {
	req := setupRequest(t, fixture.Tree{"profile.info.yml": "name: Profile"})
	fixture.Write(t, filepath.Dir(req.Destination), fixture.Tree{filepath.Base(req.Destination): "not a directory"})

	mustMirror(t, req)

	fixture.Equal(t, fixture.Tree{"profile.info.yml": "name: Profile"}, fixture.Read(t, req.Destination))
}

func TestMirrorPropagatesModifiedSource(t *testing.T) {
	req := setupRequest(t, fixture.Tree{"profile.info.yml": "version: 1"})
	mustMirror(t, req)

	sourceFile := filepath.Join(req.Source, "profile.info.yml")
	copiedFile := filepath.Join(req.Destination, "profile.info.yml")
	modified := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.WriteFile(sourceFile, []byte("version: 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(sourceFile, modified, modified); err != nil {
		t.Fatal(err)
	}

	mustMirror(t, req)

	content, err := os.ReadFile(copiedFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "version: 2" {
		t.Errorf("copy not updated, got %q", content)
	}
	stat, err := os.Stat(copiedFile)
	if err != nil {
		t.Fatal(err)
	}
	if !stat.ModTime().Equal(modified) {
		t.Errorf("modification time of copy is %s, expected %s", stat.ModTime(), modified)
	}
}

func TestMirrorKeepsExecutableBit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not supported")
	}
	req := setupRequest(t, fixture.Tree{"scripts/build.sh": "#!/bin/sh"})
	if err := os.Chmod(filepath.Join(req.Source, "scripts", "build.sh"), 0o755); err != nil {
		t.Fatal(err)
	}

	mustMirror(t, req)

	stat, err := os.Stat(filepath.Join(req.Destination, "scripts", "build.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if stat.Mode().Perm()&0o100 == 0 {
		t.Errorf("executable bit lost, mode is %s", stat.Mode())
	}
}

func TestMirrorHandlesSymbolicLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symbolic links require privileges")
	}
	req := setupRequest(t, fixture.Tree{
		"real/file.txt": "content",
	})
	links := map[string]string{
		"file-link": "real/file.txt", //kept as link
		"dir-link":  "real",          //dropped
		"dangling":  "nowhere",       //dropped
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(req.Source, name)); err != nil {
			t.Fatal(err)
		}
	}

	report := mustMirror(t, req)

	fixture.Equal(t, fixture.Tree{
		"real":          fixture.Dir,
		"real/file.txt": "content",
		"file-link":     "-> real/file.txt",
	}, fixture.Read(t, req.Destination))
	if report.Links != 1 {
		t.Errorf("expected 1 link, got %d", report.Links)
	}
}

func TestMirrorFollowsSymlinkedSourceRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symbolic links require privileges")
	}
	//GIVEN a source root which is a link to the real project
	req := setupRequest(t, fixture.Tree{
		"profile.info.yml": "name: Profile",
		"a/keep.txt":       "keep",
	})
	link := filepath.Join(filepath.Dir(req.Source), "link")
	if err := os.Symlink(req.Source, link); err != nil {
		t.Fatal(err)
	}
	req.Source = link

	//WHEN
	report := mustMirror(t, req)

	//THEN
	fixture.Equal(t, fixture.Tree{
		"profile.info.yml": "name: Profile",
		"a":                fixture.Dir,
		"a/keep.txt":       "keep",
	}, fixture.Read(t, req.Destination))
	if report.Files != 2 || report.Directories != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	entries, err := Plan(req)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || filepath.ToSlash(entries[1].Rel) != "a/keep.txt" {
		t.Errorf("plan of linked root incomplete: %+v", entries)
	}
}

func TestMirrorLeavesDestinationAloneIfSourceIsMissing(t *testing.T) {
	req := setupRequest(t, fixture.Tree{})
	fixture.Write(t, req.Destination, fixture.Tree{"previous.txt": "previous run"})
	req.Source = filepath.Join(req.Source, "missing")

	_, err := Mirror(req)

	var fsErr *FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause not preserved: %v", err)
	}
	fixture.Equal(t, fixture.Tree{"previous.txt": "previous run"}, fixture.Read(t, req.Destination))
}

func TestMirrorReportsUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permissions cannot be enforced")
	}
	req := setupRequest(t, fixture.Tree{"secret.txt": "secret"})
	unreadable := filepath.Join(req.Source, "secret.txt")
	if err := os.Chmod(unreadable, 0o200); err != nil {
		t.Fatal(err)
	}

	_, err := Mirror(req)

	var fsErr *FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
	if fsErr.Op != "read" || fsErr.Path != unreadable {
		t.Errorf("unexpected error details: %s", fsErr)
	}
}

func TestMirrorRejectsDestinationInsideSource(t *testing.T) {
	req := setupRequest(t, fixture.Tree{"profile.info.yml": "name: Profile"})
	req.Destination = filepath.Join(req.Source, "web", "profiles", "contrib", "profile")

	if _, err := Mirror(req); !errors.Is(err, ErrDestinationInsideSource) {
		t.Fatalf("expected nesting to be rejected, got %v", err)
	}

	req.Exclusions.Add("web")
	mustMirror(t, req)

	fixture.Equal(t, fixture.Tree{"profile.info.yml": "name: Profile"}, fixture.Read(t, req.Destination))
}

func TestPlanDoesNotTouchDestination(t *testing.T) {
	req := setupRequest(t, fixture.Tree{
		"b.txt":        "b",
		"a/z.txt":      "z",
		"vendor/x.php": "x",
	}, "vendor")

	entries, err := Plan(req)
	if err != nil {
		t.Fatal(err)
	}

	var order []string
	for _, entry := range entries {
		order = append(order, filepath.ToSlash(entry.Rel))
	}
	expected := []string{"a", "a/z.txt", "b.txt"}
	if len(order) != len(expected) {
		t.Fatalf("planned %v, expected %v", order, expected)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("planned %v, expected %v", order, expected)
			break
		}
	}
	if _, err := os.Stat(req.Destination); !errors.Is(err, os.ErrNotExist) {
		t.Error("plan must not create the destination")
	}
}
