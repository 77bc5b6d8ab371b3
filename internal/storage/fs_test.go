package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func tempContent(t *testing.T, files map[string]string) *FS {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestRead(t *testing.T) {
	s := tempContent(t, map[string]string{"articles/note.md": "# Hello\n"})
	got, err := s.Read("articles/note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "# Hello\n" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestRead_Missing(t *testing.T) {
	s := tempContent(t, nil)
	_, err := s.Read("roadmap.hcl")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestList(t *testing.T) {
	s := tempContent(t, map[string]string{
		"articles/b.md":       "b",
		"articles/a.md":       "a",
		"articles/sub/c.md":   "c",
		"articles/.hidden.md": "h",
		"readme.txt":          "not md",
	})

	items, err := s.List("articles")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(items), items)
	}
	want := []string{"articles/a.md", "articles/b.md", "articles/sub/c.md"}
	for i, w := range want {
		if items[i].Path != w {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Path, w)
		}
		if items[i].Checksum == "" {
			t.Errorf("items[%d] has empty checksum", i)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempContent(t, nil)

	for _, p := range []string{"../../etc/passwd", "../outside.md", "/etc/shadow"} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if _, err := s.List(p); err == nil {
			t.Errorf("expected error listing %q", p)
		}
	}
}

func TestEmbedded(t *testing.T) {
	s := NewEmbedded(fstest.MapFS{
		"articles/x.md": &fstest.MapFile{Data: []byte("x")},
		"roadmap.hcl":   &fstest.MapFile{Data: []byte("module {}")},
	}, "embedded")

	if s.Root() != "embedded" {
		t.Errorf("root = %q", s.Root())
	}
	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Path != "articles/x.md" {
		t.Errorf("items = %+v", items)
	}
	if _, err := s.Read("roadmap.hcl"); err != nil {
		t.Errorf("Read roadmap: %v", err)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "docs-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
