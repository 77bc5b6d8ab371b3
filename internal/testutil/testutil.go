// Package testutil provides shared test helpers for content directories,
// index databases and services.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ankit1478/LLM-Internals/internal/content"
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/index"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite index that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(context.Background(), index.DriverSQLite3, filepath.Join(t.TempDir(), "index.db"), Logger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Article renders an article file with frontmatter.
func Article(module int, slug, title, body string) string {
	return fmt.Sprintf("---\nmodule: %d\nslug: %s\ntitle: %q\ndescription: %q\nread_time: 3\n---\n%s",
		module, slug, title, "About "+title, body)
}

// Roadmap is a small navigation tree matching Fixture.
const Roadmap = `
module {
  number = 0
  title  = "Basics"
  icon   = "book-open"

  topic "intro" { title = "Intro" }
}

module {
  number = 1
  title  = "Internals"
  icon   = "zap"

  topic "tokens" { title = "Tokens" }
  topic "attention" { title = "Attention" }
}

module {
  number = 2
  title  = "Agents"
  icon   = "code"

  submodule "Core" {
    topic "react-pattern" { title = "ReAct" }
  }
}
`

// Fixture is a valid content set: four listed articles and one orphan.
func Fixture() map[string]string {
	return map[string]string{
		"articles/intro.md":         Article(0, "intro", "Intro", "# Intro\nWelcome.\n"),
		"articles/tokens.md":        Article(1, "tokens", "Tokens", "# Tokens\nByte pair encoding splits words.\n"),
		"articles/attention.md":     Article(1, "attention", "Attention", "# Attention\nQueries, keys and values.\n"),
		"articles/react-pattern.md": Article(3, "react-pattern", "ReAct Pattern", "# ReAct\nThought, action, observation.\n"),
		"articles/extra.md":         Article(1, "extra", "Extra", "# Extra\nNot in the roadmap.\n"),
		"roadmap.hcl":               Roadmap,
	}
}

// WriteFile writes body to rel under root, creating directories.
func WriteFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestContent creates a temporary content directory holding files.
func TestContent(t *testing.T, files map[string]string) (string, *content.Loader) {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		WriteFile(t, dir, rel, body)
	}
	l, err := content.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, l
}

// TestService builds a service over a temporary copy of Fixture with the
// in-memory index.
func TestService(t *testing.T, opts ...docservice.Option) (string, *docservice.Service) {
	t.Helper()
	dir, l := TestContent(t, Fixture())
	svc, err := docservice.New(context.Background(), l, nil, Logger(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { svc.Close() })
	return dir, svc
}
