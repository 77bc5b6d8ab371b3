package index

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

var quietLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// forEachDriver runs fn against a fresh database for every driver that is
// available in the test environment. Postgres runs only when
// INDEX_TEST_POSTGRES_DSN is set.
func forEachDriver(t *testing.T, fn func(t *testing.T, db *DB)) {
	t.Helper()
	for _, driver := range []string{DriverSQLite3, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			fn(t, testDB(t, driver, filepath.Join(t.TempDir(), "index.db")))
		})
	}
	if dsn := os.Getenv("INDEX_TEST_POSTGRES_DSN"); dsn != "" {
		t.Run(DriverPostgres, func(t *testing.T) {
			db := testDB(t, DriverPostgres, dsn)
			if _, err := db.conn.Exec(`DELETE FROM articles`); err != nil {
				t.Fatal(err)
			}
			fn(t, db)
		})
	}
}

func testDB(t *testing.T, driver, dsn string) *DB {
	t.Helper()
	db, err := Open(context.Background(), driver, dsn, quietLogger)
	if err != nil {
		t.Fatalf("Open(%s): %v", driver, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func art(slug, title, description, body, sum string) models.Article {
	return models.Article{Module: 1, Slug: slug, Title: title, Description: description, Content: body, Checksum: sum}
}

func TestSchemaCreation(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		n, err := db.Count(context.Background())
		if err != nil {
			t.Fatalf("articles table missing: %v", err)
		}
		if n != 0 {
			t.Errorf("count = %d, want 0", n)
		}
	})
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	db, err := Open(ctx, DriverSQLite3, path, quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Upsert(ctx, art("kept", "Kept", "", "", "1")); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(ctx, DriverSQLite3, path, quietLogger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	cs, _ := db.Checksum(ctx, "kept")
	if cs != "1" {
		t.Errorf("checksum after reopen = %q, want %q", cs, "1")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x", quietLogger); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestOpen_Memory(t *testing.T) {
	db := testDB(t, DriverSQLite, ":memory:")
	ctx := context.Background()
	if err := db.Upsert(ctx, art("m", "M", "", "", "1")); err != nil {
		t.Fatal(err)
	}
	if n, _ := db.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestUpsertAndChecksum(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		if err := db.Upsert(ctx, art("hello", "Hello", "", "body", "abc123")); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		cs, err := db.Checksum(ctx, "hello")
		if err != nil {
			t.Fatalf("Checksum: %v", err)
		}
		if cs != "abc123" {
			t.Errorf("checksum = %q, want %q", cs, "abc123")
		}

		if err := db.Upsert(ctx, art("hello", "Hello again", "", "new body", "def456")); err != nil {
			t.Fatalf("Upsert update: %v", err)
		}
		cs, _ = db.Checksum(ctx, "hello")
		if cs != "def456" {
			t.Errorf("checksum after update = %q, want %q", cs, "def456")
		}
		if n, _ := db.Count(ctx); n != 1 {
			t.Errorf("count = %d, want 1", n)
		}
	})
}

func TestChecksum_NotFound(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		cs, err := db.Checksum(context.Background(), "nonexistent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cs != "" {
			t.Errorf("expected empty checksum, got %q", cs)
		}
	})
}

func TestDelete(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		_ = db.Upsert(ctx, art("del", "Delete me", "", "", "x"))
		if err := db.Delete(ctx, "del"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if cs, _ := db.Checksum(ctx, "del"); cs != "" {
			t.Errorf("deleted article still has checksum %q", cs)
		}
		if err := db.Delete(ctx, "never-existed"); err != nil {
			t.Errorf("Delete unknown: %v", err)
		}
	})
}

func TestSync(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		first := []models.Article{
			art("a", "A", "", "", "1"),
			art("b", "B", "", "", "1"),
			art("c", "C", "", "", "1"),
		}
		stats, err := db.Sync(ctx, first)
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if stats != (SyncStats{Upserted: 3}) {
			t.Errorf("first sync stats = %+v", stats)
		}

		second := []models.Article{
			art("a", "A", "", "", "1"),
			art("b", "B", "", "", "2"),
			art("d", "D", "", "", "1"),
		}
		stats, err = db.Sync(ctx, second)
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if stats != (SyncStats{Upserted: 2, Deleted: 1, Unchanged: 1}) {
			t.Errorf("second sync stats = %+v", stats)
		}

		all, err := db.AllChecksums(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]string{"a": "1", "b": "2", "d": "1"}
		if len(all) != len(want) {
			t.Fatalf("checksums = %v, want %v", all, want)
		}
		for k, v := range want {
			if all[k] != v {
				t.Errorf("checksum[%s] = %q, want %q", k, all[k], v)
			}
		}
	})
}
