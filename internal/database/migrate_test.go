// Package database provides connection setup for MariaDB and Redis.
// This file lints the migration SQL files to catch schema mistakes early.
package database

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// migrationsDir returns the absolute path to db/migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "db", "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// TestMigrations_UpDownPairs ensures every .up.sql has a matching .down.sql.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}
	if len(upFiles) == 0 {
		t.Fatal("no migration files found")
	}

	for _, up := range upFiles {
		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}

// TestMigrations_StreamKeyColumn checks the columns that admission and
// session lookups depend on. The stream_key column must stay binary
// collated so key comparison is case sensitive, and both lookup columns
// must stay UNIQUE so FindByName/FindByKey resolve a single row.
func TestMigrations_StreamKeyColumn(t *testing.T) {
	dir := migrationsDir(t)
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}

	var sawAccounts bool
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}
		content := string(data)
		if !strings.Contains(content, "CREATE TABLE") || !strings.Contains(content, "accounts") {
			continue
		}
		sawAccounts = true

		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "stream_key") && !strings.Contains(trimmed, "utf8mb4_bin") {
				t.Errorf("%s: stream_key must use a binary collation", filepath.Base(f))
			}
		}

		for _, col := range []string{"(username)", "(stream_key)"} {
			unique := false
			for _, line := range strings.Split(content, "\n") {
				trimmed := strings.ToUpper(strings.TrimSpace(line))
				if strings.HasPrefix(trimmed, "UNIQUE KEY") && strings.Contains(line, col) {
					unique = true
				}
			}
			if !unique {
				t.Errorf("%s: no UNIQUE KEY on %s", filepath.Base(f), col)
			}
		}
	}

	if !sawAccounts {
		t.Fatal("no migration creates the accounts table")
	}
}
