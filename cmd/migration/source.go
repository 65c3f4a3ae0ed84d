package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const migrationApplicationName = "pawmatch-migration"

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := append([]string{explicit, envOr("MIGRATIONS_DIR", "")}, defaultMigrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", fmt.Errorf("migrations directory not found, tried --dir, MIGRATIONS_DIR and %s", strings.Join(defaultMigrationDirs, ", "))
}

func sourceURL(dir string) string {
	return "file://" + filepath.ToSlash(dir)
}

// normalizeDBURL names the session so migrations are distinguishable from
// API connections in pg_stat_activity.
func normalizeDBURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("application_name") != "" {
		return raw
	}
	query.Set("application_name", migrationApplicationName)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
