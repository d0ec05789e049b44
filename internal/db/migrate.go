package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PoliceRoster is the layout of seed/police.yaml.
type PoliceRoster struct {
	Officers []struct {
		Name        string `yaml:"name"`
		BadgeNumber string `yaml:"badge_number"`
		Phone       string `yaml:"phone"`
		Station     string `yaml:"station"`
	} `yaml:"officers"`
}

// Migrate applies migrations and optional seed files.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `migrations/<driver>/` that have not yet been recorded. The
// police roster in `seed/police.yaml` is applied idempotently, keyed by badge number.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS, seedFS fs.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied BIGINT NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	migDir := path.Join("migrations", d.Driver())

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join(migDir, fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}

		err = d.WithTx(ctx, func(tx *Tx) error {
			if _, err := tx.Exec(ctx, string(b)); err != nil {
				return fmt.Errorf("exec migration %s: %w", fname, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, ?)`, version, time.Now().UTC().Unix()); err != nil {
				return fmt.Errorf("record migration %s: %w", fname, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if seedFS == nil {
		return nil
	}

	// optional seed files; a missing roster is not an error
	b, err := fs.ReadFile(seedFS, path.Join("seed", "police.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read police roster: %w", err)
	}

	var roster PoliceRoster
	if err := yaml.Unmarshal(b, &roster); err != nil {
		return fmt.Errorf("parse police roster: %w", err)
	}

	for _, o := range roster.Officers {
		if o.BadgeNumber == "" {
			return fmt.Errorf("police roster: officer %q has no badge number", o.Name)
		}
		if _, err := d.Exec(ctx, `INSERT INTO police (name, badge_number, phone, station) VALUES (?, ?, ?, ?) ON CONFLICT (badge_number) DO NOTHING`, o.Name, o.BadgeNumber, o.Phone, o.Station); err != nil {
			return fmt.Errorf("seed officer %s: %w", o.BadgeNumber, err)
		}
	}

	return nil
}
