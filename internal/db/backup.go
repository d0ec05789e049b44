package db

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrBackupUnsupported is returned for drivers whose backups are taken with
// external tooling such as pg_dump.
var ErrBackupUnsupported = errors.New("backup is only supported for sqlite")

// Backup writes a consistent copy of a SQLite database to dst. An existing
// file at dst is replaced.
func (db *DB) Backup(ctx context.Context, dst string) error {
	if db.driver != DriverSQLite {
		return ErrBackupUnsupported
	}

	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old backup: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dst, err)
	}

	return nil
}
