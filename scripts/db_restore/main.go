package main

import (
	"fmt"
	"io"
	"os"

	"github.com/garnizeh/hersafety/internal/config"
	"github.com/garnizeh/hersafety/internal/db"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.DBDriver != db.DriverSQLite {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", db.ErrBackupUnsupported)
		os.Exit(1)
	}

	src := cfg.DatabaseURL + ".bak"
	dst := cfg.DatabaseURL

	if err := copyFile(src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}

	return dstFile.Close()
}
