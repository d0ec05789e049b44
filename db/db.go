package db

import "embed"

// Migrations holds one directory of ordered .sql files per supported driver.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var Migrations embed.FS

//go:embed seed/*.yaml
var SeedFiles embed.FS
