package db

import "embed"

// Migrations holds one directory of ordered .sql files per SQL dialect
// (migrations/sqlite, migrations/mysql).
//
//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var Migrations embed.FS
