package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// Applied by the migrate runner (cmd/migrate) and integration setups.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
