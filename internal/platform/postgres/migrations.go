package postgres

import "embed"

// MigrationsFS embeds the goose SQL migrations so the server can run
// them at startup without depending on the working directory.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migration files inside MigrationsFS.
const MigrationsDir = "migrations"
