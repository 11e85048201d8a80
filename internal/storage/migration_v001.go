package storage

import (
	"context"
	"database/sql"
)

// migrateV001 creates pages and the singleton settings row's table.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			url         TEXT NOT NULL,
			last_opened TEXT,
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_last_opened ON pages(last_opened)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url)`,

		// id is pinned to 1.
		`CREATE TABLE IF NOT EXISTS settings (
			id              INTEGER PRIMARY KEY CHECK (id = 1),
			cron_expression TEXT NOT NULL DEFAULT '*/5 * * * *',
			dark_mode       BOOLEAN NOT NULL DEFAULT 0,
			updated_at      TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
