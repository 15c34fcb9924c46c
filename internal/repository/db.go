package repository

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the sqlite database at path and applies the
// schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("database.open.ok", "path", path)
	return db, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS slips (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL DEFAULT '',
		raw_text TEXT NOT NULL,
		bank_from TEXT NOT NULL DEFAULT '',
		bank_to TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		date_time_text TEXT NOT NULL DEFAULT '',
		date_time_iso TEXT NOT NULL DEFAULT '',
		from_name TEXT NOT NULL DEFAULT '',
		from_account TEXT NOT NULL DEFAULT '',
		to_name TEXT NOT NULL DEFAULT '',
		to_account TEXT NOT NULL DEFAULT '',
		to_biller_id TEXT NOT NULL DEFAULT '',
		to_store_code TEXT NOT NULL DEFAULT '',
		to_transaction_code TEXT NOT NULL DEFAULT '',
		amount REAL NOT NULL DEFAULT 0,
		fee REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'THB',
		transaction_reference TEXT NOT NULL DEFAULT '',
		reference_number TEXT NOT NULL DEFAULT '',
		reference_code TEXT NOT NULL DEFAULT '',
		qr_code TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_slips_created_at ON slips(created_at);
	CREATE INDEX IF NOT EXISTS idx_slips_date_time_iso ON slips(date_time_iso);
	CREATE INDEX IF NOT EXISTS idx_slips_bank_from ON slips(bank_from);
	`
	_, err := db.Exec(schema)
	return err
}
