package store

import (
	"context"
	"fmt"

	"github.com/frescosur/conversor/internal/auth"
	"github.com/frescosur/conversor/internal/layout"
)

// migrations run in order inside one transaction. The schema_version table
// records the last applied index so upgrades are incremental.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin','operator')),
		active        INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		name                TEXT NOT NULL UNIQUE,
		display_name        TEXT NOT NULL,
		address             TEXT NOT NULL DEFAULT '',
		gln_client          TEXT NOT NULL DEFAULT '',
		gln_destination     TEXT NOT NULL DEFAULT '',
		gln_alternate       TEXT NOT NULL DEFAULT '',
		client_code         TEXT NOT NULL DEFAULT '',
		extra_code          TEXT NOT NULL DEFAULT '',
		issue_offset_days   INTEGER NOT NULL DEFAULT 0,
		delivery_offset_days INTEGER NOT NULL DEFAULT 0,
		due_offset_days     INTEGER NOT NULL DEFAULT 10,
		layout              TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id     INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		ean           TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		internal_code TEXT NOT NULL DEFAULT '',
		units_per_pack INTEGER NOT NULL DEFAULT 1,
		unit_price    REAL NOT NULL DEFAULT 0,
		active        INTEGER NOT NULL DEFAULT 1,
		UNIQUE (client_id, ean)
	)`,
	`CREATE TABLE IF NOT EXISTS conversions (
		id            TEXT PRIMARY KEY,
		client_id     INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		username      TEXT NOT NULL,
		input_file    TEXT NOT NULL,
		output_files  TEXT NOT NULL,
		accepted      INTEGER NOT NULL,
		skipped       INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversions_client ON conversions(client_id, created_at)`,
}

// Migrate brings the schema up to date. Safe to run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for i := version; i < len(migrations); i++ {
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	if version < len(migrations) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
			return fmt.Errorf("reset schema version: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, len(migrations)); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	}

	return tx.Commit()
}

// Seed creates the initial accounts and a demonstration client on a fresh
// database. It is a no-op when any user already exists.
func (s *Store) Seed(ctx context.Context, adminPassword, operatorPassword string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range []struct {
		username, password, role string
	}{
		{"admin", adminPassword, "admin"},
		{"operator", operatorPassword, "operator"},
	} {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.username, err)
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
			u.username, hash, u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	layoutJSON, err := layout.EncodeJSON(layout.Default())
	if err != nil {
		return fmt.Errorf("encode default layout: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (
			name, display_name, address, gln_client, gln_destination,
			gln_alternate, client_code, extra_code, layout
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"patagonia_amba", "Patagonia Sunrise - AMBA",
		"AU RICHIERI Y BOULOGNE SUR MER-MCBA",
		"7798355160007", "9930709088447", "7798355160311",
		"973995", "000000", string(layoutJSON))
	if err != nil {
		return fmt.Errorf("seed client: %w", err)
	}
	clientID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("seed client id: %w", err)
	}

	for _, p := range []struct {
		ean, description, code string
		uxb                    int
		price                  float64
	}{
		{"7798162980843", "Palta Hass Grande 135 g", "18395929", 70, 1100.0},
		{"7798162980751", "Zapallo Anco 1 Un", "16405484", 8, 930.0},
		{"2979900003580", "Limon X Un", "40231318", 21, 260.0},
	} {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO products (client_id, ean, description, internal_code, units_per_pack, unit_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			clientID, p.ean, p.description, p.code, p.uxb, p.price); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ean, err)
		}
	}

	return nil
}
