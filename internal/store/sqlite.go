package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// GetHiddenIDs returns the dismissed notification ids for one user.
func (s *SQLiteStore) GetHiddenIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids,
		"SELECT notification_id FROM hidden_notifications WHERE user_id = ?", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying hidden ids for user %s: %w", userID, err)
	}
	return ids, nil
}

// HideNotifications inserts the given dismissals for one user. Already
// hidden ids are left in place with their original hidden_at.
func (s *SQLiteStore) HideNotifications(
	ctx context.Context,
	userID string,
	entries []HiddenEntry,
) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR IGNORE INTO hidden_notifications (
			user_id, notification_id, order_id, event_kind, hidden_at
		) VALUES (?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing hide statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		_, err = stmt.ExecContext(ctx,
			userID, e.NotificationID, e.OrderID, e.EventKind, now,
		)
		if err != nil {
			return fmt.Errorf("hiding notification %s: %w", e.NotificationID, err)
		}
	}

	return tx.Commit()
}

// UpsertOrders replaces the cached order list for one user with the latest
// fetch result. The full payload is kept as raw JSON so the cache survives
// model evolution.
func (s *SQLiteStore) UpsertOrders(
	ctx context.Context,
	userID string,
	orders []model.Order,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Each poll is a full resync; drop rows for orders no longer returned.
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clearing cached orders for user %s: %w", userID, err)
	}

	const query = `
		INSERT OR REPLACE INTO orders (
			user_id, id, status, order_date, fetched_at, raw_data
		) VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, o := range orders {
		rawData, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("marshaling order %s: %w", o.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			userID, o.ID, string(o.StatoOrdine), o.DataOrdine.UTC(), now, string(rawData),
		)
		if err != nil {
			return fmt.Errorf("upserting order %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

// GetOrders returns the cached order list for one user, newest first.
func (s *SQLiteStore) GetOrders(ctx context.Context, userID string) ([]model.Order, error) {
	var rawRows []string
	err := s.db.SelectContext(ctx, &rawRows,
		"SELECT raw_data FROM orders WHERE user_id = ? ORDER BY order_date DESC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached orders for user %s: %w", userID, err)
	}

	orders := make([]model.Order, 0, len(rawRows))
	for _, raw := range rawRows {
		var o model.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return nil, fmt.Errorf("unmarshaling cached order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, nil
}
