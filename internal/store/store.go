package store

import (
	"context"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// HiddenEntry records one dismissed notification. NotificationID is the
// derived display id the dismissal is keyed by; OrderID and EventKind are
// stored alongside it so a future migration to stable keying needs no
// backfill.
type HiddenEntry struct {
	NotificationID string
	OrderID        string
	EventKind      string
}

// Store defines the local persistence interface: per-user dismissed
// notification ids and a last-known orders cache. Rows for one user are
// never visible to another.
type Store interface {
	// === Dismissed notifications ===

	GetHiddenIDs(ctx context.Context, userID string) ([]string, error)
	HideNotifications(ctx context.Context, userID string, entries []HiddenEntry) error

	// === Orders cache ===

	UpsertOrders(ctx context.Context, userID string, orders []model.Order) error
	GetOrders(ctx context.Context, userID string) ([]model.Order, error)
}
