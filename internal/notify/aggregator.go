package notify

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/store"
)

// DefaultMaxVisible is the number of records shown in the dropdown panel.
const DefaultMaxVisible = 5

// classifyOrder derives the notification an order produces for one user.
// Only four role/status combinations notify; everything else is silent.
func classifyOrder(o model.Order, userID string) (Record, bool) {
	var kind EventKind
	var message string
	navigable := true

	switch {
	case o.SellerID() == userID &&
		(o.StatoOrdine == model.OrderPending || o.StatoOrdine == model.OrderConfirmed):
		kind = SellerPurchase
		message = fmt.Sprintf("New order for %s", o.ProductTitle())
	case o.SellerID() == userID && o.StatoOrdine == model.OrderCancelled:
		kind = SellerCancelled
		message = fmt.Sprintf("Order for %s was cancelled", o.ProductTitle())
		navigable = false
	case o.SellerID() == userID && o.StatoOrdine == model.OrderCompleted:
		kind = SellerCompleted
		message = fmt.Sprintf("Buyer confirmed receipt of %s", o.ProductTitle())
	case o.BuyerID() == userID && o.StatoOrdine == model.OrderShipped:
		kind = BuyerShipped
		message = fmt.Sprintf("Your order for %s has shipped", o.ProductTitle())
	default:
		return Record{}, false
	}

	key := Key{OrderID: o.ID, Kind: kind}
	rec := Record{
		ID:        key.DisplayID(),
		Key:       key,
		Message:   message,
		Date:      o.DataOrdine.Time,
		Navigable: navigable,
	}
	if navigable {
		rec.ProductID = o.ProductID()
	}
	return rec, true
}

// Classify maps a fetched order list to notification records for one user,
// newest first. Records with equal dates keep their input order.
func Classify(orders []model.Order, userID string) []Record {
	records := make([]Record, 0, len(orders))
	for _, o := range orders {
		if rec, ok := classifyOrder(o, userID); ok {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records
}

// Aggregator holds the per-session notification state: the records derived
// from the latest poll and the set of dismissed ids. Dismissals are kept in
// memory here and persisted by the caller through the store.
type Aggregator struct {
	mu      sync.Mutex
	userID  string
	hidden  map[string]struct{}
	loaded  bool
	records []Record
}

// NewAggregator creates an empty aggregator with no user bound.
func NewAggregator() *Aggregator {
	return &Aggregator{hidden: make(map[string]struct{})}
}

// SetUser resets the aggregator for a new session. All in-memory state is
// dropped; persisted dismissals for other users are untouched.
func (a *Aggregator) SetUser(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.userID = userID
	a.hidden = make(map[string]struct{})
	a.loaded = false
	a.records = nil
}

// UserID returns the user the aggregator is currently bound to.
func (a *Aggregator) UserID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userID
}

// LoadHidden installs the persisted dismissal set. Dismissals made in
// memory before the load completes are kept, not clobbered.
func (a *Aggregator) LoadHidden(ids []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, id := range ids {
		a.hidden[id] = struct{}{}
	}
	a.loaded = true
}

// Loaded reports whether the persisted dismissal set has been installed.
// Writing dismissals back before then would clobber the stored set.
func (a *Aggregator) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

// Apply replaces the record set from a fresh poll. Every poll is a full
// resync; records for orders no longer returned disappear.
func (a *Aggregator) Apply(orders []model.Order) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = Classify(orders, a.userID)
}

// Clear drops the record set, as after a failed fetch.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = nil
}

// Visible returns the records not yet dismissed, newest first.
func (a *Aggregator) Visible() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visibleLocked()
}

func (a *Aggregator) visibleLocked() []Record {
	out := make([]Record, 0, len(a.records))
	for _, r := range a.records {
		if _, hidden := a.hidden[r.ID]; !hidden {
			out = append(out, r)
		}
	}
	return out
}

// Top returns the first n visible records. n <= 0 means the default panel
// size.
func (a *Aggregator) Top(n int) []Record {
	if n <= 0 {
		n = DefaultMaxVisible
	}
	visible := a.Visible()
	if len(visible) > n {
		visible = visible[:n]
	}
	return visible
}

// TotalVisible returns the badge count: all visible records, not just the
// ones the panel shows.
func (a *Aggregator) TotalVisible() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.visibleLocked())
}

// Hide dismisses one record by display id and returns the entry to persist.
// The second return is false while the persisted set has not loaded yet;
// the dismissal still takes effect in memory.
func (a *Aggregator) Hide(id string) (store.HiddenEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.hidden[id] = struct{}{}

	entry := store.HiddenEntry{NotificationID: id}
	for _, r := range a.records {
		if r.ID == id {
			entry.OrderID = r.Key.OrderID
			entry.EventKind = string(r.Key.Kind)
			break
		}
	}
	return entry, a.loaded
}

// ClearAll dismisses exactly the currently visible records and returns the
// entries to persist, or nil while the persisted set has not loaded yet.
func (a *Aggregator) ClearAll() []store.HiddenEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	visible := a.visibleLocked()
	entries := make([]store.HiddenEntry, 0, len(visible))
	for _, r := range visible {
		a.hidden[r.ID] = struct{}{}
		entries = append(entries, store.HiddenEntry{
			NotificationID: r.ID,
			OrderID:        r.Key.OrderID,
			EventKind:      string(r.Key.Kind),
		})
	}

	if !a.loaded {
		return nil
	}
	return entries
}
