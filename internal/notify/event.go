package notify

import "time"

// EventKind tags which role and order event produced a notification.
type EventKind string

const (
	SellerPurchase  EventKind = "VENDITORE_ACQUISTO"
	SellerCancelled EventKind = "VENDITORE_ANNULLATO"
	SellerCompleted EventKind = "VENDITORE_COMPLETATO"
	BuyerShipped    EventKind = "COMPRATORE_SPEDITO"
)

// Key identifies a notification by the order it concerns and the kind of
// event. One aggregation pass yields at most one record per key.
type Key struct {
	OrderID string
	Kind    EventKind
}

// displaySuffixes maps each kind to the suffix appended to the order id to
// form the display id. Dismissals are persisted under display ids, so these
// values must never change once shipped.
var displaySuffixes = map[EventKind]string{
	SellerPurchase:  "",
	SellerCancelled: "-annull",
	SellerCompleted: "-completato",
	BuyerShipped:    "-comp",
}

// DisplayID derives the stable notification id used for list keys and
// dismissal persistence.
func (k Key) DisplayID() string {
	return k.OrderID + displaySuffixes[k.Kind]
}

// Record is one aggregated notification.
type Record struct {
	ID        string
	Key       Key
	Message   string
	Date      time.Time
	ProductID string
	Navigable bool
}
