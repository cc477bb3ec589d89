package model

// OrderStatus is the order lifecycle state, using the backend's wire values.
type OrderStatus string

const (
	OrderPending   OrderStatus = "IN_ATTESA"
	OrderConfirmed OrderStatus = "CONFERMATO"
	OrderShipped   OrderStatus = "SPEDITO"
	OrderCompleted OrderStatus = "COMPLETATO"
	OrderCancelled OrderStatus = "ANNULLATO"
)

// Order is a transaction between a buyer and a seller for one product.
// The order lifecycle (pending -> confirmed -> shipped -> completed, or
// cancelled) is owned by the backend; the client only reads it and requests
// transitions. Field names mirror the backend payloads.
type Order struct {
	ID                  string      `json:"id"`
	Compratore          *User       `json:"compratore,omitempty"`
	Venditore           *User       `json:"venditore,omitempty"`
	Prodotto            *Product    `json:"prodotto,omitempty"`
	Recensione          *Review     `json:"recensione,omitempty"`
	IndirizzoSpedizione *Address    `json:"indirizzoSpedizione,omitempty"`
	DataOrdine          Timestamp   `json:"dataOrdine"`
	StatoOrdine         OrderStatus `json:"statoOrdine"`
}

// BuyerID returns the buyer's user id, or "" when absent.
func (o Order) BuyerID() string {
	if o.Compratore == nil {
		return ""
	}
	return o.Compratore.ID
}

// SellerID returns the seller's user id, or "" when absent.
func (o Order) SellerID() string {
	if o.Venditore == nil {
		return ""
	}
	return o.Venditore.ID
}

// ProductID returns the ordered product's id, or "" when the listing was
// deleted.
func (o Order) ProductID() string {
	if o.Prodotto == nil {
		return ""
	}
	return o.Prodotto.ID
}

// ProductTitle returns the ordered product's title, or a placeholder when
// the listing was deleted.
func (o Order) ProductTitle() string {
	if o.Prodotto == nil || o.Prodotto.Titolo == "" {
		return "(deleted listing)"
	}
	return o.Prodotto.Titolo
}
