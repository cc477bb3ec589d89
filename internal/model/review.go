package model

// Review is a buyer's feedback on a completed order.
// Field names mirror the backend payloads.
type Review struct {
	ID            string    `json:"id"`
	Valutazione   int       `json:"valutazione"`
	Commento      string    `json:"commento"`
	DataCreazione Timestamp `json:"dataCreazione"`
	Recensore     *User     `json:"recensore,omitempty"`
	Recensito     *User     `json:"recensito,omitempty"`
}
