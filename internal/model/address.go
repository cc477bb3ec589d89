package model

// Address is a shipping address owned by the current user.
// Field names mirror the backend payloads.
type Address struct {
	ID        string `json:"id"`
	Via       string `json:"via"`
	Citta     string `json:"citta"`
	CAP       string `json:"cap"`
	Provincia string `json:"provincia"`
	Nazione   string `json:"nazione"`
}

// Line renders the address as a single display line.
func (a Address) Line() string {
	return a.Via + ", " + a.CAP + " " + a.Citta + " (" + a.Provincia + "), " + a.Nazione
}
