package model

// Condition describes the wear state of a listed product.
type Condition string

const (
	ConditionNew        Condition = "NUOVO"
	ConditionLikeNew    Condition = "COME_NUOVO"
	ConditionGood       Condition = "BUONO"
	ConditionAcceptable Condition = "ACCETTABILE"
)

// ProductStatus is the listing lifecycle state.
type ProductStatus string

const (
	ProductAvailable ProductStatus = "DISPONIBILE"
	ProductSold      ProductStatus = "VENDUTO"
	ProductArchived  ProductStatus = "ARCHIVIATO"
	ProductSuspended ProductStatus = "SOSPESO"
)

// ProductImage is one hosted image attached to a listing.
type ProductImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Product is a marketplace listing. Field names mirror the backend payloads.
type Product struct {
	ID            string         `json:"id"`
	Titolo        string         `json:"titolo"`
	Descrizione   string         `json:"descrizione"`
	Prezzo        float64        `json:"prezzo"`
	Categoria     string         `json:"categoria"`
	Condizione    Condition      `json:"condizione"`
	StatoProdotto ProductStatus  `json:"statoProdotto"`
	Venditore     *User          `json:"venditore,omitempty"`
	Immagini      []ProductImage `json:"immagini,omitempty"`
}

// ProductDraft is the payload for creating or updating a listing. It is
// serialized into the "prodotto" part of the multipart request.
type ProductDraft struct {
	Titolo      string    `json:"titolo"`
	Descrizione string    `json:"descrizione"`
	Prezzo      float64   `json:"prezzo"`
	Categoria   string    `json:"categoria"`
	Condizione  Condition `json:"condizione"`
}
