package model

// Role identifies the permission level of a user account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a marketplace account, either a buyer, a seller, or both.
// Field names mirror the backend payloads.
type User struct {
	// ID is the account UUID assigned by the backend.
	ID string `json:"id"`

	// Username is the public display handle.
	Username string `json:"username"`

	// Email is the login identifier.
	Email string `json:"email"`

	// Nome and Cognome are the account holder's first and last name.
	Nome    string `json:"nome,omitempty"`
	Cognome string `json:"cognome,omitempty"`

	// AvatarURL points at the hosted avatar image, if one was uploaded.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// Ruolo is the permission level (USER or ADMIN).
	Ruolo Role `json:"ruolo,omitempty"`

	// Attivo reports whether the account is enabled. Deactivated accounts
	// cannot log in but their historical orders remain visible.
	Attivo bool `json:"attivo,omitempty"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Ruolo == RoleAdmin
}

// AdminUser is the enriched account row returned by the admin listing.
type AdminUser struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	Ruolo               string    `json:"ruolo"`
	Attivo              bool      `json:"attivo"`
	CreatedAt           Timestamp `json:"createdAt"`
	ProdottiAttiviCount int64     `json:"prodottiAttiviCount"`
}

// RatingSummary aggregates the review scores received by a user.
type RatingSummary struct {
	Media         float64 `json:"media"`
	NumRecensioni int     `json:"numRecensioni"`
}
