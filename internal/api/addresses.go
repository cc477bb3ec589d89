package api

import (
	"context"
	"fmt"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// CreateAddressRequest is the payload for POST /indirizzi. Every field is
// validated server-side; failures come back as a ValidationError with one
// message per field.
type CreateAddressRequest struct {
	Via       string `json:"via"`
	Citta     string `json:"citta"`
	CAP       string `json:"cap"`
	Provincia string `json:"provincia"`
	Nazione   string `json:"nazione"`
}

// Addresses fetches the current user's shipping addresses.
func (c *Client) Addresses(ctx context.Context) ([]model.Address, error) {
	var addresses []model.Address
	if err := c.Get(ctx, "/indirizzi", &addresses); err != nil {
		return nil, fmt.Errorf("fetching addresses: %w", err)
	}
	return addresses, nil
}

// CreateAddress adds a shipping address to the current user's profile.
func (c *Client) CreateAddress(ctx context.Context, req CreateAddressRequest) (*model.Address, error) {
	var address model.Address
	if err := c.Post(ctx, "/indirizzi", req, &address); err != nil {
		return nil, fmt.Errorf("creating address: %w", err)
	}
	return &address, nil
}

// DeleteAddress removes a shipping address.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	if err := c.Delete(ctx, "/indirizzi/"+addressID); err != nil {
		return fmt.Errorf("deleting address %s: %w", addressID, err)
	}
	return nil
}
