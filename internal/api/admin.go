package api

import (
	"context"
	"fmt"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// AllUsers fetches every account for the admin panel. ADMIN role required.
func (c *Client) AllUsers(ctx context.Context) ([]model.AdminUser, error) {
	var users []model.AdminUser
	if err := c.Get(ctx, "/utenti/all", &users); err != nil {
		return nil, fmt.Errorf("fetching all users: %w", err)
	}
	return users, nil
}

// DeactivateUser disables another account. ADMIN role required.
func (c *Client) DeactivateUser(ctx context.Context, userID string) error {
	if err := c.Delete(ctx, "/utenti/"+userID+"/admin-disattiva"); err != nil {
		return fmt.Errorf("deactivating user %s: %w", userID, err)
	}
	return nil
}

// ReactivateUser re-enables a deactivated account. ADMIN role required.
func (c *Client) ReactivateUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := c.Patch(ctx, "/utenti/"+userID+"/reactivate", nil, &user); err != nil {
		return nil, fmt.Errorf("reactivating user %s: %w", userID, err)
	}
	return &user, nil
}

// AllProducts fetches a page of every listing regardless of status.
// ADMIN role required.
func (c *Client) AllProducts(ctx context.Context, page, size int) (*model.Page[model.Product], error) {
	var result model.Page[model.Product]
	path := fmt.Sprintf("/prodotti/admin/all?page=%d&size=%d", page, size)
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("fetching all products: %w", err)
	}
	return &result, nil
}

// SuspendProduct pulls a listing from the marketplace without archiving it.
// ADMIN role required.
func (c *Client) SuspendProduct(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := c.Patch(ctx, "/prodotti/"+productID+"/suspend", nil, &product); err != nil {
		return nil, fmt.Errorf("suspending product %s: %w", productID, err)
	}
	return &product, nil
}
