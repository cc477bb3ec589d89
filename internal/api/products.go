package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// Products fetches all listings currently available for purchase.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.Get(ctx, "/prodotti", &products); err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	return products, nil
}

// Product fetches a single listing by id.
func (c *Client) Product(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := c.Get(ctx, "/prodotti/"+productID, &product); err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", productID, err)
	}
	return &product, nil
}

// SearchProducts runs a server-side text search over available listings.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	var products []model.Product
	path := "/prodotti/cerca?q=" + url.QueryEscape(query)
	if err := c.Get(ctx, path, &products); err != nil {
		return nil, fmt.Errorf("searching products %q: %w", query, err)
	}
	return products, nil
}

// MyProducts fetches a page of the current user's own listings.
func (c *Client) MyProducts(ctx context.Context, page, size int) (*model.Page[model.Product], error) {
	var result model.Page[model.Product]
	path := fmt.Sprintf("/prodotti/me?page=%d&size=%d", page, size)
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("fetching own products: %w", err)
	}
	return &result, nil
}

// CreateProduct publishes a new listing with its images. The backend
// consumes a multipart request: a "prodotto" JSON part plus image files.
func (c *Client) CreateProduct(
	ctx context.Context,
	draft model.ProductDraft,
	imagePaths []string,
) (*model.Product, error) {
	files := make([]FilePart, 0, len(imagePaths))
	for _, p := range imagePaths {
		files = append(files, FilePart{Field: "immagini", Path: p})
	}

	var product model.Product
	err := c.doMultipart(ctx, http.MethodPost, "/prodotti", "prodotto", draft, files, &product)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return &product, nil
}

// UpdateProduct edits an existing listing, optionally attaching new images.
func (c *Client) UpdateProduct(
	ctx context.Context,
	productID string,
	draft model.ProductDraft,
	imagePaths []string,
) (*model.Product, error) {
	files := make([]FilePart, 0, len(imagePaths))
	for _, p := range imagePaths {
		files = append(files, FilePart{Field: "immagini", Path: p})
	}

	var product model.Product
	err := c.doMultipart(
		ctx, http.MethodPut, "/prodotti/"+productID, "prodotto", draft, files, &product,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product %s: %w", productID, err)
	}
	return &product, nil
}

// ArchiveProduct removes a listing from the marketplace. The backend keeps
// the row for order history.
func (c *Client) ArchiveProduct(ctx context.Context, productID string) error {
	if err := c.Delete(ctx, "/prodotti/"+productID); err != nil {
		return fmt.Errorf("archiving product %s: %w", productID, err)
	}
	return nil
}

// DeleteProductImage removes one image from a listing.
func (c *Client) DeleteProductImage(ctx context.Context, productID, imageID string) error {
	path := fmt.Sprintf("/prodotti/%s/immagini/%s", productID, imageID)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting image %s of product %s: %w", imageID, productID, err)
	}
	return nil
}
