package api

import (
	"context"
	"fmt"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// CreateReviewRequest is the payload for POST /recensioni. Valutazione
// must be between 1 and 5; the backend rejects duplicate reviews for the
// same order.
type CreateReviewRequest struct {
	OrdineID    string `json:"ordineId"`
	Valutazione int    `json:"valutazione"`
	Commento    string `json:"commento"`
}

// CreateReview submits feedback for a completed order.
func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (*model.Review, error) {
	var review model.Review
	if err := c.Post(ctx, "/recensioni", req, &review); err != nil {
		return nil, fmt.Errorf("creating review for order %s: %w", req.OrdineID, err)
	}
	return &review, nil
}
