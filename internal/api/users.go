package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// UpdateProfileRequest is the whole-object payload for PUT /utenti/me.
type UpdateProfileRequest struct {
	Nome    string `json:"nome"`
	Cognome string `json:"cognome"`
}

// ChangePasswordRequest is the payload for PATCH /utenti/me/password.
type ChangePasswordRequest struct {
	VecchiaPassword string `json:"vecchiaPassword"`
	NuovaPassword   string `json:"nuovaPassword"`
}

// Me fetches the current user's full profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/utenti/me", &user); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &user, nil
}

// UpdateMe edits the current user's profile and returns the replacement
// user object.
func (c *Client) UpdateMe(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	var user model.User
	if err := c.Put(ctx, "/utenti/me", req, &user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return &user, nil
}

// DeactivateMe disables the current account.
func (c *Client) DeactivateMe(ctx context.Context) error {
	if err := c.Delete(ctx, "/utenti/me"); err != nil {
		return fmt.Errorf("deactivating account: %w", err)
	}
	return nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := c.Patch(ctx, "/utenti/me/password", req, nil); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}

// UploadAvatar replaces the profile picture with a local image file and
// returns the updated user object.
func (c *Client) UploadAvatar(ctx context.Context, imagePath string) (*model.User, error) {
	var user model.User
	files := []FilePart{{Field: "avatar", Path: imagePath}}
	err := c.doMultipart(ctx, http.MethodPatch, "/utenti/me/avatar", "", nil, files, &user)
	if err != nil {
		return nil, fmt.Errorf("uploading avatar: %w", err)
	}
	return &user, nil
}

// UserByID fetches another user's public profile.
func (c *Client) UserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/utenti/"+userID, &user); err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", userID, err)
	}
	return &user, nil
}

// UserRating fetches the average review score received by a user.
func (c *Client) UserRating(ctx context.Context, userID string) (*model.RatingSummary, error) {
	var rating model.RatingSummary
	if err := c.Get(ctx, "/utenti/"+userID+"/rating", &rating); err != nil {
		return nil, fmt.Errorf("fetching rating of user %s: %w", userID, err)
	}
	return &rating, nil
}

// UserReviews fetches a page of reviews received by a user.
func (c *Client) UserReviews(
	ctx context.Context,
	userID string,
	page, size int,
) (*model.Page[model.Review], error) {
	var result model.Page[model.Review]
	path := fmt.Sprintf("/utenti/%s/recensioni?page=%d&size=%d", userID, page, size)
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("fetching reviews of user %s: %w", userID, err)
	}
	return &result, nil
}

// SearchUsers runs a server-side text search over usernames.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	var users []model.User
	path := "/utenti/cerca?q=" + url.QueryEscape(query)
	if err := c.Get(ctx, path, &users); err != nil {
		return nil, fmt.Errorf("searching users %q: %w", query, err)
	}
	return users, nil
}
