package api

import (
	"context"
	"fmt"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and a trimmed user object.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nome     string `json:"nome"`
	Cognome  string `json:"cognome"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &resp, nil
}

// Register creates a new account. The backend returns the created user;
// a follow-up Login is still required to obtain a token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var user model.User
	if err := c.Post(ctx, "/auth/register", req, &user); err != nil {
		return nil, fmt.Errorf("registering account: %w", err)
	}
	return &user, nil
}
