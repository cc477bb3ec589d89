package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/app"
	"github.com/kevinramil/streetsell-tui/internal/auth"
	"github.com/kevinramil/streetsell-tui/internal/credential"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "streetsell: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	authStore := auth.NewStore()
	client := api.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		authStore.Token,
	)

	restoreSession(client, authStore)

	root := app.New(
		client,
		authStore,
		st,
		time.Duration(cfg.Notifications.PollIntervalSec)*time.Second,
		cfg.Notifications.MaxVisible,
	)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// restoreSession seeds the auth store from a previously saved token. The
// expiry check is a local precondition only; the backend still rejects
// anything stale with a 401.
func restoreSession(client *api.Client, authStore *auth.Store) {
	token, err := credential.Get(credential.TokenKey)
	if err != nil || !auth.TokenUsable(token) {
		return
	}

	// The poller and profile view need the user object, so fetch it now.
	authStore.Dispatch(auth.LoginSuccess{Token: token})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := client.Me(ctx)
	if err != nil {
		authStore.Dispatch(auth.Logout{})
		_ = credential.Delete(credential.TokenKey)
		return
	}
	authStore.Dispatch(auth.SetUser{User: *user})
}
