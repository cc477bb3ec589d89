package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/store"
	"github.com/kevinramil/streetsell-tui/tests/testutil"
)

func TestHideAndGetHiddenIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ids, err := s.GetHiddenIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	err = s.HideNotifications(ctx, "u1", []store.HiddenEntry{
		{NotificationID: "o1", OrderID: "o1", EventKind: "VENDITORE_ACQUISTO"},
		{NotificationID: "o2-comp", OrderID: "o2", EventKind: "COMPRATORE_SPEDITO"},
	})
	require.NoError(t, err)

	ids, err = s.GetHiddenIDs(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o1", "o2-comp"}, ids)
}

func TestHideNotificationsIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	entry := store.HiddenEntry{NotificationID: "o1-annull", OrderID: "o1", EventKind: "VENDITORE_ANNULLATO"}
	require.NoError(t, s.HideNotifications(ctx, "u1", []store.HiddenEntry{entry}))
	require.NoError(t, s.HideNotifications(ctx, "u1", []store.HiddenEntry{entry}))

	ids, err := s.GetHiddenIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"o1-annull"}, ids)
}

func TestHiddenIDsAreScopedPerUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HideNotifications(ctx, "u1", []store.HiddenEntry{
		{NotificationID: "shared-id", OrderID: "shared-id", EventKind: "VENDITORE_ACQUISTO"},
	}))

	ids, err := s.GetHiddenIDs(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, ids, "one user's dismissals must not leak to another")

	ids, err = s.GetHiddenIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shared-id"}, ids)
}

func TestHideNotificationsEmptyBatch(t *testing.T) {
	s := testutil.NewTestStore(t)
	assert.NoError(t, s.HideNotifications(context.Background(), "u1", nil))
}

func cachedOrder(id string, status model.OrderStatus, date time.Time) model.Order {
	return model.Order{
		ID:          id,
		Compratore:  &model.User{ID: "buyer", Username: "buyer"},
		Venditore:   &model.User{ID: "seller", Username: "seller"},
		Prodotto:    &model.Product{ID: "p-" + id, Titolo: "Lamp"},
		DataOrdine:  model.NewTimestamp(date),
		StatoOrdine: status,
	}
}

func TestOrderCacheRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	orders := []model.Order{
		cachedOrder("o1", model.OrderPending, base.Add(-time.Hour)),
		cachedOrder("o2", model.OrderShipped, base),
	}
	require.NoError(t, s.UpsertOrders(ctx, "u1", orders))

	got, err := s.GetOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first, full payload preserved.
	assert.Equal(t, "o2", got[0].ID)
	assert.Equal(t, model.OrderShipped, got[0].StatoOrdine)
	assert.Equal(t, "o1", got[1].ID)
	require.NotNil(t, got[1].Prodotto)
	assert.Equal(t, "Lamp", got[1].Prodotto.Titolo)
	assert.Equal(t, "seller", got[1].SellerID())
}

func TestUpsertOrdersIsFullResync(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertOrders(ctx, "u1", []model.Order{
		cachedOrder("o1", model.OrderPending, base),
		cachedOrder("o2", model.OrderPending, base),
	}))

	// The next poll no longer returns o1; the cache must drop it.
	require.NoError(t, s.UpsertOrders(ctx, "u1", []model.Order{
		cachedOrder("o2", model.OrderConfirmed, base),
	}))

	got, err := s.GetOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o2", got[0].ID)
	assert.Equal(t, model.OrderConfirmed, got[0].StatoOrdine)
}

func TestOrderCacheIsScopedPerUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertOrders(ctx, "u1", []model.Order{
		cachedOrder("o1", model.OrderPending, base),
	}))
	require.NoError(t, s.UpsertOrders(ctx, "u2", []model.Order{
		cachedOrder("o2", model.OrderShipped, base),
	}))

	got, err := s.GetOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
}
