package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

func makeOrder(id, buyerID, sellerID string, status model.OrderStatus, date time.Time) model.Order {
	return model.Order{
		ID:          id,
		Compratore:  &model.User{ID: buyerID, Username: "buyer"},
		Venditore:   &model.User{ID: sellerID, Username: "seller"},
		Prodotto:    &model.Product{ID: "p-" + id, Titolo: "Vintage Camera"},
		DataOrdine:  model.NewTimestamp(date),
		StatoOrdine: status,
	}
}

func TestClassifySellerSideEvents(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending and confirmed both notify the seller as a purchase", func(t *testing.T) {
		for _, status := range []model.OrderStatus{model.OrderPending, model.OrderConfirmed} {
			records := Classify([]model.Order{
				makeOrder("o1", "u2", "u1", status, now),
			}, "u1")

			require.Len(t, records, 1, "status %s", status)
			rec := records[0]
			assert.Equal(t, "o1", rec.ID)
			assert.Equal(t, Key{OrderID: "o1", Kind: SellerPurchase}, rec.Key)
			assert.Equal(t, "New order for Vintage Camera", rec.Message)
			assert.True(t, rec.Navigable)
			assert.Equal(t, "p-o1", rec.ProductID)
		}
	})

	t.Run("cancellation notifies the seller without navigation", func(t *testing.T) {
		records := Classify([]model.Order{
			makeOrder("o1", "u2", "u1", model.OrderCancelled, now),
		}, "u1")

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "o1-annull", rec.ID)
		assert.Equal(t, SellerCancelled, rec.Key.Kind)
		assert.False(t, rec.Navigable)
		assert.Empty(t, rec.ProductID)
	})

	t.Run("completion notifies the seller", func(t *testing.T) {
		records := Classify([]model.Order{
			makeOrder("o1", "u2", "u1", model.OrderCompleted, now),
		}, "u1")

		require.Len(t, records, 1)
		assert.Equal(t, "o1-completato", records[0].ID)
		assert.Equal(t, SellerCompleted, records[0].Key.Kind)
		assert.True(t, records[0].Navigable)
	})
}

func TestClassifyBuyerSideEvents(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("shipment notifies the buyer", func(t *testing.T) {
		records := Classify([]model.Order{
			makeOrder("o2", "u2", "u1", model.OrderShipped, now),
		}, "u2")

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "o2-comp", rec.ID)
		assert.Equal(t, Key{OrderID: "o2", Kind: BuyerShipped}, rec.Key)
		assert.Equal(t, "Your order for Vintage Camera has shipped", rec.Message)
		assert.True(t, rec.Navigable)
	})

	t.Run("other buyer-side statuses are silent", func(t *testing.T) {
		for _, status := range []model.OrderStatus{
			model.OrderPending, model.OrderConfirmed,
			model.OrderCompleted, model.OrderCancelled,
		} {
			records := Classify([]model.Order{
				makeOrder("o2", "u2", "u1", status, now),
			}, "u2")
			assert.Empty(t, records, "status %s should not notify the buyer", status)
		}
	})

	t.Run("orders for other users are silent", func(t *testing.T) {
		records := Classify([]model.Order{
			makeOrder("o3", "u2", "u1", model.OrderShipped, now),
		}, "u9")
		assert.Empty(t, records)
	})
}

func TestClassifyDeletedListing(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := makeOrder("o4", "u2", "u1", model.OrderPending, now)
	order.Prodotto = nil

	records := Classify([]model.Order{order}, "u1")

	require.Len(t, records, 1)
	assert.Equal(t, "New order for (deleted listing)", records[0].Message)
	assert.True(t, records[0].Navigable)
	assert.Empty(t, records[0].ProductID)
}

func TestClassifySortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := Classify([]model.Order{
		makeOrder("old", "u2", "u1", model.OrderPending, base.Add(-2*time.Hour)),
		makeOrder("newest", "u2", "u1", model.OrderPending, base),
		makeOrder("middle", "u2", "u1", model.OrderPending, base.Add(-time.Hour)),
	}, "u1")

	require.Len(t, records, 3)
	assert.Equal(t, "newest", records[0].Key.OrderID)
	assert.Equal(t, "middle", records[1].Key.OrderID)
	assert.Equal(t, "old", records[2].Key.OrderID)
}

func TestClassifyStableOnEqualDates(t *testing.T) {
	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := Classify([]model.Order{
		makeOrder("a", "u2", "u1", model.OrderPending, date),
		makeOrder("b", "u2", "u1", model.OrderPending, date),
		makeOrder("c", "u2", "u1", model.OrderPending, date),
	}, "u1")

	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].Key.OrderID)
	assert.Equal(t, "b", records[1].Key.OrderID)
	assert.Equal(t, "c", records[2].Key.OrderID)
}

func TestAggregatorHideSurvivesRefetch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		makeOrder("o1", "u2", "u1", model.OrderPending, now),
		makeOrder("o2", "u2", "u1", model.OrderPending, now.Add(-time.Hour)),
	}

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.LoadHidden(nil)
	agg.Apply(orders)

	entry, persist := agg.Hide("o1")
	assert.True(t, persist)
	assert.Equal(t, "o1", entry.OrderID)
	assert.Equal(t, string(SellerPurchase), entry.EventKind)

	// The same order comes back on the next poll; the dismissal holds.
	agg.Apply(orders)

	visible := agg.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "o2", visible[0].Key.OrderID)
	assert.Equal(t, 1, agg.TotalVisible())
}

func TestAggregatorHideBeforeLoadDoesNotPersist(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.Apply([]model.Order{makeOrder("o1", "u2", "u1", model.OrderPending, now)})

	entry, persist := agg.Hide("o1")
	assert.False(t, persist, "persisting before the stored set loads would clobber it")
	assert.Equal(t, "o1", entry.NotificationID)
	assert.Empty(t, agg.Visible(), "the dismissal still takes effect in memory")

	// The stored set arrives afterwards; the early dismissal is kept.
	agg.LoadHidden([]string{"o9-comp"})
	assert.Empty(t, agg.Visible())

	_, persist = agg.Hide("o1")
	assert.True(t, persist)
}

func TestAggregatorClearAllHidesExactlyVisible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.LoadHidden([]string{"o1"})
	agg.Apply([]model.Order{
		makeOrder("o1", "u2", "u1", model.OrderPending, now),
		makeOrder("o2", "u2", "u1", model.OrderPending, now.Add(-time.Minute)),
		makeOrder("o3", "u2", "u1", model.OrderCancelled, now.Add(-2*time.Minute)),
	})

	entries := agg.ClearAll()

	require.Len(t, entries, 2, "already dismissed records are not re-persisted")
	ids := []string{entries[0].NotificationID, entries[1].NotificationID}
	assert.ElementsMatch(t, []string{"o2", "o3-annull"}, ids)
	assert.Zero(t, agg.TotalVisible())
}

func TestAggregatorClearAllBeforeLoad(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.Apply([]model.Order{makeOrder("o1", "u2", "u1", model.OrderPending, now)})

	assert.Nil(t, agg.ClearAll())
	assert.Zero(t, agg.TotalVisible(), "in-memory dismissal still applies")
}

func TestAggregatorTopAndBadgeCount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	orders := make([]model.Order, 0, 8)
	for i := 0; i < 8; i++ {
		orders = append(orders, makeOrder(
			string(rune('a'+i)), "u2", "u1",
			model.OrderPending, now.Add(-time.Duration(i)*time.Minute),
		))
	}

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.LoadHidden(nil)
	agg.Apply(orders)

	top := agg.Top(0)
	assert.Len(t, top, DefaultMaxVisible)
	assert.Equal(t, "a", top[0].Key.OrderID, "panel shows newest first")
	assert.Equal(t, 8, agg.TotalVisible(), "badge counts beyond the panel")
}

func TestAggregatorClearAfterFailedFetch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.LoadHidden(nil)
	agg.Apply([]model.Order{makeOrder("o1", "u2", "u1", model.OrderPending, now)})
	require.Equal(t, 1, agg.TotalVisible())

	agg.Clear()

	assert.Zero(t, agg.TotalVisible())
	assert.Empty(t, agg.Top(0))
}

func TestAggregatorSetUserResetsState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	agg := NewAggregator()
	agg.SetUser("u1")
	agg.LoadHidden([]string{"o1"})
	agg.Apply([]model.Order{makeOrder("o1", "u2", "u1", model.OrderPending, now)})

	agg.SetUser("u2")

	assert.Equal(t, "u2", agg.UserID())
	assert.False(t, agg.Loaded(), "the new session must reload its own dismissals")
	assert.Empty(t, agg.Visible())
}

func TestDisplayIDSuffixes(t *testing.T) {
	cases := map[EventKind]string{
		SellerPurchase:  "o7",
		SellerCancelled: "o7-annull",
		SellerCompleted: "o7-completato",
		BuyerShipped:    "o7-comp",
	}
	for kind, want := range cases {
		assert.Equal(t, want, Key{OrderID: "o7", Kind: kind}.DisplayID())
	}
}
