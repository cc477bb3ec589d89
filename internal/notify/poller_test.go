package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// fetchFunc adapts a function to the OrdersFetcher interface.
type fetchFunc func(ctx context.Context) ([]model.Order, error)

func (f fetchFunc) ManagedOrders(ctx context.Context) ([]model.Order, error) {
	return f(ctx)
}

func awaitResult(t *testing.T, p *Poller) OrdersResultMsg {
	t.Helper()

	done := make(chan OrdersResultMsg, 1)
	go func() {
		msg := p.WaitForNextResult()()
		if result, ok := msg.(OrdersResultMsg); ok {
			done <- result
		}
	}()

	select {
	case result := <-done:
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poll result")
		return OrdersResultMsg{}
	}
}

func TestPollerDeliversInitialResult(t *testing.T) {
	orders := []model.Order{{ID: "o1"}}
	p := NewPoller(fetchFunc(func(ctx context.Context) ([]model.Order, error) {
		return orders, nil
	}), time.Hour)
	defer p.Stop()

	cmd := p.Start()
	require.NotNil(t, cmd)

	msg, ok := cmd().(OrdersResultMsg)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, orders, msg.Orders)
	assert.Equal(t, uint64(1), msg.Seq)
}

func TestPollerStartTwiceIsNoop(t *testing.T) {
	p := NewPoller(fetchFunc(func(ctx context.Context) ([]model.Order, error) {
		return nil, nil
	}), time.Hour)
	defer p.Stop()

	require.NotNil(t, p.Start())
	assert.Nil(t, p.Start())
}

func TestPollerRefreshTriggersFetch(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(fetchFunc(func(ctx context.Context) ([]model.Order, error) {
		calls.Add(1)
		return []model.Order{{ID: "o1"}}, nil
	}), time.Hour)
	defer p.Stop()

	cmd := p.Start()
	require.NotNil(t, cmd)
	first, ok := cmd().(OrdersResultMsg)
	require.True(t, ok)

	p.Refresh()
	second := awaitResult(t, p)

	assert.Greater(t, second.Seq, first.Seq)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestPollerReportsFetchError(t *testing.T) {
	wantErr := errors.New("backend unreachable")
	p := NewPoller(fetchFunc(func(ctx context.Context) ([]model.Order, error) {
		return nil, wantErr
	}), time.Hour)
	defer p.Stop()

	cmd := p.Start()
	require.NotNil(t, cmd)

	msg, ok := cmd().(OrdersResultMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, wantErr)
}

func TestPollerDiscardsStaleResult(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	p := NewPoller(fetchFunc(func(ctx context.Context) ([]model.Order, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-release
			return []model.Order{{ID: "stale"}}, nil
		}
		return []model.Order{{ID: "fresh"}}, nil
	}), time.Hour)

	// First fetch takes seq 1 and then hangs on the backend.
	go p.fetch()
	select {
	case <-firstStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never started")
	}

	// Second fetch takes seq 2 and completes while the first is in flight.
	p.fetch()
	close(release)

	fresh := awaitResult(t, p)
	assert.Equal(t, uint64(2), fresh.Seq)
	require.Len(t, fresh.Orders, 1)
	assert.Equal(t, "fresh", fresh.Orders[0].ID)

	// The late first result must not arrive.
	select {
	case extra := <-p.resultCh:
		t.Fatalf("stale result was delivered: seq %d", extra.Seq)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(fetchFunc(func(ctx context.Context) ([]model.Order, error) {
		return nil, nil
	}), 0)
	assert.Equal(t, 30*time.Second, p.interval)
}
