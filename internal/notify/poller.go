package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// OrdersFetcher fetches the orders the current user is a party to.
type OrdersFetcher interface {
	ManagedOrders(ctx context.Context) ([]model.Order, error)
}

// OrdersResultMsg is a tea.Msg sent when a poll completes. Seq identifies
// the fetch that produced it; stale results are dropped before they reach
// the runtime.
type OrdersResultMsg struct {
	Orders []model.Order
	Err    error
	Seq    uint64
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// Poller periodically fetches the user's orders in the background and feeds
// results to the Bubble Tea runtime over a channel.
type Poller struct {
	fetcher  OrdersFetcher
	interval time.Duration

	seq       atomic.Uint64
	resultCh  chan OrdersResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	running bool
}

// NewPoller creates a poller for the given fetcher. A non-positive interval
// falls back to 30 seconds.
func NewPoller(fetcher OrdersFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		fetcher:   fetcher,
		interval:  interval,
		resultCh:  make(chan OrdersResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription command
// that waits for the first result. Starting an already running poller is a
// no-op.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine. A stopped poller cannot be restarted;
// build a fresh one for the next session.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate poll.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a poll is already queued
	}
	return nil
}

// loop drives the poll schedule. Fetches run in their own goroutines so a
// slow response never delays the next tick; the sequence check in fetch
// keeps overlapping responses from racing.
func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	go p.fetch()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			go p.fetch()
		case <-p.triggerCh:
			go p.fetch()
		}
	}
}

// fetch performs one poll. Each fetch takes the next sequence number up
// front; if a newer fetch has been issued by the time this one completes,
// its result is stale and discarded.
func (p *Poller) fetch() {
	seq := p.seq.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	orders, err := p.fetcher.ManagedOrders(ctx)

	if seq != p.seq.Load() {
		return
	}

	p.sendResult(OrdersResultMsg{Orders: orders, Err: err, Seq: seq})
}

// sendResult sends a result on the channel without blocking.
func (p *Poller) sendResult(msg OrdersResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next poll result.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult re-arms the subscription after an OrdersResultMsg has
// been handled.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
