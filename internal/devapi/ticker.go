package devapi

import (
	"log/slog"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// Ticker mutates every stock price on a fixed interval and broadcasts the
// updated instruments on the stocks hub. It is the dev stand-in for the
// market feed behind the production backend.
type Ticker struct {
	store    *Store
	broker   *Broker
	interval time.Duration
	rng      *mrand.Rand

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTicker creates a stopped ticker. Intervals at or below zero default to
// two seconds.
func NewTicker(store *Store, broker *Broker, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Ticker{
		store:    store,
		broker:   broker,
		interval: interval,
		rng:      mrand.New(mrand.NewSource(time.Now().UnixNano())),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop.
func (t *Ticker) Start() {
	t.wg.Add(1)
	go t.loop()
	slog.Info("price ticker started", "interval", t.interval)
}

func (t *Ticker) loop() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick applies one price step and broadcasts the result. Exposed so tests and
// tooling can drive updates without waiting for the interval.
func (t *Ticker) Tick() {
	updated := t.store.TickPrices(t.rng)
	if len(updated) == 0 {
		return
	}
	t.broker.Publish(domain.StocksHubName, domain.MsgStocksPriceChanged, updated)
}

// Stop halts the loop. Idempotent.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.wg.Wait()
		slog.Info("price ticker stopped")
	})
}
