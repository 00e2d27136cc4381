// Package hub implements the persistent push channel to the API's hubs. One
// Channel holds one logical connection; it authenticates with the current
// bearer token, dispatches named server pushes to registered handlers, and
// reconnects on its own after an unexpected drop.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Connection states.
const (
	StateDisconnected int32 = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

// TokenSource supplies the bearer token. It is read at every connect attempt,
// never cached, so a token refreshed between drops is honored.
type TokenSource interface {
	Token() string
}

// Dialer opens the websocket connection. Overridable in tests.
type Dialer func(ctx context.Context, url string, header http.Header) (net.Conn, error)

func defaultDial(ctx context.Context, url string, header http.Header) (net.Conn, error) {
	d := ws.Dialer{Header: ws.HandshakeHeaderHTTP(header)}
	conn, _, _, err := d.Dial(ctx, url)
	return conn, err
}

// Handler receives a server-pushed payload.
type Handler func(payload json.RawMessage)

// Options configures a Channel.
type Options struct {
	// BaseURL is the API base (http/https); the hub path and ws scheme are
	// derived from it.
	BaseURL string
	// Name is the hub name, e.g. "StocksHub".
	Name   string
	Tokens TokenSource
	// HandshakeTimeout bounds the connect handshake. Defaults to 30s.
	HandshakeTimeout time.Duration
	// ReconnectInterval is the fixed delay between reconnect attempts.
	// Defaults to 5s.
	ReconnectInterval time.Duration
	// Dial replaces the websocket dialer. Defaults to a gobwas dialer.
	Dial Dialer
}

// Channel is one logical persistent push connection.
type Channel struct {
	url               string
	name              string
	tokens            TokenSource
	handshakeTimeout  time.Duration
	reconnectInterval time.Duration
	dial              Dialer

	state atomic.Int32
	seq   atomic.Int64

	connMu  sync.Mutex
	conn    net.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[int64]chan serverFrame

	handlerMu sync.RWMutex
	handlers  map[string][]Handler

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewChannel creates a disconnected channel. Handlers may be registered
// before Initialize.
func NewChannel(opts Options) *Channel {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 30 * time.Second
	}
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = 5 * time.Second
	}
	dial := opts.Dial
	if dial == nil {
		dial = defaultDial
	}
	return &Channel{
		url:               hubURL(opts.BaseURL, opts.Name),
		name:              opts.Name,
		tokens:            opts.Tokens,
		handshakeTimeout:  opts.HandshakeTimeout,
		reconnectInterval: opts.ReconnectInterval,
		dial:              dial,
		pending:           make(map[int64]chan serverFrame),
		handlers:          make(map[string][]Handler),
		done:              make(chan struct{}),
	}
}

// hubURL derives the websocket endpoint from the API base URL.
func hubURL(baseURL, name string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/hubs/" + name
}

// Initialize connects the channel and starts its read loop. It returns
// whether the channel reached the connected state; failures are logged, not
// returned.
func (c *Channel) Initialize(ctx context.Context) bool {
	if c.IsConnected() {
		return true
	}
	c.state.Store(StateConnecting)

	if err := c.connect(ctx); err != nil {
		slog.Error("hub connect failed", "hub", c.name, "url", c.url, "error", err)
		c.state.Store(StateDisconnected)
		return false
	}

	c.state.Store(StateConnected)
	c.wg.Add(1)
	go c.readLoop()
	slog.Debug("hub connected", "hub", c.name, "url", c.url)
	return true
}

// connect dials the hub with the current bearer token and a bounded
// handshake.
func (c *Channel) connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancel()

	header := http.Header{}
	if token := c.tokens.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, err := c.dial(dialCtx, c.url, header)
	if err != nil {
		return fmt.Errorf("hub: dial %s: %w", c.url, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// IsConnected reports whether the channel is in the connected state.
func (c *Channel) IsConnected() bool {
	return c.state.Load() == StateConnected
}

// State returns the current connection state.
func (c *Channel) State() int32 {
	return c.state.Load()
}

// RegisterHandler associates a callback with a server-pushed message name.
// Multiple handlers per name are allowed. The registry belongs to this
// channel instance: registrations made before Initialize take effect once
// connected and survive internal reconnects, but do not outlive the instance.
func (c *Channel) RegisterHandler(message string, fn Handler) {
	c.handlerMu.Lock()
	c.handlers[message] = append(c.handlers[message], fn)
	c.handlerMu.Unlock()
}

// Invoke calls a server method and unwraps the response envelope. Absent on
// any failure; envelope failures log the structured error.
func (c *Channel) Invoke(ctx context.Context, method string, args ...any) (json.RawMessage, bool) {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil || !c.IsConnected() {
		slog.Warn("hub invoke while disconnected", "hub", c.name, "method", method)
		return nil, false
	}

	id := c.seq.Add(1)
	ch := make(chan serverFrame, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	data, err := json.Marshal(clientFrame{ID: id, Method: method, Args: args})
	if err != nil {
		c.deletePending(id)
		slog.Error("hub invoke marshal failed", "hub", c.name, "method", method, "error", err)
		return nil, false
	}

	c.writeMu.Lock()
	err = wsutil.WriteClientText(conn, data)
	c.writeMu.Unlock()
	if err != nil {
		c.deletePending(id)
		slog.Error("hub invoke write failed", "hub", c.name, "method", method, "error", err)
		return nil, false
	}

	select {
	case frame, ok := <-ch:
		if !ok {
			slog.Warn("hub invoke aborted by connection loss", "hub", c.name, "method", method)
			return nil, false
		}
		if !frame.Succeeded {
			if frame.Error != nil {
				slog.Error("hub invoke rejected", "hub", c.name, "method", method,
					"property", frame.Error.Property, "description", strings.Join(frame.Error.Description, ". "))
			} else {
				slog.Error("hub invoke rejected without error detail", "hub", c.name, "method", method)
			}
			return nil, false
		}
		return frame.Value, true
	case <-ctx.Done():
		c.deletePending(id)
		slog.Warn("hub invoke canceled", "hub", c.name, "method", method, "error", ctx.Err())
		return nil, false
	}
}

// Stop gracefully closes the channel. No-op when already disconnected; the
// reconnect loop, if running, is joined before Stop returns.
func (c *Channel) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.state.Store(StateDisconnected)
		c.closeConn()
		c.wg.Wait()
		slog.Debug("hub stopped", "hub", c.name)
	})
}

func (c *Channel) closeConn() {
	c.connMu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

func (c *Channel) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// readLoop consumes frames until the connection drops. Replies are routed to
// their waiters; pushes fan out to the handler registry. On an unexpected
// drop it hands off to the reconnect loop.
func (c *Channel) readLoop() {
	defer c.wg.Done()

	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()
		if conn == nil {
			return
		}

		data, err := wsutil.ReadServerText(conn)
		if err != nil {
			c.closeAllPending()
			if c.stopped() {
				return
			}
			slog.Warn("hub connection closed", "hub", c.name, "reason", err)
			c.state.Store(StateReconnecting)
			c.closeConn()
			c.wg.Add(1)
			go c.reconnectLoop()
			return
		}

		var frame serverFrame
		if json.Unmarshal(data, &frame) != nil {
			continue
		}
		if frame.ID > 0 {
			c.pendingMu.Lock()
			ch, ok := c.pending[frame.ID]
			if ok {
				delete(c.pending, frame.ID)
			}
			c.pendingMu.Unlock()
			if ok {
				ch <- frame
			}
		} else if frame.Message != "" {
			c.dispatch(frame.Message, frame.Payload)
		}
	}
}

// reconnectLoop retries on a fixed interval until the hub is reachable again
// or the channel is stopped. Attempts are serialized; the loop is the only
// writer of c.conn while it runs.
func (c *Channel) reconnectLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			return
		case <-time.After(c.reconnectInterval):
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.handshakeTimeout)
		err := c.connect(ctx)
		cancel()
		if err != nil {
			slog.Error("hub reconnect attempt failed", "hub", c.name, "error", err)
			continue
		}
		if c.stopped() {
			c.closeConn()
			return
		}

		c.state.Store(StateConnected)
		c.wg.Add(1)
		go c.readLoop()
		slog.Debug("hub reconnected", "hub", c.name, "url", c.url)
		return
	}
}

func (c *Channel) dispatch(message string, payload json.RawMessage) {
	c.handlerMu.RLock()
	handlers := make([]Handler, len(c.handlers[message]))
	copy(handlers, c.handlers[message])
	c.handlerMu.RUnlock()

	if len(handlers) == 0 {
		slog.Debug("hub push without handler", "hub", c.name, "message", message)
		return
	}
	for _, fn := range handlers {
		fn(payload)
	}
}

func (c *Channel) deletePending(id int64) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

func (c *Channel) closeAllPending() {
	c.pendingMu.Lock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
}
