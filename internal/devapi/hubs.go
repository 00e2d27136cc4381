package devapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/quotedesk/quotedesk/internal/domain"
)

const subscriberBufSize = 64

// hubEvent is one frame fanned out to the subscribers of a named hub.
type hubEvent struct {
	hub  string
	data []byte
}

// Broker fans hub pushes out to every connected client. Channels are
// buffered; slow consumers have frames dropped rather than stalling the
// publisher.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan hubEvent
	nextID      atomic.Int64
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subscribers: make(map[int64]chan hubEvent)}
}

// Subscribe registers a client and returns its id and event channel.
func (b *Broker) Subscribe() (int64, <-chan hubEvent) {
	id := b.nextID.Add(1)
	ch := make(chan hubEvent, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends a named message to every subscriber of the given hub.
func (b *Broker) Publish(hub, message string, payload any) {
	data, err := json.Marshal(pushFrame{Message: message, Payload: payload})
	if err != nil {
		slog.Error("hub publish marshal failed", "hub", hub, "message", message, "error", err)
		return
	}
	evt := hubEvent{hub: hub, data: data}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// ClientCount returns the number of active subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Wire frames. These mirror what the console's channel speaks.
type invokeFrame struct {
	ID     int64             `json:"id"`
	Method string            `json:"method"`
	Args   []json.RawMessage `json:"args"`
}

type replyFrame struct {
	ID        int64                 `json:"id"`
	Succeeded bool                  `json:"succeeded"`
	Value     any                   `json:"value,omitempty"`
	Error     *domain.ResponseError `json:"error,omitempty"`
}

type pushFrame struct {
	Message string `json:"message"`
	Payload any    `json:"payload"`
}

// HubServer serves the websocket hub endpoints.
type HubServer struct {
	store  *Store
	broker *Broker
}

// NewHubServer creates the hub server over the shared store and broker.
func NewHubServer(store *Store, broker *Broker) *HubServer {
	return &HubServer{store: store, broker: broker}
}

// Handle upgrades /hubs/{hub} requests. Unknown hubs 404; a missing or
// invalid token is rejected before the upgrade.
func (h *HubServer) Handle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "hub")
	if name != domain.ApplicationHubName && name != domain.StocksHubName {
		http.NotFound(w, r)
		return
	}
	if _, ok := h.store.UserForToken(bearerToken(r)); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		slog.Error("hub upgrade failed", "hub", name, "remote", r.RemoteAddr, "error", err)
		return
	}
	slog.Debug("hub client connected", "hub", name, "remote", r.RemoteAddr)
	go h.serve(name, conn)
}

// serve pumps broker events to the client and answers its invokes until the
// connection drops. Both paths share one write lock.
func (h *HubServer) serve(name string, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	var writeMu sync.Mutex
	write := func(data []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return wsutil.WriteServerText(conn, data)
	}

	subID, events := h.broker.Subscribe()
	defer h.broker.Unsubscribe(subID)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				if evt.hub != name {
					continue
				}
				if err := write(evt.data); err != nil {
					return
				}
			}
		}
	}()

	for {
		data, err := wsutil.ReadClientText(conn)
		if err != nil {
			slog.Debug("hub client disconnected", "hub", name, "reason", err)
			return
		}
		var frame invokeFrame
		if json.Unmarshal(data, &frame) != nil {
			continue
		}
		out, err := json.Marshal(h.handleInvoke(frame))
		if err != nil {
			slog.Error("hub reply marshal failed", "hub", name, "method", frame.Method, "error", err)
			continue
		}
		if write(out) != nil {
			return
		}
	}
}

func (h *HubServer) handleInvoke(frame invokeFrame) replyFrame {
	switch frame.Method {
	case "GetStockHistoryById":
		return h.stockHistory(frame)
	default:
		return replyFrame{ID: frame.ID, Error: &domain.ResponseError{
			Property:    "method",
			Description: []string{"unknown method: " + frame.Method},
		}}
	}
}

func (h *HubServer) stockHistory(frame invokeFrame) replyFrame {
	fail := func(property, msg string) replyFrame {
		return replyFrame{ID: frame.ID, Error: &domain.ResponseError{
			Property:    property,
			Description: []string{msg},
		}}
	}

	if len(frame.Args) != 3 {
		return fail("args", "expected stockId, from, to")
	}
	var stockID string
	if json.Unmarshal(frame.Args[0], &stockID) != nil || stockID == "" {
		return fail("stockId", "stock id is required")
	}
	var from, to time.Time
	if json.Unmarshal(frame.Args[1], &from) != nil || json.Unmarshal(frame.Args[2], &to) != nil {
		return fail("range", "from and to must be timestamps")
	}

	history, err := h.store.History(stockID, from, to)
	if err != nil {
		var coded *CodedError
		if errors.As(err, &coded) {
			return fail("stockId", coded.Message)
		}
		return fail("stockId", err.Error())
	}
	if history == nil {
		history = []domain.Stock{}
	}
	return replyFrame{ID: frame.ID, Succeeded: true, Value: history}
}
