package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// StocksChannel is the price-update hub. On top of the push messages it
// exposes the server-invocable history query.
type StocksChannel struct {
	*Channel
}

// NewStocksChannel creates the stocks hub channel.
func NewStocksChannel(opts Options) *StocksChannel {
	opts.Name = domain.StocksHubName
	return &StocksChannel{Channel: NewChannel(opts)}
}

// GetStockHistoryByID fetches one stock's price history over a date range via
// the hub. Absent on any failure.
func (s *StocksChannel) GetStockHistoryByID(ctx context.Context, stockID string, from, to time.Time) ([]domain.Stock, bool) {
	value, ok := s.Invoke(ctx, "GetStockHistoryById", stockID, from, to)
	if !ok {
		return nil, false
	}
	var history []domain.Stock
	if err := json.Unmarshal(value, &history); err != nil {
		slog.Error("stock history decode failed", "stock_id", stockID, "error", err)
		return nil, false
	}
	return history, true
}

// OnPriceChanged registers a typed handler for the price-change push.
// Payloads that do not decode are logged and dropped.
func (s *StocksChannel) OnPriceChanged(fn func(stocks []domain.Stock)) {
	s.RegisterHandler(domain.MsgStocksPriceChanged, func(payload json.RawMessage) {
		var stocks []domain.Stock
		if err := json.Unmarshal(payload, &stocks); err != nil {
			slog.Error("price change payload decode failed", "error", err)
			return
		}
		fn(stocks)
	})
}

// ApplicationChannel is the general application-events hub.
type ApplicationChannel struct {
	*Channel
}

// NewApplicationChannel creates the application hub channel.
func NewApplicationChannel(opts Options) *ApplicationChannel {
	opts.Name = domain.ApplicationHubName
	return &ApplicationChannel{Channel: NewChannel(opts)}
}
