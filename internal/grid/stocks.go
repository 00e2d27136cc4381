package grid

import "github.com/quotedesk/quotedesk/internal/domain"

// NewStockPerformanceController builds a controller for performance rows
// wired to the price-change push. A pushed price patches the instrument
// fields of the matching row and leaves PreviousPrice untouched — the
// previous price is server-owned and the push does not carry it — so
// applying the same push twice is a no-op.
func NewStockPerformanceController(query Querier[domain.StockPerformance], onChange func()) *Controller[domain.StockPerformance] {
	return NewController(Options[domain.StockPerformance]{
		Query: query,
		Key:   func(p domain.StockPerformance) string { return p.ID },
		Patch: func(dst *domain.StockPerformance, src domain.StockPerformance) {
			dst.Stock = src.Stock
		},
		Recompute: func(p *domain.StockPerformance) { p.Recompute() },
		OnChange:  onChange,
	})
}

// PerformanceFromStocks adapts a price-change push payload to the
// controller's row type.
func PerformanceFromStocks(stocks []domain.Stock) []domain.StockPerformance {
	perfs := make([]domain.StockPerformance, len(stocks))
	for i, s := range stocks {
		perfs[i] = domain.StockPerformance{Stock: s}
	}
	return perfs
}
