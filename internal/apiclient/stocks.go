package apiclient

import (
	"context"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// Stocks talks to the /api/Stocks and /api/StocksPerformance resources.
type Stocks struct {
	base *baseClient
	perf *baseClient
}

// NewStocks creates the stocks client.
func NewStocks(baseURL string, timeout time.Duration, tokens TokenSource) *Stocks {
	return &Stocks{
		base: newBaseClient(baseURL, "Stocks", timeout, tokens),
		perf: newBaseClient(baseURL, "StocksPerformance", timeout, tokens),
	}
}

// GetByID fetches a single stock.
func (s *Stocks) GetByID(ctx context.Context, id string) (domain.Stock, bool) {
	return getAs[domain.Stock](ctx, s.base, id)
}

// GetAll fetches every stock.
func (s *Stocks) GetAll(ctx context.Context) ([]domain.Stock, bool) {
	return getAs[[]domain.Stock](ctx, s.base, "")
}

// ByFilter runs a filtered, paged stock query.
func (s *Stocks) ByFilter(ctx context.Context, filter domain.StocksFilter) (domain.PagedResult[domain.Stock], bool) {
	return postAs[domain.PagedResult[domain.Stock]](ctx, s.base, "ByFilter", filter)
}

// Create adds a stock.
func (s *Stocks) Create(ctx context.Context, stock domain.Stock) (domain.Stock, bool) {
	return postAs[domain.Stock](ctx, s.base, "", stock)
}

// Update replaces a stock's fields.
func (s *Stocks) Update(ctx context.Context, stock domain.Stock) (domain.Stock, bool) {
	return putAs[domain.Stock](ctx, s.base, "", stock)
}

// DeleteByID removes a stock. Success is derived from the status class.
func (s *Stocks) DeleteByID(ctx context.Context, id string) bool {
	return s.base.deleteOp(ctx, id)
}

// PerformanceByID fetches one stock with its previous price attached.
// Derived fields are recomputed before the value is returned.
func (s *Stocks) PerformanceByID(ctx context.Context, id string) (domain.StockPerformance, bool) {
	perf, ok := getAs[domain.StockPerformance](ctx, s.perf, id)
	if ok {
		perf.Recompute()
	}
	return perf, ok
}

// PerformanceByCompanyID fetches performance rows for one company's stocks.
func (s *Stocks) PerformanceByCompanyID(ctx context.Context, companyID string) ([]domain.StockPerformance, bool) {
	perfs, ok := getAs[[]domain.StockPerformance](ctx, s.perf, "Company/"+companyID)
	if ok {
		for i := range perfs {
			perfs[i].Recompute()
		}
	}
	return perfs, ok
}

// AllPerformance fetches performance rows for every stock.
func (s *Stocks) AllPerformance(ctx context.Context) ([]domain.StockPerformance, bool) {
	perfs, ok := getAs[[]domain.StockPerformance](ctx, s.perf, "")
	if ok {
		for i := range perfs {
			perfs[i].Recompute()
		}
	}
	return perfs, ok
}
