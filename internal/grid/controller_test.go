package grid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// blockingQuerier lets a test hold individual responses and release them out
// of order.
type blockingQuerier struct {
	mu      sync.Mutex
	waiting []chan struct{}
	filters []domain.BaseFilter
	result  func(filter domain.BaseFilter) (domain.PagedResult[domain.Stock], bool)
}

func (q *blockingQuerier) query(ctx context.Context, filter domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
	release := make(chan struct{})
	q.mu.Lock()
	q.waiting = append(q.waiting, release)
	q.filters = append(q.filters, filter)
	q.mu.Unlock()
	<-release
	return q.result(filter)
}

// waitForCalls blocks until n queries have been issued.
func (q *blockingQuerier) waitForCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		q.mu.Lock()
		issued := len(q.waiting)
		q.mu.Unlock()
		if issued >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d issued queries", n)
}

// release unblocks the nth issued query (0-based).
func (q *blockingQuerier) release(t *testing.T, n int) {
	t.Helper()
	q.waitForCalls(t, n+1)
	q.mu.Lock()
	close(q.waiting[n])
	q.mu.Unlock()
}

func pageOfStocks(total int, ids ...string) domain.PagedResult[domain.Stock] {
	items := make([]domain.Stock, len(ids))
	for i, id := range ids {
		items[i] = domain.Stock{ID: id, Title: "stock " + id}
	}
	return domain.PagedResult[domain.Stock]{Items: items, TotalCount: total}
}

func stockController(q Querier[domain.Stock]) *Controller[domain.Stock] {
	return NewController(Options[domain.Stock]{
		Query: q,
		Key:   func(s domain.Stock) string { return s.ID },
	})
}

func TestStaleResponseSuppression(t *testing.T) {
	q := &blockingQuerier{
		result: func(filter domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
			if filter.Page == 1 {
				return pageOfStocks(100, "p1-a", "p1-b"), true
			}
			return pageOfStocks(100, "p2-a", "p2-b"), true
		},
	}
	ctrl := stockController(q.query)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ctrl.LoadPage(context.Background(), 0, 20, "", true)
	}()
	q.waitForCalls(t, 1)
	go func() {
		defer wg.Done()
		ctrl.LoadPage(context.Background(), 1, 20, "", true)
	}()
	q.waitForCalls(t, 2)

	// Resolve the second-issued load first, then the stale first one.
	q.release(t, 1)
	q.release(t, 0)
	wg.Wait()

	rows := ctrl.Rows()
	if len(rows) != 2 || rows[0].ID != "p2-a" {
		t.Fatalf("rows = %+v; want page 2's contents", rows)
	}
}

func TestPageIndexConvertsToOneBased(t *testing.T) {
	q := &blockingQuerier{
		result: func(filter domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
			return pageOfStocks(0), true
		},
	}
	ctrl := stockController(q.query)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.LoadPage(context.Background(), 1, 20, "title", false)
	}()
	q.release(t, 0)
	<-done

	got := q.filters[0]
	if got.Page != 2 {
		t.Fatalf("filter.Page = %d for UI page index 1; want 2", got.Page)
	}
	if got.PageSize != 20 || got.SortBy != "title" || got.SortAscending {
		t.Fatalf("filter = %+v; want pageSize 20, sortBy title, descending", got)
	}
}

func TestAbsentResultRendersEmptyPage(t *testing.T) {
	ctrl := stockController(func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
		return domain.PagedResult[domain.Stock]{}, false
	})

	page := ctrl.LoadPage(context.Background(), 0, 20, "", true)
	if page.Items == nil || len(page.Items) != 0 || page.TotalCount != 0 {
		t.Fatalf("page = %+v; want empty items and zero total", page)
	}
	if got := ctrl.TotalCount(); got != 0 {
		t.Fatalf("TotalCount() = %d; want 0", got)
	}
}

func TestSearchReloadsFromFirstPage(t *testing.T) {
	var got []domain.BaseFilter
	ctrl := stockController(func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
		got = append(got, f)
		return pageOfStocks(1, "s1"), true
	})

	ctrl.LoadPage(context.Background(), 3, 10, "", true)
	ctrl.Search(context.Background(), "acme")

	last := got[len(got)-1]
	if last.Search != "acme" {
		t.Fatalf("filter.Search = %q; want \"acme\"", last.Search)
	}
	if last.Page != 1 {
		t.Fatalf("filter.Page = %d after search; want 1", last.Page)
	}
	if last.PageSize != 10 {
		t.Fatalf("filter.PageSize = %d after search; want preserved 10", last.PageSize)
	}
}

func TestPushPatchesMatchingRowInPlace(t *testing.T) {
	ctrl := stockController(func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
		return pageOfStocks(2, "s1", "s2"), true
	})
	ctrl.LoadPage(context.Background(), 0, 20, "", true)

	ctrl.ApplyPush([]domain.Stock{
		{ID: "s2", Title: "patched", Price: 7},
		{ID: "missing", Title: "ignored"},
	})

	rows := ctrl.Rows()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d; want 2 (push never adds rows)", len(rows))
	}
	if rows[1].ID != "s2" || rows[1].Title != "patched" || rows[1].Price != 7 {
		t.Fatalf("rows[1] = %+v; want s2 patched in place", rows[1])
	}
	if rows[0].Title != "stock s1" {
		t.Fatalf("rows[0] = %+v; want untouched", rows[0])
	}
}

func TestPushIsIdempotent(t *testing.T) {
	prev := 90.0
	query := func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.StockPerformance], bool) {
		return domain.PagedResult[domain.StockPerformance]{
			Items: []domain.StockPerformance{
				{Stock: domain.Stock{ID: "s1", Price: 95}, PreviousPrice: &prev},
			},
			TotalCount: 1,
		}, true
	}
	ctrl := NewStockPerformanceController(query, nil)
	ctrl.LoadPage(context.Background(), 0, 20, "", true)

	push := PerformanceFromStocks([]domain.Stock{{ID: "s1", Title: "t", Symbol: "SYM", Price: 100}})
	ctrl.ApplyPush(push)
	once := ctrl.Rows()
	ctrl.ApplyPush(push)
	twice := ctrl.Rows()

	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("row counts = %d, %d; want 1, 1", len(once), len(twice))
	}
	if once[0].Price != twice[0].Price ||
		*once[0].PriceChange != *twice[0].PriceChange ||
		*once[0].HasIncreased != *twice[0].HasIncreased {
		t.Fatalf("second apply changed state: %+v vs %+v", once[0], twice[0])
	}
}

func TestPushRecomputesDerivedFields(t *testing.T) {
	prev := 90.0
	query := func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.StockPerformance], bool) {
		perf := domain.StockPerformance{Stock: domain.Stock{ID: "s1", Price: 100}, PreviousPrice: &prev}
		perf.Recompute()
		return domain.PagedResult[domain.StockPerformance]{Items: []domain.StockPerformance{perf}, TotalCount: 1}, true
	}
	ctrl := NewStockPerformanceController(query, nil)
	ctrl.LoadPage(context.Background(), 0, 20, "", true)

	rows := ctrl.Rows()
	if *rows[0].PriceChange != 10 || !*rows[0].HasIncreased {
		t.Fatalf("initial derived fields = %v, %v; want 10, true", *rows[0].PriceChange, *rows[0].HasIncreased)
	}

	ctrl.ApplyPush(PerformanceFromStocks([]domain.Stock{{ID: "s1", Price: 80}}))

	rows = ctrl.Rows()
	if rows[0].Price != 80 {
		t.Fatalf("Price = %v; want 80", rows[0].Price)
	}
	if rows[0].PriceChange == nil || *rows[0].PriceChange != -10 {
		t.Fatalf("PriceChange = %v; want -10", rows[0].PriceChange)
	}
	if rows[0].HasIncreased == nil || *rows[0].HasIncreased {
		t.Fatalf("HasIncreased = %v; want false", rows[0].HasIncreased)
	}
}

func TestOnChangeFiresOnLoadAndEffectivePushOnly(t *testing.T) {
	var changes int
	ctrl := NewController(Options[domain.Stock]{
		Query: func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.Stock], bool) {
			return pageOfStocks(1, "s1"), true
		},
		Key:      func(s domain.Stock) string { return s.ID },
		OnChange: func() { changes++ },
	})

	ctrl.LoadPage(context.Background(), 0, 20, "", true)
	if changes != 1 {
		t.Fatalf("changes after load = %d; want 1", changes)
	}

	ctrl.ApplyPush([]domain.Stock{{ID: "unknown"}})
	if changes != 1 {
		t.Fatalf("changes after no-match push = %d; want still 1", changes)
	}

	ctrl.ApplyPush([]domain.Stock{{ID: "s1", Price: 3}})
	if changes != 2 {
		t.Fatalf("changes after matching push = %d; want 2", changes)
	}
}
