// Package grid implements the listing controllers. A Controller owns one
// listing's filter, sort, and page state, populates pages through the API's
// filtered query, and reconciles server pushes into the displayed rows
// without a reload.
package grid

import (
	"context"
	"sync"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// Querier runs the filtered paged query for the controller's entity type.
// The controller owns only the base criteria; entity-specific filter fields
// are bound by the closure that adapts the API client.
type Querier[T any] func(ctx context.Context, filter domain.BaseFilter) (domain.PagedResult[T], bool)

// Options configures a Controller.
type Options[T any] struct {
	Query Querier[T]
	// Key returns the identifying key used to match pushed items against
	// displayed rows.
	Key func(T) string
	// Patch overwrites dst's fields from a pushed src. Leave nil for a full
	// overwrite. Patching happens in place so row indices stay stable.
	Patch func(dst *T, src T)
	// Recompute refreshes derived fields after a patch. Optional.
	Recompute func(*T)
	// OnChange is called after the displayed rows change. Optional.
	OnChange func()
}

// Controller owns one listing's query state and its displayed page.
type Controller[T any] struct {
	query     Querier[T]
	key       func(T) string
	patch     func(dst *T, src T)
	recompute func(*T)
	onChange  func()

	mu     sync.Mutex
	filter domain.BaseFilter
	rows   []T
	total  int
	// seq identifies the most recently issued load; responses carrying an
	// older seq are stale and never applied.
	seq int64
}

// NewController creates a controller positioned on the first page.
func NewController[T any](opts Options[T]) *Controller[T] {
	patch := opts.Patch
	if patch == nil {
		patch = func(dst *T, src T) { *dst = src }
	}
	return &Controller[T]{
		query:     opts.Query,
		key:       opts.Key,
		patch:     patch,
		recompute: opts.Recompute,
		onChange:  opts.OnChange,
		filter:    domain.DefaultFilter(),
	}
}

// LoadPage loads the given page. pageIndex is 0-based; the API's Page field
// is 1-based. An absent query result renders as an empty page — a broken
// listing shows "no data", it never errors. When loads overlap, only the
// most recently issued one is applied to the displayed rows.
func (c *Controller[T]) LoadPage(ctx context.Context, pageIndex, pageSize int, sortBy string, sortAscending bool) domain.PagedResult[T] {
	c.mu.Lock()
	c.filter.Page = pageIndex + 1
	c.filter.PageSize = pageSize
	c.filter.SortBy = sortBy
	c.filter.SortAscending = sortAscending
	filter := c.filter
	c.seq++
	id := c.seq
	c.mu.Unlock()

	return c.run(ctx, id, filter)
}

// Search sets the search term and reloads from the first page.
func (c *Controller[T]) Search(ctx context.Context, text string) domain.PagedResult[T] {
	c.mu.Lock()
	c.filter.Search = text
	c.filter.Page = 1
	filter := c.filter
	c.seq++
	id := c.seq
	c.mu.Unlock()

	return c.run(ctx, id, filter)
}

// Reload re-runs the current query, e.g. after a modal commits.
func (c *Controller[T]) Reload(ctx context.Context) domain.PagedResult[T] {
	c.mu.Lock()
	filter := c.filter
	c.seq++
	id := c.seq
	c.mu.Unlock()

	return c.run(ctx, id, filter)
}

func (c *Controller[T]) run(ctx context.Context, id int64, filter domain.BaseFilter) domain.PagedResult[T] {
	page, ok := c.query(ctx, filter)
	if !ok {
		page = domain.PagedResult[T]{Items: []T{}, TotalCount: 0}
	}
	if page.Items == nil {
		page.Items = []T{}
	}

	applied := false
	c.mu.Lock()
	if id == c.seq {
		c.rows = append([]T(nil), page.Items...)
		c.total = page.TotalCount
		applied = true
	}
	c.mu.Unlock()

	if applied {
		c.notify()
	}
	return page
}

// ApplyPush merges pushed items into the displayed page. An item patches the
// row with the matching key in place; items without a displayed row are
// ignored until the next explicit load. The merge is idempotent per key.
func (c *Controller[T]) ApplyPush(items []T) {
	if len(items) == 0 {
		return
	}

	changed := false
	c.mu.Lock()
	for _, item := range items {
		k := c.key(item)
		for i := range c.rows {
			if c.key(c.rows[i]) != k {
				continue
			}
			c.patch(&c.rows[i], item)
			if c.recompute != nil {
				c.recompute(&c.rows[i])
			}
			changed = true
			break
		}
	}
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// Rows returns a snapshot of the displayed page.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.rows...)
}

// TotalCount returns the server-reported total for the current query.
func (c *Controller[T]) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Filter returns a snapshot of the current criteria.
func (c *Controller[T]) Filter() domain.BaseFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller[T]) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
