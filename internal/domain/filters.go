package domain

import "time"

// BaseFilter carries the paging, sorting, and search criteria shared by every
// listing endpoint. Page is 1-based on the wire.
type BaseFilter struct {
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
	SortBy        string `json:"sortBy,omitempty"`
	SortAscending bool   `json:"sortAscending"`
	Search        string `json:"search,omitempty"`
}

// DefaultFilter returns a BaseFilter positioned on the first page.
func DefaultFilter() BaseFilter {
	return BaseFilter{Page: 1, PageSize: 20, SortAscending: true}
}

// CompaniesFilter narrows a company listing.
type CompaniesFilter struct {
	BaseFilter
	// CreatedFrom/CreatedTo bound the creation date range when set.
	CreatedFrom *time.Time `json:"createdFrom,omitempty"`
	CreatedTo   *time.Time `json:"createdTo,omitempty"`
	// Title is a partial name match; it overrides Search when both are set.
	Title string `json:"title,omitempty"`
}

// StocksFilter narrows a stock listing.
type StocksFilter struct {
	BaseFilter
	CompanyIDs []string `json:"companyIds,omitempty"`
	// Symbols are matched case-insensitively.
	Symbols   []string `json:"symbols,omitempty"`
	PriceFrom *float64 `json:"priceFrom,omitempty"`
	PriceTo   *float64 `json:"priceTo,omitempty"`
	Title     string   `json:"title,omitempty"`
}

// UsersFilter narrows a user listing.
type UsersFilter struct {
	BaseFilter
	Roles      []string `json:"roles,omitempty"`
	CompanyIDs []string `json:"companyIds,omitempty"`
}
