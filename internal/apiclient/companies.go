package apiclient

import (
	"context"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// Companies talks to the /api/Companies resource.
type Companies struct {
	base *baseClient
}

// NewCompanies creates the companies client.
func NewCompanies(baseURL string, timeout time.Duration, tokens TokenSource) *Companies {
	return &Companies{base: newBaseClient(baseURL, "Companies", timeout, tokens)}
}

// GetByID fetches a single company.
func (c *Companies) GetByID(ctx context.Context, id string) (domain.Company, bool) {
	return getAs[domain.Company](ctx, c.base, id)
}

// GetAll fetches every company.
func (c *Companies) GetAll(ctx context.Context) ([]domain.Company, bool) {
	return getAs[[]domain.Company](ctx, c.base, "")
}

// ByFilter runs a filtered, paged company query.
func (c *Companies) ByFilter(ctx context.Context, filter domain.CompaniesFilter) (domain.PagedResult[domain.Company], bool) {
	return postAs[domain.PagedResult[domain.Company]](ctx, c.base, "ByFilter", filter)
}

// UsersInCompany lists the users assigned to a company.
func (c *Companies) UsersInCompany(ctx context.Context, companyID string) ([]domain.UserProfile, bool) {
	return getAs[[]domain.UserProfile](ctx, c.base, companyID+"/users")
}

// Create adds a company.
func (c *Companies) Create(ctx context.Context, company domain.Company) (domain.Company, bool) {
	return postAs[domain.Company](ctx, c.base, "", company)
}

// Update replaces a company's fields.
func (c *Companies) Update(ctx context.Context, company domain.Company) (domain.Company, bool) {
	return putAs[domain.Company](ctx, c.base, "", company)
}

// DeleteByID removes a company. Success is derived from the status class.
func (c *Companies) DeleteByID(ctx context.Context, id string) bool {
	return c.base.deleteOp(ctx, id)
}

// AssignUser adds a user to a company.
func (c *Companies) AssignUser(ctx context.Context, companyID, userID string) bool {
	return c.base.postOp(ctx, companyID+"/users/"+userID)
}

// UnassignUser removes a user from a company.
func (c *Companies) UnassignUser(ctx context.Context, companyID, userID string) bool {
	return c.base.deleteOp(ctx, companyID+"/users/"+userID)
}
