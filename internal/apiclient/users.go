package apiclient

import (
	"context"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// Users talks to the /api/Users resource.
type Users struct {
	base *baseClient
}

// NewUsers creates the users client.
func NewUsers(baseURL string, timeout time.Duration, tokens TokenSource) *Users {
	return &Users{base: newBaseClient(baseURL, "Users", timeout, tokens)}
}

// GetByID fetches a single user profile.
func (u *Users) GetByID(ctx context.Context, id string) (domain.UserProfile, bool) {
	return getAs[domain.UserProfile](ctx, u.base, id)
}

// ByFilter runs a filtered, paged user query.
func (u *Users) ByFilter(ctx context.Context, filter domain.UsersFilter) (domain.PagedResult[domain.UserProfile], bool) {
	return postAs[domain.PagedResult[domain.UserProfile]](ctx, u.base, "ByFilter", filter)
}

// Create adds a user.
func (u *Users) Create(ctx context.Context, user domain.UserProfile) (domain.UserProfile, bool) {
	return postAs[domain.UserProfile](ctx, u.base, "", user)
}

// Update replaces a user's fields.
func (u *Users) Update(ctx context.Context, user domain.UserProfile) (domain.UserProfile, bool) {
	return putAs[domain.UserProfile](ctx, u.base, "", user)
}

// DeleteByID removes a user. Success is derived from the status class.
func (u *Users) DeleteByID(ctx context.Context, id string) bool {
	return u.base.deleteOp(ctx, id)
}
