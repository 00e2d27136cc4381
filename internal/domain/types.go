package domain

import "time"

// Role names as reported by the API.
const (
	RoleAdmin          = "Admin"
	RoleCompanyAdmin   = "CompanyAdmin"
	RoleCompanyManager = "CompanyManager"
	RoleUser           = "User"
)

// AllRoles lists every role the API can assign.
var AllRoles = []string{RoleAdmin, RoleCompanyAdmin, RoleCompanyManager, RoleUser}

// Local storage keys. The names match the keys the API's web clients use so
// state written by either is readable by both.
const (
	KeyAuthToken        = "AuthToken"
	KeyAuthTokenExpires = "AuthTokenExpires"
	KeyUserID           = "UserId"
	KeyUserRoleName     = "UserRoleName"
	KeyUsername         = "Username"
	KeyUserEmail        = "UserEmail"
	KeyCulture          = "Culture"
	KeyDarkThemeState   = "DarkThemeState"
)

// Hub names exposed by the API.
const (
	ApplicationHubName = "ApplicationHub"
	StocksHubName      = "StocksHub"
)

// Server-pushed message names.
const (
	MsgStocksPriceChanged = "OnStocksPriceChanged"
	MsgCompaniesChanged   = "OnCompaniesChanged"
	MsgUsersChanged       = "OnUsersChanged"
)

// Company mirrors the API's company DTO. UpdatedAt is never earlier than
// CreatedAt.
type Company struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	UserProfiles []UserProfile `json:"userProfiles,omitempty"`
}

// Stock mirrors the API's stock DTO. CompanyID is empty for unassigned
// instruments.
type Stock struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CompanyID string    `json:"companyId,omitempty"`
}

// StockPerformance is a Stock plus the previous observed price and the two
// derived fields computed from it. The derived fields are plain values, not
// live accessors, so Recompute must run after every mutation of Price or
// PreviousPrice.
type StockPerformance struct {
	Stock
	PreviousPrice *float64 `json:"previousPrice,omitempty"`
	PriceChange   *float64 `json:"priceChange,omitempty"`
	HasIncreased  *bool    `json:"hasIncreased,omitempty"`
}

// Recompute refreshes PriceChange and HasIncreased from Price and
// PreviousPrice. Both derived fields are absent when PreviousPrice is absent.
func (s *StockPerformance) Recompute() {
	if s.PreviousPrice == nil {
		s.PriceChange = nil
		s.HasIncreased = nil
		return
	}
	change := s.Price - *s.PreviousPrice
	increased := s.Price > *s.PreviousPrice
	s.PriceChange = &change
	s.HasIncreased = &increased
}

// UserProfile mirrors the API's user DTO.
type UserProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Token carries a bearer token and its expiry.
type Token struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// LoginCredentials is the login request body.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// LoginResult is the API's login response. Errors is keyed by field name for
// validation failures; a "" key carries a general message.
type LoginResult struct {
	Success     bool              `json:"success"`
	Token       *Token            `json:"token,omitempty"`
	UserProfile *UserProfile      `json:"userProfile,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// RegisterResult is the API's registration response.
type RegisterResult struct {
	Success     bool              `json:"success"`
	UserProfile *UserProfile      `json:"userProfile,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// TokenValidation is the API's token validation response.
type TokenValidation struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// ResponseError is the structured error inside a hub response envelope.
type ResponseError struct {
	Property    string   `json:"property"`
	Description []string `json:"description"`
}

// PagedResult is the contract every filtered-listing endpoint returns.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}
