// Package devapi is the development backend: an in-memory implementation of
// the remote API the console talks to, plus its hub endpoints and a price
// ticker. It exists so the console can run against realistic data without the
// production backend.
package devapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

const tokenTTL = 24 * time.Hour

type tokenGrant struct {
	userID  string
	expires time.Time
}

// Store holds all backend state behind one mutex. Every query returns copies;
// callers never see live map values.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64

	companies   map[string]domain.Company
	stocks      map[string]domain.Stock
	users       map[string]domain.UserProfile
	prevPrices  map[string]float64
	history     map[string][]domain.Stock
	memberships map[string]map[string]struct{}
	passwords   map[string]string
	tokens      map[string]tokenGrant
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		companies:   map[string]domain.Company{},
		stocks:      map[string]domain.Stock{},
		users:       map[string]domain.UserProfile{},
		prevPrices:  map[string]float64{},
		history:     map[string][]domain.Stock{},
		memberships: map[string]map[string]struct{}{},
		passwords:   map[string]string{},
		tokens:      map[string]tokenGrant{},
	}
}

func (s *Store) newIDLocked(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

var seedCompanyNames = []string{
	"Acme Holdings", "Borealis Group", "Cobalt Industries", "Delta Freight",
	"Everline Systems", "Fennec Capital", "Granite Works", "Helix Labs",
}

var seedFirstNames = []string{"Olena", "Marko", "Iryna", "Taras", "Sofia", "Dmytro", "Anna", "Petro"}

// Seed fills the store with deterministic development data and a known admin
// account (admin@quotedesk.local / admin).
func (s *Store) Seed(companies, stocks, users int) {
	rng := mrand.New(mrand.NewSource(1))

	s.mu.Lock()
	defer s.mu.Unlock()
	base := s.now().Add(-30 * 24 * time.Hour)

	companyIDs := make([]string, 0, companies)
	for i := 0; i < companies; i++ {
		id := s.newIDLocked("c")
		created := base.Add(time.Duration(i) * 24 * time.Hour)
		s.companies[id] = domain.Company{
			ID:        id,
			Title:     seedCompanyNames[i%len(seedCompanyNames)],
			CreatedAt: created,
			UpdatedAt: created,
		}
		s.memberships[id] = map[string]struct{}{}
		companyIDs = append(companyIDs, id)
	}

	for i := 0; i < stocks; i++ {
		id := s.newIDLocked("s")
		created := base.Add(time.Duration(i) * 12 * time.Hour)
		symbol := fmt.Sprintf("QD%02d", i+1)
		stock := domain.Stock{
			ID:        id,
			Title:     symbol + " Common",
			Symbol:    symbol,
			Price:     10 + rng.Float64()*490,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if len(companyIDs) > 0 {
			stock.CompanyID = companyIDs[i%len(companyIDs)]
		}
		s.stocks[id] = stock
	}

	for i := 0; i < users; i++ {
		id := s.newIDLocked("u")
		first := seedFirstNames[i%len(seedFirstNames)]
		username := fmt.Sprintf("%s%d", strings.ToLower(first), i+1)
		s.users[id] = domain.UserProfile{
			ID:        id,
			Username:  username,
			FirstName: first,
			LastName:  "Demo",
			Email:     username + "@quotedesk.local",
			Role:      domain.AllRoles[i%len(domain.AllRoles)],
		}
		s.passwords[username+"@quotedesk.local"] = "password"
		if len(companyIDs) > 0 {
			s.memberships[companyIDs[i%len(companyIDs)]][id] = struct{}{}
		}
	}

	adminID := s.newIDLocked("u")
	s.users[adminID] = domain.UserProfile{
		ID:        adminID,
		Username:  "admin",
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     "admin@quotedesk.local",
		Role:      domain.RoleAdmin,
	}
	s.passwords["admin@quotedesk.local"] = "admin"
}

// --- auth ---

func randomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Login exchanges credentials for a bearer token. Failures are reported
// through the result's Errors map, matching the production API.
func (s *Store) Login(creds domain.LoginCredentials) domain.LoginResult {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return domain.LoginResult{Errors: map[string]string{"": "email and password are required"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	password, ok := s.passwords[email]
	if !ok || password != creds.Password {
		return domain.LoginResult{Errors: map[string]string{"": "invalid email or password"}}
	}

	var profile domain.UserProfile
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			profile = u
			break
		}
	}

	token := randomToken()
	expires := s.now().Add(tokenTTL)
	s.tokens[token] = tokenGrant{userID: profile.ID, expires: expires}
	return domain.LoginResult{
		Success:     true,
		Token:       &domain.Token{Value: token, Expires: expires},
		UserProfile: &profile,
	}
}

// Register creates a user account with the User role.
func (s *Store) Register(req domain.RegisterRequest) domain.RegisterResult {
	errs := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "username is required"
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		errs["email"] = "email is required"
	}
	if len(req.Password) < 4 {
		errs["password"] = "password must be at least 4 characters"
	}
	if len(errs) > 0 {
		return domain.RegisterResult{Errors: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.passwords[email]; taken {
		return domain.RegisterResult{Errors: map[string]string{"email": "email is already registered"}}
	}

	profile := domain.UserProfile{
		ID:          s.newIDLocked("u"),
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        domain.RoleUser,
	}
	s.users[profile.ID] = profile
	s.passwords[email] = req.Password
	return domain.RegisterResult{Success: true, UserProfile: &profile}
}

// ValidateToken checks a bearer token's existence and expiry.
func (s *Store) ValidateToken(token string) domain.TokenValidation {
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.tokens[token]
	if !ok {
		return domain.TokenValidation{IsValid: false, Error: "unknown token"}
	}
	if !s.now().Before(grant.expires) {
		return domain.TokenValidation{IsValid: false, Error: "token expired"}
	}
	return domain.TokenValidation{IsValid: true}
}

// UserForToken resolves a valid token to its user.
func (s *Store) UserForToken(token string) (domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.tokens[token]
	if !ok || !s.now().Before(grant.expires) {
		return domain.UserProfile{}, false
	}
	user, ok := s.users[grant.userID]
	return user, ok
}

// --- companies ---

func (s *Store) Company(id string) (domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return domain.Company{}, newError(CodeNotFound, "company not found: "+id, nil)
	}
	return c, nil
}

func (s *Store) Companies() []domain.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	sortByCreation(out, func(c domain.Company) (time.Time, string) { return c.CreatedAt, c.ID })
	return out
}

func (s *Store) CreateCompany(c domain.Company) (domain.Company, error) {
	if strings.TrimSpace(c.Title) == "" {
		return domain.Company{}, newError(CodeValidation, "title is required", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.newIDLocked("c")
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	c.UserProfiles = nil
	s.companies[c.ID] = c
	s.memberships[c.ID] = map[string]struct{}{}
	return c, nil
}

func (s *Store) UpdateCompany(c domain.Company) (domain.Company, error) {
	if strings.TrimSpace(c.Title) == "" {
		return domain.Company{}, newError(CodeValidation, "title is required", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.companies[c.ID]
	if !ok {
		return domain.Company{}, newError(CodeNotFound, "company not found: "+c.ID, nil)
	}
	existing.Title = c.Title
	existing.UpdatedAt = laterOf(s.now(), existing.CreatedAt)
	s.companies[c.ID] = existing
	return existing, nil
}

func (s *Store) DeleteCompany(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[id]; !ok {
		return newError(CodeNotFound, "company not found: "+id, nil)
	}
	delete(s.companies, id)
	delete(s.memberships, id)
	for sid, stock := range s.stocks {
		if stock.CompanyID == id {
			stock.CompanyID = ""
			s.stocks[sid] = stock
		}
	}
	return nil
}

func (s *Store) AssignUser(companyID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[companyID]; !ok {
		return newError(CodeNotFound, "company not found: "+companyID, nil)
	}
	if _, ok := s.users[userID]; !ok {
		return newError(CodeNotFound, "user not found: "+userID, nil)
	}
	s.memberships[companyID][userID] = struct{}{}
	return nil
}

func (s *Store) UnassignUser(companyID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.memberships[companyID]
	if !ok {
		return newError(CodeNotFound, "company not found: "+companyID, nil)
	}
	delete(members, userID)
	return nil
}

func (s *Store) UsersInCompany(companyID string) ([]domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.memberships[companyID]
	if !ok {
		return nil, newError(CodeNotFound, "company not found: "+companyID, nil)
	}
	out := make([]domain.UserProfile, 0, len(members))
	for id := range members {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// FilterCompanies applies search, date range, sort, and 1-based paging.
func (s *Store) FilterCompanies(f domain.CompaniesFilter) domain.PagedResult[domain.Company] {
	all := s.Companies()

	needle := strings.ToLower(f.Search)
	if f.Title != "" {
		needle = strings.ToLower(f.Title)
	}
	matched := all[:0:0]
	for _, c := range all {
		if needle != "" && !strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}
		if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && c.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, c)
	}

	sortSlice(matched, f.BaseFilter, func(a, b domain.Company, field string) (bool, bool) {
		switch field {
		case "title":
			return a.Title < b.Title, a.Title == b.Title
		case "createdat":
			return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		case "updatedat":
			return a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		}
		return false, true
	})
	return paginate(matched, f.Page, f.PageSize)
}

// --- stocks ---

func (s *Store) Stock(id string) (domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[id]
	if !ok {
		return domain.Stock{}, newError(CodeNotFound, "stock not found: "+id, nil)
	}
	return stock, nil
}

func (s *Store) Stocks() []domain.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocksLocked()
}

func (s *Store) stocksLocked() []domain.Stock {
	out := make([]domain.Stock, 0, len(s.stocks))
	for _, stock := range s.stocks {
		out = append(out, stock)
	}
	sortByCreation(out, func(st domain.Stock) (time.Time, string) { return st.CreatedAt, st.ID })
	return out
}

func (s *Store) validateStockLocked(stock domain.Stock) error {
	if strings.TrimSpace(stock.Title) == "" {
		return newError(CodeValidation, "title is required", nil)
	}
	if strings.TrimSpace(stock.Symbol) == "" {
		return newError(CodeValidation, "symbol is required", nil)
	}
	if stock.Price < 0 {
		return newError(CodeValidation, "price must not be negative", nil)
	}
	if stock.CompanyID != "" {
		if _, ok := s.companies[stock.CompanyID]; !ok {
			return newError(CodeValidation, "company not found: "+stock.CompanyID, nil)
		}
	}
	return nil
}

func (s *Store) CreateStock(stock domain.Stock) (domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validateStockLocked(stock); err != nil {
		return domain.Stock{}, err
	}
	stock.ID = s.newIDLocked("s")
	stock.CreatedAt = s.now()
	stock.UpdatedAt = stock.CreatedAt
	s.stocks[stock.ID] = stock
	return stock, nil
}

func (s *Store) UpdateStock(stock domain.Stock) (domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.stocks[stock.ID]
	if !ok {
		return domain.Stock{}, newError(CodeNotFound, "stock not found: "+stock.ID, nil)
	}
	if err := s.validateStockLocked(stock); err != nil {
		return domain.Stock{}, err
	}
	if stock.Price != existing.Price {
		s.prevPrices[stock.ID] = existing.Price
	}
	existing.Title = stock.Title
	existing.Symbol = stock.Symbol
	existing.Price = stock.Price
	existing.CompanyID = stock.CompanyID
	existing.UpdatedAt = laterOf(s.now(), existing.CreatedAt)
	s.stocks[stock.ID] = existing
	return existing, nil
}

func (s *Store) DeleteStock(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[id]; !ok {
		return newError(CodeNotFound, "stock not found: "+id, nil)
	}
	delete(s.stocks, id)
	delete(s.prevPrices, id)
	delete(s.history, id)
	return nil
}

// FilterStocks applies search, company/symbol sets, price range, sort, and
// 1-based paging.
func (s *Store) FilterStocks(f domain.StocksFilter) domain.PagedResult[domain.Stock] {
	all := s.Stocks()

	needle := strings.ToLower(f.Search)
	if f.Title != "" {
		needle = strings.ToLower(f.Title)
	}
	companySet := toSet(f.CompanyIDs, false)
	symbolSet := toSet(f.Symbols, true)

	matched := all[:0:0]
	for _, stock := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(stock.Title), needle) &&
			!strings.Contains(strings.ToLower(stock.Symbol), needle) {
			continue
		}
		if len(companySet) > 0 {
			if _, ok := companySet[stock.CompanyID]; !ok {
				continue
			}
		}
		if len(symbolSet) > 0 {
			if _, ok := symbolSet[strings.ToLower(stock.Symbol)]; !ok {
				continue
			}
		}
		if f.PriceFrom != nil && stock.Price < *f.PriceFrom {
			continue
		}
		if f.PriceTo != nil && stock.Price > *f.PriceTo {
			continue
		}
		matched = append(matched, stock)
	}

	sortSlice(matched, f.BaseFilter, func(a, b domain.Stock, field string) (bool, bool) {
		switch field {
		case "title":
			return a.Title < b.Title, a.Title == b.Title
		case "symbol":
			return a.Symbol < b.Symbol, a.Symbol == b.Symbol
		case "price":
			return a.Price < b.Price, a.Price == b.Price
		case "createdat":
			return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		return false, true
	})
	return paginate(matched, f.Page, f.PageSize)
}

// Performance returns one stock with its previous observed price.
func (s *Store) Performance(id string) (domain.StockPerformance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[id]
	if !ok {
		return domain.StockPerformance{}, newError(CodeNotFound, "stock not found: "+id, nil)
	}
	return s.performanceLocked(stock), nil
}

func (s *Store) performanceLocked(stock domain.Stock) domain.StockPerformance {
	perf := domain.StockPerformance{Stock: stock}
	if prev, ok := s.prevPrices[stock.ID]; ok {
		perf.PreviousPrice = &prev
	}
	perf.Recompute()
	return perf
}

// AllPerformance returns performance rows for every stock.
func (s *Store) AllPerformance() []domain.StockPerformance {
	s.mu.Lock()
	defer s.mu.Unlock()
	stocks := s.stocksLocked()
	out := make([]domain.StockPerformance, len(stocks))
	for i, stock := range stocks {
		out[i] = s.performanceLocked(stock)
	}
	return out
}

// PerformanceByCompany returns performance rows for one company's stocks.
func (s *Store) PerformanceByCompany(companyID string) ([]domain.StockPerformance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[companyID]; !ok {
		return nil, newError(CodeNotFound, "company not found: "+companyID, nil)
	}
	var out []domain.StockPerformance
	for _, stock := range s.stocksLocked() {
		if stock.CompanyID == companyID {
			out = append(out, s.performanceLocked(stock))
		}
	}
	return out, nil
}

// TickPrices applies one random-walk step to every price, records previous
// prices and history, and returns the updated stocks.
func (s *Store) TickPrices(rng *mrand.Rand) []domain.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, stock := range s.stocks {
		s.prevPrices[id] = stock.Price
		step := stock.Price * (rng.Float64() - 0.5) * 0.04
		stock.Price += step
		if stock.Price < 0.01 {
			stock.Price = 0.01
		}
		stock.UpdatedAt = now
		s.stocks[id] = stock
		s.history[id] = append(s.history[id], stock)
	}
	updated := s.stocksLocked()
	slog.Debug("prices ticked", "stocks", len(updated))
	return updated
}

// History returns the recorded price points for one stock within [from, to].
func (s *Store) History(id string, from, to time.Time) ([]domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[id]; !ok {
		return nil, newError(CodeNotFound, "stock not found: "+id, nil)
	}
	var out []domain.Stock
	for _, point := range s.history[id] {
		if point.UpdatedAt.Before(from) || point.UpdatedAt.After(to) {
			continue
		}
		out = append(out, point)
	}
	return out, nil
}

// --- users ---

func (s *Store) User(id string) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.UserProfile{}, newError(CodeNotFound, "user not found: "+id, nil)
	}
	return u, nil
}

func (s *Store) Users() []domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func validRole(role string) bool {
	for _, r := range domain.AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(u domain.UserProfile) (domain.UserProfile, error) {
	if strings.TrimSpace(u.Username) == "" {
		return domain.UserProfile{}, newError(CodeValidation, "username is required", nil)
	}
	if strings.TrimSpace(u.Email) == "" {
		return domain.UserProfile{}, newError(CodeValidation, "email is required", nil)
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if !validRole(u.Role) {
		return domain.UserProfile{}, newError(CodeValidation, "unknown role: "+u.Role, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, taken := s.passwords[email]; taken {
		return domain.UserProfile{}, newError(CodeConflict, "email is already registered", nil)
	}
	u.ID = s.newIDLocked("u")
	s.users[u.ID] = u
	s.passwords[email] = randomToken()
	return u, nil
}

func (s *Store) UpdateUser(u domain.UserProfile) (domain.UserProfile, error) {
	if u.Role != "" && !validRole(u.Role) {
		return domain.UserProfile{}, newError(CodeValidation, "unknown role: "+u.Role, nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return domain.UserProfile{}, newError(CodeNotFound, "user not found: "+u.ID, nil)
	}
	if u.Username != "" {
		existing.Username = u.Username
	}
	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	existing.PhoneNumber = u.PhoneNumber
	if u.Role != "" {
		existing.Role = u.Role
	}
	s.users[u.ID] = existing
	return existing, nil
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return newError(CodeNotFound, "user not found: "+id, nil)
	}
	delete(s.users, id)
	delete(s.passwords, strings.ToLower(u.Email))
	for _, members := range s.memberships {
		delete(members, id)
	}
	for token, grant := range s.tokens {
		if grant.userID == id {
			delete(s.tokens, token)
		}
	}
	return nil
}

// FilterUsers applies search, role/company sets, sort, and 1-based paging.
func (s *Store) FilterUsers(f domain.UsersFilter) domain.PagedResult[domain.UserProfile] {
	roleSet := toSet(f.Roles, false)

	s.mu.Lock()
	memberOf := map[string]bool{}
	for _, companyID := range f.CompanyIDs {
		for id := range s.memberships[companyID] {
			memberOf[id] = true
		}
	}
	s.mu.Unlock()

	all := s.Users()
	needle := strings.ToLower(f.Search)
	matched := all[:0:0]
	for _, u := range all {
		if needle != "" {
			hay := strings.ToLower(u.Username + " " + u.FirstName + " " + u.LastName + " " + u.Email)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if len(roleSet) > 0 {
			if _, ok := roleSet[u.Role]; !ok {
				continue
			}
		}
		if len(f.CompanyIDs) > 0 && !memberOf[u.ID] {
			continue
		}
		matched = append(matched, u)
	}

	sortSlice(matched, f.BaseFilter, func(a, b domain.UserProfile, field string) (bool, bool) {
		switch field {
		case "username":
			return a.Username < b.Username, a.Username == b.Username
		case "email":
			return a.Email < b.Email, a.Email == b.Email
		case "firstname":
			return a.FirstName < b.FirstName, a.FirstName == b.FirstName
		case "lastname":
			return a.LastName < b.LastName, a.LastName == b.LastName
		case "role":
			return a.Role < b.Role, a.Role == b.Role
		}
		return false, true
	})
	return paginate(matched, f.Page, f.PageSize)
}

// --- filter helpers ---

func toSet(values []string, lower bool) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if lower {
			v = strings.ToLower(v)
		}
		set[v] = struct{}{}
	}
	return set
}

// sortSlice orders items by the filter's sort field, keeping the incoming
// (creation) order for ties and for unknown fields.
func sortSlice[T any](items []T, f domain.BaseFilter, less func(a, b T, field string) (lt, eq bool)) {
	field := strings.ToLower(f.SortBy)
	if field == "" {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		lt, eq := less(items[i], items[j], field)
		if eq {
			return false
		}
		if f.SortAscending {
			return lt
		}
		return !lt
	})
}

func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
}

// paginate slices one 1-based page out of the matched set. Pages past the end
// are empty, not errors.
func paginate[T any](items []T, page, size int) domain.PagedResult[T] {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start >= len(items) {
		return domain.PagedResult[T]{Items: []T{}, TotalCount: len(items)}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return domain.PagedResult[T]{
		Items:      append([]T(nil), items[start:end]...),
		TotalCount: len(items),
	}
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
