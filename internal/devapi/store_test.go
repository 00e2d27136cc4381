package devapi

import (
	mrand "math/rand"
	"testing"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func mustCreateCompany(t *testing.T, s *Store, title string) domain.Company {
	t.Helper()
	c, err := s.CreateCompany(domain.Company{Title: title})
	if err != nil {
		t.Fatalf("CreateCompany(%q) failed: %v", title, err)
	}
	return c
}

func mustCreateStock(t *testing.T, s *Store, title, symbol string, price float64, companyID string) domain.Stock {
	t.Helper()
	stock, err := s.CreateStock(domain.Stock{Title: title, Symbol: symbol, Price: price, CompanyID: companyID})
	if err != nil {
		t.Fatalf("CreateStock(%q) failed: %v", symbol, err)
	}
	return stock
}

func TestFilterCompaniesSearchIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	mustCreateCompany(t, s, "Acme Holdings")
	mustCreateCompany(t, s, "Borealis Group")
	mustCreateCompany(t, s, "Acme Labs")

	page := s.FilterCompanies(domain.CompaniesFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10, Search: "ACME"},
	})
	if page.TotalCount != 2 || len(page.Items) != 2 {
		t.Fatalf("TotalCount = %d, items = %d; want 2, 2", page.TotalCount, len(page.Items))
	}
}

func TestFilterCompaniesPagingIsOneBased(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		mustCreateCompany(t, s, "Company "+string(rune('A'+i)))
	}

	first := s.FilterCompanies(domain.CompaniesFilter{BaseFilter: domain.BaseFilter{Page: 1, PageSize: 2}})
	second := s.FilterCompanies(domain.CompaniesFilter{BaseFilter: domain.BaseFilter{Page: 2, PageSize: 2}})
	beyond := s.FilterCompanies(domain.CompaniesFilter{BaseFilter: domain.BaseFilter{Page: 9, PageSize: 2}})

	if first.TotalCount != 5 || len(first.Items) != 2 {
		t.Fatalf("page 1: total = %d, items = %d; want 5, 2", first.TotalCount, len(first.Items))
	}
	if first.Items[0].Title != "Company A" || second.Items[0].Title != "Company C" {
		t.Fatalf("page boundaries wrong: %q / %q", first.Items[0].Title, second.Items[0].Title)
	}
	if len(beyond.Items) != 0 || beyond.TotalCount != 5 {
		t.Fatalf("page past end: items = %d, total = %d; want 0, 5", len(beyond.Items), beyond.TotalCount)
	}
}

func TestFilterCompaniesDateRange(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.now = fixedClock(base.AddDate(0, 0, i))
		mustCreateCompany(t, s, "Dated")
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 2)
	page := s.FilterCompanies(domain.CompaniesFilter{
		BaseFilter:  domain.BaseFilter{Page: 1, PageSize: 10},
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
	if page.TotalCount != 2 {
		t.Fatalf("TotalCount = %d within [day1, day2]; want 2", page.TotalCount)
	}
}

func TestFilterStocksRangesAndSets(t *testing.T) {
	s := NewStore()
	acme := mustCreateCompany(t, s, "Acme")
	other := mustCreateCompany(t, s, "Other")
	mustCreateStock(t, s, "Alpha Common", "ALF", 50, acme.ID)
	mustCreateStock(t, s, "Beta Common", "BET", 150, acme.ID)
	mustCreateStock(t, s, "Gamma Common", "GAM", 250, other.ID)

	lo, hi := 40.0, 200.0
	page := s.FilterStocks(domain.StocksFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10},
		PriceFrom:  &lo,
		PriceTo:    &hi,
	})
	if page.TotalCount != 2 {
		t.Fatalf("price range total = %d; want 2", page.TotalCount)
	}

	page = s.FilterStocks(domain.StocksFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10},
		Symbols:    []string{"alf", "GAM"},
	})
	if page.TotalCount != 2 {
		t.Fatalf("symbol set total = %d; want 2 (case-insensitive)", page.TotalCount)
	}

	page = s.FilterStocks(domain.StocksFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10},
		CompanyIDs: []string{acme.ID},
	})
	if page.TotalCount != 2 {
		t.Fatalf("company set total = %d; want 2", page.TotalCount)
	}
}

func TestFilterStocksSortDescending(t *testing.T) {
	s := NewStore()
	mustCreateStock(t, s, "A", "AAA", 10, "")
	mustCreateStock(t, s, "B", "BBB", 30, "")
	mustCreateStock(t, s, "C", "CCC", 20, "")

	page := s.FilterStocks(domain.StocksFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10, SortBy: "price", SortAscending: false},
	})
	if page.Items[0].Price != 30 || page.Items[2].Price != 10 {
		t.Fatalf("descending price order wrong: %v, %v, %v",
			page.Items[0].Price, page.Items[1].Price, page.Items[2].Price)
	}
}

func TestUpdateNeverMovesUpdatedAtBeforeCreatedAt(t *testing.T) {
	s := NewStore()
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = fixedClock(created)
	c := mustCreateCompany(t, s, "Original")

	// Clock skew: the update "happens" before creation.
	s.now = fixedClock(created.Add(-time.Hour))
	updated, err := s.UpdateCompany(domain.Company{ID: c.ID, Title: "Renamed"})
	if err != nil {
		t.Fatalf("UpdateCompany() failed: %v", err)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Fatalf("UpdatedAt %v before CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}
	if updated.CreatedAt != created {
		t.Fatalf("CreatedAt changed on update: %v", updated.CreatedAt)
	}
}

func TestLoginRegisterValidateFlow(t *testing.T) {
	s := NewStore()
	reg := s.Register(domain.RegisterRequest{
		Username: "olena", Email: "olena@example.com", Password: "secret",
	})
	if !reg.Success {
		t.Fatalf("Register() failed: %+v", reg.Errors)
	}

	bad := s.Login(domain.LoginCredentials{Email: "olena@example.com", Password: "wrong"})
	if bad.Success || bad.Token != nil {
		t.Fatal("Login() succeeded with wrong password")
	}

	good := s.Login(domain.LoginCredentials{Email: "Olena@Example.com", Password: "secret"})
	if !good.Success || good.Token == nil {
		t.Fatalf("Login() failed: %+v", good.Errors)
	}
	if good.UserProfile == nil || good.UserProfile.Username != "olena" {
		t.Fatalf("login profile = %+v; want olena", good.UserProfile)
	}

	if v := s.ValidateToken(good.Token.Value); !v.IsValid {
		t.Fatalf("ValidateToken() invalid for fresh token: %q", v.Error)
	}
	if v := s.ValidateToken("bogus"); v.IsValid {
		t.Fatal("ValidateToken(bogus) valid; want invalid")
	}

	s.now = fixedClock(time.Now().Add(tokenTTL + time.Minute))
	if v := s.ValidateToken(good.Token.Value); v.IsValid {
		t.Fatal("ValidateToken() valid after expiry")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s := NewStore()
	s.Register(domain.RegisterRequest{Username: "a", Email: "dup@example.com", Password: "secret"})
	second := s.Register(domain.RegisterRequest{Username: "b", Email: "DUP@example.com", Password: "secret"})
	if second.Success {
		t.Fatal("Register() succeeded with duplicate email")
	}
	if second.Errors["email"] == "" {
		t.Fatalf("Errors = %+v; want email keyed message", second.Errors)
	}
}

func TestTickRecordsPreviousPriceAndHistory(t *testing.T) {
	s := NewStore()
	stock := mustCreateStock(t, s, "Ticked", "TCK", 100, "")

	updated := s.TickPrices(mrand.New(mrand.NewSource(7)))
	if len(updated) != 1 {
		t.Fatalf("TickPrices() returned %d stocks; want 1", len(updated))
	}

	perf, err := s.Performance(stock.ID)
	if err != nil {
		t.Fatalf("Performance() failed: %v", err)
	}
	if perf.PreviousPrice == nil || *perf.PreviousPrice != 100 {
		t.Fatalf("PreviousPrice = %v; want 100", perf.PreviousPrice)
	}
	if perf.PriceChange == nil || *perf.PriceChange != perf.Price-100 {
		t.Fatalf("PriceChange = %v for price %v", perf.PriceChange, perf.Price)
	}

	history, err := s.History(stock.ID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history points = %d after one tick; want 1", len(history))
	}
}

func TestAssignAndUnassignCompanyUsers(t *testing.T) {
	s := NewStore()
	c := mustCreateCompany(t, s, "Acme")
	u, err := s.CreateUser(domain.UserProfile{Username: "marko", Email: "marko@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	if err := s.AssignUser(c.ID, u.ID); err != nil {
		t.Fatalf("AssignUser() failed: %v", err)
	}
	members, err := s.UsersInCompany(c.ID)
	if err != nil {
		t.Fatalf("UsersInCompany() failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != u.ID {
		t.Fatalf("members = %+v; want marko", members)
	}

	if err := s.UnassignUser(c.ID, u.ID); err != nil {
		t.Fatalf("UnassignUser() failed: %v", err)
	}
	members, _ = s.UsersInCompany(c.ID)
	if len(members) != 0 {
		t.Fatalf("members = %d after unassign; want 0", len(members))
	}

	if err := s.AssignUser("missing", u.ID); err == nil {
		t.Fatal("AssignUser(missing company) = nil; want error")
	}
}

func TestFilterUsersByRoleAndCompany(t *testing.T) {
	s := NewStore()
	c := mustCreateCompany(t, s, "Acme")
	admin, _ := s.CreateUser(domain.UserProfile{Username: "root", Email: "root@example.com", Role: domain.RoleAdmin})
	member, _ := s.CreateUser(domain.UserProfile{Username: "worker", Email: "worker@example.com", Role: domain.RoleUser})
	if err := s.AssignUser(c.ID, member.ID); err != nil {
		t.Fatalf("AssignUser() failed: %v", err)
	}

	byRole := s.FilterUsers(domain.UsersFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10},
		Roles:      []string{domain.RoleAdmin},
	})
	if byRole.TotalCount != 1 || byRole.Items[0].ID != admin.ID {
		t.Fatalf("role filter = %+v; want only root", byRole.Items)
	}

	byCompany := s.FilterUsers(domain.UsersFilter{
		BaseFilter: domain.BaseFilter{Page: 1, PageSize: 10},
		CompanyIDs: []string{c.ID},
	})
	if byCompany.TotalCount != 1 || byCompany.Items[0].ID != member.ID {
		t.Fatalf("company filter = %+v; want only worker", byCompany.Items)
	}
}

func TestDeleteCompanyDetachesStocks(t *testing.T) {
	s := NewStore()
	c := mustCreateCompany(t, s, "Acme")
	stock := mustCreateStock(t, s, "Alpha", "ALF", 10, c.ID)

	if err := s.DeleteCompany(c.ID); err != nil {
		t.Fatalf("DeleteCompany() failed: %v", err)
	}
	got, err := s.Stock(stock.ID)
	if err != nil {
		t.Fatalf("Stock() failed: %v", err)
	}
	if got.CompanyID != "" {
		t.Fatalf("CompanyID = %q after company delete; want detached", got.CompanyID)
	}
}
