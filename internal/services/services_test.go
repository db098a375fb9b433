package services

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/craftmatrix/savetrack-api/internal/ai"
	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/memstore"
	"github.com/craftmatrix/savetrack-api/models"
)

type fakeAI struct {
	calls []ai.Kind
}

func (f *fakeAI) Generate(_ context.Context, kind ai.Kind, _ ai.Data) string {
	f.calls = append(f.calls, kind)
	return "Keep tracking your groceries."
}

func (f *fakeAI) Model() string { return "gemini-test" }

type ServiceSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	ai    *fakeAI
	svc   *Service
	alice uuid.UUID
	bob   uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s.ai = &fakeAI{}
	s.svc = New(memstore.New(), s.ai).WithClock(func() time.Time { return s.now })
	s.alice, s.bob = uuid.New(), uuid.New()
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *ServiceSuite) account(user uuid.UUID, label, init string) *models.Account {
	a, err := s.svc.CreateAccount(s.ctx, user, models.Account{Label: label, InitValue: dec(init)})
	s.Require().NoError(err)
	return a
}

func (s *ServiceSuite) category(user uuid.UUID, name string, positive bool) *models.Category {
	c, err := s.svc.CreateCategory(s.ctx, user, models.Category{Name: name, IsPositive: positive})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) spend(user uuid.UUID, acc *models.Account, cat *models.Category, amount string) *models.LedgerEntry {
	e, err := s.svc.CreateTransaction(s.ctx, user, models.Transaction{AccountID: acc.ID, CategoryID: cat.ID, Amount: dec(amount)})
	s.Require().NoError(err)
	return e
}

func (s *ServiceSuite) kind(err error) apperr.Kind {
	s.Require().Error(err)
	return apperr.KindOf(err)
}

func (s *ServiceSuite) TestBalanceIsInitValuePlusSignedSum() {
	acc := s.account(s.alice, "Wallet", "100")
	salary := s.category(s.alice, "Salary", true)
	food := s.category(s.alice, "Food", false)
	s.spend(s.alice, acc, salary, "200")
	e := s.spend(s.alice, acc, food, "50")

	s.True(e.Signed().Equal(dec("-50")))
	bal, err := s.svc.AccountBalance(s.ctx, s.alice, acc.ID)
	s.Require().NoError(err)
	s.True(bal.Balance.Equal(dec("250")), bal.Balance.String())

	gen, err := s.svc.GenerateReport(s.ctx, s.alice, ReportSummary, ReportRequest{})
	s.Require().NoError(err)
	rep := gen.Data.(*SummaryReport)
	s.True(rep.Summary.Expenses.Equal(dec("50")))
	s.True(rep.Summary.Income.Equal(dec("200")))
	s.True(rep.Summary.TotalBalance.Equal(dec("250")))
	s.Nil(gen.Report)
}

func (s *ServiceSuite) TestTransactionAmountMustBePositive() {
	acc := s.account(s.alice, "Wallet", "0")
	food := s.category(s.alice, "Food", false)
	for _, amt := range []string{"0", "-5", "1000000"} {
		_, err := s.svc.CreateTransaction(s.ctx, s.alice, models.Transaction{AccountID: acc.ID, CategoryID: food.ID, Amount: dec(amt)})
		s.Equal(apperr.KindValidation, s.kind(err), amt)
	}
}

func (s *ServiceSuite) TestTransactionForeignReferenceIsValidationError() {
	mine := s.account(s.alice, "Wallet", "0")
	theirs := s.category(s.bob, "Food", false)
	_, err := s.svc.CreateTransaction(s.ctx, s.alice, models.Transaction{AccountID: mine.ID, CategoryID: theirs.ID, Amount: dec("5")})
	s.Equal(apperr.KindValidation, s.kind(err))
}

func (s *ServiceSuite) TestForeignOwnerSeesNotFound() {
	acc := s.account(s.alice, "Wallet", "10")

	_, err := s.svc.GetAccount(s.ctx, s.bob, acc.ID)
	s.Equal(apperr.KindNotFound, s.kind(err))
	_, err = s.svc.UpdateAccount(s.ctx, s.bob, acc.ID, models.Account{Label: "Mine now"})
	s.Equal(apperr.KindNotFound, s.kind(err))
	s.Equal(apperr.KindNotFound, s.kind(s.svc.DeleteAccount(s.ctx, s.bob, acc.ID)))

	got, err := s.svc.GetAccount(s.ctx, s.alice, acc.ID)
	s.Require().NoError(err)
	s.Equal("Wallet", got.Label)
}

func (s *ServiceSuite) TestUpdateKeepsCreatedAtAndAdvancesUpdatedAt() {
	acc := s.account(s.alice, "Wallet", "10")
	created := acc.CreatedAt

	s.now = s.now.Add(time.Hour)
	upd, err := s.svc.UpdateAccount(s.ctx, s.alice, acc.ID, models.Account{Label: "Main wallet", InitValue: dec("20")})
	s.Require().NoError(err)
	s.Equal(created, upd.CreatedAt)
	s.True(upd.UpdatedAt.After(created))

	got, err := s.svc.GetAccount(s.ctx, s.alice, acc.ID)
	s.Require().NoError(err)
	s.Equal("Main wallet", got.Label)
	s.Equal(created, got.CreatedAt)
}

func (s *ServiceSuite) TestAccountValidation() {
	_, err := s.svc.CreateAccount(s.ctx, s.alice, models.Account{Label: "  "})
	s.Equal(apperr.KindValidation, s.kind(err))
	neg := dec("-1")
	_, err = s.svc.CreateAccount(s.ctx, s.alice, models.Account{Label: "Card", Limit: &neg})
	s.Equal(apperr.KindValidation, s.kind(err))
}

func (s *ServiceSuite) TestDuplicateCategoryNameConflicts() {
	s.category(s.alice, "Food", false)
	_, err := s.svc.CreateCategory(s.ctx, s.alice, models.Category{Name: "food"})
	s.Equal(apperr.KindConflict, s.kind(err))

	// Another user may reuse the name.
	s.category(s.bob, "Food", false)
}

func (s *ServiceSuite) TestDeleteWishlistParentCascades() {
	p, err := s.svc.CreateWishlistParent(s.ctx, s.alice, models.WishlistParent{Name: "Bike"})
	s.Require().NoError(err)
	for _, label := range []string{"Frame", "Wheels"} {
		_, err := s.svc.CreateWishlist(s.ctx, s.alice, models.Wishlist{ParentID: p.ID, Label: label, Price: dec("100")})
		s.Require().NoError(err)
	}

	removed, err := s.svc.DeleteWishlistParent(s.ctx, s.alice, p.ID)
	s.Require().NoError(err)
	s.Equal(2, removed)

	items, err := s.svc.ListWishlists(s.ctx, s.alice, nil)
	s.Require().NoError(err)
	s.Empty(items)
	_, err = s.svc.GetWishlistParent(s.ctx, s.alice, p.ID)
	s.Equal(apperr.KindNotFound, s.kind(err))
}

func (s *ServiceSuite) TestWishlistRequiresOwnedParent() {
	p, err := s.svc.CreateWishlistParent(s.ctx, s.bob, models.WishlistParent{Name: "Car"})
	s.Require().NoError(err)
	_, err = s.svc.CreateWishlist(s.ctx, s.alice, models.Wishlist{ParentID: p.ID, Label: "Tyres"})
	s.Equal(apperr.KindValidation, s.kind(err))
}

func (s *ServiceSuite) TestWishlistsWithParentsOrdering() {
	a, _ := s.svc.CreateWishlistParent(s.ctx, s.alice, models.WishlistParent{Name: "A trip"})
	b, _ := s.svc.CreateWishlistParent(s.ctx, s.alice, models.WishlistParent{Name: "B house"})
	for _, w := range []models.Wishlist{
		{ParentID: b.ID, Label: "Sofa"},
		{ParentID: a.ID, Label: "Tickets"},
		{ParentID: a.ID, Label: "Hotel"},
	} {
		_, err := s.svc.CreateWishlist(s.ctx, s.alice, w)
		s.Require().NoError(err)
	}
	out, err := s.svc.WishlistsWithParents(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	s.Equal([]string{"Hotel", "Tickets", "Sofa"}, []string{out[0].Label, out[1].Label, out[2].Label})
	s.Equal("A trip", out[0].ParentName)
}

func (s *ServiceSuite) TestBudgetDeleteCascadesToItems() {
	b, err := s.svc.CreateBudget(s.ctx, s.alice, models.Budget{Name: "January"})
	s.Require().NoError(err)
	_, err = s.svc.CreateBudgetItem(s.ctx, s.alice, b.ID, models.BudgetItem{Name: "Rent", Amount: dec("800")})
	s.Require().NoError(err)

	_, err = s.svc.ListBudgetItems(s.ctx, s.bob, b.ID)
	s.Equal(apperr.KindNotFound, s.kind(err))

	removed, err := s.svc.DeleteBudget(s.ctx, s.alice, b.ID)
	s.Require().NoError(err)
	s.Equal(1, removed)
}

func recurring(kind string, interval int) (*string, *int) {
	return &kind, &interval
}

func (s *ServiceSuite) TestPayMonthlyBillSpawnsSuccessor() {
	typ, interval := recurring(models.RecurMonthly, 1)
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	b, err := s.svc.CreateBill(s.ctx, s.alice, models.Bill{
		Name: "Rent", Amount: dec("900"), DueDate: due, Currency: "usd",
		IsRecurring: true, RecurrenceType: typ, RecurrenceInterval: interval,
	})
	s.Require().NoError(err)
	s.Equal("USD", b.Currency)
	s.Equal(models.BillPending, b.Status)
	s.Require().NotNil(b.NextDueDate)
	s.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), *b.NextDueDate)

	res, err := s.svc.PayBill(s.ctx, s.alice, b.ID)
	s.Require().NoError(err)
	s.Equal(models.BillPaid, res.Bill.Status)
	s.Require().NotNil(res.NextBill)
	s.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), res.NextBill.DueDate)
	s.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *res.NextBill.NextDueDate)
	s.Equal(models.BillPending, res.NextBill.Status)
	s.NotEqual(b.ID, res.NextBill.ID)

	_, err = s.svc.PayBill(s.ctx, s.alice, b.ID)
	s.Equal(apperr.KindValidation, s.kind(err))

	_, err = s.svc.PayBill(s.ctx, s.bob, res.NextBill.ID)
	s.Equal(apperr.KindNotFound, s.kind(err))
}

func (s *ServiceSuite) TestPayOneOffBillHasNoSuccessor() {
	b, err := s.svc.CreateBill(s.ctx, s.alice, models.Bill{Name: "Vet", Amount: dec("60"), DueDate: s.now, Currency: "EUR"})
	s.Require().NoError(err)
	res, err := s.svc.PayBill(s.ctx, s.alice, b.ID)
	s.Require().NoError(err)
	s.Nil(res.NextBill)
}

func (s *ServiceSuite) TestBillValidation() {
	base := func() models.Bill {
		return models.Bill{Name: "Gym", Amount: dec("30"), DueDate: s.now, Currency: "EUR"}
	}
	cases := map[string]func(*models.Bill){
		"zero amount":       func(b *models.Bill) { b.Amount = decimal.Zero },
		"short currency":    func(b *models.Bill) { b.Currency = "EU" },
		"bad status":        func(b *models.Bill) { b.Status = "late" },
		"too old":           func(b *models.Bill) { b.DueDate = s.now.AddDate(-2, 0, 0) },
		"too far":           func(b *models.Bill) { b.DueDate = s.now.AddDate(11, 0, 0) },
		"recurring no type": func(b *models.Bill) { b.IsRecurring = true },
		"interval too big": func(b *models.Bill) {
			b.IsRecurring = true
			b.RecurrenceType, b.RecurrenceInterval = recurring(models.RecurDaily, 400)
		},
	}
	for name, mutate := range cases {
		b := base()
		mutate(&b)
		_, err := s.svc.CreateBill(s.ctx, s.alice, b)
		s.Equal(apperr.KindValidation, s.kind(err), name)
	}
}

func (s *ServiceSuite) TestOverdueIsComputedAtReadTime() {
	late, err := s.svc.CreateBill(s.ctx, s.alice, models.Bill{Name: "Phone", Amount: dec("20"), DueDate: s.now.AddDate(0, 0, -5), Currency: "EUR"})
	s.Require().NoError(err)
	soon, err := s.svc.CreateBill(s.ctx, s.alice, models.Bill{Name: "Water", Amount: dec("15"), DueDate: s.now.AddDate(0, 0, 10), Currency: "EUR"})
	s.Require().NoError(err)
	_, err = s.svc.CreateBill(s.ctx, s.alice, models.Bill{Name: "Insurance", Amount: dec("99"), DueDate: s.now.AddDate(0, 3, 0), Currency: "EUR"})
	s.Require().NoError(err)

	got, err := s.svc.GetBill(s.ctx, s.alice, late.ID)
	s.Require().NoError(err)
	s.Equal(models.BillOverdue, got.Status)

	overdue, err := s.svc.OverdueBills(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Require().Len(overdue, 1)
	s.Equal(late.ID, overdue[0].ID)

	upcoming, err := s.svc.UpcomingBills(s.ctx, s.alice, DefaultUpcomingDays)
	s.Require().NoError(err)
	s.Require().Len(upcoming, 1)
	s.Equal(soon.ID, upcoming[0].ID)

	_, err = s.svc.UpcomingBills(s.ctx, s.alice, 366)
	s.Equal(apperr.KindValidation, s.kind(err))
}

func (s *ServiceSuite) TestNextDueDate() {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	s.Equal(d(2024, 1, 18), NextDueDate(d(2024, 1, 15), models.RecurDaily, 3))
	s.Equal(d(2024, 1, 29), NextDueDate(d(2024, 1, 15), models.RecurWeekly, 2))
	s.Equal(d(2024, 2, 29), NextDueDate(d(2024, 1, 31), models.RecurMonthly, 1))
	s.Equal(d(2023, 2, 28), NextDueDate(d(2023, 1, 31), models.RecurMonthly, 1))
	s.Equal(d(2025, 2, 28), NextDueDate(d(2024, 2, 29), models.RecurYearly, 1))
	s.Equal(d(2024, 2, 15), NextDueDate(d(2024, 1, 15), "fortnightly", 5))
	s.Equal(d(9999, 2, 15), NextDueDate(d(9999, 1, 15), models.RecurYearly, 1))
}

func (s *ServiceSuite) TestChartCacheExpiry() {
	c, err := s.svc.CreateChart(s.ctx, s.alice, models.ChartData{
		ChartType: "Bar", Title: "Spending", DataSet: json.RawMessage(`[1,2]`), IsCached: true,
	})
	s.Require().NoError(err)
	s.Equal("bar", c.ChartType)
	s.Equal("monthly", c.Period)
	s.Require().NotNil(c.CacheExpiresAt)
	s.Equal(s.now.Add(24*time.Hour), *c.CacheExpiresAt)

	_, err = s.svc.CreateChart(s.ctx, s.alice, models.ChartData{ChartType: "bar", Title: "Bad", DataSet: json.RawMessage(`{`)})
	s.Equal(apperr.KindValidation, s.kind(err))

	n, err := s.svc.ClearChartCache(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(n)

	s.now = s.now.Add(25 * time.Hour)
	n, err = s.svc.ClearChartCache(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *ServiceSuite) TestGenerateChart() {
	acc := s.account(s.alice, "Wallet", "100")
	food := s.category(s.alice, "Food", false)
	s.spend(s.alice, acc, food, "40")

	gen, err := s.svc.GenerateChart(s.ctx, s.alice, ChartRequest{ChartType: "pie", Category: "Balance"})
	s.Require().NoError(err)
	s.Nil(gen.Chart)
	points := gen.Data.([]balancePoint)
	s.Require().Len(points, 1)
	s.True(points[0].Balance.Equal(dec("60")))

	gen, err = s.svc.GenerateChart(s.ctx, s.alice, ChartRequest{ChartType: "line", Category: "expense", SaveChart: true})
	s.Require().NoError(err)
	s.Require().NotNil(gen.Chart)
	s.Equal("expense line Chart", gen.Chart.Title)
	s.True(gen.Chart.IsCached)
	s.JSONEq(`[{"period":"2024-01","amount":"40"}]`, string(gen.Chart.DataSet))
}

func (s *ServiceSuite) TestGenerateSavedReport() {
	gen, err := s.svc.GenerateReport(s.ctx, s.alice, ReportGoals, ReportRequest{SaveReport: true})
	s.Require().NoError(err)
	s.Require().NotNil(gen.Report)
	s.Equal("goals", gen.Report.Type)

	reps, err := s.svc.ListReports(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Len(reps, 1)

	later := s.now.Add(time.Hour)
	earlier := s.now
	_, err = s.svc.GenerateReport(s.ctx, s.alice, ReportSummary, ReportRequest{StartDate: &later, EndDate: &earlier})
	s.Equal(apperr.KindValidation, s.kind(err))
}

func (s *ServiceSuite) TestReportValidation() {
	_, err := s.svc.CreateReport(s.ctx, s.alice, models.Report{Type: "summary", Endpoint: "/x", Response: json.RawMessage(`nope`)})
	s.Equal(apperr.KindValidation, s.kind(err))
	r, err := s.svc.CreateReport(s.ctx, s.alice, models.Report{Type: "Summary", Endpoint: " /x ", Response: json.RawMessage(`{"a":1}`)})
	s.Require().NoError(err)
	s.Equal("summary", r.Type)
	s.Equal("/x", r.Endpoint)
	s.Equal(s.now, r.TimeStamp)
}

func (s *ServiceSuite) TestGenerateInsight() {
	_, err := s.svc.GenerateInsight(s.ctx, s.alice, InsightSpending)
	s.Equal(apperr.KindValidation, s.kind(err))
	s.Empty(s.ai.calls)

	acc := s.account(s.alice, "Wallet", "100")
	food := s.category(s.alice, "Food", false)
	s.spend(s.alice, acc, food, "12.50")

	in, err := s.svc.GenerateInsight(s.ctx, s.alice, InsightSpending)
	s.Require().NoError(err)
	s.Equal([]ai.Kind{ai.SpendingAnalysis}, s.ai.calls)
	s.Equal("analysis", in.Type)
	s.Equal("Spending Pattern Analysis", in.Title)
	s.Equal("medium", in.Priority)
	s.Equal("Keep tracking your groceries.", in.Content)
	s.Equal(ai.Provider, *in.AIProvider)
	s.Equal("gemini-test", *in.AIModelVersion)

	unread, err := s.svc.ListInsights(s.ctx, s.alice, true)
	s.Require().NoError(err)
	s.Len(unread, 1)

	_, err = s.svc.MarkInsightRead(s.ctx, s.bob, in.ID)
	s.Equal(apperr.KindNotFound, s.kind(err))
	read, err := s.svc.MarkInsightRead(s.ctx, s.alice, in.ID)
	s.Require().NoError(err)
	s.True(read.IsRead)
	s.Equal(in.Content, read.Content)

	unread, err = s.svc.ListInsights(s.ctx, s.alice, true)
	s.Require().NoError(err)
	s.Empty(unread)

	_, err = s.svc.GenerateInsight(s.ctx, s.alice, InsightBudgetAdvice)
	s.Equal(apperr.KindValidation, s.kind(err))
	_, err = s.svc.GenerateInsight(s.ctx, s.alice, InsightSavings)
	s.Equal(apperr.KindValidation, s.kind(err))
	_, err = s.svc.GenerateInsight(s.ctx, s.alice, InsightBudgetWarning)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestFindOrCreateUser() {
	u, err := s.svc.FindOrCreateUser(s.ctx, "Ana@Example.com")
	s.Require().NoError(err)
	s.Equal("ana@example.com", u.Email)
	s.Equal(models.DefaultRole, u.Role)

	again, err := s.svc.FindOrCreateUser(s.ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, again.ID)

	_, err = s.svc.FindOrCreateUser(s.ctx, "not-an-email")
	s.Equal(apperr.KindValidation, s.kind(err))

	me, err := s.svc.Me(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Email, me.Email)
}
