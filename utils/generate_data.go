// Package utils generates demo data for local development.
package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftmatrix/savetrack-api/internal/services"
	"github.com/craftmatrix/savetrack-api/models"
)

var (
	expenseCategories = []string{"Groceries", "Rent", "Transport", "Utilities", "Eating out", "Health", "Subscriptions"}
	incomeCategories  = []string{"Salary", "Freelance", "Gifts"}
	recurrences       = []string{models.RecurWeekly, models.RecurMonthly, models.RecurYearly}
)

type SeedOptions struct {
	Accounts      int
	Transactions  int
	Bills         int
	BudgetItems   int
	WishlistItems int
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Accounts: 2, Transactions: 40, Bills: 5, BudgetItems: 4, WishlistItems: 6}
}

// SeedSummary counts what Seed created.
type SeedSummary struct {
	User          models.User
	Accounts      int
	Categories    int
	Transactions  int
	Bills         int
	BudgetItems   int
	WishlistItems int
}

// Seeder writes fake records through the service layer, so every record
// passes the same validation as API input.
type Seeder struct {
	svc   *services.Service
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeeder returns a seeder whose output is reproducible for a given seed.
func NewSeeder(svc *services.Service, seed int64) *Seeder {
	return &Seeder{svc: svc, faker: gofakeit.New(seed), now: time.Now}
}

func (s *Seeder) price(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Price(min, max)).Round(2)
}

func (s *Seeder) Seed(ctx context.Context, email string, opts SeedOptions) (*SeedSummary, error) {
	u, err := s.svc.FindOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}
	sum := &SeedSummary{User: *u}

	var accounts []*models.Account
	for i := 0; i < opts.Accounts; i++ {
		a, err := s.svc.CreateAccount(ctx, u.ID, models.Account{
			Label:       fmt.Sprintf("%s %s", s.faker.Company(), s.faker.RandomString([]string{"Checking", "Savings", "Card"})),
			Description: s.faker.Sentence(6),
			InitValue:   s.price(100, 5000),
		})
		if err != nil {
			return sum, fmt.Errorf("seeding account: %w", err)
		}
		accounts = append(accounts, a)
		sum.Accounts++
	}

	existing, err := s.svc.ListCategories(ctx, u.ID)
	if err != nil {
		return sum, err
	}
	byName := make(map[string]*models.Category, len(existing))
	for i := range existing {
		byName[strings.ToLower(existing[i].Name)] = &existing[i]
	}
	category := func(name string, positive bool) (*models.Category, error) {
		if c, ok := byName[strings.ToLower(name)]; ok {
			return c, nil
		}
		c, err := s.svc.CreateCategory(ctx, u.ID, models.Category{Name: name, IsPositive: positive})
		if err != nil {
			return nil, fmt.Errorf("seeding category %s: %w", name, err)
		}
		sum.Categories++
		return c, nil
	}
	var expenses, income []*models.Category
	for _, name := range expenseCategories {
		c, err := category(name, false)
		if err != nil {
			return sum, err
		}
		expenses = append(expenses, c)
	}
	for _, name := range incomeCategories {
		c, err := category(name, true)
		if err != nil {
			return sum, err
		}
		income = append(income, c)
	}

	if len(accounts) > 0 {
		for i := 0; i < opts.Transactions; i++ {
			cat := expenses[s.faker.Number(0, len(expenses)-1)]
			amount := s.price(3, 250)
			if s.faker.Number(1, 10) == 1 {
				cat = income[s.faker.Number(0, len(income)-1)]
				amount = s.price(500, 3000)
			}
			_, err := s.svc.CreateTransaction(ctx, u.ID, models.Transaction{
				AccountID:   accounts[s.faker.Number(0, len(accounts)-1)].ID,
				CategoryID:  cat.ID,
				Amount:      amount,
				Description: s.faker.Sentence(4),
			})
			if err != nil {
				return sum, fmt.Errorf("seeding transaction: %w", err)
			}
			sum.Transactions++
		}
	}

	now := s.now()
	for i := 0; i < opts.Bills; i++ {
		b := models.Bill{
			Name:       s.faker.Company(),
			Amount:     s.price(10, 400),
			DueDate:    s.faker.DateRange(now.AddDate(0, 0, -10), now.AddDate(0, 2, 0)),
			CategoryID: &expenses[s.faker.Number(0, len(expenses)-1)].ID,
			AutoRemind: s.faker.Bool(),
			Currency:   "USD",
		}
		if s.faker.Bool() {
			kind := s.faker.RandomString(recurrences)
			interval := 1
			b.IsRecurring, b.RecurrenceType, b.RecurrenceInterval = true, &kind, &interval
		}
		if _, err := s.svc.CreateBill(ctx, u.ID, b); err != nil {
			return sum, fmt.Errorf("seeding bill: %w", err)
		}
		sum.Bills++
	}

	if opts.BudgetItems > 0 {
		budget, err := s.svc.CreateBudget(ctx, u.ID, models.Budget{
			Name:        now.Format("January 2006"),
			Description: "Monthly plan",
		})
		if err != nil {
			return sum, fmt.Errorf("seeding budget: %w", err)
		}
		for i := 0; i < opts.BudgetItems; i++ {
			_, err := s.svc.CreateBudgetItem(ctx, u.ID, budget.ID, models.BudgetItem{
				Name:   expenseCategories[i%len(expenseCategories)],
				Amount: s.price(50, 800),
			})
			if err != nil {
				return sum, fmt.Errorf("seeding budget item: %w", err)
			}
			sum.BudgetItems++
		}
	}

	if opts.WishlistItems > 0 {
		parent, err := s.svc.CreateWishlistParent(ctx, u.ID, models.WishlistParent{
			Name:        "Goals " + uuid.NewString()[:8],
			Description: s.faker.Sentence(5),
		})
		if err != nil {
			return sum, fmt.Errorf("seeding wishlist: %w", err)
		}
		for i := 0; i < opts.WishlistItems; i++ {
			_, err := s.svc.CreateWishlist(ctx, u.ID, models.Wishlist{
				ParentID:    parent.ID,
				Label:       s.faker.ProductName(),
				Description: s.faker.Sentence(8),
				URL:         s.faker.URL(),
				Price:       s.price(5, 1500),
			})
			if err != nil {
				return sum, fmt.Errorf("seeding wishlist item: %w", err)
			}
			sum.WishlistItems++
		}
	}
	return sum, nil
}
