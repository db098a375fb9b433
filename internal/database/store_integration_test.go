package database_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/backup"
	"github.com/craftmatrix/savetrack-api/internal/database"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

// PostgresSuite runs against the database named by DATABASE_URL. Every test
// works under a fresh user so runs never see each other's rows.
type PostgresSuite struct {
	suite.Suite
	ctx  context.Context
	pool *pgxpool.Pool
	st   *database.Store
	user models.User
}

func TestPostgresSuite(t *testing.T) {
	_ = godotenv.Load("../../.env")
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	suite.Run(t, &PostgresSuite{ctx: context.Background()})
}

func (s *PostgresSuite) SetupSuite() {
	pool, err := database.Connect(s.ctx, os.Getenv("DATABASE_URL"))
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(s.ctx, pool))
	s.pool = pool
	s.st = database.NewStore(pool)
}

func (s *PostgresSuite) TearDownSuite() {
	s.pool.Close()
}

func (s *PostgresSuite) SetupTest() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	s.user = models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: models.DefaultRole, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Users().Insert(s.ctx, &s.user))
}

func (s *PostgresSuite) account(label, init string) models.Account {
	now := time.Now().UTC()
	a := models.Account{ID: uuid.New(), UserID: s.user.ID, Label: label, InitValue: decimal.RequireFromString(init), CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Accounts().Insert(s.ctx, &a))
	return a
}

func (s *PostgresSuite) category(name string, positive bool) models.Category {
	now := time.Now().UTC()
	c := models.Category{ID: uuid.New(), UserID: s.user.ID, Name: name, IsPositive: positive, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Categories().Insert(s.ctx, &c))
	return c
}

func (s *PostgresSuite) spend(a models.Account, c models.Category, amount string, at time.Time) models.Transaction {
	t := models.Transaction{ID: uuid.New(), UserID: s.user.ID, AccountID: a.ID, CategoryID: c.ID, Amount: decimal.RequireFromString(amount), CreatedAt: at, UpdatedAt: at}
	s.Require().NoError(s.st.Transactions().Insert(s.ctx, &t))
	return t
}

func (s *PostgresSuite) TestUserByEmailIgnoresCase() {
	u, err := s.st.UserByEmail(s.ctx, strings.ToUpper(s.user.Email))
	s.Require().NoError(err)
	s.Equal(s.user.ID, u.ID)

	_, err = s.st.UserByEmail(s.ctx, "nobody-"+s.user.Email)
	s.True(apperr.Is(err, apperr.KindNotFound))
}

func (s *PostgresSuite) TestLedgerAndBalances() {
	acc := s.account("Wallet", "100")
	salary := s.category("Salary", true)
	food := s.category("Food", false)
	base := time.Now().UTC().Add(-time.Hour)
	s.spend(acc, salary, "200", base)
	latest := s.spend(acc, food, "50", base.Add(time.Minute))

	entries, err := s.st.Ledger(s.ctx, s.user.ID, store.LedgerFilter{})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(latest.ID, entries[0].ID)
	s.Equal("Food", entries[0].CategoryName)
	s.Equal("Wallet", entries[0].AccountName)

	limited, err := s.st.Ledger(s.ctx, s.user.ID, store.LedgerFilter{Limit: 1, CategoryID: &salary.ID})
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.True(limited[0].IsPositive)

	balances, err := s.st.AccountBalances(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(balances, 1)
	s.True(decimal.RequireFromString("250").Equal(balances[0].Balance), balances[0].Balance.String())
	s.Equal(2, balances[0].TransactionCount)
}

func (s *PostgresSuite) TestReferencedAccountCannotBeDeleted() {
	acc := s.account("Card", "0")
	s.spend(acc, s.category("Rent", false), "900", time.Now().UTC())

	_, err := s.st.Accounts().Delete(s.ctx, acc.ID)
	s.Require().Error(err)
	s.True(apperr.Is(err, apperr.KindConflict))
}

func (s *PostgresSuite) TestSerialBillKeys() {
	now := time.Now().UTC()
	b := models.Bill{UserID: s.user.ID, Name: "Power", Amount: decimal.NewFromInt(60), DueDate: now, Status: models.BillPending, Currency: "USD", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Bills().Insert(s.ctx, &b))
	s.NotZero(b.ID)

	got, err := s.st.Bills().Get(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("Power", got.Name)
}

func (s *PostgresSuite) TestWishlistParentCascade() {
	now := time.Now().UTC()
	p := models.WishlistParent{ID: uuid.New(), UserID: s.user.ID, Name: "Trip", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.WishlistParents().Insert(s.ctx, &p))
	for _, label := range []string{"Tent", "Boots"} {
		w := models.Wishlist{ID: uuid.New(), UserID: s.user.ID, ParentID: p.ID, Label: label, Price: decimal.NewFromInt(80), CreatedAt: now, UpdatedAt: now}
		s.Require().NoError(s.st.Wishlists().Insert(s.ctx, &w))
	}

	goals, err := s.st.GoalProgress(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(goals, 1)
	s.Equal(2, goals[0].TotalItems)

	_, err = s.st.DeleteWishlistParent(s.ctx, uuid.New(), p.ID)
	s.True(apperr.Is(err, apperr.KindNotFound))

	n, err := s.st.DeleteWishlistParent(s.ctx, s.user.ID, p.ID)
	s.Require().NoError(err)
	s.Equal(2, n)
	left, err := s.st.Wishlists().ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Empty(left)
}

func (s *PostgresSuite) TestBackupFromSnapshot() {
	s.account("Savings", "10")
	res, err := backup.Snapshot(s.ctx, s.st, filepath.Join(s.T().TempDir(), "pg.db"))
	s.Require().NoError(err)
	s.GreaterOrEqual(res.Rows["Accounts"], 1)
	s.GreaterOrEqual(res.Rows["Users"], 1)
}
