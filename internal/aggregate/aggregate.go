// Package aggregate computes derived financial views over ledger rows that
// were already scoped to one user and date range.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftmatrix/savetrack-api/models"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

var hundred = decimal.NewFromInt(100)

// ParsePeriod accepts any case and defaults to monthly.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Yearly:
		return p
	default:
		return Monthly
	}
}

// PeriodKey returns the bucket label of t: 2024-01-15, 2024-W03, 2024-01 or 2024.
func PeriodKey(t time.Time, p Period) string {
	t = t.UTC()
	switch p {
	case Daily:
		return t.Format("2006-01-02")
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case Yearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

// Percentage is part/total*100 rounded to two places, or zero when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// Balance is the account's initial value plus the signed sum of its entries.
func Balance(a models.Account, entries []models.LedgerEntry) decimal.Decimal {
	b := a.InitValue
	for _, e := range entries {
		if e.AccountID == a.ID {
			b = b.Add(e.Signed())
		}
	}
	return b
}

// Balances computes Balance for every account, ordered by label.
func Balances(accounts []models.Account, entries []models.LedgerEntry) []models.AccountBalance {
	out := make([]models.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		n := 0
		for _, e := range entries {
			if e.AccountID == a.ID {
				n++
			}
		}
		out = append(out, models.AccountBalance{
			AccountID:        a.ID,
			Label:            a.Label,
			IsCredit:         a.IsCredit,
			InitValue:        a.InitValue,
			Balance:          Balance(a, entries),
			TransactionCount: n,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

type Totals struct {
	Income   decimal.Decimal `json:"totalIncome"`
	Expenses decimal.Decimal `json:"totalExpenses"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"transactionCount"`
}

func Summarize(entries []models.LedgerEntry) Totals {
	var t Totals
	for _, e := range entries {
		if e.IsPositive {
			t.Income = t.Income.Add(e.Amount)
		} else {
			t.Expenses = t.Expenses.Add(e.Amount)
		}
		t.Count++
	}
	t.Net = t.Income.Sub(t.Expenses)
	return t
}

// Filter keeps income entries when positive is true and expenses otherwise.
func Filter(entries []models.LedgerEntry, positive bool) []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, e := range entries {
		if e.IsPositive == positive {
			out = append(out, e)
		}
	}
	return out
}

type Bucket struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// GroupByPeriod partitions entries by time bucket. Expenses are reported as
// absolute amounts. Buckets are ordered by key.
func GroupByPeriod(entries []models.LedgerEntry, p Period) []Bucket {
	idx := make(map[string]*Bucket)
	for _, e := range entries {
		key := PeriodKey(e.CreatedAt, p)
		b, ok := idx[key]
		if !ok {
			b = &Bucket{Period: key}
			idx[key] = b
		}
		if e.IsPositive {
			b.Income = b.Income.Add(e.Amount)
		} else {
			b.Expenses = b.Expenses.Add(e.Amount)
		}
		b.Count++
	}
	out := make([]Bucket, 0, len(idx))
	for _, b := range idx {
		b.Net = b.Income.Sub(b.Expenses)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// Share is one group's slice of a total.
type Share struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Average    decimal.Decimal `json:"average"`
	Percentage decimal.Decimal `json:"percentage"`
}

func CategoryBreakdown(entries []models.LedgerEntry, positive bool) []Share {
	return breakdown(Filter(entries, positive), func(e models.LedgerEntry) (uuid.UUID, string) {
		return e.CategoryID, e.CategoryName
	})
}

func AccountBreakdown(entries []models.LedgerEntry, positive bool) []Share {
	return breakdown(Filter(entries, positive), func(e models.LedgerEntry) (uuid.UUID, string) {
		return e.AccountID, e.AccountName
	})
}

func breakdown(entries []models.LedgerEntry, key func(models.LedgerEntry) (uuid.UUID, string)) []Share {
	total := decimal.Zero
	idx := make(map[uuid.UUID]*Share)
	var order []uuid.UUID
	for _, e := range entries {
		id, name := key(e)
		s, ok := idx[id]
		if !ok {
			s = &Share{ID: id, Name: name}
			idx[id] = s
			order = append(order, id)
		}
		s.Amount = s.Amount.Add(e.Amount)
		s.Count++
		total = total.Add(e.Amount)
	}
	out := make([]Share, 0, len(order))
	for _, id := range order {
		s := idx[id]
		s.Average = average(s.Amount, s.Count)
		s.Percentage = Percentage(s.Amount, total)
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out
}

// GoalProgress sums the items under each wishlist parent, largest goal first.
func GoalProgress(parents []models.WishlistParent, items []models.Wishlist) []models.GoalProgress {
	out := make([]models.GoalProgress, 0, len(parents))
	for _, p := range parents {
		g := models.GoalProgress{
			ParentID:    p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
		}
		for _, w := range items {
			if w.ParentID == p.ID {
				g.TotalItems++
				g.TotalValue = g.TotalValue.Add(w.Price)
			}
		}
		g.AverageItemPrice = average(g.TotalValue, g.TotalItems)
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
