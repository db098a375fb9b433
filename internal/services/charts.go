package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftmatrix/savetrack-api/internal/aggregate"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

const chartCacheTTL = 24 * time.Hour

// ChartFilter narrows ListCharts. Empty fields match everything.
type ChartFilter struct {
	ChartType string
	Category  string
}

// ChartRequest describes a chart to compute from the user's data.
type ChartRequest struct {
	ChartType string     `json:"chartType"`
	Title     string     `json:"title"`
	Period    string     `json:"period"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Category  string     `json:"category"`
	SaveChart bool       `json:"saveChart"`
}

func (s *Service) checkChart(c *models.ChartData) error {
	c.ChartType = strings.ToLower(strings.TrimSpace(c.ChartType))
	c.Period = strings.ToLower(strings.TrimSpace(c.Period))
	if c.Period == "" {
		c.Period = string(aggregate.Monthly)
	}
	c.Category = strings.ToLower(strings.TrimSpace(c.Category))

	var r rules
	r.required("chartType", c.ChartType, 50)
	r.required("title", c.Title, 100)
	r.json("dataSet", c.DataSet)
	if c.ChartConfig != nil {
		r.json("chartConfig", *c.ChartConfig)
	}
	r.maxLen("period", c.Period, 50)
	r.maxLen("category", c.Category, 50)
	if err := r.err(); err != nil {
		return err
	}

	c.CacheExpiresAt = nil
	if c.IsCached {
		exp := s.now().Add(chartCacheTTL)
		c.CacheExpiresAt = &exp
	}
	return nil
}

// ListCharts returns the user's charts newest first.
func (s *Service) ListCharts(ctx context.Context, userID uuid.UUID, f ChartFilter) ([]models.ChartData, error) {
	all, err := s.store.Charts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.ChartData{}
	for _, c := range all {
		if f.ChartType != "" && !strings.EqualFold(c.ChartType, f.ChartType) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) GetChart(ctx context.Context, userID uuid.UUID, id int64) (*models.ChartData, error) {
	return owned(ctx, s.store.Charts(), store.Charts, id, userID, "chart")
}

func (s *Service) CreateChart(ctx context.Context, userID uuid.UUID, in models.ChartData) (*models.ChartData, error) {
	if err := s.checkChart(&in); err != nil {
		return nil, err
	}
	in.ID = 0
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Charts().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating chart: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateChart(ctx context.Context, userID uuid.UUID, id int64, in models.ChartData) (*models.ChartData, error) {
	cur, err := s.GetChart(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkChart(&in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Charts().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating chart: %w", err)
	}
	return &in, nil
}

func (s *Service) DeleteChart(ctx context.Context, userID uuid.UUID, id int64) error {
	return remove(ctx, s.store.Charts(), store.Charts, id, userID, "chart")
}

// ClearChartCache deletes the user's cached charts that have expired.
func (s *Service) ClearChartCache(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.DeleteExpiredCharts(ctx, &userID, s.now())
}

// PurgeExpiredCharts clears expired caches of every user.
func (s *Service) PurgeExpiredCharts(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredCharts(ctx, nil, s.now())
}

type periodPoint struct {
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

type balancePoint struct {
	Account  string          `json:"account"`
	Balance  decimal.Decimal `json:"balance"`
	IsCredit bool            `json:"isCredit"`
}

type categoryPoint struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

type goalPoint struct {
	Goal       string          `json:"goal"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	ItemCount  int             `json:"itemCount"`
}

// GenerateChart computes a dataset for req.Category. With SaveChart the
// result is stored as a cached chart and returned in Chart.
func (s *Service) GenerateChart(ctx context.Context, userID uuid.UUID, req ChartRequest) (*GeneratedChart, error) {
	c := models.ChartData{
		ChartType: strings.ToLower(strings.TrimSpace(req.ChartType)),
		Title:     strings.TrimSpace(req.Title),
		Period:    string(aggregate.ParsePeriod(req.Period)),
		Category:  strings.ToLower(strings.TrimSpace(req.Category)),
	}
	if c.Category == "" {
		c.Category = "overview"
	}
	var r rules
	r.required("chartType", c.ChartType, 50)
	if err := r.err(); err != nil {
		return nil, err
	}
	rng, err := s.dateRange(req.StartDate, req.EndDate, 6)
	if err != nil {
		return nil, err
	}
	c.StartDate, c.EndDate = rng.StartDate, rng.EndDate

	data, err := s.chartData(ctx, userID, c.Category, aggregate.Period(c.Period), rng)
	if err != nil {
		return nil, fmt.Errorf("building %s chart: %w", c.Category, err)
	}
	out := &GeneratedChart{Data: data}
	if !req.SaveChart {
		return out, nil
	}

	if c.Title == "" {
		c.Title = fmt.Sprintf("%s %s Chart", c.Category, c.ChartType)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding chart data: %w", err)
	}
	c.DataSet = raw
	c.IsCached = true
	saved, err := s.CreateChart(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	out.Chart = saved
	return out, nil
}

type GeneratedChart struct {
	Data  any
	Chart *models.ChartData
}

func (s *Service) chartData(ctx context.Context, userID uuid.UUID, category string, p aggregate.Period, rng DateRange) (any, error) {
	switch category {
	case "expense", "income":
		entries, err := s.ledger(ctx, userID, rng)
		if err != nil {
			return nil, err
		}
		income := category == "income"
		points := []periodPoint{}
		for _, b := range aggregate.GroupByPeriod(aggregate.Filter(entries, income), p) {
			amt := b.Expenses
			if income {
				amt = b.Income
			}
			points = append(points, periodPoint{Period: b.Period, Amount: amt})
		}
		return points, nil

	case "balance":
		balances, err := s.store.AccountBalances(ctx, userID)
		if err != nil {
			return nil, err
		}
		points := make([]balancePoint, 0, len(balances))
		for _, b := range balances {
			points = append(points, balancePoint{Account: b.Label, Balance: b.Balance, IsCredit: b.IsCredit})
		}
		return points, nil

	case "category":
		entries, err := s.ledger(ctx, userID, rng)
		if err != nil {
			return nil, err
		}
		shares := append(aggregate.CategoryBreakdown(entries, false), aggregate.CategoryBreakdown(entries, true)...)
		points := make([]categoryPoint, 0, len(shares))
		for _, sh := range shares {
			points = append(points, categoryPoint{Category: sh.Name, Amount: sh.Amount, Count: sh.Count})
		}
		sort.SliceStable(points, func(i, j int) bool { return points[i].Amount.GreaterThan(points[j].Amount) })
		return points, nil

	case "goal":
		goals, err := s.store.GoalProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		points := make([]goalPoint, 0, len(goals))
		for _, g := range goals {
			points = append(points, goalPoint{Goal: g.Name, TotalPrice: g.TotalValue, ItemCount: g.TotalItems})
		}
		return points, nil

	default:
		entries, err := s.ledger(ctx, userID, rng)
		if err != nil {
			return nil, err
		}
		return aggregate.Summarize(entries), nil
	}
}
