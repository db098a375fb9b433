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
	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

type ReportKind string

const (
	ReportSummary  ReportKind = "summary"
	ReportExpenses ReportKind = "expenses"
	ReportIncome   ReportKind = "income"
	ReportGoals    ReportKind = "goals"
)

func ParseReportKind(s string) (ReportKind, error) {
	switch k := ReportKind(strings.ToLower(s)); k {
	case ReportSummary, ReportExpenses, ReportIncome, ReportGoals:
		return k, nil
	}
	return "", apperr.NotFound("report type " + s)
}

// ReportRequest selects the date range of a generated report. Missing bounds
// default to the last month.
type ReportRequest struct {
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	SaveReport bool       `json:"saveReport"`
}

type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// dateRange fills missing bounds with now and now minus months.
func (s *Service) dateRange(from, to *time.Time, months int) (DateRange, error) {
	now := s.now()
	r := DateRange{StartDate: now.AddDate(0, -months, 0), EndDate: now}
	if from != nil {
		r.StartDate = *from
	}
	if to != nil {
		r.EndDate = *to
	}
	if r.StartDate.After(r.EndDate) {
		return r, apperr.Validation("startDate must not be after endDate")
	}
	return r, nil
}

type AccountSummary struct {
	Label    string          `json:"label"`
	Balance  decimal.Decimal `json:"balance"`
	IsCredit bool            `json:"isCredit"`
}

type SummaryTotals struct {
	aggregate.Totals
	TotalBalance decimal.Decimal `json:"totalBalance"`
	MonthlyBills decimal.Decimal `json:"monthlyBills"`
}

type SummaryReport struct {
	Period            DateRange         `json:"period"`
	Summary           SummaryTotals     `json:"summary"`
	CategoryBreakdown []aggregate.Share `json:"categoryBreakdown"`
	AccountSummary    []AccountSummary  `json:"accountSummary"`
}

// FlowReport is the shape of both the expenses and the income report.
type FlowReport struct {
	Period            DateRange          `json:"period"`
	TotalExpenses     *decimal.Decimal   `json:"totalExpenses,omitempty"`
	TotalIncome       *decimal.Decimal   `json:"totalIncome,omitempty"`
	TransactionCount  int                `json:"transactionCount"`
	CategoryBreakdown []aggregate.Share  `json:"categoryBreakdown"`
	AccountBreakdown  []aggregate.Share  `json:"accountBreakdown"`
	MonthlyTrend      []aggregate.Bucket `json:"monthlyTrend"`
}

type GoalTotals struct {
	TotalGoals int             `json:"totalGoals"`
	TotalItems int             `json:"totalItems"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

type GoalsReport struct {
	Period      DateRange             `json:"period"`
	Summary     GoalTotals            `json:"summary"`
	GoalDetails []models.GoalProgress `json:"goalDetails"`
}

// Generated is a computed payload and, when it was persisted, the stored
// report.
type Generated struct {
	Data   any
	Report *models.Report
}

func (s *Service) GenerateReport(ctx context.Context, userID uuid.UUID, kind ReportKind, req ReportRequest) (*Generated, error) {
	rng, err := s.dateRange(req.StartDate, req.EndDate, 1)
	if err != nil {
		return nil, err
	}
	var data any
	switch kind {
	case ReportSummary:
		data, err = s.summaryReport(ctx, userID, rng)
	case ReportExpenses:
		data, err = s.flowReport(ctx, userID, rng, false)
	case ReportIncome:
		data, err = s.flowReport(ctx, userID, rng, true)
	case ReportGoals:
		data, err = s.goalsReport(ctx, userID, rng)
	default:
		return nil, apperr.NotFound("report type " + string(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("building %s report: %w", kind, err)
	}

	out := &Generated{Data: data}
	if !req.SaveReport {
		return out, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s report: %w", kind, err)
	}
	rep := models.Report{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      string(kind),
		Endpoint:  "/reports/generate/" + string(kind),
		Response:  raw,
		TimeStamp: s.now(),
	}
	s.stamp(&rep.CreatedAt, &rep.UpdatedAt)
	if err := s.store.Reports().Insert(ctx, &rep); err != nil {
		return nil, fmt.Errorf("saving %s report: %w", kind, err)
	}
	out.Report = &rep
	return out, nil
}

func (s *Service) ledger(ctx context.Context, userID uuid.UUID, rng DateRange) ([]models.LedgerEntry, error) {
	return s.store.Ledger(ctx, userID, store.LedgerFilter{From: rng.StartDate, To: rng.EndDate})
}

func (s *Service) summaryReport(ctx context.Context, userID uuid.UUID, rng DateRange) (*SummaryReport, error) {
	entries, err := s.ledger(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	balances, err := s.store.AccountBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.Bills().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rep := &SummaryReport{
		Period:            rng,
		Summary:           SummaryTotals{Totals: aggregate.Summarize(entries)},
		CategoryBreakdown: aggregate.CategoryBreakdown(entries, false),
		AccountSummary:    make([]AccountSummary, 0, len(balances)),
	}
	for _, b := range balances {
		rep.Summary.TotalBalance = rep.Summary.TotalBalance.Add(b.Balance)
		rep.AccountSummary = append(rep.AccountSummary, AccountSummary{Label: b.Label, Balance: b.Balance, IsCredit: b.IsCredit})
	}
	for _, b := range bills {
		if b.Status != models.BillPaid {
			rep.Summary.MonthlyBills = rep.Summary.MonthlyBills.Add(b.Amount)
		}
	}
	return rep, nil
}

func (s *Service) flowReport(ctx context.Context, userID uuid.UUID, rng DateRange, income bool) (*FlowReport, error) {
	entries, err := s.ledger(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	flow := aggregate.Filter(entries, income)
	totals := aggregate.Summarize(flow)
	rep := &FlowReport{
		Period:            rng,
		TransactionCount:  totals.Count,
		CategoryBreakdown: aggregate.CategoryBreakdown(flow, income),
		AccountBreakdown:  aggregate.AccountBreakdown(flow, income),
		MonthlyTrend:      aggregate.GroupByPeriod(flow, aggregate.Monthly),
	}
	if income {
		rep.TotalIncome = &totals.Income
	} else {
		rep.TotalExpenses = &totals.Expenses
	}
	return rep, nil
}

func (s *Service) goalsReport(ctx context.Context, userID uuid.UUID, rng DateRange) (*GoalsReport, error) {
	goals, err := s.store.GoalProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	rep := &GoalsReport{Period: rng, GoalDetails: goals}
	rep.Summary.TotalGoals = len(goals)
	for _, g := range goals {
		rep.Summary.TotalItems += g.TotalItems
		rep.Summary.TotalValue = rep.Summary.TotalValue.Add(g.TotalValue)
	}
	return rep, nil
}

func (s *Service) checkReport(r *models.Report) error {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Endpoint = strings.TrimSpace(r.Endpoint)
	var v rules
	v.required("type", r.Type, 50)
	v.required("endpoint", r.Endpoint, 200)
	v.json("response", r.Response)
	if err := v.err(); err != nil {
		return err
	}
	if r.TimeStamp.IsZero() {
		r.TimeStamp = s.now()
	}
	return nil
}

// ListReports returns the user's stored reports, newest first.
func (s *Service) ListReports(ctx context.Context, userID uuid.UUID) ([]models.Report, error) {
	reps, err := s.store.Reports().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reps, func(i, j int) bool { return reps[i].TimeStamp.After(reps[j].TimeStamp) })
	return reps, nil
}

func (s *Service) GetReport(ctx context.Context, userID, id uuid.UUID) (*models.Report, error) {
	return owned(ctx, s.store.Reports(), store.Reports, id, userID, "report")
}

func (s *Service) CreateReport(ctx context.Context, userID uuid.UUID, in models.Report) (*models.Report, error) {
	if err := s.checkReport(&in); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Reports().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateReport(ctx context.Context, userID, id uuid.UUID, in models.Report) (*models.Report, error) {
	cur, err := s.GetReport(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.TimeStamp.IsZero() {
		in.TimeStamp = cur.TimeStamp
	}
	if err := s.checkReport(&in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Reports().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating report: %w", err)
	}
	return &in, nil
}

func (s *Service) DeleteReport(ctx context.Context, userID, id uuid.UUID) error {
	return remove(ctx, s.store.Reports(), store.Reports, id, userID, "report")
}
