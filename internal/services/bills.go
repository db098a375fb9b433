package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

const (
	DefaultUpcomingDays = 30
	maxUpcomingDays     = 365
)

var billStatuses = map[string]bool{models.BillPending: true, models.BillPaid: true, models.BillOverdue: true}

var recurrenceTypes = map[string]bool{
	models.RecurDaily: true, models.RecurWeekly: true, models.RecurMonthly: true, models.RecurYearly: true,
}

// NextDueDate advances from by interval units of kind. Month and year steps
// clamp to the last day of the target month. Unknown kinds and results past
// year 9999 fall back to one month.
func NextDueDate(from time.Time, kind string, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	var next time.Time
	switch kind {
	case models.RecurDaily:
		next = from.AddDate(0, 0, interval)
	case models.RecurWeekly:
		next = from.AddDate(0, 0, 7*interval)
	case models.RecurMonthly:
		next = addMonths(from, interval)
	case models.RecurYearly:
		next = addMonths(from, 12*interval)
	default:
		return addMonths(from, 1)
	}
	if next.Year() > 9999 {
		return addMonths(from, 1)
	}
	return next
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// PayResult is a paid bill and, for recurring bills, its successor.
type PayResult struct {
	Bill     models.Bill  `json:"bill"`
	NextBill *models.Bill `json:"nextBill,omitempty"`
}

func (s *Service) checkBill(ctx context.Context, userID uuid.UUID, b *models.Bill) error {
	now := s.now()
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	if b.Status == "" {
		b.Status = models.BillPending
	}
	b.Status = strings.ToLower(b.Status)

	var r rules
	r.required("name", b.Name, 100)
	r.check(validAmount(b.Amount), "amount must be greater than 0 and at most %s", maxAmount)
	r.check(!b.DueDate.Before(now.AddDate(0, 0, -365)), "dueDate cannot be more than a year in the past")
	r.check(!b.DueDate.After(now.AddDate(10, 0, 0)), "dueDate cannot be more than 10 years in the future")
	r.check(billStatuses[b.Status], "status must be one of pending, paid, overdue")
	r.check(len(b.Currency) == 3, "currency must be a 3-letter code")
	if b.Notes != nil {
		r.maxLen("notes", *b.Notes, 1000)
	}
	if b.IsRecurring {
		r.check(b.RecurrenceType != nil && recurrenceTypes[strings.ToLower(*b.RecurrenceType)],
			"recurrenceType must be one of daily, weekly, monthly, yearly")
		r.check(b.RecurrenceInterval != nil && *b.RecurrenceInterval >= 1 && *b.RecurrenceInterval <= 365,
			"recurrenceInterval must be between 1 and 365")
	}
	if err := r.err(); err != nil {
		return err
	}

	if b.CategoryID != nil {
		if _, err := s.GetCategory(ctx, userID, *b.CategoryID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.Validation("category %s does not exist", *b.CategoryID)
			}
			return err
		}
	}

	if b.IsRecurring {
		kind := strings.ToLower(*b.RecurrenceType)
		b.RecurrenceType = &kind
		next := NextDueDate(b.DueDate, kind, *b.RecurrenceInterval)
		b.NextDueDate = &next
	} else {
		b.RecurrenceType, b.RecurrenceInterval, b.NextDueDate = nil, nil, nil
	}
	return nil
}

// present reports the status a client should see: pending bills that are
// past due read as overdue.
func (s *Service) present(b models.Bill) models.Bill {
	b.Status = b.EffectiveStatus(s.now())
	return b
}

func (s *Service) ListBills(ctx context.Context, userID uuid.UUID) ([]models.Bill, error) {
	bills, err := s.store.Bills().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		bills[i] = s.present(bills[i])
	}
	sort.SliceStable(bills, func(i, j int) bool { return bills[i].DueDate.Before(bills[j].DueDate) })
	return bills, nil
}

func (s *Service) GetBill(ctx context.Context, userID uuid.UUID, id int64) (*models.Bill, error) {
	b, err := owned(ctx, s.store.Bills(), store.Bills, id, userID, "bill")
	if err != nil {
		return nil, err
	}
	out := s.present(*b)
	return &out, nil
}

func (s *Service) CreateBill(ctx context.Context, userID uuid.UUID, in models.Bill) (*models.Bill, error) {
	if err := s.checkBill(ctx, userID, &in); err != nil {
		return nil, err
	}
	in.ID = 0
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Bills().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating bill: %w", err)
	}
	out := s.present(in)
	return &out, nil
}

func (s *Service) UpdateBill(ctx context.Context, userID uuid.UUID, id int64, in models.Bill) (*models.Bill, error) {
	cur, err := owned(ctx, s.store.Bills(), store.Bills, id, userID, "bill")
	if err != nil {
		return nil, err
	}
	if err := s.checkBill(ctx, userID, &in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Bills().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating bill: %w", err)
	}
	out := s.present(in)
	return &out, nil
}

func (s *Service) DeleteBill(ctx context.Context, userID uuid.UUID, id int64) error {
	return remove(ctx, s.store.Bills(), store.Bills, id, userID, "bill")
}

// UpcomingBills lists pending bills due between today and today+days.
func (s *Service) UpcomingBills(ctx context.Context, userID uuid.UUID, days int) ([]models.Bill, error) {
	if days < 1 || days > maxUpcomingDays {
		return nil, apperr.Validation("days must be between 1 and %d", maxUpcomingDays)
	}
	today := startOfDay(s.now())
	until := today.AddDate(0, 0, days+1)
	return s.filterBills(ctx, userID, func(b models.Bill) bool {
		return b.Status == models.BillPending && !b.DueDate.Before(today) && b.DueDate.Before(until)
	})
}

func (s *Service) OverdueBills(ctx context.Context, userID uuid.UUID) ([]models.Bill, error) {
	now := s.now()
	return s.filterBills(ctx, userID, func(b models.Bill) bool {
		return b.EffectiveStatus(now) == models.BillOverdue
	})
}

func (s *Service) filterBills(ctx context.Context, userID uuid.UUID, keep func(models.Bill) bool) ([]models.Bill, error) {
	all, err := s.store.Bills().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.Bill{}
	for _, b := range all {
		if keep(b) {
			out = append(out, s.present(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// PayBill marks a bill paid. A recurring bill with a next due date spawns
// the next pending occurrence.
func (s *Service) PayBill(ctx context.Context, userID uuid.UUID, id int64) (*PayResult, error) {
	b, err := owned(ctx, s.store.Bills(), store.Bills, id, userID, "bill")
	if err != nil {
		return nil, err
	}
	if b.Status == models.BillPaid {
		return nil, apperr.Validation("bill is already paid")
	}
	b.Status = models.BillPaid
	b.UpdatedAt = s.now()
	if err := s.store.Bills().Update(ctx, b); err != nil {
		return nil, fmt.Errorf("paying bill %d: %w", id, err)
	}
	res := &PayResult{Bill: *b}

	if b.IsRecurring && b.NextDueDate != nil && b.RecurrenceType != nil {
		interval := 1
		if b.RecurrenceInterval != nil {
			interval = *b.RecurrenceInterval
		}
		following := NextDueDate(*b.NextDueDate, *b.RecurrenceType, interval)
		next := models.Bill{
			UserID:             userID,
			Name:               b.Name,
			Amount:             b.Amount,
			DueDate:            *b.NextDueDate,
			Status:             models.BillPending,
			CategoryID:         b.CategoryID,
			AutoRemind:         b.AutoRemind,
			Notes:              b.Notes,
			Currency:           b.Currency,
			IsRecurring:        true,
			RecurrenceType:     b.RecurrenceType,
			RecurrenceInterval: b.RecurrenceInterval,
			NextDueDate:        &following,
		}
		s.stamp(&next.CreatedAt, &next.UpdatedAt)
		if err := s.store.Bills().Insert(ctx, &next); err != nil {
			return nil, fmt.Errorf("creating next occurrence of bill %d: %w", id, err)
		}
		res.NextBill = &next
	}
	return res, nil
}
