package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/ai"
	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

type InsightKind string

const (
	InsightSpending      InsightKind = "spending-analysis"
	InsightBudgetAdvice  InsightKind = "budget-advice"
	InsightBudgetWarning InsightKind = "budget-warnings"
	InsightSavings       InsightKind = "savings-advice"
)

// insightDef is what a generated insight is stored as.
type insightDef struct {
	ai       ai.Kind
	typ      string
	title    string
	priority string
	category string
}

var insightDefs = map[InsightKind]insightDef{
	InsightSpending:      {ai.SpendingAnalysis, "analysis", "Spending Pattern Analysis", "medium", "spending"},
	InsightBudgetAdvice:  {ai.BudgetAdvice, "suggestion", "Budget Optimization Advice", "high", "budget"},
	InsightBudgetWarning: {ai.BudgetWarning, "warning", "Budget Alert", "high", "budget"},
	InsightSavings:       {ai.SavingsTip, "tip", "Savings Goal Advice", "medium", "goal"},
}

func (s *Service) ListInsights(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Insight, error) {
	all, err := s.store.Insights().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.Insight{}
	for _, in := range all {
		if !unreadOnly || !in.IsRead {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkInsightRead flips IsRead. Nothing else about an insight ever changes.
func (s *Service) MarkInsightRead(ctx context.Context, userID uuid.UUID, id int64) (*models.Insight, error) {
	in, err := owned(ctx, s.store.Insights(), store.Insights, id, userID, "insight")
	if err != nil {
		return nil, err
	}
	if in.IsRead {
		return in, nil
	}
	in.IsRead = true
	if err := s.store.Insights().Update(ctx, in); err != nil {
		return nil, fmt.Errorf("marking insight %d read: %w", id, err)
	}
	return in, nil
}

func (s *Service) DeleteInsight(ctx context.Context, userID uuid.UUID, id int64) error {
	return remove(ctx, s.store.Insights(), store.Insights, id, userID, "insight")
}

// GenerateInsight gathers the data kind needs, asks the model for advice and
// stores the result. The model never fails the request; an unreachable model
// yields the fallback text.
func (s *Service) GenerateInsight(ctx context.Context, userID uuid.UUID, kind InsightKind) (*models.Insight, error) {
	def, ok := insightDefs[kind]
	if !ok {
		return nil, apperr.NotFound("insight type " + string(kind))
	}
	data, err := s.insightData(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	content := s.ai.Generate(ctx, def.ai, data)
	provider, model := ai.Provider, s.ai.Model()
	in := models.Insight{
		UserID:         userID,
		Type:           def.typ,
		Title:          def.title,
		Content:        content,
		Priority:       def.priority,
		Category:       def.category,
		CreatedAt:      s.now(),
		AIProvider:     &provider,
		AIModelVersion: &model,
	}
	if err := s.store.Insights().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("saving insight: %w", err)
	}
	return &in, nil
}

func (s *Service) insightData(ctx context.Context, userID uuid.UUID, kind InsightKind) (ai.Data, error) {
	var d ai.Data
	switch kind {
	case InsightSpending:
		txs, err := s.store.Ledger(ctx, userID, store.LedgerFilter{Limit: 50})
		if err != nil {
			return d, err
		}
		if len(txs) == 0 {
			return d, apperr.Validation("no transactions found for analysis")
		}
		cats, err := s.store.Categories().ListByUser(ctx, userID)
		if err != nil {
			return d, err
		}
		d.Transactions, d.Categories = txs, cats

	case InsightBudgetAdvice:
		budget, err := s.latestBudget(ctx, userID)
		if err != nil {
			return d, err
		}
		if budget == nil {
			return d, apperr.Validation("no budget found")
		}
		txs, err := s.store.Ledger(ctx, userID, store.LedgerFilter{Limit: 30})
		if err != nil {
			return d, err
		}
		d.Budget, d.Transactions = budget, txs

	case InsightBudgetWarning:
		cats, err := s.store.Categories().ListByUser(ctx, userID)
		if err != nil {
			return d, err
		}
		if len(cats) == 0 {
			return d, apperr.Validation("no categories found")
		}
		now := s.now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		txs, err := s.store.Ledger(ctx, userID, store.LedgerFilter{From: monthStart})
		if err != nil {
			return d, err
		}
		d.Categories, d.Transactions = cats, txs

	case InsightSavings:
		items, err := s.WishlistsWithParents(ctx, userID)
		if err != nil {
			return d, err
		}
		if len(items) == 0 {
			return d, apperr.Validation("no savings goals found")
		}
		txs, err := s.store.Ledger(ctx, userID, store.LedgerFilter{Limit: 30})
		if err != nil {
			return d, err
		}
		accounts, err := s.store.AccountBalances(ctx, userID)
		if err != nil {
			return d, err
		}
		d.Wishlist, d.Transactions, d.Accounts = items, txs, accounts
	}
	return d, nil
}
