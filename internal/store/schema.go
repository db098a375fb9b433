package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/models"
)

// Schema describes how one entity maps onto a table. Columns[0] is the
// primary key and Values returns values in Columns order.
type Schema[T any, K comparable] struct {
	Name    string
	Table   string
	Columns []string
	// Serial marks keys generated by the database.
	Serial bool
	Key    func(*T) K
	SetKey func(*T, K)
	Owner  func(*T) uuid.UUID
	Values func(*T) []any
}

// Matches reports whether name refers to this table. Both the logical name
// and the SQL table name are accepted, case-insensitively.
func (s Schema[T, K]) Matches(name string) bool {
	return strings.EqualFold(name, s.Name) || strings.EqualFold(name, s.Table)
}

var Users = Schema[models.User, uuid.UUID]{
	Name:    "Users",
	Table:   "users",
	Columns: []string{"id", "email", "role", "created_at", "updated_at"},
	Key:     func(u *models.User) uuid.UUID { return u.ID },
	SetKey:  func(u *models.User, id uuid.UUID) { u.ID = id },
	Owner:   func(u *models.User) uuid.UUID { return u.ID },
	Values: func(u *models.User) []any {
		return []any{u.ID, u.Email, u.Role, u.CreatedAt, u.UpdatedAt}
	},
}

var Accounts = Schema[models.Account, uuid.UUID]{
	Name:    "Accounts",
	Table:   "accounts",
	Columns: []string{"id", "user_id", "label", "description", "init_value", "credit_limit", "is_credit", "created_at", "updated_at"},
	Key:     func(a *models.Account) uuid.UUID { return a.ID },
	SetKey:  func(a *models.Account, id uuid.UUID) { a.ID = id },
	Owner:   func(a *models.Account) uuid.UUID { return a.UserID },
	Values: func(a *models.Account) []any {
		return []any{a.ID, a.UserID, a.Label, a.Description, a.InitValue, a.Limit, a.IsCredit, a.CreatedAt, a.UpdatedAt}
	},
}

var Categories = Schema[models.Category, uuid.UUID]{
	Name:    "Categories",
	Table:   "categories",
	Columns: []string{"id", "user_id", "name", "description", "is_positive", "created_at", "updated_at"},
	Key:     func(c *models.Category) uuid.UUID { return c.ID },
	SetKey:  func(c *models.Category, id uuid.UUID) { c.ID = id },
	Owner:   func(c *models.Category) uuid.UUID { return c.UserID },
	Values: func(c *models.Category) []any {
		return []any{c.ID, c.UserID, c.Name, c.Description, c.IsPositive, c.CreatedAt, c.UpdatedAt}
	},
}

var Transactions = Schema[models.Transaction, uuid.UUID]{
	Name:    "Transactions",
	Table:   "transactions",
	Columns: []string{"id", "user_id", "description", "amount", "account_id", "category_id", "created_at", "updated_at"},
	Key:     func(t *models.Transaction) uuid.UUID { return t.ID },
	SetKey:  func(t *models.Transaction, id uuid.UUID) { t.ID = id },
	Owner:   func(t *models.Transaction) uuid.UUID { return t.UserID },
	Values: func(t *models.Transaction) []any {
		return []any{t.ID, t.UserID, t.Description, t.Amount, t.AccountID, t.CategoryID, t.CreatedAt, t.UpdatedAt}
	},
}

var Bills = Schema[models.Bill, int64]{
	Name:  "Bills",
	Table: "bills",
	Columns: []string{"id", "user_id", "name", "amount", "due_date", "status", "category_id", "auto_remind", "notes",
		"currency", "is_recurring", "recurrence_type", "recurrence_interval", "next_due_date", "created_at", "updated_at"},
	Serial: true,
	Key:    func(b *models.Bill) int64 { return b.ID },
	SetKey: func(b *models.Bill, id int64) { b.ID = id },
	Owner:  func(b *models.Bill) uuid.UUID { return b.UserID },
	Values: func(b *models.Bill) []any {
		return []any{b.ID, b.UserID, b.Name, b.Amount, b.DueDate, b.Status, b.CategoryID, b.AutoRemind, b.Notes,
			b.Currency, b.IsRecurring, b.RecurrenceType, b.RecurrenceInterval, b.NextDueDate, b.CreatedAt, b.UpdatedAt}
	},
}

var Budgets = Schema[models.Budget, uuid.UUID]{
	Name:    "Budgets",
	Table:   "budgets",
	Columns: []string{"id", "user_id", "name", "description", "created_at", "updated_at"},
	Key:     func(b *models.Budget) uuid.UUID { return b.ID },
	SetKey:  func(b *models.Budget, id uuid.UUID) { b.ID = id },
	Owner:   func(b *models.Budget) uuid.UUID { return b.UserID },
	Values: func(b *models.Budget) []any {
		return []any{b.ID, b.UserID, b.Name, b.Description, b.CreatedAt, b.UpdatedAt}
	},
}

var BudgetItems = Schema[models.BudgetItem, uuid.UUID]{
	Name:    "BudgetItems",
	Table:   "budget_items",
	Columns: []string{"id", "user_id", "budget_id", "name", "description", "amount", "created_at", "updated_at"},
	Key:     func(b *models.BudgetItem) uuid.UUID { return b.ID },
	SetKey:  func(b *models.BudgetItem, id uuid.UUID) { b.ID = id },
	Owner:   func(b *models.BudgetItem) uuid.UUID { return b.UserID },
	Values: func(b *models.BudgetItem) []any {
		return []any{b.ID, b.UserID, b.BudgetID, b.Name, b.Description, b.Amount, b.CreatedAt, b.UpdatedAt}
	},
}

var WishlistParents = Schema[models.WishlistParent, uuid.UUID]{
	Name:    "WishListParents",
	Table:   "wishlist_parents",
	Columns: []string{"id", "user_id", "name", "description", "created_at", "updated_at"},
	Key:     func(p *models.WishlistParent) uuid.UUID { return p.ID },
	SetKey:  func(p *models.WishlistParent, id uuid.UUID) { p.ID = id },
	Owner:   func(p *models.WishlistParent) uuid.UUID { return p.UserID },
	Values: func(p *models.WishlistParent) []any {
		return []any{p.ID, p.UserID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt}
	},
}

var Wishlists = Schema[models.Wishlist, uuid.UUID]{
	Name:    "WishLists",
	Table:   "wishlists",
	Columns: []string{"id", "user_id", "parent_id", "label", "description", "url", "price", "created_at", "updated_at"},
	Key:     func(w *models.Wishlist) uuid.UUID { return w.ID },
	SetKey:  func(w *models.Wishlist, id uuid.UUID) { w.ID = id },
	Owner:   func(w *models.Wishlist) uuid.UUID { return w.UserID },
	Values: func(w *models.Wishlist) []any {
		return []any{w.ID, w.UserID, w.ParentID, w.Label, w.Description, w.URL, w.Price, w.CreatedAt, w.UpdatedAt}
	},
}

var Insights = Schema[models.Insight, int64]{
	Name:  "Insights",
	Table: "insights",
	Columns: []string{"id", "user_id", "type", "title", "content", "priority", "category", "is_read", "is_actionable",
		"action_data", "created_at", "expires_at", "ai_provider", "ai_model_version"},
	Serial: true,
	Key:    func(i *models.Insight) int64 { return i.ID },
	SetKey: func(i *models.Insight, id int64) { i.ID = id },
	Owner:  func(i *models.Insight) uuid.UUID { return i.UserID },
	Values: func(i *models.Insight) []any {
		return []any{i.ID, i.UserID, i.Type, i.Title, i.Content, i.Priority, i.Category, i.IsRead, i.IsActionable,
			i.ActionData, i.CreatedAt, i.ExpiresAt, i.AIProvider, i.AIModelVersion}
	},
}

var Reports = Schema[models.Report, uuid.UUID]{
	Name:    "Reports",
	Table:   "reports",
	Columns: []string{"id", "user_id", "type", "endpoint", "response", "time_stamp", "created_at", "updated_at"},
	Key:     func(r *models.Report) uuid.UUID { return r.ID },
	SetKey:  func(r *models.Report, id uuid.UUID) { r.ID = id },
	Owner:   func(r *models.Report) uuid.UUID { return r.UserID },
	Values: func(r *models.Report) []any {
		return []any{r.ID, r.UserID, r.Type, r.Endpoint, r.Response, r.TimeStamp, r.CreatedAt, r.UpdatedAt}
	},
}

var Charts = Schema[models.ChartData, int64]{
	Name:  "ChartData",
	Table: "chart_data",
	Columns: []string{"id", "user_id", "chart_type", "title", "data_set", "period", "start_date", "end_date", "category",
		"chart_config", "is_cached", "cache_expires_at", "created_at", "updated_at"},
	Serial: true,
	Key:    func(c *models.ChartData) int64 { return c.ID },
	SetKey: func(c *models.ChartData, id int64) { c.ID = id },
	Owner:  func(c *models.ChartData) uuid.UUID { return c.UserID },
	Values: func(c *models.ChartData) []any {
		return []any{c.ID, c.UserID, c.ChartType, c.Title, c.DataSet, c.Period, c.StartDate, c.EndDate, c.Category,
			c.ChartConfig, c.IsCached, c.CacheExpiresAt, c.CreatedAt, c.UpdatedAt}
	},
}

// TableOrder lists logical table names with parents before children, the
// order bulk copies must insert in.
var TableOrder = []string{
	Users.Name, Accounts.Name, Categories.Name, Transactions.Name, Bills.Name, Budgets.Name, BudgetItems.Name,
	WishlistParents.Name, Wishlists.Name, Insights.Name, Reports.Name, Charts.Name,
}
