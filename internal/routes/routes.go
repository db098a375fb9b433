// Package routes mounts the HTTP surface on a gin engine.
package routes

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/internal/auth"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/handlers"
)

// CORSMiddleware echoes allowed origins back and answers preflight requests.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && slices.Contains(origins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// Setup registers every route. Both API versions share one handler set;
// only the token endpoints differ between them.
func Setup(r *gin.Engine, h *handlers.Handler, tokens *auth.Tokens, resolver *auth.Resolver, cfg *config.Config) {
	r.Use(CORSMiddleware(cfg.CORS))
	requireAuth := auth.Middleware(tokens, resolver)

	r.GET("/health", handlers.Health)

	v1 := r.Group("/api/v1")
	v1.POST("/usertoken/:email", h.UserToken)
	resources(v1.Group("", requireAuth), h)

	v2 := r.Group("/api/v2")
	v2.GET("/auth/validate", h.ValidateToken)
	resources(v2.Group("", requireAuth), h)

	if !cfg.Production() {
		debug := r.Group("/debug")
		debug.GET("", h.Debug)
		debug.POST("/generate-token", h.DebugGenerateToken)
		debug.GET("/secure-endpoint", requireAuth, h.DebugSecure)
	}
}

func resources(g *gin.RouterGroup, h *handlers.Handler) {
	g.GET("/users/me", h.Me)

	accounts := g.Group("/accounts")
	accounts.GET("", h.ListAccounts)
	accounts.GET("/balances", h.AccountBalances)
	accounts.POST("", h.CreateAccount)
	accounts.GET("/:id", h.GetAccount)
	accounts.GET("/:id/balance", h.AccountBalance)
	accounts.PUT("/:id", h.UpdateAccount)
	accounts.DELETE("/:id", h.DeleteAccount)

	categories := g.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	tx := g.Group("/transactions")
	tx.GET("", h.ListTransactions)
	tx.POST("", h.CreateTransaction)
	tx.GET("/account/:accountId", h.TransactionsByAccount)
	tx.GET("/category/:categoryId", h.TransactionsByCategory)
	tx.GET("/:id", h.GetTransaction)
	tx.PUT("/:id", h.UpdateTransaction)
	tx.DELETE("/:id", h.DeleteTransaction)

	bills := g.Group("/bills")
	bills.GET("", h.ListBills)
	bills.POST("", h.CreateBill)
	bills.GET("/upcoming", h.UpcomingBills)
	bills.GET("/overdue", h.OverdueBills)
	bills.GET("/:id", h.GetBill)
	bills.PUT("/:id", h.UpdateBill)
	bills.PATCH("/:id/pay", h.PayBill)
	bills.DELETE("/:id", h.DeleteBill)

	budgets := g.Group("/budgets")
	budgets.GET("", h.ListBudgets)
	budgets.POST("", h.CreateBudget)
	budgets.GET("/:id", h.GetBudget)
	budgets.PUT("/:id", h.UpdateBudget)
	budgets.DELETE("/:id", h.DeleteBudget)
	budgets.GET("/:id/items", h.ListBudgetItems)
	budgets.POST("/:id/items", h.CreateBudgetItem)
	budgets.PUT("/:id/items/:itemId", h.UpdateBudgetItem)
	budgets.DELETE("/:id/items/:itemId", h.DeleteBudgetItem)

	wl := g.Group("/wishlists")
	wl.GET("", h.ListWishlists)
	wl.POST("", h.CreateWishlist)
	wl.GET("/with-parents", h.WishlistsWithParents)
	wl.GET("/parents", h.ListWishlistParents)
	wl.POST("/parents", h.CreateWishlistParent)
	wl.GET("/parents/:id", h.GetWishlistParent)
	wl.PUT("/parents/:id", h.UpdateWishlistParent)
	wl.DELETE("/parents/:id", h.DeleteWishlistParent)
	wl.GET("/:id", h.GetWishlist)
	wl.PUT("/:id", h.UpdateWishlist)
	wl.DELETE("/:id", h.DeleteWishlist)

	insights := g.Group("/insights")
	insights.GET("", h.ListInsights)
	insights.GET("/unread", h.UnreadInsights)
	insights.PATCH("/:id/read", h.MarkInsightRead)
	insights.DELETE("/:id", h.DeleteInsight)
	insights.POST("/generate/:kind", h.GenerateInsight)

	reports := g.Group("/reports")
	reports.GET("", h.ListReports)
	reports.POST("", h.CreateReport)
	reports.POST("/generate/:type", h.GenerateReport)
	reports.GET("/:id", h.GetReport)
	reports.PUT("/:id", h.UpdateReport)
	reports.DELETE("/:id", h.DeleteReport)

	charts := g.Group("/charts")
	charts.GET("", h.ListCharts)
	charts.POST("", h.CreateChart)
	charts.POST("/generate", h.GenerateChart)
	charts.POST("/clear-cache", h.ClearChartCache)
	charts.GET("/:id", h.GetChart)
	charts.PUT("/:id", h.UpdateChart)
	charts.DELETE("/:id", h.DeleteChart)
}
