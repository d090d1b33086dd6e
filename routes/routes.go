package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/handlers"
	"github.com/fadhlanhapp/splitbill-backend/metrics"
)

// SetupRoutes configures all API routes for the application. requireAuth
// guards everything except signup, login and the operational endpoints.
func SetupRoutes(router *gin.Engine, h *handlers.Handlers, requireAuth gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")

	// Auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	protected := api.Group("", requireAuth)
	{
		protected.GET("/users/search", h.Users.Search)
		protected.POST("/receipts/scan", h.Receipt.Scan)

		// Split bill endpoints
		protected.GET("/splitbills", h.SplitBill.List)
		protected.POST("/splitbills", h.SplitBill.Create)
		protected.GET("/splitbills/:id", h.SplitBill.Get)
		protected.GET("/splitbills/:id/settlement", h.SplitBill.Settlement)
		protected.GET("/splitbills/:id/export", h.Excel.Export)

		// Participant endpoints
		protected.POST("/splitbills/:id/participants", h.SplitBill.AddParticipant)
		protected.DELETE("/splitbills/:id/participants", h.SplitBill.RemoveParticipant)
		protected.DELETE("/splitbills/:id/participants/:participantId", h.SplitBill.RemoveParticipant)

		// Expense endpoints
		protected.POST("/splitbills/:id/expenses", h.Expense.Create)
		protected.POST("/splitbills/:id/expenses/scan", h.Expense.CreateFromReceipt)
		protected.DELETE("/splitbills/:id/expenses", h.Expense.Delete)
		protected.DELETE("/splitbills/:id/expenses/:expenseId", h.Expense.Delete)
	}
}
