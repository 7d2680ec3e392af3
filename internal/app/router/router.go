// Package router assembles the HTTP routes.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "finance_backend/internal/feature/auth/transport/handler"
	ledgerhandler "finance_backend/internal/feature/ledger/transport/handler"
	reporthandler "finance_backend/internal/feature/report/transport/handler"
	platformhandler "finance_backend/internal/platform/http/handler"
	jwtmw "finance_backend/internal/platform/jwt"
)

// NewRouter wires every handler into a gin engine. Routes under the
// authenticated group require a valid bearer token.
func NewRouter(
	verifier jwtmw.Verifier,
	auth *authhandler.AuthHandler,
	categories *ledgerhandler.CategoryHandler,
	transactions *ledgerhandler.TransactionHandler,
	reports *reporthandler.ReportHandler,
	frontendURL string,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)

	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.GET("/auth/:provider", auth.OAuthStart)
	r.GET("/auth/:provider/callback", auth.OAuthCallback)

	protected := r.Group("/")
	protected.Use(jwtmw.AuthRequired(verifier))
	{
		protected.GET("/auth/me", auth.Me)

		protected.GET("/categories", categories.List)
		protected.POST("/categories", categories.Create)
		protected.GET("/categories/:id", categories.Get)
		protected.PUT("/categories/:id", categories.Update)
		protected.DELETE("/categories/:id", categories.Delete)

		protected.GET("/transactions", transactions.List)
		protected.POST("/transactions", transactions.Create)
		protected.GET("/transactions/:id", transactions.Get)
		protected.PUT("/transactions/:id", transactions.Update)
		protected.DELETE("/transactions/:id", transactions.Delete)

		protected.GET("/reports/summary", reports.Summary)
		protected.GET("/reports/by-category", reports.ByCategory)
		protected.GET("/reports/monthly", reports.Monthly)
	}

	return r
}
