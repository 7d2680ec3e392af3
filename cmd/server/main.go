package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"finance_backend/internal/app/router"
	authadapters "finance_backend/internal/feature/auth/adapters"
	"finance_backend/internal/feature/auth/adapters/oauth"
	authhandler "finance_backend/internal/feature/auth/transport/handler"
	authusecase "finance_backend/internal/feature/auth/usecase"
	ledgeradapters "finance_backend/internal/feature/ledger/adapters"
	ledgerhandler "finance_backend/internal/feature/ledger/transport/handler"
	ledgerusecase "finance_backend/internal/feature/ledger/usecase"
	reportadapters "finance_backend/internal/feature/report/adapters"
	reporthandler "finance_backend/internal/feature/report/transport/handler"
	reportusecase "finance_backend/internal/feature/report/usecase"
	"finance_backend/internal/platform/cache"
	"finance_backend/internal/platform/config"
	platformdb "finance_backend/internal/platform/db"
	jwtmw "finance_backend/internal/platform/jwt"
	platformredis "finance_backend/internal/platform/redis"
	"finance_backend/internal/platform/session"
)

func main() {
	cfg := config.Load()

	// db
	db := platformdb.OpenDB(cfg)

	// Redis
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		if tmp, err := platformredis.NewRedisClient(cfg); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	categoryRepo := ledgeradapters.NewCategoryRepository(db)
	transactionRepo := ledgeradapters.NewTransactionRepository(db)
	rowSource := reportadapters.NewRowSource(db)

	// Report rows go through the Redis cache; the same decorator drops
	// cached windows when the ledger mutates.
	cachedRows := cache.NewCachingRowSource(rdb, cfg.CacheTTL, rowSource, "reports")

	// Usecase
	tokens := jwtmw.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authUC := authusecase.NewAuthUsecase(userRepo, tokens)
	categoryUC := ledgerusecase.NewCategoryUsecase(categoryRepo, cachedRows)
	transactionUC := ledgerusecase.NewTransactionUsecase(transactionRepo, categoryRepo, cachedRows)
	reportUC := reportusecase.NewReportUsecase(cachedRows)

	// OAuth providers
	providers := map[string]authhandler.OAuthProvider{}
	if cfg.GoogleClientID != "" {
		providers["google"] = oauth.NewGoogleProvider(
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BackendURL+"/auth/google/callback")
	}
	if cfg.GitHubClientID != "" {
		providers["github"] = oauth.NewGitHubProvider(
			cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.BackendURL+"/auth/github/callback")
	}

	// Handler
	states := session.NewStateStore(rdb, "oauthstate", session.DefaultStateTTL)
	authH := authhandler.NewAuthHandler(authUC, providers, states, cfg.FrontendURL)
	categoryH := ledgerhandler.NewCategoryHandler(categoryUC)
	transactionH := ledgerhandler.NewTransactionHandler(transactionUC)
	reportH := reporthandler.NewReportHandler(reportUC)

	r := router.NewRouter(tokens, authH, categoryH, transactionH, reportH, cfg.FrontendURL)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
