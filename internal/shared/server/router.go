package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/analyses"
	googleauth "resumatch-backend/internal/auth"
	"resumatch-backend/internal/extract"
	"resumatch-backend/internal/llm"
	openai "resumatch-backend/internal/llm/openai"
	"resumatch-backend/internal/shared/config"
	"resumatch-backend/internal/shared/metrics"
	"resumatch-backend/internal/shared/server/middleware"
	"resumatch-backend/internal/shared/server/respond"
	"resumatch-backend/internal/shared/storage/db"
	"resumatch-backend/internal/usage"
	"resumatch-backend/internal/users"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"ANALYZE": {Rate: 0.5, Burst: 3},
				"DEFAULT": {Rate: 10, Burst: 20},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/analyses") {
					return "ANALYZE"
				}
				return "DEFAULT"
			},
		}),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var analysisRepo analyses.AnalysesRepo
	var userRepo users.Repo
	var usageSvc *usage.Service
	if sqlDB != nil {
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
		userRepo = &users.PGRepo{DB: sqlDB}
		usageSvc = usage.NewPostgresService(usage.NewPGStore(sqlDB))
	} else {
		analysisRepo = analyses.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		usageSvc = usage.NewService()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if cfg.LLMProvider == "openai" {
		openaiClient, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("openai client not configured, analyses will fail: %v", err)
		} else {
			llmClient = openaiClient
		}
	}

	analysisSvc := &analyses.Service{
		Repo:  analysisRepo,
		Usage: usageSvc,
		LLM:   llmClient,
		Model: cfg.LLMModel,
	}
	analysisHandler := analyses.NewHandler(analysisSvc)
	usageHandler := usage.NewHandler(usageSvc)
	userSvc := users.NewService(userRepo)
	userHandler := users.NewHandler(userSvc)
	extractHandler := extract.NewHandler()
	googleAuthSvc := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		userSvc,
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	googleAuthSvc.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	analysisHandler.RegisterRoutes(api)
	usageHandler.RegisterRoutes(api)
	extractHandler.RegisterRoutes(api)
	if cfg.Env == "dev" {
		dev := api.Group("/dev")
		usageHandler.RegisterDevRoutes(dev)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
