package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/config"
	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/handlers"
	"github.com/brewlog-io/brewlog/pkg/logging"
	"github.com/brewlog-io/brewlog/pkg/middleware"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/repositories"
	"github.com/brewlog-io/brewlog/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("schema_store", cfg.Storage.SchemaStore),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
	)

	ctx := context.Background()

	// Database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Migrations run over database/sql as required by golang-migrate.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	// Redis is optional; without it token revocation is disabled.
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Info("Redis not configured, token revocation disabled")
	}

	// Auth
	auth.InitSessionStore(cfg.Auth.SessionKey, int(cfg.Auth.TokenTTL.Seconds()))
	tokens := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, redisClient, logger)
	authMiddleware := auth.NewMiddleware(tokens, logger)
	scopeMiddleware := handlers.ScopeMiddleware(database.WithRequestScope(db, logger))

	// Repositories
	userRepo := repositories.NewUserRepository()
	fieldRepo := repositories.NewFieldRepository()
	brewRepo := repositories.NewBrewRepository()

	var schemaRepo repositories.SchemaRepository
	if cfg.Storage.SchemaStore == config.SchemaStoreDocument {
		schemaRepo = repositories.NewSchemaDocumentRepository()
	} else {
		schemaRepo = repositories.NewSchemaRepository()
	}

	// Services
	accountService := services.NewAccountService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	fieldService := services.NewFieldService(fieldRepo, logger)
	schemaService := services.NewSchemaService(schemaRepo, logger)
	brewService := services.NewBrewService(brewRepo, logger)

	mux := http.NewServeMux()

	// Register handlers
	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.Env, logger)
	healthHandler.RegisterRoutes(mux)

	accountHandler := handlers.NewAccountHandler(accountService, tokens, logger)
	accountHandler.RegisterRoutes(mux, authMiddleware, scopeMiddleware)

	fieldHandler := handlers.NewFieldHandler(fieldService, logger)
	fieldHandler.RegisterRoutes(mux, authMiddleware, scopeMiddleware)

	schemaHandler := handlers.NewSchemaHandler(schemaService, logger)
	schemaHandler.RegisterRoutes(mux, authMiddleware, scopeMiddleware)

	brewHandler := handlers.NewBrewHandler(brewService, logger)
	brewHandler.RegisterRoutes(mux, authMiddleware, scopeMiddleware)

	for _, kind := range models.ItemKinds {
		itemService := services.NewItemService(repositories.NewOwnedItemRepository(kind), logger)
		itemHandler := handlers.NewItemHandler(kind, itemService, logger)
		itemHandler.RegisterRoutes(mux, authMiddleware, scopeMiddleware)
	}

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting brewlog", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
