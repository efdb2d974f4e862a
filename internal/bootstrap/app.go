package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/customers"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/services/health"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/server"
	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/storage/db"
	"docvault-backend/internal/shared/storage/object"
	localstore "docvault-backend/internal/shared/storage/object/local"
	s3store "docvault-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	CustomersRepo    customers.Repo
	DocumentsRepo    documents.Repo
	CustomersService *customers.Service
	DocumentsService *documents.Service
	CustomersHandler *customers.Handler
	DocumentsHandler *documents.Handler
	Health           *health.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Health: health.NewService(),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.Health,
		CustomersHandler: app.CustomersHandler,
		DocumentsHandler: app.DocumentsHandler,
		Authenticate:     authenticateFunc(app.CustomersService),
		RateLimiter:      middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var customerRepo customers.Repo
	var documentRepo documents.Repo

	if app.DB != nil {
		customerRepo = &customers.PGRepo{DB: app.DB}
		documentRepo = &documents.PGRepo{DB: app.DB}
	} else {
		customerRepo = customers.NewMemoryRepo()
		documentRepo = documents.NewMemoryRepo()
	}

	customerSvc := customers.NewService(customerRepo)
	customerSvc.Timeout = app.Config.StorageTimeout

	documentSvc := documents.NewService(app.Store, documentRepo, app.Config.AllowedExtensions)
	documentSvc.Timeout = app.Config.StorageTimeout

	app.CustomersRepo = customerRepo
	app.DocumentsRepo = documentRepo
	app.CustomersService = customerSvc
	app.DocumentsService = documentSvc
	app.CustomersHandler = customers.NewHandler(customerSvc)
	app.DocumentsHandler = documents.NewHandler(documentSvc)
}

// authenticateFunc adapts the customers service to the auth middleware,
// translating its sentinels so only an unknown key reads as a bad
// credential; store timeouts stay retryable and anything else is a fault.
func authenticateFunc(svc *customers.Service) middleware.AuthenticateFunc {
	return func(ctx context.Context, apiKey string) (string, error) {
		customer, err := svc.Authenticate(ctx, apiKey)
		switch {
		case err == nil:
			return customer.ID, nil
		case errors.Is(err, customers.ErrNotFound):
			return "", middleware.ErrUnknownKey
		case errors.Is(err, customers.ErrUnavailable):
			return "", middleware.ErrUnavailable
		default:
			return "", err
		}
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
