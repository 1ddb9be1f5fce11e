package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docflow-backend/internal/documents"
	"docflow-backend/internal/organizations"
	"docflow-backend/internal/projects"
	"docflow-backend/internal/server"
	"docflow-backend/internal/shared/config"
	"docflow-backend/internal/shared/storage/db"
	"docflow-backend/internal/shared/storage/object"
	localstore "docflow-backend/internal/shared/storage/object/local"
	s3store "docflow-backend/internal/shared/storage/object/s3"
	"docflow-backend/internal/users"
)

// App holds the wired application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store

	UsersRepo         users.Repo
	OrganizationsRepo organizations.Repo
	ProjectsRepo      projects.Repo
	DocumentsRepo     documents.Repo

	UsersService         *users.Service
	OrganizationsService *organizations.Service
	ProjectsService      *projects.Service
	DocumentsService     *documents.Service
}

// Build prepares shared dependencies and wires the router.
//
// Backend selection: DATABASE_URL wins, then SQLITE_PATH, otherwise the
// in-memory repositories (dev and tests only).
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, backend, err := buildDB(ctx, cfg)
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
	}

	switch backend {
	case "postgres":
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.OrganizationsRepo = organizations.NewPGRepo(sqlDB)
		app.ProjectsRepo = projects.NewPGRepo(sqlDB)
		app.DocumentsRepo = documents.NewPGRepo(sqlDB)
	case "sqlite":
		app.UsersRepo = &users.SQLiteRepo{DB: sqlDB}
		app.OrganizationsRepo = organizations.NewSQLiteRepo(sqlDB)
		app.ProjectsRepo = projects.NewSQLiteRepo(sqlDB)
		app.DocumentsRepo = documents.NewSQLiteRepo(sqlDB)
	default:
		app.UsersRepo = users.NewMemoryRepo()
		app.OrganizationsRepo = organizations.NewMemoryRepo()
		app.ProjectsRepo = projects.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
	}

	app.UsersService = &users.Service{
		Repo:      app.UsersRepo,
		JWTSecret: []byte(cfg.JWTSecret),
		TokenTTL:  cfg.TokenTTL,
	}
	app.OrganizationsService = organizations.NewService(app.OrganizationsRepo, app.ProjectsRepo, app.DocumentsRepo, app.Store)
	app.ProjectsService = projects.NewService(app.ProjectsRepo, app.OrganizationsRepo, app.DocumentsRepo, app.Store)
	app.DocumentsService = documents.NewService(app.DocumentsRepo, app.ProjectsRepo, app.Store, cfg.MaxUploadBytes, cfg.StaleProcessingAfter)

	app.Router = server.NewEngine(cfg, server.Handlers{
		Users:         users.NewHandler(app.UsersService),
		Organizations: organizations.NewHandler(app.OrganizationsService),
		Projects:      projects.NewHandler(app.ProjectsService),
		Documents:     documents.NewHandler(app.DocumentsService, cfg.MaxUploadBytes),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, string, error) {
	if url := strings.TrimSpace(cfg.DatabaseURL); url != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err := db.Connect(ctx, url, opts)
		if err != nil {
			return nil, "", fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, "", fmt.Errorf("run migrations: %w", err)
		}
		return sqlDB, "postgres", nil
	}

	if path := strings.TrimSpace(cfg.SQLitePath); path != "" {
		sqlDB, err := db.OpenSQLite(path)
		if err != nil {
			return nil, "", fmt.Errorf("open sqlite: %w", err)
		}
		return sqlDB, "sqlite", nil
	}

	if !isDevLike(cfg.Env) {
		return nil, "", fmt.Errorf("DATABASE_URL or SQLITE_PATH is required in %s", cfg.Env)
	}
	log.Printf("bootstrap: no database configured; using in-memory repositories")
	return nil, "memory", nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
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
