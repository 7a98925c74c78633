package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/audit"
	"legal-file-auditor/internal/classifier"
	"legal-file-auditor/internal/cmsadapter"
	"legal-file-auditor/internal/firms"
	"legal-file-auditor/internal/queue"
	"legal-file-auditor/internal/scans"
	"legal-file-auditor/internal/services/health"
	"legal-file-auditor/internal/shared/config"
	"legal-file-auditor/internal/shared/server"
	"legal-file-auditor/internal/shared/storage/db"
	"legal-file-auditor/internal/shared/storage/object"
	localstore "legal-file-auditor/internal/shared/storage/object/local"
	s3store "legal-file-auditor/internal/shared/storage/object/s3"
	"legal-file-auditor/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Queue    queue.Client
	Adapters *cmsadapter.Factory
	Engine   *audit.Engine
	Firms    *firms.Service
	Scans    *scans.Service
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(cfg, db.DefaultServerOptions())
}

// BuildWithOptions is Build with explicit connection pool settings.
func BuildWithOptions(cfg config.Config, dbOpts db.Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg, dbOpts)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(pinger(sqlDB)),
		FirmHandler:     firms.NewHandler(app.Firms),
		ScanHandler:     scans.NewHandler(app.Scans, cfg.ScanRequestTimeout),
		ClassifyHandler: classifier.NewHandler(classifier.NewPatternClassifier()),
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "err": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
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

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
}

func buildServices(app *App) {
	cfg := app.Config

	var firmRepo firms.Repo
	var scanRepo scans.Repo
	if app.DB != nil {
		firmRepo = &firms.PGRepo{DB: app.DB}
		scanRepo = &scans.PGRepo{DB: app.DB}
	} else {
		firmRepo = firms.NewMemoryRepo()
		scanRepo = scans.NewMemoryRepo()
	}

	app.Adapters = cmsadapter.NewFactory(cfg.CMSRequestTimeout, cfg.CMSPageDelay)
	app.Engine = audit.NewEngine(audit.Policy{
		ConfidenceThreshold: cfg.AuditConfidenceThreshold,
		StaleIntakeDays:     cfg.AuditStaleIntakeDays,
	})
	app.Firms = firms.NewService(firmRepo)

	var labeler *classifier.PatternClassifier
	if cfg.ClassifyUnlabeled {
		labeler = classifier.NewPatternClassifier()
	}
	app.Scans = &scans.Service{
		Firms:       app.Firms,
		Repo:        scanRepo,
		Adapters:    app.Adapters,
		Engine:      app.Engine,
		Classifier:  labeler,
		Store:       app.Store,
		Queue:       app.Queue,
		Concurrency: cfg.ScanConcurrency,
		CaseTimeout: cfg.ScanCaseTimeout,
	}
}

// pinger avoids handing health a typed-nil *sql.DB.
func pinger(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return sqlDB
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
