package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/catalog"
	"treatment-backend/internal/feedback"
	"treatment-backend/internal/queue"
	"treatment-backend/internal/recommendations"
	"treatment-backend/internal/services/health"
	"treatment-backend/internal/shared/config"
	"treatment-backend/internal/shared/server"
	"treatment-backend/internal/shared/server/middleware"
	"treatment-backend/internal/shared/storage/db"
	"treatment-backend/internal/shared/storage/object"
	localstore "treatment-backend/internal/shared/storage/object/local"
	s3store "treatment-backend/internal/shared/storage/object/s3"
	"treatment-backend/internal/shared/telemetry"
	"treatment-backend/internal/steeltypes"
	"treatment-backend/internal/workinstructions"
)

// App holds shared dependencies.
type App struct {
	Config                  config.Config
	Router                  *gin.Engine
	DB                      *sql.DB
	Store                   object.ObjectStore
	Queue                   queue.Client
	WorkInstructionsRepo    workinstructions.Repo
	SteelTypesRepo          steeltypes.Repo
	RecommendationsRepo     recommendations.Repo
	FeedbackRepo            feedback.Repo
	WorkInstructionsService *workinstructions.Service
	SteelTypesService       *steeltypes.Service
	RecommendationsService  *recommendations.Service
	FeedbackService         *feedback.Service
	HealthService           *health.Service
}

// Build prepares dependencies and the router. Without DATABASE_URL, dev-like
// environments fall back to in-memory repositories.
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

	if err := seedCatalog(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                 app.Config,
		Health:                 app.HealthService,
		RecommendationHandler:  recommendations.NewHandler(app.RecommendationsService, app.WorkInstructionsRepo),
		FeedbackHandler:        feedback.NewHandler(app.FeedbackService),
		WorkInstructionHandler: workinstructions.NewHandler(app.WorkInstructionsService),
		SteelTypeHandler:       steeltypes.NewHandler(app.SteelTypesService),
		RateLimiter:            middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
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
	if strings.TrimSpace(cfg.EventsQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.EventsQueueURL, cfg.AWSRegion)
}

func buildServices(app *App) {
	if app.DB != nil {
		app.WorkInstructionsRepo = &workinstructions.PGRepo{DB: app.DB}
		app.SteelTypesRepo = &steeltypes.PGRepo{DB: app.DB}
		app.RecommendationsRepo = &recommendations.PGRepo{DB: app.DB}
		app.FeedbackRepo = &feedback.PGRepo{DB: app.DB}
		app.HealthService = health.NewService(app.DB)
	} else {
		wiRepo := workinstructions.NewMemoryRepo()
		fbRepo := feedback.NewMemoryRepo()
		recRepo := recommendations.NewMemoryRepo()
		recRepo.Instructions = wiRepo
		recRepo.Feedback = fbRepo

		app.WorkInstructionsRepo = wiRepo
		app.SteelTypesRepo = steeltypes.NewMemoryRepo()
		app.RecommendationsRepo = recRepo
		app.FeedbackRepo = fbRepo
		app.HealthService = health.NewService(nil)
	}

	app.WorkInstructionsService = workinstructions.NewService(app.WorkInstructionsRepo, app.Store)
	app.SteelTypesService = &steeltypes.Service{Repo: app.SteelTypesRepo}
	app.RecommendationsService = &recommendations.Service{
		Candidates: app.WorkInstructionsRepo,
		Repo:       app.RecommendationsRepo,
		Steels:     app.SteelTypesService,
		Events:     app.Queue,
	}
	app.FeedbackService = &feedback.Service{
		Repo:            app.FeedbackRepo,
		Recommendations: recommendationAdapter{svc: app.RecommendationsService},
	}
}

func seedCatalog(ctx context.Context, app *App) error {
	path := strings.TrimSpace(app.Config.CatalogSeedFile)
	if path == "" {
		return nil
	}
	f, err := catalog.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load catalog seed: %w", err)
	}
	if _, err := catalog.Seed(ctx, f, app.SteelTypesService, app.WorkInstructionsService); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

var (
	_ recommendations.WorkInstructionGetter = (workinstructions.Repo)(nil)
	_ recommendations.FeedbackCounter       = (feedback.Repo)(nil)
)

type recommendationAdapter struct {
	svc *recommendations.Service
}

func (a recommendationAdapter) Exists(ctx context.Context, recommendationID string) error {
	if _, err := a.svc.Get(ctx, recommendationID); err != nil {
		if errors.Is(err, recommendations.ErrNotFound) {
			return feedback.ErrRecommendationNotFound
		}
		return err
	}
	return nil
}
