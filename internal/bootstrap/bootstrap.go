// Package bootstrap builds the object graph shared by the server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/lock"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/Dubey-IITB/resume-tracker/internal/matching"
	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type App struct {
	DB    *gorm.DB
	Redis *redis.Client
	// Provider names the transport behind Transport.
	Provider   string
	Transport  service.Completer
	Tokens     *service.TokenService
	Candidates *usecase.CandidateUsecase
	Jobs       *usecase.JobUsecase
	Ranking    *usecase.RankingUsecase
	Auth       *usecase.AuthUsecase
	log        *zap.Logger
}

// New connects to the database, picks the oracle transport and wires every
// usecase. Close releases what New opened.
func New(ctx context.Context, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)
	db, err := OpenDB(config.LoadDBConfig())
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	oracleCfg := config.LoadOracleConfig()
	transport, err := NewTransport(ctx, oracleCfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("oracle transport ready", zap.String("provider", oracleCfg.Provider))

	app := &App{DB: db, Provider: oracleCfg.Provider, Transport: transport, log: log}
	app.Redis = lock.NewRedisClient(config.LoadRedisConfig(), log)
	rankingCfg := config.LoadRankingConfig()
	locker := lock.NewRedisLocker(app.Redis, rankingCfg.LockTTL, log)

	authCfg := config.LoadAuthConfig()
	app.Tokens = service.NewTokenService(authCfg.JWTSecret, authCfg.TokenTTL)
	if authCfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, login is disabled")
	}

	wire(app, db, service.NewOracleService(transport, oracleCfg, log), locker, rankingCfg, oracleCfg)
	return app, nil
}

func wire(app *App, db *gorm.DB, oracle service.OracleServiceInterface, locker lock.Locker, rankingCfg *config.RankingConfig, oracleCfg *config.OracleConfig) {
	candidateRepo := repository.NewCandidateRepository(db)
	jobRepo := repository.NewJobRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	userRepo := repository.NewUserRepository(db)

	weights := matching.Weights{
		JD:          rankingCfg.WeightJD,
		Comparative: rankingCfg.WeightComparative,
		Salary:      rankingCfg.WeightSalary,
	}
	appCfg := config.LoadAppConfig()

	app.Ranking = usecase.NewRankingUsecase(candidateRepo, jobRepo, matchRepo, oracle, locker, weights, oracleCfg.Concurrency, app.log)
	app.Candidates = usecase.NewCandidateUsecase(
		candidateRepo,
		jobRepo,
		service.NewLocalFileStorage(appCfg.UploadDir),
		service.NewPDFExtractor(appCfg.PDFOCR, app.log),
		oracle,
		app.Ranking,
		app.log,
	)
	app.Jobs = usecase.NewJobUsecase(jobRepo)
	app.Auth = usecase.NewAuthUsecase(userRepo, app.Tokens)
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func OpenDB(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Candidate{}, &model.Job{}, &model.CandidateJobMatch{}, &model.User{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// NewTransport returns the completion backend named by the oracle config.
func NewTransport(ctx context.Context, cfg *config.OracleConfig, log *zap.Logger) (service.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		gemini, err := service.NewGeminiService(ctx, config.LoadGeminiConfig(), cfg.Timeout, log)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case config.ProviderOpenRouter:
		openRouter, err := service.NewOpenRouterService(config.LoadOpenRouterConfig(), cfg.Timeout, log)
		if err != nil {
			return nil, err
		}
		return openRouter, nil
	case config.ProviderOllama:
		return service.NewOllamaService(config.LoadOllamaConfig(), cfg.Timeout, log), nil
	}
	return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
}
