package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/db"
	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/handler"
	"github.com/templui/golfjournal/internal/jobs"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/progress"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/service"
	"github.com/templui/golfjournal/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	EmailService    *service.EmailService
	RoundService    *service.RoundService
	GoalService     *service.GoalService
	JournalService  *service.JournalService
	PracticeService *service.PracticeService
	ExportService   *service.ExportService
	LiveHub         *handler.LiveHub
	Scheduler       *jobs.Scheduler

	roundsFeed *feed.Broker[[]*model.Round]
	goalsFeed  *feed.Broker[model.GoalSetting]
}

// New builds every collaborator. Nothing runs in the background until
// Start.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Progress policy from config
	policy, err := progressPolicy(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	roundRepository := repository.NewRoundRepository(database)
	goalSettingRepository := repository.NewGoalSettingRepository(database)
	practiceGoalRepository := repository.NewPracticeGoalRepository(database)
	practiceEntryRepository := repository.NewPracticeEntryRepository(database)

	// Storage (optional, archive exports only)
	var archive storage.Storage
	if cfg.ArchiveEnabled() {
		s3, err := storage.New(ctx, cfg)
		if err != nil {
			_ = db.Close(database)
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		archive = s3
	}

	// Live feeds, one broker per stream
	roundsFeed := feed.NewBroker[[]*model.Round]()
	goalsFeed := feed.NewBroker[model.GoalSetting]()

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenSignInExpiry,
	)
	userService := service.NewUserService(userRepository)
	roundService := service.NewRoundService(roundRepository, roundsFeed)
	goalService := service.NewGoalService(goalSettingRepository, goalsFeed, cfg.GoalDefaultTarget)
	journalService := service.NewJournalService(roundService, goalService, policy)
	practiceService := service.NewPracticeService(practiceGoalRepository, practiceEntryRepository)
	exportService := service.NewExportService(roundService, archive)

	// Jobs: nightly token cleanup
	scheduler := jobs.NewScheduler()
	err = scheduler.AddTokenCleanup(cfg.TokenCleanupSchedule, authService, cfg.TokenRetention)
	if err != nil {
		_ = db.Close(database)
		return nil, err
	}

	// Wire everything together
	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     userService,
		EmailService:    emailService,
		RoundService:    roundService,
		GoalService:     goalService,
		JournalService:  journalService,
		PracticeService: practiceService,
		ExportService:   exportService,
		LiveHub:         handler.NewLiveHub(),
		Scheduler:       scheduler,
		roundsFeed:      roundsFeed,
		goalsFeed:       goalsFeed,
	}, nil
}

func progressPolicy(cfg *config.Config) (progress.Policy, error) {
	source, err := progress.ParseSource(cfg.ProgressScoreSource)
	if err != nil {
		return progress.Policy{}, err
	}
	if cfg.ProgressStartLevel <= 0 {
		return progress.Policy{}, fmt.Errorf("progress start level must be positive, got %d", cfg.ProgressStartLevel)
	}

	slog.Info("progress policy", "source", source, "start_level", cfg.ProgressStartLevel)
	return progress.Policy{Source: source, StartLevel: cfg.ProgressStartLevel}, nil
}

// Start runs the background jobs.
func (a *App) Start() {
	a.Scheduler.Start()
}

// Close stops jobs, drops live connections and closes the database.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop producers before consumers
	a.Scheduler.Stop(ctx)
	a.LiveHub.Close()
	a.roundsFeed.Close()
	a.goalsFeed.Close()

	var errs []error
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	return errors.Join(errs...)
}
