package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/accounts"
	"findmydreamjobs/internal/applications"
	googleauth "findmydreamjobs/internal/auth"
	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/dashboard"
	"findmydreamjobs/internal/jdi"
	"findmydreamjobs/internal/jobs"
	"findmydreamjobs/internal/matching"
	"findmydreamjobs/internal/resumes"
	"findmydreamjobs/internal/services/health"
	"findmydreamjobs/internal/session"
	"findmydreamjobs/internal/shared/auth"
	"findmydreamjobs/internal/shared/config"
	"findmydreamjobs/internal/shared/server"
	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/storage/db"
	"findmydreamjobs/internal/shared/storage/object"
	localstore "findmydreamjobs/internal/shared/storage/object/local"
	s3store "findmydreamjobs/internal/shared/storage/object/s3"
	"findmydreamjobs/internal/shared/telemetry"
	"findmydreamjobs/internal/users"
	"findmydreamjobs/internal/wizard"
)

const sessionSweepInterval = time.Hour

// App holds shared dependencies and the wired router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.Store
	Backend *backend.Client

	Sessions *session.Service
	Users    *users.Service
	Resumes  *resumes.Service
	Jobs     *jobs.Service
	Matching *matching.Service
	Apps     *applications.Service
	JDI      *jdi.Service
	Wizard   *wizard.Service
	Health   *health.Service
}

// Build prepares every dependency and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	auth.Configure(cfg.SessionSecret, cfg.IsProduction())

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Backend: backend.New(cfg.BackendBaseURL, cfg.BackendTimeout),
	}
	app.Router = buildRouter(app)
	return app, nil
}

// Run starts background work tied to ctx.
func (a *App) Run(ctx context.Context) {
	go a.Sessions.RunSweeper(ctx, sessionSweepInterval)
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if !cfg.IsProduction() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if !cfg.IsProduction() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
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

func buildRouter(app *App) *gin.Engine {
	var (
		userRepo    users.Repo
		sessionRepo session.Repo
		archiveRepo resumes.ArchiveRepo
		boardRepo   jobs.BoardRepo
		draftStore  jdi.DraftStore
		wizardRepo  wizard.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		sessionRepo = &session.PGRepo{DB: app.DB}
		archiveRepo = &resumes.PGRepo{DB: app.DB}
		boardRepo = &jobs.PGRepo{DB: app.DB}
		draftStore = jdi.NewPGStore(app.DB)
		wizardRepo = &wizard.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		sessionRepo = session.NewMemoryRepo()
		archiveRepo = resumes.NewMemoryRepo()
		boardRepo = jobs.NewMemoryRepo()
		draftStore = jdi.NewMemoryStore()
		wizardRepo = wizard.NewMemoryRepo()
	}

	cfg := app.Config
	client := app.Backend
	secure := cfg.IsProduction()

	app.Users = users.NewService(userRepo)
	app.Sessions = session.NewService(sessionRepo, cfg.SessionTTL)
	app.Wizard = wizard.NewService(wizardRepo, client)
	app.Resumes = resumes.NewService(client, archiveRepo, app.Store)
	app.Jobs = jobs.NewService(client, boardRepo)
	app.Matching = matching.NewService(client, app.Wizard)
	app.Apps = applications.NewService(client)
	app.JDI = jdi.NewService(client, draftStore, app.Wizard)

	app.Health = health.NewService().Observe("backend", client.Ping)
	if app.DB != nil {
		app.Health.Require("database", func(ctx context.Context) error {
			return db.Ping(ctx, app.DB, 0)
		})
	}

	sessionHandler := session.NewHandler(app.Sessions, secure)
	google := googleauth.NewGoogleSignIn(googleauth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		PublicURL:    cfg.PublicURL,
		SecureCookie: secure,
	}, client, app.Users, sessionHandler)

	return server.NewRouter(server.RouterDeps{
		Config:              cfg,
		Health:              app.Health,
		Sessions:            app.Sessions,
		SessionHandler:      sessionHandler,
		AccountsHandler:     accounts.NewHandler(accounts.NewService(client, app.Users), sessionHandler),
		GoogleAuth:          google,
		UsersHandler:        users.NewHandler(app.Users),
		ResumesHandler:      resumes.NewHandler(app.Resumes),
		JobsHandler:         jobs.NewHandler(app.Jobs),
		MatchingHandler:     matching.NewHandler(app.Matching),
		ApplicationsHandler: applications.NewHandler(app.Apps),
		JDIHandler:          jdi.NewHandler(app.JDI),
		WizardHandler:       wizard.NewHandler(app.Wizard),
		DashboardHandler:    dashboard.NewHandler(dashboard.NewService(client)),
		RateLimiter:         middleware.NewRateLimiter(nil),
	})
}
