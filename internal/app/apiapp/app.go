package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/config"
	s3infra "github.com/gamerverse/backend/internal/infra/s3"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
	redrepo "github.com/gamerverse/backend/internal/repo/redis"
	appealssvc "github.com/gamerverse/backend/internal/services/appeals"
	auditsvc "github.com/gamerverse/backend/internal/services/audit"
	authsvc "github.com/gamerverse/backend/internal/services/auth"
	digestsvc "github.com/gamerverse/backend/internal/services/digest"
	modsvc "github.com/gamerverse/backend/internal/services/moderation"
	"github.com/gamerverse/backend/internal/services/notify"
	postssvc "github.com/gamerverse/backend/internal/services/posts"
	ratesvc "github.com/gamerverse/backend/internal/services/rate"
	reportssvc "github.com/gamerverse/backend/internal/services/reports"
	userssvc "github.com/gamerverse/backend/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	outboxRepo := redrepo.NewOutboxRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	postRepo := pgrepo.NewPostRepo(pool, reportRepo)
	appealRepo := pgrepo.NewAppealRepo(pool)
	moderationLogRepo := pgrepo.NewModerationLogRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	loginLimiter := ratesvc.NewLimiter(rateRepo, "login", cfg.Limits.LoginMaxPerWindow, cfg.Limits.LoginWindow)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, loginLimiter, cfg.Auth.SessionTTL)
	userService := userssvc.NewService(userRepo)

	reportService := reportssvc.NewService(reportRepo)
	appealService := appealssvc.NewService(appealRepo)
	auditService := auditsvc.NewService(moderationLogRepo)

	reportLimiter := ratesvc.NewLimiter(rateRepo, "report", cfg.Limits.ReportMaxPerWindow, cfg.Limits.ReportWindow)
	postService := postssvc.NewService(postRepo, appealService, reportLimiter)

	outbox := notify.NewOutbox(outboxRepo, cfg.Mail.ModTeamEmail)
	digestService := digestsvc.NewService(auditService, outbox, newArchive(cfg, log), digestsvc.Config{
		Window:     cfg.Moderation.DigestWindow,
		MaxEntries: cfg.Moderation.DigestMaxEntries,
	}, log.Named("digest"))

	moderationService := modsvc.NewService(
		postRepo,
		reportService,
		appealService,
		auditService,
		digestService,
		outbox,
		modsvc.Config{LogPageSize: cfg.Moderation.LogPageSize},
		log.Named("moderation"),
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		UserService:       userService,
		PostService:       postService,
		ModerationService: moderationService,
		Logger:            log,
		Config:            cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

// newArchive returns nil when archiving is off or object storage is unreachable;
// summaries are still delivered without an archived copy.
func newArchive(cfg config.Config, log *zap.Logger) digestsvc.Archiver {
	if !cfg.Moderation.DigestArchive {
		return nil
	}
	client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		log.Warn("s3 init failed, summaries will not be archived", zap.Error(err))
		return nil
	}
	return s3infra.NewArchive(client, cfg.S3.Bucket)
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
