package workerapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/config"
	"github.com/gamerverse/backend/internal/infra/mailer"
	s3infra "github.com/gamerverse/backend/internal/infra/s3"
	digestjob "github.com/gamerverse/backend/internal/jobs/digest"
	outboxjob "github.com/gamerverse/backend/internal/jobs/outbox"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
	redrepo "github.com/gamerverse/backend/internal/repo/redis"
	auditsvc "github.com/gamerverse/backend/internal/services/audit"
	digestsvc "github.com/gamerverse/backend/internal/services/digest"
	"github.com/gamerverse/backend/internal/services/notify"
)

type job interface {
	Run(ctx context.Context) error
	Interval() time.Duration
	// FirstDelay is how long to wait after start before the first run.
	FirstDelay(now time.Time) time.Duration
}

// App runs the scheduled daily summary and drains the notification outbox.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	postgres *pgxpool.Pool
	redis    *goredis.Client

	digestJob   job
	dispatchJob job
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redrepo.Ping(ctx, redisClient); err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	var archive digestsvc.Archiver
	if cfg.Moderation.DigestArchive {
		s3Client, err := s3infra.NewClient(s3infra.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			logger.Warn("s3 init failed, summaries will not be archived", zap.Error(err))
		} else {
			archive = s3infra.NewArchive(s3Client, cfg.S3.Bucket)
		}
	}

	sender, err := newSender(cfg.Mail, logger)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	outboxRepo := redrepo.NewOutboxRepo(redisClient)
	outbox := notify.NewOutbox(outboxRepo, cfg.Mail.ModTeamEmail)
	dispatcher := notify.NewDispatcher(
		outboxRepo,
		sender,
		cfg.Moderation.OutboxBatchSize,
		cfg.Moderation.OutboxMaxAttempts,
		logger.Named("dispatcher"),
	)

	auditService := auditsvc.NewService(pgrepo.NewModerationLogRepo(pool))
	digestService := digestsvc.NewService(auditService, outbox, archive, digestsvc.Config{
		Window:     cfg.Moderation.DigestWindow,
		MaxEntries: cfg.Moderation.DigestMaxEntries,
	}, logger.Named("digest"))

	return &App{
		cfg:         cfg,
		logger:      logger,
		postgres:    pool,
		redis:       redisClient,
		digestJob:   digestjob.New(digestService, cfg.Moderation.DigestInterval, logger.Named("digest_job")),
		dispatchJob: outboxjob.New(dispatcher, cfg.Moderation.DispatchInterval, logger.Named("outbox_job")),
	}, nil
}

func newSender(cfg config.MailConfig, logger *zap.Logger) (mailer.Sender, error) {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("sendgrid api key is empty, emails will only be logged")
		return mailer.NewLogSender(logger.Named("mailer")), nil
	}

	sender, err := mailer.NewSendGrid(mailer.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromName:  cfg.FromName,
		FromEmail: cfg.FromEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("init sendgrid: %w", err)
	}
	return sender, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("worker app started")

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.runLoop(ctx, "daily_summary", a.digestJob)
	}()
	go func() {
		errCh <- a.runLoop(ctx, "outbox_dispatch", a.dispatchJob)
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("worker app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

// runLoop runs j after its first delay and then on every tick. Job failures
// are logged and retried on the next tick; only cancellation ends the loop.
func (a *App) runLoop(ctx context.Context, name string, j job) error {
	if j == nil {
		return nil
	}

	if delay := j.FirstDelay(time.Now()); delay > 0 {
		a.logger.Info("job scheduled", zap.String("job", name), zap.Duration("first_run_in", delay))
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}

	a.runJob(ctx, name, j)

	ticker := time.NewTicker(j.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.runJob(ctx, name, j)
		}
	}
}

func (a *App) runJob(ctx context.Context, name string, j job) {
	if err := j.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("job run failed", zap.String("job", name), zap.Error(err))
	}
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
