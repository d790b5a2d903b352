package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"recordpager/config"
	"recordpager/internal/adapters/auth"
	"recordpager/internal/adapters/email"
	"recordpager/internal/domain"
	"recordpager/internal/repository/memory"
	"recordpager/internal/repository/postgres"
	redisrepo "recordpager/internal/repository/redis"
	"recordpager/internal/services"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// app holds the wired dependencies shared by the serve and seed commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	users       domain.UserRepository
	collections domain.CollectionRepository
	records     domain.RecordRepository

	tokens    *auth.JWT
	authSvc   domain.AuthService
	browseSvc domain.BrowseService

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	if err := a.openStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	a.tokens = auth.NewJWT(cfg.JWTSecret)
	a.authSvc = services.NewAuthService(a.users, auth.NewBcryptHasher(bcrypt.DefaultCost), a.tokens, cfg.JWTExpiry)
	a.browseSvc = services.NewBrowseService(
		a.collections,
		a.records,
		a.users,
		services.NewEmailService(mailer, renderer, logger),
		services.PageLimits{DefaultPageSize: cfg.DefaultPageSize, MaxPageSize: cfg.MaxPageSize},
		cfg.ContextTimeout,
	)
	return a, nil
}

func (a *app) openStorage(ctx context.Context) error {
	switch a.cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		a.users, a.collections, a.records = store.Users(), store.Collections(), store.Records()
		a.logger.Warn("using in-memory storage; data is lost on exit")
	default:
		db, err := sql.Open("postgres", a.cfg.DBUrl)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return err
		}
		a.users = postgres.NewUserRepository(db)
		a.collections = postgres.NewCollectionRepository(db)
		a.records = postgres.NewRecordRepository(db)
		a.logger.Info("connected to postgres")
	}

	if a.cfg.RedisURL == "" {
		return nil
	}
	client, err := redisrepo.Connect(ctx, a.cfg.RedisURL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Close)
	a.records = redisrepo.NewCountCachedRecordRepository(a.records, client, a.cfg.CountCacheTTL, a.logger)
	a.logger.Info("record count cache enabled", "ttl", a.cfg.CountCacheTTL)
	return nil
}

// Close releases connections in reverse open order.
func (a *app) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("close", "err", err)
	}
}
