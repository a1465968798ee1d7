package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/descuentoclub/beneficios-api"
	"github.com/descuentoclub/beneficios-api/config"
	"github.com/descuentoclub/beneficios-api/mailer"
	"github.com/descuentoclub/beneficios-api/middleware/jwtware"
	"github.com/descuentoclub/beneficios-api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := auth.NewLogger("API")

	cfg, err := config.New()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := auth.EnsureSchema(ctx, db); err != nil {
		return err
	}
	if err := auth.SeedDefaultRoles(ctx, db); err != nil {
		return err
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := auth.NewTokenService(cfg, auth.NewLogger("TOKEN"))
	hasher := auth.NewHasher(cfg.GetBcryptCost())
	resolver := auth.NewIdentityResolver(repo, logger)

	var mail auth.Mailer
	if cfg.HasSMTP() {
		mail = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, nil)
	} else {
		logger.Warn("no SMTP relay configured, reset emails are logged only")
		mail = mailer.NewNoop(nil)
	}

	controller := server.NewAuthController(
		server.WithLogger(auth.NewLogger("HTTP")),
		server.WithHandlers(
			auth.NewLoginHandler(resolver, hasher, tokens, logger),
			auth.NewSignupHandler(repo, hasher, tokens, logger),
			auth.NewInitializePasswordResetHandler(resolver, tokens, mail, cfg.BaseURL, logger),
			auth.NewFinalizePasswordResetHandler(repo, resolver, tokens, hasher, logger),
		),
	)

	var validator jwtware.TokenValidator
	if len(cfg.JWKSURLs) > 0 {
		validator, err = jwtware.NewKeyfuncValidator(nil, cfg.JWKSURLs)
		if err != nil {
			return err
		}
		logger.Info("verifying tokens against %d JWK Set URL(s)", len(cfg.JWKSURLs))
	}

	app := server.New(server.Deps{
		Controller: controller,
		Tokens:     tokens,
		Roles:      repo.Roles(),
		Validator:  validator,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.HTTPAddr)
		errCh <- app.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}

func openDB(cfg *config.App) (*bun.DB, error) {
	switch cfg.DBDriver {
	case "postgres", "pg":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DBDSN)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}
