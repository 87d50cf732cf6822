package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhopark/payment-approval-system/internal/approval"
	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/minhopark/payment-approval-system/internal/notifier"
	"github.com/minhopark/payment-approval-system/internal/repository"
	appvalidator "github.com/minhopark/payment-approval-system/internal/validator"
	"github.com/minhopark/payment-approval-system/internal/vcs"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type application struct {
	config    config
	logger    *slog.Logger
	validator *validator.Validate
	engine    *approval.Engine
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url     string
		channel string
	}
	smtp struct {
		host      string
		port      int
		username  string
		password  string
		sender    string
		recipient string
	}
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "PostgreSQL DSN (empty = in-memory stores)")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.redis.url, "redis-url", "", "Redis URL for failure alerts (empty = disabled)")
	flag.StringVar(&cfg.redis.channel, "redis-channel", "payment.failures", "Redis pub/sub channel for failure alerts")

	flag.StringVar(&cfg.smtp.host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", "", "SMTP username (empty = SMTP alerts disabled)")
	flag.StringVar(&cfg.smtp.password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "PayGate <no-reply@paygate.minhopark.dev>", "SMTP sender")
	flag.StringVar(&cfg.smtp.recipient, "smtp-recipient", "ops@paygate.minhopark.dev", "SMTP recipient for failure alerts")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	paymentRepo, failureRepo, cleanup, err := newRepositories(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	failureNotifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}

	engine := approval.NewEngine(
		paymentRepo,
		failureRepo,
		approval.NewSimulatedOracle(),
		failureNotifier,
		logger,
	)

	app := &application{
		config:    cfg,
		logger:    logger,
		validator: appvalidator.NewValidator(),
		engine:    engine,
	}

	return app.run()
}

func newRepositories(cfg config) (domain.PaymentRepository, domain.FailureRecordRepository, func(), error) {
	if cfg.db.dsn == "" {
		return repository.NewInMemoryPaymentRepository(), repository.NewInMemoryFailureRecordRepository(), func() {}, nil
	}

	err := repository.MigrateUp(cfg.db.dsn)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return repository.NewPostgresPaymentRepository(db), repository.NewPostgresFailureRecordRepository(db), db.Close, nil
}

func newNotifier(cfg config, logger *slog.Logger) (notifier.Notifier, error) {
	if cfg.redis.url != "" {
		redisClient, err := newRedisClient(cfg)
		if err != nil {
			return nil, err
		}

		return notifier.NewRedisNotifier(redisClient, cfg.redis.channel), nil
	}

	if cfg.smtp.username != "" {
		return notifier.NewSMTPNotifier(
			cfg.smtp.host,
			cfg.smtp.port,
			cfg.smtp.username,
			cfg.smtp.password,
			cfg.smtp.sender,
			cfg.smtp.recipient,
		), nil
	}

	return notifier.NewLogNotifier(logger), nil
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.redis.url,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)

	r.Get("/health", app.healthcheckHandler)

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", app.createPaymentHandler)

		r.Route("/{paymentId}", func(r chi.Router) {
			r.Get("/", app.getPaymentHandler)
			r.Post("/approval", app.approvePaymentHandler)
			r.Get("/failures", app.getFailureRecordsHandler)
		})
	})

	return r
}
