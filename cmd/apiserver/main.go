// Command apiserver is the composition root for the OlympiadQR HTTP API:
// it wires configuration, the Postgres pool, every adapter, and the
// workflow services into an httpapi.Server, then serves it with graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/olympiadqr/olympiadqr/internal/adapters/jobqueue"
	"github.com/olympiadqr/olympiadqr/internal/adapters/objectstore"
	"github.com/olympiadqr/olympiadqr/internal/adapters/pdf"
	"github.com/olympiadqr/olympiadqr/internal/auth"
	"github.com/olympiadqr/olympiadqr/internal/config"
	"github.com/olympiadqr/olympiadqr/internal/database"
	"github.com/olympiadqr/olympiadqr/internal/httpapi"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/repository/postgres"
	"github.com/olympiadqr/olympiadqr/internal/token"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

func main() {
	configureLogging()

	configPath := getenv("CONFIG_PATH", "config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if level, lerr := logrus.ParseLevel(cfg.Logging.Level); lerr == nil {
		logrus.SetLevel(level)
	}

	db, err := database.Connect(&database.Config{
		Host: cfg.Database.Host, Port: cfg.Database.Port, User: cfg.Database.User,
		Password: cfg.Database.Password, Database: cfg.Database.Database, SSLMode: cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns, MaxIdleConns: cfg.Database.MaxIdleConns,
	}, logrus.StandardLogger())
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to apply migrations")
	}

	runner := postgres.NewRunner(db)
	reads := postgres.Repositories(db)

	ctx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()

	store, err := objectstore.New(ctx, objectstore.Config{
		Endpoint: cfg.ObjectStore.Endpoint, Region: cfg.ObjectStore.Region,
		AccessKeyID: cfg.ObjectStore.AccessKeyID, SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
		UsePathStyle: cfg.ObjectStore.UsePathStyle,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure object store")
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	queue := jobqueue.New(redisClient, "olympiadqr:jobs:")

	sheetRenderer := pdf.NewRenderer(cfg.QR)

	tokens, err := token.NewService(cfg.Token.HMACSecretKey)
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure token service")
	}
	jwtService := auth.NewService(cfg.Auth.SecretKey, cfg.Auth.JWTExpireMinutes)
	appMetrics := metrics.New()

	tokenTTL := time.Duration(cfg.Token.EntryTokenExpireHours) * time.Hour
	registrations := workflow.NewRegistrationService(runner, tokens, tokenTTL)
	admissions := workflow.NewAdmissionService(runner, tokens, store, sheetRenderer, cfg.ObjectStore.SheetsBucket,
		cfg.OCR.ScoreFieldXMM, cfg.OCR.ScoreFieldYMM, cfg.OCR.ScoreFieldWidthMM, cfg.OCR.ScoreFieldHeightMM, appMetrics)
	scoring := workflow.NewScoringService(runner)
	competitions := workflow.NewCompetitionService(runner)

	server := httpapi.NewServer(cfg, runner, reads, tokens, jwtService, store, sheetRenderer, queue, appMetrics,
		registrations, admissions, scoring, competitions)
	router := httpapi.NewRouter(server)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.WithField("addr", httpSrv.Addr).Info("olympiadqr api server started")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	sig := <-quit
	logrus.WithField("signal", sig.String()).Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	} else {
		logrus.Info("server stopped cleanly")
	}
}

func configureLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
