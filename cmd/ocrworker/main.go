// Command ocrworker is the composition root for the background OCR
// process: it polls the process_scan_ocr queue and hands each job to
// workflow.OCRWorker.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/olympiadqr/olympiadqr/internal/adapters/jobqueue"
	"github.com/olympiadqr/olympiadqr/internal/adapters/objectstore"
	"github.com/olympiadqr/olympiadqr/internal/adapters/ocr"
	"github.com/olympiadqr/olympiadqr/internal/adapters/pdf"
	"github.com/olympiadqr/olympiadqr/internal/adapters/qr"
	"github.com/olympiadqr/olympiadqr/internal/config"
	"github.com/olympiadqr/olympiadqr/internal/database"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/repository/postgres"
	"github.com/olympiadqr/olympiadqr/internal/token"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

const ocrJobName = "process_scan_ocr"

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

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

	runner := postgres.NewRunner(db)

	ctx, cancelInit := context.WithCancel(context.Background())
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

	tokens, err := token.NewService(cfg.Token.HMACSecretKey)
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure token service")
	}

	ocrMetrics := metrics.New()
	worker := workflow.NewOCRWorker(
		runner, tokens, store,
		qr.NewDecoder(), pdf.NewRasterizer(), ocr.NewEngine("eng"),
		cfg.ObjectStore.ScansBucket, cfg.OCR.ConfidenceThreshold, cfg.OCR.DPI,
		cfg.OCR.ScoreFieldXMM, cfg.OCR.ScoreFieldYMM, cfg.OCR.ScoreFieldWidthMM, cfg.OCR.ScoreFieldHeightMM,
		logrus.StandardLogger(), ocrMetrics,
	)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", ocrMetrics.Handler())
		if err := http.ListenAndServe(":9091", mux); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Warn("ocr worker metrics server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runCtx, stop := context.WithCancel(context.Background())
	go func() {
		<-quit
		logrus.Info("shutdown signal received, draining in-flight job")
		stop()
	}()

	logrus.Info("olympiadqr ocr worker started")
	for {
		select {
		case <-runCtx.Done():
			logrus.Info("ocr worker stopped cleanly")
			return
		default:
		}

		_, payload, err := queue.Dequeue(runCtx, ocrJobName)
		if err != nil {
			if runCtx.Err() != nil {
				continue
			}
			logrus.WithError(err).Error("failed to dequeue ocr job")
			continue
		}

		scanID, err := domain.ParseID(asString(payload["scan_id"]))
		if err != nil {
			logrus.WithError(err).Error("ocr job carried an invalid scan_id")
			continue
		}
		isPDF, _ := payload["is_pdf"].(bool)

		if err := worker.ProcessScan(context.Background(), scanID, isPDF); err != nil {
			logrus.WithFields(logrus.Fields{"scan_id": scanID.String(), "error": err.Error()}).
				Error("ocr job failed")
		}
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
