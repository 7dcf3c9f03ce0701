package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecbrates/internal/adapters/cache"
	"ecbrates/internal/adapters/httpclient"
	"ecbrates/internal/adapters/postgres"
	"ecbrates/internal/adapters/smtpmail"
	"ecbrates/internal/api"
	"ecbrates/internal/config"
	"ecbrates/internal/ingest"
	httpserver "ecbrates/internal/platform/http"
	"ecbrates/internal/rate"
	"ecbrates/internal/rate/handler"

	"ecbrates/internal/platform/db"

	"github.com/sirupsen/logrus"
)

const currencyCacheSize = 256

// Run wires the query API: repositories, read service, router, HTTP server,
// plus the optional in-process daily ingestion schedule.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}

	log := newLogger(appCfg.Logging.Level)
	log.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		log.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	log.Info("✅ Postgres connection successful")

	currencyRepo := postgres.NewCurrencyRepository(pool)
	rateRepo := postgres.NewRateRepository(pool)
	rateService := rate.NewService(rateRepo, currencyRepo)

	if appCfg.Scheduler.Enabled {
		currencyCache, cacheErr := cache.NewCurrencyCache(currencyCacheSize)
		if cacheErr != nil {
			log.WithError(cacheErr).Error("Failed to create currency cache")
			return cacheErr
		}
		defer currencyCache.Close()

		pipeline := ingest.NewPipeline(
			log,
			httpclient.NewECBClient(newHTTPClient(appCfg.HTTPClient), appCfg.RateSource.BaseURL),
			ingest.NewResolver(currencyRepo, currencyCache),
			ingest.NewReconciler(rateRepo),
			smtpmail.NewNotifier(appCfg.SMTP.Host, appCfg.SMTP.Port, appCfg.SMTP.Sender, appCfg.SMTP.Password, appCfg.SMTP.Recipient),
		)
		scheduler := ingest.NewScheduler(log, pipeline, appCfg.Scheduler.RunAt, appCfg.Fetcher.CutoverTime)
		// Ensure scheduler stops before the DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				log.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			log.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		log.Info("✅ Scheduler activation successful")
	}

	rateHandler := handler.NewRateHandler(log, rateService)
	router := api.NewRouter(rateHandler)

	log.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, log, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		log.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(level); parseErr == nil {
		log.SetLevel(parsedLvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func newHTTPClient(cfg config.HTTPClient) *http.Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
