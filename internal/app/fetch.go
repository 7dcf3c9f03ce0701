package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ecbrates/internal/adapters/cache"
	"ecbrates/internal/adapters/httpclient"
	"ecbrates/internal/adapters/postgres"
	"ecbrates/internal/adapters/smtpmail"
	"ecbrates/internal/config"
	"ecbrates/internal/ingest"
	"ecbrates/internal/platform/db"
)

const usage = `Available keys:
  --help       Show all keys.
  today        Get data for the current day.
  yesterday    Get data for the previous day.`

// RunFetch executes one ingestion run. The returned error is non-nil only
// on a fatal run failure; a usage problem prints a hint and counts as a
// clean no-op.
func RunFetch(args []string) error {
	var key string
	if len(args) > 0 {
		key = strings.ToLower(args[0])
	}
	if key == "--help" {
		fmt.Println(usage)
		return nil
	}

	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	log := newLogger(appCfg.Logging.Level)
	log.Info("✅ Config initialization successful")

	day, err := ingest.SelectDay(time.Now(), appCfg.Fetcher.CutoverTime, key)
	if errors.Is(err, ingest.ErrUnknownKey) {
		fmt.Printf("Unknown key: %s. Use '--help' to view available keys.\n", key)
		return nil
	}
	if err != nil {
		log.WithError(err).Error("Day selection failed")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := smtpmail.NewNotifier(appCfg.SMTP.Host, appCfg.SMTP.Port, appCfg.SMTP.Sender, appCfg.SMTP.Password, appCfg.SMTP.Recipient)

	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		log.WithError(err).Error("Connection to DB was not established")
		ingest.Alert(log, notifier)
		return err
	}
	defer pool.Close()
	log.Info("✅ Postgres connection successful")

	currencyCache, err := cache.NewCurrencyCache(currencyCacheSize)
	if err != nil {
		log.WithError(err).Error("Failed to create currency cache")
		return err
	}
	defer currencyCache.Close()

	pipeline := ingest.NewPipeline(
		log,
		httpclient.NewECBClient(newHTTPClient(appCfg.HTTPClient), appCfg.RateSource.BaseURL),
		ingest.NewResolver(postgres.NewCurrencyRepository(pool), currencyCache),
		ingest.NewReconciler(postgres.NewRateRepository(pool)),
		notifier,
	)
	return pipeline.Run(ctx, day)
}
