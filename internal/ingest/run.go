package ingest

import (
	"context"
	"errors"

	"ecbrates/internal/adapters"
	"ecbrates/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const (
	alertSubject = "Error Warning"
	alertBody    = "Error in application work, please check logs"
)

// Pipeline is one ingestion run: fetch the selected day, parse the series,
// reconcile every observation against storage. Per-series and
// per-observation problems are contained; fetch, parse and
// connection-level storage failures abort the run and alert the operator.
type Pipeline struct {
	log        *logrus.Logger
	source     adapters.RateSource
	resolver   *Resolver
	reconciler *Reconciler
	notifier   adapters.Notifier
}

func NewPipeline(log *logrus.Logger, source adapters.RateSource, resolver *Resolver, reconciler *Reconciler, notifier adapters.Notifier) *Pipeline {
	return &Pipeline{
		log:        log,
		source:     source,
		resolver:   resolver,
		reconciler: reconciler,
		notifier:   notifier,
	}
}

func (p *Pipeline) Run(ctx context.Context, day string) error {
	log := p.log.WithFields(logrus.Fields{"execID": uuid.NewString(), "day": day})

	log.Info("Fetching rates from source")
	raw, err := p.source.FetchDay(ctx, day)
	if errors.Is(err, domain.ErrNoData) {
		log.Infof("There are no entries for %s", day)
		return nil
	}
	if err != nil {
		log.WithError(err).Error("Fetching rates failed")
		p.alert(log, err)
		return err
	}

	log.Info("Parsing rates document")
	seriesList, err := ParseSeries(raw)
	if err != nil {
		log.WithError(err).Error("Parsing rates document failed")
		p.alert(log, err)
		return err
	}

	log.Infof("Reconciling %d series", len(seriesList))
	var inserted, skipped int
	for _, series := range seriesList {
		code, codeErr := series.CurrencyCode()
		if codeErr != nil {
			log.WithError(codeErr).Warn("Skipping series without currency code")
			continue
		}
		seriesLog := log.WithField("currency", code)

		currencyID, resolveErr := p.resolver.Resolve(ctx, code)
		if resolveErr != nil {
			if connectionLost(resolveErr) {
				seriesLog.WithError(resolveErr).Error("Storage connection lost")
				p.alert(log, resolveErr)
				return resolveErr
			}
			seriesLog.WithError(resolveErr).Error("Skipping series, currency resolution failed")
			continue
		}

		for _, obs := range series.Obs {
			outcome, recErr := p.reconciler.Reconcile(ctx, currencyID, obs.Date(), obs.Rate())
			switch {
			case errors.Is(recErr, domain.ErrMalformedObservation):
				seriesLog.WithError(recErr).Warn("Skipping malformed observation")
			case recErr != nil && connectionLost(recErr):
				seriesLog.WithError(recErr).Error("Storage connection lost")
				p.alert(log, recErr)
				return recErr
			case recErr != nil:
				seriesLog.WithError(recErr).Errorf("Skipping observation for %s, storage rejected it", obs.Date())
			case outcome == OutcomeInserted:
				seriesLog.Infof("Inserted rate for %s", obs.Date())
				inserted++
			default:
				seriesLog.Infof("Rate for %s already ingested, skipping", obs.Date())
				skipped++
			}
		}
	}

	log.Infof("Run completed: %d inserted, %d skipped", inserted, skipped)
	return nil
}

// alert sends the operator notification used on every fatal branch.
// An abort caused by the run's own context being canceled is a shutdown,
// not an application failure, and sends nothing.
func (p *Pipeline) alert(log logrus.FieldLogger, cause error) {
	if errors.Is(cause, context.Canceled) {
		return
	}
	Alert(log, p.notifier)
}

// Alert fires the standard operator notification, swallowing delivery
// failures after logging them.
func Alert(log logrus.FieldLogger, notifier adapters.Notifier) {
	if err := notifier.Notify(alertSubject, alertBody); err != nil {
		log.WithError(err).Warn("Failed to notify operator")
	}
}

// connectionLost tells a dead storage connection apart from the server
// rejecting a single statement: a PgError means Postgres answered, so the
// connection is fine and only the current observation is affected.
// Everything else, including context cancellation, aborts the run; the
// alert decision is made separately from the cause.
func connectionLost(err error) bool {
	var pgErr *pgconn.PgError
	return !errors.As(err, &pgErr)
}
