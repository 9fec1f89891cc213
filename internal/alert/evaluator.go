// Package alert implements the evaluation and notification-dispatch
// pipeline: each cycle re-checks every alert's threshold condition
// against live prices, then sends at most one push notification per
// newly-active alert.
package alert

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"tinychain-alerting/internal/quote"
	"tinychain-alerting/internal/types"
	"tinychain-alerting/lib/helpers"
)

// AlertStore is the alert repository consumed by the pipeline.
type AlertStore interface {
	GetAllAlerts() ([]types.Alert, error)
	GetActiveUnnotifiedAlerts() ([]types.Alert, error)
	SaveAlertState(a *types.Alert) error
}

// Evaluator recomputes the activation state of every alert.
type Evaluator struct {
	store        AlertStore
	quotes       *quote.Registry
	quoteTimeout time.Duration
}

func NewEvaluator(store AlertStore, quotes *quote.Registry, quoteTimeout time.Duration) *Evaluator {
	return &Evaluator{
		store:        store,
		quotes:       quotes,
		quoteTimeout: quoteTimeout,
	}
}

// EvaluateAll fetches the current price for each alert and applies the
// activation transition. A quote failure skips that alert for this
// cycle without deactivating it; one alert's failure never blocks the
// others. Returns the number of alerts actually evaluated.
func (e *Evaluator) EvaluateAll(ctx context.Context) (int, error) {
	alerts, err := e.store.GetAllAlerts()
	if err != nil {
		return 0, errors.Wrap(err, "could not load alerts")
	}

	evaluated := 0
	for i := range alerts {
		a := &alerts[i]

		price, err := e.fetchPrice(ctx, a)
		if err != nil {
			log.Warnf("skipping alert %d (%s on %s): %v", a.ID, a, a.Exchange, err)
			metrics.QuoteFailures.Inc()
			continue
		}

		log.Debugf("alert %d (%s): current price %s", a.ID, a, helpers.FormatDecimalUS(price))
		applyTransition(a, price)

		if err := e.store.SaveAlertState(a); err != nil {
			log.Errorf("could not save alert %d state: %v", a.ID, err)
			continue
		}
		metrics.AlertsEvaluated.Inc()
		evaluated++
	}

	log.Debugf("evaluated %d of %d alerts", evaluated, len(alerts))
	return evaluated, nil
}

func (e *Evaluator) fetchPrice(ctx context.Context, a *types.Alert) (decimal.Decimal, error) {
	provider, err := e.quotes.ForExchange(a.Exchange)
	if err != nil {
		return decimal.Zero, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.quoteTimeout)
	defer cancel()

	return provider.BestAsk(fetchCtx, a.Coinpair)
}

// applyTransition moves an alert through its activation state machine
// for one observed price.
func applyTransition(a *types.Alert, price decimal.Decimal) {
	higher := a.Indicator == types.IndicatorGreaterThan && price.GreaterThan(a.Limit)
	lower := a.Indicator == types.IndicatorLessThan && price.LessThan(a.Limit)

	if higher || lower {
		a.IsActive = true
		a.TriggerValue = price
		return
	}

	if a.IsActive {
		// Falling out of the condition re-arms the alert so a future
		// activation notifies again.
		a.IsNotified = false
	}
	a.IsActive = false
	a.TriggerValue = decimal.Zero
}
