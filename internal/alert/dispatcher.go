package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tinychain-alerting/internal/push"
	"tinychain-alerting/internal/types"
	"tinychain-alerting/lib/helpers"
	"tinychain-alerting/lib/translation"
)

// DeviceTokenStore is the device-token repository consumed by the
// dispatcher.
type DeviceTokenStore interface {
	GetDeviceTokensByUserID(userID int64) ([]types.DeviceToken, error)
}

// HistoryStore records one audit row per dispatch attempt.
type HistoryStore interface {
	InsertNotificationHistory(userID int64, alertID *int64, succeeded bool, result string) error
}

// Dispatcher sends push notifications for newly-active alerts.
type Dispatcher struct {
	alerts      AlertStore
	tokens      DeviceTokenStore
	history     HistoryStore
	sender      push.Sender
	pushTimeout time.Duration
}

func NewDispatcher(alerts AlertStore, tokens DeviceTokenStore, history HistoryStore, sender push.Sender, pushTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		alerts:      alerts,
		tokens:      tokens,
		history:     history,
		sender:      sender,
		pushTimeout: pushTimeout,
	}
}

// DispatchPending notifies every alert that is active and not yet
// notified. Each activation gets exactly one delivery attempt: the
// alert is marked notified even when the provider reports a failure,
// and the outcome is appended to the notification history. A history
// write failure aborts the cycle; everything already applied stays
// applied. Returns the number of delivery attempts made.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	pending, err := d.alerts.GetActiveUnnotifiedAlerts()
	if err != nil {
		return 0, errors.Wrap(err, "could not load pending alerts")
	}

	sent := 0
	for i := range pending {
		a := &pending[i]

		tokens, err := d.tokens.GetDeviceTokensByUserID(a.UserID)
		if err != nil {
			log.Errorf("could not load device tokens for user %d: %v", a.UserID, err)
			continue
		}
		if len(tokens) == 0 {
			// Not an error: the alert stays pending and is retried
			// next cycle once the user registers a device.
			log.Infof("user %d has no registered devices, alert %d stays pending", a.UserID, a.ID)
			continue
		}

		// Single-device delivery: only the first registered device
		// receives the notification.
		target := tokens[0]

		result, sendErr := d.send(ctx, target, a)
		succeeded := sendErr == nil && strings.Contains(result, "Success")
		if sendErr != nil {
			result = sendErr.Error()
			log.Warnf("push delivery for alert %d failed: %v", a.ID, sendErr)
		}
		if !succeeded {
			metrics.PushFailures.Inc()
		}

		// One attempt per activation, even after a failed send.
		a.IsNotified = true
		if err := d.alerts.SaveAlertState(a); err != nil {
			log.Errorf("could not mark alert %d notified: %v", a.ID, err)
		}
		metrics.NotificationsSent.Inc()
		sent++

		alertID := a.ID
		if err := d.history.InsertNotificationHistory(a.UserID, &alertID, succeeded, result); err != nil {
			return sent, errors.Wrap(err, "could not record notification history")
		}

		log.Infof("notified alert %d on %s device (succeeded=%t)", a.ID, target.DeviceType, succeeded)
	}

	return sent, nil
}

func (d *Dispatcher) send(ctx context.Context, target types.DeviceToken, a *types.Alert) (string, error) {
	n := push.Notification{
		Title: translation.Translate("Price alert"),
		Body: fmt.Sprintf("(%s %s %s) -> Price = %s",
			a.Coinpair, a.Indicator,
			helpers.FormatDecimal(a.Limit),
			helpers.FormatDecimal(a.TriggerValue)),
		Sound: "default",
		Badge: 1,
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.pushTimeout)
	defer cancel()

	return d.sender.Send(sendCtx, target, n)
}
