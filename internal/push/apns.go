package push

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	log "github.com/sirupsen/logrus"

	"tinychain-alerting/internal/types"
)

// APNS sends notifications through Apple's push service using
// token-based (.p8) authentication. Covers ios and macos devices.
type APNS struct {
	client *apns2.Client
	topic  string
}

type APNSConfig struct {
	KeyPath    string
	KeyID      string
	TeamID     string
	Topic      string
	Production bool
}

func NewAPNS(c APNSConfig) (*APNS, error) {
	authKey, err := token.AuthKeyFromFile(c.KeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not load APNs auth key")
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   c.KeyID,
		TeamID:  c.TeamID,
	})
	if c.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNS{client: client, topic: c.Topic}, nil
}

func (a *APNS) Send(ctx context.Context, target types.DeviceToken, n Notification) (string, error) {
	notification := &apns2.Notification{
		DeviceToken: target.Token,
		Topic:       a.topic,
		Payload: payload.NewPayload().
			AlertTitle(n.Title).
			AlertBody(n.Body).
			Sound(n.Sound).
			Badge(n.Badge),
	}

	res, err := a.client.PushWithContext(ctx, notification)
	if err != nil {
		return "", errors.Wrapf(err, "could not push to %s device", target.DeviceType)
	}

	if res.Sent() {
		return "Success", nil
	}

	log.Debugf("APNs rejected token %s: %d %s", target.Token, res.StatusCode, res.Reason)
	return res.Reason, nil
}
