package push

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tinychain-alerting/internal/types"
)

// FCM sends notifications through the Firebase Cloud Messaging HTTP
// API. Covers android and windows devices.
type FCM struct {
	client *resty.Client
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound,omitempty"`
	Badge int    `json:"badge,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

func NewFCM(apiURL, serverKey string, timeout time.Duration) *FCM {
	client := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(timeout).
		SetHeader("Authorization", "key="+serverKey)
	return &FCM{client: client}
}

func (f *FCM) Send(ctx context.Context, target types.DeviceToken, n Notification) (string, error) {
	req := fcmRequest{
		To: target.Token,
		Notification: fcmNotification{
			Title: n.Title,
			Body:  n.Body,
			Sound: n.Sound,
			Badge: n.Badge,
		},
	}

	var out fcmResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("")
	if err != nil {
		return "", errors.Wrapf(err, "could not push to %s device", target.DeviceType)
	}
	if resp.IsError() {
		return "", errors.Errorf("FCM returned status %s", resp.Status())
	}

	if out.Success > 0 {
		return "Success", nil
	}

	reason := "Unknown"
	if len(out.Results) > 0 && out.Results[0].Error != "" {
		reason = out.Results[0].Error
	}
	log.Debugf("FCM rejected token %s: %s", target.Token, reason)
	return reason, nil
}
