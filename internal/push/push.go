// Package push delivers notifications to registered device tokens.
// Delivery is one attempt per call; retries are the caller's policy.
package push

import (
	"context"

	"github.com/pkg/errors"

	"tinychain-alerting/internal/types"
)

// Notification is the provider-independent payload.
type Notification struct {
	Title string
	Body  string
	Sound string
	Badge int
}

// Sender performs one delivery attempt and returns the provider's
// per-token result text. The text contains "Success" on success;
// anything else is the provider's failure reason.
type Sender interface {
	Send(ctx context.Context, target types.DeviceToken, n Notification) (string, error)
}

// Router picks a concrete provider by device type.
type Router struct {
	senders map[string]Sender
}

func NewRouter() *Router {
	return &Router{senders: make(map[string]Sender)}
}

func (r *Router) Register(deviceType string, s Sender) {
	r.senders[deviceType] = s
}

func (r *Router) Send(ctx context.Context, target types.DeviceToken, n Notification) (string, error) {
	s, ok := r.senders[target.DeviceType]
	if !ok {
		return "", errors.Errorf("no push provider configured for device type %q", target.DeviceType)
	}
	return s.Send(ctx, target, n)
}
