// Package quote fetches current best-ask prices for exchange trading
// pairs. Each supported exchange has its own Provider with its own
// ticker-symbol convention; the Registry picks one by exchange name.
package quote

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrUnavailable is returned when a quote cannot be fetched this
// cycle: network failure, unknown pair, or a malformed response.
var ErrUnavailable = errors.New("quote unavailable")

// Provider resolves a BASE:QUOTE coinpair to its current best ask.
type Provider interface {
	BestAsk(ctx context.Context, coinpair string) (decimal.Decimal, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(exchange string, p Provider) {
	r.providers[strings.ToLower(exchange)] = p
}

// ForExchange returns the provider handling the given exchange name,
// case-insensitively. Unknown exchanges are a quote failure, not a
// fatal error: the alert is skipped for the cycle.
func (r *Registry) ForExchange(exchange string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(exchange)]
	if !ok {
		return nil, errors.Wrapf(ErrUnavailable, "no quote provider for exchange %q", exchange)
	}
	return p, nil
}
