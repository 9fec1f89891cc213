package quote

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Kraken queries the public Kraken ticker endpoint.
type Kraken struct {
	client *resty.Client
}

// krakenTickerResponse is the subset of the ticker payload we read:
// "a" holds the ask levels, first element is the best ask.
type krakenTickerResponse struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		Ask []string `json:"a"`
	} `json:"result"`
}

func NewKraken(baseURL string, timeout time.Duration) *Kraken {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Kraken{client: client}
}

// tickerSymbol translates BASE:QUOTE into Kraken's pair naming, e.g.
// XBT:EUR -> XXBTZEUR.
func (k *Kraken) tickerSymbol(coinpair string) string {
	return "X" + strings.ReplaceAll(coinpair, ":", "Z")
}

func (k *Kraken) BestAsk(ctx context.Context, coinpair string) (decimal.Decimal, error) {
	ticker := k.tickerSymbol(coinpair)

	var out krakenTickerResponse
	resp, err := k.client.R().
		SetContext(ctx).
		SetQueryParam("pair", ticker).
		SetResult(&out).
		Get("/Ticker")
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "kraken ticker request for %s: %v", ticker, err)
	}
	if resp.IsError() {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "kraken ticker request for %s: status %s", ticker, resp.Status())
	}
	if len(out.Error) > 0 {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "kraken ticker request for %s: %s", ticker, strings.Join(out.Error, ", "))
	}

	pair, ok := out.Result[ticker]
	if !ok || len(pair.Ask) == 0 {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "kraken response has no ask levels for %s", ticker)
	}

	price, err := decimal.NewFromString(pair.Ask[0])
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "kraken ask price %q for %s is not a number", pair.Ask[0], ticker)
	}

	log.Debugf("kraken best ask for %s (%s): %s", coinpair, ticker, price)
	return price, nil
}
