package quote

import (
	"context"
	"strings"

	"github.com/coinpaprika/coinpaprika-api-go-client/v2/coinpaprika"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Coinpaprika resolves pairs through the CoinPaprika API. The API
// serves aggregate quotes, not an order book, so the quoted price
// stands in for the best ask.
type Coinpaprika struct {
	client *coinpaprika.Client
}

func NewCoinpaprika(apiProKey string) *Coinpaprika {
	if apiProKey != "" {
		return &Coinpaprika{client: coinpaprika.NewClient(nil, coinpaprika.WithAPIKey(apiProKey))}
	}
	return &Coinpaprika{client: coinpaprika.NewClient(nil)}
}

func (c *Coinpaprika) BestAsk(ctx context.Context, coinpair string) (decimal.Decimal, error) {
	base, counter, ok := strings.Cut(coinpair, ":")
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "coinpair %q is not in BASE:QUOTE form", coinpair)
	}

	coin, err := c.searchCoin(base)
	if err != nil {
		return decimal.Zero, err
	}

	tickerOpts := &coinpaprika.TickersOptions{Quotes: strings.ToUpper(counter)}
	ticker, err := c.client.Tickers.GetByID(*coin.ID, tickerOpts)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "coinpaprika ticker for %s: %v", *coin.ID, err)
	}

	q, ok := ticker.Quotes[strings.ToUpper(counter)]
	if !ok || q.Price == nil {
		return decimal.Zero, errors.Wrapf(ErrUnavailable, "coinpaprika has no %s quote for %s", counter, base)
	}

	price := decimal.NewFromFloat(*q.Price)
	log.Debugf("coinpaprika price for %s: %s", coinpair, price)
	return price, nil
}

func (c *Coinpaprika) searchCoin(symbol string) (*coinpaprika.Coin, error) {
	searchOpts := &coinpaprika.SearchOptions{
		Query:      symbol,
		Categories: "currencies",
		Modifier:   "symbol_search",
	}
	result, err := c.client.Search.Search(searchOpts)
	if err != nil || len(result.Currencies) == 0 {
		return nil, errors.Wrapf(ErrUnavailable, "coinpaprika does not know symbol %q", symbol)
	}
	return result.Currencies[0], nil
}
