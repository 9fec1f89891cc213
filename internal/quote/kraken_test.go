package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func krakenTickerJSON(ticker string, ask float64) string {
	return fmt.Sprintf(`{
		"error": [],
		"result": {
			%q: {
				"a": ["%.5f", "1", "1.000"],
				"b": ["8345.00000", "1", "1.000"],
				"c": ["8343.00000", "0.00749041"]
			}
		}
	}`, ticker, ask)
}

func TestKrakenBestAsk(t *testing.T) {
	var gotPair string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPair = r.URL.Query().Get("pair")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, krakenTickerJSON("XXBTZEUR", 8352.10052))
	}))
	defer srv.Close()

	k := NewKraken(srv.URL, time.Second)

	price, err := k.BestAsk(context.Background(), "XBT:EUR")
	if err != nil {
		t.Fatalf("BestAsk returned error: %v", err)
	}
	if gotPair != "XXBTZEUR" {
		t.Errorf("ticker symbol = %q, want XXBTZEUR", gotPair)
	}
	if !price.Equal(decimal.RequireFromString("8352.10052")) {
		t.Errorf("best ask = %s, want 8352.10052", price)
	}
}

func TestKrakenBestAskUnknownPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error": ["EQuery:Unknown asset pair"], "result": {}}`)
	}))
	defer srv.Close()

	k := NewKraken(srv.URL, time.Second)

	_, err := k.BestAsk(context.Background(), "NOPE:EUR")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for unknown pair, got %v", err)
	}
}

func TestKrakenBestAskMalformedResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing pair in result", `{"error": [], "result": {}}`},
		{"empty ask levels", `{"error": [], "result": {"XXBTZEUR": {"a": []}}}`},
		{"non-numeric ask", `{"error": [], "result": {"XXBTZEUR": {"a": ["not-a-price"]}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			k := NewKraken(srv.URL, time.Second)
			if _, err := k.BestAsk(context.Background(), "XBT:EUR"); !errors.Is(err, ErrUnavailable) {
				t.Errorf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestKrakenBestAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer srv.Close()

	k := NewKraken(srv.URL, time.Second)
	if _, err := k.BestAsk(context.Background(), "XBT:EUR"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on server error, got %v", err)
	}
}

func TestKrakenBestAskTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, krakenTickerJSON("XXBTZEUR", 100))
	}))
	defer srv.Close()

	k := NewKraken(srv.URL, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := k.BestAsk(ctx, "XBT:EUR"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	k := NewKraken("http://localhost", time.Second)

	r := NewRegistry()
	r.Register("Kraken", k)

	if _, err := r.ForExchange("kraken"); err != nil {
		t.Errorf("exchange lookup should be case-insensitive: %v", err)
	}
	if _, err := r.ForExchange("KRAKEN"); err != nil {
		t.Errorf("exchange lookup should be case-insensitive: %v", err)
	}
	if _, err := r.ForExchange("binance"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("unknown exchange should yield ErrUnavailable, got %v", err)
	}
}
