// Package lookup answers weather, currency and crypto questions from
// public JSON APIs. Each adapter turns the question into one or two GET
// requests and always replies with a Portuguese sentence, failures
// included.
package lookup

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Handler answers a message with a sentence. It never fails.
type Handler interface {
	Handle(ctx context.Context, text string) string
}

// Default API endpoints.
const (
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultCurrencyURL = "https://open.er-api.com/v6/latest/USD"
	DefaultCryptoURL   = "https://api.coingecko.com/api/v3/simple/price"
)

// Config configures the three adapters at once. Empty URLs fall back to
// the defaults above.
type Config struct {
	Timeout     time.Duration
	GeocodeURL  string
	ForecastURL string
	CurrencyURL string
	CryptoURL   string
	Logger      *slog.Logger
}

// Handlers bundles the adapters built from one Config.
type Handlers struct {
	Weather  *Weather
	Currency *Currency
	Crypto   *Crypto
}

// New builds all adapters on a shared Fetcher.
func New(cfg Config) *Handlers {
	f := NewFetcher(cfg.Timeout)
	return &Handlers{
		Weather: NewWeather(WeatherConfig{
			Fetcher:     f,
			GeocodeURL:  cfg.GeocodeURL,
			ForecastURL: cfg.ForecastURL,
			Logger:      cfg.Logger,
		}),
		Currency: NewCurrency(CurrencyConfig{
			Fetcher: f,
			URL:     cfg.CurrencyURL,
			Logger:  cfg.Logger,
		}),
		Crypto: NewCrypto(CryptoConfig{
			Fetcher: f,
			URL:     cfg.CryptoURL,
			Logger:  cfg.Logger,
		}),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func componentLogger(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}

// capitalize upper-cases the first letter of a single word. A Caser
// keeps state, so each call gets its own.
func capitalize(word string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(word))
}
