package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	errNoBRL        = fmt.Errorf("%w: BRL rate", ErrMissingField)
	errNoTargetRate = fmt.Errorf("%w: target rate", ErrMissingField)
)

// DetectCurrency returns the ISO code of the currency text mentions
// (USD, EUR or GBP), or "" when none is recognized. Checks run in that
// order, so "dólar ou euro" is USD.
func DetectCurrency(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "dólar", "dolar", "usd"):
		return "USD"
	case containsAny(t, "euro", "eur"):
		return "EUR"
	case containsAny(t, "libra", "gbp"):
		return "GBP"
	default:
		return ""
	}
}

// CurrencyConfig configures a Currency adapter.
type CurrencyConfig struct {
	Fetcher *Fetcher
	// URL returns USD-based rates in the open.er-api.com format.
	URL    string
	Logger *slog.Logger
}

// Currency answers exchange rate questions in Brazilian reais.
type Currency struct {
	fetcher *Fetcher
	url     string
	logger  *slog.Logger
}

var _ Handler = (*Currency)(nil)

// NewCurrency builds a Currency adapter.
func NewCurrency(cfg CurrencyConfig) *Currency {
	f := cfg.Fetcher
	if f == nil {
		f = NewFetcher(DefaultTimeout)
	}
	return &Currency{
		fetcher: f,
		url:     orDefault(cfg.URL, DefaultCurrencyURL),
		logger:  componentLogger(cfg.Logger, "lookup.currency"),
	}
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// RateInBRL returns how many reais one unit of code is worth.
func (c *Currency) RateInBRL(ctx context.Context, code string) (float64, error) {
	if code == "" {
		return 0, fmt.Errorf("%w: no currency in question", ErrEntityNotRecognized)
	}

	data, err := getJSON[ratesResponse](ctx, c.fetcher, c.url, nil)
	if err != nil {
		return 0, err
	}
	if data.Result != "success" || data.Rates == nil {
		return 0, fmt.Errorf("%w: result %q", ErrMalformedResponse, data.Result)
	}

	brl, ok := data.Rates["BRL"]
	if !ok {
		return 0, errNoBRL
	}
	if code == "USD" {
		return brl, nil
	}

	rate, ok := data.Rates[code]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("%w: %s", errNoTargetRate, code)
	}
	return brl / rate, nil
}

// Handle implements Handler.
func (c *Currency) Handle(ctx context.Context, text string) string {
	code := DetectCurrency(text)

	value, err := c.RateInBRL(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrEntityNotRecognized) {
			c.logger.Warn("currency lookup failed", "currency", code, "error", err)
		}
		return c.render(code, err)
	}
	return fmt.Sprintf("1 %s vale aproximadamente R$ %.2f", code, value)
}

func (c *Currency) render(code string, err error) string {
	switch {
	case errors.Is(err, ErrEntityNotRecognized):
		return "Moeda não reconhecida. Tente: dólar, euro ou libra."
	case ClassOf(err) == ClassInvalidJSON && errors.Is(err, ErrTransport):
		return "Erro ao interpretar a resposta da API de câmbio."
	case errors.Is(err, ErrTransport):
		return fmt.Sprintf("Não consegui consultar a cotação agora (erro de conexão: %s). Tente novamente mais tarde.", ClassOf(err))
	case errors.Is(err, ErrMalformedResponse):
		return "A API de câmbio retornou uma resposta inesperada."
	case errors.Is(err, errNoBRL):
		return "Não encontrei taxa de câmbio para BRL."
	default:
		return fmt.Sprintf("Não encontrei a cotação para %s.", code)
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
