package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// DetectCrypto returns the coingecko id of the coin text mentions
// ("bitcoin" or "ethereum"), or "" when none is recognized.
func DetectCrypto(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "bitcoin", "btc"):
		return "bitcoin"
	case containsAny(t, "ethereum", "eth"):
		return "ethereum"
	default:
		return ""
	}
}

// Price is a coin quote. Values keep the exact text the API sent.
type Price struct {
	Coin string
	USD  json.Number
	BRL  json.Number
}

// CryptoConfig configures a Crypto adapter.
type CryptoConfig struct {
	Fetcher *Fetcher
	URL     string
	Logger  *slog.Logger
}

// Crypto answers cryptocurrency price questions through coingecko.
type Crypto struct {
	fetcher *Fetcher
	url     string
	logger  *slog.Logger
}

var _ Handler = (*Crypto)(nil)

// NewCrypto builds a Crypto adapter.
func NewCrypto(cfg CryptoConfig) *Crypto {
	f := cfg.Fetcher
	if f == nil {
		f = NewFetcher(DefaultTimeout)
	}
	return &Crypto{
		fetcher: f,
		url:     orDefault(cfg.URL, DefaultCryptoURL),
		logger:  componentLogger(cfg.Logger, "lookup.crypto"),
	}
}

// Quote fetches the USD and BRL price of coin.
func (c *Crypto) Quote(ctx context.Context, coin string) (Price, error) {
	if coin == "" {
		return Price{}, fmt.Errorf("%w: no coin in question", ErrEntityNotRecognized)
	}

	data, err := getJSON[map[string]map[string]json.Number](ctx, c.fetcher, c.url, url.Values{
		"ids":           {coin},
		"vs_currencies": {"usd,brl"},
	})
	if err != nil {
		return Price{}, err
	}

	quote, ok := (*data)[coin]
	if !ok {
		return Price{}, fmt.Errorf("%w: %s", ErrMissingField, coin)
	}
	usd, okUSD := quote["usd"]
	brl, okBRL := quote["brl"]
	if !okUSD || !okBRL {
		return Price{}, fmt.Errorf("%w: %s usd/brl", ErrMissingField, coin)
	}
	return Price{Coin: coin, USD: usd, BRL: brl}, nil
}

// Handle implements Handler.
func (c *Crypto) Handle(ctx context.Context, text string) string {
	coin := DetectCrypto(text)

	p, err := c.Quote(ctx, coin)
	if err != nil {
		if !errors.Is(err, ErrEntityNotRecognized) {
			c.logger.Warn("crypto lookup failed", "coin", coin, "error", err)
		}
		return c.render(err)
	}
	return fmt.Sprintf("%s hoje:\nUSD: $%s\nBRL: R$ %s", capitalize(p.Coin), p.USD, p.BRL)
}

func (c *Crypto) render(err error) string {
	switch {
	case errors.Is(err, ErrEntityNotRecognized):
		return "Criptomoeda não reconhecida. Ex: Bitcoin ou Ethereum."
	case errors.Is(err, ErrTransport):
		return fmt.Sprintf("Não consegui consultar o preço das criptos agora (erro de conexão: %s).", ClassOf(err))
	default:
		return "Não encontrei dados para essa criptomoeda."
	}
}
