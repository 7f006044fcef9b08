// Package intent decides which handler answers a message. Classification
// is keyword based, pure and safe for concurrent use.
package intent

import (
	"strings"
	"unicode"
)

// Category is the single handler chosen for a message.
type Category int

// Categories in classification priority order.
const (
	Calculator Category = iota
	Weather
	Currency
	Crypto
	LLM
)

var categoryNames = [...]string{
	Calculator: "calculator",
	Weather:    "weather",
	Currency:   "currency",
	Crypto:     "crypto",
	LLM:        "llm",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categories returns every category in priority order.
func Categories() []Category {
	return []Category{Calculator, Weather, Currency, Crypto, LLM}
}

// Classifier maps text to a Category.
type Classifier interface {
	Classify(text string) Category
}

// Keyword lists. Calculator operators are matched case-sensitively against
// the raw text; the other lists against the lowercased text.
var (
	calculatorOperators = []string{"+", "-", "*", "/", "x", "×", "vezes"}

	weatherKeywords = []string{"tempo", "clima", "previsão", "temperatura"}

	currencyKeywords = []string{
		"cotação", "cotaçao",
		"preço do dólar", "preço do dolar",
		"preco do dolar", "preco do dólar",
		"dólar", "dolar",
		"euro", "eur",
		"libra", "gbp", "usd",
	}

	cryptoKeywords = []string{"bitcoin", "btc", "ethereum", "eth", "cripto", "crypto", "criptomoeda"}
)

// KeywordClassifier is the default Classifier. The zero value is ready to use.
type KeywordClassifier struct{}

var _ Classifier = KeywordClassifier{}

// Classify applies the checks in priority order; the first match wins and
// anything unmatched goes to the LLM.
func (KeywordClassifier) Classify(text string) Category {
	switch {
	case IsCalculation(text):
		return Calculator
	case IsWeather(text):
		return Weather
	case IsCurrency(text):
		return Currency
	case IsCrypto(text):
		return Crypto
	default:
		return LLM
	}
}

// IsCalculation reports whether text has a digit and an arithmetic operator.
// "vezes" only matches in lowercase.
func IsCalculation(text string) bool {
	return strings.IndexFunc(text, unicode.IsDigit) >= 0 && containsAny(text, calculatorOperators)
}

// IsWeather reports whether text asks about the weather.
func IsWeather(text string) bool {
	return containsAny(strings.ToLower(text), weatherKeywords)
}

// IsCurrency reports whether text asks for an exchange rate.
func IsCurrency(text string) bool {
	return containsAny(strings.ToLower(text), currencyKeywords)
}

// IsCrypto reports whether text asks for a cryptocurrency price.
func IsCrypto(text string) bool {
	return containsAny(strings.ToLower(text), cryptoKeywords)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
