package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	errCityNotFound = fmt.Errorf("%w: no geocoding result", ErrMissingField)
	errNoTemp       = fmt.Errorf("%w: current temperature", ErrMissingField)
)

// cityAliases restores the accents of cities users often type without
// them, keyed by the accent-free lowercase spelling.
var cityAliases = map[string]string{
	"uberlandia":    "Uberlândia",
	"brasilia":      "Brasília",
	"goiania":       "Goiânia",
	"florianopolis": "Florianópolis",
	"belem":         "Belém",
	"maceio":        "Maceió",
	"cuiaba":        "Cuiabá",
	"vitoria":       "Vitória",
	"maringa":       "Maringá",
	"macapa":        "Macapá",
	"niteroi":       "Niterói",
	"jundiai":       "Jundiaí",
}

// punctuation is everything that is not a letter, digit, underscore or space.
var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// ExtractCity guesses the city a weather question is about: the word after
// "em" when present, otherwise the last word. It returns "" when text has
// no words.
func ExtractCity(text string) string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), " ")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}

	var city string
	for i, w := range words {
		if w == "em" {
			if i+1 < len(words) {
				city = words[i+1]
			}
			break
		}
	}
	if city == "" {
		city = words[len(words)-1]
	}

	if alias, ok := cityAliases[StripAccents(city)]; ok {
		return alias
	}
	return capitalize(city)
}

// StripAccents removes combining marks: "Uberlândia" becomes "Uberlandia".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Conditions is the current weather at a place. Numbers keep the exact
// text the API sent.
type Conditions struct {
	City        string
	Temperature json.Number
	WindSpeed   json.Number
}

// WeatherConfig configures a Weather adapter.
type WeatherConfig struct {
	Fetcher     *Fetcher
	GeocodeURL  string
	ForecastURL string
	Logger      *slog.Logger
}

// Weather answers questions about current weather through open-meteo.
type Weather struct {
	fetcher     *Fetcher
	geocodeURL  string
	forecastURL string
	logger      *slog.Logger
}

var _ Handler = (*Weather)(nil)

// NewWeather builds a Weather adapter.
func NewWeather(cfg WeatherConfig) *Weather {
	f := cfg.Fetcher
	if f == nil {
		f = NewFetcher(DefaultTimeout)
	}
	return &Weather{
		fetcher:     f,
		geocodeURL:  orDefault(cfg.GeocodeURL, DefaultGeocodeURL),
		forecastURL: orDefault(cfg.ForecastURL, DefaultForecastURL),
		logger:      componentLogger(cfg.Logger, "lookup.weather"),
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string   `json:"name"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature *json.Number `json:"temperature"`
		WindSpeed   *json.Number `json:"windspeed"`
	} `json:"current_weather"`
}

// Lookup geocodes city and fetches its current weather. The forecast
// endpoint is only called when geocoding finds the city.
func (w *Weather) Lookup(ctx context.Context, city string) (Conditions, error) {
	if city == "" {
		return Conditions{}, fmt.Errorf("%w: no city in question", ErrEntityNotRecognized)
	}

	geo, err := getJSON[geocodeResponse](ctx, w.fetcher, w.geocodeURL, url.Values{
		"name":  {city},
		"count": {"1"},
	})
	if err != nil {
		return Conditions{}, err
	}
	if len(geo.Results) == 0 {
		return Conditions{}, fmt.Errorf("%w: %q", errCityNotFound, city)
	}
	place := geo.Results[0]
	if place.Latitude == nil || place.Longitude == nil {
		return Conditions{}, fmt.Errorf("%w: geocoding result without coordinates", ErrMalformedResponse)
	}

	fc, err := getJSON[forecastResponse](ctx, w.fetcher, w.forecastURL, url.Values{
		"latitude":        {strconv.FormatFloat(*place.Latitude, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(*place.Longitude, 'f', -1, 64)},
		"current_weather": {"true"},
	})
	if err != nil {
		return Conditions{}, err
	}
	if fc.CurrentWeather == nil || fc.CurrentWeather.Temperature == nil {
		return Conditions{}, errNoTemp
	}

	c := Conditions{City: city, Temperature: *fc.CurrentWeather.Temperature}
	if fc.CurrentWeather.WindSpeed != nil {
		c.WindSpeed = *fc.CurrentWeather.WindSpeed
	}
	return c, nil
}

// Handle implements Handler.
func (w *Weather) Handle(ctx context.Context, text string) string {
	city := ExtractCity(text)

	c, err := w.Lookup(ctx, city)
	if err != nil {
		w.logger.Warn("weather lookup failed", "city", city, "error", err)
		return w.render(city, err)
	}

	if c.WindSpeed == "" {
		return fmt.Sprintf("Tempo em %s: %s°C.", c.City, c.Temperature)
	}
	return fmt.Sprintf("Tempo em %s: %s°C, vento %s km/h.", c.City, c.Temperature, c.WindSpeed)
}

func (w *Weather) render(city string, err error) string {
	switch {
	case errors.Is(err, ErrEntityNotRecognized):
		return "Não consegui identificar a cidade na pergunta."
	case errors.Is(err, ErrTransport):
		return fmt.Sprintf("Não consegui consultar o clima agora (erro de conexão: %s).", ClassOf(err))
	case errors.Is(err, errCityNotFound):
		return fmt.Sprintf("Não encontrei a cidade %s.", city)
	case errors.Is(err, ErrMalformedResponse):
		return "Não consegui consultar o clima agora (resposta inesperada)."
	default:
		return fmt.Sprintf("Não consegui obter a temperatura atual em %s.", city)
	}
}
