// Package assistant talks to the LLM. It assembles the prompt from the
// system instruction, a window of recent history and the new message,
// and records the exchange once the model has answered.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/riosspedro/rios/internal/memory"
	"github.com/riosspedro/rios/internal/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Defaults applied to zero Config fields.
const (
	DefaultSystemPrompt = "Você é o assistente principal do sistema Rios AI, criado por Pedro Rios. " +
		"Seja educado, amigável e objetivo. " +
		"Se o usuário for da Artefact, envie uma mensagem calorosa e profissional."
	DefaultTemperature   = 0.2
	DefaultHistoryWindow = 6
	DefaultOrgName       = "Artefact"
)

// ServiceName is the AppContext key the Client is registered under.
const ServiceName = "assistant"

// DefaultOrgKeywords trigger the organization greeting.
var DefaultOrgKeywords = []string{"artefact"}

var tracer = otel.Tracer("github.com/riosspedro/rios/internal/assistant")

// Config holds the client dependencies and prompt settings.
type Config struct {
	Provider provider.Provider
	History  memory.HistoryStore

	// SystemPrompt is the first message of every request.
	SystemPrompt string

	// Temperature is sent with every request. Nil means DefaultTemperature.
	Temperature *float64

	// HistoryWindow is how many stored turns are replayed. Zero means
	// DefaultHistoryWindow.
	HistoryWindow int

	// OrgKeywords are matched case-insensitively against the message.
	// A match wraps the message in the OrgName greeting instruction.
	// Nil means DefaultOrgKeywords.
	OrgKeywords []string
	OrgName     string

	Logger *slog.Logger
}

// Settings are the prompt parameters that may change while the client is
// in use. Zero fields take the same defaults as Config.
type Settings struct {
	SystemPrompt  string
	Temperature   *float64
	HistoryWindow int
	OrgKeywords   []string
	OrgName       string
}

func (s *Settings) defaults() {
	if s.SystemPrompt == "" {
		s.SystemPrompt = DefaultSystemPrompt
	}
	if s.Temperature == nil {
		s.Temperature = provider.Float64(DefaultTemperature)
	}
	if s.HistoryWindow <= 0 {
		s.HistoryWindow = DefaultHistoryWindow
	}
	if s.OrgKeywords == nil {
		s.OrgKeywords = DefaultOrgKeywords
	}
	if s.OrgName == "" {
		s.OrgName = DefaultOrgName
	}
}

// Client is the LLM completion client. It is safe for concurrent use.
type Client struct {
	cfg      Config
	settings atomic.Pointer[Settings]
	logger   *slog.Logger

	// appendMu keeps each user/assistant pair adjacent in a shared scope.
	appendMu sync.Mutex
}

// New validates cfg, applies defaults and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Provider == nil {
		return nil, ErrNoProvider
	}
	if cfg.History == nil {
		return nil, ErrNoHistory
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.With("component", "assistant"),
	}
	c.Reconfigure(Settings{
		SystemPrompt:  cfg.SystemPrompt,
		Temperature:   cfg.Temperature,
		HistoryWindow: cfg.HistoryWindow,
		OrgKeywords:   cfg.OrgKeywords,
		OrgName:       cfg.OrgName,
	})
	return c, nil
}

// Reconfigure replaces the prompt settings. Requests already in flight
// keep the settings they started with.
func (c *Client) Reconfigure(s Settings) {
	s.defaults()
	s.OrgKeywords = append([]string(nil), s.OrgKeywords...)
	c.settings.Store(&s)
}

// Settings returns the prompt settings in effect.
func (c *Client) Settings() Settings {
	return *c.settings.Load()
}

// Rewrite wraps text in the organization greeting instruction when it
// mentions one of the organization keywords, and returns it unchanged
// otherwise.
func (c *Client) Rewrite(text string) string {
	return rewrite(c.settings.Load(), text)
}

func rewrite(s *Settings, text string) string {
	lower := strings.ToLower(text)
	for _, kw := range s.OrgKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return fmt.Sprintf(
				"O usuário se identificou como alguém da %s. "+
					"Envie uma saudação calorosa e profissional, apresente o Rios AI "+
					"e depois responda a pergunta normalmente.\n\n"+
					"Mensagem original: %s",
				s.OrgName, text)
		}
	}
	return text
}

// Ask sends text to the model with the recent history of scope and
// returns the reply verbatim. Provider failures are returned wrapped and
// leave the history untouched.
func (c *Client) Ask(ctx context.Context, scope, text string) (string, error) {
	ctx, span := tracer.Start(ctx, "assistant.ask")
	defer span.End()

	settings := c.settings.Load()
	msg := rewrite(settings, text)
	if msg != text {
		span.SetAttributes(attribute.Bool("assistant.org_greeting", true))
	}

	history, err := c.cfg.History.Recent(ctx, scope, settings.HistoryWindow)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history")
		return "", fmt.Errorf("assistant: read history: %w", err)
	}

	req := provider.CompletionRequest{
		Messages:    buildMessages(settings.SystemPrompt, history, msg),
		Temperature: settings.Temperature,
	}
	span.SetAttributes(
		attribute.String("llm.model", c.cfg.Provider.ModelName()),
		attribute.Int("assistant.history_turns", len(history)),
	)

	c.logger.Debug("sending message to LLM", "message", msg, "history_turns", len(history))

	resp, err := c.cfg.Provider.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion")
		return "", fmt.Errorf("assistant: completion: %w", err)
	}

	c.logger.Debug("LLM replied", "reply", resp.Content, "total_tokens", resp.Usage.TotalTokens)

	c.record(ctx, scope, msg, resp.Content)
	return resp.Content, nil
}

// ModelName returns the model the provider talks to.
func (c *Client) ModelName() string {
	return c.cfg.Provider.ModelName()
}

// HistoryLen returns the number of turns stored for scope.
func (c *Client) HistoryLen(ctx context.Context, scope string) (int, error) {
	return c.cfg.History.Len(ctx, scope)
}

func buildMessages(system string, history []memory.Turn, msg string) []provider.LLMMessage {
	out := make([]provider.LLMMessage, 0, len(history)+2)
	out = append(out, provider.LLMMessage{Role: provider.MessageRoleSystem, Content: system})
	for _, t := range history {
		out = append(out, t.Message())
	}
	return append(out, provider.LLMMessage{Role: provider.MessageRoleUser, Content: msg})
}

// record stores the exchange. A storage failure is logged, not returned:
// the user already has an answer.
func (c *Client) record(ctx context.Context, scope, msg, reply string) {
	c.appendMu.Lock()
	defer c.appendMu.Unlock()

	if err := c.cfg.History.Append(ctx, scope, memory.UserTurn(msg)); err != nil {
		c.logger.Error("failed to store user turn", "error", err)
		return
	}
	if err := c.cfg.History.Append(ctx, scope, memory.AssistantTurn(reply)); err != nil {
		c.logger.Error("failed to store assistant turn", "error", err)
	}
}
