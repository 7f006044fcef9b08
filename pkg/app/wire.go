package app

import (
	"fmt"
	"strings"

	"github.com/riosspedro/rios/internal/assistant"
	"github.com/riosspedro/rios/internal/config"
	"github.com/riosspedro/rios/internal/core"
	"github.com/riosspedro/rios/internal/intent"
	"github.com/riosspedro/rios/internal/lookup"
	"github.com/riosspedro/rios/internal/memory"
	"github.com/riosspedro/rios/internal/provider"
	"github.com/riosspedro/rios/internal/router"
	"github.com/riosspedro/rios/internal/security"
)

// secretHolder is implemented by providers that carry an API key.
type secretHolder interface {
	APIKey() string
}

// wire builds the lookups, the assistant and the router from the loaded
// modules, and registers them for the gateway to discover.
// Must be called after LoadModules and before Start.
func (a *App) wire(appCtx *core.AppContext, redactor *security.Redactor) error {
	cfg := a.Config
	logger := a.Logger

	llm, err := resolveProvider(appCtx)
	if err != nil {
		return err
	}
	if s, ok := llm.(secretHolder); ok {
		redactor.AddLiteral(s.APIKey())
	}

	history := resolveHistory(appCtx)
	if _, ok := history.(*memory.InMemoryHistoryStore); ok {
		logger.Debug("no memory module loaded, using in-process history")
	}

	scoping, err := memory.ParseScoping(cfg.Memory.Scope)
	if err != nil {
		return err
	}

	settings := assistantSettings(cfg.Assistant)
	client, err := assistant.New(assistant.Config{
		Provider:      llm,
		History:       history,
		SystemPrompt:  settings.SystemPrompt,
		Temperature:   settings.Temperature,
		HistoryWindow: settings.HistoryWindow,
		OrgKeywords:   settings.OrgKeywords,
		OrgName:       settings.OrgName,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("app: creating assistant: %w", err)
	}

	lookups := lookup.New(lookup.Config{
		Timeout:     cfg.Lookups.Timeout,
		GeocodeURL:  cfg.Lookups.GeocodeURL,
		ForecastURL: cfg.Lookups.ForecastURL,
		CurrencyURL: cfg.Lookups.CurrencyURL,
		CryptoURL:   cfg.Lookups.CryptoURL,
		Logger:      logger,
	})

	r, err := router.New(router.Config{
		Classifier: intent.KeywordClassifier{},
		Weather:    lookups.Weather,
		Currency:   lookups.Currency,
		Crypto:     lookups.Crypto,
		Assistant:  client,
		Scoping:    scoping,
		Metrics:    a.Metrics,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("app: creating router: %w", err)
	}

	a.Assistant = client
	a.Router = r
	appCtx.RegisterService(assistant.ServiceName, client)
	appCtx.RegisterService(router.ServiceName, r)

	logger.Info("router wired", "model", llm.ModelName(), "memory_scope", string(scoping))
	return nil
}

func assistantSettings(c config.AssistantConfig) assistant.Settings {
	return assistant.Settings{
		SystemPrompt:  c.SystemPrompt,
		Temperature:   c.Temperature,
		HistoryWindow: c.HistoryWindow,
		OrgKeywords:   c.OrgKeywords,
		OrgName:       c.OrgName,
	}
}

// resolveProvider returns the first registered provider service, by
// service name order.
func resolveProvider(appCtx *core.AppContext) (provider.Provider, error) {
	for _, name := range appCtx.ServiceNames() {
		if !strings.HasPrefix(name, provider.ServicePrefix) {
			continue
		}
		svc, _ := appCtx.Service(name)
		if p, ok := svc.(provider.Provider); ok {
			return p, nil
		}
	}
	return nil, provider.ErrNoProvider
}

// resolveHistory returns the history service registered by a memory
// module, or a fresh in-process store.
func resolveHistory(appCtx *core.AppContext) memory.HistoryStore {
	if svc, ok := appCtx.Service(memory.ServiceName); ok {
		if h, ok := svc.(memory.HistoryStore); ok {
			return h
		}
	}
	return memory.NewInMemoryHistoryStore()
}
