// Package provider defines the contract between the assistant and the LLM
// backend. Concrete backends live under modules/provider and register
// themselves as core modules.
package provider

import "context"

// Provider is the interface for communicating with an LLM.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// ServicePrefix is prepended to a provider module ID when it registers
// itself in the AppContext service registry.
const ServicePrefix = "provider."
