// Package core provides the module system the assistant is assembled from:
// a process-wide module registry, a shared AppContext carrying the logger
// and discoverable services, and an App that drives module lifecycles.
package core

// ModuleID uniquely names a module. By convention it is a dotted
// "namespace.name" pair such as "provider.openai" or "gateway.http".
type ModuleID string

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module implements. Optional
// behaviour is discovered through the interfaces in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}
