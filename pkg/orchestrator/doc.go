// Package orchestrator wires the definition → text field → style manager →
// renderer pipeline behind a single Generate call, with dependency injection
// friendly options for callers that need to swap any stage.
package orchestrator
