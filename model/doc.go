// Package model defines the minimal gateway interface agents use to obtain
// text from a language model, together with a deterministic mock for tests.
// Provider-specific adapters live in the anthropic and openai subpackages.
package model
