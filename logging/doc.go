// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a RunLogger with domain-specific helpers
// for reasoning stages, model calls and tool calls.
package logging
