// Package core provides the foundational domain types and interfaces used by
// Archon. It defines the core abstractions for:
//
//   - Architectures (the closed set of reasoning strategies)
//   - Agents (bounded units of reasoning work)
//   - RunContext (per-run accumulated context with bounded history)
//   - Results (immutable run outcomes with a full step trace)
//
// The package intentionally keeps implementation concerns (model providers,
// concrete agents, workflow orchestration) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
