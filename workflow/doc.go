// Package workflow schedules agents over a dependency graph. A Workflow is a
// set of named nodes, each wrapping one agent with a task, an optional guard
// predicate, optional input/output transforms and a list of dependencies on
// other nodes by name.
//
// Execute validates the whole graph before running anything: unknown
// dependencies and cycles are rejected up front, so a broken graph never
// produces partial side effects. Valid graphs run in dependency order, each
// node receiving the outputs of its dependencies keyed by their names. A node
// whose guard declines leaves no entry in the results; downstream nodes simply
// see the key missing. Agent errors abort the execution.
package workflow
