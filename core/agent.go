package core

import "context"

// Agent is the unit-of-work abstraction implemented by every reasoning
// architecture. One Agent instance binds a strategy, its configuration and
// its collaborators (model gateway, tools, logger) at construction time.
//
// Run executes one bounded reasoning cycle for the given task. The extra map
// carries caller-supplied context merged into the run's context without
// overwriting keys the agent itself manages. Run never returns an error for
// ordinary non-completion: exhausting the iteration budget yields a Result in
// StateExhausted with a best-effort partial answer. The only error Run
// surfaces is a model gateway failure, which propagates unwrapped so the
// caller (or a workflow) can abort.
//
// Implementations must be safe to Run repeatedly; each call owns a fresh
// RunContext that is discarded when the call returns.
type Agent interface {
	ID() string
	Name() string
	Description() string
	Architecture() Architecture
	Run(ctx context.Context, task string, extra map[string]any) (*Result, error)
}

// AgentInfo carries identifying details about an agent used in results and
// workflow nodes.
type AgentInfo struct {
	ID           string
	Name         string
	Architecture Architecture
}
