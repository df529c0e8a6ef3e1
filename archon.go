// Package archon provides a high-level façade over the agent architectures,
// the model gateways and the workflow scheduler, enabling quick construction
// of reasoning agents. Most applications interact with this package by:
//  1. Creating an Archon via New() with a model gateway
//  2. Creating agents for the architectures they need (CreateAgent)
//  3. Running tasks (Run) or composing agents into a workflow (NewWorkflow)
//
// The façade keeps a registry of created agents so workflows and repeated
// runs can address them by name. All defaults are safe for local development
// and testing; production deployments typically supply a structured logger
// and a durable memory store.
package archon

import (
	"context"
	"fmt"
	"sync"

	"github.com/archon-ai/archon/agent"
	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/logging"
	"github.com/archon-ai/archon/memory"
	"github.com/archon-ai/archon/model"
	"github.com/archon-ai/archon/tool"
	"github.com/archon-ai/archon/workflow"
)

// Options configures the Archon instance.
type Options struct {
	// Gateway is the default model gateway for every created agent. Required
	// unless every CreateAgent call supplies its own.
	Gateway model.Gateway

	// Tools are made available to every created agent in addition to any
	// per-agent tools.
	Tools []tool.Tool

	// Memory records task outcomes across runs (defaults to an in-memory
	// store).
	Memory memory.Store

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Archon is the high-level façade aggregating the gateway, shared tools and
// the registry of created agents.
type Archon struct {
	opts Options

	mu     sync.RWMutex
	agents map[string]core.Agent
}

// New creates a new Archon instance with optional overrides.
func New(optFns ...func(o *Options)) *Archon {
	opts := Options{
		Memory: memory.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Archon{opts: opts, agents: map[string]core.Agent{}}
}

// CreateAgent constructs an agent for the given architecture, registers it
// under its name and returns it. The instance's gateway, tools, memory and
// logger are applied first; the caller's option functions can override them.
func (a *Archon) CreateAgent(arch core.Architecture, optFns ...func(o *agent.Options)) (core.Agent, error) {
	merged := append([]func(o *agent.Options){func(o *agent.Options) {
		o.Gateway = a.opts.Gateway
		o.Tools = append(o.Tools, a.opts.Tools...)
		o.Memory = a.opts.Memory
		o.Logger = a.opts.Logger
	}}, optFns...)

	ag, err := agent.New(arch, merged...)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.agents[ag.Name()]; exists {
		return nil, fmt.Errorf("archon: agent %q already registered", ag.Name())
	}
	a.agents[ag.Name()] = ag
	return ag, nil
}

// Agent returns a previously created agent by name.
func (a *Archon) Agent(name string) (core.Agent, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ag, ok := a.agents[name]
	return ag, ok
}

// Agents lists the registered agents.
func (a *Archon) Agents() []core.AgentInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]core.AgentInfo, 0, len(a.agents))
	for _, ag := range a.agents {
		out = append(out, core.AgentInfo{
			ID:           ag.ID(),
			Name:         ag.Name(),
			Architecture: ag.Architecture(),
		})
	}
	return out
}

// Run executes a task on the named agent.
func (a *Archon) Run(ctx context.Context, agentName, task string, extra map[string]any) (*core.Result, error) {
	ag, ok := a.Agent(agentName)
	if !ok {
		return nil, fmt.Errorf("archon: unknown agent %q", agentName)
	}
	return ag.Run(ctx, task, extra)
}

// RunWith creates a throwaway agent for the architecture, runs the task on it
// and returns the result. Convenient for one-shot tasks where no registry
// entry is wanted.
func (a *Archon) RunWith(ctx context.Context, arch core.Architecture, task string, optFns ...func(o *agent.Options)) (*core.Result, error) {
	merged := append([]func(o *agent.Options){func(o *agent.Options) {
		o.Gateway = a.opts.Gateway
		o.Tools = append(o.Tools, a.opts.Tools...)
		o.Memory = a.opts.Memory
		o.Logger = a.opts.Logger
	}}, optFns...)

	ag, err := agent.New(arch, merged...)
	if err != nil {
		return nil, err
	}
	return ag.Run(ctx, task, nil)
}

// NewWorkflow creates a workflow wired to the instance's logger.
func (a *Archon) NewWorkflow(name string) *workflow.Workflow {
	return workflow.New(name, func(o *workflow.Options) {
		o.Logger = a.opts.Logger
	})
}
