package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/logging"
)

var (
	// ErrCycle reports a dependency cycle detected during validation.
	ErrCycle = errors.New("workflow: dependency cycle")
	// ErrUnknownDependency reports a dependency on a node that was never
	// added.
	ErrUnknownDependency = errors.New("workflow: unknown dependency")
	// ErrDuplicateNode reports two nodes added under the same name.
	ErrDuplicateNode = errors.New("workflow: duplicate node name")
)

// GuardFunc decides at execution time whether a node should run. It receives
// the initial input merged with the outputs produced so far keyed by node
// name; outputs win on key collision. Returning false skips the node without
// recording a result.
type GuardFunc func(results map[string]any) bool

// InputTransformFunc rewrites a node's merged input map before its agent
// runs; OutputTransformFunc rewrites the agent's output before it is
// recorded.
type (
	InputTransformFunc  func(input map[string]any) map[string]any
	OutputTransformFunc func(output any) any
)

// Node binds one agent to a position in the graph.
type Node struct {
	ID   string
	Name string
	Task string

	agent           core.Agent
	deps            []string
	guard           GuardFunc
	inputTransform  InputTransformFunc
	outputTransform OutputTransformFunc
}

// NodeOption configures a node at AddNode time.
type NodeOption func(n *Node)

// WithDependencies declares the nodes, by name, whose outputs this node
// consumes. The node runs only after all of them.
func WithDependencies(names ...string) NodeOption {
	return func(n *Node) { n.deps = append(n.deps, names...) }
}

// WithGuard attaches a guard predicate evaluated just before the node runs.
func WithGuard(guard GuardFunc) NodeOption {
	return func(n *Node) { n.guard = guard }
}

// WithInputTransform rewrites the node's merged input before the agent runs.
func WithInputTransform(fn InputTransformFunc) NodeOption {
	return func(n *Node) { n.inputTransform = fn }
}

// WithOutputTransform rewrites the agent's output before it is recorded.
func WithOutputTransform(fn OutputTransformFunc) NodeOption {
	return func(n *Node) { n.outputTransform = fn }
}

// Workflow is a dependency graph of agent nodes. Build it with AddNode, then
// call Execute. A Workflow is not safe for concurrent mutation; build it
// fully before executing.
type Workflow struct {
	ID   string
	Name string

	logger logging.Logger
	nodes  []*Node
	byName map[string]*Node
}

// Options configures a Workflow.
type Options struct {
	// Logger receives execution progress; nil disables logging.
	Logger logging.Logger
}

// New creates an empty workflow.
func New(name string, optFns ...func(o *Options)) *Workflow {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Workflow{
		ID:     uuid.NewString(),
		Name:   name,
		logger: opts.Logger,
		byName: map[string]*Node{},
	}
}

// AddNode registers an agent under a unique name with its task and options.
func (w *Workflow) AddNode(name, task string, agent core.Agent, optFns ...NodeOption) (*Node, error) {
	if _, exists := w.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	node := &Node{
		ID:    uuid.NewString(),
		Name:  name,
		Task:  task,
		agent: agent,
	}
	for _, fn := range optFns {
		fn(node)
	}
	w.nodes = append(w.nodes, node)
	w.byName[name] = node
	return node, nil
}

// Nodes returns the registered nodes in insertion order.
func (w *Workflow) Nodes() []*Node {
	out := make([]*Node, len(w.nodes))
	copy(out, w.nodes)
	return out
}

// Validate checks the graph for dangling dependencies and cycles. Execute
// calls it implicitly; exposing it lets callers fail fast at build time.
func (w *Workflow) Validate() error {
	for _, n := range w.nodes {
		for _, dep := range n.deps {
			if _, ok := w.byName[dep]; !ok {
				return fmt.Errorf("%w: node %q depends on %q", ErrUnknownDependency, n.Name, dep)
			}
		}
	}
	_, err := w.order()
	return err
}

// ExecutionResult is the outcome of one workflow execution: the order nodes
// ran in, each node's (possibly transformed) output keyed by name, and the
// full agent results for inspection. Skipped nodes appear in none of the
// maps. Keys are node names rather than node IDs; names are unique within a
// workflow, so the two identify the same node.
type ExecutionResult struct {
	WorkflowID string
	Order      []string
	Outputs    map[string]any
	Results    map[string]*core.Result
}

// Execute validates the graph and runs every node in dependency order. The
// initial input map is visible to every node; each node additionally sees its
// dependencies' outputs keyed by their node names. The first agent error
// aborts the execution.
func (w *Workflow) Execute(ctx context.Context, input map[string]any) (*ExecutionResult, error) {
	for _, n := range w.nodes {
		for _, dep := range n.deps {
			if _, ok := w.byName[dep]; !ok {
				return nil, fmt.Errorf("%w: node %q depends on %q", ErrUnknownDependency, n.Name, dep)
			}
		}
	}
	order, err := w.order()
	if err != nil {
		return nil, err
	}

	exec := &ExecutionResult{
		WorkflowID: w.ID,
		Outputs:    map[string]any{},
		Results:    map[string]*core.Result{},
	}

	for _, node := range order {
		if node.guard != nil {
			view := make(map[string]any, len(input)+len(exec.Outputs))
			for k, v := range input {
				view[k] = v
			}
			for k, v := range exec.Outputs {
				view[k] = v
			}
			if !node.guard(view) {
				w.logger.Info("node skipped by guard",
					"workflow", w.Name, "node", node.Name)
				continue
			}
		}

		nodeInput := map[string]any{}
		for k, v := range input {
			nodeInput[k] = v
		}
		for _, dep := range node.deps {
			if v, ok := exec.Outputs[dep]; ok {
				nodeInput[dep] = v
			}
		}
		if node.inputTransform != nil {
			nodeInput = node.inputTransform(nodeInput)
		}

		started := time.Now()
		result, err := node.agent.Run(ctx, node.Task, nodeInput)
		if err != nil {
			w.logger.Error("node failed",
				"workflow", w.Name, "node", node.Name,
				"duration", time.Since(started), "error", err.Error())
			return nil, fmt.Errorf("workflow %q: node %q: %w", w.Name, node.Name, err)
		}
		w.logger.Info("node completed",
			"workflow", w.Name, "node", node.Name,
			"state", string(result.State), "duration", time.Since(started))

		output := any(result.Output)
		if node.outputTransform != nil {
			output = node.outputTransform(output)
		}
		exec.Order = append(exec.Order, node.Name)
		exec.Outputs[node.Name] = output
		exec.Results[node.Name] = result
	}

	return exec, nil
}

// order produces a dependency-respecting node ordering via depth-first
// search, detecting cycles with three-color marking.
func (w *Workflow) order() ([]*Node, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(w.nodes))
	ordered := make([]*Node, 0, len(w.nodes))

	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch color[n.Name] {
		case gray:
			return fmt.Errorf("%w: involving node %q", ErrCycle, n.Name)
		case black:
			return nil
		}
		color[n.Name] = gray
		for _, dep := range n.deps {
			if d, ok := w.byName[dep]; ok {
				if err := visit(d); err != nil {
					return err
				}
			}
		}
		color[n.Name] = black
		ordered = append(ordered, n)
		return nil
	}

	for _, n := range w.nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
