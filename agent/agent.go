package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/logging"
	"github.com/archon-ai/archon/memory"
	"github.com/archon-ai/archon/model"
	"github.com/archon-ai/archon/prompt"
	"github.com/archon-ai/archon/tool"
)

// NotCompletedNotice prefixes the output of a run that exhausted its budget
// before the task completed.
const NotCompletedNotice = "Task not completed within maximum iterations. "

// completionWindow bounds how far into a completion-check response the
// yes/complete signal is searched. See the warning on isCompletionSignal.
const completionWindow = 100

// ErrNoGateway is returned when an agent is constructed without a model
// gateway.
var ErrNoGateway = errors.New("agent: a model gateway is required")

// Options configures agent construction. One struct serves every
// architecture; fields irrelevant to the chosen architecture are ignored, not
// errors.
type Options struct {
	// Name is the agent's display name, used in prompts and logs.
	Name string
	// Description tells the model what the agent is for.
	Description string
	// Gateway drives text generation. Required.
	Gateway model.Gateway
	// Tools the agent may invoke from its action stages.
	Tools []tool.Tool
	// Logger receives observational output; nil disables logging.
	Logger logging.Logger
	// Memory, when set, records task -> output after each run.
	Memory memory.Store
	// Temperature and MaxTokens apply to regular reasoning stages.
	// Auxiliary calls (completion checks, gates) use their own settings.
	Temperature float64
	MaxTokens   int
	// HistoryLimit bounds retained entries per context field.
	HistoryLimit int

	// MaxIterations bounds the reasoning loop (ReAct, OODA, BDI, RAISE).
	MaxIterations int
	// Examples seed the RAISE scratch pad guidance.
	Examples []string
	// MaxDepth and MaxBranches bound the LAT tree search.
	MaxDepth    int
	MaxBranches int
	// NumWorkers sets the ReWOO delegation fan-out.
	NumWorkers int
}

func defaultOptions(arch core.Architecture) Options {
	return Options{
		Name:          fmt.Sprintf("%s-agent", arch),
		Description:   fmt.Sprintf("an agent reasoning with the %s architecture", arch),
		Logger:        logging.NoOpLogger{},
		Temperature:   0.7,
		MaxTokens:     1000,
		HistoryLimit:  core.DefaultHistoryLimit,
		MaxIterations: 10,
		MaxDepth:      5,
		MaxBranches:   3,
		NumWorkers:    3,
	}
}

// New constructs an agent for the given architecture. Unknown architectures
// and missing gateways are configuration errors reported here, before any
// side effect.
func New(arch core.Architecture, optFns ...func(o *Options)) (core.Agent, error) {
	switch arch {
	case core.ArchitectureReAct:
		return NewReActAgent(optFns...)
	case core.ArchitectureOODA:
		return NewOODAAgent(optFns...)
	case core.ArchitectureBDI:
		return NewBDIAgent(optFns...)
	case core.ArchitectureLAT:
		return NewLATAgent(optFns...)
	case core.ArchitectureRAISE:
		return NewRAISEAgent(optFns...)
	case core.ArchitectureReWOO:
		return NewReWOOAgent(optFns...)
	default:
		return nil, fmt.Errorf("unknown agent architecture: %q", arch)
	}
}

// baseAgent bundles the identity, collaborators and stage helpers shared by
// every architecture. Concrete agents embed it and supply Run.
type baseAgent struct {
	id   string
	arch core.Architecture
	opts Options

	tools *tool.Registry
}

func newBaseAgent(arch core.Architecture, optFns []func(o *Options)) (baseAgent, error) {
	opts := defaultOptions(arch)
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Gateway == nil {
		return baseAgent{}, ErrNoGateway
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return baseAgent{
		id:    uuid.NewString(),
		arch:  arch,
		opts:  opts,
		tools: tool.NewRegistry(opts.Tools...),
	}, nil
}

// ID returns the agent's unique identifier.
func (b *baseAgent) ID() string { return b.id }

// Name returns the agent's display name.
func (b *baseAgent) Name() string { return b.opts.Name }

// Description returns the agent's purpose description.
func (b *baseAgent) Description() string { return b.opts.Description }

// Architecture returns the agent's reasoning architecture.
func (b *baseAgent) Architecture() core.Architecture { return b.arch }

// newRun prepares the per-run state: a fresh RunContext seeded with the tool
// surface and caller extras, plus a scoped logger.
func (b *baseAgent) newRun(task string, extra map[string]any) (*core.RunContext, *logging.RunLogger) {
	rc := core.NewRunContext(task, b.opts.HistoryLimit)
	rc.ToolNames = b.tools.Names()
	rc.ToolDescriptions = b.tools.Descriptions()
	rc.MergeExtra(extra)

	rl := logging.NewRunLogger(b.opts.Logger, b.opts.Name, uuid.NewString())
	return rc, rl
}

// systemPrompt renders the architecture's system template.
func (b *baseAgent) systemPrompt() string {
	out, err := prompt.System(b.arch, prompt.SystemData{
		AgentName:        b.opts.Name,
		AgentDescription: b.opts.Description,
		AvailableActions: strings.Join(b.tools.Names(), ", "),
	})
	if err != nil {
		return prompt.Generic(b.opts.Name, b.opts.Description)
	}
	return out
}

// generate performs one gateway call at the agent's configured temperature
// and token budget. Gateway errors propagate untouched.
func (b *baseAgent) generate(ctx context.Context, rl *logging.RunLogger, stage, system, user string) (string, error) {
	return b.generateWith(ctx, rl, stage, system, user, b.opts.Temperature, b.opts.MaxTokens)
}

// generateWith is generate with explicit sampling settings, used by auxiliary
// stages (completion checks, yes/no gates, partial answers).
func (b *baseAgent) generateWith(ctx context.Context, rl *logging.RunLogger, stage, system, user string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := b.opts.Gateway.Generate(ctx, model.Request{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	rl.LogModelCall(stage, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// executeInstruction turns a free-text action instruction into a tool call
// and returns the observation text. Unknown tools and execution failures are
// folded into the observation, never surfaced as run errors.
func (b *baseAgent) executeInstruction(ctx context.Context, rl *logging.RunLogger, instruction string) string {
	call, ok := tool.ParseCall(instruction)
	if !ok {
		return fmt.Sprintf("Action %q was taken, but no specific tool was utilized. Use a tool if you need to retrieve information.", instruction)
	}

	t, found := b.tools.Resolve(call.Name)
	if !found {
		return fmt.Sprintf("Could not find tool %q. Available tools: %s", call.Name, strings.Join(b.tools.Names(), ", "))
	}

	start := time.Now()
	result, err := t.Execute(ctx, call.Args)
	rl.LogToolCall(t.Name(), time.Since(start), err)
	if err != nil {
		return fmt.Sprintf("Error executing tool %s: %v", t.Name(), err)
	}

	rendered, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		rendered = []byte(fmt.Sprintf("%v", result))
	}
	return fmt.Sprintf("Used %s with input %q and got: %s", t.Name(), call.RawInput, rendered)
}

// isCompletionSignal reports whether a completion-check response signals that
// the task is done: "yes" or "complete" within the first 100 characters,
// case-insensitive.
//
// Warning: the heuristic is known to misclassify negative answers that
// contain these substrings early ("yes, more work is needed"). Treat it as a
// soft signal.
func isCompletionSignal(text string) bool {
	head := strings.ToLower(text)
	if len(head) > completionWindow {
		head = head[:completionWindow]
	}
	return strings.Contains(head, "yes") || strings.Contains(head, "complete")
}

var finalAnswerPattern = regexp.MustCompile(`(?is)final answer:?\s*(.*)`)

// finalAnswer returns the content after a "final answer" marker, or the whole
// trimmed text when no marker is present.
func finalAnswer(text string) string {
	if m := finalAnswerPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// checkCompletion asks the model whether the task is done, returning the
// completion flag and the (possibly partial) answer text.
func (b *baseAgent) checkCompletion(ctx context.Context, rl *logging.RunLogger, user string) (bool, string, error) {
	resp, err := b.generateWith(ctx, rl, "completion_check",
		"Determine if the agent has completed its task and can provide a final answer.",
		user, 0.5, 500)
	if err != nil {
		return false, "", err
	}
	if isCompletionSignal(resp) {
		return true, finalAnswer(resp), nil
	}
	return false, strings.TrimSpace(resp), nil
}

// yesNo asks a low-temperature yes/no question and reports whether the answer
// opens with yes.
func (b *baseAgent) yesNo(ctx context.Context, rl *logging.RunLogger, stage, system, user string, maxTokens int) (bool, error) {
	resp, err := b.generateWith(ctx, rl, stage, system, user, 0.3, maxTokens)
	if err != nil {
		return false, err
	}
	head := strings.ToLower(resp)
	if len(head) > completionWindow {
		head = head[:completionWindow]
	}
	return strings.Contains(head, "yes"), nil
}

// partialAnswer issues the extra stage call made when the iteration budget is
// exhausted, asking for a best-effort answer over the gathered context.
func (b *baseAgent) partialAnswer(ctx context.Context, rl *logging.RunLogger, user string) (string, error) {
	resp, err := b.generateWith(ctx, rl, "partial_answer",
		"Based on the information gathered so far, provide a partial answer to the task.",
		user, 0.7, 500)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// finish assembles the immutable Result and performs end-of-run bookkeeping.
func (b *baseAgent) finish(rl *logging.RunLogger, started time.Time, task, output string, state core.State, steps []core.Step, iterations int, metadata map[string]any) *core.Result {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["architecture"] = b.arch.String()

	if b.opts.Memory != nil {
		// Best effort; memory failures never affect the run outcome.
		_ = b.opts.Memory.Put(task, output)
	}

	rl.LogRunCompletion(string(state), iterations, time.Since(started))

	return &core.Result{
		AgentID:    b.id,
		Output:     output,
		State:      state,
		Steps:      steps,
		Iterations: iterations,
		Metadata:   metadata,
	}
}

// toolMenu renders the "Available tools" block shown in decision prompts.
func (b *baseAgent) toolMenu() string {
	names := b.tools.Names()
	if len(names) == 0 {
		return ""
	}
	descriptions := b.tools.Descriptions()
	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: %s\n", name, descriptions[name])
	}
	return sb.String()
}
