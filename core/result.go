package core

import (
	"fmt"
	"strings"
)

// State is the terminal state of an agent run. Both states are normal
// outcomes, not failures.
type State string

const (
	// StateCompleted means the agent signalled completion and produced a
	// final answer within its iteration budget.
	StateCompleted State = "completed"
	// StateExhausted means the iteration budget ran out; the output is a
	// best-effort partial answer.
	StateExhausted State = "exhausted"
)

// Step is one entry in a run's step trace: the stage that produced it plus
// its textual content. Items carries multi-valued content (e.g. one entry per
// delegated worker) where a single string would lose structure.
type Step struct {
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Items   []string `json:"items,omitempty"`
}

// Result is the immutable outcome of one agent run: the final output, the
// complete ordered step trace, the iteration count and strategy-specific
// metadata. Agents build it once at the end of Run and never mutate it
// afterwards.
type Result struct {
	AgentID    string         `json:"agent_id"`
	Output     string         `json:"output"`
	State      State          `json:"state"`
	Steps      []Step         `json:"steps"`
	Iterations int            `json:"iterations"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Completed reports whether the run terminated with an explicit completion
// signal rather than budget exhaustion.
func (r *Result) Completed() bool { return r.State == StateCompleted }

// Format renders the result for human consumption. With verbose enabled the
// full step trace is included, indented under its stage headings.
func (r *Result) Format(verbose bool) string {
	var b strings.Builder

	arch := "agent"
	if v, ok := r.Metadata["architecture"].(string); ok && v != "" {
		arch = v
	}
	fmt.Fprintf(&b, "Result from %s agent:\n", strings.ToUpper(arch))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&b, "ANSWER:\n%s\n\n", r.Output)

	if verbose {
		b.WriteString("THINKING PROCESS:\n" + strings.Repeat("-", 40) + "\n")
		for _, step := range r.Steps {
			content := step.Content
			if len(step.Items) > 0 {
				content = strings.Join(step.Items, "\n")
			}
			if step.Type == "" || content == "" {
				continue
			}
			fmt.Fprintf(&b, "%s:\n%s\n\n", strings.ToUpper(step.Type), indent(content, "  "))
		}
	}

	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "State: %s\n", r.State)
	fmt.Fprintf(&b, "Iterations: %d\n", r.Iterations)

	return b.String()
}

// String implements fmt.Stringer using the non-verbose format.
func (r *Result) String() string { return r.Format(false) }

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
