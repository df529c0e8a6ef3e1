package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/extract"
	"github.com/archon-ai/archon/logging"
)

// RAISEAgent reasons over a persistent scratch pad guided by worked examples.
// The first iteration analyzes the task and selects the applicable examples;
// every iteration then writes working notes into the pad, optionally consults
// a tool behind a yes/no gate, and the completion check reads the accumulated
// pad rather than a single response.
type RAISEAgent struct {
	baseAgent
}

// NewRAISEAgent creates a RAISE agent.
func NewRAISEAgent(optFns ...func(o *Options)) (*RAISEAgent, error) {
	base, err := newBaseAgent(core.ArchitectureRAISE, optFns)
	if err != nil {
		return nil, err
	}
	return &RAISEAgent{baseAgent: base}, nil
}

// scratchPad holds the ordered markdown sections of a working pad. Sections
// keep their position on update.
type scratchPad struct {
	order    []string
	sections map[string]string
}

func newScratchPad() *scratchPad {
	return &scratchPad{sections: map[string]string{}}
}

// upsert replaces a section's content, creating the section at the end of the
// pad when it does not exist yet.
func (p *scratchPad) upsert(title, content string) {
	if _, ok := p.sections[title]; !ok {
		p.order = append(p.order, title)
	}
	p.sections[title] = content
}

// appendTo adds a line to a section, creating it when missing.
func (p *scratchPad) appendTo(title, content string) {
	if existing, ok := p.sections[title]; ok && existing != "" {
		p.sections[title] = existing + "\n" + content
		return
	}
	p.upsert(title, content)
}

func (p *scratchPad) empty() bool { return len(p.order) == 0 }

// render produces the markdown view of the pad fed back into prompts.
func (p *scratchPad) render() string {
	var sb strings.Builder
	for _, title := range p.order {
		fmt.Fprintf(&sb, "## %s\n%s\n\n", title, p.sections[title])
	}
	return strings.TrimSpace(sb.String())
}

// Run iterates scratch-pad reasoning until the model signals completion or
// the iteration budget runs out.
func (a *RAISEAgent) Run(ctx context.Context, task string, extra map[string]any) (*core.Result, error) {
	started := time.Now()
	rc, rl := a.newRun(task, extra)
	system := a.systemPrompt()

	var steps []core.Step
	pad := newScratchPad()
	iterations := 0

	analysisResp, err := a.generate(ctx, rl, "task_analysis", system, fmt.Sprintf(
		"Task: %s\n\n%sAnalyze the task: break down what it requires and note which examples, if any, apply. Respond with sections prefixed \"Task Analysis:\" and \"Relevant Examples:\".",
		task, a.examplesBlock()))
	if err != nil {
		return nil, err
	}
	analysisRec := extract.Parse(core.ArchitectureRAISE, analysisResp)
	analysis := analysisRec.Field("task_analysis")
	rc.Append("task_analysis", analysis)
	pad.upsert("Task Analysis", analysis)
	steps = append(steps, core.Step{Type: "task_analysis", Content: analysis})
	rl.LogStage("task_analysis", analysis)

	if relevant := analysisRec.Fields["relevant_examples"]; relevant != "" {
		pad.upsert("Relevant Examples", relevant)
		steps = append(steps, core.Step{Type: "relevant_examples", Content: relevant})
		rl.LogStage("relevant_examples", relevant)
	}

	for iterations < a.opts.MaxIterations {
		iterations++

		resp, err := a.generate(ctx, rl, "scratch_pad", system, a.reasonPrompt(rc, pad))
		if err != nil {
			return nil, err
		}
		rec := extract.Parse(core.ArchitectureRAISE, resp)
		notes := rec.Field("scratch_pad")
		rc.Append("scratch_pad", notes)
		pad.upsert(fmt.Sprintf("Iteration %d", iterations), notes)
		steps = append(steps, core.Step{Type: "scratch_pad", Content: notes})
		rl.LogStage("scratch_pad", notes)

		// The pad itself may volunteer the final answer.
		if answer := rec.FinalAnswer(); answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}

		if a.tools.Len() > 0 {
			observation, used, err := a.maybeUseTool(ctx, rl, system, task, pad)
			if err != nil {
				return nil, err
			}
			if used {
				pad.appendTo("Observations", observation)
				steps = append(steps, core.Step{Type: "observation", Content: observation})
			}
		}

		done, answer, err := a.checkCompletion(ctx, rl, fmt.Sprintf(
			"Task: %s\n\nScratch pad so far:\n%s\n\nHas the task been completed? If yes, provide the final answer prefixed with \"Final Answer:\". If no, explain what is still missing.",
			task, pad.render()))
		if err != nil {
			return nil, err
		}
		if done {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
	}

	partial, err := a.partialAnswer(ctx, rl, fmt.Sprintf(
		"Task: %s\n\nScratch pad so far:\n%s\n", task, pad.render()))
	if err != nil {
		return nil, err
	}
	output := NotCompletedNotice + partial
	steps = append(steps, core.Step{Type: "partial_answer", Content: output})
	return a.finish(rl, started, task, output, core.StateExhausted, steps, iterations, nil), nil
}

// maybeUseTool asks a yes/no gate whether a tool would help, and if so derives
// and executes one tool call. The bool return reports whether a call happened.
func (a *RAISEAgent) maybeUseTool(ctx context.Context, rl *logging.RunLogger, system, task string, pad *scratchPad) (string, bool, error) {
	useTool, err := a.yesNo(ctx, rl, "tool_gate",
		"Decide whether consulting an external tool would help with the task right now.",
		fmt.Sprintf("Task: %s\n\nScratch pad so far:\n%s\n\n%sWould using one of the available tools help right now? Answer yes or no.",
			task, pad.render(), a.toolMenu()), 100)
	if err != nil || !useTool {
		return "", false, err
	}

	resp, err := a.generate(ctx, rl, "action", system, fmt.Sprintf(
		"Task: %s\n\nScratch pad so far:\n%s\n\n%sName the single tool call to make. Respond with the call prefixed with \"Action:\", e.g. \"Action: use search, capital of France\".",
		task, pad.render(), a.toolMenu()))
	if err != nil {
		return "", false, err
	}
	action := extract.Parse(core.ArchitectureReAct, resp).Field("action")
	observation := a.executeInstruction(ctx, rl, action)
	return observation, true, nil
}

// reasonPrompt assembles the per-iteration reasoning prompt: examples and the
// pad accumulated so far.
func (a *RAISEAgent) reasonPrompt(rc *core.RunContext, pad *scratchPad) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\n\n", rc.Task)
	sb.WriteString(a.examplesBlock())
	if !pad.empty() {
		fmt.Fprintf(&sb, "Scratch pad so far:\n%s\n\n", pad.render())
	}
	sb.WriteString("Continue working on the task. Respond with your next working notes prefixed with \"Scratch Pad:\".")
	return sb.String()
}

// examplesBlock renders the configured worked examples, or nothing when none
// are set.
func (a *RAISEAgent) examplesBlock() string {
	if len(a.opts.Examples) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Worked examples:\n")
	for i, ex := range a.opts.Examples {
		fmt.Fprintf(&sb, "Example %d: %s\n", i+1, ex)
	}
	sb.WriteString("\n")
	return sb.String()
}
