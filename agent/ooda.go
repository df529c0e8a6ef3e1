package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/extract"
	"github.com/archon-ai/archon/logging"
)

// OODAAgent runs the observe, orient, decide, act cycle: gather information,
// analyze it into a situation model, choose a course of action, execute it.
// Each completed cycle is followed by a completion check.
type OODAAgent struct {
	baseAgent
}

// NewOODAAgent creates an OODA agent.
func NewOODAAgent(optFns ...func(o *Options)) (*OODAAgent, error) {
	base, err := newBaseAgent(core.ArchitectureOODA, optFns)
	if err != nil {
		return nil, err
	}
	return &OODAAgent{baseAgent: base}, nil
}

// Run executes OODA cycles until the model signals completion or the
// iteration budget runs out.
func (a *OODAAgent) Run(ctx context.Context, task string, extra map[string]any) (*core.Result, error) {
	started := time.Now()
	rc, rl := a.newRun(task, extra)
	system := a.systemPrompt()

	var steps []core.Step
	iterations := 0

	for iterations < a.opts.MaxIterations {
		iterations++

		observation, answer, err := a.stage(ctx, rl, system, "observation", a.observePrompt(rc))
		if err != nil {
			return nil, err
		}
		rc.Append("observation", observation)
		steps = append(steps, core.Step{Type: "observation", Content: observation})
		if answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}

		orientation, answer, err := a.stage(ctx, rl, system, "orientation", fmt.Sprintf(
			"Task: %s\n\nObservation: %s\n\nOrient yourself: analyze the observation and form an understanding of the situation. Respond with your analysis prefixed with \"Orientation:\".",
			task, observation))
		if err != nil {
			return nil, err
		}
		rc.Append("orientation", orientation)
		steps = append(steps, core.Step{Type: "orientation", Content: orientation})
		if answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}

		decision, answer, err := a.stage(ctx, rl, system, "decision", fmt.Sprintf(
			"Task: %s\n\nObservation: %s\nOrientation: %s\n\n%sDecide what to do next. Respond with your decision prefixed with \"Decision:\", naming a tool and its input if one should be used.",
			task, observation, orientation, a.toolMenu()))
		if err != nil {
			return nil, err
		}
		if answer != "" {
			steps = append(steps, core.Step{Type: "decision", Content: decision}, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
		rc.Append("decision", decision)
		steps = append(steps, core.Step{Type: "decision", Content: decision})

		action := a.executeInstruction(ctx, rl, decision)
		rc.Append("action", action)
		steps = append(steps, core.Step{Type: "action", Content: action})
		rl.LogStage("action", action)

		done, answer, err := a.checkCompletion(ctx, rl, fmt.Sprintf(
			"Task: %s\n\nObservation: %s\nOrientation: %s\nDecision: %s\nAction result: %s\n\nHas the task been completed? If yes, provide the final answer prefixed with \"Final Answer:\". If no, explain what is still missing.",
			task, observation, orientation, decision, action))
		if err != nil {
			return nil, err
		}
		if done {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
	}

	prompt := fmt.Sprintf("Task: %s\n", task)
	if orientation, ok := rc.Last("orientation"); ok {
		prompt += fmt.Sprintf("\nLatest orientation: %s\n", orientation)
	}
	if action, ok := rc.Last("action"); ok {
		prompt += fmt.Sprintf("\nLatest action result: %s\n", action)
	}
	partial, err := a.partialAnswer(ctx, rl, prompt)
	if err != nil {
		return nil, err
	}
	output := NotCompletedNotice + partial
	steps = append(steps, core.Step{Type: "partial_answer", Content: output})
	return a.finish(rl, started, task, output, core.StateExhausted, steps, iterations, nil), nil
}

// stage runs one gateway call and extracts the named field from the response.
// The second return carries a final answer when the response volunteered one.
func (a *OODAAgent) stage(ctx context.Context, rl *logging.RunLogger, system, field, user string) (string, string, error) {
	resp, err := a.generate(ctx, rl, field, system, user)
	if err != nil {
		return "", "", err
	}
	rec := extract.Parse(core.ArchitectureOODA, resp)
	content := rec.Field(field)
	rl.LogStage(field, content)
	return content, rec.FinalAnswer(), nil
}

// observePrompt seeds the observe stage with the previous action result when
// one exists.
func (a *OODAAgent) observePrompt(rc *core.RunContext) string {
	if action, ok := rc.Last("action"); ok {
		return fmt.Sprintf(
			"Task: %s\n\nResult of your previous action: %s\n\nObserve the current situation given this result. Respond with your observation prefixed with \"Observation:\".",
			rc.Task, action)
	}
	return fmt.Sprintf(
		"Task: %s\n\nObserve the situation: what information do you have and what do you still need? Respond with your observation prefixed with \"Observation:\".",
		rc.Task)
}
