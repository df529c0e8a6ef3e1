package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/extract"
	"github.com/archon-ai/archon/logging"
)

// ReActAgent interleaves reasoning and acting: each iteration produces a
// thought, derives an action from it, executes the action against the tool
// registry and folds the observation back into the next thought. A completion
// check after each cycle decides whether to answer or continue.
type ReActAgent struct {
	baseAgent
}

// NewReActAgent creates a ReAct agent.
func NewReActAgent(optFns ...func(o *Options)) (*ReActAgent, error) {
	base, err := newBaseAgent(core.ArchitectureReAct, optFns)
	if err != nil {
		return nil, err
	}
	return &ReActAgent{baseAgent: base}, nil
}

// Run executes the think/act/observe loop until the model signals completion
// or the iteration budget runs out.
func (a *ReActAgent) Run(ctx context.Context, task string, extra map[string]any) (*core.Result, error) {
	started := time.Now()
	rc, rl := a.newRun(task, extra)
	system := a.systemPrompt()

	var steps []core.Step
	iterations := 0

	for iterations < a.opts.MaxIterations {
		iterations++

		thoughtRec, err := a.think(ctx, rl, system, rc)
		if err != nil {
			return nil, err
		}
		thought := thoughtRec.Field("thought")
		rc.Append("thought", thought)
		steps = append(steps, core.Step{Type: "thought", Content: thought})
		rl.LogStage("thought", thought)

		// A stage response may volunteer the final answer directly.
		if answer := thoughtRec.FinalAnswer(); answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}

		actionRec, err := a.act(ctx, rl, system, rc, thought)
		if err != nil {
			return nil, err
		}
		if answer := actionRec.FinalAnswer(); answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
		action := actionRec.Field("action")
		rc.Append("action", action)
		steps = append(steps, core.Step{Type: "action", Content: action})
		rl.LogStage("action", action)

		observation := a.executeInstruction(ctx, rl, action)
		rc.Append("observation", observation)
		steps = append(steps, core.Step{Type: "observation", Content: observation})
		rl.LogStage("observation", observation)

		done, answer, err := a.checkCompletion(ctx, rl, fmt.Sprintf(
			"Task: %s\n\nThought: %s\nAction: %s\nObservation: %s\n\nHas the task been completed? If yes, provide the final answer prefixed with \"Final Answer:\". If no, explain what is still missing.",
			task, thought, action, observation))
		if err != nil {
			return nil, err
		}
		if done {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
	}

	partial, err := a.partialAnswer(ctx, rl, a.exhaustionPrompt(rc))
	if err != nil {
		return nil, err
	}
	output := NotCompletedNotice + partial
	steps = append(steps, core.Step{Type: "partial_answer", Content: output})
	return a.finish(rl, started, task, output, core.StateExhausted, steps, iterations, nil), nil
}

// think produces the next reasoning step, seeded with the latest observation
// when one exists.
func (a *ReActAgent) think(ctx context.Context, rl *logging.RunLogger, system string, rc *core.RunContext) (extract.Record, error) {
	user := fmt.Sprintf("Task: %s\n\nThink about what to do next to complete the task. Respond with your reasoning prefixed with \"Thought:\".", rc.Task)
	if obs, ok := rc.Last("observation"); ok {
		user = fmt.Sprintf("Task: %s\n\nPrevious observation: %s\n\nThink about what to do next given this observation. Respond with your reasoning prefixed with \"Thought:\".", rc.Task, obs)
	}

	resp, err := a.generate(ctx, rl, "thought", system, user)
	if err != nil {
		return extract.Record{}, err
	}
	return extract.Parse(core.ArchitectureReAct, resp), nil
}

// act derives the concrete action instruction from the current thought.
func (a *ReActAgent) act(ctx context.Context, rl *logging.RunLogger, system string, rc *core.RunContext, thought string) (extract.Record, error) {
	user := fmt.Sprintf(
		"Task: %s\n\nThought: %s\n\n%sDecide the single next action to take. Respond with the action prefixed with \"Action:\", naming the tool and its input, e.g. \"Action: use search, capital of France\".",
		rc.Task, thought, a.toolMenu())

	resp, err := a.generate(ctx, rl, "action", system, user)
	if err != nil {
		return extract.Record{}, err
	}
	return extract.Parse(core.ArchitectureReAct, resp), nil
}

// exhaustionPrompt summarizes the run so far for the partial-answer call.
func (a *ReActAgent) exhaustionPrompt(rc *core.RunContext) string {
	prompt := fmt.Sprintf("Task: %s\n", rc.Task)
	if thought, ok := rc.Last("thought"); ok {
		prompt += fmt.Sprintf("\nLatest thought: %s\n", thought)
	}
	if obs, ok := rc.Last("observation"); ok {
		prompt += fmt.Sprintf("\nLatest observation: %s\n", obs)
	}
	return prompt
}
