package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/extract"
	"github.com/archon-ai/archon/logging"
)

// BDIAgent runs the belief, desire, intention practical-reasoning cycle:
// revise beliefs about the world, derive goals from them, commit to a plan and
// execute it. Beliefs carry across iterations so later cycles build on what
// earlier executions established.
type BDIAgent struct {
	baseAgent
}

// NewBDIAgent creates a BDI agent.
func NewBDIAgent(optFns ...func(o *Options)) (*BDIAgent, error) {
	base, err := newBaseAgent(core.ArchitectureBDI, optFns)
	if err != nil {
		return nil, err
	}
	return &BDIAgent{baseAgent: base}, nil
}

// Run executes belief/desire/intention/execution cycles until the model
// signals completion or the iteration budget runs out.
func (a *BDIAgent) Run(ctx context.Context, task string, extra map[string]any) (*core.Result, error) {
	started := time.Now()
	rc, rl := a.newRun(task, extra)
	system := a.systemPrompt()

	var steps []core.Step
	iterations := 0

	for iterations < a.opts.MaxIterations {
		iterations++

		beliefs, answer, err := a.stage(ctx, rl, system, "beliefs", a.beliefsPrompt(rc))
		if err != nil {
			return nil, err
		}
		rc.Append("beliefs", beliefs)
		steps = append(steps, core.Step{Type: "beliefs", Content: beliefs})
		if answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}

		desires, answer, err := a.stage(ctx, rl, system, "desires", fmt.Sprintf(
			"Task: %s\n\nBeliefs: %s\n\nGiven these beliefs, what do you want to achieve next? Respond with your goals prefixed with \"Desires:\".",
			task, beliefs))
		if err != nil {
			return nil, err
		}
		rc.Append("desires", desires)
		steps = append(steps, core.Step{Type: "desires", Content: desires})
		if answer != "" {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}

		intentions, answer, err := a.stage(ctx, rl, system, "intentions", fmt.Sprintf(
			"Task: %s\n\nBeliefs: %s\nDesires: %s\n\n%sCommit to a concrete plan for the most important desire. Respond with your plan prefixed with \"Intentions:\", naming a tool and its input if one should be used.",
			task, beliefs, desires, a.toolMenu()))
		if err != nil {
			return nil, err
		}
		rc.Append("intentions", intentions)
		if answer != "" {
			steps = append(steps, core.Step{Type: "intentions", Content: intentions}, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
		steps = append(steps, core.Step{Type: "intentions", Content: intentions})

		execution := a.executeInstruction(ctx, rl, intentions)
		rc.Append("execution", execution)
		steps = append(steps, core.Step{Type: "execution", Content: execution})
		rl.LogStage("execution", execution)

		done, answer, err := a.checkCompletion(ctx, rl, fmt.Sprintf(
			"Task: %s\n\nBeliefs: %s\nDesires: %s\nIntentions: %s\nExecution result: %s\n\nHas the task been completed? If yes, provide the final answer prefixed with \"Final Answer:\". If no, explain what is still missing.",
			task, beliefs, desires, intentions, execution))
		if err != nil {
			return nil, err
		}
		if done {
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, iterations, nil), nil
		}
	}

	prompt := fmt.Sprintf("Task: %s\n", task)
	if beliefs, ok := rc.Last("beliefs"); ok {
		prompt += fmt.Sprintf("\nLatest beliefs: %s\n", beliefs)
	}
	if execution, ok := rc.Last("execution"); ok {
		prompt += fmt.Sprintf("\nLatest execution result: %s\n", execution)
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
func (a *BDIAgent) stage(ctx context.Context, rl *logging.RunLogger, system, field, user string) (string, string, error) {
	resp, err := a.generate(ctx, rl, field, system, user)
	if err != nil {
		return "", "", err
	}
	rec := extract.Parse(core.ArchitectureBDI, resp)
	content := rec.Field(field)
	rl.LogStage(field, content)
	return content, rec.FinalAnswer(), nil
}

// beliefsPrompt revises beliefs against the previous cycle's beliefs and
// execution result when they exist.
func (a *BDIAgent) beliefsPrompt(rc *core.RunContext) string {
	previous, hasBeliefs := rc.Last("beliefs")
	execution, hasExecution := rc.Last("execution")
	if hasBeliefs && hasExecution {
		return fmt.Sprintf(
			"Task: %s\n\nPrevious beliefs: %s\nResult of your last execution: %s\n\nUpdate your beliefs in light of this result. Respond with your revised beliefs prefixed with \"Beliefs:\".",
			rc.Task, previous, execution)
	}
	return fmt.Sprintf(
		"Task: %s\n\nWhat do you currently know that is relevant to this task? Respond with your beliefs prefixed with \"Beliefs:\".",
		rc.Task)
}
