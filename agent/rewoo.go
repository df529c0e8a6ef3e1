package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/extract"
	"github.com/archon-ai/archon/logging"
)

// ReWOOAgent plans once, delegates the plan's subtasks to independent worker
// calls and integrates their evidence with a final solver call. There is no
// observation loop and no completion check: a run is always one pass, so it
// always completes in a single iteration.
type ReWOOAgent struct {
	baseAgent
}

// NewReWOOAgent creates a ReWOO agent.
func NewReWOOAgent(optFns ...func(o *Options)) (*ReWOOAgent, error) {
	base, err := newBaseAgent(core.ArchitectureReWOO, optFns)
	if err != nil {
		return nil, err
	}
	return &ReWOOAgent{baseAgent: base}, nil
}

// Run executes the plan, work, solve pass.
func (a *ReWOOAgent) Run(ctx context.Context, task string, extra map[string]any) (*core.Result, error) {
	started := time.Now()
	rc, rl := a.newRun(task, extra)
	system := a.systemPrompt()

	var steps []core.Step

	plan, err := a.generate(ctx, rl, "plan", system, fmt.Sprintf(
		"Task: %s\n\nBreak this task into up to %d independent subtasks that can each be worked on without seeing the others' results. List them as \"Task 1:\", \"Task 2:\", and so on, each on its own line.",
		task, a.opts.NumWorkers))
	if err != nil {
		return nil, err
	}
	rc.Append("plan", plan)
	steps = append(steps, core.Step{Type: "plan", Content: plan})
	rl.LogStage("plan", plan)

	subtasks, err := a.subtasks(ctx, rl, system, task, plan)
	if err != nil {
		return nil, err
	}

	evidence := make([]string, 0, len(subtasks))
	for i, sub := range subtasks {
		result, err := a.work(ctx, rl, task, i+1, sub)
		if err != nil {
			return nil, err
		}
		evidence = append(evidence, fmt.Sprintf("Subtask %d: %s\nResult: %s", i+1, sub, result))
	}
	steps = append(steps, core.Step{Type: "evidence", Content: "", Items: evidence})

	solution, err := a.solve(ctx, rl, system, task, evidence)
	if err != nil {
		return nil, err
	}
	steps = append(steps, core.Step{Type: "final_answer", Content: solution})

	metadata := map[string]any{"num_workers": len(subtasks)}
	return a.finish(rl, started, task, solution, core.StateCompleted, steps, 1, metadata), nil
}

// subtasks recovers the worker tasks from the plan text, asking the model to
// restate the plan as a list when no task markers are found, and falling back
// to a generic decomposition as a last resort.
func (a *ReWOOAgent) subtasks(ctx context.Context, rl *logging.RunLogger, system, task, plan string) ([]string, error) {
	if tasks := splitTasks(plan, a.opts.NumWorkers); len(tasks) > 0 {
		return tasks, nil
	}

	resp, err := a.generateWith(ctx, rl, "plan_restate", system, fmt.Sprintf(
		"Task: %s\n\nPlan:\n%s\n\nRestate this plan as a numbered list of at most %d subtasks, one per line, in the form \"Task N: description\". Output only the list.",
		task, plan, a.opts.NumWorkers), 0.3, 500)
	if err != nil {
		return nil, err
	}
	if tasks := splitTasks(resp, a.opts.NumWorkers); len(tasks) > 0 {
		return tasks, nil
	}

	return []string{
		fmt.Sprintf("Analyze what the task requires: %s", task),
		fmt.Sprintf("Gather the facts and constraints relevant to: %s", task),
		fmt.Sprintf("Formulate a solution for: %s", task),
	}, nil
}

// work runs one worker call on its subtask, using tools when the worker's
// response asks for one.
func (a *ReWOOAgent) work(ctx context.Context, rl *logging.RunLogger, task string, n int, subtask string) (string, error) {
	stage := fmt.Sprintf("worker_%d", n)
	system := fmt.Sprintf("You are a focused worker solving one subtask of a larger problem. %sSolve only your assigned subtask. If a tool would help, respond with a line \"Action: use <tool>, <input>\"; otherwise answer the subtask directly.", a.toolMenu())

	resp, err := a.generate(ctx, rl, stage, system, fmt.Sprintf(
		"Overall task: %s\n\nYour subtask: %s", task, subtask))
	if err != nil {
		return "", err
	}
	rl.LogStage(stage, resp)

	action := extract.Parse(core.ArchitectureReAct, resp).Fields["action"]
	if action == "" {
		return strings.TrimSpace(resp), nil
	}
	observation := a.executeInstruction(ctx, rl, action)
	return fmt.Sprintf("%s\n%s", strings.TrimSpace(resp), observation), nil
}

// solve integrates the worker evidence into the final answer.
func (a *ReWOOAgent) solve(ctx context.Context, rl *logging.RunLogger, system, task string, evidence []string) (string, error) {
	resp, err := a.generate(ctx, rl, "solve", system, fmt.Sprintf(
		"Task: %s\n\nEvidence from workers:\n%s\n\nIntegrate the evidence and answer the task. Respond with the answer prefixed with \"Final Answer:\".",
		task, strings.Join(evidence, "\n\n")))
	if err != nil {
		return "", err
	}
	answer := finalAnswer(resp)
	rl.LogStage("solve", answer)
	return answer, nil
}

var (
	taskMarker     = regexp.MustCompile(`(?mi)^\s*(?:Task|Subtask)\s+\d+\s*[:.)]\s*`)
	numberedMarker = regexp.MustCompile(`(?m)^\s*\d+\s*[.)]\s+`)
)

// splitTasks slices the text between task markers, preferring explicit
// "Task N:" markers over a plain numbered list. Marker positions are found
// first and the text between consecutive markers becomes one task.
func splitTasks(text string, limit int) []string {
	for _, re := range []*regexp.Regexp{taskMarker, numberedMarker} {
		if tasks := sliceBetween(re, text, limit); len(tasks) > 0 {
			return tasks
		}
	}
	return nil
}

func sliceBetween(re *regexp.Regexp, text string, limit int) []string {
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tasks := make([]string, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if t := strings.TrimSpace(text[m[1]:end]); t != "" {
			tasks = append(tasks, t)
		}
		if len(tasks) == limit {
			break
		}
	}
	return tasks
}
