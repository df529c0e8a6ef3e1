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

// LATAgent explores a tree of reasoning paths: at each level it branches into
// alternative approaches, selects the most promising one, simulates it one
// step deeper and checks whether the path has reached a solution. Depth and
// fan-out are bounded by MaxDepth and MaxBranches.
type LATAgent struct {
	baseAgent
}

// NewLATAgent creates a LAT agent.
func NewLATAgent(optFns ...func(o *Options)) (*LATAgent, error) {
	base, err := newBaseAgent(core.ArchitectureLAT, optFns)
	if err != nil {
		return nil, err
	}
	return &LATAgent{baseAgent: base}, nil
}

// latNode is one step on the explored path. Only the selected path is
// retained; rejected siblings survive in the step trace.
type latNode struct {
	content string
	parent  *latNode
}

func (n *latNode) path() []string {
	var rev []string
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur.content)
	}
	out := make([]string, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}

// Run explores the reasoning tree until a terminal node is found or the depth
// budget runs out. Exhaustion still produces an answer from the best path,
// reported in the exhausted state.
func (a *LATAgent) Run(ctx context.Context, task string, extra map[string]any) (*core.Result, error) {
	started := time.Now()
	_, rl := a.newRun(task, extra)
	system := a.systemPrompt()

	var steps []core.Step
	var current *latNode
	depth := 0

	for depth < a.opts.MaxDepth {
		depth++

		problem, branches, err := a.expand(ctx, rl, system, task, current)
		if err != nil {
			return nil, err
		}
		steps = append(steps, core.Step{Type: "problem", Content: problem})
		steps = append(steps, core.Step{Type: "branches", Content: "", Items: branches})

		selected, rationale, err := a.selectBranch(ctx, rl, system, task, branches)
		if err != nil {
			return nil, err
		}
		steps = append(steps, core.Step{Type: "selection", Content: rationale})
		rl.LogStage("selection", selected)

		simulated, err := a.simulate(ctx, rl, system, task, current, selected)
		if err != nil {
			return nil, err
		}
		current = &latNode{content: simulated, parent: current}
		steps = append(steps, core.Step{Type: "simulation", Content: simulated})

		terminal, err := a.yesNo(ctx, rl, "terminal_check",
			"Judge whether a reasoning path has fully solved a task.",
			fmt.Sprintf("Task: %s\n\nReasoning path:\n%s\n\nDoes this path contain everything needed to answer the task? Answer yes or no.",
				task, a.renderPath(current)), 100)
		if err != nil {
			return nil, err
		}
		if terminal {
			answer, err := a.answerFromPath(ctx, rl, system, task, current)
			if err != nil {
				return nil, err
			}
			steps = append(steps, core.Step{Type: "final_answer", Content: answer})
			metadata := map[string]any{"depth": depth}
			return a.finish(rl, started, task, answer, core.StateCompleted, steps, depth, metadata), nil
		}
	}

	answer, err := a.answerFromPath(ctx, rl, system, task, current)
	if err != nil {
		return nil, err
	}
	output := NotCompletedNotice + answer
	steps = append(steps, core.Step{Type: "partial_answer", Content: output})
	metadata := map[string]any{"depth": depth}
	return a.finish(rl, started, task, output, core.StateExhausted, steps, depth, metadata), nil
}

// expand generates the alternative branches at the current node.
func (a *LATAgent) expand(ctx context.Context, rl *logging.RunLogger, system, task string, current *latNode) (string, []string, error) {
	user := fmt.Sprintf(
		"Task: %s\n\nIdentify the key decision point and propose %d alternative approaches, each with a short evaluation. Respond with sections prefixed \"Problem:\" and \"Branches:\", listing the branches as \"1.\", \"2.\", and so on.",
		task, a.opts.MaxBranches)
	if current != nil {
		user = fmt.Sprintf(
			"Task: %s\n\nPath taken so far:\n%s\n\nIdentify the next decision point on this path and propose %d alternative approaches, each with a short evaluation. Respond with sections prefixed \"Problem:\" and \"Branches:\", listing the branches as \"1.\", \"2.\", and so on.",
			task, a.renderPath(current), a.opts.MaxBranches)
	}

	resp, err := a.generate(ctx, rl, "branches", system, user)
	if err != nil {
		return "", nil, err
	}
	rec := extract.Parse(core.ArchitectureLAT, resp)
	problem := rec.Field("problem")
	rl.LogStage("problem", problem)

	branches := sliceBetween(numberedMarker, rec.Field("branches"), a.opts.MaxBranches)
	if len(branches) == 0 {
		branches = []string{rec.Field("branches")}
	}
	return problem, branches, nil
}

// selectBranch picks the most promising branch. The selection rationale comes
// back for the step trace; the chosen branch text drives the simulation.
func (a *LATAgent) selectBranch(ctx context.Context, rl *logging.RunLogger, system, task string, branches []string) (string, string, error) {
	if len(branches) == 1 {
		return branches[0], branches[0], nil
	}

	var menu strings.Builder
	for i, b := range branches {
		fmt.Fprintf(&menu, "%d. %s\n", i+1, b)
	}
	resp, err := a.generateWith(ctx, rl, "selection", system, fmt.Sprintf(
		"Task: %s\n\nBranches:\n%s\nSelect the most promising branch. Respond with your choice and reasoning prefixed with \"Selection:\", starting with the branch number.",
		task, menu.String()), 0.3, 500)
	if err != nil {
		return "", "", err
	}
	rationale := extract.Parse(core.ArchitectureLAT, resp).Field("selection")

	for i, b := range branches {
		if strings.HasPrefix(strings.TrimSpace(rationale), fmt.Sprintf("%d", i+1)) {
			return b, rationale, nil
		}
	}
	return branches[0], rationale, nil
}

// simulate reasons one step deeper along the selected branch.
func (a *LATAgent) simulate(ctx context.Context, rl *logging.RunLogger, system, task string, current *latNode, branch string) (string, error) {
	user := fmt.Sprintf(
		"Task: %s\n\nChosen approach: %s\n\nWork this approach out one step further: what does pursuing it establish? Respond with the concrete outcome of this step.",
		task, branch)
	if current != nil {
		user = fmt.Sprintf(
			"Task: %s\n\nPath taken so far:\n%s\n\nChosen approach for the next step: %s\n\nWork this approach out one step further: what does pursuing it establish? Respond with the concrete outcome of this step.",
			task, a.renderPath(current), branch)
	}

	resp, err := a.generate(ctx, rl, "simulation", system, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// answerFromPath turns the best explored path into an answer.
func (a *LATAgent) answerFromPath(ctx context.Context, rl *logging.RunLogger, system, task string, current *latNode) (string, error) {
	path := "No reasoning steps were completed."
	if current != nil {
		path = a.renderPath(current)
	}
	resp, err := a.generate(ctx, rl, "final_answer", system, fmt.Sprintf(
		"Task: %s\n\nBest reasoning path found:\n%s\n\nAnswer the task based on this path. Respond with the answer prefixed with \"Final Answer:\".",
		task, path))
	if err != nil {
		return "", err
	}
	return finalAnswer(resp), nil
}

func (a *LATAgent) renderPath(n *latNode) string {
	var sb strings.Builder
	for i, step := range n.path() {
		fmt.Fprintf(&sb, "Step %d: %s\n", i+1, step)
	}
	return sb.String()
}
