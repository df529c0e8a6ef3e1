package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/model"
	"github.com/archon-ai/archon/tool"
)

// -------------------- Scratch Pad --------------------

func TestScratchPad(t *testing.T) {
	pad := newScratchPad()
	assert.True(t, pad.empty())

	pad.upsert("Task Analysis", "needs a lookup")
	pad.upsert("Iteration 1", "first notes")
	pad.upsert("Task Analysis", "needs a lookup and a sum")
	pad.appendTo("Observations", "saw A")
	pad.appendTo("Observations", "saw B")

	// Updating a section keeps its original position.
	assert.Equal(t, "## Task Analysis\nneeds a lookup and a sum\n\n## Iteration 1\nfirst notes\n\n## Observations\nsaw A\nsaw B", pad.render())
	assert.False(t, pad.empty())
}

// -------------------- Tool Gate --------------------

func TestRAISE_ToolGateUsesTool(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Task Analysis: find the population of Reykjavik.",
		"Scratch Pad: I should query the search tool.",
		"Yes",
		"Action: use search, population of Reykjavik",
		"Yes, the task is complete. Final Answer: about 140,000",
	)

	search := tool.NewFunctionTool("search", "Looks up facts",
		map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			assert.Equal(t, "population of Reykjavik", args["query"])
			return "Reykjavik has about 140,000 inhabitants", nil
		})

	a, err := NewRAISEAgent(func(o *Options) {
		o.Gateway = m
		o.Tools = []tool.Tool{search}
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "How many people live in Reykjavik?", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateCompleted, result.State)
	assert.Equal(t, "about 140,000", result.Output)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 5, m.Calls())

	types := make([]string, 0, len(result.Steps))
	for _, s := range result.Steps {
		types = append(types, s.Type)
	}
	assert.Equal(t, []string{"task_analysis", "scratch_pad", "observation", "final_answer"}, types)
	assert.Contains(t, result.Steps[2].Content, "Used search")
}

func TestRAISE_ToolGateDeclines(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Task Analysis: pure reasoning, no lookup needed.",
		"Scratch Pad: 2+2 is 4.",
		"No",
		"Yes, the task is complete. Final Answer: 4",
	)

	search := tool.NewFunctionTool("search", "Looks up facts",
		map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			t.Fatal("tool must not run when the gate declines")
			return nil, nil
		})

	a, err := NewRAISEAgent(func(o *Options) {
		o.Gateway = m
		o.Tools = []tool.Tool{search}
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "What is 2+2?", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateCompleted, result.State)
	assert.Equal(t, "4", result.Output)
	assert.Equal(t, 4, m.Calls())
	for _, s := range result.Steps {
		assert.NotEqual(t, "observation", s.Type)
	}
}

// -------------------- Examples --------------------

func TestRAISE_ExamplesAppearInPrompts(t *testing.T) {
	m := model.NewMockGateway()
	m.Script("Task Analysis: done. Final Answer: ok")

	a, err := NewRAISEAgent(func(o *Options) {
		o.Gateway = m
		o.Examples = []string{"Q: 1+1 A: 2", "Q: 2+2 A: 4"}
	})
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "task", nil)
	require.NoError(t, err)

	reqs := m.Requests()
	require.NotEmpty(t, reqs)
	assert.Contains(t, reqs[0].User, "Example 1: Q: 1+1 A: 2")
	assert.Contains(t, reqs[0].User, "Example 2: Q: 2+2 A: 4")
}
