package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/memory"
	"github.com/archon-ai/archon/model"
	"github.com/archon-ai/archon/tool"
)

func doneMock() *model.MockGateway {
	m := model.NewMockGateway()
	m.Script("Yes, the task is complete. Final Answer: 42")
	return m
}

func stuckMock() *model.MockGateway {
	m := model.NewMockGateway()
	m.Script("Still working on it.")
	return m
}

// -------------------- Construction Tests --------------------

func TestNew_UnknownArchitecture(t *testing.T) {
	_, err := New(core.Architecture("chain-of-thought"), func(o *Options) {
		o.Gateway = doneMock()
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain-of-thought")
}

func TestNew_RequiresGateway(t *testing.T) {
	for _, arch := range core.Architectures() {
		_, err := New(arch)
		assert.ErrorIs(t, err, ErrNoGateway, arch.String())
	}
}

func TestNew_Identity(t *testing.T) {
	a, err := New(core.ArchitectureReAct, func(o *Options) {
		o.Gateway = doneMock()
	})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID())
	assert.Equal(t, "react-agent", a.Name())
	assert.Equal(t, core.ArchitectureReAct, a.Architecture())

	b, err := New(core.ArchitectureReAct, func(o *Options) {
		o.Gateway = doneMock()
		o.Name = "custom"
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", b.Name())
	assert.NotEqual(t, a.ID(), b.ID())
}

// -------------------- Cross-Architecture Behavior --------------------

func TestRun_AllArchitecturesCompleteInOnePass(t *testing.T) {
	for _, arch := range core.Architectures() {
		t.Run(arch.String(), func(t *testing.T) {
			a, err := New(arch, func(o *Options) {
				o.Gateway = doneMock()
			})
			require.NoError(t, err)

			result, err := a.Run(context.Background(), "what is the answer?", nil)
			require.NoError(t, err)

			assert.Equal(t, core.StateCompleted, result.State)
			assert.True(t, result.Completed())
			assert.Equal(t, "42", result.Output)
			assert.Equal(t, 1, result.Iterations)
			assert.NotEmpty(t, result.Steps)
			assert.Equal(t, arch.String(), result.Metadata["architecture"])
			assert.Equal(t, a.ID(), result.AgentID)
		})
	}
}

func TestRun_BudgetExhaustion(t *testing.T) {
	// Every architecture with a loop degrades to a partial answer after one
	// budgeted iteration. ReWOO has no loop and always completes in one pass.
	looped := []core.Architecture{
		core.ArchitectureReAct,
		core.ArchitectureOODA,
		core.ArchitectureBDI,
		core.ArchitectureLAT,
		core.ArchitectureRAISE,
	}
	for _, arch := range looped {
		t.Run(arch.String(), func(t *testing.T) {
			a, err := New(arch, func(o *Options) {
				o.Gateway = stuckMock()
				o.MaxIterations = 1
				o.MaxDepth = 1
			})
			require.NoError(t, err)

			result, err := a.Run(context.Background(), "impossible task", nil)
			require.NoError(t, err)

			assert.Equal(t, core.StateExhausted, result.State)
			assert.False(t, result.Completed())
			assert.Contains(t, result.Output, NotCompletedNotice)
			assert.Equal(t, 1, result.Iterations)
		})
	}
}

func TestRun_GatewayErrorPropagates(t *testing.T) {
	boom := errors.New("provider unavailable")
	for _, arch := range core.Architectures() {
		t.Run(arch.String(), func(t *testing.T) {
			m := model.NewMockGateway()
			m.Fail(boom)
			a, err := New(arch, func(o *Options) {
				o.Gateway = m
			})
			require.NoError(t, err)

			_, err = a.Run(context.Background(), "task", nil)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestRun_WritesMemory(t *testing.T) {
	store := memory.NewInMemoryStore()
	a, err := New(core.ArchitectureReAct, func(o *Options) {
		o.Gateway = doneMock()
		o.Memory = store
	})
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "remember me", nil)
	require.NoError(t, err)

	got, ok := store.Get("remember me")
	require.True(t, ok)
	assert.Equal(t, "42", got)
}

// -------------------- ReAct Scenario --------------------

func TestReAct_ToolDrivenRun(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Thought: I should compute 2+2 with the calculator.",
		"Action: use calculator, 2+2",
		"Yes, the task is complete. Final Answer: 4",
	)

	calc := tool.NewFunctionTool("calculator", "Evaluates arithmetic",
		map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			assert.Equal(t, "2+2", args["query"])
			return 4, nil
		})

	a, err := NewReActAgent(func(o *Options) {
		o.Gateway = m
		o.Tools = []tool.Tool{calc}
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "What is 2+2?", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateCompleted, result.State)
	assert.Equal(t, "4", result.Output)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 3, m.Calls())

	require.Len(t, result.Steps, 4)
	assert.Equal(t, "thought", result.Steps[0].Type)
	assert.Equal(t, "I should compute 2+2 with the calculator.", result.Steps[0].Content)
	assert.Equal(t, "action", result.Steps[1].Type)
	assert.Equal(t, "observation", result.Steps[2].Type)
	assert.Contains(t, result.Steps[2].Content, "Used calculator")
	assert.Equal(t, "final_answer", result.Steps[3].Type)
}

func TestReAct_ToolFailureBecomesObservation(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Thought: try the flaky tool.",
		"Action: use flaky, anything",
		"Yes, complete. Final Answer: handled",
	)

	flaky := tool.NewFunctionTool("flaky", "Always fails",
		map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("downstream timeout")
		})

	a, err := NewReActAgent(func(o *Options) {
		o.Gateway = m
		o.Tools = []tool.Tool{flaky}
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "task", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateCompleted, result.State)
	assert.Contains(t, result.Steps[2].Content, "Error executing tool flaky")
}

func TestReAct_UnknownToolBecomesObservation(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Thought: look this up.",
		"Action: use telescope, the moon",
		"Yes, complete. Final Answer: done",
	)

	a, err := NewReActAgent(func(o *Options) {
		o.Gateway = m
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "task", nil)
	require.NoError(t, err)
	assert.Contains(t, result.Steps[2].Content, `Could not find tool "telescope"`)
}

func TestReAct_InlineFinalAnswerShortCircuits(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Thought: compute\nAction: none\nObservation: n/a",
		"Final Answer: 4",
	)

	a, err := NewReActAgent(func(o *Options) {
		o.Gateway = m
		o.MaxIterations = 2
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "2+2", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateCompleted, result.State)
	assert.Equal(t, "4", result.Output)
	assert.GreaterOrEqual(t, len(result.Steps), 2)
	assert.Equal(t, 1, result.Iterations)
}

// -------------------- Completion Heuristic --------------------

func TestIsCompletionSignal(t *testing.T) {
	assert.True(t, isCompletionSignal("Yes, the task is done."))
	assert.True(t, isCompletionSignal("The task is COMPLETE."))
	assert.False(t, isCompletionSignal("Not done, keep going."))

	// The signal window is the first 100 characters only.
	padding := make([]byte, 120)
	for i := range padding {
		padding[i] = 'x'
	}
	assert.False(t, isCompletionSignal(string(padding)+" yes"))
}

func TestFinalAnswer(t *testing.T) {
	assert.Equal(t, "42", finalAnswer("Final Answer: 42"))
	assert.Equal(t, "42", finalAnswer("final answer 42"))
	assert.Equal(t, "line one\nline two", finalAnswer("Some preamble. Final Answer:\nline one\nline two"))
	assert.Equal(t, "no marker here", finalAnswer("  no marker here  "))
}
