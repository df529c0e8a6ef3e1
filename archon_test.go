package archon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archon-ai/archon/agent"
	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/model"
	"github.com/archon-ai/archon/workflow"
)

func newTestArchon() (*Archon, *model.MockGateway) {
	m := model.NewMockGateway()
	m.Script("Yes, the task is complete. Final Answer: 42")
	ai := New(func(o *Options) {
		o.Gateway = m
	})
	return ai, m
}

func TestArchon_CreateAndRun(t *testing.T) {
	ai, _ := newTestArchon()

	created, err := ai.CreateAgent(core.ArchitectureReAct, func(o *agent.Options) {
		o.Name = "assistant"
	})
	require.NoError(t, err)
	assert.Equal(t, "assistant", created.Name())

	result, err := ai.Run(context.Background(), "assistant", "what is the answer?", nil)
	require.NoError(t, err)
	assert.Equal(t, "42", result.Output)
	assert.True(t, result.Completed())
}

func TestArchon_DuplicateAgentName(t *testing.T) {
	ai, _ := newTestArchon()

	_, err := ai.CreateAgent(core.ArchitectureReAct, func(o *agent.Options) { o.Name = "dup" })
	require.NoError(t, err)
	_, err = ai.CreateAgent(core.ArchitectureOODA, func(o *agent.Options) { o.Name = "dup" })
	assert.Error(t, err)
}

func TestArchon_RunUnknownAgent(t *testing.T) {
	ai, _ := newTestArchon()
	_, err := ai.Run(context.Background(), "ghost", "task", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestArchon_AgentsListing(t *testing.T) {
	ai, _ := newTestArchon()
	_, err := ai.CreateAgent(core.ArchitectureBDI, func(o *agent.Options) { o.Name = "planner" })
	require.NoError(t, err)

	infos := ai.Agents()
	require.Len(t, infos, 1)
	assert.Equal(t, "planner", infos[0].Name)
	assert.Equal(t, core.ArchitectureBDI, infos[0].Architecture)

	got, ok := ai.Agent("planner")
	require.True(t, ok)
	assert.Equal(t, infos[0].ID, got.ID())
}

func TestArchon_RunWith(t *testing.T) {
	ai, _ := newTestArchon()

	result, err := ai.RunWith(context.Background(), core.ArchitectureReWOO, "one shot task")
	require.NoError(t, err)
	assert.Equal(t, "42", result.Output)

	// One-shot agents do not enter the registry.
	assert.Empty(t, ai.Agents())
}

func TestArchon_MemoryShared(t *testing.T) {
	ai, _ := newTestArchon()
	_, err := ai.CreateAgent(core.ArchitectureReAct, func(o *agent.Options) { o.Name = "a" })
	require.NoError(t, err)

	_, err = ai.Run(context.Background(), "a", "task one", nil)
	require.NoError(t, err)

	got, ok := ai.opts.Memory.Get("task one")
	require.True(t, ok)
	assert.Equal(t, "42", got)
}

func TestArchon_WorkflowUsesAgents(t *testing.T) {
	ai, _ := newTestArchon()
	first, err := ai.CreateAgent(core.ArchitectureReAct, func(o *agent.Options) { o.Name = "first" })
	require.NoError(t, err)
	second, err := ai.CreateAgent(core.ArchitectureReWOO, func(o *agent.Options) { o.Name = "second" })
	require.NoError(t, err)

	wf := ai.NewWorkflow("pair")
	_, err = wf.AddNode("one", "do the first thing", first)
	require.NoError(t, err)
	_, err = wf.AddNode("two", "do the second thing", second,
		workflow.WithDependencies("one"))
	require.NoError(t, err)

	exec, err := wf.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, exec.Order)
	assert.Equal(t, "42", exec.Outputs["one"])
	assert.Equal(t, "42", exec.Outputs["two"])
}
