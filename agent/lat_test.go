package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archon-ai/archon/core"
	"github.com/archon-ai/archon/model"
)

func TestLAT_SelectsBranchByNumber(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Problem: which route to take\nBranches:\n1. route A is slow\n2. route B is fast\n3. route C is risky",
		"Selection: 2 because it is the fastest",
		"Took route B and reached the goal.",
		"Yes",
		"Final Answer: route B",
	)

	a, err := NewLATAgent(func(o *Options) {
		o.Gateway = m
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "pick a route", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateCompleted, result.State)
	assert.Equal(t, "route B", result.Output)
	assert.Equal(t, 1, result.Metadata["depth"])

	require.Len(t, result.Steps, 5)
	assert.Equal(t, "problem", result.Steps[0].Type)
	assert.Equal(t, "which route to take", result.Steps[0].Content)
	assert.Equal(t, []string{
		"route A is slow",
		"route B is fast",
		"route C is risky",
	}, result.Steps[1].Items)
	assert.Equal(t, "2 because it is the fastest", result.Steps[2].Content)
	assert.Equal(t, "simulation", result.Steps[3].Type)
}

func TestLAT_ExhaustionKeepsBestPath(t *testing.T) {
	m := model.NewMockGateway()
	m.Script(
		"Problem: hard problem\nBranches: only one option",
		"Worked the option, still inconclusive.",
		"No.",
		"Final Answer: partial insight",
	)

	a, err := NewLATAgent(func(o *Options) {
		o.Gateway = m
		o.MaxDepth = 1
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "hard problem", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StateExhausted, result.State)
	assert.Equal(t, NotCompletedNotice+"partial insight", result.Output)
	assert.Equal(t, 1, result.Iterations)
	// Single branch skips the selection call: expand, simulate, terminal
	// check, answer.
	assert.Equal(t, 4, m.Calls())
}
