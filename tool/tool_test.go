package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archon-ai/archon/internal/util"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	Query string `json:"query" description:"Search query"`
	Limit *int   `json:"limit" description:"Optional result limit"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")

	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"query"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		"required": []any{"x"},
	}

	assert.NoError(t, util.ValidateParameters(map[string]any{"x": 5}, schema))
	// JSON-decoded numbers arrive as float64; whole values count as integers.
	assert.NoError(t, util.ValidateParameters(map[string]any{"x": float64(5)}, schema))
	assert.Error(t, util.ValidateParameters(map[string]any{}, schema))
	assert.Error(t, util.ValidateParameters(map[string]any{"x": "five"}, schema))
	// Extra fields are tolerated.
	assert.NoError(t, util.ValidateParameters(map[string]any{"x": 1, "y": "extra"}, schema))
}

// -------------------- FunctionTool Tests --------------------

func echoTool() *FunctionTool {
	return NewFunctionTool("echo", "Echoes its input", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
		"required": []string{"query"},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		return args["query"], nil
	})
}

func TestFunctionTool_Success(t *testing.T) {
	out, err := echoTool().Execute(context.Background(), map[string]any{"query": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	_, err := echoTool().Execute(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionTool_ExecutionErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	tl := NewFunctionTool("fail", "Always fails", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, boom
		})

	_, err := tl.Execute(context.Background(), nil)
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

func TestFunctionTool_ToolErrorPassthrough(t *testing.T) {
	custom := NewToolError("custom", "rate limited", "RATE_LIMITED")
	tl := NewFunctionTool("custom", "Returns its own tool error", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, custom
		})

	_, err := tl.Execute(context.Background(), nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

// -------------------- Registry Tests --------------------

func TestRegistry_CaseInsensitiveResolve(t *testing.T) {
	reg := NewRegistry(echoTool())

	got, ok := reg.Resolve("ECHO")
	require.True(t, ok)
	assert.Equal(t, "echo", got.Name())

	_, ok = reg.Resolve("missing")
	assert.False(t, ok)
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	first := NewFunctionTool("Search", "first", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) { return "first", nil })
	second := NewFunctionTool("search", "second", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) { return "second", nil })

	reg := NewRegistry(first, second)
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Resolve("SEARCH")
	require.True(t, ok)
	assert.Equal(t, "second", got.Description())
}

func TestRegistry_NamesAndDescriptions(t *testing.T) {
	reg := NewRegistry(
		echoTool(),
		NewFunctionTool("calc", "Calculates", map[string]any{"type": "object"},
			func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }),
	)

	assert.Equal(t, []string{"calc", "echo"}, reg.Names())
	assert.Equal(t, "Calculates", reg.Descriptions()["calc"])
}

// -------------------- ParseCall Tests --------------------

func TestParseCall_Variants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tool  string
		query string
	}{
		{"use prefix with comma", "use search, capital of France", "search", "capital of France"},
		{"colon separator", "search: capital of France", "search", "capital of France"},
		{"with keyword", "search with capital of France", "search", "capital of France"},
		{"bare", "search capital of France", "search", "capital of France"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := ParseCall(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.tool, call.Name)
			assert.Equal(t, tt.query, call.Args["query"])
		})
	}
}

func TestParseCall_JSONPayload(t *testing.T) {
	call, ok := ParseCall(`use calculator, {"operation": "add", "a": 2, "b": 2}`)
	require.True(t, ok)
	assert.Equal(t, "calculator", call.Name)
	assert.Equal(t, "add", call.Args["operation"])
	assert.Equal(t, float64(2), call.Args["a"])
}

func TestParseCall_MalformedJSONFallsBackToQuery(t *testing.T) {
	call, ok := ParseCall(`use calculator, {"operation": broken`)
	require.True(t, ok)
	assert.Equal(t, `{"operation": broken`, call.Args["query"])
}

func TestParseCall_NoMatch(t *testing.T) {
	_, ok := ParseCall("just thinking out loud")
	// A bare two-word sentence still parses; truly empty input must not.
	assert.True(t, ok)

	_, ok = ParseCall("")
	assert.False(t, ok)

	_, ok = ParseCall("single")
	assert.False(t, ok)
}
