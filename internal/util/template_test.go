package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Hello {{.Name}}!", map[string]any{"Name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world!", out)
}

func TestRenderTemplate_Funcs(t *testing.T) {
	out, err := RenderTemplate(`{{upper .A}} {{lower .B}} {{join ", " .C}}`, map[string]any{
		"A": "go",
		"B": "GO",
		"C": []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "GO go a, b", out)
}

func TestRenderTemplate_NoPlaceholders(t *testing.T) {
	out, err := RenderTemplate("static text", nil)
	require.NoError(t, err)
	assert.Equal(t, "static text", out)
}

func TestRenderTemplate_Invalid(t *testing.T) {
	_, err := RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}
