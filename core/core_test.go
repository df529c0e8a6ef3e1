package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		input string
		want  Architecture
	}{
		{"react", ArchitectureReAct},
		{"ReAct", ArchitectureReAct},
		{"  OODA  ", ArchitectureOODA},
		{"bdi", ArchitectureBDI},
		{"LAT", ArchitectureLAT},
		{"raise", ArchitectureRAISE},
		{"ReWOO", ArchitectureReWOO},
	}
	for _, tt := range tests {
		got, err := ParseArchitecture(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseArchitecture_Unknown(t *testing.T) {
	_, err := ParseArchitecture("chain-of-thought")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain-of-thought")
}

func TestArchitectures_Closed(t *testing.T) {
	all := Architectures()
	assert.Len(t, all, 6)
	for _, a := range all {
		parsed, err := ParseArchitecture(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}
