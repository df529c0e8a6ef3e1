package core

import (
	"fmt"
	"strings"
)

// Architecture identifies one of the supported reasoning strategies. The set
// is closed: each value is bound to a concrete agent implementation with its
// own stage sequence and extraction grammar.
type Architecture string

const (
	// ArchitectureReAct interleaves reasoning and acting steps, letting the
	// model decide each iteration whether to think, act or answer.
	ArchitectureReAct Architecture = "react"
	// ArchitectureOODA runs the observe, orient, decide, act decision cycle.
	ArchitectureOODA Architecture = "ooda"
	// ArchitectureBDI runs the belief, desire, intention practical-reasoning
	// cycle followed by action selection and execution.
	ArchitectureBDI Architecture = "bdi"
	// ArchitectureLAT explores a decision tree of reasoning paths with
	// bounded depth and per-node simulation.
	ArchitectureLAT Architecture = "lat"
	// ArchitectureRAISE reasons over a persistent scratch pad guided by
	// retrieved examples.
	ArchitectureRAISE Architecture = "raise"
	// ArchitectureReWOO plans once, delegates subtasks to independent
	// workers and aggregates their results without observation loops.
	ArchitectureReWOO Architecture = "rewoo"
)

// Architectures returns all supported architectures in a stable order.
func Architectures() []Architecture {
	return []Architecture{
		ArchitectureReAct,
		ArchitectureOODA,
		ArchitectureBDI,
		ArchitectureLAT,
		ArchitectureRAISE,
		ArchitectureReWOO,
	}
}

// ParseArchitecture maps a case-insensitive name to an Architecture. Unknown
// names are a configuration error reported immediately, never retried.
func ParseArchitecture(name string) (Architecture, error) {
	a := Architecture(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case ArchitectureReAct, ArchitectureOODA, ArchitectureBDI,
		ArchitectureLAT, ArchitectureRAISE, ArchitectureReWOO:
		return a, nil
	default:
		return "", fmt.Errorf("unknown agent architecture: %q", name)
	}
}

// String returns the canonical lower-case name of the architecture.
func (a Architecture) String() string { return string(a) }
