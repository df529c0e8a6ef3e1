// Package extract converts unstructured model output into typed records of
// labeled fields. Each reasoning architecture has its own grammar of ordered,
// mutually terminating section labels (for ReAct: Thought, Action,
// Observation, Final Answer); extraction groups repeating sections into
// cycles and guarantees a non-failing fallback for any queried field.
package extract
