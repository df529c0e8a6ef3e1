package core

// DefaultHistoryLimit bounds the number of entries kept per history field in
// a RunContext. Prompts only ever look back one or two entries, so retaining
// a short window keeps prompt size stable across long runs.
const DefaultHistoryLimit = 20

// RunContext accumulates the state of a single agent run: the task, bounded
// per-field history (thoughts, observations, beliefs, ... depending on the
// architecture), the tool surface visible to the model and any extra context
// supplied by the caller.
//
// A RunContext is created at run start, mutated only by the owning agent and
// discarded at run end. It is not shared across runs and requires no locking.
type RunContext struct {
	Task             string
	ToolNames        []string
	ToolDescriptions map[string]string
	Extra            map[string]any

	historyLimit int
	history      map[string][]string
}

// NewRunContext creates a RunContext for one run. historyLimit <= 0 selects
// DefaultHistoryLimit.
func NewRunContext(task string, historyLimit int) *RunContext {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &RunContext{
		Task:             task,
		ToolDescriptions: map[string]string{},
		Extra:            map[string]any{},
		historyLimit:     historyLimit,
		history:          map[string][]string{},
	}
}

// MergeExtra copies caller-supplied context into Extra without overwriting
// existing keys.
func (c *RunContext) MergeExtra(extra map[string]any) {
	for k, v := range extra {
		if _, exists := c.Extra[k]; !exists {
			c.Extra[k] = v
		}
	}
}

// Append records a value in the named history field, evicting the oldest
// entry once the field exceeds the configured limit.
func (c *RunContext) Append(field, value string) {
	entries := append(c.history[field], value)
	if len(entries) > c.historyLimit {
		entries = entries[len(entries)-c.historyLimit:]
	}
	c.history[field] = entries
}

// Last returns the most recent entry for the field, or "" and false if the
// field has no history yet.
func (c *RunContext) Last(field string) (string, bool) {
	entries := c.history[field]
	if len(entries) == 0 {
		return "", false
	}
	return entries[len(entries)-1], true
}

// LastN returns up to n most recent entries for the field, oldest first.
func (c *RunContext) LastN(field string, n int) []string {
	entries := c.history[field]
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}

// Len reports the number of retained entries for the field.
func (c *RunContext) Len(field string) int { return len(c.history[field]) }
