package tool

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Call is a tool invocation recovered from free-form model text: the target
// tool name plus decoded arguments. RawInput preserves the undecoded
// parameter text for observation messages.
type Call struct {
	Name     string
	Args     map[string]any
	RawInput string
}

// callPattern matches instructions like "use search: capital of France",
// "calculator, 2+2" or `lookup with {"key": "value"}`. The leading "use" is
// optional; the separator may be a colon, comma or "with".
var callPattern = regexp.MustCompile(`(?is)^\s*(?:use\s+)?(\w+)(?:\s*[:,]|\s+with\b)?\s+(.+)$`)

// ParseCall is the best-effort text-to-call adapter: it extracts a tool name
// and parameter payload from a natural-language action instruction. The
// payload becomes decoded JSON when it is a well-formed object, otherwise it
// is wrapped as {"query": payload}. Returns false when the text contains no
// recognizable call shape.
//
// The heuristics live behind this narrow function so they can be swapped or
// tested independently of the agents that consume them.
func ParseCall(text string) (Call, bool) {
	m := callPattern.FindStringSubmatch(text)
	if m == nil {
		return Call{}, false
	}

	name := strings.TrimSpace(m[1])
	input := strings.TrimSpace(m[2])
	if name == "" || input == "" {
		return Call{}, false
	}

	return Call{Name: name, Args: decodeArgs(input), RawInput: input}, true
}

// decodeArgs treats brace-delimited payloads as JSON objects, falling back to
// a single query parameter for anything that does not decode.
func decodeArgs(input string) map[string]any {
	if strings.HasPrefix(input, "{") && strings.HasSuffix(input, "}") {
		var args map[string]any
		if err := json.Unmarshal([]byte(input), &args); err == nil {
			return args
		}
	}
	return map[string]any{"query": input}
}
