package extract

import (
	"regexp"
	"strings"

	"github.com/archon-ai/archon/core"
)

// FieldFinalAnswer is the field name holding the content after a
// "Final Answer:" marker, common to every grammar.
const FieldFinalAnswer = "final_answer"

// Record is the immutable result of one extraction call. Fields maps each
// recognized field name to the first non-empty content matched for it; Groups
// holds the ordered repeating cycles recovered from the text (for grammars
// that define one); Raw always equals the input text.
type Record struct {
	Raw    string
	Fields map[string]string
	Groups []map[string]string
}

// FinalAnswer returns the extracted final answer, or "" if none was present.
func (r Record) FinalAnswer() string { return r.Fields[FieldFinalAnswer] }

// Field returns content for the named field, falling back in two tiers: the
// grammar match collected during Parse, then a tolerant label pattern over
// the raw text, then the raw text itself. The result is non-empty whenever
// the raw text is.
func (r Record) Field(name string) string {
	if v := r.Fields[name]; v != "" {
		return v
	}
	if v := fallbackField(r.Raw, name); v != "" {
		return v
	}
	return r.Raw
}

// Steps splits a field's content on "Step N:" markers, returning the
// individual step texts. Used by grammars that embed numbered step lists
// (reasoning chains, scratch pads).
func (r Record) Steps(name string) []string {
	content := r.Fields[name]
	if content == "" {
		return nil
	}
	matches := stepPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}
	steps := make([]string, 0, len(matches))
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if s := strings.TrimSpace(content[m[1]:end]); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

var stepPattern = regexp.MustCompile(`(?mi)^\s*Step\s+\d+[:.)]\s*`)

// grammar describes one architecture's labeled-section layout: the ordered
// label set and, where sections repeat, the field sequence forming one group.
// Group membership follows the predecessor rule: a field joins the current
// group only if every field before it in the sequence is already present.
type grammar struct {
	labels []label
	group  []string
}

type label struct {
	field   string
	pattern string // regex alternative matching the label text, sans colon
}

var grammars = map[core.Architecture]grammar{
	core.ArchitectureReAct: {
		labels: []label{
			{"thought", `Thoughts?`},
			{"action", `Actions?`},
			{"observation", `Observations?`},
			{FieldFinalAnswer, `Final Answer`},
		},
		group: []string{"thought", "action", "observation"},
	},
	core.ArchitectureOODA: {
		labels: []label{
			{"observation", `Observations?`},
			{"orientation", `Orientations?`},
			{"decision", `Decisions?`},
			{"action", `Actions?`},
			{FieldFinalAnswer, `Final Answer`},
		},
		group: []string{"observation", "orientation", "decision", "action"},
	},
	core.ArchitectureBDI: {
		labels: []label{
			{"beliefs", `Beliefs?`},
			{"desires", `Desires?`},
			{"intentions", `Intentions?`},
			{"execution", `Executions?`},
			{FieldFinalAnswer, `Final Answer`},
		},
		group: []string{"beliefs", "desires", "intentions", "execution"},
	},
	core.ArchitectureLAT: {
		labels: []label{
			{"problem", `Problems?`},
			{"branches", `Branches`},
			{"selection", `Selections?`},
			{FieldFinalAnswer, `Final Answer`},
		},
		group: []string{"problem", "branches", "selection"},
	},
	core.ArchitectureRAISE: {
		labels: []label{
			{"task_analysis", `Task Analysis`},
			{"relevant_examples", `Relevant Examples?`},
			{"scratch_pad", `Scratch Pad`},
			{FieldFinalAnswer, `Final Answer`},
		},
	},
	core.ArchitectureReWOO: {
		labels: []label{
			{"problem_analysis", `Problem Analysis`},
			{"reasoning", `Reasoning`},
			{"conclusion", `Conclusions?`},
			{FieldFinalAnswer, `Final Answer`},
		},
	},
}

// scanner bundles an architecture's compiled section regex with per-label
// matchers for resolving which field a match belongs to.
type scanner struct {
	re     *regexp.Regexp
	labels []compiledLabel
}

type compiledLabel struct {
	field string
	re    *regexp.Regexp
}

// scanners caches the per-architecture section scanner. Built eagerly at init
// since the grammar set is closed.
var scanners = func() map[core.Architecture]scanner {
	out := make(map[core.Architecture]scanner, len(grammars))
	for arch, g := range grammars {
		alts := make([]string, len(g.labels))
		labels := make([]compiledLabel, len(g.labels))
		for i, l := range g.labels {
			alts[i] = "(?:" + l.pattern + ")"
			labels[i] = compiledLabel{
				field: l.field,
				re:    regexp.MustCompile(`(?i)^(?:` + l.pattern + `)$`),
			}
		}
		out[arch] = scanner{
			re:     regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\s*:`),
			labels: labels,
		}
	}
	return out
}()

type section struct {
	field   string
	content string
}

// Parse extracts a Record from text under the named architecture's grammar.
// It never fails: text with no recognizable labels (or an architecture with
// no grammar) yields a Record with empty fields and Raw equal to the input.
func Parse(arch core.Architecture, text string) Record {
	rec := Record{Raw: text, Fields: map[string]string{}}

	g, ok := grammars[arch]
	if !ok {
		return rec
	}

	sections := scan(scanners[arch], text)
	for _, s := range sections {
		if s.content == "" {
			continue
		}
		if _, exists := rec.Fields[s.field]; !exists {
			rec.Fields[s.field] = s.content
		}
	}

	if len(g.group) > 0 {
		rec.Groups = groupSections(g.group, sections)
	}

	return rec
}

// scan splits the text into labeled sections in textual order. Each section's
// content runs from its label to the next label or end of text.
func scan(s scanner, text string) []section {
	matches := s.re.FindAllStringSubmatchIndex(text, -1)
	sections := make([]section, 0, len(matches))
	for i, m := range matches {
		name := s.fieldForLabel(text[m[2]:m[3]])
		if name == "" {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, section{
			field:   name,
			content: strings.TrimSpace(text[m[1]:end]),
		})
	}
	return sections
}

func (s scanner) fieldForLabel(matched string) string {
	for _, l := range s.labels {
		if l.re.MatchString(matched) {
			return l.field
		}
	}
	return ""
}

// groupSections folds labeled sections into repeating groups. A group starts
// at the sequence's leading field; any other field is attached only when all
// of its predecessors are already present in the current group, otherwise it
// is left ungrouped.
func groupSections(seq []string, sections []section) []map[string]string {
	pos := make(map[string]int, len(seq))
	for i, f := range seq {
		pos[f] = i
	}

	var groups []map[string]string
	var current map[string]string

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = nil
	}

	for _, s := range sections {
		idx, inSeq := pos[s.field]
		if !inSeq || s.content == "" {
			continue
		}
		if idx == 0 {
			flush()
			current = map[string]string{s.field: s.content}
			continue
		}
		if current == nil {
			continue
		}
		if _, dup := current[s.field]; dup {
			continue
		}
		complete := true
		for _, pred := range seq[:idx] {
			if _, ok := current[pred]; !ok {
				complete = false
				break
			}
		}
		if complete {
			current[s.field] = s.content
		}
	}
	flush()

	return groups
}

// fallbackField is the tier-two pattern: a tolerant case-insensitive label
// match capturing everything after "<label>:" to end of text. It covers
// responses whose labels never matched the section scanner cleanly.
func fallbackField(text, name string) string {
	labelText := strings.ReplaceAll(name, "_", `\s+`)
	re, err := regexp.Compile(`(?is)\b` + labelText + `s?\s*:\s*(.*)`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
