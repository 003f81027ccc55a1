package outputs

import (
	"sort"
	"strings"

	"github.com/aledsdavies/filetestdriver/status"
)

// Record appends text to the store under (mode, resultType), enforcing the
// four invariants of spec §4.7: no duplicate (mode, result_type), mode
// must be in possible_modes if declared, and an all-modes entry may not
// coexist with a mode-specific entry for the same result_type.
func (o *TestCaseOutputs) Record(mode, resultType, text string) *status.Status {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if o.hasMode(resultType, mode) {
		return status.Unknownf("outputs: duplicate entry for mode %q, result_type %q", mode, resultType).
			WithContext("mode", mode).WithContext("result_type", resultType)
	}
	if len(o.possibleModes) > 0 && mode != "" && !contains(o.possibleModes, mode) {
		return status.Unknownf("outputs: mode %q is not in possible_modes %v", mode, o.possibleModes).
			WithContext("mode", mode).WithContext("possible_modes", o.possibleModes)
	}
	if mode != "" && o.hasMode(resultType, "") {
		return status.Unknownf("outputs: mode %q conflicts with an existing all-modes entry for result_type %q", mode, resultType)
	}
	if mode == "" && o.hasAnyModeSpecific(resultType) {
		return status.Unknownf("outputs: all-modes entry conflicts with an existing mode-specific entry for result_type %q", resultType)
	}

	o.set(mode, resultType, text)
	return ok()
}

// RecordPart parses one expected-output part's body and records it,
// fanning a multi-mode header out into one Record call per listed mode
// (spec §4.7's "the same text is recorded under each listed mode").
func (o *TestCaseOutputs) RecordPart(body string) *status.Status {
	parsed, st := ParseExpectedPart(body)
	if !st.OK() {
		return st
	}
	if parsed.IsPossibleModes {
		o.SetPossibleModes(parsed.PossibleModes)
		return ok()
	}
	if len(parsed.Modes) == 0 {
		return o.Record("", parsed.ResultType, parsed.Text)
	}
	for _, mode := range parsed.Modes {
		if st := o.Record(mode, parsed.ResultType, parsed.Text); !st.OK() {
			return st
		}
	}
	return ok()
}

func (o *TestCaseOutputs) set(mode, resultType, text string) {
	key := entryKey{Mode: mode, ResultType: resultType}
	o.texts[key] = text
	o.modesByResultType[resultType] = append(o.modesByResultType[resultType], mode)
}

func (o *TestCaseOutputs) erase(mode, resultType string) {
	key := entryKey{Mode: mode, ResultType: resultType}
	if _, ok := o.texts[key]; !ok {
		return
	}
	delete(o.texts, key)
	modes := o.modesByResultType[resultType]
	for i, m := range modes {
		if m == mode {
			o.modesByResultType[resultType] = append(modes[:i], modes[i+1:]...)
			break
		}
	}
	if len(o.modesByResultType[resultType]) == 0 {
		delete(o.modesByResultType, resultType)
	}
}

// Text returns the raw recorded text for (mode, resultType), and whether
// an entry exists at all.
func (o *TestCaseOutputs) Text(mode, resultType string) (string, bool) {
	text, exists := o.texts[entryKey{Mode: mode, ResultType: resultType}]
	return text, exists
}

// Entry is one (mode, result_type) -> text row, exposed for callers that
// need to enumerate every recorded entry (e.g. the alternation coalescer).
type Entry struct {
	Mode       string
	ResultType string
	Text       string
}

// Entries returns every recorded entry, ordered by result_type then by
// the order modes were recorded within it.
func (o *TestCaseOutputs) Entries() []Entry {
	var out []Entry
	for _, resultType := range o.resultTypes() {
		for _, mode := range o.modesByResultType[resultType] {
			out = append(out, Entry{Mode: mode, ResultType: resultType, Text: o.texts[entryKey{Mode: mode, ResultType: resultType}]})
		}
	}
	return out
}

func (o *TestCaseOutputs) hasMode(resultType, mode string) bool {
	return contains(o.modesByResultType[resultType], mode)
}

func (o *TestCaseOutputs) hasAnyModeSpecific(resultType string) bool {
	for _, m := range o.modesByResultType[resultType] {
		if m != "" {
			return true
		}
	}
	return false
}

func (o *TestCaseOutputs) hasAllModesEntry() bool {
	for _, modes := range o.modesByResultType {
		if contains(modes, "") {
			return true
		}
	}
	return false
}

func (o *TestCaseOutputs) resultTypes() []string {
	out := make([]string, 0, len(o.modesByResultType))
	for rt := range o.modesByResultType {
		out = append(out, rt)
	}
	sort.Strings(out)
	return out
}

// BreakOut replicates every all-modes entry into each mode in target,
// erasing the all-modes row for that result_type, per spec §4.7.
func (o *TestCaseOutputs) BreakOut(target []string) {
	for _, resultType := range o.resultTypes() {
		if !o.hasMode(resultType, "") {
			continue
		}
		text := o.texts[entryKey{Mode: "", ResultType: resultType}]
		o.erase("", resultType)
		for _, m := range target {
			o.set(m, resultType, text)
		}
	}
}

// RegenerateAllModes collapses, for each result_type, a set of mode
// entries holding identical text that exactly covers universe into a
// single all-modes entry, per spec §4.7.
func (o *TestCaseOutputs) RegenerateAllModes(universe []string) {
	for _, resultType := range o.resultTypes() {
		modes := append([]string(nil), o.modesByResultType[resultType]...)
		if contains(modes, "") {
			continue
		}
		if len(modes) != len(universe) {
			continue
		}
		text, allMatch := "", true
		for i, m := range universe {
			if !contains(modes, m) {
				allMatch = false
				break
			}
			t := o.texts[entryKey{Mode: m, ResultType: resultType}]
			if i == 0 {
				text = t
			} else if t != text {
				allMatch = false
				break
			}
		}
		if !allMatch {
			continue
		}
		for _, m := range universe {
			o.erase(m, resultType)
		}
		o.set("", resultType, text)
	}
}

func (o *TestCaseOutputs) disableMode(mode string) {
	for _, resultType := range o.resultTypes() {
		if o.hasMode(resultType, mode) {
			o.erase(mode, resultType)
		}
	}
}

func (o *TestCaseOutputs) clone() *TestCaseOutputs {
	c := New()
	c.possibleModes = append([]string(nil), o.possibleModes...)
	c.disabledModes = append([]string(nil), o.disabledModes...)
	for resultType, modes := range o.modesByResultType {
		for _, m := range modes {
			c.set(m, resultType, o.texts[entryKey{Mode: m, ResultType: resultType}])
		}
	}
	return c
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}
