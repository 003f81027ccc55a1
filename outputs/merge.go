package outputs

import (
	"sort"
	"strings"

	"github.com/aledsdavies/filetestdriver/status"
)

// Merge folds a set of per-mode actual outputs onto an expected baseline,
// the 8-step algorithm of spec §4.7.
func Merge(expected *TestCaseOutputs, actuals []*TestCaseOutputs) (*TestCaseOutputs, *status.Status) {
	// 1. possible_modes from actuals must all agree.
	var possibleModes []string
	havePossible := false
	for _, a := range actuals {
		if len(a.possibleModes) == 0 {
			continue
		}
		if !havePossible {
			possibleModes = a.possibleModes
			havePossible = true
			continue
		}
		if !sameSet(possibleModes, a.possibleModes) {
			return nil, status.Unknownf("outputs: possible_modes mismatch between actuals: %v vs %v", possibleModes, a.possibleModes)
		}
	}

	// 2. disabled_modes from actuals; actuals must be mode-specific only.
	disabled := map[string]bool{}
	for _, a := range actuals {
		if a.hasAllModesEntry() {
			return nil, status.Unknownf("outputs: actual outputs must be mode-specific, found an all-modes entry")
		}
		for _, m := range a.disabledModes {
			disabled[m] = true
		}
	}

	// 3. target universe M: modes mentioned by expected and actuals, minus
	// disabled_modes, intersected with possible_modes if present.
	universeSet := map[string]bool{}
	addMode := func(m string) {
		if m == "" || disabled[m] {
			return
		}
		universeSet[m] = true
	}
	for _, modes := range expected.modesByResultType {
		for _, m := range modes {
			addMode(m)
		}
	}
	for _, a := range actuals {
		for _, modes := range a.modesByResultType {
			for _, m := range modes {
				addMode(m)
			}
		}
	}
	if havePossible {
		pset := map[string]bool{}
		for _, m := range possibleModes {
			pset[m] = true
		}
		for m := range universeSet {
			if !pset[m] {
				delete(universeSet, m)
			}
		}
	}
	universe := make([]string, 0, len(universeSet))
	for m := range universeSet {
		universe = append(universe, m)
	}
	sort.Strings(universe)

	// 4. merged = expected; disable each mode in disabled_modes.
	merged := expected.clone()
	for m := range disabled {
		merged.disableMode(m)
	}

	// 5. if no actual has any entry, merged is done.
	anyEntries := false
	for _, a := range actuals {
		if len(a.texts) > 0 {
			anyEntries = true
			break
		}
	}
	if !anyEntries {
		return merged, ok()
	}

	// 6. break out merged's all-modes rows over the universe.
	merged.BreakOut(universe)

	// 7. for every mode an actual mentions, replace that mode's entire
	// result_type row set in merged with exactly what the actual specifies
	// - not just the explicitly named (mode, resultType) pairs. This
	// mirrors the C++ ground truth's InsertOrUpdateOutputsForTestModes,
	// which wholesale-overwrites a mode's whole output map rather than
	// patching individual entries; patching individual entries would leave
	// stale rows BreakOut created (e.g. a (mode, "") row from the
	// expected's all-modes entry) that the actual never meant to keep.
	for _, a := range actuals {
		actualModes := map[string]bool{}
		for _, modes := range a.modesByResultType {
			for _, m := range modes {
				if universeSet[m] {
					actualModes[m] = true
				}
			}
		}
		for m := range actualModes {
			merged.disableMode(m)
		}
		for resultType, modes := range a.modesByResultType {
			for _, m := range modes {
				if !universeSet[m] {
					continue
				}
				text := a.texts[entryKey{Mode: m, ResultType: resultType}]
				merged.set(m, resultType, text)
			}
		}
	}

	// 8. regenerate merged's all-modes rows over the universe.
	merged.RegenerateAllModes(universe)

	return merged, ok()
}

// GetCombinedOutputs renders o back into the sequence of expected-output
// part strings, per spec §4.7: ordered by result_type ascending then by
// the lexicographic rendering of each result_type's mode groups. When
// includePossibleModes is set and a possible_modes set is present, a
// leading `Possible Modes: ` part is prepended.
func (o *TestCaseOutputs) GetCombinedOutputs(includePossibleModes bool) []string {
	var parts []string
	if includePossibleModes && len(o.possibleModes) > 0 {
		parts = append(parts, "Possible Modes: "+renderModeHeader(o.possibleModes)+"\n")
	}

	for _, resultType := range o.resultTypes() {
		for _, g := range o.groupsFor(resultType) {
			var b strings.Builder
			if resultType == "" && len(g.modes) == 0 {
				// Bare text, no header, matching simple single-output cases.
			} else {
				b.WriteString("<" + resultType + ">" + renderModeHeader(g.modes) + "\n")
			}
			b.WriteString(g.text)
			parts = append(parts, b.String())
		}
	}
	return parts
}

type outputGroup struct {
	modes []string
	text  string
}

// groupsFor partitions one result_type's entries into groups of modes
// sharing identical text, ordered lexicographically by their rendered
// mode-header so output is deterministic.
func (o *TestCaseOutputs) groupsFor(resultType string) []outputGroup {
	byText := map[string]*outputGroup{}
	var order []*outputGroup
	for _, mode := range o.modesByResultType[resultType] {
		text := o.texts[entryKey{Mode: mode, ResultType: resultType}]
		g, exists := byText[text]
		if !exists {
			g = &outputGroup{text: text}
			byText[text] = g
			order = append(order, g)
		}
		if mode != "" {
			g.modes = append(g.modes, mode)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return renderModeHeader(order[i].modes) < renderModeHeader(order[j].modes)
	})
	out := make([]outputGroup, len(order))
	for i, g := range order {
		out[i] = *g
	}
	return out
}

func renderModeHeader(modes []string) string {
	var b strings.Builder
	for _, m := range modes {
		b.WriteString("[" + m + "]")
	}
	return b.String()
}
