package alternation

import (
	"strings"

	"github.com/aledsdavies/filetestdriver/outputs"
	"github.com/aledsdavies/filetestdriver/status"
)

// ModesCaseResult is one expansion's modes-aware callback outcome.
type ModesCaseResult struct {
	Label   string
	Outputs *outputs.TestCaseOutputs
}

type modeResultKey struct {
	mode       string
	resultType string
}

// CoalesceModes implements the modes-aware coalescer of spec §4.6: for
// each (mode, result_type) key appearing in any expansion's outputs, the
// labels are grouped by output text. If every label for that key agrees,
// it is recorded once under (mode, result_type); otherwise each distinct
// text is recorded under (mode, result_type + "{l1}{l2}…"), the
// braces-list label suffix. possible_modes must agree across every
// expansion that declares one.
func CoalesceModes(results []ModesCaseResult) (*outputs.TestCaseOutputs, *status.Status) {
	for _, r := range results {
		if st := validateLabel(r.Label); !st.OK() {
			return nil, st
		}
	}

	var possibleModes []string
	havePossible := false
	for _, r := range results {
		pm := r.Outputs.PossibleModes()
		if len(pm) == 0 {
			continue
		}
		if !havePossible {
			possibleModes = pm
			havePossible = true
			continue
		}
		if !sameStringSet(possibleModes, pm) {
			return nil, status.Unknownf("alternation: possible_modes mismatch across alternation expansions: %v vs %v", possibleModes, pm)
		}
	}

	// byKey[key][text] = labels that produced text for that key, and the
	// order keys/texts first appeared, for deterministic output.
	byKey := make(map[modeResultKey]map[string][]string)
	var keyOrder []modeResultKey
	textOrder := make(map[modeResultKey][]string)

	for _, r := range results {
		for _, e := range r.Outputs.Entries() {
			key := modeResultKey{mode: e.Mode, resultType: e.ResultType}
			texts, exists := byKey[key]
			if !exists {
				texts = make(map[string][]string)
				byKey[key] = texts
				keyOrder = append(keyOrder, key)
			}
			if _, seen := texts[e.Text]; !seen {
				textOrder[key] = append(textOrder[key], e.Text)
			}
			texts[e.Text] = append(texts[e.Text], r.Label)
		}
	}

	merged := outputs.New()
	if havePossible {
		merged.SetPossibleModes(possibleModes)
	}

	for _, key := range keyOrder {
		texts := byKey[key]
		order := textOrder[key]
		if len(order) == 1 {
			if st := merged.Record(key.mode, key.resultType, order[0]); !st.OK() {
				return nil, st
			}
			continue
		}
		for _, text := range order {
			labels := texts[text]
			suffix := bracesList(labels)
			resultType := key.resultType + suffix
			if st := merged.Record(key.mode, resultType, text); !st.OK() {
				return nil, st
			}
		}
	}

	return merged, ok()
}

// bracesList renders a group of alternation labels as the `{l1}{l2}…`
// result-type suffix of spec §4.6.
func bracesList(labels []string) string {
	var b strings.Builder
	for _, l := range labels {
		b.WriteString("{" + displayLabel(l) + "}")
	}
	return b.String()
}

func validateLabel(label string) *status.Status {
	if strings.ContainsAny(label, "\n{}<>") {
		return status.InvalidArgumentf("alternation: label %q may not contain newline, '{', '}', '<', or '>'", label)
	}
	return ok()
}

func sameStringSet(a, b []string) bool {
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

func ok() *status.Status { return &status.Status{Code: status.Ok} }
