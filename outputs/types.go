// Package outputs implements the modes-aware expected/actual output model
// of spec §4.7: a small store keyed by (mode, result_type) pairs, with the
// invariants, merge algorithm, and deterministic rendering the driver and
// alternation coalescer build on.
package outputs

import "github.com/aledsdavies/filetestdriver/status"

type entryKey struct {
	Mode       string
	ResultType string
}

// TestCaseOutputs is the modes-aware store for one test case's expected or
// actual outputs. The zero value is not ready for use; call New.
type TestCaseOutputs struct {
	texts             map[entryKey]string
	modesByResultType map[string][]string // insertion order per result_type; "" marks the all-modes row
	possibleModes     []string
	disabledModes     []string
}

// New returns an empty TestCaseOutputs.
func New() *TestCaseOutputs {
	return &TestCaseOutputs{
		texts:             make(map[entryKey]string),
		modesByResultType: make(map[string][]string),
	}
}

// PossibleModes reports the set of modes declared valid for this case, in
// declaration order, or nil if no `Possible Modes:` line was present.
func (o *TestCaseOutputs) PossibleModes() []string { return append([]string(nil), o.possibleModes...) }

// SetPossibleModes records the possible_modes set parsed from a `Possible
// Modes: ` line.
func (o *TestCaseOutputs) SetPossibleModes(modes []string) {
	o.possibleModes = append([]string(nil), modes...)
}

// DisabledModes reports the modes a producer has marked disabled for this
// run (spec §4.7 step 2, collected from actuals during Merge).
func (o *TestCaseOutputs) DisabledModes() []string { return append([]string(nil), o.disabledModes...) }

// SetDisabledModes records which modes this (actual) output declares
// disabled.
func (o *TestCaseOutputs) SetDisabledModes(modes []string) {
	o.disabledModes = append([]string(nil), modes...)
}

func ok() *status.Status { return &status.Status{Code: status.Ok} }
