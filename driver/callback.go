package driver

import "github.com/aledsdavies/filetestdriver/outputs"

// RunTestCaseResult is the mutable payload of the baseline callback
// contract (spec §6.2): the callback adds one or more output fragments,
// optionally marks the case as ignore_test_output, and reads the
// case's read-only metadata.
type RunTestCaseResult struct {
	Filename        string
	Line            int
	Parts           []string
	TestAlternation string

	fragments        []string
	ignoreTestOutput bool
}

// AddTestOutput appends one fragment of actual output.
func (r *RunTestCaseResult) AddTestOutput(text string) {
	r.fragments = append(r.fragments, text)
}

// SetIgnoreTestOutput marks this case's expected output as copied
// verbatim into the regenerated file rather than compared (spec §4.8
// step 6).
func (r *RunTestCaseResult) SetIgnoreTestOutput(v bool) {
	r.ignoreTestOutput = v
}

func (r *RunTestCaseResult) combined() string {
	out := ""
	for _, f := range r.fragments {
		out += f
	}
	return out
}

// RunTestCaseFunc is the baseline per-case callback: it receives the
// (already alternation-expanded, case-options-stripped) input text and
// populates result.
type RunTestCaseFunc func(input string, result *RunTestCaseResult)

// RunTestCaseWithModesFunc is the modes-aware per-case callback: it
// receives the input text and populates a TestCaseOutputs instead of a
// flat fragment list.
type RunTestCaseWithModesFunc func(input string, result *outputs.TestCaseOutputs)

// ExpectationSink is the external collaborator individual_tests reports
// to: one named failure per mismatching case, instead of a single
// file-level failure (spec §6.4, SPEC_FULL.md supplemented feature).
type ExpectationSink interface {
	Fail(testName, message string)
}
