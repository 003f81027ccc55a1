package driver

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/filetestdriver/alternation"
	"github.com/aledsdavies/filetestdriver/outputs"
	"github.com/aledsdavies/filetestdriver/status"
	"github.com/aledsdavies/filetestdriver/testfile"
)

// RunFileWithModes drives a file's cases through the modes-aware callback
// contract (spec §4.7, §4.8): expected-output parts are parsed into a
// TestCaseOutputs, each alternation expansion populates its own
// TestCaseOutputs, those are coalesced by label, and the single coalesced
// result is merged onto the expected baseline before comparison.
func (r *Runner) RunFileWithModes(path string, content []byte, includePossibleModes bool, callback RunTestCaseWithModesFunc) (RunFileResult, *status.Status) {
	cases, st := testfile.ParseFile(path, content)
	if !st.OK() {
		return RunFileResult{}, st
	}

	var regenerated, actualFile strings.Builder
	fileFailed := false
	var failures []string

	for i, tc := range cases {
		if i > 0 {
			regenerated.WriteString("==\n")
		}

		if r.CaseOpts != nil {
			r.CaseOpts.ResetForNextCase()
		}

		input := tc.Parts[0]
		if r.CaseOpts != nil {
			rest, st := r.CaseOpts.ParseHead(input)
			if !st.OK() {
				return RunFileResult{}, st.WithContext("file", path).WithContext("line", tc.StartLine+1)
			}
			input = rest
		}

		if i > 0 && r.Config.InsertLeadingBlankLines > 0 {
			enforced, failed := enforceLeadingBlankLines(tc.Comments[0].Start, r.Config.InsertLeadingBlankLines)
			tc.Comments[0].Start = enforced
			if failed {
				fileFailed = true
			}
		}

		hasExpected := len(tc.Parts) > 1
		expected := outputs.New()
		for _, part := range tc.Parts[1:] {
			if st := expected.RecordPart(part); !st.OK() {
				return RunFileResult{}, st.WithContext("file", path).WithContext("line", tc.StartLine+1)
			}
		}

		if strings.TrimSpace(input) == "" && !hasExpected {
			regenerated.WriteString(testfile.BuildTestFileEntry(tc.Parts, tc.Comments))
			continue
		}

		expansions := alternation.Expand(input)
		modeResults := make([]alternation.ModesCaseResult, len(expansions))
		for ei, exp := range expansions {
			actual := outputs.New()
			actual.SetPossibleModes(expected.PossibleModes())
			callback(exp.Text, actual)
			modeResults[ei] = alternation.ModesCaseResult{Label: exp.Label, Outputs: actual}
		}

		coalesced, st := alternation.CoalesceModes(modeResults)
		if !st.OK() {
			return RunFileResult{}, st.WithContext("file", path).WithContext("line", tc.StartLine+1)
		}

		merged, st := outputs.Merge(expected, []*outputs.TestCaseOutputs{coalesced})
		if !st.OK() {
			return RunFileResult{}, st.WithContext("file", path).WithContext("line", tc.StartLine+1)
		}

		expectedRendering := expected.GetCombinedOutputs(includePossibleModes)
		mergedRendering := merged.GetCombinedOutputs(includePossibleModes)
		matched := !hasExpected || stringSlicesEqual(expectedRendering, mergedRendering)

		if !matched {
			fileFailed = true
			diff := r.reportDiff(path, tc.StartLine+1, strings.Join(expectedRendering, "--\n"), strings.Join(mergedRendering, "--\n"))
			r.reportFailure(fmt.Sprintf("%s:%d", path, tc.StartLine+1), diff, &failures)
		}

		newParts := []string{input}
		if hasExpected {
			newParts = append(newParts, mergedRendering...)
		}
		regenerated.WriteString(testfile.BuildTestFileEntry(newParts, tc.Comments))

		if r.Config.GenerateActualFile && !matched {
			if i > 0 {
				actualFile.WriteString("==\n")
			}
			actualParts := append([]string{input}, coalesced.GetCombinedOutputs(includePossibleModes)...)
			actualFile.WriteString(testfile.BuildTestFileEntry(actualParts, tc.Comments))
		}
	}

	result := RunFileResult{Regenerated: regenerated.String(), Failed: fileFailed}
	if r.Config.GenerateActualFile && fileFailed {
		result.Actual = actualFile.String()
	}
	r.flushFailures(path, failures)
	return result, ok()
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
