package driver

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/aledsdavies/filetestdriver/alternation"
	"github.com/aledsdavies/filetestdriver/caseopts"
	"github.com/aledsdavies/filetestdriver/rediff"
	"github.com/aledsdavies/filetestdriver/status"
	"github.com/aledsdavies/filetestdriver/testfile"
	"github.com/aledsdavies/filetestdriver/unifieddiff"
)

// Runner drives one file's worth of cases through the 8-step loop of spec
// §4.8. A Runner instance owns its file's state exclusively (regeneration
// buffer, previous-output memo, an evolving case-options parser) and must
// not be shared across files running concurrently (spec §5).
type Runner struct {
	Config Config
	Logger *slog.Logger
	Sink   ExpectationSink

	// CaseOpts, if set, has its ParseHead run against every case's input
	// before alternation expansion; the input passed to the callback is
	// whatever remains after the options are stripped.
	CaseOpts *caseopts.Parser

	// OnDiff, if set, is additionally invoked with each mismatching case's
	// unified diff (spec §7's "failure channel").
	OnDiff func(file string, line int, unifiedDiff string)
}

// NewRunner returns a Runner with a text slog.Logger writing to stderr,
// stripped of time/level attrs to keep test logs deterministic, following
// the teacher's runtime/lexer logging setup.
func NewRunner(cfg Config, sink ExpectationSink) *Runner {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	return &Runner{Config: cfg, Logger: logger, Sink: sink}
}

// RunFileResult is the outcome of one RunFile call.
type RunFileResult struct {
	Regenerated string
	Actual      string // non-empty only when Config.GenerateActualFile and Failed
	Failed      bool
}

// RunFile drives every case of one parsed file through callback, per spec
// §4.8.
func (r *Runner) RunFile(path string, content []byte, callback RunTestCaseFunc) (RunFileResult, *status.Status) {
	cases, st := testfile.ParseFile(path, content)
	if !st.OK() {
		return RunFileResult{}, st
	}

	var ignoreRe *regexp.Regexp
	if r.Config.IgnoreRegex != "" {
		re, err := regexp.Compile(r.Config.IgnoreRegex)
		if err != nil {
			return RunFileResult{}, status.InvalidArgumentf("driver: bad ignore_regex %q: %v", r.Config.IgnoreRegex, err)
		}
		ignoreRe = re
	}

	var regenerated, actualFile strings.Builder
	previousOutput := ""
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

		var expected string
		hasExpected := len(tc.Parts) > 1
		if hasExpected {
			expected = tc.Parts[1]
		}

		if i > 0 && r.Config.InsertLeadingBlankLines > 0 {
			enforced, failed := enforceLeadingBlankLines(tc.Comments[0].Start, r.Config.InsertLeadingBlankLines)
			tc.Comments[0].Start = enforced
			if failed {
				fileFailed = true
			}
		}

		if strings.TrimSpace(input) == "" && !hasExpected {
			regenerated.WriteString(testfile.BuildTestFileEntry(tc.Parts, tc.Comments))
			continue
		}

		sameAsPrevious := hasExpected && len(tc.Parts) == 2 &&
			expected == testfile.SameAsPrevious && previousOutput != ""

		expansions := alternation.Expand(input)
		results := make([]alternation.CaseResult, len(expansions))
		ignoreTestOutput := false
		for ei, exp := range expansions {
			result := &RunTestCaseResult{Filename: path, Line: tc.StartLine + 1, Parts: tc.Parts, TestAlternation: exp.Label}
			callback(exp.Text, result)
			results[ei] = alternation.CaseResult{Label: exp.Label, Result: result.combined()}
			if result.ignoreTestOutput {
				ignoreTestOutput = true
			}
		}
		actual := alternation.Coalesce(results)

		if r.Config.Debug {
			r.Logger.Info("case actual output", "file", path, "line", tc.StartLine+1, "dump", spew.Sdump(actual))
		}

		compareExpected := expected
		if sameAsPrevious {
			compareExpected = previousOutput
		}

		diffExpected, diffActual := compareExpected, actual
		if ignoreRe != nil {
			diffExpected = ignoreRe.ReplaceAllString(diffExpected, "")
			diffActual = ignoreRe.ReplaceAllString(diffActual, "")
		}

		matched := !hasExpected || ignoreTestOutput || diffExpected == diffActual
		if !matched {
			fileFailed = true
			diff := r.reportDiff(path, tc.StartLine+1, diffExpected, diffActual)
			r.reportFailure(fmt.Sprintf("%s:%d", path, tc.StartLine+1), diff, &failures)
		}

		var outParts []string
		switch {
		case ignoreTestOutput:
			outParts = []string{expected}
		case matched && sameAsPrevious:
			outParts = []string{testfile.SameAsPrevious}
		case hasExpected:
			outParts = []string{actual}
		}

		newParts := append([]string{input}, outParts...)
		regenerated.WriteString(testfile.BuildTestFileEntry(newParts, tc.Comments))

		if r.Config.GenerateActualFile && !matched {
			if i > 0 {
				actualFile.WriteString("==\n")
			}
			actualFile.WriteString(testfile.BuildTestFileEntry([]string{input, actual}, tc.Comments))
		}

		if ignoreTestOutput && sameAsPrevious {
			previousOutput = ""
		} else {
			previousOutput = actual
		}
	}

	result := RunFileResult{Regenerated: regenerated.String(), Failed: fileFailed}
	if r.Config.GenerateActualFile && fileFailed {
		result.Actual = actualFile.String()
	}
	r.flushFailures(path, failures)
	return result, ok()
}

// reportDiff computes and logs one case's unified diff, using
// Config.LCSOptions to tune the underlying lcs engine (spec §6.3), and
// returns the diff text for the caller to route through reportFailure. It
// never itself touches Sink — callers decide per-case vs. aggregated
// reporting.
func (r *Runner) reportDiff(file string, line int, expected, actual string) string {
	opts := rediff.DefaultOptions()
	opts.LCSOptions = r.Config.LCSOptions
	chunks, st := rediff.Run(splitLines(expected), splitLines(actual), opts)
	if !st.OK() {
		r.Logger.Warn("rediff failed, falling back to raw comparison", "file", file, "line", line, "error", st.Error())
	}
	diff := unifieddiff.Print(splitLines(expected), splitLines(actual), chunks, r.Config.UnifiedDiffOptions)

	r.Logger.Info("test case diff", "file", file, "line", line, "expected", expected, "actual", actual, "diff", diff)
	if r.OnDiff != nil {
		r.OnDiff(file, line, diff)
	}
	return diff
}

// reportFailure routes one failing case's diff per Config.IndividualTests
// (spec §4.8): immediately as its own named Sink failure when set, or
// appended to failures for a single file-level report otherwise.
func (r *Runner) reportFailure(name, diff string, failures *[]string) {
	if r.Config.IndividualTests {
		if r.Sink != nil {
			r.Sink.Fail(name, diff)
		}
		return
	}
	*failures = append(*failures, name+"\n"+diff)
}

// flushFailures emits the single aggregated Sink failure for a file run
// under the default (non-IndividualTests) reporting mode.
func (r *Runner) flushFailures(path string, failures []string) {
	if r.Config.IndividualTests || len(failures) == 0 || r.Sink == nil {
		return
	}
	r.Sink.Fail(path, strings.Join(failures, "\n"))
}

func splitLines(s string) [][]byte {
	if s == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(s, "\n")
	parts := strings.Split(trimmed, "\n")
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

// enforceLeadingBlankLines counts the literal leading "\n" run at the
// start of a non-first case's start comment and, if short of required,
// prepends the missing blank lines and reports the case as failing (spec
// §4.8 step 7).
func enforceLeadingBlankLines(start string, required int) (enforced string, failed bool) {
	count := 0
	s := start
	for strings.HasPrefix(s, "\n") {
		count++
		s = s[1:]
	}
	if count >= required {
		return start, false
	}
	return strings.Repeat("\n", required-count) + start, true
}
