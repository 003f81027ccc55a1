// Package testfile implements the golden test-file grammar of spec §4.4 and
// §6.1: a newline-delimited format of cases (separated by a lone `==`) each
// holding one or more parts (separated by a lone `--`), with comment runs
// and a small escape syntax so body text can contain the separators
// themselves.
package testfile

// TestCasePartComments holds the comment lines immediately surrounding a
// part's body: a leading run at the start and a trailing run at the end.
// Either may be empty. Each non-empty one is a run of whole lines, every
// line (blank ones included) terminated by "\n".
type TestCasePartComments struct {
	Start string
	End   string
}

// TestCase is one in-memory parsed case: the raw parts (parts[0] is the
// input; parts[1:] are expected-output text, parsed further by outputs
// for modes-aware runs) plus the comments attached to each part.
type TestCase struct {
	File      string
	StartLine int
	Parts     []string
	Comments  []TestCasePartComments
}

// SameAsPrevious is the sole content a two-part case's expected-output
// part may hold to request replay of the previous case's coalesced
// actual output (spec §4.4, §4.8).
const SameAsPrevious = "[SAME AS PREVIOUS]\n"
