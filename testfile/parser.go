package testfile

import (
	"strings"

	"github.com/aledsdavies/filetestdriver/status"
)

// ParseFile splits raw file content into its sequence of TestCases, per
// spec §6.1: LF-terminated lines, a trailing LF on the file dropping the
// resulting empty final element.
func ParseFile(path string, content []byte) ([]TestCase, *status.Status) {
	lines := strings.Split(string(content), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var cases []TestCase
	pos := 0
	for pos < len(lines) {
		startLine := pos
		parts, comments, st := NextTestCase(lines, &pos)
		if !st.OK() {
			return nil, st.WithContext("file", path).WithContext("line", startLine+1)
		}
		cases = append(cases, TestCase{File: path, StartLine: startLine, Parts: parts, Comments: comments})
	}
	return cases, ok()
}

func ok() *status.Status { return &status.Status{Code: status.Ok} }

// NextTestCase consumes one case starting at *pos, advancing *pos past
// its trailing `==` separator (if the file has more cases after it).
func NextTestCase(lines []string, pos *int) ([]string, []TestCasePartComments, *status.Status) {
	var parts []string
	var comments []TestCasePartComments

	for {
		body, cmt, hitCaseSep, st := parsePart(lines, pos, len(parts))
		if !st.OK() {
			return nil, nil, st
		}
		parts = append(parts, body)
		comments = append(comments, cmt)
		if hitCaseSep || *pos >= len(lines) {
			return parts, comments, ok()
		}
		// Otherwise a `--` part separator was consumed; loop for the next part.
	}
}

// parsePart consumes lines from *pos until a part separator, a case
// separator, or EOF. It classifies each line as leading comment, body, or
// (once body has started) a candidate trailing comment; a trailing
// comment candidate that turns out not to be trailing (more body follows)
// is folded back into the body for the first part of a case, and is an
// error for any later part, per spec §4.4.
func parsePart(lines []string, pos *int, partIndex int) (body string, comments TestCasePartComments, hitCaseSep bool, st *status.Status) {
	var leading, bodyLines, trailing []string
	inLeading := true

	for *pos < len(lines) {
		raw := lines[*pos]

		if isCaseSeparator(raw) {
			*pos++
			return joinLines(bodyLines), TestCasePartComments{Start: joinLines(leading), End: joinLines(trailing)}, true, ok()
		}
		if isPartSeparator(raw) {
			*pos++
			return joinLines(bodyLines), TestCasePartComments{Start: joinLines(leading), End: joinLines(trailing)}, false, ok()
		}

		*pos++
		unescaped, forcedBody := unescapeLine(raw)
		isCommentLine := !forcedBody && (unescaped == "" || strings.HasPrefix(unescaped, "#"))

		switch {
		case isCommentLine && inLeading:
			leading = append(leading, unescaped)
		case isCommentLine:
			trailing = append(trailing, unescaped)
		default:
			if len(trailing) > 0 {
				if partIndex > 0 {
					return "", TestCasePartComments{}, false, status.InvalidArgumentf(
						"part %d: non-blank body follows a trailing comment block", partIndex)
				}
				bodyLines = append(bodyLines, trailing...)
				trailing = nil
			}
			inLeading = false
			bodyLines = append(bodyLines, unescaped)
		}
	}

	return joinLines(bodyLines), TestCasePartComments{Start: joinLines(leading), End: joinLines(trailing)}, false, ok()
}

func isCaseSeparator(line string) bool {
	return matchesSeparator(line, "==")
}

func isPartSeparator(line string) bool {
	return matchesSeparator(line, "--")
}

func matchesSeparator(line, marker string) bool {
	if !strings.HasPrefix(line, marker) {
		return false
	}
	return strings.TrimRight(line[len(marker):], " \t") == ""
}

// unescapeLine strips exactly one leading backslash, if present, and
// reports that the line must be treated as a literal body line
// regardless of what it looks like afterwards (spec §4.4, §6.1).
func unescapeLine(raw string) (unescaped string, forcedBody bool) {
	if strings.HasPrefix(raw, "\\") {
		return raw[1:], true
	}
	return raw, false
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
