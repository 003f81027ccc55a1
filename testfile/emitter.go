package testfile

import "strings"

// BuildTestFileEntry is the left-inverse of NextTestCase up to escape
// normalization (spec §4.4): it re-renders one case's parts and comments
// back into the on-disk grammar, escaping any line that would otherwise
// be misread as a separator, comment marker, or blank boundary line.
func BuildTestFileEntry(parts []string, comments []TestCasePartComments) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteString("--\n")
		}
		var c TestCasePartComments
		if i < len(comments) {
			c = comments[i]
		}
		b.WriteString(renderPart(part, c, i))
	}
	for i := len(parts); i < len(comments); i++ {
		b.WriteString("--\n")
		b.WriteString(renderExtraComment(comments[i]))
	}
	return b.String()
}

// BuildTestFile joins a sequence of cases with the `==` case separator,
// the file-level counterpart of BuildTestFileEntry.
func BuildTestFile(cases []TestCase) string {
	var b strings.Builder
	for i, c := range cases {
		if i > 0 {
			b.WriteString("==\n")
		}
		b.WriteString(BuildTestFileEntry(c.Parts, c.Comments))
	}
	return b.String()
}

// renderPart re-assembles one part: the leading and trailing comment
// blocks are already valid comment syntax and render verbatim, while the
// body is re-escaped so it survives re-parsing as body text rather than
// being swallowed into a neighboring comment block. A body line needs
// escaping for `--`/`==`/a leading backslash regardless of position, but
// needs it for a leading `#` or being blank only at its own first/last
// line (the position where absorption into a comment block would not be
// undone) — except in an output part (index > 0), where every body line
// gets the `#`-escape, since an output part's grammar has no flush-back
// for a comment-candidate followed by more body (spec §4.4).
func renderPart(body string, comments TestCasePartComments, partIndex int) string {
	var b strings.Builder
	b.WriteString(comments.Start)

	bodyLines := splitNonEmpty(body)
	hashEverywhere := partIndex > 0
	for i, line := range bodyLines {
		isBoundary := i == 0 || i == len(bodyLines)-1
		b.WriteString(escapeLine(line, hashEverywhere, isBoundary))
		b.WriteByte('\n')
	}

	b.WriteString(comments.End)
	return b.String()
}

func renderExtraComment(c TestCasePartComments) string {
	var b strings.Builder
	if c.Start != "" {
		b.WriteString("# COMMENT FROM MISSING PART\n")
		for _, line := range splitNonEmpty(c.Start) {
			b.WriteString(escapeLine(line, true, false))
			b.WriteByte('\n')
		}
	}
	if c.End != "" {
		b.WriteString("# POST-COMMENT FROM MISSING PART\n")
		for _, line := range splitNonEmpty(c.End) {
			b.WriteString(escapeLine(line, true, false))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// escapeLine applies the single-line escape rules: a leading backslash,
// `--`, or `==` is always escaped; a leading `#` is escaped when
// hashEverywhere is set or this is a part-boundary line; an empty
// boundary line becomes a lone backslash (so re-parsing strips it back to
// empty).
func escapeLine(line string, hashEverywhere, isBoundary bool) string {
	if isBoundary && line == "" {
		return "\\"
	}
	switch {
	case strings.HasPrefix(line, "\\"):
		return "\\" + line
	case strings.HasPrefix(line, "--"):
		return "\\" + line
	case strings.HasPrefix(line, "=="):
		return "\\" + line
	case strings.HasPrefix(line, "#") && (hashEverywhere || isBoundary):
		return "\\" + line
	default:
		return line
	}
}
