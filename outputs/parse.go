package outputs

import (
	"strings"

	"github.com/aledsdavies/filetestdriver/status"
)

// ParsedPart is the result of parsing one expected-output test-file part
// per spec §4.7/§6.1: either a possible_modes declaration, or a single
// (resultType, modes, text) triple ready for Record.
type ParsedPart struct {
	IsPossibleModes bool
	PossibleModes   []string

	ResultType string
	Modes      []string
	Text       string
}

const possibleModesPrefix = "Possible Modes: "

// ParseExpectedPart parses one expected-output part's body, per spec
// §4.7: a `Possible Modes: ` line, or a first line of the form
// `<RESULT_TYPE>[MODE1][MODE2]…`, `<RESULT_TYPE>`, `[MODE…]`, or nothing,
// followed by the output text.
func ParseExpectedPart(body string) (ParsedPart, *status.Status) {
	firstLine, rest := splitFirstLine(body)

	if strings.HasPrefix(firstLine, possibleModesPrefix) {
		modes, st := parseModeTokens(strings.TrimPrefix(firstLine, possibleModesPrefix))
		if !st.OK() {
			return ParsedPart{}, st
		}
		return ParsedPart{IsPossibleModes: true, PossibleModes: modes}, ok()
	}

	if !strings.HasPrefix(firstLine, "<") && !strings.HasPrefix(firstLine, "[") {
		return ParsedPart{Text: body}, ok()
	}

	resultType, modes, st := parseHeaderLine(firstLine)
	if !st.OK() {
		return ParsedPart{}, st
	}
	return ParsedPart{ResultType: resultType, Modes: modes, Text: rest}, ok()
}

// parseHeaderLine parses a line already known to start with `<` or `[`
// into its result type (possibly empty) and mode list.
func parseHeaderLine(line string) (resultType string, modes []string, st *status.Status) {
	rest := line
	hasResultType := false
	if strings.HasPrefix(rest, "<") {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return "", nil, status.InvalidArgumentf("outputs: unclosed '<' in output header %q", line)
		}
		resultType = rest[1:end]
		rest = rest[end+1:]
		hasResultType = true
	}

	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, status.InvalidArgumentf("outputs: unclosed '[' in output header %q", line)
		}
		token := rest[1:end]
		if st := validateModeToken(token); !st.OK() {
			return "", nil, st
		}
		modes = append(modes, token)
		rest = rest[end+1:]
	}

	if rest != "" {
		return "", nil, status.InvalidArgumentf("outputs: trailing content %q after output header", rest)
	}
	if !hasResultType && len(modes) == 0 {
		return "", nil, status.InvalidArgumentf("outputs: empty output header %q", line)
	}
	return resultType, modes, ok()
}

func parseModeTokens(s string) ([]string, *status.Status) {
	var modes []string
	for strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, status.InvalidArgumentf("outputs: unclosed '[' in possible modes line")
		}
		token := s[1:end]
		if st := validateModeToken(token); !st.OK() {
			return nil, st
		}
		modes = append(modes, token)
		s = s[end+1:]
	}
	if s != "" {
		return nil, status.InvalidArgumentf("outputs: trailing content %q after possible modes list", s)
	}
	if len(modes) == 0 {
		return nil, status.InvalidArgumentf("outputs: possible modes line declares no modes")
	}
	return modes, ok()
}

func validateModeToken(token string) *status.Status {
	if token == "" {
		return status.InvalidArgumentf("outputs: empty mode name")
	}
	if strings.ContainsAny(token, "\t*") {
		return status.InvalidArgumentf("outputs: mode name %q may not contain a tab or '*'", token)
	}
	return ok()
}

func splitFirstLine(body string) (first, rest string) {
	idx := strings.IndexByte(body, '\n')
	if idx < 0 {
		return body, ""
	}
	return body[:idx], body[idx+1:]
}
