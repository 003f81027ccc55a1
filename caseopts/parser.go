package caseopts

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/filetestdriver/status"
)

// Parser holds the registered keyword table plus the defaults and
// per-case values of one test file's worth of cases. Defaults persist
// across cases within one Parser instance; ResetForNextCase restores the
// current values to the defaults and clears IsSetExplicitly, per spec §4.5.
type Parser struct {
	kinds    map[string]Kind
	keywords []string // registration order, original case, for suggestions
	defaults map[string]Value
	current  map[string]Value
}

// New returns a Parser with no registered keywords.
func New() *Parser {
	return &Parser{
		kinds:    make(map[string]Kind),
		defaults: make(map[string]Value),
		current:  make(map[string]Value),
	}
}

// Register declares a keyword and its kind, with a zero-value default.
// Panics if name is already registered, since this is a programming error
// at setup time, not a parse-time failure.
func (p *Parser) Register(name string, kind Kind) *Parser {
	key := strings.ToLower(name)
	if _, exists := p.kinds[key]; exists {
		panic("caseopts: keyword " + name + " already registered")
	}
	p.kinds[key] = kind
	p.keywords = append(p.keywords, name)
	p.defaults[key] = Value{Kind: kind}
	p.current[key] = Value{Kind: kind}
	return p
}

// ResetForNextCase restores every keyword to its current default and
// clears IsSetExplicitly, the reset spec §4.5 requires between cases.
func (p *Parser) ResetForNextCase() {
	for key, def := range p.defaults {
		v := def
		v.IsSetExplicitly = false
		p.current[key] = v
	}
}

// Get returns the current value of a registered keyword, or the zero
// Value if name was never registered.
func (p *Parser) Get(name string) Value {
	return p.current[strings.ToLower(name)]
}

func (p *Parser) Bool(name string) bool             { return p.Get(name).Bool }
func (p *Parser) String(name string) string         { return p.Get(name).String }
func (p *Parser) Int(name string) int                { return p.Get(name).Int }
func (p *Parser) Duration(name string) time.Duration { return p.Get(name).Duration }
func (p *Parser) IsSet(name string) bool             { return p.Get(name).IsSetExplicitly }

// ParseHead consumes every leading `[...]` option from input, in order,
// and returns the remainder of the input with those options (and any
// whitespace immediately preceding them) stripped. Per spec §4.5, each
// bracket is matched by nesting depth, and its content is one of
// `[default K[=V]]`, `[K]`, `[no_K]`, or `[K=V]`.
func (p *Parser) ParseHead(input string) (rest string, st *status.Status) {
	for {
		trimmed := strings.TrimLeft(input, " \t\r\n\v\f")
		if !strings.HasPrefix(trimmed, "[") {
			return trimmed, ok()
		}

		end, found := matchBracket(trimmed)
		if !found {
			return "", status.InvalidArgumentf("caseopts: unclosed '[' in case options")
		}

		content := trimmed[1:end]
		input = trimmed[end+1:]

		if st := p.applyBracket(content); !st.OK() {
			return "", st
		}
	}
}

// matchBracket finds the index of the ']' matching the '[' at s[0],
// counting nested brackets. found is false if s doesn't start with '['
// or no matching ']' exists.
func matchBracket(s string) (end int, found bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (p *Parser) applyBracket(content string) (st *status.Status) {
	c := trimASCIISpace(content)

	isDefault := false
	if after, matched := stripKeywordPrefix(c, "default"); matched {
		isDefault = true
		c = trimASCIISpace(after)
	}

	key, value, hasValue := splitKeyValue(c)
	negate := false
	lookupKey := key
	if lower := strings.ToLower(key); strings.HasPrefix(lower, "no_") {
		negate = true
		lookupKey = key[len("no_"):]
	}

	kind, exists := p.kinds[strings.ToLower(lookupKey)]
	if !exists {
		return status.Unknownf("caseopts: unknown option %q%s", key, suggestSuffix(key, p.keywords)).
			WithContext("keyword", key)
	}

	if isDefault {
		// A new default also applies to the case it appears in.
		lk := strings.ToLower(lookupKey)
		defer func() {
			if st.OK() {
				p.current[lk] = p.defaults[lk]
			}
		}()
	}

	switch kind {
	case Bool:
		if hasValue {
			return status.InvalidArgumentf("caseopts: boolean option %q may not take a value", lookupKey)
		}
		return p.setBool(lookupKey, kind, !negate, isDefault)

	case String:
		if negate {
			return status.InvalidArgumentf("caseopts: string option %q cannot be negated with no_", lookupKey)
		}
		if !hasValue {
			return status.InvalidArgumentf("caseopts: string option %q requires a value", lookupKey)
		}
		return p.setString(lookupKey, kind, value, isDefault)

	case Int:
		if negate {
			return status.InvalidArgumentf("caseopts: int option %q cannot be negated with no_", lookupKey)
		}
		if !hasValue {
			return status.InvalidArgumentf("caseopts: int option %q requires a value", lookupKey)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return status.InvalidArgumentf("caseopts: int option %q has invalid value %q", lookupKey, value)
		}
		return p.setInt(lookupKey, kind, n, isDefault)

	case Duration:
		if negate {
			return status.InvalidArgumentf("caseopts: duration option %q cannot be negated with no_", lookupKey)
		}
		if !hasValue {
			return status.InvalidArgumentf("caseopts: duration option %q requires a value", lookupKey)
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return status.InvalidArgumentf("caseopts: duration option %q has invalid value %q", lookupKey, value)
		}
		return p.setDuration(lookupKey, kind, d, isDefault)
	}
	return status.Internalf("caseopts: unreachable kind %v", kind)
}

func (p *Parser) setBool(key string, kind Kind, v, isDefault bool) *status.Status {
	lk := strings.ToLower(key)
	if isDefault {
		p.defaults[lk] = Value{Kind: kind, Bool: v}
		return ok()
	}
	p.current[lk] = Value{Kind: kind, Bool: v, IsSetExplicitly: true}
	return ok()
}

func (p *Parser) setString(key string, kind Kind, v string, isDefault bool) *status.Status {
	lk := strings.ToLower(key)
	if isDefault {
		p.defaults[lk] = Value{Kind: kind, String: v}
		return ok()
	}
	p.current[lk] = Value{Kind: kind, String: v, IsSetExplicitly: true}
	return ok()
}

func (p *Parser) setInt(key string, kind Kind, v int, isDefault bool) *status.Status {
	lk := strings.ToLower(key)
	if isDefault {
		p.defaults[lk] = Value{Kind: kind, Int: v}
		return ok()
	}
	p.current[lk] = Value{Kind: kind, Int: v, IsSetExplicitly: true}
	return ok()
}

func (p *Parser) setDuration(key string, kind Kind, v time.Duration, isDefault bool) *status.Status {
	lk := strings.ToLower(key)
	if isDefault {
		p.defaults[lk] = Value{Kind: kind, Duration: v}
		return ok()
	}
	p.current[lk] = Value{Kind: kind, Duration: v, IsSetExplicitly: true}
	return ok()
}

// stripKeywordPrefix reports whether s starts with the case-insensitive
// keyword followed by ASCII whitespace (or is exactly the keyword), and
// returns what follows it.
func stripKeywordPrefix(s, keyword string) (rest string, matched bool) {
	if len(s) < len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
		return "", false
	}
	after := s[len(keyword):]
	if after == "" {
		return "", false // "default" alone has nothing left to set a default on
	}
	if !isASCIISpace(after[0]) {
		return "", false
	}
	return after, true
}

// splitKeyValue splits "K" or "K=V" at the first '=', ASCII-trimming both
// sides.
func splitKeyValue(s string) (key, value string, hasValue bool) {
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		return trimASCIISpace(s[:idx]), trimASCIISpace(s[idx+1:]), true
	}
	return trimASCIISpace(s), "", false
}

func suggestSuffix(key string, keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindNormalizedFold(key, keywords)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return " (did you mean " + strconv.Quote(ranks[0].Target) + "?)"
}

func trimASCIISpace(s string) string {
	return strings.Trim(s, " \t\r\n\v\f")
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func ok() *status.Status { return &status.Status{Code: status.Ok} }
