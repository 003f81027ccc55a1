package caseopts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return New().
		Register("strict", Bool).
		Register("label", String).
		Register("retries", Int).
		Register("timeout", Duration)
}

func TestParseHead_BoolFlagAndNegation(t *testing.T) {
	p := newTestParser()
	rest, st := p.ParseHead("[strict] SELECT 1")
	require.True(t, st.OK())
	assert.Equal(t, "SELECT 1", rest)
	assert.True(t, p.Bool("strict"))
	assert.True(t, p.IsSet("strict"))

	p.ResetForNextCase()
	rest, st = p.ParseHead("[no_strict] SELECT 2")
	require.True(t, st.OK())
	assert.Equal(t, "SELECT 2", rest)
	assert.False(t, p.Bool("strict"))
}

func TestParseHead_KeyValueForms(t *testing.T) {
	p := newTestParser()
	rest, st := p.ParseHead("[label=foo][retries=3][timeout=250ms]body")
	require.True(t, st.OK())
	assert.Equal(t, "body", rest)
	assert.Equal(t, "foo", p.String("label"))
	assert.Equal(t, 3, p.Int("retries"))
	assert.Equal(t, 250*time.Millisecond, p.Duration("timeout"))
}

func TestParseHead_CaseInsensitiveKeyword(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[STRICT]x")
	require.True(t, st.OK())
	assert.True(t, p.Bool("strict"))
}

func TestParseHead_UnclosedBracketFails(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[strict")
	require.False(t, st.OK())
}

func TestParseHead_NestedBracketsBalance(t *testing.T) {
	p := newTestParser()
	rest, st := p.ParseHead("[label=a[b]c]rest")
	require.True(t, st.OK())
	assert.Equal(t, "rest", rest)
	assert.Equal(t, "a[b]c", p.String("label"))
}

func TestParseHead_UnknownKeywordErrors(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[strikt]x")
	require.False(t, st.OK())
	assert.Equal(t, "strikt", st.Context["keyword"])
}

func TestParseHead_BoolWithValueErrors(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[strict=true]x")
	require.False(t, st.OK())
}

func TestParseHead_StringNegatedErrors(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[no_label]x")
	require.False(t, st.OK())
}

func TestParseHead_IntBadValueErrors(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[retries=abc]x")
	require.False(t, st.OK())
}

func TestParseHead_DefaultPersistsAcrossCases(t *testing.T) {
	p := newTestParser()
	_, st := p.ParseHead("[default strict]x")
	require.True(t, st.OK())
	assert.True(t, p.Bool("strict"))

	p.ResetForNextCase()
	assert.True(t, p.Bool("strict"))
	assert.False(t, p.IsSet("strict"))
}

func TestParseHead_NoLeadingBracketLeavesInputUntouched(t *testing.T) {
	p := newTestParser()
	rest, st := p.ParseHead("SELECT 1")
	require.True(t, st.OK())
	assert.Equal(t, "SELECT 1", rest)
}
