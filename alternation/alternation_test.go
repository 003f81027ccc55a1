package alternation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/filetestdriver/outputs"
)

func TestExpand_NoAlternationYieldsSingleEmptyLabel(t *testing.T) {
	exps := Expand("SELECT 1")
	require.Len(t, exps, 1)
	assert.Equal(t, "SELECT 1", exps[0].Text)
	assert.Equal(t, "", exps[0].Label)
}

func TestExpand_SingleAlternationCartesianProduct(t *testing.T) {
	exps := Expand("SELECT {{a|b}}")
	require.Len(t, exps, 2)
	assert.Equal(t, "SELECT a", exps[0].Text)
	assert.Equal(t, "a", exps[0].Label)
	assert.Equal(t, "SELECT b", exps[1].Text)
	assert.Equal(t, "b", exps[1].Label)
}

func TestExpand_TwoAlternationsLeftmostVariesSlowest(t *testing.T) {
	exps := Expand("{{1|2}}-{{x|y}}")
	require.Len(t, exps, 4)
	want := []string{"1-x", "1-y", "2-x", "2-y"}
	for i, w := range want {
		assert.Equal(t, w, exps[i].Text)
	}
}

func TestExpand_EmptyOptionAllowed(t *testing.T) {
	exps := Expand("a{{|b}}c")
	require.Len(t, exps, 2)
	assert.Equal(t, "ac", exps[0].Text)
	assert.Equal(t, "abc", exps[1].Text)
}

func TestExpand_CrossNewlineLeftLiteral(t *testing.T) {
	exps := Expand("{{a\n|b}}")
	require.Len(t, exps, 1)
	assert.Equal(t, "{{a\n|b}}", exps[0].Text)
}

func TestCoalesce_AllEqualEmittedDirectly(t *testing.T) {
	results := []CaseResult{{Label: "a", Result: "same\n"}, {Label: "b", Result: "same\n"}}
	assert.Equal(t, "same\n", Coalesce(results))
}

func TestCoalesce_GroupsByResultWithHeaders(t *testing.T) {
	results := []CaseResult{
		{Label: "a", Result: "one\n"},
		{Label: "b", Result: "two\n"},
		{Label: "c", Result: "one\n"},
	}
	want := "ALTERNATION GROUPS:\n    a\n    c\none\n--\nALTERNATION GROUP: b\ntwo\n"
	assert.Equal(t, want, Coalesce(results))
}

func TestCoalesce_EmptyLabelDisplaysAsEmpty(t *testing.T) {
	results := []CaseResult{{Label: "", Result: "one\n"}, {Label: "x", Result: "two\n"}}
	out := Coalesce(results)
	assert.Contains(t, out, "ALTERNATION GROUP: <empty>\n")
}

func TestCoalesceModes_AgreeingLabelsCollapseToOneEntry(t *testing.T) {
	a := outputs.New()
	require.True(t, a.Record("FAST", "result", "same").OK())
	b := outputs.New()
	require.True(t, b.Record("FAST", "result", "same").OK())

	merged, st := CoalesceModes([]ModesCaseResult{{Label: "x", Outputs: a}, {Label: "y", Outputs: b}})
	require.True(t, st.OK())
	text, exists := merged.Text("FAST", "result")
	require.True(t, exists)
	assert.Equal(t, "same\n", text)
}

func TestCoalesceModes_DivergingLabelsGetBracesSuffix(t *testing.T) {
	a := outputs.New()
	require.True(t, a.Record("FAST", "result", "alpha").OK())
	b := outputs.New()
	require.True(t, b.Record("FAST", "result", "beta").OK())

	merged, st := CoalesceModes([]ModesCaseResult{{Label: "x", Outputs: a}, {Label: "y", Outputs: b}})
	require.True(t, st.OK())

	alpha, exists := merged.Text("FAST", "result{x}")
	require.True(t, exists)
	assert.Equal(t, "alpha\n", alpha)
	beta, exists := merged.Text("FAST", "result{y}")
	require.True(t, exists)
	assert.Equal(t, "beta\n", beta)
}

func TestCoalesceModes_PossibleModesMismatchFails(t *testing.T) {
	a := outputs.New()
	a.SetPossibleModes([]string{"FAST"})
	b := outputs.New()
	b.SetPossibleModes([]string{"SLOW"})

	_, st := CoalesceModes([]ModesCaseResult{{Label: "x", Outputs: a}, {Label: "y", Outputs: b}})
	assert.False(t, st.OK())
}

func TestCoalesceModes_RejectsForbiddenLabelCharacters(t *testing.T) {
	a := outputs.New()
	require.True(t, a.Record("", "result", "x").OK())
	_, st := CoalesceModes([]ModesCaseResult{{Label: "has{brace}", Outputs: a}})
	assert.False(t, st.OK())
}
