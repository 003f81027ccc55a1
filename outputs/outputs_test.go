package outputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SimpleAllModes(t *testing.T) {
	o := New()
	st := o.Record("", "", "hello")
	require.True(t, st.OK())
	text, exists := o.Text("", "")
	require.True(t, exists)
	assert.Equal(t, "hello\n", text)
}

func TestRecord_DuplicateFails(t *testing.T) {
	o := New()
	require.True(t, o.Record("", "result", "a").OK())
	st := o.Record("", "result", "b")
	assert.False(t, st.OK())
}

func TestRecord_ModeNotInPossibleModesFails(t *testing.T) {
	o := New()
	o.SetPossibleModes([]string{"FAST", "SLOW"})
	st := o.Record("MEDIUM", "result", "x")
	assert.False(t, st.OK())
}

func TestRecord_AllModesConflictsWithModeSpecific(t *testing.T) {
	o := New()
	require.True(t, o.Record("FAST", "result", "x").OK())
	st := o.Record("", "result", "y")
	assert.False(t, st.OK())

	o2 := New()
	require.True(t, o2.Record("", "result", "x").OK())
	st2 := o2.Record("FAST", "result", "y")
	assert.False(t, st2.OK())
}

func TestBreakOut_ReplicatesAllModesEntry(t *testing.T) {
	o := New()
	require.True(t, o.Record("", "result", "x").OK())
	o.BreakOut([]string{"FAST", "SLOW"})

	_, hasAll := o.Text("", "result")
	assert.False(t, hasAll)
	fast, ok := o.Text("FAST", "result")
	require.True(t, ok)
	assert.Equal(t, "x\n", fast)
	slow, ok := o.Text("SLOW", "result")
	require.True(t, ok)
	assert.Equal(t, "x\n", slow)
}

func TestRegenerateAllModes_CollapsesIdenticalText(t *testing.T) {
	o := New()
	require.True(t, o.Record("FAST", "result", "same").OK())
	require.True(t, o.Record("SLOW", "result", "same").OK())

	o.RegenerateAllModes([]string{"FAST", "SLOW"})

	text, ok := o.Text("", "result")
	require.True(t, ok)
	assert.Equal(t, "same\n", text)
	_, hadFast := o.Text("FAST", "result")
	assert.False(t, hadFast)
}

func TestRegenerateAllModes_LeavesDivergentTextAlone(t *testing.T) {
	o := New()
	require.True(t, o.Record("FAST", "result", "a").OK())
	require.True(t, o.Record("SLOW", "result", "b").OK())

	o.RegenerateAllModes([]string{"FAST", "SLOW"})

	_, hasAll := o.Text("", "result")
	assert.False(t, hasAll)
	fast, _ := o.Text("FAST", "result")
	assert.Equal(t, "a\n", fast)
}

func TestMerge_NoActualEntriesReturnsExpectedAsIs(t *testing.T) {
	expected := New()
	require.True(t, expected.Record("", "result", "unchanged").OK())

	merged, st := Merge(expected, []*TestCaseOutputs{New()})
	require.True(t, st.OK())
	text, ok := merged.Text("", "result")
	require.True(t, ok)
	assert.Equal(t, "unchanged\n", text)
}

func TestMerge_OverwritesPerMode(t *testing.T) {
	expected := New()
	require.True(t, expected.Record("", "result", "old").OK())

	fast := New()
	require.True(t, fast.Record("FAST", "result", "new-fast").OK())
	slow := New()
	require.True(t, slow.Record("SLOW", "result", "new-slow").OK())

	merged, st := Merge(expected, []*TestCaseOutputs{fast, slow})
	require.True(t, st.OK())

	got, ok := merged.Text("FAST", "result")
	require.True(t, ok)
	assert.Equal(t, "new-fast\n", got)
	got, ok = merged.Text("SLOW", "result")
	require.True(t, ok)
	assert.Equal(t, "new-slow\n", got)
}

func TestMerge_ClearsBrokenOutRowForModeTheActualNeverTouches(t *testing.T) {
	expected := New()
	require.True(t, expected.Record("", "", "main test output").OK())
	require.True(t, expected.Record("MODE2", "TYPE A", "another output").OK())

	mode1 := New()
	require.True(t, mode1.Record("MODE1", "", "main test output").OK())
	mode2 := New()
	require.True(t, mode2.Record("MODE2", "TYPE A", "another output").OK())

	merged, st := Merge(expected, []*TestCaseOutputs{mode1, mode2})
	require.True(t, st.OK())

	text, ok := merged.Text("MODE1", "")
	require.True(t, ok)
	assert.Equal(t, "main test output\n", text)

	_, hasDefault := merged.Text("MODE2", "")
	assert.False(t, hasDefault, "MODE2 must not keep the all-modes row BreakOut created for it")

	text, ok = merged.Text("MODE2", "TYPE A")
	require.True(t, ok)
	assert.Equal(t, "another output\n", text)

	parts := merged.GetCombinedOutputs(false)
	assert.Equal(t, []string{"<>[MODE1]\nmain test output\n", "<TYPE A>[MODE2]\nanother output\n"}, parts)
}

func TestMerge_RegeneratesAllModesWhenActualsAgree(t *testing.T) {
	expected := New()
	require.True(t, expected.Record("", "result", "old").OK())

	fast := New()
	require.True(t, fast.Record("FAST", "result", "same").OK())
	slow := New()
	require.True(t, slow.Record("SLOW", "result", "same").OK())

	merged, st := Merge(expected, []*TestCaseOutputs{fast, slow})
	require.True(t, st.OK())

	text, ok := merged.Text("", "result")
	require.True(t, ok)
	assert.Equal(t, "same\n", text)
}

func TestMerge_PossibleModesMismatchFails(t *testing.T) {
	expected := New()
	a := New()
	a.SetPossibleModes([]string{"FAST"})
	require.True(t, a.Record("FAST", "result", "x").OK())
	b := New()
	b.SetPossibleModes([]string{"SLOW"})
	require.True(t, b.Record("SLOW", "result", "y").OK())

	_, st := Merge(expected, []*TestCaseOutputs{a, b})
	assert.False(t, st.OK())
}

func TestMerge_RejectsAllModesActual(t *testing.T) {
	expected := New()
	bad := New()
	require.True(t, bad.Record("", "result", "x").OK())

	_, st := Merge(expected, []*TestCaseOutputs{bad})
	assert.False(t, st.OK())
}

func TestGetCombinedOutputs_BareTextNoHeader(t *testing.T) {
	o := New()
	require.True(t, o.Record("", "", "hello").OK())
	parts := o.GetCombinedOutputs(false)
	require.Len(t, parts, 1)
	assert.Equal(t, "hello\n", parts[0])
}

func TestGetCombinedOutputs_HeaderForNamedResultType(t *testing.T) {
	o := New()
	require.True(t, o.Record("", "error", "boom").OK())
	parts := o.GetCombinedOutputs(false)
	require.Len(t, parts, 1)
	assert.Equal(t, "<error>\nboom\n", parts[0])
}

func TestGetCombinedOutputs_GroupsModesSharingText(t *testing.T) {
	o := New()
	require.True(t, o.Record("FAST", "result", "x").OK())
	require.True(t, o.Record("SLOW", "result", "x").OK())
	parts := o.GetCombinedOutputs(false)
	require.Len(t, parts, 1)
	assert.Equal(t, "<result>[FAST][SLOW]\nx\n", parts[0])
}

func TestGetCombinedOutputs_IncludesPossibleModesHeader(t *testing.T) {
	o := New()
	o.SetPossibleModes([]string{"FAST", "SLOW"})
	require.True(t, o.Record("FAST", "result", "x").OK())
	require.True(t, o.Record("SLOW", "result", "y").OK())
	parts := o.GetCombinedOutputs(true)
	require.Len(t, parts, 3)
	assert.Equal(t, "Possible Modes: [FAST][SLOW]\n", parts[0])
}

func TestParseExpectedPart_PlainText(t *testing.T) {
	p, st := ParseExpectedPart("just text\nmore text\n")
	require.True(t, st.OK())
	assert.Equal(t, "", p.ResultType)
	assert.Nil(t, p.Modes)
	assert.Equal(t, "just text\nmore text\n", p.Text)
}

func TestParseExpectedPart_ResultTypeAndModes(t *testing.T) {
	p, st := ParseExpectedPart("<error>[FAST][SLOW]\nboom\n")
	require.True(t, st.OK())
	assert.Equal(t, "error", p.ResultType)
	assert.Equal(t, []string{"FAST", "SLOW"}, p.Modes)
	assert.Equal(t, "boom\n", p.Text)
}

func TestParseExpectedPart_ResultTypeOnly(t *testing.T) {
	p, st := ParseExpectedPart("<error>\nboom\n")
	require.True(t, st.OK())
	assert.Equal(t, "error", p.ResultType)
	assert.Nil(t, p.Modes)
}

func TestParseExpectedPart_PossibleModesLine(t *testing.T) {
	p, st := ParseExpectedPart("Possible Modes: [FAST][SLOW]\n")
	require.True(t, st.OK())
	require.True(t, p.IsPossibleModes)
	assert.Equal(t, []string{"FAST", "SLOW"}, p.PossibleModes)
}

func TestParseExpectedPart_UnclosedBracketFails(t *testing.T) {
	_, st := ParseExpectedPart("<error>[FAST\nboom\n")
	assert.False(t, st.OK())
}

func TestRecordPart_FansOutAcrossModes(t *testing.T) {
	o := New()
	require.True(t, o.RecordPart("<result>[FAST][SLOW]\nshared\n").OK())
	fast, ok := o.Text("FAST", "result")
	require.True(t, ok)
	assert.Equal(t, "shared\n", fast)
	slow, ok := o.Text("SLOW", "result")
	require.True(t, ok)
	assert.Equal(t, "shared\n", slow)
}
