package rediff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func lines(s ...string) [][]byte {
	out := make([][]byte, len(s))
	for i, v := range s {
		out[i] = []byte(v)
	}
	return out
}

func TestRun_Identical(t *testing.T) {
	left := lines("a", "b", "b2")
	right := lines("a", "b", "b2")

	chunks, st := Run(left, right, DefaultOptions())
	require.True(t, st.OK())
	if diff := cmp.Diff([]DiffChunk{{0, 3, 0, 3, Unchanged}}, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

// Grounded in the "replaced with context" scenario: a one-line block is
// replaced by a three-line block, surrounded by identical lines.
func TestRun_ReplacedWithContext(t *testing.T) {
	left := lines("d", "F", "d")
	right := lines("d", "a", "b", "b2", "d")

	chunks, st := Run(left, right, DefaultOptions())
	require.True(t, st.OK())

	want := []DiffChunk{
		{SourceFirst: 0, SourceLast: 1, FirstLine: 0, LastLine: 1, Kind: Unchanged},
		{SourceFirst: 1, SourceLast: 2, FirstLine: 1, LastLine: 4, Kind: Changed},
		{SourceFirst: 2, SourceLast: 3, FirstLine: 4, LastLine: 5, Kind: Unchanged},
	}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

// Grounded in the "missing trailing newline" scenario's line content
// (the newline handling itself is the unifieddiff printer's concern).
func TestRun_TrailingLineChanged(t *testing.T) {
	left := lines("d", "d")
	right := lines("d", "c")

	chunks, st := Run(left, right, DefaultOptions())
	require.True(t, st.OK())

	want := []DiffChunk{
		{SourceFirst: 0, SourceLast: 1, FirstLine: 0, LastLine: 1, Kind: Unchanged},
		{SourceFirst: 1, SourceLast: 2, FirstLine: 1, LastLine: 2, Kind: Changed},
	}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_PureInsert(t *testing.T) {
	left := lines("a", "b")
	right := lines("a", "x", "y", "b")

	chunks, st := Run(left, right, DefaultOptions())
	require.True(t, st.OK())

	want := []DiffChunk{
		{SourceFirst: 0, SourceLast: 1, FirstLine: 0, LastLine: 1, Kind: Unchanged},
		{SourceFirst: 1, SourceLast: 1, FirstLine: 1, LastLine: 3, Kind: Added},
		{SourceFirst: 1, SourceLast: 2, FirstLine: 3, LastLine: 4, Kind: Unchanged},
	}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_PureDelete(t *testing.T) {
	left := lines("a", "x", "y", "b")
	right := lines("a", "b")

	chunks, st := Run(left, right, DefaultOptions())
	require.True(t, st.OK())

	want := []DiffChunk{
		{SourceFirst: 0, SourceLast: 1, FirstLine: 0, LastLine: 1, Kind: Unchanged},
		{SourceFirst: 1, SourceLast: 3, FirstLine: 1, LastLine: 1, Kind: Removed},
		{SourceFirst: 3, SourceLast: 4, FirstLine: 1, LastLine: 2, Kind: Unchanged},
	}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

// A lone closing brace in the middle of otherwise unrelated lines is
// exactly the "boilerplate-looking match" the tolerance filter exists to
// reject: its line score (one punctuation byte) falls below any positive
// tolerance, so it must not survive as its own Unchanged island.
func TestRun_RejectsLowScoreMatch(t *testing.T) {
	left := lines("x := 1", "}", "y := 2")
	right := lines("a := 1", "}", "b := 2")

	opts := DefaultOptions()
	opts.Tolerance = 10

	chunks, st := Run(left, right, opts)
	require.True(t, st.OK())

	for _, c := range chunks {
		require.NotEqual(t, Unchanged, c.Kind, "the lone '}' match should have been rejected by the tolerance filter")
	}
	if diff := cmp.Diff([]DiffChunk{{0, 3, 0, 3, Changed}}, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_EmptyInputs(t *testing.T) {
	chunks, st := Run(nil, nil, DefaultOptions())
	require.True(t, st.OK())
	require.Empty(t, chunks)
}

func TestRun_IgnoreLineMarksIgnored(t *testing.T) {
	left := lines("a", "// generated", "b")
	right := lines("a", "// generated", "b")

	opts := DefaultOptions()
	opts.IgnoreLine = func(l []byte) bool { return string(l) == "// generated" }

	chunks, st := Run(left, right, opts)
	require.True(t, st.OK())

	require.Len(t, chunks, 3)
	require.Equal(t, Unchanged, chunks[0].Kind)
	require.Equal(t, Ignored, chunks[1].Kind)
	require.Equal(t, Unchanged, chunks[2].Kind)
}
