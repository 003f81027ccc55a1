package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	failures map[string]string
}

func newFakeSink() *fakeSink { return &fakeSink{failures: map[string]string{}} }

func (f *fakeSink) Fail(testName, message string) { f.failures[testName] = message }

func echoCallback(input string, result *RunTestCaseResult) {
	result.AddTestOutput(input)
}

func TestRunFile_BaselineRoundTripOnMatch(t *testing.T) {
	r := NewRunner(NewConfig(), newFakeSink())
	content := []byte("select 1\n--\nselect 1\n")

	res, st := r.RunFile("t.test", content, echoCallback)
	require.True(t, st.OK())
	assert.False(t, res.Failed)
	assert.Equal(t, content, []byte(res.Regenerated))
}

func TestRunFile_MismatchReportsFailureAndRegeneratesActual(t *testing.T) {
	sink := newFakeSink()
	r := NewRunner(NewConfig(WithGenerateActualFile()), sink)
	content := []byte("select 1\n--\nwrong\n")

	res, st := r.RunFile("t.test", content, echoCallback)
	require.True(t, st.OK())
	assert.True(t, res.Failed)
	assert.Equal(t, "select 1\n--\nselect 1\n", res.Regenerated)
	assert.NotEmpty(t, res.Actual)
	assert.Len(t, sink.failures, 1)
}

func TestRunFile_SameAsPreviousReplay(t *testing.T) {
	r := NewRunner(NewConfig(), newFakeSink())
	content := []byte("select 1\n--\nselect 1\n==\nselect 1\n--\n[SAME AS PREVIOUS]\n")

	res, st := r.RunFile("t.test", content, echoCallback)
	require.True(t, st.OK())
	assert.False(t, res.Failed)
	assert.Equal(t, content, []byte(res.Regenerated))
}

func TestRunFile_SameAsPreviousMismatchFails(t *testing.T) {
	r := NewRunner(NewConfig(), newFakeSink())
	content := []byte("select 1\n--\nselect 1\n==\nselect 2\n--\n[SAME AS PREVIOUS]\n")

	res, st := r.RunFile("t.test", content, echoCallback)
	require.True(t, st.OK())
	assert.True(t, res.Failed)
}

func TestRunFile_IgnoreRegexScrubsDiff(t *testing.T) {
	r := NewRunner(NewConfig(WithIgnoreRegex(`\d+`)), newFakeSink())
	content := []byte("q\n--\nran in 12ms\n")

	res, st := r.RunFile("t.test", content, func(input string, result *RunTestCaseResult) {
		result.AddTestOutput("ran in 99ms\n")
	})
	require.True(t, st.OK())
	assert.False(t, res.Failed)
}

func TestRunFile_EmptyInputNoExpectedIsSkipped(t *testing.T) {
	called := false
	r := NewRunner(NewConfig(), newFakeSink())
	content := []byte("\n")

	res, st := r.RunFile("t.test", content, func(input string, result *RunTestCaseResult) {
		called = true
	})
	require.True(t, st.OK())
	assert.False(t, res.Failed)
	assert.False(t, called)
}

func TestRunFile_NoExpectedOutputAlwaysMatches(t *testing.T) {
	r := NewRunner(NewConfig(), newFakeSink())
	content := []byte("select 1\n")

	res, st := r.RunFile("t.test", content, echoCallback)
	require.True(t, st.OK())
	assert.False(t, res.Failed)
}

func TestShardFiles_DeterministicPartition(t *testing.T) {
	files := []string{"c.test", "a.test", "b.test", "d.test"}

	var all []string
	for shard := 0; shard < 2; shard++ {
		all = append(all, ShardFiles(files, shard, 2)...)
	}
	assert.ElementsMatch(t, files, all)
	assert.Equal(t, []string{"a.test", "c.test"}, ShardFiles(files, 0, 2))
	assert.Equal(t, []string{"b.test", "d.test"}, ShardFiles(files, 1, 2))
}

func TestCache_UnchangedAfterRecord(t *testing.T) {
	c := NewCache()
	hash := HashContent([]byte("select 1\n"))

	assert.False(t, c.Unchanged("t.test", hash))
	c.Record("t.test", hash, true)
	assert.True(t, c.Unchanged("t.test", hash))

	otherHash := HashContent([]byte("select 2\n"))
	assert.False(t, c.Unchanged("t.test", otherHash))
}

func TestCache_FailedRunIsNeverUnchanged(t *testing.T) {
	c := NewCache()
	hash := HashContent([]byte("select 1\n"))
	c.Record("t.test", hash, false)
	assert.False(t, c.Unchanged("t.test", hash))
}

func TestEnforceLeadingBlankLines_PrependsWhenShort(t *testing.T) {
	enforced, failed := enforceLeadingBlankLines("comment\n", 2)
	assert.True(t, failed)
	assert.Equal(t, "\n\ncomment\n", enforced)
}

func TestEnforceLeadingBlankLines_SatisfiedAlready(t *testing.T) {
	enforced, failed := enforceLeadingBlankLines("\n\ncomment\n", 2)
	assert.False(t, failed)
	assert.Equal(t, "\n\ncomment\n", enforced)
}

func TestLoadConfigFile_MissingFileFails(t *testing.T) {
	_, st := LoadConfigFile("/nonexistent/path/config.yaml")
	assert.False(t, st.OK())
}
