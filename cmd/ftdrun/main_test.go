package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/filetestdriver/driver"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFiles_UpdateRewritesFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.test", "select 1\n--\nwrong\n")

	failed, err := runFiles([]string{path}, driver.NewConfig(), nil, true)
	require.NoError(t, err)
	assert.True(t, failed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "select 1\n--\nselect 1\n", string(got))
}

func TestRunFiles_CacheSkipsUnchangedPassingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.test", "select 1\n--\nselect 1\n")

	cache := driver.NewCache()
	failed, err := runFiles([]string{path}, driver.NewConfig(), cache, false)
	require.NoError(t, err)
	assert.False(t, failed)

	hash := driver.HashContent([]byte("select 1\n--\nselect 1\n"))
	assert.True(t, cache.Unchanged(path, hash))

	failed, err = runFiles([]string{path}, driver.NewConfig(), cache, false)
	require.NoError(t, err)
	assert.False(t, failed)
}

func TestRunFiles_WritesActualFileOnMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.test", "select 1\n--\nwrong\n")

	failed, err := runFiles([]string{path}, driver.NewConfig(driver.WithGenerateActualFile()), nil, false)
	require.NoError(t, err)
	assert.True(t, failed)

	actual, err := os.ReadFile(path + "_actual")
	require.NoError(t, err)
	assert.Contains(t, string(actual), "select 1")
}
