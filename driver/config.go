// Package driver implements the per-file runner/orchestrator of spec
// §4.8: parsing, alternation expansion and coalescing, diffing against
// expected output, and regenerating the golden file.
package driver

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/filetestdriver/lcs"
	"github.com/aledsdavies/filetestdriver/status"
	"github.com/aledsdavies/filetestdriver/unifieddiff"
)

// Config holds the runner knobs of spec §6.4 plus the engine tuning of
// §6.3, following the teacher's plain-struct-plus-functional-options
// shape (runtime/parser's ParserConfig/ParserOpt).
type Config struct {
	// InsertLeadingBlankLines is the required blank-line count before
	// every non-initial case's first-part start comment.
	InsertLeadingBlankLines int

	// IgnoreRegex is applied (as a replace-with-empty-string) to copies of
	// both expected and actual before diffing.
	IgnoreRegex string

	// IndividualTests, if set, reports each failing case as its own named
	// sub-test via ExpectationSink instead of one file-level failure.
	IndividualTests bool

	// GenerateActualFile, if set, fills RunFileResult.Actual with the
	// actual outputs of every mismatching case; the driver itself writes no
	// file (cmd/ftdrun writes that text to a sibling `<file>_actual`).
	GenerateActualFile bool

	// Debug makes RunFile log a spew.Sdump dump of each case's coalesced
	// actual output. RunFileWithModes does not dump.
	Debug bool

	LCSOptions         *lcs.Options
	UnifiedDiffOptions unifieddiff.Options
}

// Option mutates a Config being built, the teacher's functional-options
// pattern (runtime/parser/options.go).
type Option func(*Config)

func WithInsertLeadingBlankLines(n int) Option {
	return func(c *Config) { c.InsertLeadingBlankLines = n }
}

func WithIgnoreRegex(pattern string) Option {
	return func(c *Config) { c.IgnoreRegex = pattern }
}

func WithIndividualTests() Option {
	return func(c *Config) { c.IndividualTests = true }
}

func WithGenerateActualFile() Option {
	return func(c *Config) { c.GenerateActualFile = true }
}

func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

func WithLCSOptions(opts lcs.Options) Option {
	return func(c *Config) { c.LCSOptions = &opts }
}

func WithUnifiedDiffOptions(opts unifieddiff.Options) Option {
	return func(c *Config) { c.UnifiedDiffOptions = opts }
}

// NewConfig builds a Config from its defaults plus any Options, in order.
func NewConfig(opts ...Option) Config {
	c := Config{UnifiedDiffOptions: unifieddiff.DefaultOptions()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// yamlConfig mirrors Config's knobs for file-based loading; only the
// fields present in the file are set, the rest keep NewConfig's defaults.
type yamlConfig struct {
	InsertLeadingBlankLines int    `yaml:"insert_leading_blank_lines"`
	IgnoreRegex             string `yaml:"ignore_regex"`
	IndividualTests         bool   `yaml:"individual_tests"`
	GenerateActualFile      bool   `yaml:"generate_actual_file"`
	Debug                   bool   `yaml:"debug"`
}

// LoadConfigFile reads a YAML runner configuration file, as described in
// SPEC_FULL.md's ambient configuration section, with any functional
// options applied afterward (so CLI flags can still override the file).
func LoadConfigFile(path string, opts ...Option) (Config, *status.Status) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, status.NotFoundf("driver: reading config file %q: %v", path, err)
	}

	var y yamlConfig
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Config{}, status.InvalidArgumentf("driver: parsing config file %q: %v", path, err)
	}

	c := NewConfig()
	c.InsertLeadingBlankLines = y.InsertLeadingBlankLines
	c.IgnoreRegex = y.IgnoreRegex
	c.IndividualTests = y.IndividualTests
	c.GenerateActualFile = y.GenerateActualFile
	c.Debug = y.Debug

	for _, opt := range opts {
		opt(&c)
	}
	return c, ok()
}

func ok() *status.Status { return &status.Status{Code: status.Ok} }
