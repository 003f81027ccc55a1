// Command ftdrun runs file-based golden test drivers against a set of
// .test files, following the CLI shape of the teacher's cli/main.go:
// a single cobra root command, PersistentFlags for every knob, errors
// printed once and mapped to a process exit code.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/aledsdavies/filetestdriver/driver"
)

// driverVersion is this binary's own semver, compared against
// --min-driver-version so a test suite can refuse to run against a
// ftdrun build too old to understand its fixtures.
const driverVersion = "v1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		configPath        string
		minDriverVersion  string
		ignoreRegex       string
		leadingBlankLines int
		individualTests   bool
		generateActual    bool
		debug             bool
		update            bool
		watch             bool
		cacheFile         string
		shardIndex        int
		shardCount        int
	)

	rootCmd := &cobra.Command{
		Use:           "ftdrun [files...]",
		Short:         "Run file-based golden test cases",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			if minDriverVersion != "" && semver.Compare(driverVersion, minDriverVersion) < 0 {
				return fmt.Errorf("ftdrun %s is older than required %s", driverVersion, minDriverVersion)
			}

			cfg := driver.NewConfig()
			if configPath != "" {
				loaded, st := driver.LoadConfigFile(configPath)
				if !st.OK() {
					return fmt.Errorf("%s", st.Error())
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("ignore-regex") {
				cfg.IgnoreRegex = ignoreRegex
			}
			if cmd.Flags().Changed("insert-leading-blank-lines") {
				cfg.InsertLeadingBlankLines = leadingBlankLines
			}
			if individualTests {
				cfg.IndividualTests = true
			}
			if generateActual {
				cfg.GenerateActualFile = true
			}
			if debug {
				cfg.Debug = true
			}

			sharded := driver.ShardFiles(files, shardIndex, shardCount)

			var cache *driver.Cache
			if cacheFile != "" {
				cache = driver.NewCache()
				if st := cache.Load(cacheFile); !st.OK() {
					return fmt.Errorf("%s", st.Error())
				}
			}

			runOnce := func() (bool, error) {
				return runFiles(sharded, cfg, cache, update)
			}

			if watch {
				return watchAndRun(files, runOnce)
			}

			failed, err := runOnce()
			if err != nil {
				return err
			}
			if cacheFile != "" {
				if st := cache.Save(cacheFile); !st.OK() {
					return fmt.Errorf("%s", st.Error())
				}
			}
			if failed {
				cmd.SilenceUsage = true
				return fmt.Errorf("one or more test cases failed")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML runner configuration file")
	rootCmd.PersistentFlags().StringVar(&minDriverVersion, "min-driver-version", "", "minimum required ftdrun version (semver)")
	rootCmd.PersistentFlags().StringVar(&ignoreRegex, "ignore-regex", "", "regexp scrubbed from expected/actual before comparison")
	rootCmd.PersistentFlags().IntVar(&leadingBlankLines, "insert-leading-blank-lines", 0, "required blank lines before each non-initial case")
	rootCmd.PersistentFlags().BoolVar(&individualTests, "individual-tests", false, "report each failing case as its own named failure")
	rootCmd.PersistentFlags().BoolVar(&generateActual, "generate-actual-file", false, "write a sibling _actual file on mismatch")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "dump actual output for every case")
	rootCmd.PersistentFlags().BoolVar(&update, "update", false, "overwrite each input file with its regenerated golden content")
	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "re-run on file changes until interrupted")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "CBOR cache file for skip-if-unchanged watch runs")
	rootCmd.PersistentFlags().IntVar(&shardIndex, "shard-index", 0, "this invocation's shard index")
	rootCmd.PersistentFlags().IntVar(&shardCount, "shard-count", 1, "total number of shards")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ftdrun:", err)
		return 1
	}
	return 0
}

type namedFailSink struct {
	files map[string]bool
}

func (s *namedFailSink) Fail(testName, message string) {
	fmt.Fprintf(os.Stderr, "FAIL %s\n%s\n", testName, message)
}

// runFiles runs every file through a fresh Runner (a Runner owns one
// file's state and must not be reused across files run concurrently).
// It returns whether any file failed.
func runFiles(files []string, cfg driver.Config, cache *driver.Cache, update bool) (bool, error) {
	anyFailed := false
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", path, err)
		}

		if cache != nil {
			hash := driver.HashContent(content)
			if cache.Unchanged(path, hash) {
				continue
			}
		}

		sink := &namedFailSink{}
		r := driver.NewRunner(cfg, sink)
		result, st := r.RunFile(path, content, runNoop)
		if !st.OK() {
			return false, fmt.Errorf("%s", st.Error())
		}

		if cfg.Debug {
			fmt.Fprintln(os.Stderr, spew.Sdump(result))
		}

		if result.Failed {
			anyFailed = true
			if result.Actual != "" {
				if err := os.WriteFile(path+"_actual", []byte(result.Actual), 0o644); err != nil {
					return false, fmt.Errorf("writing %s_actual: %w", path, err)
				}
			}
		}

		if update {
			if err := os.WriteFile(path, []byte(result.Regenerated), 0o644); err != nil {
				return false, fmt.Errorf("updating %s: %w", path, err)
			}
		}

		if cache != nil {
			cache.Record(path, driver.HashContent(content), !result.Failed)
		}
	}
	return anyFailed, nil
}

// runNoop is a placeholder callback for the standalone binary, which has
// no system under test wired in; real users of this package supply their
// own RunTestCaseFunc (ftdrun itself is a thin harness, not the SUT).
func runNoop(input string, result *driver.RunTestCaseResult) {
	result.AddTestOutput(input)
}

func watchAndRun(files []string, runOnce func() (bool, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	var sorted []string
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)
	for _, d := range sorted {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	if _, err := runOnce(); err != nil {
		fmt.Fprintln(os.Stderr, "ftdrun:", err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := runOnce(); err != nil {
				fmt.Fprintln(os.Stderr, "ftdrun:", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "ftdrun: watch error:", err)
		}
	}
}
