// Package rediff implements the line-oriented diff described in spec
// §4.2: an LCS-powered match finder whose candidate matches are scored
// and possibly rejected, slid to semantically preferable boundaries, then
// classified into Unchanged/Added/Removed/Changed chunks.
package rediff

import "github.com/aledsdavies/filetestdriver/lcs"

// Kind classifies a DiffChunk.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
	Changed
	Ignored
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "Unchanged"
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	case Changed:
		return "Changed"
	case Ignored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

// DiffChunk is a half-open, labeled interval over both sequences: lines
// [SourceFirst, SourceLast) on the left and [FirstLine, LastLine) on the
// right carry the given Kind. Unchanged and Ignored chunks have equal
// length on both sides.
type DiffChunk struct {
	SourceFirst int
	SourceLast  int
	FirstLine   int
	LastLine    int
	Kind        Kind
}

// Options tunes the matcher (spec §4.2, §6.3).
type Options struct {
	// Tolerance is the minimum summed line score a non-ignored candidate
	// match must reach to be accepted; below it, the match is rejected
	// even though the lines are byte-equal.
	Tolerance int32

	// ScoreTable overrides the default byte->score table. Nil uses the
	// shared immutable default.
	ScoreTable *[256]int32

	// MaxSlide bounds how many lines a match boundary may move during the
	// slide heuristic, keeping the search local.
	MaxSlide int

	// LCSOptions overrides the tuning passed to the underlying lcs engine.
	// Nil uses lcs.DefaultOptions().
	LCSOptions *lcs.Options

	// IgnoreLine, when set, marks an Unchanged chunk as Ignored instead
	// when every line it covers satisfies it (spec §6.3 ignore_regex).
	IgnoreLine func(line []byte) bool
}

// DefaultOptions returns the matcher tuning used when the caller has no
// opinion.
func DefaultOptions() Options {
	return Options{Tolerance: 10, MaxSlide: 8}
}

func (o Options) table() *[256]int32 {
	if o.ScoreTable != nil {
		return o.ScoreTable
	}
	return &defaultScoreTable
}

func (o Options) maxSlide() int {
	if o.MaxSlide <= 0 {
		return 8
	}
	return o.MaxSlide
}

func (o Options) tolerance() int32 {
	return o.Tolerance
}

// match is an internal candidate match region, before it is split into
// DiffChunks. ignoreScore marks a match as immune to tolerance rejection:
// the leading/trailing common runs stripped before the LCS call are
// re-injected this way, per spec §4.2.
type match struct {
	leftStart, rightStart, length int
	ignoreScore                   bool
}
