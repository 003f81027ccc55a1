package rediff

import (
	"github.com/aledsdavies/filetestdriver/lcs"
	"github.com/aledsdavies/filetestdriver/status"
)

// Run computes a line-oriented diff between left and right, classifying
// every line of both sides into a sequence of DiffChunks that partitions
// [0,len(left)) and [0,len(right)) in source order (spec §4.2).
//
// A fast linear pass first strips any common leading and trailing run
// from the LCS input; those two runs are re-injected into the match list
// marked ignoreScore, so the tolerance filter can never reject them, then
// only the interior goes through the LCS engine.
func Run(left, right [][]byte, opts Options) ([]DiffChunk, *status.Status) {
	n, m := len(left), len(right)

	prefix := 0
	for prefix < n && prefix < m && bytesEqual(left[prefix], right[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix &&
		bytesEqual(left[n-1-suffix], right[m-1-suffix]) {
		suffix++
	}

	interiorLeft := left[prefix : n-suffix]
	interiorRight := right[prefix : m-suffix]

	leftInts, rightInts := lcs.MapToInts(toStrings(interiorLeft), toStrings(interiorRight))

	lcsOpts := lcs.DefaultOptions()
	if opts.LCSOptions != nil {
		lcsOpts = *opts.LCSOptions
	}

	_, rawChunks, lcsStatus := lcs.Run(leftInts, rightInts, lcsOpts)
	if !lcsStatus.OK() {
		// An LCS failure still honors the linear leading/trailing matches
		// found above; the interior is simply reported as one big change.
		rawChunks = nil
	}

	matches := make([]match, 0, len(rawChunks)+2)
	if prefix > 0 {
		matches = append(matches, match{leftStart: 0, rightStart: 0, length: prefix, ignoreScore: true})
	}
	for _, c := range rawChunks {
		matches = append(matches, match{leftStart: c.Left + prefix, rightStart: c.Right + prefix, length: c.Length})
	}
	if suffix > 0 {
		matches = append(matches, match{leftStart: n - suffix, rightStart: m - suffix, length: suffix, ignoreScore: true})
	}

	matches = rejectLowScoreMatches(left, matches, opts)
	matches = extendMatchesBackward(left, right, matches)
	matches = slideMatches(left, right, matches, opts.maxSlide())

	chunks := classify(left, right, matches, opts)
	if !lcsStatus.OK() {
		return chunks, lcsStatus
	}
	return chunks, ok()
}

func ok() *status.Status { return &status.Status{Code: status.Ok} }

func toStrings(lines [][]byte) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out
}

// rejectLowScoreMatches drops candidate matches whose summed line score
// falls below opts.Tolerance, per spec §4.2's match-rejection rule: a
// byte-identical run of low-information lines (blank lines, single
// punctuation, braces alone) is not trustworthy evidence that the
// surrounding text actually lines up.
func rejectLowScoreMatches(left [][]byte, matches []match, opts Options) []match {
	if opts.tolerance() <= 0 {
		return matches
	}
	table := opts.table()
	out := matches[:0:0]
	for _, m := range matches {
		if m.ignoreScore {
			out = append(out, m)
			continue
		}
		var score int32
		for k := 0; k < m.length; k++ {
			score += lineScore(left[m.leftStart+k], table)
		}
		if score < opts.tolerance() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// extendMatchesBackward grows each match one line earlier at a time as
// long as the preceding line is equal on both sides and not already
// claimed by the previous accepted match, recovering alignment the LCS
// pass can miss when an earlier, unrelated equal line was chosen instead.
func extendMatchesBackward(left, right [][]byte, matches []match) []match {
	prevLeftEnd, prevRightEnd := 0, 0
	for i := range matches {
		m := &matches[i]
		for m.leftStart > prevLeftEnd && m.rightStart > prevRightEnd &&
			bytesEqual(left[m.leftStart-1], right[m.rightStart-1]) {
			m.leftStart--
			m.rightStart--
			m.length++
		}
		prevLeftEnd = m.leftStart + m.length
		prevRightEnd = m.rightStart + m.length
	}
	return matches
}

// classify turns the final match list into the gap-filled DiffChunk
// sequence: each match becomes one or more Unchanged/Ignored runs (split
// wherever opts.IgnoreLine's verdict changes), and the space between
// matches becomes Removed, Added or Changed depending on which side has
// unconsumed lines.
func classify(left, right [][]byte, matches []match, opts Options) []DiffChunk {
	var out []DiffChunk
	leftPos, rightPos := 0, 0

	emitGap := func(leftEnd, rightEnd int) {
		if leftEnd == leftPos && rightEnd == rightPos {
			return
		}
		kind := Changed
		switch {
		case leftEnd == leftPos:
			kind = Added
		case rightEnd == rightPos:
			kind = Removed
		}
		out = append(out, DiffChunk{
			SourceFirst: leftPos, SourceLast: leftEnd,
			FirstLine: rightPos, LastLine: rightEnd,
			Kind: kind,
		})
	}

	for _, m := range matches {
		emitGap(m.leftStart, m.rightStart)

		for _, run := range splitByIgnore(left, m.leftStart, m.length, opts.IgnoreLine) {
			out = append(out, DiffChunk{
				SourceFirst: run.start, SourceLast: run.start + run.length,
				FirstLine: m.rightStart + (run.start - m.leftStart), LastLine: m.rightStart + (run.start - m.leftStart) + run.length,
				Kind: run.kind,
			})
		}
		leftPos, rightPos = m.leftStart+m.length, m.rightStart+m.length
	}
	emitGap(len(left), len(right))

	return out
}

type ignoreRun struct {
	start, length int
	kind          Kind
}

// splitByIgnore partitions a matched region into maximal runs of
// consecutive ignored / non-ignored lines, so a single ignored line in
// the middle of an otherwise-Unchanged match gets its own Ignored chunk.
func splitByIgnore(left [][]byte, start, length int, ignore func([]byte) bool) []ignoreRun {
	if ignore == nil || length == 0 {
		return []ignoreRun{{start: start, length: length, kind: Unchanged}}
	}
	var runs []ignoreRun
	runStart, runIgnored := start, ignore(left[start])
	for i := start + 1; i < start+length; i++ {
		ign := ignore(left[i])
		if ign != runIgnored {
			runs = append(runs, ignoreRun{start: runStart, length: i - runStart, kind: kindFor(runIgnored)})
			runStart, runIgnored = i, ign
		}
	}
	runs = append(runs, ignoreRun{start: runStart, length: start + length - runStart, kind: kindFor(runIgnored)})
	return runs
}

func kindFor(ignored bool) Kind {
	if ignored {
		return Ignored
	}
	return Unchanged
}
