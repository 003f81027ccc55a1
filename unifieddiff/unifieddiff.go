// Package unifieddiff renders a rediff.DiffChunk stream as a textual
// unified diff (spec §4.3): hunk headers, context lines, '+'/'-' body
// prefixes and optional colorization.
package unifieddiff

import (
	"bytes"
	"fmt"

	"github.com/aledsdavies/filetestdriver/rediff"
)

// Colorizer wraps contiguous runs of added or removed lines. Escape, if
// set, runs over every body line (context included) before prefixing.
type Colorizer struct {
	AddPrefix, AddSuffix string
	DelPrefix, DelSuffix string
	Escape               func(line []byte) []byte
}

// Options tunes the printer.
type Options struct {
	// ContextSize is how many unchanged lines surround each hunk.
	ContextSize int

	// FromLabel/ToLabel head the "--- "/"+++ " file lines. Left empty,
	// that line is omitted.
	FromLabel, ToLabel string

	// WarnMissingEOFNewline emits the "\ No newline at end of file"
	// marker when either side's last line lacks a trailing newline.
	WarnMissingEOFNewline bool

	// LeftHasTrailingNewline/RightHasTrailingNewline report whether the
	// original byte stream each side came from ended in '\n'; only the
	// very last line of each side is affected.
	LeftHasTrailingNewline, RightHasTrailingNewline bool

	// Colorizer, if non-nil, wraps '+'/'-' line groups.
	Colorizer *Colorizer
}

// DefaultOptions returns the printer tuning used when the caller has no
// opinion: three lines of context, no labels, no color.
func DefaultOptions() Options {
	return Options{ContextSize: 3, LeftHasTrailingNewline: true, RightHasTrailingNewline: true}
}

// Print renders chunks (over left and right line slices) as a unified
// diff. Per spec §4.3, a single Unchanged chunk covering both sequences
// (i.e. the inputs are equal) short-circuits to "".
func Print(left, right [][]byte, chunks []rediff.DiffChunk, opts Options) string {
	if len(chunks) == 0 {
		return ""
	}
	if len(chunks) == 1 && chunks[0].Kind == rediff.Unchanged {
		return ""
	}

	groups := groupHunks(chunks, opts.ContextSize)
	if len(groups) == 0 {
		return ""
	}

	var buf bytes.Buffer
	if opts.FromLabel != "" {
		fmt.Fprintf(&buf, "--- %s\n", opts.FromLabel)
	}
	if opts.ToLabel != "" {
		fmt.Fprintf(&buf, "+++ %s\n", opts.ToLabel)
	}

	for _, g := range groups {
		writeHunk(&buf, left, right, chunks, g, opts)
	}

	return buf.String()
}

// hunkRange is a contiguous run of chunk indices [first,last] (inclusive)
// to render as one hunk, already widened to include context.
type hunkRange struct {
	firstChunk, lastChunk int
	srcStart, srcEnd      int // absolute left-side line bounds, half-open
	dstStart, dstEnd      int // absolute right-side line bounds, half-open
}

// groupHunks finds runs of adjacent non-Unchanged chunks (allowing a gap
// of up to 2*contextSize Unchanged lines between them to merge into one
// hunk) and widens each by contextSize lines of surrounding context.
func groupHunks(chunks []rediff.DiffChunk, contextSize int) []hunkRange {
	var groups []hunkRange

	i := 0
	for i < len(chunks) {
		if chunks[i].Kind == rediff.Unchanged {
			i++
			continue
		}
		first := i
		last := i
		i++
		for i < len(chunks) {
			if chunks[i].Kind != rediff.Unchanged {
				last = i
				i++
				continue
			}
			// An Unchanged run short enough to be wholly inside the
			// context windows of both neighbors merges the hunks.
			unchangedLen := chunks[i].SourceLast - chunks[i].SourceFirst
			if unchangedLen > 2*contextSize {
				break
			}
			i++
			if i < len(chunks) && chunks[i].Kind != rediff.Unchanged {
				last = i
				i++
			}
		}

		srcStart := chunks[first].SourceFirst - contextSize
		if srcStart < 0 {
			srcStart = 0
		}
		srcEnd := chunks[last].SourceLast + contextSize
		if bound := chunks[len(chunks)-1].SourceLast; srcEnd > bound {
			srcEnd = bound
		}
		dstStart := chunks[first].FirstLine - contextSize
		if dstStart < 0 {
			dstStart = 0
		}
		dstEnd := chunks[last].LastLine + contextSize
		if bound := chunks[len(chunks)-1].LastLine; dstEnd > bound {
			dstEnd = bound
		}

		groups = append(groups, hunkRange{
			firstChunk: first, lastChunk: last,
			srcStart: srcStart, srcEnd: srcEnd,
			dstStart: dstStart, dstEnd: dstEnd,
		})
	}
	return groups
}

func writeHunk(buf *bytes.Buffer, left, right [][]byte, chunks []rediff.DiffChunk, g hunkRange, opts Options) {
	fmt.Fprintf(buf, "@@ -%s +%s @@\n", hunkSpan(g.srcStart, g.srcEnd), hunkSpan(g.dstStart, g.dstEnd))

	leftPos, rightPos := g.srcStart, g.dstStart

	emitContext := func(toLeft, toRight int) {
		for leftPos < toLeft && rightPos < toRight {
			writeBodyLine(buf, ' ', left[leftPos], leftPos == len(left)-1, opts.LeftHasTrailingNewline, [2]string{}, opts)
			leftPos++
			rightPos++
		}
	}

	for ci := g.firstChunk; ci <= g.lastChunk; ci++ {
		c := chunks[ci]

		// Catch up to the chunk's own start with context (covers the
		// leading widened window and any short Unchanged run folded in).
		emitContext(min(c.SourceFirst, g.srcEnd), min(c.FirstLine, g.dstEnd))

		switch c.Kind {
		case rediff.Unchanged, rediff.Ignored:
			emitContext(c.SourceLast, c.LastLine)
		case rediff.Removed:
			writeLines(buf, left, c.SourceFirst, c.SourceLast, '-', opts.LeftHasTrailingNewline, opts.colorDel(), opts)
			leftPos = c.SourceLast
		case rediff.Added:
			writeLines(buf, right, c.FirstLine, c.LastLine, '+', opts.RightHasTrailingNewline, opts.colorAdd(), opts)
			rightPos = c.LastLine
		case rediff.Changed:
			writeLines(buf, left, c.SourceFirst, c.SourceLast, '-', opts.LeftHasTrailingNewline, opts.colorDel(), opts)
			writeLines(buf, right, c.FirstLine, c.LastLine, '+', opts.RightHasTrailingNewline, opts.colorAdd(), opts)
			leftPos, rightPos = c.SourceLast, c.LastLine
		}
	}

	emitContext(g.srcEnd, g.dstEnd)
}

func hunkSpan(start, end int) string {
	count := end - start
	if count == 1 {
		return fmt.Sprintf("%d", start+1)
	}
	return fmt.Sprintf("%d,%d", start+1, count)
}

func writeLines(buf *bytes.Buffer, seq [][]byte, from, to int, prefix byte, hasTrailingNewline bool, color [2]string, opts Options) {
	for i := from; i < to; i++ {
		var c [2]string
		if i == from {
			c[0] = color[0]
		}
		if i == to-1 {
			c[1] = color[1]
		}
		writeBodyLine(buf, prefix, seq[i], i == len(seq)-1, hasTrailingNewline, c, opts)
	}
}

func writeBodyLine(buf *bytes.Buffer, prefix byte, line []byte, isLastOfSeq, seqHasTrailingNewline bool, color [2]string, opts Options) {
	escaped := line
	if opts.Colorizer != nil && opts.Colorizer.Escape != nil {
		escaped = opts.Colorizer.Escape(line)
	}

	buf.WriteByte(prefix)
	if color[0] != "" {
		buf.WriteString(color[0])
	}
	buf.Write(escaped)
	if color[1] != "" {
		buf.WriteString(color[1])
	}

	if isLastOfSeq && !seqHasTrailingNewline && opts.WarnMissingEOFNewline {
		buf.WriteString("\n\\ No newline at end of file\n")
		return
	}
	buf.WriteByte('\n')
}

func (o Options) colorAdd() [2]string {
	if o.Colorizer == nil {
		return [2]string{}
	}
	return [2]string{o.Colorizer.AddPrefix, o.Colorizer.AddSuffix}
}

func (o Options) colorDel() [2]string {
	if o.Colorizer == nil {
		return [2]string{}
	}
	return [2]string{o.Colorizer.DelPrefix, o.Colorizer.DelSuffix}
}
