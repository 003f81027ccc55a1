// Package lcs implements the hybrid Myers / Hunt-McIlroy longest common
// subsequence engine described in spec §4.1: given two integer-mapped
// sequences, it returns the LCS length and the list of matching chunks,
// picking whichever kernel is cheaper by runtime/memory estimate and
// falling back to a linear-memory recursive split when the chosen kernel
// would exceed the configured memory budget.
package lcs

import "github.com/aledsdavies/filetestdriver/status"

// Run computes the LCS of left and right. A negative-length result never
// occurs; resource errors are reported through the returned *status.Status
// instead (MemoryLimitExceeded, MaxDiffExceeded), per spec §4.1's error
// policy.
func Run(left, right []int, opts Options) (lcsLen int, chunks []Chunk, st *status.Status) {
	n, m := len(left), len(right)

	prefix := 0
	for prefix < n && prefix < m && left[prefix] == right[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix && left[n-1-suffix] == right[m-1-suffix] {
		suffix++
	}

	interiorLeft := left[prefix : n-suffix]
	interiorRight := right[prefix : m-suffix]

	interiorLen, interiorChunks, ist := runInterior(interiorLeft, interiorRight, opts)
	if !ist.OK() {
		return 0, nil, ist
	}

	var b chunkBuilder
	if prefix > 0 {
		b.add(0, 0, prefix)
	}
	for _, c := range interiorChunks {
		b.add(c.Left+prefix, c.Right+prefix, c.Length)
	}
	if suffix > 0 {
		b.add(n-suffix, m-suffix, suffix)
	}

	return interiorLen + prefix + suffix, b.build(), &status.Status{Code: status.Ok}
}

func ok() *status.Status { return &status.Status{Code: status.Ok} }

// runInterior picks a kernel for the (already prefix/suffix-stripped)
// interior and falls back to recursiveSplit when the chosen kernel's
// estimated memory would exceed opts.MaxMemory.
func runInterior(left, right []int, opts Options) (int, []Chunk, *status.Status) {
	n, m := len(left), len(right)
	if n == 0 || m == 0 {
		return 0, nil, ok()
	}

	myersWC := myersWorstCase(n, m, opts)
	huntBC := huntBestCase(n, m, opts.maxKeys(), opts)

	useMyers := myersWC.runtime <= huntBC.runtime && myersWC.memory <= opts.maxMemory()

	var ko *keyOccurrences
	var st stats
	if !useMyers {
		ko = buildKeyOccurrences(right, opts.maxKeys())
		st = computeStats(left, ko)
		myersEst := myersExpected(n, m, st, opts)
		huntEst := huntEstimate(n, m, st, opts)
		useMyers = myersEst.runtime <= huntEst.runtime
	}

	if useMyers {
		est := myersWorstCase(n, m, opts)
		if est.memory > opts.maxMemory() {
			return recursiveSplit(left, right, opts)
		}
		maxD := n + m
		if opts.MaxDiff > 0 && int(opts.MaxDiff) < maxD {
			maxD = int(opts.MaxDiff)
		}
		lcsLen, chunks, kok := myersChunks(left, right, maxD)
		if !kok {
			return 0, nil, status.New(status.MaxDiffExceeded, "lcs: exceeded max diff bound (%d)", maxD)
		}
		return lcsLen, chunks, ok()
	}

	if ko == nil {
		ko = buildKeyOccurrences(right, opts.maxKeys())
		st = computeStats(left, ko)
	}
	est := huntEstimate(n, m, st, opts)
	if est.memory > opts.maxMemory() {
		return recursiveSplit(left, right, opts)
	}
	lcsLen, chunks := huntChunks(left, ko)
	return lcsLen, chunks, ok()
}

// recursiveSplit realizes the linear-memory fallback: a direct answer for
// a one-element side (no split can degenerate there), otherwise a Myers
// middle-snake split followed by recursion on both halves through the
// same hybrid selector. A defensive check against a no-progress split
// (which would otherwise recurse forever) falls back to a direct Hunt
// pass, whose memory is bounded by the actual data rather than a
// worst-case estimate.
func recursiveSplit(left, right []int, opts Options) (int, []Chunk, *status.Status) {
	n, m := len(left), len(right)

	if splitMemoryEstimate(n, m) > opts.maxMemory() {
		return 0, nil, status.New(status.MemoryLimitExceeded,
			"lcs: even linear-memory fallback (%d bytes) exceeds budget (%d bytes)",
			splitMemoryEstimate(n, m), opts.maxMemory())
	}

	if n == 1 || m == 1 {
		lcsLen, chunks := trivialChunks(left, right)
		return lcsLen, chunks, ok()
	}

	splitX, splitY := linearSplit(left, right)
	if (splitX == 0 || splitX == n) && (splitY == 0 || splitY == m) {
		ko := buildKeyOccurrences(right, opts.maxKeys())
		lcsLen, chunks := huntChunks(left, ko)
		return lcsLen, chunks, ok()
	}

	lcsLenL, chunksL, stL := runInterior(left[:splitX], right[:splitY], opts)
	if !stL.OK() {
		return 0, nil, stL
	}
	lcsLenR, chunksR, stR := runInterior(left[splitX:], right[splitY:], opts)
	if !stR.OK() {
		return 0, nil, stR
	}

	var b chunkBuilder
	for _, c := range chunksL {
		b.add(c.Left, c.Right, c.Length)
	}
	for _, c := range chunksR {
		b.add(c.Left+splitX, c.Right+splitY, c.Length)
	}
	return lcsLenL + lcsLenR, b.build(), ok()
}

// trivialChunks handles a one-element side directly: the LCS is 0 or 1,
// found by a linear scan for the shorter side's single value in the
// longer side.
func trivialChunks(left, right []int) (int, []Chunk) {
	if len(left) == 1 {
		for j, v := range right {
			if v == left[0] {
				return 1, []Chunk{{Left: 0, Right: j, Length: 1}}
			}
		}
		return 0, nil
	}
	for i, v := range left {
		if v == right[0] {
			return 1, []Chunk{{Left: i, Right: 0, Length: 1}}
		}
	}
	return 0, nil
}
