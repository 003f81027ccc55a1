package rediff

// slideMatches walks adjacent match pairs and, where the gap between them
// falls entirely on one side (a pure insert or pure delete), tries to
// shift the shared boundary within the range of positions where the
// extra text remains a match, per spec §4.2 SlideRegion. The boundary is
// re-scored at each candidate position using the bonuses spec'd there;
// the lowest-scoring position wins, ties favoring the original position.
func slideMatches(left, right [][]byte, matches []match, maxSlide int) []match {
	if len(matches) < 2 {
		return matches
	}
	out := make([]match, len(matches))
	copy(out, matches)

	for i := 0; i+1 < len(out); i++ {
		cur := &out[i]
		next := &out[i+1]

		gapLeft := next.leftStart - (cur.leftStart + cur.length)
		gapRight := next.rightStart - (cur.rightStart + cur.length)

		pureInsert := gapLeft == 0 && gapRight > 0
		pureDelete := gapRight == 0 && gapLeft > 0
		if !pureInsert && !pureDelete {
			continue
		}

		if pureInsert {
			slidePureInsert(right, cur, next, maxSlide)
		} else {
			slidePureDelete(left, cur, next, maxSlide)
		}
	}
	return out
}

// slidePureInsert handles a gap that exists only on the right side: the
// two matches stay adjacent on the left (cur.leftStart+cur.length ==
// next.leftStart) while both boundaries shift together by the same amount,
// which is allowed as long as the line leaving one match equals the line
// entering the other.
func slidePureInsert(right [][]byte, cur, next *match, maxSlide int) {
	gapStart := cur.rightStart + cur.length
	gapEnd := next.rightStart
	maxForward := min3(cur.length, maxSlide, gapStart)
	forwardValid := 0
	for o := 1; o <= maxForward; o++ {
		if !bytesEqual(right[gapStart-o], right[gapEnd-o]) {
			break
		}
		forwardValid = o
	}

	maxBackward := min3(next.length, maxSlide, len(right)-gapEnd)
	backwardValid := 0
	for o := 1; o <= maxBackward; o++ {
		if !bytesEqual(right[gapStart+o-1], right[gapEnd+o-1]) {
			break
		}
		backwardValid = o
	}

	bestS, bestScore := 0, boundaryPairScore(right, gapStart, gapEnd, cur, next, 0)
	for s := -backwardValid; s <= forwardValid; s++ {
		if s == 0 {
			continue
		}
		score := boundaryPairScore(right, gapStart, gapEnd, cur, next, s)
		if score < bestScore {
			bestScore, bestS = score, s
		}
	}

	cur.length -= bestS
	next.leftStart -= bestS
	next.rightStart -= bestS
	next.length += bestS
}

// slidePureDelete is the mirror of slidePureInsert for a gap that exists
// only on the left side.
func slidePureDelete(left [][]byte, cur, next *match, maxSlide int) {
	gapStart := cur.leftStart + cur.length
	gapEnd := next.leftStart
	maxForward := min3(cur.length, maxSlide, gapStart)
	forwardValid := 0
	for o := 1; o <= maxForward; o++ {
		if !bytesEqual(left[gapStart-o], left[gapEnd-o]) {
			break
		}
		forwardValid = o
	}

	maxBackward := min3(next.length, maxSlide, len(left)-gapEnd)
	backwardValid := 0
	for o := 1; o <= maxBackward; o++ {
		if !bytesEqual(left[gapStart+o-1], left[gapEnd+o-1]) {
			break
		}
		backwardValid = o
	}

	bestS, bestScore := 0, boundaryPairScore(left, gapStart, gapEnd, cur, next, 0)
	for s := -backwardValid; s <= forwardValid; s++ {
		if s == 0 {
			continue
		}
		score := boundaryPairScore(left, gapStart, gapEnd, cur, next, s)
		if score < bestScore {
			bestScore, bestS = score, s
		}
	}

	cur.length -= bestS
	next.rightStart -= bestS
	next.leftStart -= bestS
	next.length += bestS
}

// boundaryPairScore scores the pair of boundaries (gap-start, gap-end)
// that would result from sliding by s lines: lower is better.
func boundaryPairScore(seq [][]byte, gapStart, gapEnd int, cur, next *match, s int) int {
	upper := gapStart - s
	lower := gapEnd - s

	score := scoreBoundary(seq, upper) + scoreBoundary(seq, lower)
	if lineAt(seq, upper) != nil && endsWith(lineAt(seq, upper), '{') {
		score -= 2 // post-upper-boundary line opens a block
	}
	if before := lineAt(seq, lower-1); before != nil && endsWith(before, '}') {
		score -= 2 // duplicated per spec's separate "pre-lower-boundary" bullet
	}

	if s == cur.length || -s == next.length {
		score -= 10 // slide completely consumed an adjacent match
	}
	return score
}

// scoreBoundary scores a single boundary position between seq[pos-1] and
// seq[pos], using line score as the base and the shared bonuses.
func scoreBoundary(seq [][]byte, pos int) int {
	before := lineAt(seq, pos-1)
	after := lineAt(seq, pos)

	scoreBefore := int(lineScore(before, &defaultScoreTable))
	scoreAfter := int(lineScore(after, &defaultScoreTable))
	score := scoreBefore
	if scoreAfter < score {
		score = scoreAfter
	}

	if endsWith(before, '}') {
		score -= 2
	}
	if len(before) < len(after) {
		score -= 1
	}
	if len(before) == 0 {
		score -= 3
	}
	if len(after) == 0 {
		score -= 3
	}
	return score
}

func lineAt(seq [][]byte, pos int) []byte {
	if pos < 0 || pos >= len(seq) {
		return nil
	}
	return seq[pos]
}

func endsWith(line []byte, c byte) bool {
	return len(line) > 0 && line[len(line)-1] == c
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if m < 0 {
		return 0
	}
	return m
}
