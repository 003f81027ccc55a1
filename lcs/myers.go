package lcs

// myersChunks computes LCS chunks for (left, right) via Myers' linear-
// space divide-and-conquer bisection (Myers 1986 §4b, "A Linear Space
// Refinement"): forward and reverse furthest-reaching D-path fronts are
// advanced one round at a time until they overlap at a middle snake,
// which splits the problem into two independent halves recursed on the
// same way. Unlike a single forward-only search, this never snapshots a
// full per-round trace, so memory stays O(n+m) throughout no matter how
// large the edit distance grows (spec §4.1, "Myers" kernel).
//
// ok is false when maxD is exceeded anywhere in the recursion without a
// path being found, signalling MaxDiffExceeded to the caller. maxD<0
// means unbounded.
func myersChunks(left, right []int, maxD int) (lcsLen int, chunks []Chunk, ok bool) {
	n, m := len(left), len(right)
	if n == 0 || m == 0 {
		return 0, nil, true
	}

	var b chunkBuilder
	exceeded := false

	var walk func(l, r []int, offL, offR int)
	walk = func(l, r []int, offL, offR int) {
		if exceeded {
			return
		}
		n, m := len(l), len(r)
		if n == 0 || m == 0 {
			return
		}

		// Strip this subproblem's own common prefix/suffix first: a pure
		// insert/delete region, or the snake immediately adjoining a split
		// point from the parent call, never needs a snake search at all.
		prefix := 0
		for prefix < n && prefix < m && l[prefix] == r[prefix] {
			prefix++
		}
		suffix := 0
		for suffix < n-prefix && suffix < m-prefix && l[n-1-suffix] == r[m-1-suffix] {
			suffix++
		}
		if prefix > 0 {
			b.add(offL, offR, prefix)
		}

		il, ir := l[prefix:n-suffix], r[prefix:m-suffix]
		ioffL, ioffR := offL+prefix, offR+prefix
		if len(il) > 0 && len(ir) > 0 {
			x, y, found := findMiddleSnake(il, ir, maxD)
			if !found {
				exceeded = true
				return
			}
			walk(il[:x], ir[:y], ioffL, ioffR)
			walk(il[x:], ir[y:], ioffL+x, ioffR+y)
		}

		if suffix > 0 {
			b.add(offL+n-suffix, offR+m-suffix, suffix)
		}
	}

	walk(left, right, 0, 0)
	if exceeded {
		return 0, nil, false
	}
	chunks = b.build()
	return totalLength(chunks), chunks, true
}

// findMiddleSnake locates the point where the forward D-path front
// (advancing from (0,0)) and the reverse D-path front (advancing from
// (n,m)) first meet, per Myers' linear-space technique: only the current
// round's frontier is kept for each direction, never a full per-round
// history, so this runs in O(n+m) memory regardless of the edit distance.
// x, y is the point in (left, right) splitting the edit graph into two
// independent halves, each an LCS subproblem in its own right.
//
// found is false if maxD rounds pass with no overlap (maxD<0 means
// unbounded, naturally bounded by n+m either way).
func findMiddleSnake(left, right []int, maxD int) (x, y int, found bool) {
	n, m := len(left), len(right)
	max := n + m
	offset := max
	size := 2*max + 1

	vf := make([]int, size)
	vr := make([]int, size)
	for i := range vf {
		vf[i] = -1
		vr[i] = -1
	}
	vf[offset+1] = 0
	vr[offset+1] = 0

	delta := n - m
	forwardChecksOverlap := delta%2 != 0

	limit := max
	if maxD >= 0 {
		half := (maxD + 1) / 2
		if half < limit {
			limit = half
		}
	}

	for round := 0; round <= limit; round++ {
		for k := -round; k <= round; k += 2 {
			kOff := offset + k
			var xx int
			if k == -round || (k != round && vf[kOff-1] < vf[kOff+1]) {
				xx = vf[kOff+1]
			} else {
				xx = vf[kOff-1] + 1
			}
			yy := xx - k
			for xx < n && yy < m && left[xx] == right[yy] {
				xx++
				yy++
			}
			vf[kOff] = xx

			if forwardChecksOverlap {
				rOff := offset + delta - k
				if rOff >= 0 && rOff < size && vr[rOff] != -1 {
					if xx >= n-vr[rOff] {
						return xx, yy, true
					}
				}
			}
		}

		for k := -round; k <= round; k += 2 {
			kOff := offset + k
			var xx int
			if k == -round || (k != round && vr[kOff-1] < vr[kOff+1]) {
				xx = vr[kOff+1]
			} else {
				xx = vr[kOff-1] + 1
			}
			yy := xx - k
			for xx < n && yy < m && left[n-xx-1] == right[m-yy-1] {
				xx++
				yy++
			}
			vr[kOff] = xx

			if !forwardChecksOverlap {
				fOff := offset + delta - k
				if fOff >= 0 && fOff < size && vf[fOff] != -1 {
					fx := vf[fOff]
					if fx >= n-xx {
						return fx, fx - (delta - k), true
					}
				}
			}
		}
	}

	return 0, 0, false
}
