package lcs

import "sort"

// matchRecord is a single (left, right) matched pair discovered while
// building the patience-sort frontier; predecessor chains a match to the
// one it extends, letting the final chunk list be reconstructed by walking
// the chain once the longest frontier is known (spec's "refcounted
// backpointer" idea, realized as flat indices per the DESIGN.md note on
// avoiding an Rc/Arc-style graph).
type matchRecord struct {
	left, right int
	predecessor int // index into the records slice, or -1
}

// huntChunks implements Hunt-McIlroy via patience-sorting longest
// increasing subsequence over right-side positions: for each left index in
// order, its occurrences in right are walked in reverse so that a single
// left position only ever extends one frontier length per pass, and
// duplicate right coordinates at the same rank are skipped (spec §4.1).
func huntChunks(left []int, ko *keyOccurrences) (lcsLen int, chunks []Chunk) {
	// threshold[l] = smallest right-coordinate achievable with a match
	// run of length l+1; backptr[l] is the matchRecord realizing it.
	var threshold []int
	var backptr []int
	var records []matchRecord

	for i, val := range left {
		occ, ok := ko.positions[val]
		if !ok {
			continue
		}
		for idx := len(occ) - 1; idx >= 0; idx-- {
			j := occ[idx]
			pos := sort.SearchInts(threshold, j)

			pred := -1
			if pos > 0 {
				pred = backptr[pos-1]
			}
			recIdx := len(records)
			records = append(records, matchRecord{left: i, right: j, predecessor: pred})

			switch {
			case pos == len(threshold):
				threshold = append(threshold, j)
				backptr = append(backptr, recIdx)
			case j < threshold[pos]:
				threshold[pos] = j
				backptr[pos] = recIdx
			default:
				// j == threshold[pos]: a duplicate at the same rank,
				// dropped per spec.
			}
		}
	}

	if len(threshold) == 0 {
		return 0, nil
	}

	// Walk the winning chain from its tail back to the first match.
	chain := make([]matchRecord, 0, len(threshold))
	for idx := backptr[len(backptr)-1]; idx != -1; idx = records[idx].predecessor {
		chain = append(chain, records[idx])
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var b chunkBuilder
	for _, r := range chain {
		b.add(r.left, r.right, 1)
	}
	chunks = b.build()
	return len(chain), chunks
}
