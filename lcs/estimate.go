package lcs

// keyOccurrences indexes, for each distinct value (already mapped to a
// dense int key by the caller), the positions it occupies on the right
// side, in ascending order. It underlies both the Hunt-McIlroy kernel and
// the cheap estimators used for algorithm selection (spec §4.1).
type keyOccurrences struct {
	positions map[int][]int // key -> ascending positions in right
	usedKeys  int
}

func buildKeyOccurrences(right []int, maxKeys int32) *keyOccurrences {
	ko := &keyOccurrences{positions: make(map[int][]int)}
	for i, k := range right {
		if _, ok := ko.positions[k]; !ok {
			if int32(len(ko.positions)) >= maxKeys {
				continue
			}
		}
		ko.positions[k] = append(ko.positions[k], i)
	}
	ko.usedKeys = len(ko.positions)
	return ko
}

// stats summarizes, for the key occurrence index built over right, the
// interaction with left's own key multiset: beta is Hunt's runtime driver
// (sum of occLeft*occRight per key) and gamma is an upper bound on the LCS
// length (sum of min(occLeft,occRight) per key).
type stats struct {
	beta     int64
	gamma    int64
	usedKeys int32
}

func computeStats(left []int, ko *keyOccurrences) stats {
	occLeft := make(map[int]int, len(ko.positions))
	for _, k := range left {
		if _, ok := ko.positions[k]; ok {
			occLeft[k]++
		}
	}
	var s stats
	for k, rightPos := range ko.positions {
		ol := int64(occLeft[k])
		or := int64(len(rightPos))
		s.beta += ol * or
		if ol < or {
			s.gamma += ol
		} else {
			s.gamma += or
		}
	}
	s.usedKeys = int32(ko.usedKeys)
	return s
}

// estimate holds the runtime/memory figures the hybrid selector compares;
// units are relative (arbitrary "work" cost), not wall-clock seconds.
type estimate struct {
	runtime float64
	memory  int64
}

const backPointerSize = 12 // Left, Right, Predecessor as int32s
const intSize = 8

func myersWorstCase(n, m int, opts Options) estimate {
	d := float64(n + m)
	return estimate{
		runtime: opts.MyersFactor * d * d,
		// The linear-space bisection in myers.go keeps only the current
		// round's forward/reverse fronts at any recursion level, so
		// memory is O(n+m) regardless of the edit distance D.
		memory: int64(n+m) * intSize * 4,
	}
}

func myersExpected(n, m int, s stats, opts Options) estimate {
	lower := 0.0
	if n != m {
		lower = float64(abs(n - m))
	}
	upper := float64(s.gamma)
	if upper > float64(minInt(n, m)) {
		upper = float64(minInt(n, m))
	}
	blended := opts.LcsBoundRatio*lower + (1-opts.LcsBoundRatio)*upper
	d := float64(n+m) - 2*blended
	if d < 0 {
		d = 0
	}
	return estimate{
		runtime: opts.MyersFactor * d * d,
		memory:  int64(n+m) * intSize * 4,
	}
}

func huntBestCase(n, m int, maxKeys int32, opts Options) estimate {
	keys := float64(maxKeys)
	if keys <= 0 {
		keys = 1
	}
	return estimate{
		runtime: opts.HuntFactor*(float64(n)*float64(m)/keys) + opts.InitFactor*float64(n+m),
	}
}

func huntEstimate(n, m int, s stats, opts Options) estimate {
	runtime := opts.HuntFactor * float64(s.beta)
	memory := s.beta*backPointerSize + int64(m)*intSize + int64(s.usedKeys)*intSize
	return estimate{runtime: runtime, memory: memory}
}

func splitMemoryEstimate(n, m int) int64 {
	return int64(n+m) * intSize * 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
