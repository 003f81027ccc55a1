package lcs

// Options tunes the hybrid Myers/Hunt-McIlroy selection and the memory
// bounds enforced by both kernels (spec §3 LcsOptions, §4.1).
type Options struct {
	// HuntFactor, MyersFactor and InitFactor scale the raw runtime
	// estimates of each kernel relative to one another; they exist so
	// callers can bias selection toward one kernel without touching the
	// underlying formulas. Memory estimates are not scaled, and
	// EstimateFactor is not read by any estimator.
	HuntFactor     float64
	MyersFactor    float64
	InitFactor     float64
	EstimateFactor float64

	// LcsBoundRatio blends the cheap lower/upper bounds on the LCS length
	// into a single expected-length estimate used for Myers' expected
	// runtime: ratio*lower + (1-ratio)*upper.
	LcsBoundRatio float64

	// MaxMemory is the byte budget a kernel invocation may use before it
	// must fall back to the linear-memory split-point variant.
	MaxMemory int64

	// MaxKeys bounds the number of distinct keys in the key-occurrence
	// index built for Hunt and for the estimators; keys first seen after
	// the bound is reached are left out of the index, so Hunt finds no
	// matches for them.
	MaxKeys int32

	// MaxDiff, if non-zero, bounds the number of edits (D) a kernel will
	// explore before giving up with MaxDiffExceeded.
	MaxDiff int32
}

// DefaultOptions returns the tuning the spec describes as picking "the
// right" algorithm on typical inputs: a 1 MiB memory budget and a 70/30
// blend between the lower and upper LCS bounds.
func DefaultOptions() Options {
	return Options{
		HuntFactor:     1.0,
		MyersFactor:    1.0,
		InitFactor:     1.0,
		EstimateFactor: 1.0,
		LcsBoundRatio:  0.7,
		MaxMemory:      1 << 20,
		MaxKeys:        1 << 16,
		MaxDiff:        0,
	}
}

func (o Options) maxMemory() int64 {
	if o.MaxMemory <= 0 {
		return 1 << 20
	}
	return o.MaxMemory
}

func (o Options) maxKeys() int32 {
	if o.MaxKeys <= 0 {
		return 1 << 16
	}
	return o.MaxKeys
}
