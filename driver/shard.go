package driver

import "sort"

// ShardFiles deterministically partitions files across shardCount parallel
// driver invocations, letting an external harness realize the "different
// files may be processed in parallel" clause of spec §5 without the core
// managing concurrency itself (SPEC_FULL.md supplemented feature, grounded
// on file_based_test_driver's sharded_example_test.cc).
func ShardFiles(files []string, shardIndex, shardCount int) []string {
	if shardCount <= 1 {
		return append([]string(nil), files...)
	}
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	var out []string
	for i, f := range sorted {
		if i%shardCount == shardIndex {
			out = append(out, f)
		}
	}
	return out
}
