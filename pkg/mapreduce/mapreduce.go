// Package mapreduce merges per-partition keyword counts into aggregate
// results.
package mapreduce

// Reduce sums a slice of per-partition count maps into a single map. The
// reduction is order-independent; partitions contribute commutatively.
func Reduce(intermediate []map[string]int) map[string]int {
	merged := make(map[string]int)

	for _, counts := range intermediate {
		for key, count := range counts {
			merged[key] += count
		}
	}

	return merged
}
