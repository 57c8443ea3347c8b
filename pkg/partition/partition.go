// Package partition plans how a log's line sequence is split across workers.
package partition

import "runtime"

// Partition is a contiguous, non-overlapping range of line indices
// [Start, End) assigned to exactly one worker. A plan's partitions cover
// [0, lineCount) with no gaps.
type Partition struct {
	Index int
	Start int
	End   int
}

// Lines reports how many lines the partition covers.
func (p Partition) Lines() int {
	return p.End - p.Start
}

// Workers decides the pool size for a filter run: available parallelism
// capped at the filter key count, never zero. Matching cost scales with key
// count rather than partition size, so extra workers beyond the key count
// buy nothing. maxWorkers lowers the parallelism when positive; zero means
// use every CPU.
func Workers(filterKeyCount, maxWorkers int) int {
	parallelism := runtime.NumCPU()
	if maxWorkers > 0 && maxWorkers < parallelism {
		parallelism = maxWorkers
	}

	keys := filterKeyCount
	if keys < 1 {
		keys = 1
	}
	if keys < parallelism {
		return keys
	}
	return parallelism
}

// Plan walks [0, lineCount) in chunk strides of max(1, lineCount/workerCount)
// lines. The final partition absorbs any remainder so the plan covers the
// sequence exactly. A zero lineCount yields no partitions; fewer lines than
// workers yields fewer partitions than workers.
func Plan(lineCount, workerCount int) []Partition {
	if lineCount <= 0 {
		return nil
	}
	if workerCount < 1 {
		workerCount = 1
	}

	chunk := lineCount / workerCount
	if chunk < 1 {
		chunk = 1
	}

	parts := make([]Partition, 0, workerCount)
	for start := 0; start < lineCount; start += chunk {
		end := start + chunk
		if len(parts) == workerCount-1 || end > lineCount {
			end = lineCount
		}
		parts = append(parts, Partition{Index: len(parts), Start: start, End: end})
		if end == lineCount {
			break
		}
	}
	return parts
}
