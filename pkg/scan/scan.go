// Package scan runs the concurrent filtering phase. A fixed pool of workers
// scans line partitions against the filter keys and an ordered merge step
// reassembles their results in source order.
package scan

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/aASDa213ASD/noiseless/pkg/filterspec"
	"github.com/aASDa213ASD/noiseless/pkg/mapreduce"
	"github.com/aASDa213ASD/noiseless/pkg/partition"
	"github.com/aASDa213ASD/noiseless/pkg/progress"
)

// MatchResult holds one partition's output: matched lines in source order,
// per-key counts local to the partition, and a flag marking a worker fault.
type MatchResult struct {
	Index   int
	Matched [][]byte
	Counts  map[string]int
	Failed  bool
}

// Aggregate is the merged output of all partitions. Matched preserves the
// original line order; Total always equals the sum of Counts.
type Aggregate struct {
	Matched          [][]byte
	Counts           map[string]int
	Total            int
	FailedPartitions int
}

// SplitLines splits data into lines, each keeping its terminator. A trailing
// unterminated record counts as a line. The slices alias data, so callers
// must treat them as read-only.
func SplitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}

	lines := make([][]byte, 0, bytes.Count(data, []byte{'\n'})+1)
	start := 0
	for start < len(data) {
		i := bytes.IndexByte(data[start:], '\n')
		if i < 0 {
			lines = append(lines, data[start:])
			break
		}
		lines = append(lines, data[start:start+i+1])
		start += i + 1
	}
	return lines
}

// scanPartition matches one partition's lines against the filter keys.
// Keys arrive sorted, so when a line contains several of them the credit
// goes to the lexicographically smallest. A panic inside the loop is
// contained here: the partition comes back empty and marked failed.
func scanPartition(lines [][]byte, part partition.Partition, keys []string) (result MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = MatchResult{Index: part.Index, Counts: map[string]int{}, Failed: true}
		}
	}()

	needles := make([][]byte, len(keys))
	for i, key := range keys {
		needles[i] = []byte(key)
	}

	result = MatchResult{Index: part.Index, Counts: make(map[string]int, len(keys))}
	for _, line := range lines[part.Start:part.End] {
		for i, needle := range needles {
			if bytes.Contains(line, needle) {
				result.Matched = append(result.Matched, line)
				result.Counts[keys[i]]++
				break
			}
		}
	}
	return result
}

func worker(id int, logger *slog.Logger, lines [][]byte, keys []string, wg *sync.WaitGroup, jobs <-chan partition.Partition, results chan<- MatchResult, updates chan<- int) {
	defer wg.Done()
	for part := range jobs {
		logger.Debug("Worker scanning partition", "worker_id", id, "partition", part.Index, "lines", part.Lines())
		result := scanPartition(lines, part, keys)
		if result.Failed {
			logger.Warn("Worker failed on partition, continuing without it", "worker_id", id, "partition", part.Index)
		}
		updates <- len(result.Matched)
		results <- result
	}
}

// Run scans all partitions with a pool of workerCount workers and merges the
// results in partition order. Every channel is buffered to the partition
// count, so workers never block and a stalled reporter cannot stall a scan.
func Run(logger *slog.Logger, lines [][]byte, parts []partition.Partition, spec filterspec.Spec, workerCount int, reporter progress.Reporter) Aggregate {
	if len(parts) == 0 {
		reporter.Finish()
		return Aggregate{Counts: map[string]int{}}
	}
	if workerCount > len(parts) {
		workerCount = len(parts)
	}

	keys := spec.Keys()
	logger.Info("Starting scan phase", "partitions", len(parts), "workers", workerCount, "filter_keys", len(keys))

	var wg sync.WaitGroup
	jobs := make(chan partition.Partition, len(parts))
	results := make(chan MatchResult, len(parts))
	updates := make(chan int, len(parts))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, lines, keys, &wg, jobs, results, updates)
	}

	reported := make(chan struct{})
	go func() {
		for n := range updates {
			reporter.Add(n)
		}
		close(reported)
	}()

	for _, part := range parts {
		jobs <- part
	}
	close(jobs)

	wg.Wait()
	close(results)
	close(updates)
	<-reported
	reporter.Finish()

	ordered := make([]MatchResult, len(parts))
	for result := range results {
		ordered[result.Index] = result
	}

	var agg Aggregate
	intermediate := make([]map[string]int, 0, len(ordered))
	for _, result := range ordered {
		if result.Failed {
			agg.FailedPartitions++
			continue
		}
		agg.Matched = append(agg.Matched, result.Matched...)
		intermediate = append(intermediate, result.Counts)
	}
	agg.Counts = mapreduce.Reduce(intermediate)
	agg.Total = len(agg.Matched)

	logger.Info("Scan phase complete", "matched", agg.Total, "failed_partitions", agg.FailedPartitions)
	return agg
}
