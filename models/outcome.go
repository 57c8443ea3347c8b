package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Hits holds the total matched line count plus per-keyword counts for one
// filter invocation. First-match-wins scanning guarantees the per-key counts
// sum to Total.
type Hits struct {
	Total int
	ByKey map[string]int
}

// MarshalJSON emits the hits object with "total" first, followed by keys
// sorted descending by count (ties ascending by key). Keys with zero matches
// are omitted. The order is part of the metadata contract, which is why the
// default map marshaling (alphabetical) cannot be used.
func (h Hits) MarshalJSON() ([]byte, error) {
	type kv struct {
		key   string
		count int
	}
	ranked := make([]kv, 0, len(h.ByKey))
	for k, c := range h.ByKey {
		if c > 0 {
			ranked = append(ranked, kv{key: k, count: c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	fmt.Fprintf(&buf, `"total":%d`, h.Total)
	for _, e := range ranked {
		keyJSON, err := json.Marshal(e.key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal hit key: %w", err)
		}
		buf.WriteByte(',')
		buf.Write(keyJSON)
		fmt.Fprintf(&buf, ":%d", e.count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a hits object back; ordering is irrelevant on the way
// in.
func (h *Hits) UnmarshalJSON(data []byte) error {
	raw := map[string]int{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	h.ByKey = make(map[string]int, len(raw))
	for k, v := range raw {
		if k == "total" {
			h.Total = v
			continue
		}
		h.ByKey[k] = v
	}
	return nil
}

// OutcomeMeta describes the context of a filter invocation: the filter file
// used, when it ran, and a fresh snapshot of the source log.
type OutcomeMeta struct {
	Filter     string   `json:"filter"`
	FilteredAt string   `json:"filtered_at"`
	File       FileInfo `json:"file"`
}

// FilterOutcome is the persisted result of one filter invocation. It is
// written once to a metadata artifact and never mutated afterwards.
type FilterOutcome struct {
	Hits Hits        `json:"hits"`
	Meta OutcomeMeta `json:"meta"`

	// FailedPartitions counts workers that faulted during the run. The
	// outcome is still complete for the surviving partitions; the count is
	// surfaced to callers but kept out of the persisted artifact shape.
	FailedPartitions int `json:"-"`

	// Artifact locations, filled in by the assembler for callers.
	OutputDir    string `json:"-"`
	FilteredLog  string `json:"-"`
	MetadataFile string `json:"-"`
}
