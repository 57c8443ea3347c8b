// Package filterspec loads keyword filter definitions. A filter file is a
// JSON object whose keys are the keywords; values are ignored, reserved for
// per-key options.
package filterspec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/valyala/fastjson"
)

var (
	// ErrInvalidFormat marks filter files that are not valid JSON objects.
	// The wrapped message carries the parser diagnostic.
	ErrInvalidFormat = errors.New("invalid filter format")

	// ErrEmpty marks filter files that parsed fine but contain no usable
	// keys. Callers treat it as a warning and skip the run.
	ErrEmpty = errors.New("no filter keys found in filter file")
)

// Spec is a deduplicated set of keyword strings. Keys are held in ascending
// lexicographic order, which is also the order workers test them in, so the
// first-match tie-break is deterministic across runs.
type Spec struct {
	keys []string
}

// Load parses the JSON object at path into a Spec.
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Spec{}, fmt.Errorf("failed to read filter file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Spec from raw JSON. The top level must be an object; its
// keys become the filter set. Empty keys are dropped, duplicates collapse.
func Parse(data []byte) (Spec, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	obj, err := v.Object()
	if err != nil {
		return Spec{}, fmt.Errorf("%w: top level is not an object", ErrInvalidFormat)
	}

	seen := make(map[string]struct{}, obj.Len())
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		if len(key) == 0 {
			return
		}
		seen[string(key)] = struct{}{}
	})

	if len(seen) == 0 {
		return Spec{}, ErrEmpty
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Spec{keys: keys}, nil
}

// Keys returns the keywords in ascending lexicographic order. The returned
// slice is shared; callers must not modify it.
func (s Spec) Keys() []string {
	return s.keys
}

// Len reports the number of keywords in the set.
func (s Spec) Len() int {
	return len(s.keys)
}
