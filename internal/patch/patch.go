// Package patch overlays user supplied parameters onto request templates.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Merge overwrites the keys of dst that also exist in src. When both values
// are objects they are merged recursively; any other src value replaces the
// dst value. Keys of src missing from dst are not added: a template only
// accepts the fields it declares.
//
// The dotted paths of the ignored src keys are returned, sorted.
func Merge(dst, src map[string]any) []string {
	var ignored []string
	merge(dst, src, "", &ignored)
	sort.Strings(ignored)
	return ignored
}

func merge(dst, src map[string]any, prefix string, ignored *[]string) {
	for k, sv := range src {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		dv, ok := dst[k]
		if !ok {
			*ignored = append(*ignored, path)
			continue
		}

		dm, dIsMap := dv.(map[string]any)
		sm, sIsMap := sv.(map[string]any)
		if dIsMap && sIsMap {
			merge(dm, sm, path, ignored)
			continue
		}
		dst[k] = sv
	}
}

// LoadParams reads a parameter document from a JSON or YAML file. Files
// ending in .yaml or .yml are read as YAML, everything else as JSON.
func LoadParams(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params file: %w", err)
	}

	var params map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("parsing params file %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&params); err != nil {
			return nil, fmt.Errorf("parsing params file %s: %w", path, err)
		}
	}

	if params == nil {
		params = make(map[string]any)
	}
	return params, nil
}
