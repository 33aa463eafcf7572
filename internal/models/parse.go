package models

import (
	"fmt"
	"strings"
)

// ParseTagPairs parses "key1:value1,key2:value2" into a tag map. Keys must be
// non-empty and unique; values may be empty. Whitespace around pairs is
// trimmed.
func ParseTagPairs(s string) (map[string]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty tag list")
	}
	tags := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("invalid tag %q (expected key:value)", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid tag %q (empty key)", pair)
		}
		if _, dup := tags[key]; dup {
			return nil, fmt.Errorf("duplicate tag key %q", key)
		}
		tags[key] = strings.TrimSpace(value)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("empty tag list")
	}
	return tags, nil
}

// ParseServices splits a comma-separated service list, uppercasing entries to
// match the bastion's service names.
func ParseServices(s string) []string {
	var out []string
	for _, svc := range strings.Split(s, ",") {
		svc = strings.ToUpper(strings.TrimSpace(svc))
		if svc != "" {
			out = append(out, svc)
		}
	}
	return out
}
