package main

import (
	"fmt"
	"strings"
)

type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type csvSlice []string

func (s *csvSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *csvSlice) Set(v string) error {
	parts := strings.Split(v, ",")
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			*s = append(*s, trimmed)
		}
	}
	return nil
}

// kvSlice collects repeatable key=value pairs in the order given.
type kvSlice []kv

type kv struct {
	Key   string
	Value string
}

func (s *kvSlice) String() string {
	parts := make([]string, 0, len(*s))
	for _, p := range *s {
		parts = append(parts, p.Key+"="+p.Value)
	}
	return strings.Join(parts, ",")
}

func (s *kvSlice) Set(v string) error {
	key, val, ok := strings.Cut(v, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	*s = append(*s, kv{Key: key, Value: val})
	return nil
}
