package main

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// ctlConfig is the thin demo binding's own configuration: where to load
// phrases from and how big the LRU must-cache should be. It is entirely
// separate from the FuzzDex engine, which takes no configuration of its
// own (spec §6: "No CLI, no environment variables, no persisted state" —
// that contract is about the engine, not this adapter).
type ctlConfig struct {
	PhrasesPath string
	CacheSize   int
}

func defaultCtlConfig() ctlConfig {
	return ctlConfig{
		PhrasesPath: "phrases.yaml",
		CacheSize:   1000,
	}
}

// loadCtlConfig reads a KDL document shaped like:
//
//	phrases "testdata/cities.yaml"
//	cache_size 1000
//
// Missing file returns defaults, matching the teacher's LoadKDL behavior of
// falling back silently when no config is present.
func loadCtlConfig(path string) (ctlConfig, error) {
	cfg := defaultCtlConfig()

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "phrases":
			if s, ok := firstStringArg(n); ok {
				cfg.PhrasesPath = s
			}
		case "cache_size":
			if v, ok := firstIntArg(n); ok {
				cfg.CacheSize = v
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
