package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// phraseRecord is one entry in the YAML phrase source file:
//
//	- text: Warsaw
//	  index: 1
//	  constraints: [1, 2, 3]
type phraseRecord struct {
	Text        string  `yaml:"text"`
	Index       int32   `yaml:"index"`
	Constraints []int32 `yaml:"constraints"`
}

func loadPhrases(path string) ([]phraseRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read phrase file %s: %w", path, err)
	}

	var records []phraseRecord
	if err := yaml.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("failed to parse phrase file %s: %w", path, err)
	}
	return records, nil
}
