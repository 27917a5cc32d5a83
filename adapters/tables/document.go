package tables

import (
	"fmt"
	"os"

	"gochance/domain/weighted"

	"gopkg.in/yaml.v3"
)

// readDocument decodes a YAML table. JSON tables go through the same decoder
// since JSON is valid YAML.
func readDocument(path string) (*weighted.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var table weighted.Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &table, nil
}
