package decode

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteReport saves a YAML summary of a run.
func WriteReport(path string, stats Stats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func ReadReport(path string) (Stats, error) {
	var stats Stats
	data, err := os.ReadFile(path)
	if err != nil {
		return stats, err
	}
	err = yaml.Unmarshal(data, &stats)
	return stats, err
}
