// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// RunReport is the on-disk record of one ingestion run. Saving a report
// after each scheduled run gives an audit trail without a database.
type RunReport struct {
	Categories []string    `yaml:"categories"`
	MaxResults int         `yaml:"max_results"`
	DaysBack   int         `yaml:"days_back,omitempty"`
	Enrichment string      `yaml:"enrichment,omitempty"`
	Result     BatchResult `yaml:"result"`
	StartedAt  time.Time   `yaml:"started_at"`
	FinishedAt time.Time   `yaml:"finished_at"`
}

// WriteRunReport saves an ingestion run report to a YAML file.
func WriteRunReport(path string, report RunReport) error {
	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunReport loads a previously saved run report from disk.
func ReadRunReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run report: %w", err)
	}
	var report RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing run report: %w", err)
	}
	return &report, nil
}
