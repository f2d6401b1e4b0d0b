package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// RunInfo is one entry of the run index file kept beside the exports.
type RunInfo struct {
	RunID       int64     `yaml:"run_id,omitempty"`
	Created     time.Time `yaml:"created"`
	CSVPath     string    `yaml:"csv_path"`
	UniquePages int       `yaml:"unique_pages"`
	Enhanced    bool      `yaml:"enhanced"`
	TXTPath     string    `yaml:"txt_path,omitempty"`
	Status      string    `yaml:"status"`
}

// RunIndex is the exports/index.yaml file: a human-scannable history that
// survives without the database.
type RunIndex struct {
	Runs []RunInfo `yaml:"runs"`
}

func runIndexPath(outputDir string) string {
	return filepath.Join(outputDir, "index.yaml")
}

// UpdateRunIndex appends a run entry to the index, newest first.
func UpdateRunIndex(outputDir string, info RunInfo) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	indexPath := runIndexPath(outputDir)

	var index RunIndex
	data, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read run index: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &index); err != nil {
			return fmt.Errorf("failed to parse run index: %w", err)
		}
	}

	index.Runs = append(index.Runs, info)
	sort.SliceStable(index.Runs, func(i, j int) bool {
		return index.Runs[i].Created.After(index.Runs[j].Created)
	})

	output, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("failed to marshal run index: %w", err)
	}
	if err := os.WriteFile(indexPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write run index: %w", err)
	}
	return nil
}
