// ABOUTME: Data migration between health storage backends.
// ABOUTME: Copies every record collection from source to destination.
package storage

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// MigrateData copies all records from src to dst. The destination should be empty
// before calling this function.
func MigrateData(src, dst Repository) (*ImportSummary, error) {
	data, err := GetAllData(src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	summary, err := ImportData(dst, data)
	if err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	log.Info("migration complete", "records", summary.Total())
	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
