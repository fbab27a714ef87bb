package snapshots

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind names one family of persisted cache entries.
type Kind string

const (
	// KindDates holds fixtures keyed by match date.
	KindDates Kind = "dates"
	// KindMonths holds result batches keyed by month.
	KindMonths Kind = "months"
)

// EntryPath builds the path to a persisted cache entry.
func EntryPath(basePath string, kind Kind, key string) string {
	return filepath.Join(basePath, string(kind), fmt.Sprintf("%s.json", key))
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("snapshot key required")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid snapshot key %q", key)
	}
	return nil
}
