package snapshots

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// manifestMu serializes read-modify-write of manifest.json across writers sharing a base path.
var manifestMu sync.Mutex

// Manifest tracks snapshot metadata.
type Manifest struct {
	Version     int               `json:"version"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Kinds       map[Kind]KindMeta `json:"kinds"`
}

// KindMeta describes the persisted entries of one kind.
type KindMeta struct {
	Keys          []string  `json:"keys"`
	LastRefreshed time.Time `json:"lastRefreshed"`
	RetentionDays int       `json:"retentionDays"`
}

func defaultManifest() Manifest {
	return Manifest{
		Version:     2,
		GeneratedAt: time.Now().UTC(),
		Kinds:       make(map[Kind]KindMeta),
	}
}

// ReadManifest loads the manifest under basePath, returning a fresh one when absent or unreadable.
func ReadManifest(basePath string) (Manifest, error) {
	f, err := os.Open(manifestPath(basePath))
	if err != nil {
		return defaultManifest(), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(), err
	}
	if m.Kinds == nil {
		m.Kinds = make(map[Kind]KindMeta)
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	path := manifestPath(basePath)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
