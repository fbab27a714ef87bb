package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// Writer persists cache entries of one kind and keeps the manifest current.
// It satisfies fixturecache.Persister and fixturecache.Resetter.
type Writer struct {
	basePath      string
	kind          Kind
	retentionDays int
	now           func() time.Time
}

// NewWriter constructs a writer rooted at basePath. Entries whose key lies more than
// retentionDays in the past are pruned; retentionDays <= 0 keeps everything.
func NewWriter(basePath string, kind Kind, retentionDays int) *Writer {
	if retentionDays < 0 {
		retentionDays = 0
	}
	return &Writer{
		basePath:      basePath,
		kind:          kind,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteEntry writes one cache entry with tmp-file + rename and prunes expired entries.
func (w *Writer) WriteEntry(entry fixturecache.Entry) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if err := validKey(entry.Key); err != nil {
		return err
	}

	target := EntryPath(w.basePath, w.kind, entry.Key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(entry.Key)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.updateManifest(entry.Key)
}

// Reset removes every persisted entry of the writer's kind.
func (w *Writer) Reset() error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if err := os.RemoveAll(filepath.Join(w.basePath, string(w.kind))); err != nil {
		return err
	}

	manifestMu.Lock()
	defer manifestMu.Unlock()
	m, _ := ReadManifest(w.basePath)
	delete(m.Kinds, w.kind)
	if err := os.MkdirAll(w.basePath, 0o755); err != nil {
		return err
	}
	return writeManifest(w.basePath, m)
}

func (w *Writer) updateManifest(key string) error {
	manifestMu.Lock()
	defer manifestMu.Unlock()

	m, _ := ReadManifest(w.basePath)
	keys, err := listKeys(w.basePath, w.kind)
	if err != nil {
		return err
	}
	if !containsKey(keys, key) {
		keys = append(keys, key)
	}

	m.Kinds[w.kind] = KindMeta{
		Keys:          w.prune(keys),
		LastRefreshed: w.now().UTC(),
		RetentionDays: w.retentionDays,
	}
	return writeManifest(w.basePath, m)
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func listKeys(basePath string, kind Kind) ([]string, error) {
	dir := filepath.Join(basePath, string(kind))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, name[:len(name)-len(".json")])
	}
	sort.Strings(keys)
	return keys, nil
}

// prune deletes entries whose key ended before the retention cutoff and returns the rest.
func (w *Writer) prune(keys []string) []string {
	sort.Strings(keys)
	if w.retentionDays <= 0 {
		return keys
	}
	now := w.now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -w.retentionDays)

	keep := make([]string, 0, len(keys))
	for _, k := range keys {
		end, ok := keyEnd(k)
		if ok && end.Before(cutoff) {
			_ = os.Remove(EntryPath(w.basePath, w.kind, k))
			continue
		}
		keep = append(keep, k)
	}
	return keep
}

// keyEnd returns the last day covered by a date or month key.
func keyEnd(key string) (time.Time, bool) {
	if d, err := timeutil.ParseDate(key); err == nil {
		return d, true
	}
	if first, err := time.Parse(timeutil.MonthLayout, key); err == nil {
		return first.AddDate(0, 1, -1), true
	}
	return time.Time{}, false
}
