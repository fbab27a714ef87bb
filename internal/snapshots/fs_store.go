package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
)

// FSStore loads persisted cache entries from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadEntry reads one entry from {basePath}/{kind}/{key}.json.
func (s *FSStore) LoadEntry(kind Kind, key string) (fixturecache.Entry, error) {
	if s == nil {
		return fixturecache.Entry{}, errors.New("snapshot store not configured")
	}
	if err := validKey(key); err != nil {
		return fixturecache.Entry{}, err
	}
	var entry fixturecache.Entry
	if err := decodeFile(EntryPath(s.basePath, kind, key), &entry); err != nil {
		return fixturecache.Entry{}, err
	}
	if entry.Key == "" {
		entry.Key = key
	}
	return entry, nil
}

// LoadEntries reads every persisted entry of kind. Unreadable files are skipped and
// reported in the returned error alongside the entries that did load.
func (s *FSStore) LoadEntries(kind Kind) ([]fixturecache.Entry, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	keys, err := listKeys(s.basePath, kind)
	if err != nil {
		return nil, err
	}

	out := make([]fixturecache.Entry, 0, len(keys))
	var errs []error
	for _, key := range keys {
		entry, err := s.LoadEntry(kind, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", kind, key, err))
			continue
		}
		out = append(out, entry)
	}
	return out, errors.Join(errs...)
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
