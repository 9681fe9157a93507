package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long an entry stays live after it is stored.
const DefaultTTL = 600 * time.Second

// Store maps a canonical request string to a previously extracted payload on
// disk, one <key>.meta.json / <key>.body pair per key where key is
// sha256(source). Entries older than TTL are treated as absent; they are
// never deleted eagerly, only overwritten by the next Save. The Store owns
// entry lifetime exclusively.
type Store struct {
	Dir string
	// TTL after which an entry is treated as absent. Zero means DefaultTTL.
	TTL time.Duration
	// Now is the clock used for expiry checks; nil means time.Now. Tests
	// inject a fake clock here.
	Now func() time.Time
}

type entryMeta struct {
	Source  string    `json:"source"`
	SavedAt time.Time `json:"saved_at"`
}

func (s *Store) ensureDir() error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s *Store) key(source string) string {
	h := sha256.Sum256([]byte(source))
	return hex.EncodeToString(h[:])
}

func (s *Store) metaPath(key string) string { return filepath.Join(s.Dir, key+".meta.json") }
func (s *Store) bodyPath(key string) string { return filepath.Join(s.Dir, key+".body") }

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

// Lookup returns the payload stored for source, or ok=false when the entry
// is missing, unreadable, or at least TTL old. An expired entry's files stay
// on disk until the next Save overwrites them.
func (s *Store) Lookup(_ context.Context, source string) ([]byte, bool) {
	if s == nil || s.Dir == "" {
		return nil, false
	}
	key := s.key(source)
	f, err := os.Open(s.metaPath(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()
	var meta entryMeta
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, false
	}
	if s.now().Sub(meta.SavedAt) >= s.ttl() {
		return nil, false
	}
	payload, err := os.ReadFile(s.bodyPath(key))
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Save overwrites the entry for source. Body and meta are each written to a
// temporary name and renamed, so a reader in another process never observes
// a partial entry; the body lands before the meta that references it.
func (s *Store) Save(_ context.Context, source string, payload []byte) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	key := s.key(source)
	if err := writeAtomic(s.bodyPath(key), payload); err != nil {
		return err
	}
	meta, err := json.Marshal(entryMeta{Source: source, SavedAt: s.now().UTC()})
	if err != nil {
		return err
	}
	return writeAtomic(s.metaPath(key), meta)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
