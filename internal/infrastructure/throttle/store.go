// Package throttle persists failed-login timestamps in BoltDB so repeated
// credential guessing against one username can be slowed down across restarts.
package throttle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store wraps BoltDB keyed by username, each value holding the recent
// failure timestamps for that account.
type Store struct {
	db     *bolt.DB
	bucket []byte
	window time.Duration
	limit  int
}

// Options tunes the failure window. Zero values fall back to 5 failures
// within 15 minutes.
type Options struct {
	Window time.Duration
	Limit  int
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, opts Options) (*Store, error) {
	if opts.Window <= 0 {
		opts.Window = 15 * time.Minute
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte("login_failures"))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte("login_failures"),
		window: opts.Window,
		limit:  opts.Limit,
	}, nil
}

// RecordFailure appends a failure timestamp for the username, dropping
// entries that have already aged out of the window.
func (s *Store) RecordFailure(username string, at time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if at.IsZero() {
		at = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		failures := s.decode(b.Get([]byte(username)))
		failures = s.prune(failures, at)
		failures = append(failures, at)
		payload, err := json.Marshal(failures)
		if err != nil {
			return err
		}
		return b.Put([]byte(username), payload)
	})
}

// Blocked reports whether the username has exhausted its failure budget
// inside the current window.
func (s *Store) Blocked(username string, now time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	if now.IsZero() {
		now = time.Now()
	}
	var blocked bool
	err := s.db.View(func(tx *bolt.Tx) error {
		failures := s.decode(tx.Bucket(s.bucket).Get([]byte(username)))
		blocked = len(s.prune(failures, now)) >= s.limit
		return nil
	})
	return blocked, err
}

// Reset clears recorded failures after a successful login.
func (s *Store) Reset(username string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(username))
	})
}

// Cleanup drops usernames whose failures all aged out of the window.
func (s *Store) Cleanup(now time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if now.IsZero() {
		now = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if len(s.prune(s.decode(v), now)) == 0 {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Size returns the number of throttled usernames, for monitoring.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) decode(raw []byte) []time.Time {
	if len(raw) == 0 {
		return nil
	}
	var failures []time.Time
	if err := json.Unmarshal(raw, &failures); err != nil {
		return nil
	}
	return failures
}

func (s *Store) prune(failures []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-s.window)
	kept := failures[:0]
	for _, ts := range failures {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
