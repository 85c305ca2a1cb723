// Package boltdb keeps login sessions in an embedded BoltDB file so a single
// binary can run without Redis.
package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

const defaultBucket = "sessions"

// SessionStore persists sessions keyed by id, JSON encoded.
type SessionStore struct {
	db     *bolt.DB
	bucket []byte
	ttl    time.Duration
	now    func() time.Time
}

// Open initializes the BoltDB file and ensures the session bucket exists.
func Open(path string, ttl time.Duration) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte(defaultBucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{
		db:     db,
		bucket: bucket,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var session *domain.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(id))
		if v == nil {
			return domain.ErrSessionNotFound
		}
		session = &domain.Session{}
		return json.Unmarshal(v, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(s.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(session.ID), payload)
	})
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(id))
	})
}

// Extend moves the expiry of an existing session to now plus ttlSeconds.
func (s *SessionStore) Extend(_ context.Context, id string, ttlSeconds int) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	duration := time.Duration(ttlSeconds) * time.Second
	if duration <= 0 {
		duration = s.ttl
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		v := b.Get([]byte(id))
		if v == nil {
			return domain.ErrSessionNotFound
		}
		var session domain.Session
		if err := json.Unmarshal(v, &session); err != nil {
			return err
		}
		session.ExpiresAt = s.now().Add(duration)
		payload, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), payload)
	})
}

// Cleanup removes sessions that expired at or before now and reports how many
// were dropped. Undecodable entries are dropped as well.
func (s *SessionStore) Cleanup(now time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var session domain.Session
			if err := json.Unmarshal(v, &session); err != nil || session.IsExpired(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Size returns the number of stored sessions, expired ones included.
func (s *SessionStore) Size() (int, error) {
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

// Ping verifies the file is still open and readable.
func (s *SessionStore) Ping(_ context.Context) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

func (s *SessionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ repository.SessionRepository = (*SessionStore)(nil)
