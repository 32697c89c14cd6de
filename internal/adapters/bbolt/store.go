// Package bbolt implements the ports.DictionaryStore interface using bbolt
// (embedded B+ tree). All dictionaries live in one "dictionaries" bucket keyed
// by name. Writes are transactional: a crash mid-write cannot corrupt
// previously committed data.
package bbolt

import (
	"sort"
	"time"

	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketDictionaries = []byte("dictionaries")
)

// Store implements ports.DictionaryStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
// Opening fails after one second if another process holds the file lock.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "bbolt open")
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDictionary persists a dictionary under its name, stamping its
// fingerprint and update time.
func (s *Store) SaveDictionary(dict *ports.Dictionary) error {
	if dict == nil {
		return errors.New("nil dictionary")
	}
	if dict.Name == "" {
		return errors.New("dictionary name is empty")
	}

	dict.Fingerprint = Fingerprint(dict)
	dict.Updated = s.now().UTC()

	data, err := encodeDictionary(dict)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDictionaries)
		if err != nil {
			return err
		}
		return b.Put([]byte(dict.Name), data)
	})
}

// LoadDictionary retrieves a dictionary by name.
// Returns ports.ErrDictionaryNotFound if it does not exist.
func (s *Store) LoadDictionary(name string) (*ports.Dictionary, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Wrapf(ports.ErrDictionaryNotFound, "%q", name)
	}
	return decodeDictionary(data)
}

// ListDictionaries returns all dictionary names in sorted order.
func (s *Store) ListDictionaries() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DeleteDictionary removes a dictionary.
// Idempotent: deleting a nonexistent dictionary is not an error.
func (s *Store) DeleteDictionary(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}
