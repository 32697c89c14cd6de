// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"errors"
	"time"
)

// ErrDictionaryNotFound is returned when a named dictionary does not exist.
var ErrDictionaryNotFound = errors.New("dictionary not found")

// DictionaryStore persists named keyword dictionaries to durable storage.
// Only the pattern lists are stored; automatons are always rebuilt from them.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveDictionary must be transactional. A crash mid-write must
// not corrupt previously committed dictionaries.
type DictionaryStore interface {
	// SaveDictionary persists a dictionary, overwriting any prior dictionary
	// with the same name. The store stamps Fingerprint and Updated.
	SaveDictionary(dict *Dictionary) error

	// LoadDictionary retrieves a dictionary by name.
	// Returns ErrDictionaryNotFound if it does not exist.
	LoadDictionary(name string) (*Dictionary, error)

	// ListDictionaries returns the names of all stored dictionaries, sorted.
	ListDictionaries() ([]string, error)

	// DeleteDictionary removes a dictionary.
	// Idempotent: deleting a nonexistent dictionary is not an error.
	DeleteDictionary(name string) error
}

// Dictionary is a named, ordered list of keyword patterns plus the folding
// mode the automaton must be built with. Pattern order defines keyword ids.
type Dictionary struct {
	Name          string    `json:"name"`
	CaseSensitive bool      `json:"case_sensitive"`
	Patterns      []string  `json:"patterns"`
	Fingerprint   uint64    `json:"fingerprint"`
	Updated       time.Time `json:"updated"`
}
