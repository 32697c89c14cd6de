// Encoding for dictionary blobs.
//
// Each dictionary is stored as one JSON document under its name. The
// fingerprint is an xxhash64 over the folding mode and the ordered patterns,
// each terminated by a NUL byte, so it changes whenever the automaton built
// from the dictionary would change.
package bbolt

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
)

// Fingerprint hashes everything that determines the automaton built from
// dict: the folding mode and the patterns in order.
func Fingerprint(dict *ports.Dictionary) uint64 {
	d := xxhash.New()
	if dict.CaseSensitive {
		d.Write([]byte{1})
	} else {
		d.Write([]byte{0})
	}
	for _, p := range dict.Patterns {
		d.WriteString(p)
		d.Write([]byte{0})
	}
	return d.Sum64()
}

func encodeDictionary(dict *ports.Dictionary) ([]byte, error) {
	data, err := json.Marshal(dict)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal dictionary %q", dict.Name)
	}
	return data, nil
}

func decodeDictionary(data []byte) (*ports.Dictionary, error) {
	var dict ports.Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, errors.Wrap(err, "unmarshal dictionary")
	}
	return &dict, nil
}
