// Package cache memoizes an analyzed Grammar to disk, keyed by a
// content hash of the grammar source text, so a caller compiling the
// same grammar source repeatedly across process runs can skip
// grammarparser and analyzer entirely on a cache hit.
package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/ava12/floyd/analyzer"
	fderrors "github.com/ava12/floyd/errors"
)

// Key is a blake2b-256 content hash of a grammar's source text, the
// lookup key a Cache stores and retrieves compiled Grammars under.
type Key [32]byte

// NewKey hashes grammarSource into a Key. Two byte-identical grammar
// sources always produce the same Key; any difference, including
// whitespace, produces a different one — there is no normalization.
func NewKey (grammarSource []byte) Key {
	return Key(blake2b.Sum256(grammarSource))
}

// String returns the Key as a lowercase hex string, the form used for
// its on-disk file name.
func (k Key) String () string {
	return hex.EncodeToString(k[:])
}

// ErrMiss is returned by Get when key has no cached entry.
var ErrMiss = errors.New("cache: miss")

// Cache is a directory of cbor-encoded compiled grammars, one file per
// Key. It is safe for concurrent use: Get and Put each touch exactly
// one file per call.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir, creating dir (and any missing
// parents) if it does not exist yet.
func Open (dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path (key Key) string {
	return filepath.Join(c.dir, key.String()+".cbor")
}

// Get returns the Grammar stored under key, or ErrMiss if Put has
// never been called for it (or its file was removed since).
func (c *Cache) Get (key Key) (*analyzer.Grammar, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var w wireGrammar
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fderrors.Format(fderrors.CacheErrors, "corrupt cache entry %s: %s", key, err)
	}
	return w.toGrammar(), nil
}

// Put stores g under key, overwriting any entry already there. g must
// be the direct result of analyzer.Analyze — Put does not re-validate
// it.
func (c *Cache) Put (key Key, g *analyzer.Grammar) error {
	w, err := toWireGrammar(g)
	if err != nil {
		return fderrors.Format(fderrors.CacheErrors, "cannot cache grammar: %s", err)
	}
	data, err := cbor.Marshal(w)
	if err != nil {
		return fderrors.Format(fderrors.CacheErrors, "cannot encode grammar: %s", err)
	}
	return os.WriteFile(c.path(key), data, 0o644)
}
