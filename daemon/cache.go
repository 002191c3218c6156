package daemon

import (
	"github.com/tidwall/buntdb"
)

// ProgramCache stores compiled program binaries under a caller-chosen string
// key (spec.md §6, supplemented per SPEC_FULL.md §6.3). The Processor holds
// one, but no request handler reads or writes it: BuildProgram always calls
// the native driver. dcld opens it in memory, so nothing survives a restart.
// Grounded on the pack's use of tidwall/buntdb as an embedded, file-backed
// key/value store.
type ProgramCache struct {
	db *buntdb.DB
}

// OpenProgramCache opens (creating if absent) the on-disk cache at path. An
// empty path opens an in-memory-only cache, useful for tests and for
// daemons that intentionally never persist binaries across restarts.
func OpenProgramCache(path string) (*ProgramCache, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &ProgramCache{db: db}, nil
}

// Get returns the cached binary for key, and whether it was found.
func (c *ProgramCache) Get(key string) ([]byte, bool) {
	var val string
	err := c.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	if err != nil {
		return nil, false
	}
	return []byte(val), true
}

// Put stores binary under key, overwriting any existing entry.
func (c *ProgramCache) Put(key string, binary []byte) error {
	return c.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(binary), nil)
		return err
	})
}

func (c *ProgramCache) Close() error { return c.db.Close() }
