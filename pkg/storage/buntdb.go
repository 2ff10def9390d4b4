// Package storage persists named drawing layouts. The wire format stored
// per layout is exactly what the engine exports, so a saved layout can be
// re-imported on any chart.
package storage

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/tidwall/buntdb"
)

const (
	layoutPrefix = "layout:"

	// updatedIndex orders layouts by their save timestamp.
	updatedIndex = "layout_updated"
)

// ErrLayoutNotFound is returned when loading a name that was never saved.
var ErrLayoutNotFound = errors.New("layout not found")

// LayoutStore keeps drawing layouts in a BuntDB database, in memory or on
// disk.
type LayoutStore struct {
	db *buntdb.DB
}

// NewFromMemory creates an in-memory layout store.
func NewFromMemory() (*LayoutStore, error) {
	return newStore(":memory:")
}

// NewFromFile creates a file-backed layout store.
func NewFromFile(file string) (*LayoutStore, error) {
	return newStore(file)
}

func newStore(source string) (*LayoutStore, error) {
	db, err := buntdb.Open(source)
	if err != nil {
		return nil, errors.Wrap(err, "opening layout database")
	}

	if err := db.SetConfig(buntdb.Config{SyncPolicy: buntdb.EverySecond}); err != nil {
		return nil, errors.Wrap(err, "configuring layout database")
	}

	if err := db.CreateIndex(updatedIndex, layoutPrefix+"*", buntdb.IndexJSON("timestamp")); err != nil {
		return nil, errors.Wrap(err, "creating layout index")
	}

	return &LayoutStore{db: db}, nil
}

// Save writes a layout under a name, replacing any previous version.
func (s *LayoutStore) Save(name string, layout drawing.Layout) error {
	if name == "" {
		return errors.New("layout name is required")
	}

	content, err := json.Marshal(layout)
	if err != nil {
		return errors.Wrap(err, "marshaling layout")
	}

	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(layoutPrefix+name, string(content), nil)
		return errors.Wrap(err, "storing layout")
	})
}

// Load reads a layout by name.
func (s *LayoutStore) Load(name string) (drawing.Layout, error) {
	var layout drawing.Layout

	err := s.db.View(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(layoutPrefix + name)
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return ErrLayoutNotFound
			}
			return errors.Wrap(err, "reading layout")
		}

		return errors.Wrap(json.Unmarshal([]byte(raw), &layout), "decoding layout")
	})

	return layout, err
}

// LoadJSON reads the raw wire-format bytes of a layout, ready to feed to
// Engine.ImportObjects.
func (s *LayoutStore) LoadJSON(name string) ([]byte, error) {
	var raw string

	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(layoutPrefix + name)
		if errors.Is(err, buntdb.ErrNotFound) {
			return ErrLayoutNotFound
		}
		return errors.Wrap(err, "reading layout")
	})
	if err != nil {
		return nil, err
	}

	return []byte(raw), nil
}

// List returns the saved layout names ordered by save time, oldest first.
func (s *LayoutStore) List() ([]string, error) {
	var names []string

	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(updatedIndex, func(key, _ string) bool {
			names = append(names, strings.TrimPrefix(key, layoutPrefix))
			return true
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing layouts")
	}

	return names, nil
}

// Delete removes a layout by name. Deleting a missing layout is not an
// error.
func (s *LayoutStore) Delete(name string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(layoutPrefix + name)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "deleting layout")
	})
}

// Close releases the underlying database.
func (s *LayoutStore) Close() error {
	return s.db.Close()
}
