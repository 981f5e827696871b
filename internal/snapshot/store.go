// Package snapshot owns the process-wide loaded state. Requests read one
// immutable snapshot; a reload builds a fresh one and swaps it atomically so
// in-flight generations never observe a half-updated table.
package snapshot

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/MichalRonowski/APApp/internal/customer"
	"github.com/MichalRonowski/APApp/internal/dataset"
	"github.com/MichalRonowski/APApp/internal/uom"
)

// Snapshot is one consistent view of the loaded inputs. Immutable after
// construction.
type Snapshot struct {
	Table     *dataset.Table
	Lookup    uom.Lookup
	Customers customer.Names
	Sources   []string
}

// Paths names the input files a snapshot is built from.
type Paths struct {
	SourceCSV     string
	UOMLookup     string
	CustomerNames string
}

// Build loads and wires all inputs. Only the source table is required; the
// two reference files degrade to empty mappings.
func Build(paths Paths) (*Snapshot, error) {
	table, err := dataset.Load(paths.SourceCSV)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	lookup := uom.BuildLookup(paths.UOMLookup)
	if len(lookup) == 0 {
		slog.Warn("unit lookup unavailable, units stay blank", "path", paths.UOMLookup)
	}
	lookup.Apply(table.Records)

	names := customer.LoadNames(paths.CustomerNames)

	return &Snapshot{
		Table:     table,
		Lookup:    lookup,
		Customers: names,
		Sources:   table.Sources(),
	}, nil
}

// Store hands out the current snapshot and accepts replacements.
type Store struct {
	mu      sync.Mutex // serializes reloads; guards paths
	paths   Paths
	current atomic.Pointer[Snapshot]
}

func NewStore(paths Paths) (*Store, error) {
	snap, err := Build(paths)
	if err != nil {
		return nil, err
	}
	s := &Store{paths: paths}
	s.current.Store(snap)
	return s, nil
}

// Current returns the active snapshot. Callers must read it once per request
// and keep using that value.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload rebuilds from the given source table path (reference files stay as
// configured) and swaps the snapshot in. On failure the previous snapshot
// remains active. Reloads are serialized, so the last successful upload is
// what readers end up seeing.
func (s *Store) Reload(sourceCSV string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.paths
	if sourceCSV != "" {
		paths.SourceCSV = sourceCSV
	}
	snap, err := Build(paths)
	if err != nil {
		return nil, err
	}
	s.paths = paths
	s.current.Store(snap)
	slog.Info("snapshot reloaded", "source", paths.SourceCSV, "records", len(snap.Table.Records))
	return snap, nil
}
