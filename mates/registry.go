// Package mates records where both reads of a pair are aligned.
package mates

import (
	"github.com/guigolab/alncol/fatal"
	"github.com/guigolab/alncol/reference"
	"github.com/guigolab/alncol/sam"
	log "github.com/sirupsen/logrus"
)

// MapRecord is the alignment interval of one read of a pair.
type MapRecord struct {
	Start     int
	End       int
	FileID    int
	RefID     int
	FirstMate bool
}

// Empty reports whether the record is a placeholder for a mate not seen yet.
func (m MapRecord) Empty() bool {
	return m.Start < 0
}

// Covers reports whether the read covers reference position pos.
func (m MapRecord) Covers(pos int) bool {
	return m.Start <= pos && pos <= m.End
}

var placeholder = MapRecord{Start: -1, End: -1, FileID: -1, RefID: -1}

// MapEntry holds the two reads of a pair, the leftmost one first.
type MapEntry struct {
	First  MapRecord
	Second MapRecord
}

// Paired reports whether both reads of the pair have been seen.
func (e *MapEntry) Paired() bool {
	return !e.Second.Empty()
}

// Registry maps read names to the alignment intervals of their reads.
type Registry struct {
	entries map[string]*MapEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*MapEntry)}
}

// Add records a mapped alignment of file fileID. Reads of a pair must be
// aligned to the same reference of the same file.
func (reg *Registry) Add(fileID int, r *sam.Record) error {
	rec := MapRecord{
		Start:     r.Pos,
		End:       r.EndPos(),
		FileID:    fileID,
		RefID:     r.Ref.ID(),
		FirstMate: r.IsRead1(),
	}
	e, ok := reg.entries[r.Name]
	if !ok {
		reg.entries[r.Name] = &MapEntry{First: rec, Second: placeholder}
		return nil
	}
	if e.First.FileID != rec.FileID || e.First.RefID != rec.RefID {
		return fatal.E(fatal.MateInconsistent, "mates.Add",
			"read %s at (file %d, ref %d) but its mate at (file %d, ref %d): keep properly paired alignments only (samtools view -b -f 2)",
			r.Name, rec.FileID, rec.RefID, e.First.FileID, e.First.RefID)
	}
	if rec.Start >= e.First.Start {
		e.Second = rec
	} else {
		e.Second, e.First = e.First, rec
	}
	return nil
}

// Get returns the entry for read name.
func (reg *Registry) Get(name string) (*MapEntry, bool) {
	e, ok := reg.entries[name]
	return e, ok
}

// Overlaps reports whether both reads of pair name cover reference
// position pos.
func (reg *Registry) Overlaps(name string, pos int) bool {
	e, ok := reg.entries[name]
	if !ok || !e.Paired() {
		return false
	}
	return e.First.Covers(pos) && e.Second.Covers(pos)
}

// Len returns the number of read names in the registry.
func (reg *Registry) Len() int {
	return len(reg.entries)
}

// Paired returns the number of entries with both reads seen.
func (reg *Registry) Paired() int {
	n := 0
	for _, e := range reg.entries {
		if e.Paired() {
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (reg *Registry) Clear() {
	reg.entries = make(map[string]*MapEntry)
}

// Build scans every mapped record of every file of src. Each record must
// lie on a reference known to catalog. The registry is left empty when no
// record has a mapped mate.
func Build(src *sam.Source, catalog *reference.Catalog) (*Registry, error) {
	reg := NewRegistry()
	mapped, mateMapped := 0, 0
	for fileID := 0; fileID < src.Len(); fileID++ {
		err := src.Scan(fileID, func(r *sam.Record) error {
			if r.IsUnmapped() {
				return nil
			}
			if _, ok := catalog.Lookup(fileID, r.Ref.ID()); !ok {
				return fatal.E(fatal.UnknownReference, "mates.Build",
					"read %s: reference %d of %s not in catalog", r.Name, r.Ref.ID(), src.Files[fileID])
			}
			if r.IsMateMapped() {
				mateMapped++
			}
			mapped++
			return reg.Add(fileID, r)
		})
		if err != nil {
			return nil, err
		}
	}
	if mateMapped == 0 {
		reg.Clear()
	}
	log.WithFields(log.Fields{
		"Mapped": mapped,
		"Pairs":  mateMapped / 2,
	}).Info("Mate registry built")
	return reg, nil
}
