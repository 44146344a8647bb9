package sam

import (
	"sync"

	"github.com/biogo/hts/bam"
	"github.com/guigolab/alncol/fatal"
	log "github.com/sirupsen/logrus"
)

// Source gives access to the alignments of a list of BAM files, each
// identified by its position in the list.
type Source struct {
	Files []string
	cpu   int

	mu      []sync.Mutex
	indices []*bam.Index
}

func NewSource(files []string, cpu int) *Source {
	return &Source{
		Files:   files,
		cpu:     cpu,
		mu:      make([]sync.Mutex, len(files)),
		indices: make([]*bam.Index, len(files)),
	}
}

// Len returns the number of files.
func (s *Source) Len() int {
	return len(s.Files)
}

// Open returns a new Reader on file fileID.
func (s *Source) Open(fileID int) (*Reader, error) {
	if fileID < 0 || fileID >= len(s.Files) {
		return nil, fatal.E(fatal.FileOpen, "sam.Open", "no file with id %d", fileID)
	}
	return NewReader(s.Files[fileID], fileID, s.cpu)
}

// Scan calls fn for every record of file fileID in file order.
func (s *Source) Scan(fileID int, fn func(*Record) error) error {
	r, err := s.Open(fileID)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Scan(fn)
}

// EnsureIndex makes the index of file fileID available, creating it when
// absent. Creating an index requires closing and reopening the file before
// it can be located. Calls for the same file are serialized and only the
// first one does any work.
func (s *Source) EnsureIndex(fileID int) error {
	if fileID < 0 || fileID >= len(s.Files) {
		return fatal.E(fatal.FileOpen, "sam.EnsureIndex", "no file with id %d", fileID)
	}
	s.mu[fileID].Lock()
	defer s.mu[fileID].Unlock()
	if s.indices[fileID] != nil {
		return nil
	}

	r, err := s.Open(fileID)
	if err != nil {
		return err
	}
	if !r.LocateIndex() {
		r.Close()
		if err := CreateIndex(s.Files[fileID]); err != nil {
			return fatal.Wrap(fatal.IndexCreate, "sam.EnsureIndex", err)
		}
		log.WithFields(log.Fields{
			"File": s.Files[fileID],
		}).Debug("Reopening file after index creation")
		if r, err = s.Open(fileID); err != nil {
			return err
		}
		if !r.LocateIndex() {
			r.Close()
			return fatal.E(fatal.IndexLocate, "sam.EnsureIndex", "failed to locate index of %s", s.Files[fileID])
		}
	}
	s.indices[fileID] = r.Index
	return r.Close()
}

// Query returns the mapped records of file fileID overlapping the inclusive
// interval [start, end] of reference refID, in file order. EnsureIndex
// must have been called for the file.
func (s *Source) Query(fileID, refID, start, end int) ([]*Record, error) {
	if fileID < 0 || fileID >= len(s.Files) {
		return nil, fatal.E(fatal.FileOpen, "sam.Query", "no file with id %d", fileID)
	}
	s.mu[fileID].Lock()
	idx := s.indices[fileID]
	s.mu[fileID].Unlock()
	if idx == nil {
		return nil, fatal.E(fatal.IndexLocate, "sam.Query", "index of %s not ready", s.Files[fileID])
	}

	r, err := s.Open(fileID)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	r.Index = idx

	refs := r.Refs()
	if refID < 0 || refID >= len(refs) {
		return nil, fatal.E(fatal.UnknownReference, "sam.Query", "no reference with id %d in %s", refID, s.Files[fileID])
	}
	it, err := r.Region(refs[refID], start, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var records []*Record
	for it.Next() {
		records = append(records, it.Record())
	}
	return records, it.Error()
}
