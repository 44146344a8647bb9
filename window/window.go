// Package window splits references into windows and gathers the alignments
// overlapping each of them.
package window

import (
	"fmt"

	"github.com/guigolab/alncol/reference"
	"github.com/guigolab/alncol/sam"
	"github.com/guigolab/alncol/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Window is the inclusive 0-based interval [Start, End] of reference Name,
// together with the files declaring the reference.
type Window struct {
	Index int
	Name  string
	Start int
	End   int
	Files []reference.FileRef
}

// Len returns the number of positions of the window.
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// Grow returns the window extended by n positions on the left, not
// going below position 0.
func (w Window) Grow(n int) Window {
	w.Start = utils.Max(0, w.Start-n)
	return w
}

func (w Window) String() string {
	return fmt.Sprintf("%s:%d-%d", w.Name, w.Start+1, w.End+1)
}

// Tile splits every reference of catalog into windows of size positions,
// in catalog order. The last window of a reference may be shorter.
func Tile(catalog *reference.Catalog, size int) []Window {
	var windows []Window
	for _, ref := range catalog.Refs() {
		for start := 0; start < ref.Len; start += size {
			windows = append(windows, Window{
				Index: len(windows),
				Name:  ref.Name,
				Start: start,
				End:   utils.Min(start+size, ref.Len) - 1,
				Files: ref.Files,
			})
		}
	}
	return windows
}

// Source provides indexed access to alignment files.
type Source interface {
	EnsureIndex(fileID int) error
	Query(fileID, refID, start, end int) ([]*sam.Record, error)
}

// Gather returns the mapped alignments overlapping w from every file
// declaring its reference, in file order. Reverse strand alignments have
// their reverse complement filled.
func Gather(src Source, w Window) ([]*sam.Record, error) {
	var alns []*sam.Record
	for _, fr := range w.Files {
		if err := src.EnsureIndex(fr.FileID); err != nil {
			return nil, err
		}
		recs, err := src.Query(fr.FileID, fr.RefID, w.Start, w.End)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if r.IsUnmapped() {
				continue
			}
			if r.IsReverse() {
				r.SetRevComp()
			}
			alns = append(alns, r)
		}
	}
	log.WithFields(log.Fields{
		"Window":     w.String(),
		"Alignments": len(alns),
	}).Debug("Alignments gathered")
	return alns, nil
}

// Ends returns the end positions of alns.
func Ends(alns []*sam.Record) []int {
	ends := make([]int, len(alns))
	for i, a := range alns {
		ends[i] = a.EndPos()
	}
	return ends
}

func byPos(a, b *sam.Record) int {
	return a.Pos - b.Pos
}

// Sorted reports whether alns are in ascending position order. Alignments
// gathered from several files are only sorted within each file; unsorted
// alignments from a single file are reported as a warning.
func Sorted(w Window, alns []*sam.Record) bool {
	if slices.IsSortedFunc(alns, byPos) {
		return true
	}
	logger := log.WithFields(log.Fields{
		"Window": w.String(),
		"Files":  len(w.Files),
	})
	if len(w.Files) > 1 {
		logger.Debug("Alignments of several files interleaved")
	} else {
		logger.Warn("Alignments not sorted by position")
	}
	return false
}

// Sort orders alns by position, keeping file order among equal positions.
func Sort(alns []*sam.Record) {
	slices.SortStableFunc(alns, byPos)
}
