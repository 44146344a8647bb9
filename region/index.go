package region

import (
	"io"
	"os"

	"github.com/dhconnelly/rtreego"
	"github.com/guigolab/alncol/fatal"
	log "github.com/sirupsen/logrus"
)

// Index is a map of per-reference Rtrees of merged target regions.
type Index map[string]*rtreego.Rtree

// Load reads the BED file at path and builds the Index.
func Load(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fatal.Wrap(fatal.FileOpen, "region.Load", err)
	}
	defer f.Close()
	r, err := NewReader(f)
	if err != nil {
		return nil, fatal.Wrap(fatal.FileOpen, "region.Load", err)
	}
	return build(r)
}

func build(r *Reader) (Index, error) {
	byChr := make(map[string][]*Region)
	n := 0
	for {
		reg, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		byChr[reg.Chr()] = append(byChr[reg.Chr()], reg)
		n++
	}
	idx, err := newIndex(byChr)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"Regions":    n,
		"References": len(idx),
	}).Debug("Target regions loaded")
	return idx, nil
}

// NewIndex builds an Index over regions, merging overlapping ones.
func NewIndex(regions []*Region) (Index, error) {
	byChr := make(map[string][]*Region)
	for _, reg := range regions {
		byChr[reg.Chr()] = append(byChr[reg.Chr()], reg)
	}
	return newIndex(byChr)
}

func newIndex(byChr map[string][]*Region) (Index, error) {
	idx := make(Index, len(byChr))
	for chr, regions := range byChr {
		merged, err := Merge(regions)
		if err != nil {
			return nil, err
		}
		objs := make([]rtreego.Spatial, len(merged))
		for i, m := range merged {
			objs[i] = m
		}
		idx[chr] = rtreego.NewTree(1, 25, 50, objs...)
	}
	return idx, nil
}

// Query returns the regions of chr overlapping [begin, end).
func (idx Index) Query(chr string, begin, end float64) []*Region {
	tree, ok := idx[chr]
	if !ok || end <= begin {
		return nil
	}
	bb, err := rtreego.NewRect(rtreego.Point{begin}, []float64{end - begin})
	if err != nil {
		return nil
	}
	var out []*Region
	for _, s := range tree.SearchIntersect(bb) {
		if reg := s.(*Region); reg.Overlaps(begin, end) {
			out = append(out, reg)
		}
	}
	return out
}

// Overlaps reports whether the inclusive interval [start, end] of chr
// overlaps a target region. A nil Index accepts everything.
func (idx Index) Overlaps(chr string, start, end int) bool {
	if idx == nil {
		return true
	}
	return len(idx.Query(chr, float64(start), float64(end)+1)) > 0
}

// Contains reports whether position pos of chr is in a target region.
// A nil Index accepts everything.
func (idx Index) Contains(chr string, pos int) bool {
	return idx.Overlaps(chr, pos, pos)
}
