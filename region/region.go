// Package region reads target regions from BED files and indexes them per
// reference for overlap queries.
package region

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"golang.org/x/exp/slices"
)

// Region is a half-open interval [Start, End) on a reference.
type Region struct {
	location *rtreego.Rect
	chr      string
	name     string
}

// New returns a Region. The interval must not be empty.
func New(chr, name string, begin, end float64) (*Region, error) {
	rect, err := rtreego.NewRect(rtreego.Point{begin}, []float64{end - begin})
	if err != nil {
		return nil, err
	}
	return &Region{location: rect, chr: chr, name: name}, nil
}

// Chr returns the reference of the region
func (r *Region) Chr() string {
	return r.chr
}

func (r *Region) Name() string {
	return r.name
}

// Start returns the start position of the region
func (r *Region) Start() float64 {
	return r.location.PointCoord(0)
}

// End returns the end position of the region
func (r *Region) End() float64 {
	return r.location.LengthsCoord(0) + r.Start()
}

// Bounds returns the location of the region. It is used within the Rtree.
func (r *Region) Bounds() *rtreego.Rect {
	return r.location
}

// Overlaps reports whether r shares at least one position with [begin, end).
func (r *Region) Overlaps(begin, end float64) bool {
	return r.Start() < end && begin < r.End()
}

// String returns the string representation of a Region
func (r *Region) String() string {
	return fmt.Sprintf("%s:%.0f-%.0f", r.chr, r.Start(), r.End())
}

// Merge sorts regions by start and merges the overlapping or adjacent ones.
func Merge(regions []*Region) ([]*Region, error) {
	sorted := slices.Clone(regions)
	slices.SortFunc(sorted, func(a, b *Region) int {
		switch {
		case a.Start() < b.Start():
			return -1
		case a.Start() > b.Start():
			return 1
		}
		return 0
	})
	var out []*Region
	for _, r := range sorted {
		if n := len(out); n > 0 && r.Start() <= out[n-1].End() {
			last := out[n-1]
			if r.End() > last.End() {
				merged, err := New(last.chr, last.name, last.Start(), r.End())
				if err != nil {
					return nil, err
				}
				out[n-1] = merged
			}
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
