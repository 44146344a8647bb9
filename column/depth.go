package column

import (
	"github.com/guigolab/alncol/sam"
	"github.com/guigolab/alncol/stats"
)

// Depth summarizes the pileup columns written by a run.
type Depth struct {
	Alignments uint64       `json:"alignments"`
	Positions  uint64       `json:"positions"`
	Covered    uint64       `json:"coveredPositions"`
	Entries    uint64       `json:"entries"`
	Reverse    uint64       `json:"reverseEntries"`
	Deletions  uint64       `json:"deletions"`
	Insertions uint64       `json:"insertions"`
	MeanDepth  float64      `json:"meanDepth"`
	Histogram  stats.TagMap `json:"depth"`
}

func NewDepth() *Depth {
	return &Depth{Histogram: make(stats.TagMap)}
}

// Collect counts an alignment contributing to the columns.
func (d *Depth) Collect(r *sam.Record) {
	d.Alignments++
}

// Add records the columns of one position.
func (d *Depth) Add(p Position) {
	d.Positions++
	d.Histogram[len(p.Column)]++
	if len(p.Column) > 0 {
		d.Covered++
	}
	for _, e := range p.Column {
		d.Entries++
		if e.Reverse {
			d.Reverse++
		}
		if e.IsDeletion() {
			d.Deletions++
		}
	}
	for _, e := range p.Ins {
		if e.IsInsertion() {
			d.Insertions++
		}
	}
}

// Update updates all counts from another Depth.
func (d *Depth) Update(other stats.Stats) {
	o, ok := other.(*Depth)
	if !ok {
		return
	}
	d.Alignments += o.Alignments
	d.Positions += o.Positions
	d.Covered += o.Covered
	d.Entries += o.Entries
	d.Reverse += o.Reverse
	d.Deletions += o.Deletions
	d.Insertions += o.Insertions
	d.Histogram.Update(o.Histogram)
}

// Merge updates counts from a channel of Stats instances.
func (d *Depth) Merge(others chan stats.Stats) {
	for other := range others {
		d.Update(other)
	}
}

// Finalize computes the mean number of entries per position.
func (d *Depth) Finalize() {
	d.MeanDepth = 0
	if d.Positions > 0 {
		d.MeanDepth = float64(d.Entries) / float64(d.Positions)
	}
}
