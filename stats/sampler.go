package stats

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/guigolab/alncol/sam"
	"github.com/guptarohit/asciigraph"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Sampler estimates the quality range, the maximum read length and the
// fragment size distribution of a dataset from a random subset of its
// mapped records.
type Sampler struct {
	Percent    int      `json:"percent"`
	Total      uint64   `json:"total"`
	Mapped     uint64   `json:"mapped"`
	Chosen     uint64   `json:"chosen"`
	MinQ       int      `json:"minQ"`
	MaxQ       int      `json:"maxQ"`
	MaxReadLen int      `json:"maxReadLength"`
	FragMean   int      `json:"fragmentMean"`
	FragStd    fraction `json:"fragmentStd"`
	FragSizes  TagMap   `json:"fragmentSizes"`

	frags   []float64
	pending map[string]struct{}
	rnd     *rand.Rand
}

// NewSampler creates a Sampler choosing each mapped record with
// probability percent/100, drawing from rnd.
func NewSampler(percent int, rnd *rand.Rand) *Sampler {
	return &Sampler{
		Percent:    percent,
		MinQ:       math.MaxInt32,
		MaxQ:       math.MinInt32,
		MaxReadLen: math.MinInt32,
		FragSizes:  make(TagMap),
		pending:    make(map[string]struct{}),
		rnd:        rnd,
	}
}

// NextFile resets the per-file mate bookkeeping.
func (s *Sampler) NextFile() {
	s.pending = make(map[string]struct{})
}

// Collect samples a record.
func (s *Sampler) Collect(r *sam.Record) {
	s.Total++
	if r.IsUnmapped() {
		return
	}
	s.Mapped++
	if s.rnd.Intn(100) >= s.Percent {
		return
	}
	s.Chosen++

	// A fragment is measured once, on the record whose mate was seen first.
	if _, ok := s.pending[r.Name]; !ok {
		if r.IsMateMapped() {
			s.pending[r.Name] = struct{}{}
			if r.Pos > r.MatePos {
				s.addFragment(r.Pos - r.MatePos)
			}
		}
	} else {
		delete(s.pending, r.Name)
	}

	for _, q := range r.Qual {
		if q == 0xff {
			continue
		}
		if int(q) > s.MaxQ {
			s.MaxQ = int(q)
		}
		if int(q) < s.MinQ {
			s.MinQ = int(q)
		}
	}
	if l := r.Seq.Length; l > s.MaxReadLen {
		s.MaxReadLen = l
	}
}

func (s *Sampler) addFragment(size int) {
	s.frags = append(s.frags, float64(size))
	s.FragSizes[size]++
}

// Update updates all counts from another Sampler.
func (s *Sampler) Update(other Stats) {
	o, ok := other.(*Sampler)
	if !ok {
		return
	}
	s.Total += o.Total
	s.Mapped += o.Mapped
	s.Chosen += o.Chosen
	if o.MinQ < s.MinQ {
		s.MinQ = o.MinQ
	}
	if o.MaxQ > s.MaxQ {
		s.MaxQ = o.MaxQ
	}
	if o.MaxReadLen > s.MaxReadLen {
		s.MaxReadLen = o.MaxReadLen
	}
	s.frags = append(s.frags, o.frags...)
	s.FragSizes.Update(o.FragSizes)
}

// Merge updates counts from a channel of Stats instances.
func (s *Sampler) Merge(others chan Stats) {
	for other := range others {
		s.Update(other)
	}
}

// Samples returns the number of fragment size samples.
func (s *Sampler) Samples() int {
	return len(s.frags)
}

// Finalize computes the fragment size mean and standard deviation. The
// mean is truncated to an integer. The deviation is sqrt(sumSq/n - 1),
// with integer division, and 0 when the radicand is negative.
func (s *Sampler) Finalize() {
	if s.Chosen == 0 {
		s.MinQ, s.MaxQ, s.MaxReadLen = 0, 0, 0
	}
	n := len(s.frags)
	s.FragMean, s.FragStd = 0, 0
	if n == 0 {
		log.Warn("No fragment size could be measured: input does not look like properly set paired-end alignments")
		return
	}
	s.FragMean = int(stat.Mean(s.frags, nil))
	if n < 2 {
		return
	}
	var sumSq int
	for _, f := range s.frags {
		d := s.FragMean - int(f)
		sumSq += d * d
	}
	if v := sumSq/n - 1; v > 0 {
		s.FragStd = fraction(math.Sqrt(float64(v)))
	}
}

// Report writes a human readable summary of the sampling, including a
// plot of the fragment size histogram.
func (s *Sampler) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Total reads\t%d\nMapped reads\t%d\nReads sampled\t%d\nminQ\t%d\nmaxQ\t%d\nmaxReadLength\t%d\nfragmentSize\t%d\t%v\n",
		s.Total, s.Mapped, s.Chosen, s.MinQ, s.MaxQ, s.MaxReadLen, s.FragMean, s.FragStd)
	if err != nil {
		return err
	}
	series := s.FragSizes.Series()
	if len(series) < 2 {
		return nil
	}
	keys := s.FragSizes.Keys()
	plot := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("fragment sizes %d-%d", keys[0], keys[len(keys)-1])))
	_, err = fmt.Fprintln(w, plot)
	return err
}

// Sample runs one sequential pass over every file of src and returns the
// finalized Sampler.
func Sample(src *sam.Source, percent int, rnd *rand.Rand) (*Sampler, error) {
	s := NewSampler(percent, rnd)
	for fileID := 0; fileID < src.Len(); fileID++ {
		s.NextFile()
		log.WithFields(log.Fields{
			"File":    src.Files[fileID],
			"Percent": percent,
		}).Debug("Sampling")
		if err := src.Scan(fileID, func(r *sam.Record) error {
			s.Collect(r)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	s.Finalize()
	return s, nil
}
