// Package quality maps raw base-call quality scores to a small number of
// quantile buckets.
package quality

import (
	"github.com/guigolab/alncol/fatal"
)

// Quantizer maps quality scores in [Min, Max] to buckets in [0, Buckets).
type Quantizer struct {
	min, max int
	buckets  []int
	n        int
}

// NewQuantizer builds the mapping for scores in [minQ, maxQ] split into q
// buckets. When there are no more distinct scores than buckets every score
// gets its own bucket. Otherwise buckets hold size/q scores each, and the
// last size%q buckets hold one more.
func NewQuantizer(minQ, maxQ, q int) (*Quantizer, error) {
	if q < 1 {
		return nil, fatal.E(fatal.Config, "quality.NewQuantizer", "number of buckets must be positive, got %d", q)
	}
	if minQ > maxQ {
		return nil, fatal.E(fatal.Config, "quality.NewQuantizer", "empty quality range [%d, %d]", minQ, maxQ)
	}
	size := maxQ - minQ + 1
	qz := &Quantizer{
		min:     minQ,
		max:     maxQ,
		buckets: make([]int, size),
	}
	if q >= size {
		for i := range qz.buckets {
			qz.buckets[i] = i
		}
		qz.n = size
		return qz, nil
	}

	avg, rem := size/q, size%q
	binSize := make([]int, q)
	for i := range binSize {
		binSize[i] = avg
	}
	for i := q - 1; rem > 0; i-- {
		binSize[i]++
		rem--
	}
	idx := 0
	for b, n := range binSize {
		for j := 0; j < n; j++ {
			qz.buckets[idx] = b
			idx++
		}
	}
	qz.n = q
	return qz, nil
}

// Lookup returns the bucket of raw. Scores outside [Min, Max] fall into
// the highest bucket.
func (qz *Quantizer) Lookup(raw int) int {
	if raw < qz.min || raw > qz.max {
		return qz.buckets[len(qz.buckets)-1]
	}
	return qz.buckets[raw-qz.min]
}

// Buckets returns the number of buckets in use.
func (qz *Quantizer) Buckets() int {
	return qz.n
}

func (qz *Quantizer) Min() int {
	return qz.min
}

func (qz *Quantizer) Max() int {
	return qz.max
}
