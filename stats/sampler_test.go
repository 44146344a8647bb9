package stats

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/guigolab/alncol/internal/samtest"
	"github.com/guigolab/alncol/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "@SQ\tSN:ref\tLN:1000\n"

func readRecords(t *testing.T, text string) []*sam.Record {
	_, recs := samtest.Records(t, header+text)
	out := make([]*sam.Record, len(recs))
	for i, r := range recs {
		out[i] = sam.NewRecord(r, 0)
	}
	return out
}

// Mates listed with the downstream record first so that every pair
// yields a fragment when all records are chosen.
const pairs = `p1	147	ref	110	30	4M	=	10	-104	ACGT	#+5?
p2	4	*	0	0	*	*	0	0	*	*
p1	99	ref	10	30	4M	=	110	104	ACGT	++++
p3	147	ref	220	30	6M	=	20	-204	ACGTAC	++++++
p4	0	ref	30	30	4M	*	0	0	ACGT	++++
p3	99	ref	20	30	4M	=	220	204	ACGT	++++
p5	163	ref	330	30	4M	=	30	-304	ACGT	++++
p5	83	ref	30	30	4M	=	330	304	ACGT	++++
`

func TestSamplerAllChosen(t *testing.T) {
	s := NewSampler(100, rand.New(rand.NewSource(1)))
	for _, r := range readRecords(t, pairs) {
		s.Collect(r)
	}
	s.Finalize()

	assert.Equal(t, uint64(8), s.Total)
	assert.Equal(t, uint64(7), s.Mapped)
	assert.Equal(t, uint64(7), s.Chosen)
	assert.Equal(t, 2, s.MinQ)
	assert.Equal(t, 30, s.MaxQ)
	assert.Equal(t, 6, s.MaxReadLen)

	// samples 100, 200, 300: mean 200, sumSq 20000, 20000/3-1 = 6665
	assert.Equal(t, 3, s.Samples())
	assert.Equal(t, 200, s.FragMean)
	assert.InDelta(t, 81.6394, float64(s.FragStd), 1e-3)
	assert.Equal(t, TagMap{100: 1, 200: 1, 300: 1}, s.FragSizes)
}

func TestSamplerPendingPerFile(t *testing.T) {
	recs := readRecords(t, pairs)
	s := NewSampler(100, rand.New(rand.NewSource(1)))
	s.Collect(recs[2])
	s.NextFile()
	s.Collect(recs[0])
	assert.Equal(t, 1, s.Samples())

	s = NewSampler(100, rand.New(rand.NewSource(1)))
	s.Collect(recs[2])
	s.Collect(recs[0])
	assert.Equal(t, 0, s.Samples())
}

func TestSamplerNoneChosen(t *testing.T) {
	s := NewSampler(0, rand.New(rand.NewSource(1)))
	for _, r := range readRecords(t, pairs) {
		s.Collect(r)
	}
	s.Finalize()
	assert.Equal(t, uint64(0), s.Chosen)
	assert.Equal(t, 0, s.MinQ)
	assert.Equal(t, 0, s.MaxQ)
	assert.Equal(t, 0, s.FragMean)
	assert.Equal(t, fraction(0), s.FragStd)
}

func TestFinalize(t *testing.T) {
	for i, tt := range []struct {
		frags []float64
		mean  int
		std   float64
	}{
		{nil, 0, 0},
		{[]float64{150}, 150, 0},
		{[]float64{100, 101}, 100, 0},
		{[]float64{100, 104}, 102, 1.7320508},
		{[]float64{10, 20, 31}, 20, 8.4852814},
	} {
		s := NewSampler(100, nil)
		s.Chosen = 1
		for _, f := range tt.frags {
			s.addFragment(int(f))
		}
		s.Finalize()
		assert.Equal(t, tt.mean, s.FragMean, "[%d] mean", i)
		assert.InDelta(t, tt.std, float64(s.FragStd), 1e-6, "[%d] std", i)
	}
}

func TestUpdate(t *testing.T) {
	a := NewSampler(100, nil)
	a.Total, a.Mapped, a.Chosen, a.MinQ, a.MaxQ = 10, 8, 4, 5, 30
	a.addFragment(100)
	b := NewSampler(100, nil)
	b.Total, b.Mapped, b.Chosen, b.MinQ, b.MaxQ, b.MaxReadLen = 5, 5, 5, 2, 20, 150
	b.addFragment(100)
	b.addFragment(120)

	others := make(chan Stats, 1)
	others <- b
	close(others)
	a.Merge(others)

	assert.Equal(t, uint64(15), a.Total)
	assert.Equal(t, 2, a.MinQ)
	assert.Equal(t, 30, a.MaxQ)
	assert.Equal(t, 150, a.MaxReadLen)
	assert.Equal(t, 3, a.Samples())
	assert.Equal(t, TagMap{100: 2, 120: 1}, a.FragSizes)
}

func TestReport(t *testing.T) {
	s := NewSampler(100, nil)
	s.Chosen = 1
	for _, f := range []int{100, 102, 102, 105} {
		s.addFragment(f)
	}
	s.Finalize()
	var buf bytes.Buffer
	require.NoError(t, s.Report(&buf))
	out := buf.String()
	assert.Contains(t, out, "fragmentSize\t102\t")
	assert.Contains(t, out, "fragment sizes 100-105")
}

func TestTagMapJSON(t *testing.T) {
	tm := TagMap{300: 1, 20: 4, 100: 2}
	b, err := json.Marshal(tm)
	require.NoError(t, err)
	assert.Equal(t, `{"20":4,"100":2,"300":1}`, string(b))

	var back TagMap
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, tm, back)

	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &back))
	assert.Equal(t, []float64{1, 0, 2}, TagMap{3: 1, 5: 2}.Series())
	assert.Equal(t, 7, tm.Total())
}

func TestSample(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.bam"), filepath.Join(dir, "b.bam")
	samtest.WriteBAM(t, a, header+pairs)
	// b holds an upstream mate only, leaving no fragment sample
	samtest.WriteBAM(t, b, header+"p6\t99\tref\t10\t30\t4M\t=\t110\t104\tACGT\t++++\n")

	src := sam.NewSource([]string{b, a}, 1)
	s, err := Sample(src, 100, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.Total)
	assert.Equal(t, 3, s.Samples())
	assert.Equal(t, 200, s.FragMean)

	_, err = Sample(sam.NewSource([]string{filepath.Join(dir, "missing.bam")}, 1), 100, rand.New(rand.NewSource(7)))
	assert.Error(t, err)
}
