package column

import (
	"fmt"
	"testing"

	biogosam "github.com/biogo/hts/sam"
	"github.com/guigolab/alncol/fatal"
	"github.com/guigolab/alncol/internal/samtest"
	"github.com/guigolab/alncol/quality"
	"github.com/guigolab/alncol/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "@SQ\tSN:ref\tLN:1000\n"

// identity maps every raw quality to itself.
func identity(t *testing.T) *quality.Quantizer {
	q, err := quality.NewQuantizer(0, 60, 61)
	require.NoError(t, err)
	return q
}

func record(t *testing.T, flags, pos int, cigar, seq, qual string) *sam.Record {
	line := fmt.Sprintf("r\t%d\tref\t%d\t30\t%s\t*\t0\t0\t%s\t%s\n", flags, pos+1, cigar, seq, qual)
	_, recs := samtest.Records(t, header+line)
	require.Len(t, recs, 1)
	return sam.NewRecord(recs[0], 0)
}

// mirror returns the alignment of the reverse complement of the read of
// aln, on the same reference span.
func mirror(aln *sam.Record) *sam.Record {
	r := *aln.Record
	r.Flags ^= biogosam.Reverse
	r.Cigar = make(biogosam.Cigar, len(aln.Cigar))
	for i, co := range aln.Cigar {
		r.Cigar[len(aln.Cigar)-1-i] = co
	}
	bases := aln.Bases()
	rc := make([]byte, len(bases))
	sam.ReverseComplement(rc, bases)
	r.Seq = biogosam.NewSeq(rc)
	r.Qual = make([]byte, len(aln.Qual))
	for i, q := range aln.Qual {
		r.Qual[len(aln.Qual)-1-i] = q
	}
	return sam.NewRecord(&r, aln.FileID)
}

type obs struct {
	token string
	cycle int
	qual  int
	flank byte
	ins   string
}

func observe(t *testing.T, pos int, aln *sam.Record, q *quality.Quantizer) obs {
	e, err := At(pos, aln, q)
	require.NoError(t, err)
	return obs{e.Token, e.Cycle, e.Qual, e.Flank, e.Ins}
}

func TestForward(t *testing.T) {
	q := identity(t)
	aln := record(t, 0, 100, "10M", "ACGTACGTAC", "ABCDEFGHIJ")
	for _, tt := range []struct {
		pos      int
		expected obs
	}{
		{100, obs{"A", 0, 32, 0, ""}},
		{101, obs{"AC", 1, 33, 0, ""}},
		{102, obs{"CG", 2, 34, 0, ""}},
		{109, obs{"AC", 9, 41, 0, ""}},
	} {
		assert.Equal(t, tt.expected, observe(t, tt.pos, aln, q), "position %d", tt.pos)
	}
}

func TestDeletion(t *testing.T) {
	q := identity(t)
	fwd := record(t, 0, 100, "3M2D3M", "ACGTCA", "ABCDEF")
	rev := record(t, 16, 100, "3M2D3M", "ACGTCA", "ABCDEF")
	for _, tt := range []struct {
		pos      int
		fwd, rev obs
	}{
		{100, obs{"A", 0, 32, 0, ""}, obs{"GT", 5, 32, 0, ""}},
		{101, obs{"AC", 1, 33, 0, ""}, obs{"CG", 4, 33, 0, ""}},
		{102, obs{"CG", 2, 34, 0, ""}, obs{"D2C", 3, 34, 'A', ""}},
		{103, obs{"GD2", 2, 35, 'T', ""}, obs{"AD2", 2, 34, 'C', ""}},
		{104, obs{"", 0, 0, 0, ""}, obs{"", 0, 0, 0, ""}},
		{105, obs{"D2T", 3, 35, 'G', ""}, obs{"GA", 2, 35, 0, ""}},
		{106, obs{"TC", 4, 36, 0, ""}, obs{"TG", 1, 36, 0, ""}},
		{107, obs{"CA", 5, 37, 0, ""}, obs{"T", 0, 37, 0, ""}},
	} {
		assert.Equal(t, tt.fwd, observe(t, tt.pos, fwd, q), "forward position %d", tt.pos)
		assert.Equal(t, tt.rev, observe(t, tt.pos, rev, q), "reverse position %d", tt.pos)
	}
}

func TestStrandInvolution(t *testing.T) {
	q := identity(t)
	for _, tt := range []struct {
		cigar, seq, qual string
	}{
		{"2S3M2I2M1D3M", "TTACGGATCAGT", "ABCDEFGHIJKL"},
		{"3M2D3M", "ACGTCA", "ABCDEF"},
		{"2H4M3N2M1S", "ACGTTGA", "ABCDEFG"},
		{"5M", "ACNTA", "ABCDE"},
		{"2=1X3M1I1M", "ACGTACGT", "IIIIIIII"},
	} {
		fwd := record(t, 0, 10, tt.cigar, tt.seq, tt.qual)
		rev := mirror(fwd)
		require.True(t, rev.IsReverse())
		require.Equal(t, fwd.EndPos(), rev.EndPos())

		var fo, ro []obs
		span := fwd.EndPos() - fwd.Pos + 1
		for d := 0; d < span; d++ {
			if o := observe(t, fwd.Pos+d, fwd, q); o.token != "" {
				fo = append(fo, o)
			}
			if o := observe(t, rev.EndPos()-d, rev, q); o.token != "" {
				ro = append(ro, o)
			}
		}
		assert.NotEmpty(t, fo, tt.cigar)
		assert.Equal(t, fo, ro, tt.cigar)

		// the transform is its own inverse
		back := mirror(rev)
		for d := 0; d < span; d++ {
			assert.Equal(t, observe(t, fwd.Pos+d, fwd, q), observe(t, fwd.Pos+d, back, q), "%s position %d", tt.cigar, d)
		}
	}
}

func TestClips(t *testing.T) {
	q := identity(t)
	hard := record(t, 0, 0, "2H3M", "GTA", "III")
	assert.Equal(t, "AG", observe(t, 0, hard, q).token)
	soft := record(t, 0, 0, "2S3M", "GTACG", "IIIII")
	assert.Equal(t, obs{"TA", 2, 40, 0, ""}, observe(t, 0, soft, q))
	adjacent := record(t, 0, 0, "2M2X", "GTAC", "IIII")
	assert.Equal(t, "TA", observe(t, 2, adjacent, q).token)
	skipped := record(t, 0, 0, "2M3N2M", "GTAC", "IIII")
	assert.Equal(t, obs{"TD3", 1, 40, 'A', ""}, observe(t, 2, skipped, q))
	assert.Equal(t, obs{"D3A", 2, 40, 'T', ""}, observe(t, 5, skipped, q))
}

func TestNonNucleotide(t *testing.T) {
	q := identity(t)
	aln := record(t, 0, 0, "5M", "ACNTA", "IIIII")
	for pos, token := range []string{"A", "AC", "", "", "TA"} {
		assert.Equal(t, token, observe(t, pos, aln, q).token, "position %d", pos)
	}
	ins := record(t, 0, 0, "2M1I2M", "ACNGT", "IIIII")
	assert.Equal(t, "", observe(t, 2, ins, q).token)
	del := record(t, 0, 0, "2M1D2M", "ANGT", "IIII")
	assert.Equal(t, "", observe(t, 2, del, q).token)
	assert.Equal(t, "", observe(t, 3, del, q).token)

	col, err := Column(2, 0, []*sam.Record{aln, ins, del}, q)
	require.NoError(t, err)
	assert.Empty(t, col)
}

func TestMissingQuality(t *testing.T) {
	q, err := quality.NewQuantizer(2, 40, 5)
	require.NoError(t, err)
	aln := record(t, 0, 0, "3M", "ACG", "*")
	e, err := At(1, aln, q)
	require.NoError(t, err)
	assert.Equal(t, 4, e.Qual)
}

func TestColumn(t *testing.T) {
	q := identity(t)
	a := record(t, 0, 0, "3M", "ACG", "III")
	b := record(t, 0, 10, "3M", "ACG", "III")
	c := record(t, 65, 2, "5M", "ACGTA", "IIIII")

	col, err := Column(3, 0, []*sam.Record{a, b, c}, q)
	require.NoError(t, err)
	assert.Empty(t, col, "scan stops at the first alignment starting after the position")

	col, err = Column(3, 0, []*sam.Record{a, c, b}, q)
	require.NoError(t, err)
	require.Len(t, col, 1)
	assert.Equal(t, Entry{FirstMate: true, Cycle: 1, Qual: 40, Token: "AC", Aln: 1}, col[0])

	for _, tt := range []struct {
		pos, margin, expected int
	}{
		{2, 1, 0},
		{3, 1, 1},
		{5, 1, 1},
		{6, 1, 0},
		{6, 0, 1},
		{4, 2, 1},
		{5, 2, 0},
	} {
		col, err := Column(tt.pos, tt.margin, []*sam.Record{c}, q)
		require.NoError(t, err)
		assert.Len(t, col, tt.expected, "position %d margin %d", tt.pos, tt.margin)
	}
}

func TestErrors(t *testing.T) {
	q := identity(t)
	aln := record(t, 0, 0, "3M", "ACG", "III")
	_, err := At(50, aln, q)
	assert.True(t, fatal.Is(err, fatal.PositionNotFound))

	padded := record(t, 0, 0, "1P3M", "ACG", "III")
	_, err = At(0, padded, q)
	assert.True(t, fatal.Is(err, fatal.Inconsistent))

	back := record(t, 0, 0, "3M", "ACG", "III")
	back.Cigar = biogosam.Cigar{biogosam.NewCigarOp(biogosam.CigarBack, 1), biogosam.NewCigarOp(biogosam.CigarMatch, 3)}
	_, err = At(0, back, q)
	assert.True(t, fatal.Is(err, fatal.UnknownCigar))

	leadingDel := record(t, 0, 0, "2D3M", "ACG", "III")
	_, err = At(0, leadingDel, q)
	assert.True(t, fatal.Is(err, fatal.IndexRange))

	leadingIns := record(t, 0, 0, "2I3M", "TTACG", "IIIII")
	_, err = At(0, leadingIns, q)
	assert.True(t, fatal.Is(err, fatal.IndexRange))

	_, err = Column(0, 0, []*sam.Record{leadingDel}, q)
	assert.True(t, fatal.Is(err, fatal.IndexRange))
}
