package column

import (
	"github.com/biogo/hts/sam"
	"github.com/guigolab/alncol/fatal"
	alnsam "github.com/guigolab/alncol/sam"
)

// view is an alignment seen in the sequencing orientation of its read.
// Reverse strand alignments are reverse complemented, their CIGAR reversed
// and the reference axis mirrored around the alignment span, so that the
// same walk from the 5' end applies to both strands.
type view struct {
	bases   []byte
	qual    []byte
	cigar   sam.Cigar
	start   int
	end     int
	reverse bool
}

func newView(aln *alnsam.Record) view {
	v := view{
		start:   aln.Pos,
		end:     aln.EndPos(),
		reverse: aln.IsReverse(),
	}
	if !v.reverse {
		v.bases = aln.Bases()
		v.qual = aln.Qual
		v.cigar = aln.Cigar
		return v
	}
	if aln.RevComp() == nil {
		aln.SetRevComp()
	}
	v.bases = aln.RevComp()
	v.qual = aln.RevQual()
	v.cigar = make(sam.Cigar, len(aln.Cigar))
	for i, co := range aln.Cigar {
		v.cigar[len(aln.Cigar)-1-i] = co
	}
	return v
}

// project maps a reference position onto the view axis.
func (v view) project(pos int) int {
	if v.reverse {
		return v.start + v.end - pos
	}
	return pos
}

// gapStart returns the offset within a gap of length l of the gap's lowest
// reference position, the only one producing an observation.
func (v view) gapStart(l int) int {
	if v.reverse {
		return l - 1
	}
	return 0
}

func (v view) base(op string, i int) (byte, error) {
	if i < 0 || i >= len(v.bases) {
		return 0, fatal.E(fatal.IndexRange, op, "read offset %d outside read of length %d", i, len(v.bases))
	}
	return v.bases[i], nil
}

// quality returns the raw quality at read offset i, -1 when missing.
func (v view) quality(i int) int {
	if i < 0 || i >= len(v.qual) || v.qual[i] == 0xff {
		return -1
	}
	return int(v.qual[i])
}
