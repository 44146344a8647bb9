package column

import (
	"strconv"

	"github.com/biogo/hts/sam"
	"github.com/guigolab/alncol/fatal"
	"github.com/guigolab/alncol/quality"
	alnsam "github.com/guigolab/alncol/sam"
)

// Column returns the observations at reference position pos of the
// alignments in alns, which must be sorted by position. Alignments are
// considered only when pos lies at least margin positions inside them, and
// the scan stops at the first alignment starting after pos-margin.
func Column(pos, margin int, alns []*alnsam.Record, q *quality.Quantizer) ([]Entry, error) {
	var col []Entry
	for i, aln := range alns {
		if pos < aln.Pos+margin {
			break
		}
		if pos > aln.EndPos()-margin {
			continue
		}
		e, err := At(pos, aln, q)
		if err != nil {
			return nil, err
		}
		if e.Empty() {
			continue
		}
		e.Aln = i
		col = append(col, e)
	}
	return col, nil
}

// At returns the observation of aln at reference position pos. The entry
// has an empty token when the alignment yields no observation there: a
// non-nucleotide base is involved, or pos is inside a gap but not at its
// first position.
func At(pos int, aln *alnsam.Record, q *quality.Quantizer) (Entry, error) {
	const op = "column.At"
	e := Entry{
		Reverse:   aln.IsReverse(),
		FirstMate: aln.IsRead1(),
	}
	if pos < aln.Pos || pos > aln.EndPos() {
		return e, fatal.E(fatal.PositionNotFound, op, "position %d outside alignment %s [%d, %d]", pos, aln.Name, aln.Pos, aln.EndPos())
	}
	v := newView(aln)
	p := v.project(pos)
	ref, read := v.start, 0
	for i, co := range v.cigar {
		l := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if ref+l-1 >= p {
				return v.match(e, i, p-ref, read+p-ref, q)
			}
			ref += l
			read += l
		case sam.CigarDeletion, sam.CigarSkipped:
			if ref+l-1 >= p {
				return v.gap(e, l, p-ref, read, q)
			}
			ref += l
		case sam.CigarInsertion, sam.CigarSoftClipped:
			read += l
		case sam.CigarHardClipped, sam.CigarPadded:
		default:
			return e, fatal.E(fatal.UnknownCigar, op, "alignment %s: unknown CIGAR operation %v", aln.Name, co)
		}
	}
	return e, fatal.E(fatal.PositionNotFound, op, "position %d not found in alignment %s", pos, aln.Name)
}

// match builds the observation of a base aligned by the i-th operation
// at offset off, read offset cycle.
func (v view) match(e Entry, i, off, cycle int, q *quality.Quantizer) (Entry, error) {
	const op = "column.match"
	cur, err := v.base(op, cycle)
	if err != nil {
		return e, err
	}
	e.Cycle = cycle
	e.Qual = q.Lookup(v.quality(cycle))
	if !alnsam.IsNucleotide(cur) {
		return e, nil
	}

	var token []byte
	switch {
	case off > 0:
		prev := v.bases[cycle-1]
		if !alnsam.IsNucleotide(prev) {
			return e, nil
		}
		token = append(token, prev)
	case i > 0:
		pre := v.cigar[i-1]
		l := pre.Len()
		switch pre.Type() {
		case sam.CigarHardClipped:
			// no base available before a hard clip
			token = append(token, 'A')
		case sam.CigarSoftClipped, sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			prev, err := v.base(op, cycle-1)
			if err != nil {
				return e, err
			}
			if !alnsam.IsNucleotide(prev) {
				return e, nil
			}
			token = append(token, prev)
		case sam.CigarDeletion, sam.CigarSkipped:
			flank, err := v.base(op, cycle-1)
			if err != nil {
				return e, err
			}
			if !alnsam.IsNucleotide(flank) {
				return e, nil
			}
			token = append(token, DeletionMark)
			token = strconv.AppendInt(token, int64(l), 10)
			e.Flank = flank
		case sam.CigarInsertion:
			flank, err := v.base(op, cycle-l-1)
			if err != nil {
				return e, err
			}
			ins := v.bases[cycle-l : cycle]
			if !alnsam.IsNucleotide(flank) || !alnsam.IsNucleotides(ins) {
				return e, nil
			}
			token = append(token, InsertionMark)
			token = strconv.AppendInt(token, int64(l), 10)
			e.Flank = flank
			e.Ins = string(ins)
		default:
			return e, fatal.E(fatal.Inconsistent, op, "unexpected %v before aligned base", pre)
		}
	}
	e.Token = string(append(token, cur))
	return e, nil
}

// gap builds the observation at offset off of a gap of length l
// starting after read offset read.
func (v view) gap(e Entry, l, off, read int, q *quality.Quantizer) (Entry, error) {
	const op = "column.gap"
	if off != v.gapStart(l) {
		return e, nil
	}
	before, err := v.base(op, read-1)
	if err != nil {
		return e, err
	}
	flank, err := v.base(op, read)
	if err != nil {
		return e, err
	}
	e.Cycle = read - 1
	e.Qual = q.Lookup(v.quality(read))
	if !alnsam.IsNucleotide(before) || !alnsam.IsNucleotide(flank) {
		return e, nil
	}
	token := []byte{before, DeletionMark}
	e.Token = string(strconv.AppendInt(token, int64(l), 10))
	e.Flank = flank
	return e, nil
}
