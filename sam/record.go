package sam

import (
	"github.com/biogo/hts/sam"
)

// Record is an alignment read from one of the input files. Derived
// attributes are computed on first use and cached for the life of the record.
type Record struct {
	*sam.Record
	FileID int

	end     int
	hasEnd  bool
	bases   []byte
	rvcSeq  []byte
	rvcQual []byte
}

// Re-exported from biogo sam
var (
	NewTag = sam.NewTag
	NewAux = sam.NewAux
)

func NewRecord(r *sam.Record, fileID int) *Record {
	return &Record{Record: r, FileID: fileID}
}

// AlnEnd returns the last reference position covered by an alignment
// starting at pos, counting M, =, X, D and N operations only.
func AlnEnd(pos int, cigar sam.Cigar) int {
	for _, co := range cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch, sam.CigarDeletion, sam.CigarSkipped:
			pos += co.Len()
		}
	}
	return pos - 1
}

// EndPos returns the inclusive end position of the alignment on the reference.
func (r *Record) EndPos() int {
	if !r.hasEnd {
		r.end = AlnEnd(r.Pos, r.Cigar)
		r.hasEnd = true
	}
	return r.end
}

// Bases returns the read sequence as upper case ASCII.
func (r *Record) Bases() []byte {
	if r.bases == nil {
		r.bases = r.Seq.Expand()
		for i, b := range r.bases {
			if 'a' <= b && b <= 'z' {
				r.bases[i] = b - ('a' - 'A')
			}
		}
	}
	return r.bases
}

// Quality returns the raw quality score at read offset i, or -1 when
// the record carries no quality for that offset.
func (r *Record) Quality(i int) int {
	if i < 0 || i >= len(r.Qual) || r.Qual[i] == 0xff {
		return -1
	}
	return int(r.Qual[i])
}

// SetRevComp fills the reverse-complemented sequence and reversed quality caches.
func (r *Record) SetRevComp() {
	bases := r.Bases()
	r.rvcSeq = make([]byte, len(bases))
	ReverseComplement(r.rvcSeq, bases)
	r.rvcQual = make([]byte, len(r.Qual))
	for i, q := range r.Qual {
		r.rvcQual[len(r.Qual)-1-i] = q
	}
}

// RevComp returns the cached reverse-complemented read, nil if not computed.
func (r *Record) RevComp() []byte {
	return r.rvcSeq
}

// RevQual returns the cached reversed qualities, nil if not computed.
func (r *Record) RevQual() []byte {
	return r.rvcQual
}

func (r *Record) IsPrimary() bool {
	return r.Flags&sam.Secondary == 0
}

func (r *Record) IsUnmapped() bool {
	return r.Flags&sam.Unmapped == sam.Unmapped
}

func (r *Record) IsPaired() bool {
	return r.Flags&sam.Paired == sam.Paired
}

func (r *Record) IsProperlyPaired() bool {
	return r.Flags&sam.ProperPair == sam.ProperPair
}

func (r *Record) IsRead1() bool {
	return r.Flags&sam.Read1 == sam.Read1
}

func (r *Record) IsRead2() bool {
	return r.Flags&sam.Read2 == sam.Read2
}

func (r *Record) IsReverse() bool {
	return r.Flags&sam.Reverse == sam.Reverse
}

func (r *Record) HasMateUnmapped() bool {
	return r.Flags&sam.MateUnmapped == sam.MateUnmapped
}

// IsMateMapped reports whether the record is paired and its mate has a mapping position.
func (r *Record) IsMateMapped() bool {
	return r.IsPaired() && !r.HasMateUnmapped() && r.MatePos >= 0
}

func (r *Record) IsFirstOfValidPair() bool {
	return r.IsPaired() && r.IsRead1() && r.IsProperlyPaired() && !r.HasMateUnmapped()
}

func (r *Record) IsDuplicate() bool {
	return r.Flags&sam.Duplicate == sam.Duplicate
}

func (r *Record) IsQCFail() bool {
	return r.Flags&sam.QCFail == sam.QCFail
}
