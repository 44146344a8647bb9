// Package column builds pileup columns: the strand-normalized observation
// of every alignment at a reference position.
package column

import (
	"fmt"
)

const (
	// DeletionMark starts or follows the base of a deletion token.
	DeletionMark = 'D'
	// InsertionMark starts an insertion token.
	InsertionMark = 'I'
)

// Entry is the observation of one alignment at one reference position.
//
// Token is a substitution (context base then observed base), a deletion
// (<base>D<len> at the gap start, D<len><base> after it) or an insertion
// (I<len><base>, inserted bases in Ins and the base before them in Flank).
// Bases are given in the sequencing orientation of the read, and Cycle is
// the distance of the observed base from the 5' end of the read.
type Entry struct {
	Reverse   bool
	FirstMate bool
	Cycle     int
	Qual      int
	Token     string
	Flank     byte
	Ins       string
	Aln       int
}

// Empty reports whether the entry carries no observation.
func (e Entry) Empty() bool {
	return e.Token == ""
}

// IsInsertion reports whether the entry carries inserted bases.
func (e Entry) IsInsertion() bool {
	return e.Ins != ""
}

// IsDeletion reports whether the entry opens a deletion.
func (e Entry) IsDeletion() bool {
	return len(e.Token) > 1 && e.Token[1] == DeletionMark
}

// Base returns the observed base, the last character of the token.
func (e Entry) Base() byte {
	if e.Token == "" {
		return 0
	}
	return e.Token[len(e.Token)-1]
}

func (e Entry) String() string {
	strand := '+'
	if e.Reverse {
		strand = '-'
	}
	return fmt.Sprintf("%d%c:%s@%d/%d", e.Aln, strand, e.Token, e.Cycle, e.Qual)
}
