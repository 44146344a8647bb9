package column

import (
	"github.com/guigolab/alncol/quality"
	"github.com/guigolab/alncol/sam"
	"github.com/guigolab/alncol/window"
	"golang.org/x/exp/slices"
)

// Position holds the columns of one reference position.
type Position struct {
	Pos    int
	Column []Entry
	Ins    []Entry
}

// Pileup calls fn with the columns of every position of w, in order.
// alns must be sorted by position and should include the alignments
// overlapping the position before w, whose column seeds the insertion
// column of the first position. Column entries are cleaned.
func Pileup(w window.Window, alns []*sam.Record, margin int, q *quality.Quantizer, fn func(Position) error) error {
	var prev []Entry
	if w.Start > 0 {
		col, err := Column(w.Start-1, margin, alns, q)
		if err != nil {
			return err
		}
		prev = col
	}
	for pos := w.Start; pos <= w.End; pos++ {
		cur, err := Column(pos, margin, alns, q)
		if err != nil {
			return err
		}
		ins := InsColumn(cur, prev)
		prev = cur
		cleaned := slices.Clone(cur)
		Clean(cleaned)
		if err := fn(Position{Pos: pos, Column: cleaned, Ins: ins}); err != nil {
			return err
		}
	}
	return nil
}
