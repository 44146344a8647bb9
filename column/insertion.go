package column

// InsColumn returns the insertion column before the position of cur:
// forward entries of cur and reverse entries of prev, the column of the
// previous position, converted by AddInsEntry. The result is empty when
// no entry carries an insertion.
func InsColumn(cur, prev []Entry) []Entry {
	var col []Entry
	found := false
	add := func(e Entry) {
		c, isIns, keep := AddInsEntry(e)
		if keep {
			col = append(col, c)
		}
		found = found || isIns
	}
	for _, e := range cur {
		if !e.Reverse {
			add(e)
		}
	}
	for _, e := range prev {
		if e.Reverse {
			add(e)
		}
	}
	if !found {
		return nil
	}
	return col
}

// AddInsEntry converts e for an insertion column. An insertion entry gets
// the token Flank + observed base and is reported as an insertion. Other
// entries are kept unchanged when they are substitutions, as the baseline
// for the same position. Deletions and single base tokens are not kept.
func AddInsEntry(e Entry) (converted Entry, isInsertion, keep bool) {
	if e.IsInsertion() {
		e.Token = string([]byte{e.Flank, e.Base()})
		return e, true, true
	}
	if len(e.Token) > 1 && e.Token[0] != DeletionMark && e.Token[1] != DeletionMark {
		return e, false, true
	}
	return e, false, false
}

// Clean rewrites in place the insertion tokens of col to the Flank +
// observed base form and clears their Flank and Ins fields.
func Clean(col []Entry) {
	for i := range col {
		e := &col[i]
		if len(e.Token) > 0 && e.Token[0] == InsertionMark {
			e.Token = string([]byte{e.Flank, e.Base()})
			e.Flank = 0
			e.Ins = ""
		}
	}
}
