package sam

import "github.com/biogo/hts/bam"

// Iterator iterates over the mapped records of a reference region.
type Iterator struct {
	*bam.Iterator
	FileID     int
	Start, End int
	Chr        string
	refID      int
	rec        *Record
	empty      bool
}

func NewIterator(br *Reader, data *RefChunk, start, end int) (*Iterator, error) {
	if len(data.Chunks) == 0 {
		return &Iterator{FileID: br.FileID, Start: start, End: end, Chr: data.Ref.Name(), empty: true}, nil
	}
	it, err := bam.NewIterator(br.Reader, data.Chunks)
	if err != nil {
		return nil, err
	}
	return &Iterator{
		Iterator: it,
		FileID:   br.FileID,
		Start:    start,
		End:      end,
		Chr:      data.Ref.Name(),
		refID:    data.Ref.ID(),
	}, nil
}

// Next advances to the next mapped record overlapping [Start, End].
func (i *Iterator) Next() bool {
	if i.empty {
		return false
	}
	for i.Iterator.Next() {
		r := NewRecord(i.Iterator.Record(), i.FileID)
		if r.IsUnmapped() || r.Ref == nil || r.Ref.ID() != i.refID {
			continue
		}
		if r.Pos > i.End {
			return false
		}
		if r.EndPos() < i.Start {
			continue
		}
		i.rec = r
		return true
	}
	return false
}

func (i *Iterator) Record() *Record {
	return i.rec
}

// Error returns the first non-EOF error encountered by the iterator.
func (i *Iterator) Error() error {
	if i.empty {
		return nil
	}
	return i.Iterator.Error()
}

func (i *Iterator) Close() error {
	if i.empty {
		return nil
	}
	return i.Iterator.Close()
}
