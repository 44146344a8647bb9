package alncol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/guigolab/alncol/column"
	"github.com/guigolab/alncol/mates"
	"github.com/guigolab/alncol/reference"
	"github.com/guigolab/alncol/sam"
	"github.com/guigolab/alncol/window"
)

// Header is the first line written by a Writer.
const Header = "#kind\tref\tpos\trefBase\tread\tstrand\tmate\tcycle\tqual\ttoken\tflank\tins\toverlap\n"

// Writer writes pileup columns as tab separated lines, one per entry.
// Positions are 1-based. Pileup column lines have kind "col", insertion
// column lines have kind "ins". Empty flank and inserted bases are written
// as ".", and overlap is 1 when both reads of the pair cover the position.
type Writer struct {
	w        *bufio.Writer
	catalog  *reference.Catalog
	registry *mates.Registry
}

func NewWriter(w io.Writer, catalog *reference.Catalog, registry *mates.Registry) *Writer {
	return &Writer{
		w:        bufio.NewWriter(w),
		catalog:  catalog,
		registry: registry,
	}
}

// WriteHeader writes the format version and the column names.
func (wr *Writer) WriteHeader() error {
	if _, err := fmt.Fprintf(wr.w, "##alncol format %s\n", FormatVersion()); err != nil {
		return err
	}
	_, err := wr.w.WriteString(Header)
	return err
}

// Write writes the positions of window w. Entries refer to alns by index.
func (wr *Writer) Write(w window.Window, alns []*sam.Record, positions []column.Position) error {
	ref := wr.catalog.Get(w.Name)
	for _, p := range positions {
		base := byte('N')
		if ref != nil {
			base = ref.Base(p.Pos)
		}
		for _, e := range p.Column {
			if err := wr.entry("col", w.Name, p.Pos, base, alns[e.Aln], e); err != nil {
				return err
			}
		}
		for _, e := range p.Ins {
			if err := wr.entry("ins", w.Name, p.Pos, base, alns[e.Aln], e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (wr *Writer) entry(kind, name string, pos int, base byte, aln *sam.Record, e column.Entry) error {
	strand := '+'
	if e.Reverse {
		strand = '-'
	}
	mate := 0
	switch {
	case e.FirstMate:
		mate = 1
	case aln.IsRead2():
		mate = 2
	}
	flank := "."
	if e.Flank != 0 {
		flank = string(e.Flank)
	}
	ins := "."
	if e.Ins != "" {
		ins = e.Ins
	}
	overlap := 0
	if wr.registry != nil && wr.registry.Overlaps(aln.Name, pos) {
		overlap = 1
	}
	_, err := fmt.Fprintf(wr.w, "%s\t%s\t%d\t%c\t%s\t%c\t%d\t%d\t%d\t%s\t%s\t%s\t%d\n",
		kind, name, pos+1, base, aln.Name, strand, mate, e.Cycle, e.Qual, e.Token, flank, ins, overlap)
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}
