package alncol

import (
	"bytes"
	"testing"

	biogosam "github.com/biogo/hts/sam"
	"github.com/guigolab/alncol/column"
	"github.com/guigolab/alncol/reference"
	"github.com/guigolab/alncol/sam"
	"github.com/guigolab/alncol/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	alns := []*sam.Record{
		sam.NewRecord(&biogosam.Record{Name: "f", Flags: biogosam.Paired | biogosam.Read1}, 0),
		sam.NewRecord(&biogosam.Record{Name: "r", Flags: biogosam.Paired | biogosam.Read2 | biogosam.Reverse}, 0),
	}
	positions := []column.Position{{
		Pos: 13,
		Column: []column.Entry{
			{FirstMate: true, Cycle: 5, Qual: 2, Token: "GC", Aln: 0},
			{Reverse: true, Cycle: 7, Qual: 1, Token: "CD3", Flank: 'A', Aln: 1},
		},
		Ins: []column.Entry{
			{FirstMate: true, Cycle: 5, Qual: 2, Token: "GC", Flank: 'G', Ins: "TT", Aln: 0},
		},
	}}

	var buf bytes.Buffer
	wr := NewWriter(&buf, reference.NewCatalog(), nil)
	require.NoError(t, wr.Write(window.Window{Name: "virus", Start: 10, End: 20}, alns, positions))
	require.NoError(t, wr.Flush())
	assert.Equal(t, lines(
		"col\tvirus\t14\tN\tf\t+\t1\t5\t2\tGC\t.\t.\t0",
		"col\tvirus\t14\tN\tr\t-\t2\t7\t1\tCD3\tA\t.\t0",
		"ins\tvirus\t14\tN\tf\t+\t1\t5\t2\tGC\tG\tTT\t0",
	), buf.String())
}
