package window

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/guigolab/alncol/fatal"
	"github.com/guigolab/alncol/internal/samtest"
	"github.com/guigolab/alncol/reference"
	"github.com/guigolab/alncol/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTile(t *testing.T) {
	c := reference.NewCatalog()
	c.Add("virus", 25, reference.FileRef{FileID: 0, RefID: 1})
	c.Add("alpha", 10, reference.FileRef{FileID: 0, RefID: 0})

	var got []string
	for i, w := range Tile(c, 10) {
		assert.Equal(t, i, w.Index)
		got = append(got, w.String())
	}
	assert.Equal(t, []string{"alpha:1-10", "virus:1-10", "virus:11-20", "virus:21-25"}, got)

	w := Window{Name: "virus", Start: 0, End: 9}
	assert.Equal(t, 10, w.Len())
	assert.Equal(t, 0, w.Grow(1).Start)
	w.Start = 10
	assert.Equal(t, 9, w.Grow(1).Start)
}

const (
	header = "@HD\tVN:1.5\tSO:coordinate\n@SQ\tSN:virus\tLN:100\n"
	fileA  = header + `a1	0	virus	1	30	10M	*	0	0	ACGTACGTAC	*
a2	16	virus	5	30	4M	*	0	0	AACG	*
a3	0	virus	30	30	4M	*	0	0	ACGT	*
`
	fileB = header + `b1	0	virus	3	30	4M	*	0	0	ACGT	*
b2	4	virus	6	0	*	*	0	0	ACGT	*
b3	0	virus	50	30	4M	*	0	0	ACGT	*
`
)

func names(alns []*sam.Record) string {
	var n []string
	for _, a := range alns {
		n = append(n, a.Name)
	}
	return strings.Join(n, ",")
}

func TestGather(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.bam"), filepath.Join(dir, "b.bam")
	samtest.WriteBAM(t, a, fileA)
	samtest.WriteBAM(t, b, fileB)
	src := sam.NewSource([]string{a, b}, 1)
	catalog, _, err := reference.ParseHeaders(src)
	require.NoError(t, err)

	windows := Tile(catalog, 20)
	require.Len(t, windows, 5)

	alns, err := Gather(src, windows[0])
	require.NoError(t, err)
	assert.Equal(t, "a1,a2,b1", names(alns))
	assert.Equal(t, []int{9, 7, 5}, Ends(alns))
	assert.Equal(t, "CGTT", string(alns[1].RevComp()))
	assert.Nil(t, alns[0].RevComp())

	assert.False(t, Sorted(windows[0], alns))
	Sort(alns)
	assert.Equal(t, "a1,b1,a2", names(alns))
	assert.True(t, Sorted(windows[0], alns))

	alns, err = Gather(src, windows[1])
	require.NoError(t, err)
	assert.Equal(t, "a3", names(alns))

	alns, err = Gather(src, windows[4])
	require.NoError(t, err)
	assert.Empty(t, alns)

	bad := windows[0]
	bad.Files = []reference.FileRef{{FileID: 0, RefID: 4}}
	_, err = Gather(src, bad)
	assert.True(t, fatal.Is(err, fatal.UnknownReference))
}
