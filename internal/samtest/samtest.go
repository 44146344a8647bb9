// Package samtest builds alignment fixtures for tests.
package samtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Records parses SAM text, header included.
func Records(t testing.TB, text string) (*sam.Header, []*sam.Record) {
	t.Helper()
	sr, err := sam.NewReader(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	var recs []*sam.Record
	for {
		r, err := sr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		recs = append(recs, r)
	}
	return sr.Header(), recs
}

// WriteBAM converts SAM text into a BAM file at path.
func WriteBAM(t testing.TB, path, text string) {
	t.Helper()
	h, recs := Records(t, text)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	bw, err := bam.NewWriter(f, h, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if err = bw.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	if err = bw.Close(); err != nil {
		t.Fatal(err)
	}
}
