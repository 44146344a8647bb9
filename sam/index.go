package sam

import (
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// IndexFile returns the path of the index of bamFile.
func IndexFile(bamFile string) string {
	return bamFile + ".bai"
}

func readIndex(bamFile string) (*bam.Index, error) {
	i, err := os.Open(IndexFile(bamFile))
	if err != nil {
		return nil, err
	}
	defer i.Close()
	return bam.ReadIndex(i)
}

// CreateIndex scans bamFile and writes its BAM index next to it.
func CreateIndex(bamFile string) (err error) {
	log.Infof("Creating BAM index %s", IndexFile(bamFile))
	f, err := os.Open(bamFile)
	if err != nil {
		return err
	}
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	if err != nil {
		return err
	}
	defer br.Close()

	var idx bam.Index
	for {
		r, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", bamFile)
		}
		if err = idx.Add(r, br.LastChunk()); err != nil {
			return errors.Wrapf(err, "indexing %s: %s", bamFile, r.Name)
		}
	}

	out, err := os.Create(IndexFile(bamFile))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return bam.WriteIndex(out, &idx)
}
