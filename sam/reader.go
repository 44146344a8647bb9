package sam

import (
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
	"github.com/guigolab/alncol/fatal"
	log "github.com/sirupsen/logrus"
)

// Reader reads the alignments of one BAM file.
type Reader struct {
	*bam.Reader
	FileName string
	FileID   int
	Index    *bam.Index
	f        *os.File
	cpu      int
}

// NewReader opens bamFile for reading. Records read are tagged with fileID.
func NewReader(bamFile string, fileID, cpu int) (*Reader, error) {
	f, err := os.Open(bamFile)
	if err != nil {
		return nil, fatal.Wrap(fatal.FileOpen, "sam.NewReader", err)
	}
	r, err := bam.NewReader(f, cpu)
	if err != nil {
		f.Close()
		return nil, fatal.Wrap(fatal.FileOpen, "sam.NewReader", err)
	}
	return &Reader{
		Reader:   r,
		FileName: bamFile,
		FileID:   fileID,
		f:        f,
		cpu:      cpu,
	}, nil
}

// Close closes the BAM reader and the underlying file.
func (r *Reader) Close() error {
	err := r.Reader.Close()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Refs returns the references declared in the file header.
func (r *Reader) Refs() []*sam.Reference {
	return r.Header().Refs()
}

// Next returns the next record in the file. It returns io.EOF at the end of the file.
func (r *Reader) Next() (*Record, error) {
	rec, err := r.Reader.Read()
	if err != nil {
		return nil, err
	}
	return NewRecord(rec, r.FileID), nil
}

// Scan calls fn for every record of the file, in file order.
func (r *Reader) Scan(fn func(*Record) error) error {
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = fn(rec); err != nil {
			return err
		}
	}
}

// LocateIndex loads the BAM index of the file, if there is one. It
// reports whether an index was found.
func (r *Reader) LocateIndex() bool {
	if r.Index != nil {
		return true
	}
	bai, err := readIndex(r.FileName)
	if err != nil {
		log.WithFields(log.Fields{
			"File": r.FileName,
		}).Debugf("No usable index: %v", err)
		return false
	}
	r.Index = bai
	return true
}

// Region returns an iterator over the mapped records overlapping the
// inclusive interval [start, end] of ref. LocateIndex must have succeeded.
func (r *Reader) Region(ref *sam.Reference, start, end int) (*Iterator, error) {
	if r.Index == nil {
		return nil, fatal.E(fatal.IndexLocate, "sam.Region", "no index for %s", r.FileName)
	}
	chunks, err := r.Index.Chunks(ref, start, end+1)
	switch err {
	case nil:
	case io.EOF, index.ErrInvalid, index.ErrNoReference:
		chunks = nil
	default:
		return nil, err
	}
	return NewIterator(r, NewRefChunk(ref, chunks...), start, end)
}
