package region

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"
	"strconv"

	"github.com/guigolab/alncol/fatal"
	"github.com/klauspost/compress/gzip"
)

// CheckBytes peeks at a buffered stream and checks if the first read bytes match.
func CheckBytes(b *bufio.Reader, buf []byte) (bool, error) {
	m, err := b.Peek(len(buf))
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(m, buf), nil
}

func isGzip(b *bufio.Reader) (bool, error) {
	return CheckBytes(b, []byte{0x1f, 0x8b})
}

func isBzip2(b *bufio.Reader) (bool, error) {
	return CheckBytes(b, []byte{0x42, 0x5a, 0x68})
}

// buffReader wraps r in a buffered reader, decompressing gzip and bzip2 streams.
func buffReader(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReader(r)
	if isGz, err := isGzip(br); err != nil {
		return nil, err
	} else if isGz {
		rdr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(rdr), nil
	}
	if isBz, err := isBzip2(br); err != nil {
		return nil, err
	} else if isBz {
		return bufio.NewReader(bzip2.NewReader(br)), nil
	}
	return br, nil
}

// Reader reads regions from a BED stream.
type Reader struct {
	r    *bufio.Reader
	line int
}

func NewReader(r io.Reader) (*Reader, error) {
	br, err := buffReader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{r: br}, nil
}

func skip(line []byte) bool {
	return len(line) == 0 ||
		line[0] == '#' ||
		bytes.HasPrefix(line, []byte("track")) ||
		bytes.HasPrefix(line, []byte("browser"))
}

// Read returns the next region. It returns io.EOF at the end of the stream.
func (r *Reader) Read() (*Region, error) {
	var line []byte
	for {
		l, err := r.r.ReadBytes('\n')
		if err != nil && (err != io.EOF || len(l) == 0) {
			return nil, err
		}
		r.line++
		line = bytes.TrimSpace(l)
		if !skip(line) {
			break
		}
		if err == io.EOF {
			return nil, err
		}
	}
	fields := bytes.Split(line, []byte{'\t'})
	if len(fields) < 3 {
		return nil, fatal.E(fatal.Config, "region.Read", "line %d: expected at least 3 fields, got %d", r.line, len(fields))
	}
	begin, err := strconv.ParseFloat(string(fields[1]), 64)
	if err != nil {
		return nil, fatal.E(fatal.Config, "region.Read", "line %d: bad start %q", r.line, fields[1])
	}
	end, err := strconv.ParseFloat(string(fields[2]), 64)
	if err != nil {
		return nil, fatal.E(fatal.Config, "region.Read", "line %d: bad end %q", r.line, fields[2])
	}
	var name string
	if len(fields) > 3 {
		name = string(fields[3])
	}
	reg, err := New(string(fields[0]), name, begin, end)
	if err != nil {
		return nil, fatal.E(fatal.Config, "region.Read", "line %d: %v", r.line, err)
	}
	return reg, nil
}
