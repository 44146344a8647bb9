package utils

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Check logs err and exits. It is meant for command line code only.
func Check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func Max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// OutputJSON writes the indented json representation of v to an io.Writer
func OutputJSON(writer io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err = writer.Write(b); err != nil {
		return err
	}
	if w, ok := writer.(*bufio.Writer); ok {
		return w.Flush()
	}
	return nil
}

// Output is a buffered writer on a file or on the standard output.
type Output struct {
	*bufio.Writer
	f *os.File
}

// NewOutput returns a new Output given an output file name. If the file name is '-' os.Stdout is used.
func NewOutput(output string) (*Output, error) {
	if output == "-" || output == "" {
		return &Output{bufio.NewWriter(os.Stdout), nil}, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	return &Output{bufio.NewWriter(f), f}, nil
}

// Close flushes the buffer and closes the underlying file, if any.
func (o *Output) Close() error {
	err := o.Flush()
	if o.f != nil {
		if cerr := o.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
