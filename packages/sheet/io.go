package sheet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jdpolicano/excel/packages/delimited"
	"github.com/jdpolicano/excel/packages/formula"
)

// LoadOptions controls how delimited input becomes a sheet
type LoadOptions struct {
	Encoding  string // empty means utf-8
	Delimiter rune   // zero means ','
	Functions formula.FunctionSet
}

func (o LoadOptions) delimitedOptions() []delimited.Option {
	if o.Delimiter == 0 {
		return nil
	}
	return []delimited.Option{delimited.WithDelimiter(o.Delimiter)}
}

// Load reads delimited text from r and infers every field
func Load(r io.Reader, opts LoadOptions) (*Sheet, error) {
	return load("", r, opts)
}

// LoadFile reads a delimited file; the sheet is named after the file
func LoadFile(path string, opts LoadOptions) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return load(filepath.Base(path), file, opts)
}

func load(name string, r io.Reader, opts LoadOptions) (*Sheet, error) {
	rows, err := delimited.ReadAll(r, opts.Encoding, opts.delimitedOptions()...)
	if err != nil {
		return nil, err
	}
	return New(name, rows, opts.Functions), nil
}

// WriteCSV writes the sheet as delimited text
func (s *Sheet) WriteCSV(w io.Writer, opts ...delimited.Option) error {
	return delimited.NewWriter(w, opts...).WriteAll(s.Records())
}

// WriteFile writes the sheet to path, replacing any existing file
func (s *Sheet) WriteFile(path string, opts ...delimited.Option) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := s.WriteCSV(writer, opts...); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}
