package delimited

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Writer writes records as delimited text. output is buffered, call Flush
// when done.
type Writer struct {
	w    *bufio.Writer
	opts options
}

// NewWriter creates a writer on w
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{
		w:    bufio.NewWriter(w),
		opts: newOptions(opts),
	}
}

// Write writes one record followed by the line terminator
func (cw *Writer) Write(record []string) error {
	for i, f := range record {
		if i > 0 {
			if _, err := cw.w.WriteRune(cw.opts.delimiter); err != nil {
				return err
			}
		}
		if _, err := cw.w.WriteString(cw.formatField(f)); err != nil {
			return err
		}
	}
	_, err := cw.w.WriteString(cw.opts.lineTerminator)
	return err
}

// WriteAll writes every record and flushes
func (cw *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Flush writes any buffered data to the underlying writer
func (cw *Writer) Flush() error {
	return cw.w.Flush()
}

func (cw *Writer) formatField(f string) string {
	if !cw.needsQuote(f) {
		return f
	}
	escaped := strings.ReplaceAll(f, `"`, `""`)
	return `"` + escaped + `"`
}

func (cw *Writer) needsQuote(f string) bool {
	switch cw.opts.quoting {
	case QuoteAll:
		return true
	case QuoteNonNumeric:
		return !isNumeric(f)
	case QuoteMinimal:
		if strings.ContainsRune(f, cw.opts.delimiter) || strings.ContainsAny(f, "\"\r\n") {
			return true
		}
		// Parse drops unqualified edge spaces
		return strings.HasPrefix(f, " ") || strings.HasSuffix(f, " ")
	default:
		return false
	}
}

func isNumeric(f string) bool {
	_, err := strconv.ParseFloat(f, 64)
	return err == nil
}
