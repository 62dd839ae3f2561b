package delimited

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encodings lists the input encoding names ReadAll understands
var Encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"utf-8-bom":    unicode.UTF8BOM,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// LookupEncoding resolves an encoding name, empty meaning utf-8
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, ok := Encodings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
	return enc, nil
}

// ReadAll decodes r from the named encoding to UTF-8 and parses the result
func ReadAll(r io.Reader, encodingName string, opts ...Option) ([][]string, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s input: %w", encodingName, err)
	}

	return Parse(string(data), opts...), nil
}
