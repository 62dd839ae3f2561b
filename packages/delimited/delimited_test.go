package delimited

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		input string
		types []TokenType
	}{
		{"a,b", []TokenType{TokenValue, TokenDelimiter, TokenValue, TokenEOF}},
		{"a\r\nb\n", []TokenType{TokenValue, TokenNewline, TokenValue, TokenNewline, TokenEOF}},
		{`"a""b"`, []TokenType{TokenTextQualifier, TokenValue, TokenEscaped, TokenValue, TokenTextQualifier, TokenEOF}},
		{`""`, []TokenType{TokenTextQualifier, TokenTextQualifier, TokenEOF}},
		{"a b", []TokenType{TokenValue, TokenWhiteSpace, TokenValue, TokenEOF}},
		{"", []TokenType{TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewTokenizer(tt.input, ',').Tokenize()
			got := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				got[i] = tok.Type
			}
			if !reflect.DeepEqual(got, tt.types) {
				t.Errorf("got %v, want %v", got, tt.types)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  [][]string
	}{
		{"empty", "", nil, nil},
		{"single row", "a,b,c", nil, [][]string{{"a", "b", "c"}}},
		{"trailing newline", "a,b\n", nil, [][]string{{"a", "b"}}},
		{"crlf", "a,b\r\nc,d\r\n", nil, [][]string{{"a", "b"}, {"c", "d"}}},
		{"trailing empty field", "a,", nil, [][]string{{"a", ""}}},
		{"blank line", "a\n\nb", nil, [][]string{{"a"}, {""}, {"b"}}},
		{"quoted delimiter", `"a,b",c`, nil, [][]string{{"a,b", "c"}}},
		{"quoted newline", "\"a\nb\",c", nil, [][]string{{"a\nb", "c"}}},
		{"escaped quote", `"he said ""hi""",x`, nil, [][]string{{`he said "hi"`, "x"}}},
		{"quoted empty", `"",x`, nil, [][]string{{"", "x"}}},
		{"fully quoted quote", `"""hi"""`, nil, [][]string{{`"hi"`}}},
		{"edge spaces dropped", " a , b ", nil, [][]string{{"a", "b"}}},
		{"interior spaces kept", "hello world,x", nil, [][]string{{"hello world", "x"}}},
		{"quoted spaces kept", `"  a  ",b`, nil, [][]string{{"  a  ", "b"}}},
		{"formula", "=SUM( A1 , B1 ),2", nil, [][]string{{"=SUM( A1", "B1 )", "2"}}},
		{"quoted formula", `"=SUM(A1,B1)",2`, nil, [][]string{{"=SUM(A1,B1)", "2"}}},
		{"semicolon", "a;b,c\n1;2", []Option{WithDelimiter(';')}, [][]string{{"a", "b,c"}, {"1", "2"}}},
		{"tab", "a\tb", []Option{WithDelimiter('\t')}, [][]string{{"a", "b"}}},
		{"invalid delimiter ignored", "a,b", []Option{WithDelimiter('"')}, [][]string{{"a", "b"}}},
		{"unicode", "名前,値\n世界,1", nil, [][]string{{"名前", "値"}, {"世界", "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input, tt.opts...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriterQuoting(t *testing.T) {
	record := []string{"plain", "a,b", `say "hi"`, "12.5", " pad", "line\nbreak"}

	tests := []struct {
		quoting Quoting
		want    string
	}{
		{QuoteMinimal, "plain,\"a,b\",\"say \"\"hi\"\"\",12.5,\" pad\",\"line\nbreak\"\n"},
		{QuoteAll, "\"plain\",\"a,b\",\"say \"\"hi\"\"\",\"12.5\",\" pad\",\"line\nbreak\"\n"},
		{QuoteNone, "plain,a,b,say \"hi\",12.5, pad,line\nbreak\n"},
		{QuoteNonNumeric, "\"plain\",\"a,b\",\"say \"\"hi\"\"\",12.5,\" pad\",\"line\nbreak\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.quoting.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, WithQuoting(tt.quoting))
			if err := w.Write(record); err != nil {
				t.Fatal(err)
			}
			if err := w.Flush(); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriterRoundTrip(t *testing.T) {
	records := [][]string{
		{"name", "formula", "note"},
		{"total", "=SUM(A1,B1)", `he said "hi"`},
		{" spaced ", "a\r\nb", ""},
	}

	for _, delim := range []rune{',', ';', '\t'} {
		var buf bytes.Buffer
		w := NewWriter(&buf, WithDelimiter(delim), WithLineTerminator("\r\n"))
		if err := w.WriteAll(records); err != nil {
			t.Fatal(err)
		}

		got := Parse(buf.String(), WithDelimiter(delim))
		if !reflect.DeepEqual(got, records) {
			t.Errorf("delimiter %q: got %q, want %q", delim, got, records)
		}
	}
}

func TestParseQuoting(t *testing.T) {
	for _, name := range []string{"minimal", "all", "none", "nonnumeric", "ALL"} {
		q, err := ParseQuoting(name)
		if err != nil {
			t.Fatalf("ParseQuoting(%q): %v", name, err)
		}
		if q.String() != strings.ToLower(name) {
			t.Errorf("ParseQuoting(%q) = %s", name, q)
		}
	}
	if _, err := ParseQuoting("sometimes"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestReadAllEncodings(t *testing.T) {
	utf16 := func(order unicode.Endianness, s string) string {
		out, err := unicode.UTF16(order, unicode.UseBOM).NewEncoder().String(s)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	tests := []struct {
		encoding string
		input    string
		want     [][]string
	}{
		{"", "café,1\n", [][]string{{"café", "1"}}},
		{"utf-8", "café,1\n", [][]string{{"café", "1"}}},
		{"utf-8-bom", "\xef\xbb\xbfa,b\n", [][]string{{"a", "b"}}},
		{"latin1", "caf\xe9,1\n", [][]string{{"café", "1"}}},
		{"ISO-8859-1", "caf\xe9,1\n", [][]string{{"café", "1"}}},
		{"windows-1252", "\x80 5,x\n", [][]string{{"€ 5", "x"}}},
		{"utf-16le", utf16(unicode.LittleEndian, "名前,=SUM(A1,B1)\n"), [][]string{{"名前", "=SUM(A1", "B1)"}}},
		{"utf-16be", utf16(unicode.BigEndian, "a,\"b,c\"\n"), [][]string{{"a", "b,c"}}},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			got, err := ReadAll(strings.NewReader(tt.input), tt.encoding)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ReadAll(strings.NewReader("a"), "ebcdic"); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
}

func BenchmarkParseLargeInput(b *testing.B) {
	var sb strings.Builder
	for row := 0; row < 1000; row++ {
		sb.WriteString(`1,2.5,"text, quoted",=SUM(A1,B1),plain value` + "\n")
	}
	input := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(input)
	}
}
