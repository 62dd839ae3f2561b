package delimited

import (
	"fmt"
	"strings"
)

// DefaultDelimiter separates fields unless WithDelimiter says otherwise
const DefaultDelimiter = ','

// Quoting controls when the Writer wraps a field in quotes
type Quoting int

const (
	QuoteMinimal Quoting = iota
	QuoteAll
	QuoteNone
	QuoteNonNumeric
)

func (q Quoting) String() string {
	switch q {
	case QuoteMinimal:
		return "minimal"
	case QuoteAll:
		return "all"
	case QuoteNone:
		return "none"
	case QuoteNonNumeric:
		return "nonnumeric"
	default:
		return "unknown"
	}
}

// ParseQuoting converts a quoting mode name
func ParseQuoting(value string) (Quoting, error) {
	switch strings.ToLower(value) {
	case "", "minimal":
		return QuoteMinimal, nil
	case "all":
		return QuoteAll, nil
	case "none":
		return QuoteNone, nil
	case "nonnumeric":
		return QuoteNonNumeric, nil
	default:
		return QuoteMinimal, fmt.Errorf("unsupported quoting: %s", value)
	}
}

// ValidDelimiter reports whether r can separate fields. the quote, space
// and line breaks already mean something else.
func ValidDelimiter(r rune) bool {
	switch r {
	case 0, charQuote, charSpace, charReturn, charLF:
		return false
	}
	return true
}

type options struct {
	delimiter      rune
	quoting        Quoting
	lineTerminator string
}

// Option configures parsing and writing
type Option func(*options)

// WithDelimiter sets the field delimiter
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if ValidDelimiter(r) {
			o.delimiter = r
		}
	}
}

// WithQuoting sets the Writer's quoting mode
func WithQuoting(q Quoting) Option {
	return func(o *options) { o.quoting = q }
}

// WithLineTerminator sets the Writer's row terminator
func WithLineTerminator(s string) Option {
	return func(o *options) { o.lineTerminator = s }
}

func newOptions(opts []Option) options {
	o := options{
		delimiter:      DefaultDelimiter,
		quoting:        QuoteMinimal,
		lineTerminator: "\n",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
