package formula

import "fmt"

// ParseErrorCode classifies why a formula failed to parse
type ParseErrorCode uint8

const (
	ErrorCodeUnexpectedEndOfFile ParseErrorCode = 1 // input ran out inside a construct
	ErrorCodeUnexpectedToken     ParseErrorCode = 2 // a specific token kind was required
	ErrorCodeInvalidExpression   ParseErrorCode = 3 // malformed leading syntax or unknown primary
)

// ParseErrorMapper maps error codes to their names
var ParseErrorMapper = map[ParseErrorCode]string{
	ErrorCodeUnexpectedEndOfFile: "UnexpectedEndOfFile",
	ErrorCodeUnexpectedToken:     "UnexpectedToken",
	ErrorCodeInvalidExpression:   "InvalidExpression",
}

func (c ParseErrorCode) String() string {
	if name, ok := ParseErrorMapper[c]; ok {
		return name
	}
	return "Unknown"
}

// sentinels for errors.Is, matched on code only
var (
	ErrUnexpectedEndOfFile = &ParseError{Code: ErrorCodeUnexpectedEndOfFile}
	ErrUnexpectedToken     = &ParseError{Code: ErrorCodeUnexpectedToken}
	ErrInvalidExpression   = &ParseError{Code: ErrorCodeInvalidExpression}
)

// ParseError is returned for any formula that fails to parse. Expected and
// Found are only set for ErrorCodeUnexpectedToken.
type ParseError struct {
	Code     ParseErrorCode
	Expected string
	Found    string
	Pos      int // byte offset in the formula text, '=' included
	Message  string
}

func (e *ParseError) Error() string {
	switch e.Code {
	case ErrorCodeUnexpectedToken:
		return fmt.Sprintf("unexpected token: expected %s, found %s at %d", e.Expected, e.Found, e.Pos)
	case ErrorCodeUnexpectedEndOfFile:
		return fmt.Sprintf("unexpected end of file at %d", e.Pos)
	}
	if e.Message != "" {
		return fmt.Sprintf("invalid expression: %s at %d", e.Message, e.Pos)
	}
	return fmt.Sprintf("invalid expression at %d", e.Pos)
}

// Is makes every ParseError with the same code match the sentinels
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Code == e.Code
}

// NewUnexpectedEndOfFile creates an UnexpectedEndOfFile error
func NewUnexpectedEndOfFile(pos int) *ParseError {
	return &ParseError{Code: ErrorCodeUnexpectedEndOfFile, Pos: pos}
}

// NewUnexpectedToken creates an UnexpectedToken error for the token found
func NewUnexpectedToken(expected string, found Token, pos int) *ParseError {
	return &ParseError{
		Code:     ErrorCodeUnexpectedToken,
		Expected: expected,
		Found:    found.String(),
		Pos:      pos,
	}
}

// NewInvalidExpression creates an InvalidExpression error
func NewInvalidExpression(message string, pos int) *ParseError {
	return &ParseError{Code: ErrorCodeInvalidExpression, Message: message, Pos: pos}
}
