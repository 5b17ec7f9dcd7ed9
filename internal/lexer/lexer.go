// Package lexer turns ћ++ source bytes into tokens. The scanner walks the
// byte buffer directly, decoding UTF-8 on the fly; identifiers may contain
// any codepoint the language's identifier classes accept. One token of
// lookahead is available through PeekToken.
package lexer

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"

	"chppc/internal/diagnostics"
	"chppc/internal/source"
	"chppc/internal/target"
	"chppc/internal/tokens"
	"chppc/internal/utf8"
)

// maxNumberLength bounds a numeric literal's lexeme.
const maxNumberLength = 64

// Lexer holds the scanning state for one source buffer.
type Lexer struct {
	src        []byte // NUL-terminated copy of the source
	length     int    // source length excluding the trailing NUL
	filename   string
	current    int
	start      int
	line       int
	column     int
	prevColumn int

	lookahead  *tokens.Token
	targetInfo target.Info
	diag       *diagnostics.Reporter
}

// New creates a lexer over an owned copy of src.
func New(src []byte, filename string, ti target.Info, diag *diagnostics.Reporter) *Lexer {
	buf := make([]byte, len(src)+1)
	copy(buf, src)

	return &Lexer{
		src:        buf,
		length:     len(src),
		filename:   filename,
		line:       1,
		column:     1,
		prevColumn: 1,
		targetInfo: ti,
		diag:       diag,
	}
}

// NewFromFile reads the whole file into memory and creates a lexer over it.
// A failed read is a fatal IO diagnostic.
func NewFromFile(path string, ti target.Info, diag *diagnostics.Reporter) (*Lexer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		diag.Report(diagnostics.IO, diagnostics.Fatal, path, 0, 0,
			"Failed to open source file",
			"Check that the file exists and has read permissions")
		return nil, err
	}
	return New(data, path, ti, diag), nil
}

// Filename returns the name of the source being scanned.
func (l *Lexer) Filename() string { return l.filename }

// Source returns the scanned buffer without the trailing NUL. The Lexeme of
// every non-error token equals the bytes of this buffer at its Offset.
func (l *Lexer) Source() []byte { return l.src[:l.length] }

// Target returns the target descriptor the lexer was built with.
func (l *Lexer) Target() target.Info { return l.targetInfo }

// NextToken returns the next token, consuming the cached lookahead first.
func (l *Lexer) NextToken() tokens.Token {
	if l.lookahead != nil {
		tok := *l.lookahead
		l.lookahead = nil
		return tok
	}

	l.skipWhitespace()
	l.start = l.current

	if l.atEnd() {
		return l.makeToken(tokens.EOF_TOKEN)
	}

	return l.scanToken()
}

// PeekToken returns the next token without consuming it: a lookahead queue
// of depth one. The token is scanned once, cached, and handed back by the
// following NextToken; a peek never consumes.
func (l *Lexer) PeekToken() tokens.Token {
	if l.lookahead != nil {
		return *l.lookahead
	}

	tok := l.NextToken()
	l.lookahead = &tok
	return tok
}

func (l *Lexer) atEnd() bool {
	return l.current >= l.length
}

// advance reads one codepoint. ASCII costs one column; each extra byte of a
// multi-byte sequence costs another (columns count bytes). Invalid
// continuation bytes rewind and surface the raw first byte so the grammar
// decides how to fail.
func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}

	first := l.src[l.current]
	l.current++
	l.prevColumn = l.column
	l.column++

	if first == '\n' {
		l.line++
		l.column = 1
		return '\n'
	}

	if first&0x80 == 0 {
		return rune(first)
	}

	numBytes := utf8.SequenceLength(first)
	seq := make([]byte, 1, numBytes)
	seq[0] = first

	for i := 1; i < numBytes; i++ {
		if l.atEnd() {
			return rune(first)
		}
		next := l.src[l.current]
		if next&0xC0 != 0x80 {
			return rune(first)
		}
		l.current++
		l.column++
		seq = append(seq, next)
	}

	cp, size := utf8.Decode(seq)
	if size == 0 {
		return rune(first)
	}
	return cp
}

// peek looks at the current byte without advancing.
func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.current]
}

// peekNext looks one byte past the current one.
func (l *Lexer) peekNext() byte {
	if l.current+1 >= l.length {
		return 0
	}
	return l.src[l.current+1]
}

// peekChar decodes the codepoint at the cursor without advancing.
func (l *Lexer) peekChar() rune {
	if l.atEnd() {
		return 0
	}
	cp, size := utf8.Decode(l.src[l.current:l.length])
	if size == 0 {
		return rune(l.src[l.current])
	}
	return cp
}

// match consumes the current byte if it equals expected.
func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.src[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()

		case '/':
			if l.peekNext() == '/' {
				for l.peek() != '\n' && !l.atEnd() {
					l.advance()
				}
			} else if l.peekNext() == '*' {
				l.advance() // consume '/'
				l.advance() // consume '*'

				for !l.atEnd() {
					if l.peek() == '*' && l.peekNext() == '/' {
						l.advance()
						l.advance()
						break
					}
					l.advance()
				}

				if l.atEnd() {
					l.diag.Report(diagnostics.Lexical, diagnostics.Warning,
						l.filename, l.line, l.column,
						"Unterminated multi-line comment",
						"Add */ to close the comment")
				}
			} else {
				// A division operator, not a comment
				return
			}

		default:
			return
		}
	}
}

func (l *Lexer) scanToken() tokens.Token {
	c := l.advance()

	if isIdentifierStart(c) {
		return l.scanIdentifier()
	}

	if utf8.IsDigit(c) {
		return l.scanNumber()
	}

	switch c {
	case '(':
		return l.makeToken(tokens.OPEN_PAREN)
	case ')':
		return l.makeToken(tokens.CLOSE_PAREN)
	case '[':
		return l.makeToken(tokens.OPEN_BRACKET)
	case ']':
		return l.makeToken(tokens.CLOSE_BRACKET)
	case ':':
		return l.makeToken(tokens.COLON_TOKEN)
	case ';':
		return l.makeToken(tokens.SEMICOLON_TOKEN)
	case ',':
		return l.makeToken(tokens.COMMA_TOKEN)
	case '.':
		return l.makeToken(tokens.DOT_TOKEN)
	case '+':
		return l.makeToken(tokens.PLUS_TOKEN)
	case '-':
		return l.makeToken(tokens.MINUS_TOKEN)
	case '*':
		return l.makeToken(tokens.STAR_TOKEN)
	case '/':
		return l.makeToken(tokens.SLASH_TOKEN)
	case '%':
		return l.makeToken(tokens.PERCENT_TOKEN)
	case '^':
		return l.makeToken(tokens.CARET_TOKEN)
	case '~':
		return l.makeToken(tokens.TILDE_TOKEN)

	case '!':
		if l.match('=') {
			return l.makeToken(tokens.NOT_EQUALS_TOKEN)
		}
		return l.makeToken(tokens.NOT_TOKEN)
	case '=':
		if l.match('=') {
			return l.makeToken(tokens.DOUBLE_EQUALS_TOKEN)
		}
		return l.makeToken(tokens.EQUALS_TOKEN)
	case '<':
		// Relational or block-open; the parser frames blocks grammatically
		if l.match('=') {
			return l.makeToken(tokens.LESS_EQUALS_TOKEN)
		}
		return l.makeToken(tokens.LESS_TOKEN)
	case '>':
		if l.match('=') {
			return l.makeToken(tokens.GREATER_EQUALS_TOKEN)
		}
		return l.makeToken(tokens.GREATER_TOKEN)
	case '&':
		if l.match('&') {
			return l.makeToken(tokens.DOUBLE_AND_TOKEN)
		}
		return l.makeToken(tokens.AND_TOKEN)
	case '|':
		if l.match('|') {
			return l.makeToken(tokens.DOUBLE_OR_TOKEN)
		}
		return l.makeToken(tokens.OR_TOKEN)

	case '"':
		return l.scanString()
	case '\'':
		return l.scanCharacterLiteral()
	}

	return l.errorToken(fmt.Sprintf("Unexpected character '%c'", c), "")
}

func isIdentifierStart(c rune) bool {
	return utf8.IsIdentifierChar(c, true)
}

func (l *Lexer) scanIdentifier() tokens.Token {
	for utf8.IsIdentifierChar(l.peekChar(), false) {
		l.advance()
	}

	text := string(l.src[l.start:l.current])

	if kind, ok := tokens.KeywordToken(text); ok {
		return l.makeToken(kind)
	}

	tok := l.makeToken(tokens.IDENTIFIER_TOKEN)
	tok.StringValue = text
	return tok
}

func (l *Lexer) scanNumber() tokens.Token {
	for utf8.IsDigit(rune(l.peek())) {
		l.advance()
	}

	integralEnd := l.current

	// A decimal point followed by a digit starts a fractional part the
	// language cannot represent; consume it and warn.
	if l.peek() == '.' && utf8.IsDigit(rune(l.peekNext())) {
		l.advance()
		for utf8.IsDigit(rune(l.peek())) {
			l.advance()
		}

		l.diag.Report(diagnostics.Lexical, diagnostics.Warning,
			l.filename, l.line, l.column,
			"Floating-point numbers are not fully supported yet",
			"Truncating to integer value")
	}

	if l.current-l.start >= maxNumberLength {
		return l.errorToken("Number too large", "")
	}

	value, err := strconv.ParseInt(string(l.src[l.start:integralEnd]), 10, 64)
	if err != nil {
		value = math.MaxInt64
		l.diag.Report(diagnostics.Lexical, diagnostics.Warning,
			l.filename, l.line, l.column,
			"Numeric literal does not fit in a machine word",
			"Values are word-sized; use a smaller constant")
	} else if l.targetInfo.WordSize == 4 && value > math.MaxInt32 {
		l.diag.Report(diagnostics.Lexical, diagnostics.Warning,
			l.filename, l.line, l.column,
			"Numeric literal exceeds the 32-bit target word",
			"Values are word-sized; use a smaller constant or target x86-64")
	}

	tok := l.makeToken(tokens.NUMBER_TOKEN)
	tok.IntValue = value
	return tok
}

// scanEscape handles the character after a backslash, shared by string and
// character literals. It returns the resulting codepoint, whether the value
// is a raw byte (the \xXX form), and whether the escape was valid.
func (l *Lexer) scanEscape(startLine, startColumn int) (cp rune, rawByte bool, ok bool) {
	next := l.advance()
	switch next {
	case '"':
		return '"', false, true
	case '\'':
		return '\'', false, true
	case '\\':
		return '\\', false, true
	case 'r':
		return '\r', false, true
	case 't':
		return '\t', false, true
	case '0':
		return 0, false, true
	case 'n':
		return '\n', false, true
	case 'b':
		return '\b', false, true
	case 'f':
		return '\f', false, true
	case 'v':
		return '\v', false, true
	case 'a':
		return '\a', false, true

	case 'u':
		// \uXXXX: exactly four hex digits forming a codepoint
		var value rune
		for i := 0; i < 4; i++ {
			d := hexDigit(l.peek())
			if l.atEnd() || d < 0 {
				l.diag.Report(diagnostics.Lexical, diagnostics.Error,
					l.filename, startLine, startColumn,
					"Invalid Unicode escape sequence",
					"Unicode escape must be in the form \\uXXXX")
				return 0, false, false
			}
			value = value<<4 | rune(d)
			l.advance()
		}
		return value, false, true

	case 'x':
		// \xXX: exactly two hex digits forming a raw byte
		var value rune
		for i := 0; i < 2; i++ {
			d := hexDigit(l.peek())
			if l.atEnd() || d < 0 {
				l.diag.Report(diagnostics.Lexical, diagnostics.Error,
					l.filename, startLine, startColumn,
					"Invalid hex escape sequence",
					"Hex escape must be in the form \\xXX")
				return 0, false, false
			}
			value = value<<4 | rune(d)
			l.advance()
		}
		return value, true, true

	default:
		l.diag.Report(diagnostics.Lexical, diagnostics.Error,
			l.filename, l.line, l.column,
			fmt.Sprintf("Invalid escape sequence '\\%c'", next),
			"Use a valid escape sequence (\\n, \\t, etc.)")
		return 0, false, false
	}
}

func hexDigit(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

func (l *Lexer) scanString() tokens.Token {
	var buf bytes.Buffer

	startLine := l.line
	startColumn := l.column - 1 // adjust for the opening quote

	for l.peek() != '"' && !l.atEnd() {
		if l.peek() == '\\' {
			l.advance() // consume the backslash
			cp, rawByte, ok := l.scanEscape(startLine, startColumn)
			if !ok {
				return l.errorTokenReported("Invalid escape sequence")
			}
			if rawByte {
				buf.WriteByte(byte(cp))
			} else if cp < 128 {
				buf.WriteByte(byte(cp))
			} else {
				buf.Write(utf8.Encode(cp))
			}
			continue
		}

		// Body bytes are carried through verbatim: copy exactly what
		// advance consumed, so malformed sequences reach the literal
		// unchanged instead of being re-encoded as some other codepoint
		bodyStart := l.current
		l.advance()
		buf.Write(l.src[bodyStart:l.current])
	}

	if l.atEnd() || l.peek() != '"' {
		return l.errorTokenAt("Unterminated string literal",
			"Add closing double quote", startLine, startColumn)
	}

	l.advance() // closing quote

	tok := l.makeToken(tokens.STRING_TOKEN)
	tok.StringValue = buf.String()
	return tok
}

func (l *Lexer) scanCharacterLiteral() tokens.Token {
	startLine := l.line
	startColumn := l.column - 1 // adjust for the opening quote

	var c rune
	if l.peek() == '\\' {
		l.advance() // consume the backslash
		cp, _, ok := l.scanEscape(startLine, startColumn)
		if !ok {
			return l.errorTokenReported("Invalid escape sequence")
		}
		c = cp
	} else {
		c = l.advance()
	}

	if l.peek() != '\'' {
		return l.errorTokenAt("Unterminated character literal",
			"Add closing single quote", startLine, startColumn)
	}
	l.advance() // closing quote

	tok := l.makeToken(tokens.CHAR_TOKEN)
	tok.CharValue = c
	return tok
}

func (l *Lexer) makeToken(kind tokens.TOKEN) tokens.Token {
	length := l.current - l.start
	return tokens.Token{
		Kind:   kind,
		Lexeme: string(l.src[l.start:l.current]),
		Offset: l.start,
		Location: source.Location{
			Filename: l.filename,
			Line:     l.line,
			Column:   l.column - length,
		},
	}
}

// errorToken reports a Lexical error at the current position and returns an
// error token carrying the message as its lexeme.
func (l *Lexer) errorToken(message, suggestion string) tokens.Token {
	return l.errorTokenAt(message, suggestion, l.line, l.column)
}

func (l *Lexer) errorTokenAt(message, suggestion string, line, column int) tokens.Token {
	l.diag.Report(diagnostics.Lexical, diagnostics.Error,
		l.filename, line, column, message, suggestion)
	return l.errorTokenReported(message)
}

// errorTokenReported builds an error token for a defect that has already
// been reported.
func (l *Lexer) errorTokenReported(message string) tokens.Token {
	return tokens.Token{
		Kind:   tokens.ERROR_TOKEN,
		Lexeme: message,
		Offset: l.start,
		Location: source.Location{
			Filename: l.filename,
			Line:     l.line,
			Column:   l.column,
		},
	}
}
