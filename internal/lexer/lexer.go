// Package lexer implements the lexical scanner for Gone source code.
//
// The scanner is byte-stream oriented: it walks the input rune by rune,
// tracks the current line, and emits tokens carrying the line their first
// character appeared on. Malformed input (illegal characters, unterminated
// character constants, unterminated block comments) is reported to the
// diagnostic sink and scanning continues from the next byte, so one bad
// token never hides the rest of the file.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/miyuchina/compiler/internal/errors"
	"github.com/miyuchina/compiler/pkg/token"
)

// Lexer scans Gone source text into tokens.
type Lexer struct {
	input        string
	sink         *errors.Sink
	position     int
	readPosition int
	line         int
	column       int
	ch           rune
}

// New creates a Lexer over input. Diagnostics go to sink.
func New(input string, sink *errors.Sink) *Lexer {
	l := &Lexer{
		input:  input,
		sink:   sink,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the tokens in source order,
// ending with the EOF token.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// readChar advances the lexer to the next character in the input.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// currentPos returns the current Position for token creation.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// skipWhitespace skips spaces, tabs, carriage returns and newlines.
// Newlines advance the line counter.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipLineComment consumes "//" up to but not including the newline.
func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipBlockComment consumes "/* ... */". Block comments do not nest.
// Newlines inside the comment still advance the line counter. An
// unterminated comment is reported at the line it started on.
func (l *Lexer) skipBlockComment(start token.Position) {
	l.readChar() // skip /
	l.readChar() // skip *

	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip *
			l.readChar() // skip /
			return
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
	l.sink.Report(start.Line, "Unterminated comment")
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or float literal and returns its type and
// matched text. Supported forms: decimal integers, 0x/0o/0b integers, and
// floats "d.d", "d.", ".d" or scientific "d[.d]?[eE][+-]?d".
func (l *Lexer) readNumber() (token.Type, string) {
	startPos := l.position

	// Prefixed bases: 0x, 0o, 0b
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			return l.readBaseNumber(startPos, isHexDigit)
		case 'o', 'O':
			return l.readBaseNumber(startPos, isOctalDigit)
		case 'b', 'B':
			return l.readBaseNumber(startPos, isBinaryDigit)
		}
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false

	// Fractional part: "1.23" and "123." are both floats.
	if l.ch == '.' {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent: "1e10", "1.5e-3"
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && l.exponentHasDigits()) {
			isFloat = true
			l.readChar() // skip e/E
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	typ := token.INT
	if isFloat {
		typ = token.FLOAT
	}
	return typ, l.input[startPos:l.position]
}

// exponentHasDigits checks that a sign after e/E is followed by a digit,
// so "1e+" does not swallow the '+'.
func (l *Lexer) exponentHasDigits() bool {
	pos := l.readPosition + 1 // past the sign
	return pos < len(l.input) && isDigit(rune(l.input[pos]))
}

// readBaseNumber reads a 0x/0o/0b literal.
func (l *Lexer) readBaseNumber(startPos int, valid func(rune) bool) (token.Type, string) {
	l.readChar() // skip 0
	l.readChar() // skip base letter
	for valid(l.ch) {
		l.readChar()
	}
	return token.INT, l.input[startPos:l.position]
}

// readFraction reads a float starting at '.', as in ".123".
func (l *Lexer) readFraction() (token.Type, string) {
	startPos := l.position
	l.readChar() // skip .
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && l.exponentHasDigits()) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return token.FLOAT, l.input[startPos:l.position]
}

// readCharLiteral reads a character constant starting at the opening quote.
// Valid forms: 'c', '\n', '\\', '\'', '\xHH'. On any other shape the
// characters read up to the point of failure are consumed, an
// "Unterminated character" diagnostic is reported, and ok is false.
func (l *Lexer) readCharLiteral(pos token.Position) (string, bool) {
	startPos := l.position
	l.readChar() // skip opening quote

	switch {
	case l.ch == '\\':
		l.readChar()
		switch l.ch {
		case 'n', '\\', '\'':
			l.readChar()
		case 'x':
			l.readChar()
			if isHexDigit(l.ch) && isHexDigit(l.peekChar()) {
				l.readChar()
				l.readChar()
			} else {
				return l.unterminatedChar(startPos, pos)
			}
		default:
			return l.unterminatedChar(startPos, pos)
		}
	case l.ch == 0 || l.ch == '\n':
		return l.unterminatedChar(startPos, pos)
	default:
		l.readChar()
	}

	if l.ch != '\'' {
		return l.unterminatedChar(startPos, pos)
	}
	l.readChar() // skip closing quote
	return l.input[startPos:l.position], true
}

// unterminatedChar reports a malformed character constant. The consumed
// prefix is included in the message so the offending text is identifiable.
func (l *Lexer) unterminatedChar(startPos int, pos token.Position) (string, bool) {
	text := l.input[startPos:l.position]
	l.sink.Reportf(pos.Line, "Unterminated character %s", text)
	return text, false
}

// twoCharToken emits a two-character token if the next char matches,
// otherwise the one-character fallback.
func (l *Lexer) twoCharToken(next rune, two token.Type, one token.Type, pos token.Position) token.Token {
	ch := l.ch
	if l.peekChar() == next {
		l.readChar()
		tok := token.New(two, string(ch)+string(next), pos)
		l.readChar()
		return tok
	}
	tok := token.New(one, string(ch), pos)
	l.readChar()
	return tok
}

// simpleToken emits a one-character token and advances.
func (l *Lexer) simpleToken(typ token.Type, pos token.Position) token.Token {
	tok := token.New(typ, string(l.ch), pos)
	l.readChar()
	return tok
}

// handlePlus handles '+' and its variants (++, +=).
func (l *Lexer) handlePlus(pos token.Position) token.Token {
	switch l.peekChar() {
	case '+':
		l.readChar()
		tok := token.New(token.INC, "++", pos)
		l.readChar()
		return tok
	case '=':
		l.readChar()
		tok := token.New(token.PLUS_ASSIGN, "+=", pos)
		l.readChar()
		return tok
	}
	return l.simpleToken(token.PLUS, pos)
}

// handleMinus handles '-' and its variants (--, -=).
func (l *Lexer) handleMinus(pos token.Position) token.Token {
	switch l.peekChar() {
	case '-':
		l.readChar()
		tok := token.New(token.DEC, "--", pos)
		l.readChar()
		return tok
	case '=':
		l.readChar()
		tok := token.New(token.MINUS_ASSIGN, "-=", pos)
		l.readChar()
		return tok
	}
	return l.simpleToken(token.MINUS, pos)
}

// handleSlash handles comments, '/=' and plain division.
func (l *Lexer) handleSlash(pos token.Position) token.Token {
	switch l.peekChar() {
	case '/':
		l.skipLineComment()
		return l.NextToken()
	case '*':
		l.skipBlockComment(pos)
		return l.NextToken()
	case '=':
		l.readChar()
		tok := token.New(token.DIVIDE_ASSIGN, "/=", pos)
		l.readChar()
		return tok
	}
	return l.simpleToken(token.SLASH, pos)
}

// handleAmpersand handles '&&'. A lone '&' is not a token.
func (l *Lexer) handleAmpersand(pos token.Position) token.Token {
	if l.peekChar() == '&' {
		l.readChar()
		tok := token.New(token.AND, "&&", pos)
		l.readChar()
		return tok
	}
	return l.illegalToken(pos)
}

// handlePipe handles '||'. A lone '|' is not a token.
func (l *Lexer) handlePipe(pos token.Position) token.Token {
	if l.peekChar() == '|' {
		l.readChar()
		tok := token.New(token.OR, "||", pos)
		l.readChar()
		return tok
	}
	return l.illegalToken(pos)
}

// illegalToken reports the current character and emits an ILLEGAL token.
func (l *Lexer) illegalToken(pos token.Position) token.Token {
	l.sink.Reportf(pos.Line, "Illegal character '%c'", l.ch)
	tok := token.New(token.ILLEGAL, string(l.ch), pos)
	l.readChar()
	return tok
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	pos := l.currentPos()

	switch l.ch {
	case 0:
		return token.New(token.EOF, "", pos)
	case '+':
		return l.handlePlus(pos)
	case '-':
		return l.handleMinus(pos)
	case '*':
		return l.twoCharToken('=', token.TIMES_ASSIGN, token.ASTERISK, pos)
	case '/':
		return l.handleSlash(pos)
	case '=':
		return l.twoCharToken('=', token.EQ, token.ASSIGN, pos)
	case '!':
		return l.twoCharToken('=', token.NOT_EQ, token.NOT, pos)
	case '<':
		return l.twoCharToken('=', token.LESS_EQ, token.LESS, pos)
	case '>':
		return l.twoCharToken('=', token.GREATER_EQ, token.GREATER, pos)
	case '&':
		return l.handleAmpersand(pos)
	case '|':
		return l.handlePipe(pos)
	case ';':
		return l.simpleToken(token.SEMICOLON, pos)
	case ',':
		return l.simpleToken(token.COMMA, pos)
	case '(':
		return l.simpleToken(token.LPAREN, pos)
	case ')':
		return l.simpleToken(token.RPAREN, pos)
	case '{':
		return l.simpleToken(token.LBRACE, pos)
	case '}':
		return l.simpleToken(token.RBRACE, pos)
	case '\'':
		literal, ok := l.readCharLiteral(pos)
		if !ok {
			return l.NextToken()
		}
		return token.New(token.CHAR, literal, pos)
	case '.':
		if isDigit(l.peekChar()) {
			typ, literal := l.readFraction()
			return token.New(typ, literal, pos)
		}
		return l.illegalToken(pos)
	default:
		switch {
		case isLetter(l.ch):
			literal := l.readIdentifier()
			return token.New(token.LookupIdent(literal), literal, pos)
		case isDigit(l.ch):
			typ, literal := l.readNumber()
			return token.New(typ, literal, pos)
		default:
			return l.illegalToken(pos)
		}
	}
}

// Helper functions

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return ('0' <= ch && ch <= '9') ||
		('a' <= ch && ch <= 'f') ||
		('A' <= ch && ch <= 'F')
}

func isOctalDigit(ch rune) bool {
	return '0' <= ch && ch <= '7'
}

func isBinaryDigit(ch rune) bool {
	return ch == '0' || ch == '1'
}
