package expr

import (
	"strings"
	"unicode"
)

// Lexer tokenizes a formula string.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer for the given formula.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '{':
		return l.scanFieldRef()
	case '[':
		return l.scanBracketLiteral()
	case '\'', '"':
		return l.scanQuoted(ch)
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Value: "(", Pos: start}
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Value: ")", Pos: start}
	case '+':
		l.pos++
		return Token{Type: TokenPlus, Value: "+", Pos: start}
	case '-':
		l.pos++
		return Token{Type: TokenMinus, Value: "-", Pos: start}
	case '*':
		l.pos++
		return Token{Type: TokenStar, Value: "*", Pos: start}
	case '/':
		l.pos++
		return Token{Type: TokenSlash, Value: "/", Pos: start}
	case '%':
		l.pos++
		return Token{Type: TokenPercent, Value: "%", Pos: start}
	case '=':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenEq, Value: "==", Pos: start}
		}
		l.pos++
		return Token{Type: TokenEq, Value: "=", Pos: start}
	case '!':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenNeq, Value: "!=", Pos: start}
		}
		l.pos++
		return Token{Type: TokenNot, Value: "!", Pos: start}
	case '<':
		// <nl> is the literal newline marker, not a comparison.
		if strings.HasPrefix(l.input[l.pos:], "<nl>") {
			l.pos += 4
			return Token{Type: TokenString, Value: "\n", Pos: start}
		}
		if l.peekAt(1) == '>' {
			l.pos += 2
			return Token{Type: TokenNeq, Value: "<>", Pos: start}
		}
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenLte, Value: "<=", Pos: start}
		}
		l.pos++
		return Token{Type: TokenLt, Value: "<", Pos: start}
	case '>':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenGte, Value: ">=", Pos: start}
		}
		l.pos++
		return Token{Type: TokenGt, Value: ">", Pos: start}
	case '&':
		if l.peekAt(1) == '&' {
			l.pos += 2
			return Token{Type: TokenAnd, Value: "&&", Pos: start}
		}
	case '|':
		if l.peekAt(1) == '|' {
			l.pos += 2
			return Token{Type: TokenOr, Value: "||", Pos: start}
		}
	}

	if ch >= '0' && ch <= '9' || ch == '.' {
		return l.scanNumber()
	}
	if isWordStart(ch) {
		return l.scanWord()
	}

	l.pos++
	return Token{Type: TokenError, Value: string(ch), Pos: start}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

func (l *Lexer) scanFieldRef() Token {
	start := l.pos
	l.pos++ // skip {
	for l.pos < len(l.input) && l.input[l.pos] != '}' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Type: TokenError, Value: l.input[start:], Pos: start}
	}
	name := l.input[start+1 : l.pos]
	l.pos++ // skip }
	return Token{Type: TokenFieldRef, Value: strings.TrimSpace(name), Pos: start}
}

// scanBracketLiteral scans [free text] as a string literal. [] is the empty
// string.
func (l *Lexer) scanBracketLiteral() Token {
	start := l.pos
	l.pos++ // skip [
	for l.pos < len(l.input) && l.input[l.pos] != ']' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Type: TokenError, Value: l.input[start:], Pos: start}
	}
	text := l.input[start+1 : l.pos]
	l.pos++ // skip ]
	return Token{Type: TokenString, Value: text, Pos: start}
}

func (l *Lexer) scanQuoted(quote byte) Token {
	start := l.pos
	l.pos++ // skip opening quote
	for l.pos < len(l.input) && l.input[l.pos] != quote {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Type: TokenError, Value: l.input[start:], Pos: start}
	}
	text := l.input[start+1 : l.pos]
	l.pos++ // skip closing quote
	return Token{Type: TokenString, Value: text, Pos: start}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.input) && (l.input[l.pos] >= '0' && l.input[l.pos] <= '9' || l.input[l.pos] == '.') {
		l.pos++
	}
	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]
	switch strings.ToLower(word) {
	case "if":
		return Token{Type: TokenIf, Value: word, Pos: start}
	case "then":
		return Token{Type: TokenThen, Value: word, Pos: start}
	case "else":
		return Token{Type: TokenElse, Value: word, Pos: start}
	case "and":
		return Token{Type: TokenAnd, Value: word, Pos: start}
	case "or":
		return Token{Type: TokenOr, Value: word, Pos: start}
	case "not":
		return Token{Type: TokenNot, Value: word, Pos: start}
	}
	return Token{Type: TokenError, Value: word, Pos: start}
}

func isWordStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isWordChar(ch byte) bool {
	return isWordStart(ch) || ch >= '0' && ch <= '9'
}
