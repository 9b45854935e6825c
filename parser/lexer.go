package parser

import "fmt"

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF   TokenType = iota
	TokenName            // task identifier
	TokenXor             // ^
	TokenPar             // ||
	TokenSeq             // ,
	TokenLParen          // (
	TokenRParen          // )
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenName:
		return "name"
	case TokenXor:
		return `"^"`
	case TokenPar:
		return `"||"`
	case TokenSeq:
		return `","`
	case TokenLParen:
		return `"("`
	case TokenRParen:
		return `")"`
	}
	return "unknown"
}

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// Lexer tokenizes process expression input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token from the input. An unrecognized
// byte is a syntax error, not a skippable character: the grammar has
// no symbol class for it.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	pos := l.pos

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}, nil
	case '^':
		l.readChar()
		return Token{Type: TokenXor, Literal: "^", Pos: pos}, nil
	case ',':
		l.readChar()
		return Token{Type: TokenSeq, Literal: ",", Pos: pos}, nil
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenPar, Literal: "||", Pos: pos}, nil
		}
		return Token{}, &SyntaxError{Pos: pos, Msg: `single "|", expected "||"`}
	}

	if isNameStart(l.ch) {
		return Token{Type: TokenName, Literal: l.readName(), Pos: pos}, nil
	}

	return Token{}, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", l.ch)}
}

func (l *Lexer) readName() string {
	start := l.pos
	for isNameChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// Identifiers follow the usual letter-or-underscore start with
// letters, digits and underscores after that.
func isNameStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || ('0' <= ch && ch <= '9')
}
