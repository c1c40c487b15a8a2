// Package expr implements the formula language for computed fields: a lexer,
// a recursive-descent parser producing a small AST, a tree-walking evaluator,
// and display formatting.
//
// The grammar is intentionally minimal: field references {id}, bracket string
// literals [like this], quoted strings, numbers, arithmetic and comparison
// operators, and/or, string concatenation via +, and nestable
// if/then/else.
package expr

// TokenType identifies a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString   // 'quoted', "quoted", [bracket literal], or <nl>
	TokenFieldRef // {field-id}
	TokenIf
	TokenThen
	TokenElse
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEq  // ==
	TokenNeq // != or <>
	TokenLt
	TokenGt
	TokenLte
	TokenGte
	TokenAnd // && or "and"
	TokenOr  // || or "or"
	TokenNot // ! or "not"
	TokenLParen
	TokenRParen
	TokenError
)

// Token is one lexed unit of a formula.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of expression"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenFieldRef:
		return "field reference"
	case TokenIf:
		return "'if'"
	case TokenThen:
		return "'then'"
	case TokenElse:
		return "'else'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "operator"
	}
}
