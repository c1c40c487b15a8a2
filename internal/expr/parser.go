package expr

import (
	"fmt"
	"strconv"
)

// Parser builds an AST from a formula string.
//
// Precedence, loosest to tightest: if/then/else, or, and, comparison,
// additive (+ doubles as string concatenation), multiplicative, unary.
type Parser struct {
	lexer *Lexer
	cur   Token
}

// Parse parses a formula into an AST.
func Parse(input string) (Node, error) {
	p := &Parser{lexer: NewLexer(input)}
	p.advance()

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %s %q at position %d", p.cur.Type, p.cur.Value, p.cur.Pos)
	}
	return node, nil
}

func (p *Parser) advance() {
	p.cur = p.lexer.NextToken()
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return fmt.Errorf("expected %s, got %q at position %d", t, p.cur.Value, p.cur.Pos)
	}
	p.advance()
	return nil
}

func (p *Parser) parseExpression() (Node, error) {
	if p.cur.Type == TokenIf {
		return p.parseIf()
	}
	return p.parseOr()
}

func (p *Parser) parseIf() (Node, error) {
	p.advance() // consume if

	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenThen); err != nil {
		return nil, err
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenElse); err != nil {
		return nil, err
	}
	// The else branch parses as a full expression, so "else if ..." nests
	// without any special casing.
	els, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return IfExpr{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: TokenOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenAnd {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: TokenAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case TokenEq, TokenNeq, TokenLt, TokenGt, TokenLte, TokenGte:
		op := p.cur.Type
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return BinaryOp{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenPlus || p.cur.Type == TokenMinus {
		op := p.cur.Type
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenStar || p.cur.Type == TokenSlash || p.cur.Type == TokenPercent {
		op := p.cur.Type
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Type == TokenMinus || p.cur.Type == TokenNot {
		op := p.cur.Type
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	switch p.cur.Type {
	case TokenNumber:
		n, err := strconv.ParseFloat(p.cur.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", p.cur.Value, p.cur.Pos)
		}
		p.advance()
		return NumberLit{Value: n}, nil
	case TokenString:
		node := StringLit{Value: p.cur.Value}
		p.advance()
		return node, nil
	case TokenFieldRef:
		if p.cur.Value == "" {
			return nil, fmt.Errorf("empty field reference at position %d", p.cur.Pos)
		}
		node := FieldRef{ID: p.cur.Value}
		p.advance()
		return node, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case TokenIf:
		return p.parseIf()
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at position %d", p.cur.Value, p.cur.Pos)
}
