package dot

import (
	"fmt"
	"strings"

	"github.com/ryftlang/restructure/internal/region"
)

// exprParser is a small recursive-descent parser for the boolean
// expression mini-language a fixture's `cond` attribute carries:
// atomics, !, &&, ||, parentheses and the six relational operators.
// Precedence from lowest to highest: ||, &&, !, the relational
// operators, then atoms and parenthesized groups.
type exprParser struct {
	toks []string
	pos  int
}

func parseExpr(src string) (*region.Expr, error) {
	p := &exprParser{toks: tokenize(src)}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected token %q", p.toks[p.pos])
	}
	return e, nil
}

func tokenize(src string) []string {
	var toks []string
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case strings.HasPrefix(src[i:], "&&"), strings.HasPrefix(src[i:], "||"),
			strings.HasPrefix(src[i:], "=="), strings.HasPrefix(src[i:], "!="),
			strings.HasPrefix(src[i:], "<="), strings.HasPrefix(src[i:], ">="):
			toks = append(toks, src[i:i+2])
			i += 2
		case c == '!' || c == '(' || c == ')' || c == '<' || c == '>':
			toks = append(toks, string(c))
			i++
		default:
			j := i
			for j < len(src) && !strings.ContainsRune(" \t!()<>&|=", rune(src[j])) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		}
	}
	return toks
}

func (p *exprParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *exprParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) parseOr() (*region.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "||" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = region.Or(left, right)
	}
	return left, nil
}

func (p *exprParser) parseAnd() (*region.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "&&" {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = region.And(left, right)
	}
	return left, nil
}

func (p *exprParser) parseUnary() (*region.Expr, error) {
	if p.peek() == "!" {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return region.Not(inner), nil
	}
	return p.parseCompare()
}

var compareOps = map[string]region.CompareOp{
	"==": region.CmpEQ, "!=": region.CmpNE,
	"<": region.CmpLT, "<=": region.CmpLE,
	">": region.CmpGT, ">=": region.CmpGE,
}

func (p *exprParser) parseCompare() (*region.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[p.peek()]; ok {
		p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return region.Compare(op, left, right), nil
	}
	return left, nil
}

func (p *exprParser) parseAtom() (*region.Expr, error) {
	tok := p.next()
	if tok == "(" {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("expected closing paren")
		}
		return inner, nil
	}
	if tok == "" {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return region.Atomic(tok), nil
}
