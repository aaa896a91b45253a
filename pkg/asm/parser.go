package asm

import (
	"strconv"

	"github.com/rhovm/rhovm/pkg/errs"
)

// statementKind identifies which of the three statement shapes a line of
// assembly source parsed into.
type statementKind int

const (
	stmtLabel statementKind = iota
	stmtDirective
	stmtInstruction
)

// operandKind distinguishes how an instruction operand's text must be
// resolved once the label table is known.
type operandKind int

const (
	operandNumber operandKind = iota
	operandString
	operandIdent // a label reference, or a bareword like true/false
)

type operand struct {
	kind operandKind
	text string
	num  int64
}

type statement struct {
	kind statementKind
	line int

	label string // stmtLabel

	directive string    // stmtDirective
	args      []operand // stmtDirective

	mnemonic string    // stmtInstruction
	operands []operand // stmtInstruction
}

// Parser turns a token stream from a Scanner into a flat list of
// statements: label definitions, directives, and instructions. It mirrors
// the teacher's recursive-descent parser (pkg/frontend/parser.go) in
// spirit, scaled down to assembly's line grammar: no expressions, no
// precedence climbing, just "what kind of line is this".
type Parser struct {
	scanner *Scanner
	source  string
	current Token
	peeked  *Token
}

// NewParser returns a Parser over source, identified as sourceName in any
// Assemble errors it raises.
func NewParser(source, sourceName string) *Parser {
	return &Parser{scanner: NewScanner(source), source: sourceName}
}

// Parse consumes the entire token stream and returns the statements found,
// or the first Assemble error encountered.
func (p *Parser) Parse() ([]statement, error) {
	var statements []statement
	for {
		p.skipBlankLines()
		tok := p.peek()
		if tok.Kind == TokenEOF {
			return statements, nil
		}

		stmt, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)

		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseLine() (statement, error) {
	tok := p.peek()

	if tok.Kind == TokenDot {
		return p.parseDirective()
	}

	if tok.Kind != TokenIdentifier {
		return statement{}, p.errorAt(tok, "expected a label, directive, or instruction mnemonic")
	}

	ident := p.advance()
	if p.peek().Kind == TokenColon {
		p.advance()
		return statement{kind: stmtLabel, line: ident.Line, label: ident.Lexeme}, nil
	}

	operands, err := p.parseOperands()
	if err != nil {
		return statement{}, err
	}
	return statement{kind: stmtInstruction, line: ident.Line, mnemonic: ident.Lexeme, operands: operands}, nil
}

func (p *Parser) parseDirective() (statement, error) {
	dot := p.advance() // consume '.'
	name := p.peek()
	if name.Kind != TokenIdentifier {
		return statement{}, p.errorAt(name, "expected a directive name after '.'")
	}
	p.advance()

	args, err := p.parseOperands()
	if err != nil {
		return statement{}, err
	}
	return statement{kind: stmtDirective, line: dot.Line, directive: name.Lexeme, args: args}, nil
}

func (p *Parser) parseOperands() ([]operand, error) {
	var ops []operand
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenNewline, TokenEOF:
			return ops, nil
		case TokenNumber:
			p.advance()
			n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
			if err != nil {
				return nil, p.errorAt(tok, "invalid integer literal %q", tok.Lexeme)
			}
			ops = append(ops, operand{kind: operandNumber, text: tok.Lexeme, num: n})
		case TokenString:
			p.advance()
			ops = append(ops, operand{kind: operandString, text: tok.Lexeme})
		case TokenIdentifier:
			p.advance()
			ops = append(ops, operand{kind: operandIdent, text: tok.Lexeme})
		default:
			return nil, p.errorAt(tok, "unexpected %v in operand list", tok.Kind)
		}
	}
}

func (p *Parser) skipBlankLines() {
	for p.peek().Kind == TokenNewline {
		p.advance()
	}
}

func (p *Parser) expectEndOfLine() error {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		return nil
	}
	if tok.Kind != TokenNewline {
		return p.errorAt(tok, "expected end of line, found %v %q", tok.Kind, tok.Lexeme)
	}
	p.advance()
	return nil
}

func (p *Parser) peek() Token {
	if p.peeked == nil {
		tok := p.scanner.Token()
		p.peeked = &tok
	}
	return *p.peeked
}

func (p *Parser) advance() Token {
	tok := p.peek()
	p.peeked = nil
	p.current = tok
	return tok
}

func (p *Parser) errorAt(tok Token, format string, a ...any) error {
	if tok.Kind == TokenError {
		return errs.NewAssemble(p.source, tok.Line, "%s", tok.Lexeme)
	}
	return errs.NewAssemble(p.source, tok.Line, format, a...)
}
