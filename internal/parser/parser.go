package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/lexer"
)

var (
	ErrUnmatchedOpen  = errors.New("unmatched '['")
	ErrUnmatchedClose = errors.New("unmatched ']'")
)

// SyntaxError is only produced in strict mode.
type SyntaxError struct {
	Loc lexer.Location
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", e.Loc, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Strict turns unmatched brackets into errors.
	// Otherwise an unmatched '[' absorbs the rest of the input and an unmatched ']' at
	// the top level ends the program.
	Strict bool
}

type Parser struct {
	lexer   *lexer.Lexer
	options Options
}

func New(lex *lexer.Lexer) *Parser {
	return &Parser{lexer: lex}
}

func NewWithOptions(lex *lexer.Lexer, options Options) *Parser {
	return &Parser{lexer: lex, options: options}
}

// Parse parses an in-memory source permissively. It cannot fail.
func Parse(src []byte) ast.Program {
	program, err := New(lexer.New(bytes.NewReader(src), "")).ParseProgram()
	if err != nil {
		// Reading from memory never fails and permissive parsing reports no syntax errors.
		panic(err)
	}
	return program
}

// ParseReader parses a whole source read from r. The filename is only used in error locations.
func ParseReader(r io.Reader, filename string, options Options) (ast.Program, error) {
	return NewWithOptions(lexer.New(r, filename), options).ParseProgram()
}

func (p *Parser) ParseProgram() (ast.Program, error) {
	program, stop, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if stop.Type == lexer.LEX_LOOP_END && p.options.Strict {
		return nil, &SyntaxError{Loc: stop.Loc, Err: ErrUnmatchedClose}
	}
	return program, nil
}

// parseBlock parses statements until a ']' or the end of input.
// It returns the lexeme that stopped it so the caller can tell the two apart.
func (p *Parser) parseBlock() (ast.Program, lexer.Lexeme, error) {
	program := ast.Program{}
	for {
		lex, err := p.lexer.Next()
		if err != nil {
			return nil, lex, err
		}

		switch lex.Type {
		case lexer.LEX_EOF, lexer.LEX_LOOP_END:
			return program, lex, nil
		case lexer.LEX_LOOP_START:
			body, stop, err := p.parseBlock()
			if err != nil {
				return nil, stop, err
			}
			if stop.Type == lexer.LEX_EOF {
				if p.options.Strict {
					return nil, stop, &SyntaxError{Loc: lex.Loc, Err: ErrUnmatchedOpen}
				}
				// The loop swallowed everything up to the end of input.
				program = append(program, ast.Loop{Body: body})
				return program, stop, nil
			}
			program = append(program, ast.Loop{Body: body})
		default:
			program = appendFolded(program, statementFor(lex.Type))
		}
	}
}

func statementFor(tokenType lexer.TokenType) ast.Statement {
	switch tokenType {
	case lexer.LEX_RIGHT:
		return ast.Move{Delta: 1}
	case lexer.LEX_LEFT:
		return ast.Move{Delta: -1}
	case lexer.LEX_INC:
		return ast.Add{Delta: 1}
	case lexer.LEX_DEC:
		return ast.Add{Delta: -1}
	case lexer.LEX_INPUT:
		return ast.Input{}
	case lexer.LEX_OUTPUT:
		return ast.Output{}
	}
	panic(fmt.Errorf("no statement for token type %s", tokenType))
}

// appendFolded appends stmt to program, merging it into the last statement when both are
// moves or both are adds.
func appendFolded(program ast.Program, stmt ast.Statement) ast.Program {
	if len(program) == 0 {
		return append(program, stmt)
	}
	last := len(program) - 1
	switch prev := program[last].(type) {
	case ast.Move:
		if next, ok := stmt.(ast.Move); ok {
			program[last] = ast.Move{Delta: prev.Delta + next.Delta}
			return program
		}
	case ast.Add:
		if next, ok := stmt.(ast.Add); ok {
			program[last] = ast.Add{Delta: prev.Delta + next.Delta}
			return program
		}
	}
	return append(program, stmt)
}
