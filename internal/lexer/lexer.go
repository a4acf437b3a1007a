package lexer

import (
	"bufio"
	"fmt"
	"io"
)

type TokenType int

// Token types. Every byte outside the eight command symbols is a comment and never becomes a lexeme.
const (
	LEX_EOF TokenType = iota
	LEX_RIGHT
	LEX_LEFT
	LEX_INC
	LEX_DEC
	LEX_INPUT
	LEX_OUTPUT
	LEX_LOOP_START
	LEX_LOOP_END
)

func (t TokenType) String() string {
	switch t {
	case LEX_EOF:
		return "EOF"
	case LEX_RIGHT:
		return "RIGHT"
	case LEX_LEFT:
		return "LEFT"
	case LEX_INC:
		return "INC"
	case LEX_DEC:
		return "DEC"
	case LEX_INPUT:
		return "INPUT"
	case LEX_OUTPUT:
		return "OUTPUT"
	case LEX_LOOP_START:
		return "LOOP_START"
	case LEX_LOOP_END:
		return "LOOP_END"
	default:
		return "UNKNOWN"
	}
}

var symbols = map[byte]TokenType{
	'>': LEX_RIGHT,
	'<': LEX_LEFT,
	'+': LEX_INC,
	'-': LEX_DEC,
	',': LEX_INPUT,
	'.': LEX_OUTPUT,
	'[': LEX_LOOP_START,
	']': LEX_LOOP_END,
}

// IsCommand reports whether b is one of the eight command symbols.
func IsCommand(b byte) bool {
	_, ok := symbols[b]
	return ok
}

type Location struct {
	Filename string
	Line     int
	Col      int
}

func (l Location) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type Lexeme struct {
	Type TokenType
	Loc  Location
}

func (l Lexeme) String() string {
	return fmt.Sprintf("<%s %s>", l.Type, l.Loc)
}

type Lexer struct {
	input    *bufio.Reader
	filename string
	line     int
	col      int
}

func New(inputReader io.Reader, filename string) *Lexer {
	return &Lexer{
		input:    bufio.NewReader(inputReader),
		filename: filename,
		line:     1,
		col:      1,
	}
}

// readByte reads the next byte and advances the position counters.
func (l *Lexer) readByte() (byte, Location, error) {
	loc := Location{Filename: l.filename, Line: l.line, Col: l.col}
	b, err := l.input.ReadByte()
	if err != nil {
		return 0, loc, err
	}
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b, loc, nil
}

// Next returns the next command lexeme, skipping comment bytes.
// At the end of input it returns a LEX_EOF lexeme and a nil error.
func (l *Lexer) Next() (Lexeme, error) {
	for {
		b, loc, err := l.readByte()
		if err != nil {
			if err == io.EOF {
				return Lexeme{Type: LEX_EOF, Loc: loc}, nil
			}
			return Lexeme{Type: LEX_EOF, Loc: loc}, err
		}
		if tokenType, ok := symbols[b]; ok {
			return Lexeme{Type: tokenType, Loc: loc}, nil
		}
	}
}
