package lexer

import (
	"errors"
	"strings"
	"testing"
)

func TestLexer(t *testing.T) {
	loc := func(line, col int) Location {
		return Location{Filename: "test.b", Line: line, Col: col}
	}
	tests := []struct {
		name     string
		input    string
		expected []Lexeme
	}{
		{
			name:  "empty input",
			input: "",
			expected: []Lexeme{
				{Type: LEX_EOF, Loc: loc(1, 1)},
			},
		},
		{
			name:  "all commands",
			input: "><+-,.[]",
			expected: []Lexeme{
				{Type: LEX_RIGHT, Loc: loc(1, 1)},
				{Type: LEX_LEFT, Loc: loc(1, 2)},
				{Type: LEX_INC, Loc: loc(1, 3)},
				{Type: LEX_DEC, Loc: loc(1, 4)},
				{Type: LEX_INPUT, Loc: loc(1, 5)},
				{Type: LEX_OUTPUT, Loc: loc(1, 6)},
				{Type: LEX_LOOP_START, Loc: loc(1, 7)},
				{Type: LEX_LOOP_END, Loc: loc(1, 8)},
				{Type: LEX_EOF, Loc: loc(1, 9)},
			},
		},
		{
			name:  "comments are skipped",
			input: "add one + then print it .",
			expected: []Lexeme{
				{Type: LEX_INC, Loc: loc(1, 9)},
				{Type: LEX_OUTPUT, Loc: loc(1, 25)},
				{Type: LEX_EOF, Loc: loc(1, 26)},
			},
		},
		{
			name:  "newlines advance the line",
			input: "+\n  -\n\n]",
			expected: []Lexeme{
				{Type: LEX_INC, Loc: loc(1, 1)},
				{Type: LEX_DEC, Loc: loc(2, 3)},
				{Type: LEX_LOOP_END, Loc: loc(4, 1)},
				{Type: LEX_EOF, Loc: loc(4, 2)},
			},
		},
		{
			// Columns count bytes: "é" is two bytes in UTF-8.
			name:  "non-ascii bytes are comments",
			input: "\xff\xfe+é.",
			expected: []Lexeme{
				{Type: LEX_INC, Loc: loc(1, 3)},
				{Type: LEX_OUTPUT, Loc: loc(1, 6)},
				{Type: LEX_EOF, Loc: loc(1, 7)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := New(strings.NewReader(tt.input), "test.b")
			var lexemes []Lexeme
			for {
				lex, err := lexer.Next()
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				lexemes = append(lexemes, lex)
				if lex.Type == LEX_EOF {
					break
				}
			}

			if len(lexemes) != len(tt.expected) {
				t.Fatalf("expected %d lexemes, got %d: %v", len(tt.expected), len(lexemes), lexemes)
			}
			for i, expected := range tt.expected {
				if lexemes[i] != expected {
					t.Errorf("lexeme %d: expected %v, got %v", i, expected, lexemes[i])
				}
			}
		})
	}
}

type failingReader struct {
	err error
}

func (r failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}

func TestLexerReadError(t *testing.T) {
	readErr := errors.New("disk on fire")
	lexer := New(failingReader{err: readErr}, "test.b")
	lex, err := lexer.Next()
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if lex.Type != LEX_EOF {
		t.Errorf("expected EOF lexeme on error, got %v", lex)
	}
}

func TestIsCommand(t *testing.T) {
	for _, b := range []byte("><+-,.[]") {
		if !IsCommand(b) {
			t.Errorf("expected %q to be a command", b)
		}
	}
	for _, b := range []byte("abc 0\n#!") {
		if IsCommand(b) {
			t.Errorf("expected %q not to be a command", b)
		}
	}
}

func TestLocationString(t *testing.T) {
	if got := (Location{Line: 3, Col: 4}).String(); got != "3:4" {
		t.Errorf("got %q", got)
	}
	if got := (Location{Filename: "a.b", Line: 3, Col: 4}).String(); got != "a.b:3:4" {
		t.Errorf("got %q", got)
	}
}
