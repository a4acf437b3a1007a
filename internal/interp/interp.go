package interp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iley/bfc/internal/ast"
)

const DefaultTapeSize = 65536

var ErrCursorOutOfRange = errors.New("cursor out of range")

type RuntimeError struct {
	Cursor int
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("cell %d: %v", e.Cursor, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// EOFPolicy decides what an Input statement stores once the input is exhausted.
type EOFPolicy int

const (
	// EOFMax stores 255, which is what compiled programs end up with when getchar returns -1.
	EOFMax EOFPolicy = iota
	EOFZero
	// EOFKeep leaves the cell unchanged.
	EOFKeep
)

func EOFPolicyFromName(name string) (EOFPolicy, error) {
	switch name {
	case "max":
		return EOFMax, nil
	case "zero":
		return EOFZero, nil
	case "keep":
		return EOFKeep, nil
	}
	return 0, fmt.Errorf("unknown EOF policy: %s", name)
}

type Options struct {
	TapeSize int
	EOF      EOFPolicy
}

type flusher interface {
	Flush() error
}

// Machine runs program trees against a byte tape.
type Machine struct {
	tape    []byte
	cursor  int
	input   io.ByteReader
	output  io.ByteWriter
	options Options
}

func New(input io.ByteReader, output io.ByteWriter, options Options) *Machine {
	if options.TapeSize <= 0 {
		options.TapeSize = DefaultTapeSize
	}
	return &Machine{
		tape:    make([]byte, options.TapeSize),
		input:   input,
		output:  output,
		options: options,
	}
}

func (m *Machine) Cursor() int {
	return m.cursor
}

// Cell returns the value of cell i. It panics if i is outside the tape.
func (m *Machine) Cell(i int) byte {
	return m.tape[i]
}

// Run executes program starting from the machine's current state.
// Cancelling ctx stops the program at the next loop iteration.
func (m *Machine) Run(ctx context.Context, program ast.Program) error {
	for _, stmt := range program {
		if err := m.execute(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) execute(ctx context.Context, node ast.Statement) error {
	switch stmt := node.(type) {
	case ast.Move:
		m.cursor += int(stmt.Delta)
	case ast.Add:
		if err := m.checkCursor(); err != nil {
			return err
		}
		m.tape[m.cursor] += byte(stmt.Delta)
	case ast.Input:
		return m.read()
	case ast.Output:
		if err := m.checkCursor(); err != nil {
			return err
		}
		if err := m.output.WriteByte(m.tape[m.cursor]); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	case ast.Loop:
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.checkCursor(); err != nil {
				return err
			}
			if m.tape[m.cursor] == 0 {
				return nil
			}
			if err := m.Run(ctx, stmt.Body); err != nil {
				return err
			}
		}
	default:
		panic(fmt.Errorf("unknown statement type %v", node))
	}
	return nil
}

func (m *Machine) read() error {
	if err := m.checkCursor(); err != nil {
		return err
	}
	// Pending output (e.g. a prompt) has to be visible before blocking on input.
	if f, ok := m.output.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	b, err := m.input.ReadByte()
	if err == io.EOF {
		switch m.options.EOF {
		case EOFMax:
			m.tape[m.cursor] = 0xff
		case EOFZero:
			m.tape[m.cursor] = 0
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	m.tape[m.cursor] = b
	return nil
}

func (m *Machine) checkCursor() error {
	if m.cursor < 0 || m.cursor >= len(m.tape) {
		return &RuntimeError{Cursor: m.cursor, Err: ErrCursorOutOfRange}
	}
	return nil
}
