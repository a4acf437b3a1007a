package ast

import (
	"fmt"
	"strings"
)

// Statement is one node of the program tree.
// The set of implementations is closed: Move, Add, Input, Output and Loop.
type Statement interface {
	fmt.Stringer
	Accept(visitor Visitor)
	isStatement()
}

// Program is an ordered sequence of statements. A whole source file parses into one Program,
// and every Loop body is a Program of its own.
type Program []Statement

func (p Program) String() string {
	var sb strings.Builder
	sb.WriteString("(program")
	for _, stmt := range p {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (p Program) Accept(visitor Visitor) {
	visitor.VisitProgram(p)
}

// Move shifts the cursor by Delta cells.
type Move struct {
	Delta int32
}

func (m Move) String() string {
	return fmt.Sprintf("(move %d)", m.Delta)
}

func (m Move) Accept(visitor Visitor) {
	visitor.VisitMove(m)
}

func (Move) isStatement() {}

// Add adds Delta to the current cell modulo 256.
type Add struct {
	Delta int32
}

func (a Add) String() string {
	return fmt.Sprintf("(add %d)", a.Delta)
}

func (a Add) Accept(visitor Visitor) {
	visitor.VisitAdd(a)
}

func (Add) isStatement() {}

// Input reads one byte into the current cell.
type Input struct{}

func (Input) String() string {
	return "(input)"
}

func (i Input) Accept(visitor Visitor) {
	visitor.VisitInput(i)
}

func (Input) isStatement() {}

// Output writes the current cell.
type Output struct{}

func (Output) String() string {
	return "(output)"
}

func (o Output) Accept(visitor Visitor) {
	visitor.VisitOutput(o)
}

func (Output) isStatement() {}

// Loop runs Body while the current cell is non-zero, testing before every iteration.
type Loop struct {
	Body Program
}

func (l Loop) String() string {
	var sb strings.Builder
	sb.WriteString("(loop")
	for _, stmt := range l.Body {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (l Loop) Accept(visitor Visitor) {
	visitor.VisitLoop(l)
}

func (Loop) isStatement() {}
