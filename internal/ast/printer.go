package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a program tree back to comment-free source.
// Zero-magnitude Move and Add nodes are written as "><" and "+-" so that parsing the output
// yields the same tree again.
type Printer struct {
	output      io.Writer
	indentLevel int
	pretty      bool
	lineStart   bool
}

func NewPrinter(output io.Writer) *Printer {
	return &Printer{output: output}
}

// NewPrettyPrinter returns a printer that puts every loop bracket on its own line and indents loop bodies.
func NewPrettyPrinter(output io.Writer) *Printer {
	return &Printer{output: output, pretty: true, lineStart: true}
}

// Format returns the compact source form of a program.
func Format(program Program) string {
	var sb strings.Builder
	program.Accept(NewPrinter(&sb))
	return sb.String()
}

func (p *Printer) write(text string) {
	if p.pretty && p.lineStart {
		fmt.Fprint(p.output, strings.Repeat("  ", p.indentLevel))
		p.lineStart = false
	}
	fmt.Fprint(p.output, text)
}

func (p *Printer) newline() {
	if !p.pretty || p.lineStart {
		return
	}
	fmt.Fprint(p.output, "\n")
	p.lineStart = true
}

func (p *Printer) VisitProgram(program Program) {
	for _, stmt := range program {
		stmt.Accept(p)
	}
	if p.indentLevel == 0 {
		p.newline()
	}
}

func (p *Printer) VisitMove(move Move) {
	p.write(repeatSigned(move.Delta, ">", "<", "><"))
}

func (p *Printer) VisitAdd(add Add) {
	p.write(repeatSigned(add.Delta, "+", "-", "+-"))
}

func (p *Printer) VisitInput(input Input) {
	p.write(",")
}

func (p *Printer) VisitOutput(output Output) {
	p.write(".")
}

func (p *Printer) VisitLoop(loop Loop) {
	p.newline()
	p.write("[")
	p.newline()
	p.indentLevel++
	loop.Body.Accept(p)
	p.newline()
	p.indentLevel--
	p.write("]")
	p.newline()
}

func repeatSigned(n int32, positive, negative, zero string) string {
	switch {
	case n > 0:
		return strings.Repeat(positive, int(n))
	case n < 0:
		return strings.Repeat(negative, -int(n))
	default:
		return zero
	}
}
