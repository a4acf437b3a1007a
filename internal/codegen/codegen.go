package codegen

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/ir"
)

type PointerStyle int

const (
	// PointerTyped writes pointer types as "i8*", which LLVM accepted up to version 16.
	PointerTyped PointerStyle = iota
	// PointerOpaque writes every pointer type as "ptr", required by LLVM 17 and later.
	PointerOpaque
)

func PointerStyleFromName(name string) (PointerStyle, error) {
	switch name {
	case "typed":
		return PointerTyped, nil
	case "opaque":
		return PointerOpaque, nil
	}
	return 0, fmt.Errorf("unknown pointer style: %s", name)
}

type Options struct {
	Pointers PointerStyle
	// SourceFilename, when set, is recorded in the module header.
	SourceFilename string
}

// Generate writes irp as a textual LLVM module.
func Generate(out io.Writer, irp ir.Program, options Options) error {
	w := bufio.NewWriter(out)
	f := &formatter{out: w, options: options}
	f.formatProgram(irp)
	return w.Flush()
}

// Compile lowers a program tree and returns the LLVM module text.
func Compile(program ast.Program, tapeSize int, options Options) string {
	irp := ir.NewGenerator(tapeSize).Generate(program)
	var sb strings.Builder
	// Writes to a strings.Builder cannot fail.
	_ = Generate(&sb, irp, options)
	return sb.String()
}
