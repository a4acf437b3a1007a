package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/iley/bfc/internal/ir"
	"github.com/iley/bfc/internal/util"
)

type formatter struct {
	out     io.Writer
	options Options
	globals map[string]ir.Global
}

func (f *formatter) formatProgram(irp ir.Program) {
	f.globals = make(map[string]ir.Global)
	for _, global := range irp.Globals {
		f.globals[global.Name] = global
	}

	if f.options.SourceFilename != "" {
		escaped := util.EscapeString(f.options.SourceFilename)
		fmt.Fprintf(f.out, "; ModuleID = '%s'\n", escaped)
		fmt.Fprintf(f.out, "source_filename = \"%s\"\n\n", escaped)
	}

	for _, global := range irp.Globals {
		f.formatGlobal(global)
	}
	for _, fn := range irp.Functions {
		f.formatFunction(fn)
	}
	for _, ext := range irp.Externals {
		f.formatExternal(ext)
	}
}

func (f *formatter) formatGlobal(global ir.Global) {
	if global.Count == 0 {
		fmt.Fprintf(f.out, "%s = global %s 0, align %d\n\n", global.Name, intType(global.Size), global.Align)
		return
	}
	fmt.Fprintf(f.out, "%s = global %s zeroinitializer, align %d\n\n", global.Name, arrayType(global), global.Align)
}

func (f *formatter) formatFunction(fn ir.Function) {
	fmt.Fprintf(f.out, "define %s @%s() {\n", intType(fn.ResultSize), fn.Name)
	for i, op := range fn.Ops {
		if _, ok := op.(ir.Anchor); ok && i > 0 {
			fmt.Fprintf(f.out, "\n")
		}
		f.formatOp(op)
	}
	fmt.Fprintf(f.out, "}\n\n")
}

func (f *formatter) formatExternal(ext ir.ExternalFunction) {
	args := []string{}
	for _, size := range ext.ArgSizes {
		args = append(args, intType(size))
	}
	fmt.Fprintf(f.out, "declare %s @%s(%s)\n", intType(ext.ResultSize), ext.Name, strings.Join(args, ", "))
}

func (f *formatter) formatOp(op ir.Op) {
	switch op := op.(type) {
	case ir.Anchor:
		fmt.Fprintf(f.out, "%s:\n", op.Label)
	case ir.Load:
		typ := intType(op.Size)
		fmt.Fprintf(f.out, "  %s = load %s, %s %s, align %d\n", op.Result, typ, f.pointerTo(typ), op.Addr, op.Size)
	case ir.Store:
		typ := intType(op.Size)
		fmt.Fprintf(f.out, "  store %s %s, %s %s, align %d\n", typ, op.Value, f.pointerTo(typ), op.Addr, op.Size)
	case ir.BinaryOp:
		fmt.Fprintf(f.out, "  %s = %s %s %s, %s\n", op.Result, op.Operation, intType(op.Size), op.Left, op.Right)
	case ir.Convert:
		fmt.Fprintf(f.out, "  %s = %s %s %s to %s\n", op.Result, op.Operation, intType(op.FromSize), op.Value, intType(op.ToSize))
	case ir.ElementAddr:
		array, ok := f.globals[op.Array]
		if !ok {
			panic(fmt.Errorf("element address of undeclared global %s", op.Array))
		}
		typ := arrayType(array)
		fmt.Fprintf(f.out, "  %s = getelementptr inbounds %s, %s %s, i64 0, i64 %s\n", op.Result, typ, f.pointerTo(typ), op.Array, op.Index)
	case ir.Compare:
		fmt.Fprintf(f.out, "  %s = icmp %s %s %s, %s\n", op.Result, op.Predicate, intType(op.Size), op.Left, op.Right)
	case ir.ExternalCall:
		args := []string{}
		for i, arg := range op.Args {
			args = append(args, fmt.Sprintf("%s %s", intType(op.ArgSizes[i]), arg))
		}
		call := fmt.Sprintf("call %s @%s(%s)", intType(op.Size), op.Function, strings.Join(args, ", "))
		if op.Result != "" {
			fmt.Fprintf(f.out, "  %s = %s\n", op.Result, call)
		} else {
			fmt.Fprintf(f.out, "  %s\n", call)
		}
	case ir.ExternalReturn:
		if op.Value == nil {
			fmt.Fprintf(f.out, "  ret void\n")
		} else {
			fmt.Fprintf(f.out, "  ret %s %s\n", intType(op.Size), op.Value)
		}
	case ir.Jump:
		fmt.Fprintf(f.out, "  br label %%%s\n", op.Goto)
	case ir.JumpIf:
		fmt.Fprintf(f.out, "  br i1 %s, label %%%s, label %%%s\n", op.Condition, op.Goto, op.Else)
	default:
		panic(fmt.Errorf("unsupported op %s", op))
	}
}

func (f *formatter) pointerTo(typ string) string {
	if f.options.Pointers == PointerOpaque {
		return "ptr"
	}
	return typ + "*"
}

func intType(size int) string {
	switch size {
	case 1:
		return "i8"
	case 4:
		return "i32"
	case 8:
		return "i64"
	}
	panic(fmt.Errorf("unsupported integer size %d", size))
}

func arrayType(global ir.Global) string {
	return fmt.Sprintf("[%d x %s]", global.Count, intType(global.Size))
}
