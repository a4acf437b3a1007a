package ir

import (
	"fmt"
	"io"
	"strings"
)

/*
Intermediate representation for the tape language. It sits between the program tree and the
textual LLVM module written by the codegen package, and maps one to one onto LLVM instructions.
Every value-producing op writes a fresh register named "%N"; globals are named "@name".
Each op carries the size of its operands in bytes (1 = i8, 4 = i32, 8 = i64).

Supported operations:
 * Load(Result, Addr) - load a value from a global or from an address held in a register.
 * Store(Addr, Value) - store a value to a global or to an address held in a register.
 * BinaryOp(Result, Operation, Left, Right) - integer arithmetic, wrapping at the operand width.
 * Convert(Result, Operation, Value) - zero-extend or truncate between integer widths.
 * ElementAddr(Result, Array, Index) - address of one byte of a global byte array.
 * Compare(Result, Predicate, Left, Right) - integer comparison producing an i1.
 * ExternalCall(Result, Function, Args) - call a function using the C ABI.
 * ExternalReturn(Value) - return from a C ABI function.
 * Jump(Label) - unconditional branch to a label defined via Anchor.
 * JumpIf(Condition, Label, Else) - two-way branch on an i1 condition.
 * Anchor(Label) - start a new basic block.
*/

type Program struct {
	Globals   []Global
	Functions []Function
	Externals []ExternalFunction
}

func (irp Program) Print(writer io.Writer) {
	for _, global := range irp.Globals {
		fmt.Fprintf(writer, "%s\n", global)
	}
	for _, irf := range irp.Functions {
		irf.Print(writer)
		fmt.Fprintf(writer, "\n")
	}
	for _, ext := range irp.Externals {
		fmt.Fprintf(writer, "%s\n", ext)
	}
}

// Global is a zero-initialized module-level variable. A Count of zero declares a scalar,
// otherwise an array of Count elements of Size bytes each.
type Global struct {
	Name  string
	Size  int
	Count int
	Align int
}

func (g Global) String() string {
	if g.Count == 0 {
		return fmt.Sprintf("Global%d(%s)", g.Size, g.Name)
	}
	return fmt.Sprintf("Global%d(%s[%d])", g.Size, g.Name, g.Count)
}

type Function struct {
	Name       string
	ResultSize int
	Ops        []Op
}

func (irf Function) Print(writer io.Writer) {
	fmt.Fprintf(writer, "Function %s:\n", irf.Name)
	for i, op := range irf.Ops {
		fmt.Fprintf(writer, "%4d  %s\n", i, op)
	}
}

type ExternalFunction struct {
	Name       string
	ArgSizes   []int
	ResultSize int
}

func (e ExternalFunction) String() string {
	sizes := []string{}
	for _, size := range e.ArgSizes {
		sizes = append(sizes, fmt.Sprintf("%d", size))
	}
	return fmt.Sprintf("External%d(%s(%s))", e.ResultSize, e.Name, strings.Join(sizes, ", "))
}

type Op interface {
	fmt.Stringer
	// Returns the register written by the Op or empty string.
	GetTarget() string
	// GetArgs returns all Arg's read by the op.
	GetArgs() []Arg
}

type Load struct {
	Result string
	Addr   Arg
	Size   int
}

func (l Load) String() string {
	return fmt.Sprintf("Load%d(%s = *%s)", l.Size, l.Result, l.Addr)
}

func (l Load) GetTarget() string {
	return l.Result
}

func (l Load) GetArgs() []Arg {
	return []Arg{l.Addr}
}

type Store struct {
	Addr  Arg
	Value Arg
	Size  int
}

func (s Store) String() string {
	return fmt.Sprintf("Store%d(*%s = %s)", s.Size, s.Addr, s.Value)
}

func (s Store) GetTarget() string {
	return ""
}

func (s Store) GetArgs() []Arg {
	return []Arg{s.Addr, s.Value}
}

type BinaryOp struct {
	Result    string
	Left      Arg
	Right     Arg
	Operation string
	Size      int
}

func (o BinaryOp) String() string {
	return fmt.Sprintf("BinaryOp%d(%s = %s %s %s)", o.Size, o.Result, o.Left, o.Operation, o.Right)
}

func (o BinaryOp) GetTarget() string {
	return o.Result
}

func (o BinaryOp) GetArgs() []Arg {
	return []Arg{o.Left, o.Right}
}

const (
	ConvertZeroExtend = "zext"
	ConvertTruncate   = "trunc"
)

type Convert struct {
	Result    string
	Value     Arg
	Operation string
	FromSize  int
	ToSize    int
}

func (c Convert) String() string {
	return fmt.Sprintf("Convert(%s = %s %s/%d to %d)", c.Result, c.Operation, c.Value, c.FromSize, c.ToSize)
}

func (c Convert) GetTarget() string {
	return c.Result
}

func (c Convert) GetArgs() []Arg {
	return []Arg{c.Value}
}

// ElementAddr computes the address of element Index of the byte array global Array.
// Index must be 8 bytes wide.
type ElementAddr struct {
	Result string
	Array  string
	Count  int
	Index  Arg
}

func (e ElementAddr) String() string {
	return fmt.Sprintf("ElementAddr(%s = &%s[%s])", e.Result, e.Array, e.Index)
}

func (e ElementAddr) GetTarget() string {
	return e.Result
}

func (e ElementAddr) GetArgs() []Arg {
	return []Arg{{Variable: e.Array}, e.Index}
}

type Compare struct {
	Result    string
	Left      Arg
	Right     Arg
	Predicate string
	Size      int // operand size, the result is always one bit
}

func (c Compare) String() string {
	return fmt.Sprintf("Compare%d(%s = %s %s %s)", c.Size, c.Result, c.Left, c.Predicate, c.Right)
}

func (c Compare) GetTarget() string {
	return c.Result
}

func (c Compare) GetArgs() []Arg {
	return []Arg{c.Left, c.Right}
}

type ExternalCall struct {
	Result   string // LLVM numbers an unnamed non-void call, so discarded results still need a name
	Function string
	Args     []Arg
	ArgSizes []int
	Size     int // Result size.
}

func (c ExternalCall) String() string {
	args := []string{}
	for i := 0; i < len(c.Args); i++ {
		args = append(args, fmt.Sprintf("%s/%d", c.Args[i], c.ArgSizes[i]))
	}
	result := c.Result
	if result == "" {
		result = "_"
	}
	return fmt.Sprintf("ExternalCall%d(%s = %s(%s))", c.Size, result, c.Function, strings.Join(args, ", "))
}

func (c ExternalCall) GetTarget() string {
	return c.Result
}

func (c ExternalCall) GetArgs() []Arg {
	return c.Args
}

type ExternalReturn struct {
	Value *Arg // nil for bare returns
	Size  int
}

func (r ExternalReturn) String() string {
	if r.Value != nil {
		return fmt.Sprintf("ExternalReturn%d(%s)", r.Size, r.Value)
	}
	return "ExternalReturn()"
}

func (r ExternalReturn) GetTarget() string {
	return ""
}

func (r ExternalReturn) GetArgs() []Arg {
	if r.Value == nil {
		return []Arg{}
	}
	return []Arg{*r.Value}
}

type Jump struct {
	Goto string
}

func (j Jump) String() string {
	return fmt.Sprintf("Jump(%s)", j.Goto)
}

func (j Jump) GetTarget() string {
	return ""
}

func (j Jump) GetArgs() []Arg {
	return []Arg{}
}

type JumpIf struct {
	Condition Arg
	Goto      string
	Else      string
}

func (j JumpIf) String() string {
	return fmt.Sprintf("JumpIf(%s, %s, %s)", j.Condition, j.Goto, j.Else)
}

func (j JumpIf) GetTarget() string {
	return ""
}

func (j JumpIf) GetArgs() []Arg {
	return []Arg{j.Condition}
}

type Anchor struct {
	Label string
}

func (a Anchor) String() string {
	return fmt.Sprintf("Anchor(%s)", a.Label)
}

func (a Anchor) GetTarget() string {
	return ""
}

func (a Anchor) GetArgs() []Arg {
	return []Arg{}
}

type Arg struct {
	Variable   string
	LiteralInt *int64
}

func (a Arg) String() string {
	if a.Variable != "" {
		return a.Variable
	} else if a.LiteralInt != nil {
		return fmt.Sprintf("%d", *a.LiteralInt)
	}
	panic(fmt.Sprintf("invalid arg value: %#v", a))
}

func Literal(value int64) Arg {
	return Arg{LiteralInt: &value}
}

func Variable(name string) Arg {
	return Arg{Variable: name}
}
