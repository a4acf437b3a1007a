package ir

import (
	"fmt"
	"strings"

	"github.com/iley/bfc/internal/ast"
)

const (
	DefaultTapeSize = 65536

	TapeGlobal   = "@memory"
	CursorGlobal = "@memory_idx"

	InputFunction  = "getchar"
	OutputFunction = "putchar"

	EntryLabel = "entry"
)

// Generator lowers a program tree into IR. It holds the register and loop counters for one
// generation run; both only ever grow, so every register is written once and every loop gets
// its own set of labels no matter how deeply loops nest.
// A Generator must not be used from several goroutines at once.
type Generator struct {
	nextTempIndex int
	nextLoopIndex int
	tapeSize      int
}

func NewGenerator(tapeSize int) *Generator {
	if tapeSize <= 0 {
		tapeSize = DefaultTapeSize
	}
	return &Generator{tapeSize: tapeSize}
}

func (g *Generator) TapeSize() int {
	return g.tapeSize
}

// Generate lowers a whole program into a module with a single "main" function.
// It restarts both counters, so one Generator can be reused for several runs.
func (g *Generator) Generate(program ast.Program) Program {
	g.nextTempIndex = 0
	g.nextLoopIndex = 0

	ops := []Op{Anchor{Label: EntryLabel}}
	ops = append(ops, g.GenerateBlockOps(program)...)
	zero := Literal(0)
	ops = append(ops, ExternalReturn{Value: &zero, Size: 4})

	return Program{
		Globals: []Global{
			{Name: TapeGlobal, Size: 1, Count: g.tapeSize, Align: 16},
			{Name: CursorGlobal, Size: 4, Align: 4},
		},
		Functions: []Function{
			{Name: "main", ResultSize: 4, Ops: ops},
		},
		Externals: []ExternalFunction{
			{Name: OutputFunction, ArgSizes: []int{4}, ResultSize: 4},
			{Name: InputFunction, ArgSizes: []int{}, ResultSize: 4},
		},
	}
}

// GenerateBlockOps lowers a statement sequence without resetting the counters.
func (g *Generator) GenerateBlockOps(block ast.Program) []Op {
	ops := []Op{}
	for _, stmt := range block {
		ops = append(ops, g.generateStatementOps(stmt)...)
	}
	return ops
}

func (g *Generator) generateStatementOps(node ast.Statement) []Op {
	switch stmt := node.(type) {
	case ast.Move:
		return g.generateMoveOps(stmt)
	case ast.Add:
		return g.generateAddOps(stmt)
	case ast.Input:
		return g.generateInputOps()
	case ast.Output:
		return g.generateOutputOps()
	case ast.Loop:
		return g.generateLoopOps(stmt)
	}
	panic(fmt.Errorf("unknown statement type %v", node))
}

// generateCellAddrOps computes the address of the current cell. The cursor is reloaded every
// time; keeping it in a register across statements is left to the optimizer.
func (g *Generator) generateCellAddrOps() ([]Op, Arg) {
	cursor := g.allocTemp()
	index := g.allocTemp()
	addr := g.allocTemp()
	ops := []Op{
		Load{Result: cursor, Addr: Variable(CursorGlobal), Size: 4},
		Convert{Result: index, Value: Variable(cursor), Operation: ConvertZeroExtend, FromSize: 4, ToSize: 8},
		ElementAddr{Result: addr, Array: TapeGlobal, Count: g.tapeSize, Index: Variable(index)},
	}
	return ops, Variable(addr)
}

func (g *Generator) generateMoveOps(stmt ast.Move) []Op {
	cursor := g.allocTemp()
	moved := g.allocTemp()
	return []Op{
		Load{Result: cursor, Addr: Variable(CursorGlobal), Size: 4},
		BinaryOp{Result: moved, Left: Variable(cursor), Right: Literal(int64(stmt.Delta)), Operation: "add", Size: 4},
		Store{Addr: Variable(CursorGlobal), Value: Variable(moved), Size: 4},
	}
}

func (g *Generator) generateAddOps(stmt ast.Add) []Op {
	ops, addr := g.generateCellAddrOps()
	value := g.allocTemp()
	sum := g.allocTemp()
	// i8 arithmetic wraps by itself; the delta only needs to be brought into i8 range.
	delta := int64(int8(stmt.Delta))
	ops = append(ops,
		Load{Result: value, Addr: addr, Size: 1},
		BinaryOp{Result: sum, Left: Variable(value), Right: Literal(delta), Operation: "add", Size: 1},
		Store{Addr: addr, Value: Variable(sum), Size: 1},
	)
	return ops
}

func (g *Generator) generateInputOps() []Op {
	char := g.allocTemp()
	value := g.allocTemp()
	ops := []Op{
		ExternalCall{Result: char, Function: InputFunction, Args: []Arg{}, ArgSizes: []int{}, Size: 4},
		Convert{Result: value, Value: Variable(char), Operation: ConvertTruncate, FromSize: 4, ToSize: 1},
	}
	addrOps, addr := g.generateCellAddrOps()
	ops = append(ops, addrOps...)
	ops = append(ops, Store{Addr: addr, Value: Variable(value), Size: 1})
	return ops
}

func (g *Generator) generateOutputOps() []Op {
	ops, addr := g.generateCellAddrOps()
	value := g.allocTemp()
	char := g.allocTemp()
	ops = append(ops,
		Load{Result: value, Addr: addr, Size: 1},
		Convert{Result: char, Value: Variable(value), Operation: ConvertZeroExtend, FromSize: 1, ToSize: 4},
		// The status returned by putchar is ignored, but an unnamed call would take the next %N in LLVM.
		ExternalCall{Result: discardName(char), Function: OutputFunction, Args: []Arg{Variable(char)}, ArgSizes: []int{4}, Size: 4},
	)
	return ops
}

func (g *Generator) generateLoopOps(stmt ast.Loop) []Op {
	condLabel, beginLabel, endLabel := g.allocLoopLabels()

	ops := []Op{
		Jump{Goto: condLabel},
		Anchor{Label: condLabel},
	}
	addrOps, addr := g.generateCellAddrOps()
	ops = append(ops, addrOps...)
	value := g.allocTemp()
	isZero := g.allocTemp()
	ops = append(ops,
		Load{Result: value, Addr: addr, Size: 1},
		Compare{Result: isZero, Left: Variable(value), Right: Literal(0), Predicate: "eq", Size: 1},
		JumpIf{Condition: Variable(isZero), Goto: endLabel, Else: beginLabel},
		Anchor{Label: beginLabel},
	)
	ops = append(ops, g.GenerateBlockOps(stmt.Body)...)
	ops = append(ops,
		Jump{Goto: condLabel},
		Anchor{Label: endLabel},
	)
	return ops
}

func (g *Generator) allocTemp() string {
	idx := g.nextTempIndex
	g.nextTempIndex++
	return fmt.Sprintf("%%%d", idx)
}

func (g *Generator) allocLoopLabels() (cond, begin, end string) {
	idx := g.nextLoopIndex
	g.nextLoopIndex++
	return fmt.Sprintf("loop_cond%d", idx), fmt.Sprintf("loop_begin%d", idx), fmt.Sprintf("loop_end%d", idx)
}

// discardName derives a name for an unused call result from a register that is unique in the function.
func discardName(reg string) string {
	return "%discard" + strings.TrimPrefix(reg, "%")
}
