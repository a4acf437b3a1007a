package checks

import (
	"fmt"

	"github.com/iley/bfc/internal/ir"
)

// Checker validates functions against the rules the LLVM backend relies on:
//   - registers are numbered %0, %1, ... in order of definition, each written exactly once;
//   - calls that return a value name their result, since LLVM would otherwise number it;
//   - a register is defined before it is read;
//   - every label is defined once and every branch targets a defined label;
//   - globals and external functions are declared before use.
type Checker struct {
	globals   map[string]bool
	externals map[string]bool
	errors    []error
}

func NewChecker(irp ir.Program) *Checker {
	c := &Checker{
		globals:   make(map[string]bool),
		externals: make(map[string]bool),
		errors:    []error{},
	}
	for _, global := range irp.Globals {
		c.globals[global.Name] = true
	}
	for _, ext := range irp.Externals {
		c.externals[ext.Name] = true
	}
	return c
}

func (c *Checker) Success() bool {
	return len(c.errors) == 0
}

func (c *Checker) Errors() []error {
	return c.errors
}

func (c *Checker) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Errorf(format, args...))
}

func (c *Checker) CheckFunction(fn ir.Function) {
	defined := make(map[string]bool)
	labels := make(map[string]bool)
	branchTargets := []string{}
	nextRegister := 0

	for i, op := range fn.Ops {
		for _, arg := range op.GetArgs() {
			if arg.Variable == "" {
				continue
			}
			if ir.IsGlobal(arg.Variable) {
				if !c.globals[arg.Variable] {
					c.errorf("%s: op %d (%s) uses undeclared global %s", fn.Name, i, op, arg.Variable)
				}
			} else if !defined[arg.Variable] {
				c.errorf("%s: op %d (%s) reads %s before it is defined", fn.Name, i, op, arg.Variable)
			}
		}

		if call, ok := op.(ir.ExternalCall); ok && call.Result == "" && call.Size != 0 {
			// LLVM gives the unnamed result the next number, shifting every later register.
			c.errorf("%s: op %d (%s) leaves its result unnamed, LLVM would number it %%%d", fn.Name, i, op, nextRegister)
			nextRegister++
		}

		if target := op.GetTarget(); ir.IsNamedValue(target) {
			// Named values stay out of the numbering.
			if defined[target] {
				c.errorf("%s: op %d (%s) writes %s a second time", fn.Name, i, op, target)
			}
			defined[target] = true
		} else if target != "" {
			idx, ok := ir.RegisterIndex(target)
			switch {
			case !ok:
				c.errorf("%s: op %d (%s) writes invalid register %q", fn.Name, i, op, target)
			case defined[target]:
				c.errorf("%s: op %d (%s) writes %s a second time", fn.Name, i, op, target)
			case idx != nextRegister:
				c.errorf("%s: op %d (%s) writes %s, expected %%%d", fn.Name, i, op, target, nextRegister)
			}
			defined[target] = true
			nextRegister++
		}

		switch op := op.(type) {
		case ir.Anchor:
			if labels[op.Label] {
				c.errorf("%s: label %s defined twice", fn.Name, op.Label)
			}
			labels[op.Label] = true
		case ir.Jump:
			branchTargets = append(branchTargets, op.Goto)
		case ir.JumpIf:
			branchTargets = append(branchTargets, op.Goto, op.Else)
		case ir.ExternalCall:
			if !c.externals[op.Function] {
				c.errorf("%s: call to undeclared function %s", fn.Name, op.Function)
			}
		}
	}

	for _, target := range branchTargets {
		if !labels[target] {
			c.errorf("%s: branch to undefined label %s", fn.Name, target)
		}
	}
}
