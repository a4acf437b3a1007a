package checks

import "github.com/iley/bfc/internal/ir"

// Run verifies the structural invariants of a generated IR program and returns every violation found.
func Run(irp ir.Program) []error {
	checker := NewChecker(irp)
	for _, fn := range irp.Functions {
		checker.CheckFunction(fn)
	}
	return checker.Errors()
}
