package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/ir"
	"github.com/iley/bfc/internal/parser"
	"github.com/iley/bfc/internal/util"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var (
	verbose  bool
	strict   bool
	tapeSize int
)

// usageError marks errors caused by how the tool was invoked.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

var rootCmd = &cobra.Command{
	Use:   "bf",
	Short: "Tape language toolchain",
	Long:  "Build, run and inspect programs written in the eight-command tape language.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := util.SetupLogging(os.Stderr, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		if tapeSize <= 0 {
			return usageError{fmt.Errorf("tape size must be positive, got %d", tapeSize)}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "reject unmatched brackets")
	rootCmd.PersistentFlags().IntVar(&tapeSize, "tape", ir.DefaultTapeSize, "number of tape cells")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
}

// sourceArg accepts exactly one source file name.
func sourceArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

// loadProgram parses the named source file, "-" meaning standard input.
func loadProgram(fileName string) (ast.Program, error) {
	options := parser.Options{Strict: strict}
	if fileName == "-" {
		return parser.ParseReader(os.Stdin, "<stdin>", options)
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	program, err := parser.ParseReader(f, fileName, options)
	if err != nil {
		return nil, fmt.Errorf("error parsing program: %w", err)
	}
	return program, nil
}

func main() {
	code := 0
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		code = exitFailure
		var uerr usageError
		if errors.As(err, &uerr) {
			code = exitUsage
		}
	}
	atexit.Exit(code)
}
