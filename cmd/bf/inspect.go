package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/checks"
	"github.com/iley/bfc/internal/codegen"
	"github.com/iley/bfc/internal/ir"
)

var (
	writeInPlace   bool
	emitOutput     string
	emitIR         bool
	opaquePointers bool
)

var astCmd = &cobra.Command{
	Use:   "ast <file.b>",
	Short: "Print the program tree as an s-expression",
	Args:  sourceArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		program, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		fmt.Println(program.String())
		return nil
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file.b>",
	Short: "Print the program in canonical form",
	Long:  "Strip comments and print one loop bracket per line with indented loop bodies.",
	Args:  sourceArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		program, err := loadProgram(args[0])
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		program.Accept(ast.NewPrettyPrinter(&buf))

		if writeInPlace && args[0] != "-" {
			return os.WriteFile(args[0], buf.Bytes(), 0o644)
		}
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	},
}

var emitCmd = &cobra.Command{
	Use:   "emit <file.b>",
	Short: "Print the generated LLVM IR",
	Args:  sourceArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		program, err := loadProgram(args[0])
		if err != nil {
			return err
		}

		programIr := ir.NewGenerator(tapeSize).Generate(program)
		if errs := checks.Run(programIr); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(os.Stderr, "%s\n", err)
			}
			return fmt.Errorf("generated IR failed verification")
		}

		out := os.Stdout
		if emitOutput != "" && emitOutput != "-" {
			f, err := os.Create(emitOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if emitIR {
			programIr.Print(out)
			return nil
		}

		options := codegen.Options{SourceFilename: args[0]}
		if opaquePointers {
			options.Pointers = codegen.PointerOpaque
		}
		return codegen.Generate(out, programIr, options)
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "write the result back to the source file")
	emitCmd.Flags().StringVarP(&emitOutput, "o", "o", "", "output file name")
	emitCmd.Flags().BoolVar(&emitIR, "ir", false, "print the internal IR instead of LLVM IR")
	emitCmd.Flags().BoolVar(&opaquePointers, "opaque-pointers", false, "write pointer types as ptr (LLVM 17 and later)")
	rootCmd.AddCommand(astCmd, fmtCmd, emitCmd)
}
