package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/checks"
	"github.com/iley/bfc/internal/codegen"
	"github.com/iley/bfc/internal/ir"
	"github.com/iley/bfc/internal/parser"
	"github.com/iley/bfc/internal/util"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	outputString := flag.String("o", "", "output file name (\"-\" for stdout)")
	targetString := flag.String("t", "llvm", "output kind: ast, fmt, ir or llvm")
	tapeSize := flag.Int("tape", ir.DefaultTapeSize, "number of tape cells")
	strict := flag.Bool("strict", false, "reject unmatched brackets")
	opaquePointers := flag.Bool("opaque-pointers", false, "write pointer types as ptr (LLVM 17 and later)")
	verify := flag.Bool("verify", false, "check the generated IR before writing it")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if err := util.SetupLogging(os.Stderr, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if len(flag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: bfc [options] <input file>")
		flag.PrintDefaults()
		atexit.Exit(exitUsage)
	}

	switch *targetString {
	case "ast", "fmt", "ir", "llvm":
	default:
		fmt.Fprintf(os.Stderr, "unknown target: %s\n", *targetString)
		atexit.Exit(exitUsage)
	}

	if *tapeSize <= 0 {
		fmt.Fprintf(os.Stderr, "tape size must be positive, got %d\n", *tapeSize)
		atexit.Exit(exitUsage)
	}

	inputFileName := flag.Arg(0)
	program, err := parseFile(inputFileName, *strict)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing program: %v\n", err)
		atexit.Exit(exitFailure)
	}
	stats := ast.CollectStats(program)
	slog.Debug("parsed program", "file", inputFileName, "statements", stats.Statements, "loops", stats.Loops, "depth", stats.MaxDepth)

	if *outputString == "" {
		*outputString = defaultOutput(inputFileName, *targetString)
	}
	output, err := openOutput(*outputString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
		atexit.Exit(exitFailure)
	}

	// If we only need to output the tree, stop immediately after parsing.
	switch *targetString {
	case "ast":
		fmt.Fprintf(output, "%s\n", program.String())
		atexit.Exit(0)
	case "fmt":
		program.Accept(ast.NewPrettyPrinter(output))
		atexit.Exit(0)
	}

	irg := ir.NewGenerator(*tapeSize)
	programIr := irg.Generate(program)

	if *verify {
		if errs := checks.Run(programIr); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(os.Stderr, "%s\n", err)
			}
			atexit.Exit(exitFailure)
		}
		slog.Debug("IR verified", "functions", len(programIr.Functions))
	}

	if *targetString == "ir" {
		programIr.Print(output)
		atexit.Exit(0)
	}

	options := codegen.Options{SourceFilename: inputFileName}
	if *opaquePointers {
		options.Pointers = codegen.PointerOpaque
	}
	if err := codegen.Generate(output, programIr, options); err != nil {
		fmt.Fprintf(os.Stderr, "error generating LLVM IR: %v\n", err)
		atexit.Exit(exitFailure)
	}
	slog.Debug("wrote LLVM IR", "output", *outputString)
	atexit.Exit(0)
}

// defaultOutput names the output when -o is not given. LLVM modules go next to the
// source ("dir/x.b" -> "dir/x.ll"), everything else and input from stdin goes to stdout.
func defaultOutput(inputFileName, target string) string {
	if target == "llvm" && inputFileName != "-" {
		return util.TrimExt(inputFileName) + ".ll"
	}
	return "-"
}

func parseFile(fileName string, strict bool) (ast.Program, error) {
	if fileName == "-" {
		return parser.ParseReader(os.Stdin, "<stdin>", parser.Options{Strict: strict})
	}
	inputFile, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer inputFile.Close()
	return parser.ParseReader(inputFile, fileName, parser.Options{Strict: strict})
}

// openOutput opens the named output. The file is closed by an exit handler
// since atexit.Exit skips deferred calls.
func openOutput(name string) (io.Writer, error) {
	if name == "-" {
		return os.Stdout, nil
	}
	outputFile, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	atexit.Register(func() {
		if err := outputFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
		}
	})
	return outputFile, nil
}
