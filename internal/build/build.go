package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/codegen"
	"github.com/iley/bfc/internal/ir"
	"github.com/iley/bfc/internal/util"
)

var ErrToolFailed = errors.New("tool failed")

// ToolError describes a failed toolchain step together with everything the tool printed.
type ToolError struct {
	Step   string
	Tool   string
	Output []byte
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed (%s): %v", e.Step, e.Tool, e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += "\nOutput: " + out
	}
	return msg
}

func (e *ToolError) Unwrap() []error {
	return []error{ErrToolFailed, e.Err}
}

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Builder struct {
	Config  *Config
	Runner  Runner
	Logger  *slog.Logger
	Codegen codegen.Options
	// TapeSize of the generated program; zero means the default.
	TapeSize int
}

func NewBuilder(config *Config) *Builder {
	return &Builder{
		Config: config,
		Runner: execRunner{},
		Logger: slog.Default(),
	}
}

// Result lists the files a build produced.
type Result struct {
	Binary        string
	Intermediates []string
}

// IntermediateFiles returns the paths of the files produced on the way to binFile.
func IntermediateFiles(binFile string) (llFile, optFile, objFile string) {
	base := util.TrimExt(binFile)
	return base + ".ll", base + ".opt.ll", base + ".o"
}

// Build compiles program into the executable binFile. Intermediate files are
// removed after a successful build unless the config asks to keep them and
// are always left in place when a step fails.
func (b *Builder) Build(ctx context.Context, program ast.Program, binFile string) (*Result, error) {
	llFile, optFile, objFile := IntermediateFiles(binFile)
	result := &Result{Binary: binFile, Intermediates: []string{llFile}}

	// Step 1: Write LLVM IR.
	if err := b.writeLLVM(program, llFile); err != nil {
		return result, err
	}

	// Step 2: Optimize.
	compileInput := llFile
	if b.Config.OptLevel != "" {
		result.Intermediates = append(result.Intermediates, optFile)
		args := append(append([]string{}, b.Config.OptimizerFlags...), "-O"+b.Config.OptLevel, "-S", "-o", optFile, llFile)
		if err := b.run(ctx, "optimization", b.Config.Optimizer, args); err != nil {
			return result, err
		}
		compileInput = optFile
	}

	// Step 3: Compile to an object file.
	result.Intermediates = append(result.Intermediates, objFile)
	llcArgs := append(append([]string{}, b.Config.CompilerFlags...), "-filetype=obj", "-o", objFile, compileInput)
	if err := b.run(ctx, "compilation", b.Config.Compiler, llcArgs); err != nil {
		return result, err
	}

	// Step 4: Link.
	ldArgs := append([]string{"-o", binFile, objFile}, b.Config.LinkerFlags...)
	if err := b.run(ctx, "linking", b.Config.Linker, ldArgs); err != nil {
		return result, err
	}

	if !b.Config.KeepIntermediates {
		for _, file := range result.Intermediates {
			if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
				b.Logger.Warn("failed to remove intermediate file", "file", file, "error", err)
			}
		}
	}

	return result, nil
}

func (b *Builder) writeLLVM(program ast.Program, llFile string) error {
	f, err := os.Create(llFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", llFile, err)
	}
	err = codegen.Generate(f, ir.NewGenerator(b.TapeSize).Generate(program), b.Codegen)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", llFile, err)
	}
	b.Logger.Debug("wrote LLVM IR", "file", llFile)
	return nil
}

func (b *Builder) run(ctx context.Context, step, tool string, args []string) error {
	b.Logger.Debug("running", "step", step, "cmd", tool+" "+strings.Join(args, " "))
	output, err := b.Runner.Run(ctx, tool, args...)
	if err != nil {
		b.Logger.Error("toolchain step failed", "step", step, "tool", tool, "error", err)
		return &ToolError{Step: step, Tool: tool, Output: output, Err: err}
	}
	return nil
}

// DetectPointerStyle asks the static compiler for its LLVM version and returns the pointer
// syntax that version accepts.
func (b *Builder) DetectPointerStyle(ctx context.Context) (codegen.PointerStyle, error) {
	output, err := b.Runner.Run(ctx, b.Config.Compiler, "--version")
	if err != nil {
		return codegen.PointerTyped, &ToolError{Step: "version check", Tool: b.Config.Compiler, Output: output, Err: err}
	}
	major, err := codegen.ParseLLVMVersion(string(output))
	if err != nil {
		return codegen.PointerTyped, err
	}
	b.Logger.Debug("detected LLVM version", "tool", b.Config.Compiler, "major", major)
	return codegen.PointerStyleForVersion(major), nil
}
