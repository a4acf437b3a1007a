package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iley/bfc/internal/build"
	"github.com/iley/bfc/internal/codegen"
	"github.com/iley/bfc/internal/util"
)

var (
	optLevel     string
	outputFile   string
	keep         bool
	pointerStyle string
)

var buildCmd = &cobra.Command{
	Use:   "build <file.b>",
	Short: "Build a native executable",
	Long: "Compile a source file to LLVM IR and turn it into an executable with opt, llc and the system C compiler.\n" +
		"The tools can be overridden with BF_OPT, BF_LLC, BF_CC and BF_OPT_LEVEL, also read from a .env file.\n" +
		"By default the pointer syntax follows the version reported by llc: opaque pointers for LLVM 15 and later,\n" +
		"typed pointers otherwise. LLVM 17 and later reject typed pointers.",
	Args: sourceArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceFile := args[0]

		binFile := outputFile
		if binFile == "" {
			binFile = util.TrimExt(sourceFile)
			if binFile == sourceFile || sourceFile == "-" {
				return usageError{fmt.Errorf("cannot derive an output name from %s, use -o", sourceFile)}
			}
		}

		config, err := build.DefaultConfig()
		if err != nil {
			return fmt.Errorf("failed to get toolchain config: %w", err)
		}
		if err := config.LoadEnv(); err != nil {
			return err
		}
		if cmd.Flags().Changed("O") {
			config.OptLevel = optLevel
		}
		config.KeepIntermediates = keep

		var pointers codegen.PointerStyle
		if pointerStyle != "auto" {
			pointers, err = codegen.PointerStyleFromName(pointerStyle)
			if err != nil {
				return usageError{err}
			}
		}

		cmd.SilenceUsage = true

		program, err := loadProgram(sourceFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		builder := build.NewBuilder(config)
		builder.TapeSize = tapeSize
		builder.Codegen = codegen.Options{SourceFilename: sourceFile}
		if pointerStyle == "auto" {
			style, err := builder.DetectPointerStyle(ctx)
			if err != nil {
				slog.Warn("cannot detect the LLVM version, using typed pointers", "error", err)
			}
			builder.Codegen.Pointers = style
		} else {
			builder.Codegen.Pointers = pointers
		}

		result, err := builder.Build(ctx, program, binFile)
		if err != nil {
			slog.Warn("intermediate files kept for inspection", "files", strings.Join(result.Intermediates, ", "))
			return err
		}

		fmt.Printf("Built %s\n", result.Binary)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVarP(&keep, "keep", "k", false, "keep intermediate files (.ll, .opt.ll, .o)")
	buildCmd.Flags().StringVarP(&optLevel, "O", "O", "", "optimization level (empty to skip opt)")
	buildCmd.Flags().StringVarP(&outputFile, "o", "o", "", "output file name")
	buildCmd.Flags().StringVar(&pointerStyle, "pointers", "auto", "pointer syntax: auto (from the llc version), typed or opaque")
	rootCmd.AddCommand(buildCmd)
}
