package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/iley/bfc/internal/interp"
)

var (
	eofPolicy string
	inputFile string
)

var runCmd = &cobra.Command{
	Use:   "run <file.b>",
	Short: "Interpret a program",
	Long:  "Run a source file with the built-in interpreter. Moving outside the tape is an error.",
	Args:  sourceArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := interp.EOFPolicyFromName(eofPolicy)
		if err != nil {
			return usageError{err}
		}

		cmd.SilenceUsage = true

		program, err := loadProgram(args[0])
		if err != nil {
			return err
		}

		var input io.Reader = os.Stdin
		if inputFile != "" {
			f, err := os.Open(inputFile)
			if err != nil {
				return err
			}
			defer f.Close()
			input = f
		}

		stdout := bufio.NewWriter(os.Stdout)
		atexit.Register(func() {
			stdout.Flush()
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		m := interp.New(bufio.NewReader(input), stdout, interp.Options{TapeSize: tapeSize, EOF: policy})
		if err := m.Run(ctx, program); err != nil {
			slog.Debug("program stopped", "cursor", m.Cursor())
			return err
		}
		return stdout.Flush()
	},
}

func init() {
	runCmd.Flags().StringVar(&eofPolicy, "eof", "max", "value stored on end of input: max (255), zero or keep")
	runCmd.Flags().StringVarP(&inputFile, "input", "i", "", "read program input from a file instead of stdin")
	rootCmd.AddCommand(runCmd)
}
