package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/joho/godotenv"
)

const (
	EnvOptimizer = "BF_OPT"
	EnvCompiler  = "BF_LLC"
	EnvLinker    = "BF_CC"
	EnvOptLevel  = "BF_OPT_LEVEL"
)

// Config holds the external tools used to turn LLVM IR into an executable.
type Config struct {
	Optimizer      string
	OptimizerFlags []string
	Compiler       string
	CompilerFlags  []string
	Linker         string
	LinkerFlags    []string
	// OptLevel is passed to the optimizer as -O<level>. An empty level skips the optimizer.
	OptLevel          string
	KeepIntermediates bool
}

// DefaultConfig returns toolchain settings for the current platform.
func DefaultConfig() (*Config, error) {
	switch runtime.GOOS {
	case "darwin":
		return &Config{
			Optimizer:      "opt",
			OptimizerFlags: []string{},
			Compiler:       "llc",
			CompilerFlags:  []string{},
			Linker:         "clang",
			LinkerFlags:    []string{},
			OptLevel:       "2",
		}, nil
	case "linux":
		return &Config{
			Optimizer:      "opt",
			OptimizerFlags: []string{},
			Compiler:       "llc",
			// Most distributions link PIE executables by default.
			CompilerFlags: []string{"-relocation-model=pic"},
			Linker:        "cc",
			LinkerFlags:   []string{},
			OptLevel:      "2",
		}, nil
	}

	return nil, fmt.Errorf("unsupported platform: %s/%s", runtime.GOOS, runtime.GOARCH)
}

// LoadEnv reads the given dotenv files (".env" if none are given) into the
// process environment and applies the BF_* overrides to the config.
// Missing files are skipped, variables already set in the environment win.
func (c *Config) LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", filename, err)
		}
	}

	if v := os.Getenv(EnvOptimizer); v != "" {
		c.Optimizer = v
	}
	if v := os.Getenv(EnvCompiler); v != "" {
		c.Compiler = v
	}
	if v := os.Getenv(EnvLinker); v != "" {
		c.Linker = v
	}
	if v, ok := os.LookupEnv(EnvOptLevel); ok {
		c.OptLevel = v
	}
	return nil
}
