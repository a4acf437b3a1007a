package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const bfPackage = "github.com/iley/bfc/cmd/bf"

// TestCase represents a single test case
type TestCase struct {
	Name         string
	SourceFile   string
	InputFile    string
	ExpectedFile string
}

// discoverTests finds all test cases in the tests directory
func discoverTests(testsDir string) ([]TestCase, error) {
	var tests []TestCase

	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".b") {
			base := strings.TrimSuffix(path, ".b")
			name, err := filepath.Rel(testsDir, base)
			if err != nil {
				return err
			}

			// Only sources with an expected output file are tests.
			expectedFile := base + ".out"
			if _, err := os.Stat(expectedFile); err != nil {
				return nil
			}

			testCase := TestCase{
				Name:         filepath.ToSlash(name),
				SourceFile:   path,
				ExpectedFile: expectedFile,
			}
			if _, err := os.Stat(base + ".in"); err == nil {
				testCase.InputFile = base + ".in"
			}
			tests = append(tests, testCase)
		}

		return nil
	})

	return tests, err
}

// buildTest compiles a source file to a native executable
func buildTest(testCase TestCase) (string, []string, error) {
	binFile := strings.TrimSuffix(testCase.SourceFile, ".b")

	// Intermediate files are kept so failed tests can be inspected.
	generatedFiles := []string{binFile, binFile + ".ll", binFile + ".opt.ll", binFile + ".o"}

	cmd := exec.Command("go", "run", bfPackage, "build", "--keep", "-o", binFile, testCase.SourceFile)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", generatedFiles, fmt.Errorf("build failed: %w\nOutput: %s", err, string(output))
	}

	return binFile, generatedFiles, nil
}

// runTest executes a command with the test's input and returns its output
func runTest(cmd *exec.Cmd, testCase TestCase) (string, error) {
	if testCase.InputFile != "" {
		input, err := os.ReadFile(testCase.InputFile)
		if err != nil {
			return "", err
		}
		cmd.Stdin = bytes.NewReader(input)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			// Return the output even if there was a non-zero exit code.
			return string(output), fmt.Errorf("exit status %d: %s", exitError.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return string(output), nil
}

// cleanupFiles removes the specified files, ignoring any errors
func cleanupFiles(files []string) {
	for _, file := range files {
		os.Remove(file) // Ignore errors - files might not exist
	}
}

// runSingleTest runs a single test case and returns pass/fail status
func runSingleTest(testCase TestCase, interpret bool) (bool, string) {
	fmt.Printf("Running test %s... ", testCase.Name)

	var cmd *exec.Cmd
	var generatedFiles []string
	if interpret {
		cmd = exec.Command("go", "run", bfPackage, "run", testCase.SourceFile)
	} else {
		binaryPath, files, err := buildTest(testCase)
		generatedFiles = files
		if err != nil {
			return false, fmt.Sprintf("compilation error: %v", err)
		}
		cmd = exec.Command(binaryPath)
	}

	actualOutput, err := runTest(cmd, testCase)
	if err != nil {
		return false, fmt.Sprintf("runtime error: %v", err)
	}

	expectedOutput, err := os.ReadFile(testCase.ExpectedFile)
	if err != nil {
		return false, fmt.Sprintf("error reading expected output: %v", err)
	}

	if actualOutput == string(expectedOutput) {
		// Test passed - clean up generated files
		cleanupFiles(generatedFiles)
		return true, ""
	}

	// Test failed - leave files for inspection
	return false, fmt.Sprintf("output mismatch:\nExpected: %q\nActual:   %q", expectedOutput, actualOutput)
}

// findTestCase finds a test case by number or path
func findTestCase(tests []TestCase, identifier string, testsDir string) (*TestCase, error) {
	// If identifier is a path, try to match it directly
	if strings.Contains(identifier, "/") || strings.HasSuffix(identifier, ".b") {
		identifier = strings.TrimSuffix(identifier, ".b")
		identifier = strings.TrimPrefix(identifier, filepath.ToSlash(testsDir)+"/")

		for _, test := range tests {
			if test.Name == identifier {
				return &test, nil
			}
		}
		return nil, fmt.Errorf("test not found: %s", identifier)
	}

	// If identifier is just a number, find test that starts with that number
	for _, test := range tests {
		if strings.HasPrefix(test.Name, identifier+"_") || test.Name == identifier {
			return &test, nil
		}
	}

	return nil, fmt.Errorf("test not found: %s", identifier)
}

func main() {
	interpret := flag.Bool("interp", false, "run tests with the interpreter instead of native builds")
	testsDir := flag.String("dir", "tests", "directory containing the tests")
	flag.Parse()

	tests, err := discoverTests(*testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}

	if len(tests) == 0 {
		fmt.Printf("No tests found in %s/ directory\n", *testsDir)
		return
	}

	// Sort tests by name for consistent ordering
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Name < tests[j].Name
	})

	var testsToRun []TestCase
	if flag.NArg() > 0 {
		testCase, err := findTestCase(tests, flag.Arg(0), *testsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		testsToRun = []TestCase{*testCase}
		fmt.Printf("Running specific test: %s\n", testCase.Name)
	} else {
		testsToRun = tests
		if len(tests) == 1 {
			fmt.Printf("Found 1 test\n")
		} else {
			fmt.Printf("Found %d tests\n", len(tests))
		}
	}

	passed := 0
	failed := 0

	for _, test := range testsToRun {
		success, errorMsg := runSingleTest(test, *interpret)
		if success {
			fmt.Println("PASS")
			passed++
		} else {
			fmt.Printf("FAIL - %s\n", errorMsg)
			failed++
		}
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed. All good!\n", passed)
	} else {
		fmt.Printf("Test Results: %d passed, %d failed\n", passed, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
