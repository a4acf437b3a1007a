package codegen

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iley/bfc/internal/parser"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

// llvmTool locates an LLVM tool and the pointer style its version accepts.
// The test is skipped when the tool is not installed.
func llvmTool(t *testing.T, name string) (string, PointerStyle) {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not found in PATH", name)
	}
	out, err := exec.Command(path, "--version").CombinedOutput()
	if err != nil {
		t.Skipf("%s --version: %v", name, err)
	}
	major, err := ParseLLVMVersion(string(out))
	if err != nil {
		t.Skipf("%s: %v", name, err)
	}
	return path, PointerStyleForVersion(major)
}

func writeModule(t *testing.T, src string, pointers PointerStyle) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "prog.ll")
	text := Compile(parser.Parse([]byte(src)), 0, Options{Pointers: pointers, SourceFilename: "prog.b"})
	if err := os.WriteFile(file, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestCompiledProgramsAssemble(t *testing.T) {
	llvmAs, pointers := llvmTool(t, "llvm-as")

	sources := []string{"", "+++.", ".+", ".[-]", "+++.+.", ",[.,]", "[[-]>[-]<]", helloWorld}
	for _, src := range sources {
		file := writeModule(t, src, pointers)
		cmd := exec.Command(llvmAs, "-o", file+".bc", file)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Errorf("source %q does not assemble: %v\n%s", src, err, out)
		}
	}
}

func TestCompiledProgramsRun(t *testing.T) {
	lli, pointers := llvmTool(t, "lli")

	testCases := []struct {
		name     string
		src      string
		input    string
		expected string
	}{
		{name: "round trip", src: "+++.", expected: "\x03"},
		{name: "wraparound", src: "-.", expected: "\xff"},
		{name: "output then add", src: ".+.", expected: "\x00\x01"},
		{name: "transfer loop", src: "+++[>+<-]>.<.", expected: "\x03\x00"},
		{name: "hello world", src: helloWorld, expected: "Hello World!\n"},
		{name: "cat", src: ",+[-.,+]", input: "echo me", expected: "echo me"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file := writeModule(t, tc.src, pointers)
			cmd := exec.Command(lli, file)
			cmd.Stdin = strings.NewReader(tc.input)
			out, err := cmd.Output()
			if err != nil {
				t.Fatalf("lli failed: %v", err)
			}
			if string(out) != tc.expected {
				t.Errorf("expected output %q, got %q", tc.expected, out)
			}
		})
	}
}

func TestParseLLVMVersion(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected int
		wantErr  bool
	}{
		{name: "release", output: "LLVM (http://llvm.org/):\n  LLVM version 17.0.6\n  Optimized build.\n", expected: 17},
		{name: "distribution", output: "Ubuntu LLVM version 14.0.0\n", expected: 14},
		{name: "apple", output: "Homebrew LLVM version 18.1.8\n", expected: 18},
		{name: "no version", output: "opt: unknown option\n", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			major, err := ParseLLVMVersion(tc.output)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLLVMVersion() error = %v, wantErr %v", err, tc.wantErr)
			}
			if major != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, major)
			}
		})
	}
}

func TestPointerStyleForVersion(t *testing.T) {
	if PointerStyleForVersion(14) != PointerTyped {
		t.Errorf("LLVM 14 needs typed pointers")
	}
	for _, major := range []int{15, 17, 19} {
		if PointerStyleForVersion(major) != PointerOpaque {
			t.Errorf("LLVM %d should get opaque pointers", major)
		}
	}
}
