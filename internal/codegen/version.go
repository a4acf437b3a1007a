package codegen

import (
	"fmt"
	"regexp"
	"strconv"
)

var llvmVersionPattern = regexp.MustCompile(`LLVM version (\d+)\.`)

// ParseLLVMVersion extracts the major version from the output of an LLVM tool's --version flag.
func ParseLLVMVersion(output string) (int, error) {
	match := llvmVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("no LLVM version in %q", output)
	}
	return strconv.Atoi(match[1])
}

// PointerStyleForVersion picks the pointer syntax for an LLVM major version.
// Opaque pointers are the default from LLVM 15 and the only kind LLVM 17 accepts.
func PointerStyleForVersion(major int) PointerStyle {
	if major >= 15 {
		return PointerOpaque
	}
	return PointerTyped
}
