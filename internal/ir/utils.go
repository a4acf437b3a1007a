package ir

import (
	"strconv"
	"strings"
)

func IsGlobal(name string) bool {
	return strings.HasPrefix(name, "@")
}

func IsRegister(name string) bool {
	return strings.HasPrefix(name, "%")
}

// RegisterIndex returns N for a register named "%N".
func RegisterIndex(name string) (int, bool) {
	if !IsRegister(name) {
		return 0, false
	}
	idx, err := strconv.Atoi(name[1:])
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// IsNamedValue reports whether name is a local value with a non-numeric name, such as "%discard4".
// LLVM does not count named values when it numbers unnamed ones.
func IsNamedValue(name string) bool {
	if !IsRegister(name) || len(name) < 2 {
		return false
	}
	_, ok := RegisterIndex(name)
	return !ok
}
