package util

import (
	"fmt"
	"strings"
)

// EscapeString escapes s for use inside a double-quoted LLVM string.
// Printable ASCII is kept as is, except '"' and '\'. Every other byte becomes \XX.
func EscapeString(s string) string {
	sb := strings.Builder{}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x20 && b < 0x7f && b != '"' && b != '\\' {
			sb.WriteByte(b)
		} else {
			sb.WriteString(fmt.Sprintf("\\%02X", b))
		}
	}
	return sb.String()
}

// TrimExt strips the directory-independent extension from a file name: "a/b.c.b" -> "a/b.c".
func TrimExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			if i == 0 || path[i-1] == '/' {
				return path
			}
			return path[:i]
		}
	}
	return path
}
