package main

import "testing"

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   string
		expected string
	}{
		{name: "llvm next to source", input: "dir/hello.b", target: "llvm", expected: "dir/hello.ll"},
		{name: "llvm in working directory", input: "hello.bf", target: "llvm", expected: "hello.ll"},
		{name: "llvm from stdin", input: "-", target: "llvm", expected: "-"},
		{name: "ir to stdout", input: "dir/hello.b", target: "ir", expected: "-"},
		{name: "ast to stdout", input: "hello.b", target: "ast", expected: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultOutput(tt.input, tt.target); got != tt.expected {
				t.Errorf("defaultOutput(%q, %q) = %q, expected %q", tt.input, tt.target, got, tt.expected)
			}
		})
	}
}
