package util

import "testing"

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "simple string",
			input:    "hello.b",
			expected: "hello.b",
		},
		{
			name:     "string with double quotes",
			input:    `hello "world"`,
			expected: `hello \22world\22`,
		},
		{
			name:     "string with newline",
			input:    "hello\nworld",
			expected: `hello\0Aworld`,
		},
		{
			name:     "string with backslash",
			input:    `dir\file`,
			expected: `dir\5Cfile`,
		},
		{
			name:     "string with high bytes",
			input:    "caf\xc3\xa9",
			expected: `caf\C3\A9`,
		},
		{
			name:     "string with nul and del",
			input:    "a\x00b\x7f",
			expected: `a\00b\7F`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EscapeString(tt.input)
			if result != tt.expected {
				t.Errorf("EscapeString(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTrimExt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello.b", "hello"},
		{"dir/hello.bf", "dir/hello"},
		{"dir.d/hello", "dir.d/hello"},
		{"a.b.c", "a.b"},
		{".hidden", ".hidden"},
		{"dir/.hidden", "dir/.hidden"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := TrimExt(tt.input); got != tt.expected {
			t.Errorf("TrimExt(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
