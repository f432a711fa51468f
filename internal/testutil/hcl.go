package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/hcl"
	"github.com/vk/depsgraph/internal/scene"
)

// ParseScene parses src as a single scene file and fails the test on error.
func ParseScene(t *testing.T, src string) *scene.Scene {
	t.Helper()
	s, err := hcl.NewLoader().Parse(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err, "scene failed to parse")
	return s
}

// ObjectTestCase defines a single scenario for testing the parsing of an
// `object` block.
type ObjectTestCase struct {
	Name string
	// HCL should contain only the content *inside* the `object "test" { ... }`
	// block. It can be written as a readable, indented multi-line string.
	HCL string
	// Extra is appended after the object block, for entities it references.
	Extra string
	// ExpectErr should be true if a parsing error is expected.
	ExpectErr bool
	// ErrContains is a substring that must appear in the error message if
	// ExpectErr is true.
	ErrContains string
	// Validate performs assertions on the successfully parsed object.
	Validate func(t *testing.T, o *scene.Object)
}

// unindent removes common leading whitespace from a multi-line string,
// allowing for readable, indented HCL snippets in Go tests.
func unindent(s string) string {
	lines := strings.Split(s, "\n")
	if strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.Join(lines, "\n")
}

// RunObjectParsingTests iterates through a table of object parsing cases,
// handling boilerplate and common assertions.
func RunObjectParsingTests(t *testing.T, cases []ObjectTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			src := fmt.Sprintf("object \"test\" {\n%s\n}\n%s", unindent(tc.HCL), tc.Extra)
			s, err := hcl.NewLoader().Parse(context.Background(), "test.hcl", []byte(src))

			if tc.ExpectErr {
				require.Error(t, err, "Expected a parsing error, but got none")
				if tc.ErrContains != "" {
					require.Contains(t, err.Error(), tc.ErrContains, "Error message did not contain the expected text")
				}
				return
			}

			require.NoError(t, err, "Expected successful parsing, but got an error")
			o, ok := s.Object("test")
			require.True(t, ok, "Expected the test object to be parsed")

			if tc.Validate != nil {
				tc.Validate(t, o)
			}
		})
	}
}
