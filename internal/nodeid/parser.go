// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single path segment. Colons are allowed so opcodes
// such as `modifier:subsurf` stay a single segment.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	if name == "-" || name == ":" || strings.HasPrefix(name, ":") {
		return false
	}
	return true
}

// Parse creates an Address from its canonical string representation. One to
// three dot-separated segments are accepted: `id`, `id.component` and
// `id.component.opcode`. Everything after the second dot is the opcode, so
// an opcode with a `kind:` prefix may carry dots in its argument, e.g.
// `Cube.parameters.driver:transform.location`.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}

	segments := strings.SplitN(raw, ".", 3)
	for _, s := range segments[:min(len(segments), 2)] {
		if err := checkSegment(raw, s); err != nil {
			return Address{}, err
		}
	}

	addr := Address{ID: segments[0]}
	if len(segments) > 1 {
		addr.Component = segments[1]
	}
	if len(segments) > 2 {
		if err := checkOpcode(raw, segments[2]); err != nil {
			return Address{}, err
		}
		addr.Opcode = segments[2]
	}
	return addr, nil
}

func checkSegment(raw, s string) error {
	if s == "" {
		return fmt.Errorf("address %q contains an empty segment", raw)
	}
	if !segmentRegex.MatchString(s) {
		return fmt.Errorf("invalid address segment format: %q", s)
	}
	if !isValidSegmentName(s) {
		return fmt.Errorf("invalid segment name: %q", s)
	}
	return nil
}

// checkOpcode validates the opcode segment. Dots are only allowed in the
// argument after the opcode's `kind:` prefix and each dotted part must
// itself be a valid segment.
func checkOpcode(raw, op string) error {
	if !strings.Contains(op, ".") {
		return checkSegment(raw, op)
	}
	kind, arg, ok := strings.Cut(op, ":")
	if !ok || strings.Contains(kind, ".") {
		return fmt.Errorf("address %q has more than 3 segments", raw)
	}
	if err := checkSegment(raw, kind); err != nil {
		return err
	}
	for _, part := range strings.Split(arg, ".") {
		if err := checkSegment(raw, part); err != nil {
			return err
		}
	}
	return nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// tests and constant addresses.
func MustParse(raw string) Address {
	addr, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return addr
}
