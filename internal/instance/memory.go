package instance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var memoryRegex = regexp.MustCompile(`^([0-9]+)([MGmg])$`)

// MemorySize is a daemon memory ceiling: an integer count of
// megabytes or gigabytes, formatted as the daemon expects (128M, 2G).
type MemorySize struct {
	Value int
	Unit  byte // 'M' or 'G'
}

// ParseMemorySize parses strings like "128M" or "2G". The unit is
// case-insensitive on input and normalized to upper case.
func ParseMemorySize(s string) (MemorySize, error) {
	m := memoryRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return MemorySize{}, fmt.Errorf("invalid memory size %q: expected <number>M or <number>G", s)
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v == 0 {
		return MemorySize{}, fmt.Errorf("invalid memory size %q: value must be a positive integer", s)
	}
	return MemorySize{Value: v, Unit: strings.ToUpper(m[2])[0]}, nil
}

// String formats the size the way the daemon config expects.
func (m MemorySize) String() string {
	return fmt.Sprintf("%d%c", m.Value, m.Unit)
}

// IsZero reports whether the size was never set.
func (m MemorySize) IsZero() bool {
	return m.Value == 0
}
