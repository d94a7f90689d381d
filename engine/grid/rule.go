package grid

import (
	"fmt"
	"strings"
)

// Rule is a totalistic Moore-neighbourhood rule in B/S notation.
// Bit n of Birth is set when a dead cell with n live neighbours is born,
// bit n of Survive when a live cell with n live neighbours stays alive.
type Rule struct {
	Birth   uint16
	Survive uint16
}

// Conway is the standard Game of Life rule, B3/S23.
var Conway = Rule{Birth: 1 << 3, Survive: 1<<2 | 1<<3}

// ParseRule parses rule strings such as "B3/S23", "b36/s23" or the legacy "23/3" (survive/birth) form.
func ParseRule(s string) (Rule, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Rule{}, fmt.Errorf("rule %q: expected two parts separated by '/'", s)
	}

	var birth, survive string
	switch {
	case strings.HasPrefix(parts[0], "B") && strings.HasPrefix(parts[1], "S"):
		birth, survive = parts[0][1:], parts[1][1:]
	case strings.HasPrefix(parts[0], "S") && strings.HasPrefix(parts[1], "B"):
		survive, birth = parts[0][1:], parts[1][1:]
	default:
		survive, birth = parts[0], parts[1]
	}

	var r Rule
	var err error
	if r.Birth, err = parseCounts(birth); err != nil {
		return Rule{}, fmt.Errorf("rule %q: birth: %w", s, err)
	}
	if r.Survive, err = parseCounts(survive); err != nil {
		return Rule{}, fmt.Errorf("rule %q: survive: %w", s, err)
	}
	return r, nil
}

func parseCounts(s string) (uint16, error) {
	var mask uint16
	for _, c := range s {
		if c < '0' || c > '8' {
			return 0, fmt.Errorf("invalid neighbour count %q", c)
		}
		mask |= 1 << (c - '0')
	}
	return mask, nil
}

// Next returns whether a cell is alive in the next generation.
func (r Rule) Next(alive bool, neighbours int) bool {
	if alive {
		return r.Survive&(1<<neighbours) != 0
	}
	return r.Birth&(1<<neighbours) != 0
}

func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteByte('B')
	writeCounts(&sb, r.Birth)
	sb.WriteString("/S")
	writeCounts(&sb, r.Survive)
	return sb.String()
}

func writeCounts(sb *strings.Builder, mask uint16) {
	for n := 0; n <= 8; n++ {
		if mask&(1<<n) != 0 {
			sb.WriteByte(byte('0' + n))
		}
	}
}
