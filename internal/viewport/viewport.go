// Package viewport maps a viewport width to the number of carousel slots.
package viewport

type Mode string

const (
	Compact  Mode = "compact"
	Expanded Mode = "expanded"
)

// Breakpoint widths
const (
	// DefaultBreakpoint is the widest viewport still rendered in compact mode (px).
	DefaultBreakpoint = 768

	// TerminalBreakpoint is the compact threshold in terminal columns.
	TerminalBreakpoint = 96
)

type Classifier struct {
	Breakpoint    int
	CompactSlots  int
	ExpandedSlots int
}

func Default() Classifier {
	return Classifier{
		Breakpoint:    DefaultBreakpoint,
		CompactSlots:  1,
		ExpandedSlots: 5,
	}
}

// ForTerminal keeps the slot counts but classifies terminal columns
func (c Classifier) ForTerminal() Classifier {
	c.Breakpoint = TerminalBreakpoint
	return c
}

func (c Classifier) Mode(width int) Mode {
	if width <= c.Breakpoint {
		return Compact
	}
	return Expanded
}

func (c Classifier) SlotCount(width int) int {
	if c.Mode(width) == Compact {
		return c.CompactSlots
	}
	return c.ExpandedSlots
}
