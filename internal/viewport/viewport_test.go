package viewport

import "testing"

func TestSlotCount(t *testing.T) {
	c := Default()

	tests := []struct {
		width int
		slots int
		mode  Mode
	}{
		{320, 1, Compact},
		{768, 1, Compact},
		{769, 5, Expanded},
		{1920, 5, Expanded},
	}

	for _, tt := range tests {
		if got := c.SlotCount(tt.width); got != tt.slots {
			t.Errorf("width %d: expected %d slots, got %d", tt.width, tt.slots, got)
		}
		if got := c.Mode(tt.width); got != tt.mode {
			t.Errorf("width %d: expected mode %s, got %s", tt.width, tt.mode, got)
		}
	}
}

func TestForTerminal(t *testing.T) {
	c := Default().ForTerminal()

	if got := c.SlotCount(80); got != 1 {
		t.Errorf("80 columns should be compact, got %d slots", got)
	}
	if got := c.SlotCount(160); got != 5 {
		t.Errorf("160 columns should be expanded, got %d slots", got)
	}
}
