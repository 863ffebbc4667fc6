package engine

import "math"

// Assignment is the visual placement computed for one item
type Assignment struct {
	ItemIndex        int     `json:"itemIndex" yaml:"item"`
	RelativePosition int     `json:"relativePosition" yaml:"rel"`
	LateralOffset    float64 `json:"lateralOffset" yaml:"offset"` // percent of a card width
	Scale            float64 `json:"scale" yaml:"scale"`
	StackOrder       int     `json:"stackOrder" yaml:"z"`
	Opacity          float64 `json:"opacity" yaml:"opacity"`
	Visible          bool    `json:"isVisible" yaml:"visible"`
	Active           bool    `json:"isActive" yaml:"active"`
}

// Layout holds the placement constants used by Compute
type Layout struct {
	ExpandedOffsets  []float64 // offsets for a full expanded row, left to right
	StagedOffset     float64   // compact mode: neighbours waiting just off-screen
	FarOffset        float64   // compact mode: everything else
	ActiveScale      float64
	ActiveStackOrder int
}

// DefaultLayout returns the layout used by the agency site
func DefaultLayout() Layout {
	return Layout{
		ExpandedOffsets:  []float64{-70, -35, 0, 35, 70},
		StagedOffset:     100,
		FarOffset:        200,
		ActiveScale:      1.05,
		ActiveStackOrder: 15,
	}
}

// ComputeAssignments places n items around focus using DefaultLayout
func ComputeAssignments(n, focus, slotCount int) []Assignment {
	return DefaultLayout().Compute(n, focus, slotCount)
}

// Compute returns one Assignment per item, ordered by ItemIndex.
// slotCount is clamped to [1, n]; an empty collection yields an empty slice.
func (l Layout) Compute(n, focus, slotCount int) []Assignment {
	if n <= 0 {
		return []Assignment{}
	}
	focus = wrap(focus, n)

	requested := slotCount
	if requested < 1 {
		requested = 1
	}
	k := requested
	if k > n {
		k = n
	}
	middle := k / 2

	var row []float64
	shift := 0
	center := 0.0
	if k > 1 {
		row = l.rowOffsets(requested)
		shift = (requested - k) / 2
		// even rows have no middle slot at 0
		center = row[shift+middle]
	}

	out := make([]Assignment, n)
	for i := 0; i < n; i++ {
		rel := wrap(i-focus, n)
		a := Assignment{
			ItemIndex:        i,
			RelativePosition: rel,
			Scale:            1,
			Visible:          rel < k,
			Active:           rel == middle,
		}

		switch {
		case a.Active:
			a.Scale = l.ActiveScale
			a.StackOrder = l.ActiveStackOrder
			a.Opacity = 1
		case a.Visible:
			a.StackOrder = k - rel
			a.Opacity = 1
		}

		if k == 1 {
			a.LateralOffset = l.compactOffset(rel, n)
		} else {
			a.LateralOffset = expandedOffset(row, rel, n, k, shift) - center
		}
		out[i] = a
	}
	return out
}

// rowOffsets returns the offsets of a row with count slots. The configured
// table is used as-is when it matches; otherwise slots are spread evenly over
// the table's span.
func (l Layout) rowOffsets(count int) []float64 {
	if count == len(l.ExpandedOffsets) {
		return l.ExpandedOffsets
	}
	span := 0.0
	for _, o := range l.ExpandedOffsets {
		span = math.Max(span, math.Abs(o))
	}
	if span == 0 {
		span = 70
	}
	row := make([]float64, count)
	if count == 1 {
		return row
	}
	step := 2 * span / float64(count-1)
	for p := range row {
		row[p] = -span + float64(p)*step
	}
	return row
}

func expandedOffset(row []float64, rel, n, k, shift int) float64 {
	if rel < k {
		return row[shift+rel]
	}
	first, last := row[shift], row[shift+k-1]
	step := row[1] - row[0]
	// Park hidden items one step beyond the edge they will enter or just left through.
	if rel-(k-1) <= n-rel {
		return last + step
	}
	return first - step
}

func (l Layout) compactOffset(rel, n int) float64 {
	switch {
	case rel == 0:
		return 0
	case rel == 1:
		return l.StagedOffset
	case rel == n-1:
		return -l.StagedOffset
	case rel <= n/2:
		return l.FarOffset
	default:
		return -l.FarOffset
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
