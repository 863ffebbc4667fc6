package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ivlev/carousel/internal/engine"
)

var (
	layoutFocus int
	layoutWidth int
	layoutSlots int
	layoutCount int
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("11"))
	hiddenStyle = cellStyle.Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the slot assignment for a focus index and viewport width",
	Long: `Prints one row per item: relative position, lateral offset (percent of a card
width), scale, stack order and visibility.

Without a catalog, --count items are laid out.`,
	Example: `  carousel layout --count 6 --focus 3 --width 1280
  carousel layout --catalog team.yaml --width 400`,
	RunE: func(cmd *cobra.Command, args []string) error {
		titles, err := layoutTitles()
		if err != nil {
			return err
		}

		slots := layoutSlots
		if slots == 0 {
			slots = cfg.Classifier().SlotCount(layoutWidth)
		}
		as := cfg.Layout().Compute(len(titles), layoutFocus, slots)

		fmt.Println(titleStyle.Render(fmt.Sprintf("%d items, focus %d, %d slots (%s)",
			len(titles), layoutFocus, slots, cfg.Classifier().Mode(layoutWidth))))
		fmt.Println(renderLayout(titles, as))
		return nil
	},
}

func init() {
	layoutCmd.Flags().IntVar(&layoutFocus, "focus", 0, "focus index")
	layoutCmd.Flags().IntVar(&layoutWidth, "width", 1280, "viewport width in pixels")
	layoutCmd.Flags().IntVar(&layoutSlots, "slots", 0, "slot count (overrides --width)")
	layoutCmd.Flags().IntVar(&layoutCount, "count", 6, "item count when no catalog is configured")
}

func layoutTitles() ([]string, error) {
	if cfg.CatalogPath == "" {
		titles := make([]string, layoutCount)
		for i := range titles {
			titles[i] = "item " + strconv.Itoa(i)
		}
		return titles, nil
	}
	src, items, err := openSource()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	return titles, nil
}

func renderLayout(titles []string, as []engine.Assignment) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "title", "rel", "offset", "scale", "z", "opacity", "state")

	for _, a := range as {
		state := "hidden"
		switch {
		case a.Active:
			state = "active"
		case a.Visible:
			state = "visible"
		}
		t.Row(
			strconv.Itoa(a.ItemIndex),
			titles[a.ItemIndex],
			strconv.Itoa(a.RelativePosition),
			fmt.Sprintf("%+.0f%%", a.LateralOffset),
			fmt.Sprintf("%.2f", a.Scale),
			strconv.Itoa(a.StackOrder),
			fmt.Sprintf("%.0f", a.Opacity),
			state,
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row < 0 || row >= len(as) {
			return cellStyle
		}
		switch {
		case as[row].Active:
			return activeStyle
		case !as[row].Visible:
			return hiddenStyle
		}
		return cellStyle
	})
	return t.String()
}
