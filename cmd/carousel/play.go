package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/autoplay"
	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/renderer"
	"github.com/ivlev/carousel/internal/schedule"
	"github.com/ivlev/carousel/internal/source"
	"github.com/ivlev/carousel/internal/store"
)

const keyboardPause = "keyboard"

var (
	playFPS      int
	playNoResume bool
	playNoAuto   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the carousel in the terminal",
	Long: `Draws the carousel with autoplay in the terminal.

Keys: left/right navigate, 1-9 jump, space pauses autoplay, q or Esc quits.
The last position is remembered per catalog. Use --log-file, the screen is
owned by the player while it runs.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playFPS, "fps", 30, "animation frames per second")
	playCmd.Flags().BoolVar(&playNoResume, "no-resume", false, "start at the first item")
	playCmd.Flags().BoolVar(&playNoAuto, "no-autoplay", false, "disable autoplay")
}

func runPlay(cmd *cobra.Command, args []string) error {
	src, items, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	key, _ := filepath.Abs(cfg.CatalogPath)
	positions, err := store.Open("carousel", logger)
	if err != nil {
		logger.Warn("positions are not persisted", zap.Error(err))
	}
	var resumed store.Position
	if !playNoResume {
		resumed = positions.Resume(key, len(items))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	opts := cfg.EngineOptions(schedule.Real{}, logger)
	opts.Focus = resumed.Focus
	eng := engine.New(items, opts)
	defer eng.Close()

	player := autoplay.New(eng, cfg.Autoplay.Period, schedule.Real{}, logger)
	restorePlayer(player, resumed)
	if cfg.Autoplay.Enabled && !playNoAuto {
		player.Start()
	}
	defer player.Stop()

	changes := make(chan struct{}, 1)
	cancel := eng.Subscribe(func(engine.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer cancel()

	term := renderer.NewTerminal(screen, items, cfg.Classifier(), playFPS)
	term.SetTarget(eng.Assignments(term.SlotCount()))

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(playFPS, 1)))
	defer ticker.Stop()

loop:
	for {
		select {
		case <-cmd.Context().Done():
			break loop

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !handleKey(ev, eng, player) {
					break loop
				}
			case *tcell.EventResize:
				screen.Sync()
				term.SetTarget(eng.Assignments(term.SlotCount()))
			}

		case <-changes:
			term.SetTarget(eng.Assignments(term.SlotCount()))

		case <-ticker.C:
			term.Step()
			term.Draw(status(eng, term.SlotCount(), player))
		}
	}

	st := eng.State()
	pos := store.Position{
		Focus:  st.Focus,
		Count:  st.Count,
		Period: player.Period(),
		Paused: !player.Playing(),
	}
	if err := positions.Save(key, pos); err != nil {
		logger.Warn("failed to save position", zap.Error(err))
	}
	return nil
}

// restorePlayer applies the autoplay period and keyboard pause of a saved position
func restorePlayer(player *autoplay.Player, pos store.Position) {
	if pos.Period > 0 {
		player.SetPeriod(pos.Period)
	}
	if pos.Paused {
		player.Pause(keyboardPause)
	}
}

// handleKey applies one key press. It returns false when the player should quit.
func handleKey(ev *tcell.EventKey, eng *engine.Engine[source.Item], player *autoplay.Player) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		eng.Advance(engine.Prev)
	case tcell.KeyRight:
		eng.Advance(engine.Next)
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			return false
		case r == ' ':
			if len(player.PauseReasons()) > 0 {
				player.Resume(keyboardPause)
			} else {
				player.Pause(keyboardPause)
			}
		case r >= '1' && r <= '9':
			eng.JumpTo(int(r - '1'))
		}
	}
	return true
}

func status(eng *engine.Engine[source.Item], slots int, player *autoplay.Player) string {
	st := eng.State()
	var b strings.Builder
	for _, a := range eng.Assignments(slots) {
		if !a.Active {
			continue
		}
		fmt.Fprintf(&b, " %d/%d", a.ItemIndex+1, st.Count)
		if it, ok := eng.Item(a.ItemIndex); ok {
			fmt.Fprintf(&b, "  %s", it.Title)
		}
	}
	if player.Playing() {
		fmt.Fprintf(&b, "  ▶ every %s", player.Period())
	} else {
		b.WriteString("  ⏸ paused")
	}
	if st.Locked {
		b.WriteString("  ·")
	}
	b.WriteString("   ←/→ 1-9 space q")
	return b.String()
}
