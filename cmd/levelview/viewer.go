package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

type viewer struct {
	app     *tview.Application
	mapView *tview.TextView
	info    *tview.TextView
	status  *tview.TextView

	gen   *dungeon.Generator
	rng   *rand.Rand
	level int
	seed  int64
}

func newViewer(cfg dungeon.Config, level int, seed int64) (*viewer, error) {
	gen, err := dungeon.NewGenerator(cfg, nil)
	if err != nil {
		return nil, err
	}

	tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
	tview.Styles.BorderColor = tcell.ColorGold
	tview.Styles.TitleColor = tcell.ColorGold
	tview.Styles.PrimaryTextColor = tcell.ColorWhite

	v := &viewer{
		app:   tview.NewApplication(),
		gen:   gen,
		rng:   rand.New(rand.NewSource(seed)),
		level: level,
		seed:  seed,
	}
	v.mapView = tview.NewTextView().SetDynamicColors(true)
	v.mapView.SetBorder(true).SetTitle(" Map ")
	v.info = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	v.info.SetBorder(true).SetTitle(" Puzzle ")
	v.status = tview.NewTextView().SetDynamicColors(true)

	body := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(v.mapView, cfg.Width+2, 0, false).
		AddItem(v.info, 0, 1, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(v.status, 1, 0, false)

	v.app.SetRoot(root, true)
	v.app.SetInputCapture(v.onKey)

	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *viewer) Run() error {
	return v.app.Run()
}

func (v *viewer) onKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyEscape {
		v.app.Stop()
		return nil
	}
	switch ev.Rune() {
	case 'q':
		v.app.Stop()
	case 'n':
		v.level++
		v.reload()
	case 'p':
		if v.level > 1 {
			v.level--
			v.reload()
		}
	case 'r':
		v.seed = v.rng.Int63()
		v.reload()
	default:
		return ev
	}
	return nil
}

func (v *viewer) reload() {
	if err := v.load(); err != nil {
		v.status.SetText(fmt.Sprintf("[red]%v", err))
	}
}

func (v *viewer) load() error {
	lvl, err := v.gen.GenerateSeeded(v.level, v.seed)
	if err != nil {
		return err
	}
	v.mapView.SetText(colorMap(lvl))
	v.info.SetText(describe(lvl))

	verdict := "[green]verified"
	if err := dungeon.Verify(lvl); err != nil {
		verdict = "[red]" + tview.Escape(err.Error())
	}
	v.status.SetText(fmt.Sprintf(" level %d  seed %d  %s[white]   n next  p previous  r reroll  q quit", lvl.Number, lvl.Seed, verdict))
	return nil
}

var tileColors = map[dungeon.Tile]string{
	dungeon.Floor:        "gray",
	dungeon.Wall:         "darkslategray",
	dungeon.DoorLocked:   "red",
	dungeon.DoorUnlocked: "green",
	dungeon.Exit:         "gold",
	dungeon.Start:        "aqua",
}

// colorMap renders the level with tview colour tags, notes in their palette
// colour.
func colorMap(l *dungeon.Level) string {
	notes := make(map[geometry.Point]dungeon.Note, len(l.Notes))
	for _, n := range l.Notes {
		if !n.Collected {
			notes[n.Position] = n.Note
		}
	}

	var sb strings.Builder
	for y := range l.Grid.Height() {
		for x := range l.Grid.Width() {
			p := geometry.Point{X: x, Y: y}
			if n, ok := notes[p]; ok {
				fmt.Fprintf(&sb, "[%s]%s", n.Info().Color, n)
				continue
			}
			t, _ := l.Grid.At(p)
			fmt.Fprintf(&sb, "[%s]%c", tileColors[t], t.Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func describe(l *dungeon.Level) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[gold]Rooms[white] %d  [gold]Corridors[white] %d  [gold]Sections[white] %d\n",
		l.Stats.Rooms, l.Stats.Corridors, l.Sections())
	fmt.Fprintf(&sb, "[gold]Chokepoints[white] %d (%d blocking, %d spaced)  [gold]Attempts[white] %d\n\n",
		l.Stats.Chokepoints, l.Stats.BlockingChokepoints, l.Stats.SpacedChokepoints, l.Stats.Attempts)

	if len(l.Doors) == 0 {
		sb.WriteString("No doors, the level is open.\n")
	}
	for i, d := range l.Doors {
		fmt.Fprintf(&sb, "[red]Door %d[white] (%d,%d) %s: ", i+1, d.Position.X, d.Position.Y, d.Orientation)
		for _, n := range d.Sequence {
			fmt.Fprintf(&sb, "[%s]%s ", n.Info().Color, n)
		}
		sb.WriteString("[white]\n")
	}

	sb.WriteString("\n[gold]Notes[white]\n")
	for _, n := range l.Notes {
		fmt.Fprintf(&sb, "[%s]%s[white] at (%d,%d)\n", n.Note.Info().Color, n.Note, n.Position.X, n.Position.Y)
	}
	if l.Stats.UnplacedRequired+l.Stats.UnplacedOptional > 0 {
		fmt.Fprintf(&sb, "\n[red]Unplaced: %d required, %d optional\n", l.Stats.UnplacedRequired, l.Stats.UnplacedOptional)
	}
	return sb.String()
}
