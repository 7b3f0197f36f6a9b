package dungeon

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// Verify checks a freshly generated level: structure, connectivity with every
// door open, that each door's notes lie before it when doors are unlocked in
// order, and that every door is load-bearing.
func Verify(l *Level) error {
	if err := verifyStructure(l); err != nil {
		return err
	}
	if !Reachable(l.Grid, l.Start, DoorsPassable).Has(l.Exit) {
		return &VerifyError{Property: "connectivity", Detail: "exit unreachable with every door open"}
	}
	if err := verifySolvable(l); err != nil {
		return err
	}
	return verifyDoorsBlock(l)
}

func verifyStructure(l *Level) error {
	w, h := l.Grid.Size()
	for y := range h {
		for x := range w {
			if t, _ := l.Grid.At(geometry.Point{X: x, Y: y}); !t.Valid() {
				return &VerifyError{Property: "structure", Detail: fmt.Sprintf("invalid tile %d at (%d,%d)", t, x, y)}
			}
		}
	}
	if l.Start == l.Exit {
		return &VerifyError{Property: "structure", Detail: "start and exit share a tile"}
	}
	if t, _ := l.Grid.At(l.Start); t != Start {
		return &VerifyError{Property: "structure", Detail: fmt.Sprintf("start tile is %s", t)}
	}
	if t, _ := l.Grid.At(l.Exit); t != Exit {
		return &VerifyError{Property: "structure", Detail: fmt.Sprintf("exit tile is %s", t)}
	}

	seen := mapset.New[geometry.Point]()
	for _, n := range l.Notes {
		if seen.Has(n.Position) {
			return &VerifyError{Property: "structure", Detail: fmt.Sprintf("two notes at (%d,%d)", n.Position.X, n.Position.Y)}
		}
		seen.Put(n.Position)
		if t, _ := l.Grid.At(n.Position); t != Floor {
			return &VerifyError{Property: "structure", Detail: fmt.Sprintf("note %s on %s tile", n.Note, t)}
		}
	}
	for _, d := range l.Doors {
		if t, _ := l.Grid.At(d.Position); t != DoorLocked && t != DoorUnlocked {
			return &VerifyError{Property: "structure", Detail: fmt.Sprintf("door at (%d,%d) is a %s tile", d.Position.X, d.Position.Y, t)}
		}
	}
	return nil
}

func verifySolvable(l *Level) error {
	opened := NewProbe(l.Grid)
	for i, d := range l.Doors {
		before := Reachable(opened, l.Start, DoorsBlocking)
		for _, n := range d.Sequence {
			if !noteWithin(l, n, before) {
				return &VerifyError{
					Property: "solvability",
					Detail:   fmt.Sprintf("door %d at (%d,%d) needs %s, not reachable before it", i, d.Position.X, d.Position.Y, n),
				}
			}
		}
		opened = opened.With(d.Position, Floor)
	}
	return nil
}

func noteWithin(l *Level, n Note, r Reach) bool {
	for _, c := range l.Notes {
		if c.Note == n && r.Has(c.Position) {
			return true
		}
	}
	return false
}

func verifyDoorsBlock(l *Level) error {
	open := NewProbe(l.Grid)
	for _, d := range l.Doors {
		open = open.With(d.Position, Floor)
	}
	for i, d := range l.Doors {
		probe := open.With(d.Position, DoorLocked)
		if Reachable(probe, l.Start, DoorsBlocking).Has(l.Exit) {
			return &VerifyError{
				Property: "no-dead-door",
				Detail:   fmt.Sprintf("door %d at (%d,%d) does not cut the exit off", i, d.Position.X, d.Position.Y),
			}
		}
	}
	return nil
}
