package dungeon

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGenerateSeeded_Properties(t *testing.T) {
	logger := &MockLogger{}
	gen, err := NewGenerator(DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	for level := 1; level <= 6; level++ {
		for seed := int64(1); seed <= 25; seed++ {
			l, err := gen.GenerateSeeded(level, seed)
			if err != nil {
				t.Fatalf("level %d seed %d: %v", level, seed, err)
			}
			if err := Verify(l); err != nil {
				t.Fatalf("level %d seed %d: %v\n%s", level, seed, err, l)
			}
			if len(l.Doors) > 3 || len(l.Doors) > 1+level {
				t.Errorf("level %d seed %d: %d doors", level, seed, len(l.Doors))
			}
			if want := gen.Config().DoorCount(level, l.Stats.SpacedChokepoints); len(l.Doors) != want {
				t.Errorf("level %d seed %d: %d doors, want %d from %d spaced chokepoints",
					level, seed, len(l.Doors), want, l.Stats.SpacedChokepoints)
			}
			for i, d := range l.Doors {
				if want := min(2+level/2+i, 5); len(d.Sequence) != want {
					t.Errorf("level %d seed %d: door %d has %d notes, want %d", level, seed, i, len(d.Sequence), want)
				}
			}
			if l.Stats.UnplacedRequired != 0 {
				t.Errorf("level %d seed %d: %d required notes unplaced", level, seed, l.Stats.UnplacedRequired)
			}
			if got := len(notesOnMap(l)); got != len(AllNotes) {
				t.Errorf("level %d seed %d: %d distinct notes", level, seed, got)
			}
			if l.Number != level || l.Seed != seed {
				t.Errorf("level %d seed %d: got number %d seed %d", level, seed, l.Number, l.Seed)
			}
		}
	}
}

func TestGenerateSeeded_Reproducible(t *testing.T) {
	gen, err := NewGenerator(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	a, err := gen.GenerateSeeded(4, 2024)
	if err != nil {
		t.Fatalf("GenerateSeeded: %v", err)
	}
	b, err := gen.GenerateSeeded(4, 2024)
	if err != nil {
		t.Fatalf("GenerateSeeded: %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("same seed produced different maps:\n%s\n%s", a, b)
	}
	if len(a.Doors) != len(b.Doors) {
		t.Fatalf("door counts differ")
	}
	for i := range a.Doors {
		if a.Doors[i].Position != b.Doors[i].Position {
			t.Errorf("door %d moved between runs", i)
		}
	}
}

func TestGenerate_DrawsFromGeneratorStream(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	g1, _ := NewGenerator(cfg, nil)
	g2, _ := NewGenerator(cfg, nil)

	a, err := g1.Generate(2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, _ := g2.Generate(2)
	if a.Seed != b.Seed || a.String() != b.String() {
		t.Errorf("generators with the same seed diverged")
	}

	g2.SetSeed(100)
	c, _ := g2.Generate(2)
	if c.Seed == a.Seed {
		t.Errorf("SetSeed should restart the stream with a new seed")
	}
}

func TestGenerateLevel_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, level := range []int{0, -3} {
		if _, err := GenerateLevel(level, rng); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("GenerateLevel(%d) err = %v, want ErrInvalidLevel", level, err)
		}
	}
	if _, err := GenerateLevel(1, rng); err != nil {
		t.Errorf("GenerateLevel(1): %v", err)
	}
}

func TestNewGenerator_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if _, err := NewGenerator(cfg, nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
}

func TestGenerate_TinyMapStillSeparatesStartAndExit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 8
	gen, err := NewGenerator(cfg, nil)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	for seed := int64(0); seed < 10; seed++ {
		l, err := gen.GenerateSeeded(1, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(l.Rooms) != 1 || len(l.Doors) != 0 {
			t.Errorf("seed %d: %d rooms %d doors, want a single open room", seed, len(l.Rooms), len(l.Doors))
		}
		if err := Verify(l); err != nil {
			t.Errorf("seed %d: %v\n%s", seed, err, l)
		}
	}
}

func TestGenerateSeeded_SmallRegionsRecoverFromRoomlessPartitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinRegionSize = 3
	logger := &MockLogger{}
	gen, err := NewGenerator(cfg, logger)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	for level := 1; level <= 3; level++ {
		for seed := int64(1); seed <= 60; seed++ {
			l, err := gen.GenerateSeeded(level, seed)
			if err != nil {
				t.Fatalf("level %d seed %d: %v", level, seed, err)
			}
			if len(l.Rooms) == 0 {
				t.Fatalf("level %d seed %d: no rooms", level, seed)
			}
			if err := Verify(l); err != nil {
				t.Fatalf("level %d seed %d: %v\n%s", level, seed, err, l)
			}
		}
	}
}

func TestBuild_FallsBackToSingleRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 9, 9
	cfg.MinRegionSize = 3
	cfg.MaxAttempts = 2
	logger := &MockLogger{}

	// The 7x7 interior always splits into 3 and 4 wide halves, both too
	// narrow for a padded 4-tile room, so only the unsplit region fits one.
	l, err := build(cfg, 1, rand.New(rand.NewSource(7)), logger)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(l.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(l.Rooms))
	}
	if l.Stats.Attempts != cfg.MaxAttempts+1 {
		t.Errorf("attempts = %d, want %d", l.Stats.Attempts, cfg.MaxAttempts+1)
	}
	if !logger.Contains("using a single region") {
		t.Error("fallback was not logged")
	}
	if err := Verify(l); err != nil {
		t.Errorf("Verify: %v\n%s", err, l)
	}
}
