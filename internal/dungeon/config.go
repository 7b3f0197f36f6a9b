package dungeon

import "fmt"

// Config holds the fixed constants and difficulty caps of the generator.
type Config struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	MinRegionSize     int     `yaml:"min_region_size"`
	MinRoomSize       int     `yaml:"min_room_size"`
	Padding           int     `yaml:"padding"`
	MaxDoors          int     `yaml:"max_doors"`
	MaxSequenceLength int     `yaml:"max_sequence_length"`
	ReuseBias         float64 `yaml:"reuse_bias"`
	BonusNotesPerDoor int     `yaml:"bonus_notes_per_door"`
	ChokepointSpacing int     `yaml:"chokepoint_spacing"`
	MaxAttempts       int     `yaml:"max_attempts"`
	// Seed 0 means seed from the clock.
	Seed int64 `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Width:             25,
		Height:            19,
		MinRegionSize:     5,
		MinRoomSize:       4,
		Padding:           1,
		MaxDoors:          3,
		MaxSequenceLength: 5,
		ReuseBias:         0.7,
		BonusNotesPerDoor: 1,
		ChokepointSpacing: 2,
		MaxAttempts:       4,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return invalidDimensions(c.Width, c.Height)
	}
	// The outer wall ring plus one padded minimum room must fit.
	need := c.MinRoomSize + 2*c.Padding + 2
	if c.Width < need || c.Height < need {
		return fmt.Errorf("%w: %dx%d cannot hold a %d-tile room with padding %d",
			ErrInvalidDimensions, c.Width, c.Height, c.MinRoomSize, c.Padding)
	}
	switch {
	case c.MinRegionSize < 1:
		return fmt.Errorf("%w: min_region_size must be at least 1", ErrInvalidConfig)
	case c.MinRoomSize < 2:
		return fmt.Errorf("%w: min_room_size must be at least 2", ErrInvalidConfig)
	// Regions may be narrower than a padded room: uneven and refused splits
	// still leave leaves wide enough for one. Below half a padded room almost
	// every deep partition ends up roomless.
	case 2*c.MinRegionSize < c.MinRoomSize+2*c.Padding:
		return fmt.Errorf("%w: min_region_size %d is below half of a padded %d-tile room",
			ErrInvalidConfig, c.MinRegionSize, c.MinRoomSize)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding must not be negative", ErrInvalidConfig)
	case c.MaxDoors < 0:
		return fmt.Errorf("%w: max_doors must not be negative", ErrInvalidConfig)
	case c.MaxSequenceLength < 2:
		return fmt.Errorf("%w: max_sequence_length must be at least 2", ErrInvalidConfig)
	case c.ReuseBias < 0 || c.ReuseBias > 1:
		return fmt.Errorf("%w: reuse_bias must be within [0,1]", ErrInvalidConfig)
	case c.BonusNotesPerDoor < 0:
		return fmt.Errorf("%w: bonus_notes_per_door must not be negative", ErrInvalidConfig)
	case c.ChokepointSpacing < 0:
		return fmt.Errorf("%w: chokepoint_spacing must not be negative", ErrInvalidConfig)
	case c.MaxAttempts < 1:
		return fmt.Errorf("%w: max_attempts must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Iterations is the partition depth for a level: 3 + min(level, 2).
func (c Config) Iterations(level int) int {
	return 3 + min(level, 2)
}

// DoorCount is min(1 + level, candidates, MaxDoors).
func (c Config) DoorCount(level, candidates int) int {
	return max(0, min(1+level, candidates, c.MaxDoors))
}

// SequenceLength is min(2 + level/2 + doorIndex, MaxSequenceLength).
func (c Config) SequenceLength(level, doorIndex int) int {
	return min(2+level/2+doorIndex, c.MaxSequenceLength)
}
