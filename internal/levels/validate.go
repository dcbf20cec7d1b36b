package levels

import (
	"errors"
	"fmt"

	"github.com/robalobadob/rightsquest/internal/game"
)

// ErrInvalidLevel wraps every content-authoring problem found by Validate.
var ErrInvalidLevel = errors.New("invalid level")

// Validate rejects level packs the engine cannot play correctly:
// empty packs, duplicate level ids, zero-pair levels, duplicate right or duty
// ids within a level, distractors reusing a duty id, unknown difficulty,
// negative hints and non-positive time limits.
func Validate(lv []game.Level) error {
	if len(lv) == 0 {
		return fmt.Errorf("%w: pack has no levels", ErrInvalidLevel)
	}
	seen := make(map[int]bool, len(lv))
	for _, l := range lv {
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate level id %d", ErrInvalidLevel, l.ID)
		}
		seen[l.ID] = true
		if err := validateLevel(l); err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrInvalidLevel, l.ID, err)
		}
	}
	return nil
}

func validateLevel(l game.Level) error {
	if l.ID <= 0 {
		return errors.New("id must be positive")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if !l.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", l.Difficulty)
	}
	if len(l.Pairs) == 0 {
		return errors.New("no pairs")
	}
	if l.Hints < 0 {
		return errors.New("hints must be >= 0")
	}
	if l.TimeLimit != nil && *l.TimeLimit <= 0 {
		return errors.New("time_limit must be positive or null")
	}

	rights := make(map[string]bool, len(l.Pairs))
	duties := make(map[string]bool, len(l.Pairs)+len(l.Distractors))
	for _, p := range l.Pairs {
		if p.Right.ID == "" || p.Duty.ID == "" {
			return errors.New("pair with empty id")
		}
		if rights[p.Right.ID] {
			return fmt.Errorf("right %q used twice", p.Right.ID)
		}
		if duties[p.Duty.ID] {
			return fmt.Errorf("duty %q used twice", p.Duty.ID)
		}
		rights[p.Right.ID] = true
		duties[p.Duty.ID] = true
	}
	for _, d := range l.Distractors {
		if d.ID == "" {
			return errors.New("distractor with empty id")
		}
		if duties[d.ID] {
			return fmt.Errorf("distractor %q collides with a duty id", d.ID)
		}
		duties[d.ID] = true
	}
	return nil
}
