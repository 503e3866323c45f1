// Package clock holds the time-control presets and charges think time to players.
package clock

import (
	"fmt"
	"sort"
	"time"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

type TimeControl struct {
	Name      string        `json:"name"`
	Initial   time.Duration `json:"initial"`
	Increment time.Duration `json:"increment"`
	// Async controls are correspondence games: no real-time enforcement.
	Async bool `json:"async"`
}

var presets = map[string]TimeControl{
	"bullet-1":     {Name: "bullet-1", Initial: time.Minute},
	"blitz-3":      {Name: "blitz-3", Initial: 3 * time.Minute, Increment: 2 * time.Second},
	"rapid-10":     {Name: "rapid-10", Initial: 10 * time.Minute},
	"classical-30": {Name: "classical-30", Initial: 30 * time.Minute},
	"daily":        {Name: "daily", Initial: 72 * time.Hour, Async: true},
}

func Lookup(name string) (TimeControl, error) {
	tc, ok := presets[name]
	if !ok {
		return TimeControl{}, fmt.Errorf("%w: %q", apperror.ErrUnknownTimeCtl, name)
	}

	return tc, nil
}

// Presets lists every time control, shortest first.
func Presets() []TimeControl {
	list := make([]TimeControl, 0, len(presets))
	for _, tc := range presets {
		list = append(list, tc)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Initial < list[j].Initial
	})

	return list
}

// Charge deducts the think time since the last move from the player to move.
// When the budget runs out the game is finished in the opponent's favour and true is returned.
func Charge(game *entity.Game, tc TimeControl, now time.Time) bool {
	if tc.Async {
		return false
	}

	slot := game.Slot(game.Turn)
	if slot == nil {
		return false
	}

	if slot.Spend(now.Sub(game.LastMoveAt)) {
		game.Finish(game.Turn.Opponent(), entity.EndReasonTimeout, now)

		return true
	}

	return false
}

// Credit adds the increment to the player who just moved and restarts the clock.
func Credit(game *entity.Game, tc TimeControl, mover *entity.PlayerSlot, now time.Time) {
	if !tc.Async && mover != nil {
		mover.TimeRemaining += tc.Increment
	}

	game.LastMoveAt = now
}

// Flagged reports whether the player to move has already run out of time, without touching the game.
func Flagged(game *entity.Game, tc TimeControl, now time.Time) bool {
	if tc.Async || !game.IsPlaying() {
		return false
	}

	slot := game.Slot(game.Turn)

	return slot != nil && slot.TimeRemaining-now.Sub(game.LastMoveAt) <= 0
}
