package entity

import "time"

// PlayerSlot is one seat of a game. TimeRemaining never goes below zero.
type PlayerSlot struct {
	Username      string        `json:"username"`
	Connected     bool          `json:"connected"`
	TimeRemaining time.Duration `json:"time_remaining"`
}

func NewPlayerSlot(username string, budget time.Duration) *PlayerSlot {
	return &PlayerSlot{
		Username:      username,
		Connected:     true,
		TimeRemaining: budget,
	}
}

// Spend deducts elapsed and reports whether the budget ran out.
func (that *PlayerSlot) Spend(elapsed time.Duration) bool {
	if elapsed < 0 {
		elapsed = 0
	}

	that.TimeRemaining -= elapsed
	if that.TimeRemaining <= 0 {
		that.TimeRemaining = 0

		return true
	}

	return false
}
