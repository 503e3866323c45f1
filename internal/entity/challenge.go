package entity

import "time"

const (
	ChallengePending  = "pending"
	ChallengeAccepted = "accepted"
	ChallengeDeclined = "declined"
	ChallengeExpired  = "expired"
)

type Challenge struct {
	ID          string    `json:"id"`
	Challenger  string    `json:"challenger"`
	Target      string    `json:"target"`
	GameType    GameType  `json:"game_type"`
	TimeControl string    `json:"time_control"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (that *Challenge) IsPending() bool {
	return that.Status == ChallengePending
}
