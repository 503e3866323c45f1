package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

// Client actions.
const (
	actionGameCreate       = "game:create"
	actionGameJoin         = "game:join"
	actionGameMove         = "game:move"
	actionGameForfeit      = "game:forfeit"
	actionGameLeave        = "game:leave"
	actionGameTimeout      = "game:timeout"
	actionMatchFind        = "match:find"
	actionMatchCancel      = "match:cancel"
	actionChallengeSend    = "challenge:send"
	actionChallengeAccept  = "challenge:accept"
	actionChallengeDecline = "challenge:decline"
	actionChallengeCancel  = "challenge:cancel"
)

// Server pushes.
const (
	pushGameUpdate        = "game:update"
	pushMatchFound        = "match:found"
	pushMatchExpired      = "match:expired"
	pushChallengeIncoming = "challenge:incoming"
	pushChallengeExpired  = "challenge:expired"
	pushError             = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type gameRequest struct {
	GameID      string             `json:"game_id"`
	GameType    entity.GameType    `json:"game_type"`
	TimeControl string             `json:"time_control"`
	Private     bool               `json:"private"`
	Move        entity.MovePayload `json:"move"`
}

type challengeRequest struct {
	ChallengeID string          `json:"challenge_id"`
	Target      string          `json:"target"`
	GameType    entity.GameType `json:"game_type"`
	TimeControl string          `json:"time_control"`
}

type gameUpdate struct {
	Game    *entity.Game        `json:"game"`
	Outcome *entity.MoveOutcome `json:"outcome,omitempty"`
}

type matchResponse struct {
	Queued bool         `json:"queued"`
	Game   *entity.Game `json:"game,omitempty"`
}

type challengeResponse struct {
	Challenge entity.Challenge `json:"challenge"`
}

type errorPayload struct {
	Action  string `json:"action,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
