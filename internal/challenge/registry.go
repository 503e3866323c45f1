// Package challenge keeps direct player-to-player invitations in memory until they are
// accepted, declined, cancelled or expire.
package challenge

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/clock"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

type Options struct {
	LiveTTL  time.Duration
	AsyncTTL time.Duration
}

type pending struct {
	challenge entity.Challenge
	timer     *time.Timer
}

type Registry struct {
	logger *slog.Logger
	opts   Options
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*pending
	expired chan entity.Challenge
}

func NewRegistry(logger *slog.Logger, opts Options, now func() time.Time) *Registry {
	return &Registry{
		logger:  logger.With("component", "challenge"),
		opts:    opts,
		now:     now,
		entries: make(map[string]*pending),
		expired: make(chan entity.Challenge, 64),
	}
}

// Expirations delivers challenges whose timer fired. Sends never block; a full channel drops the event.
func (that *Registry) Expirations() <-chan entity.Challenge {
	return that.expired
}

// Create registers a pending challenge. Presence and user existence are the caller's concern.
func (that *Registry) Create(challenger, target string, gameType entity.GameType, tc clock.TimeControl) (entity.Challenge, error) {
	if challenger == target {
		return entity.Challenge{}, fmt.Errorf("%w: %s", apperror.ErrSelfTarget, challenger)
	}

	ttl := that.opts.LiveTTL
	if tc.Async {
		ttl = that.opts.AsyncTTL
	}

	now := that.now()
	challenge := entity.Challenge{
		ID:          uuid.NewString(),
		Challenger:  challenger,
		Target:      target,
		GameType:    gameType,
		TimeControl: tc.Name,
		Status:      entity.ChallengePending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	entry := &pending{challenge: challenge}
	entry.timer = time.AfterFunc(ttl, func() {
		that.expire(challenge.ID)
	})
	that.entries[challenge.ID] = entry

	return challenge, nil
}

func (that *Registry) Get(id string) (entity.Challenge, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.entries[id]
	if !ok {
		return entity.Challenge{}, apperror.ErrChallengeNotFound
	}

	return entry.challenge, nil
}

// Accept resolves the challenge for its target. The challenge is removed.
func (that *Registry) Accept(id, username string) (entity.Challenge, error) {
	return that.resolve(id, username, entity.ChallengeAccepted, func(c entity.Challenge) string { return c.Target })
}

func (that *Registry) Decline(id, username string) (entity.Challenge, error) {
	return that.resolve(id, username, entity.ChallengeDeclined, func(c entity.Challenge) string { return c.Target })
}

// Cancel withdraws a challenge; only the challenger may do it.
func (that *Registry) Cancel(id, username string) (entity.Challenge, error) {
	return that.resolve(id, username, entity.ChallengeDeclined, func(c entity.Challenge) string { return c.Challenger })
}

// Restore puts back an accepted challenge whose game could not be created, so the target can retry.
// The original expiry still applies.
func (that *Registry) Restore(challenge entity.Challenge) {
	challenge.Status = entity.ChallengePending

	ttl := challenge.ExpiresAt.Sub(that.now())
	if ttl < 0 {
		ttl = 0
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.entries[challenge.ID]; ok {
		return
	}

	entry := &pending{challenge: challenge}
	entry.timer = time.AfterFunc(ttl, func() {
		that.expire(challenge.ID)
	})
	that.entries[challenge.ID] = entry
}

// Pending lists challenges sent or received by username, oldest first.
func (that *Registry) Pending(username string) []entity.Challenge {
	that.mu.Lock()
	defer that.mu.Unlock()

	var list []entity.Challenge
	for _, entry := range that.entries {
		if entry.challenge.Challenger == username || entry.challenge.Target == username {
			list = append(list, entry.challenge)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list
}

func (that *Registry) resolve(id, username, status string, owner func(entity.Challenge) string) (entity.Challenge, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.entries[id]
	if !ok {
		return entity.Challenge{}, fmt.Errorf("%w: %s", apperror.ErrChallengeNotFound, id)
	}

	if owner(entry.challenge) != username {
		return entity.Challenge{}, fmt.Errorf("%w: %s", apperror.ErrNotParticipant, username)
	}

	if !entry.challenge.IsPending() {
		return entity.Challenge{}, fmt.Errorf("%w: challenge is %s", apperror.ErrInvalidState, entry.challenge.Status)
	}

	entry.timer.Stop()
	entry.challenge.Status = status
	delete(that.entries, id)

	return entry.challenge, nil
}

// expire is a no-op when the challenge was already resolved.
func (that *Registry) expire(id string) {
	that.mu.Lock()
	entry, ok := that.entries[id]
	if ok && entry.challenge.IsPending() {
		entry.challenge.Status = entity.ChallengeExpired
		delete(that.entries, id)
	}
	that.mu.Unlock()

	if !ok || entry.challenge.Status != entity.ChallengeExpired {
		return
	}

	that.logger.Info("challenge expired", "id", id, "challenger", entry.challenge.Challenger)

	select {
	case that.expired <- entry.challenge:
	default:
		that.logger.Warn("expiration dropped", "id", id)
	}
}
