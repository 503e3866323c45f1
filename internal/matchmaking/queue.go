// Package matchmaking pairs anonymous players waiting for the same game type and time control.
package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/clock"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

var (
	ErrQueueExpired = fmt.Errorf("matchmaking %w", apperror.ErrExpired)
	ErrCancelled    = errors.New("matchmaking cancelled")
)

// matchResult is delivered to a waiting player exactly once.
type matchResult struct {
	Game *entity.Game
	Err  error
}

// Ticket is what a waiting player holds until it is matched, expires or is cancelled.
type Ticket struct {
	Username string

	c    chan matchResult
	once sync.Once
}

func newTicket(username string) *Ticket {
	return &Ticket{Username: username, c: make(chan matchResult, 1)}
}

// Wait blocks until the ticket resolves or ctx is done.
func (that *Ticket) Wait(ctx context.Context) (*entity.Game, error) {
	select {
	case result := <-that.c:
		return result.Game, result.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (that *Ticket) Resolve(game *entity.Game) {
	that.deliver(matchResult{Game: game})
}

func (that *Ticket) Fail(err error) {
	that.deliver(matchResult{Err: err})
}

func (that *Ticket) deliver(result matchResult) {
	that.once.Do(func() {
		that.c <- result
	})
}

// Entry is a player waiting in a bucket.
type Entry struct {
	Username    string
	GameType    entity.GameType
	TimeControl string
	EnqueuedAt  time.Time
	Ticket      *Ticket

	timer *time.Timer
}

type Options struct {
	LiveTimeout  time.Duration
	AsyncTimeout time.Duration
}

// Queue keeps one FIFO bucket per time control. One mutex guards all buckets so a
// username can never sit in two of them.
type Queue struct {
	logger *slog.Logger
	opts   Options
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string][]*Entry
}

func NewQueue(logger *slog.Logger, opts Options, now func() time.Time) *Queue {
	return &Queue{
		logger:  logger.With("component", "matchmaking"),
		opts:    opts,
		now:     now,
		buckets: make(map[string][]*Entry),
	}
}

// Find either removes and returns the first compatible waiting entry, or queues username
// and returns its ticket. Exactly one of the two results is non-nil on success.
func (that *Queue) Find(username string, gameType entity.GameType, tc clock.TimeControl) (*Entry, *Ticket, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.locate(username) != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrAlreadyQueued, username)
	}

	bucket := that.buckets[tc.Name]
	for i, waiting := range bucket {
		if waiting.GameType != gameType || waiting.Username == username {
			continue
		}

		that.buckets[tc.Name] = append(bucket[:i:i], bucket[i+1:]...)
		waiting.timer.Stop()

		that.logger.Debug("matched", "waiting", waiting.Username, "joining", username, "time_control", tc.Name)

		return waiting, nil, nil
	}

	entry := &Entry{
		Username:    username,
		GameType:    gameType,
		TimeControl: tc.Name,
		EnqueuedAt:  that.now(),
		Ticket:      newTicket(username),
	}

	timeout := that.opts.LiveTimeout
	if tc.Async {
		timeout = that.opts.AsyncTimeout
	}

	entry.timer = time.AfterFunc(timeout, func() {
		that.expire(entry)
	})

	that.buckets[tc.Name] = append(bucket, entry)

	return nil, entry.Ticket, nil
}

// Cancel removes username from whichever bucket holds it.
func (that *Queue) Cancel(username string) error {
	that.mu.Lock()
	entry := that.locate(username)
	if entry != nil {
		that.remove(entry)
	}
	that.mu.Unlock()

	if entry == nil {
		return fmt.Errorf("%w: %s", apperror.ErrNotQueued, username)
	}

	entry.timer.Stop()
	entry.Ticket.Fail(ErrCancelled)

	return nil
}

func (that *Queue) Queued(username string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.locate(username) != nil
}

// Len counts waiting entries across all buckets.
func (that *Queue) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	count := 0
	for _, bucket := range that.buckets {
		count += len(bucket)
	}

	return count
}

// expire is a no-op when the entry was already matched or cancelled.
func (that *Queue) expire(entry *Entry) {
	that.mu.Lock()
	removed := that.remove(entry)
	that.mu.Unlock()

	if !removed {
		return
	}

	that.logger.Info("queue entry expired", "username", entry.Username, "time_control", entry.TimeControl)
	entry.Ticket.Fail(ErrQueueExpired)
}

func (that *Queue) locate(username string) *Entry {
	for _, bucket := range that.buckets {
		for _, entry := range bucket {
			if entry.Username == username {
				return entry
			}
		}
	}

	return nil
}

func (that *Queue) remove(entry *Entry) bool {
	bucket := that.buckets[entry.TimeControl]
	for i, candidate := range bucket {
		if candidate == entry {
			that.buckets[entry.TimeControl] = append(bucket[:i:i], bucket[i+1:]...)

			return true
		}
	}

	return false
}
