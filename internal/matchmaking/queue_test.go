package matchmaking

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/clock"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

var (
	rapid = clock.TimeControl{Name: "rapid-10", Initial: 10 * time.Minute}
	blitz = clock.TimeControl{Name: "blitz-3", Initial: 3 * time.Minute}
	daily = clock.TimeControl{Name: "daily", Initial: 72 * time.Hour, Async: true}
)

func newQueue(opts Options) *Queue {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewQueue(logger, opts, time.Now)
}

func longLived() Options {
	return Options{LiveTimeout: time.Hour, AsyncTimeout: time.Hour}
}

func TestQueue_Find(t *testing.T) {
	t.Run("First player waits, second is matched with the first", func(t *testing.T) {
		// Given: alice is queued for rapid-10
		queue := newQueue(longLived())
		matched, ticket, err := queue.Find("alice", entity.GameNested, rapid)
		require.NoError(t, err)
		require.Nil(t, matched)
		require.NotNil(t, ticket)

		// When: bob looks for the same game
		matched, own, err := queue.Find("bob", entity.GameNested, rapid)

		// Then: bob is handed alice's entry and the queue is empty
		require.NoError(t, err)
		assert.Nil(t, own)
		require.NotNil(t, matched)
		assert.Equal(t, "alice", matched.Username)
		assert.Same(t, ticket, matched.Ticket)
		assert.Zero(t, queue.Len())
	})

	t.Run("Different game types never match", func(t *testing.T) {
		queue := newQueue(longLived())
		_, _, err := queue.Find("alice", entity.GameNested, rapid)
		require.NoError(t, err)

		matched, ticket, err := queue.Find("bob", entity.GameClassic, rapid)

		require.NoError(t, err)
		assert.Nil(t, matched)
		assert.NotNil(t, ticket)
		assert.Equal(t, 2, queue.Len())
	})

	t.Run("Matching is FIFO within a bucket", func(t *testing.T) {
		queue := newQueue(longLived())
		_, _, err := queue.Find("alice", entity.GameClassic, blitz)
		require.NoError(t, err)
		_, _, err = queue.Find("bob", entity.GameClassic, blitz)
		require.NoError(t, err)

		matched, _, err := queue.Find("carol", entity.GameClassic, blitz)

		require.NoError(t, err)
		assert.Equal(t, "alice", matched.Username)
		assert.True(t, queue.Queued("bob"))
	})

	t.Run("A username is rejected while queued in any bucket", func(t *testing.T) {
		// Given: alice waits in the daily bucket
		queue := newQueue(longLived())
		_, _, err := queue.Find("alice", entity.GameClassic, daily)
		require.NoError(t, err)

		// When: alice also tries the blitz bucket
		_, _, err = queue.Find("alice", entity.GameNested, blitz)

		// Then: alice is reported as already queued
		require.ErrorIs(t, err, apperror.ErrAlreadyQueued)
		assert.Equal(t, 1, queue.Len())
	})
}

func TestQueue_Exclusivity(t *testing.T) {
	// Given: one queue and many concurrent requests for the same user
	queue := newQueue(longLived())
	controls := []clock.TimeControl{rapid, blitz, daily}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(tc clock.TimeControl) {
			defer wg.Done()
			_, _, _ = queue.Find("alice", entity.GameClassic, tc)
		}(controls[i%len(controls)])
	}
	wg.Wait()

	// Then: alice holds exactly one entry
	assert.Equal(t, 1, queue.Len())
}

func TestQueue_Cancel(t *testing.T) {
	t.Run("Cancel removes the entry and fails the ticket", func(t *testing.T) {
		queue := newQueue(longLived())
		_, ticket, err := queue.Find("alice", entity.GameClassic, rapid)
		require.NoError(t, err)

		require.NoError(t, queue.Cancel("alice"))

		_, err = ticket.Wait(context.Background())
		require.ErrorIs(t, err, ErrCancelled)
		assert.False(t, queue.Queued("alice"))
	})

	t.Run("Second cancel fails cleanly", func(t *testing.T) {
		queue := newQueue(longLived())
		_, _, err := queue.Find("alice", entity.GameClassic, rapid)
		require.NoError(t, err)
		require.NoError(t, queue.Cancel("alice"))

		err = queue.Cancel("alice")

		require.ErrorIs(t, err, apperror.ErrNotQueued)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestQueue_Expiry(t *testing.T) {
	t.Run("Unmatched entry expires after the live timeout", func(t *testing.T) {
		// Given: a queue with a very short live timeout
		queue := newQueue(Options{LiveTimeout: 20 * time.Millisecond, AsyncTimeout: time.Hour})
		_, ticket, err := queue.Find("alice", entity.GameClassic, rapid)
		require.NoError(t, err)

		// When: nobody joins
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err = ticket.Wait(ctx)

		// Then: the ticket reports the expiry and the entry is gone
		require.ErrorIs(t, err, apperror.ErrExpired)
		assert.False(t, queue.Queued("alice"))
	})

	t.Run("Async buckets use the async timeout", func(t *testing.T) {
		queue := newQueue(Options{LiveTimeout: 10 * time.Millisecond, AsyncTimeout: time.Hour})
		_, _, err := queue.Find("alice", entity.GameClassic, daily)
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)

		assert.True(t, queue.Queued("alice"))
	})

	t.Run("Matched entry never expires afterwards", func(t *testing.T) {
		queue := newQueue(Options{LiveTimeout: 20 * time.Millisecond, AsyncTimeout: time.Hour})
		_, ticket, err := queue.Find("alice", entity.GameClassic, rapid)
		require.NoError(t, err)

		matched, _, err := queue.Find("bob", entity.GameClassic, rapid)
		require.NoError(t, err)
		game := &entity.Game{ID: "g1"}
		matched.Ticket.Resolve(game)

		time.Sleep(50 * time.Millisecond)

		got, err := ticket.Wait(context.Background())
		require.NoError(t, err)
		assert.Same(t, game, got)
	})
}

func TestTicket_Wait_ContextDone(t *testing.T) {
	ticket := newTicket("alice")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ticket.Wait(ctx)

	require.ErrorIs(t, err, context.Canceled)
}
