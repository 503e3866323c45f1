package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
)

func decode[T any](message *Message) (T, error) {
	var payload T

	if len(message.Payload) == 0 {
		return payload, fmt.Errorf("%w: payload is required", apperror.ErrInvalidState)
	}

	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: malformed payload", apperror.ErrInvalidState)
	}

	return payload, nil
}

func (that *Server) handleCreateGame(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	game, err := that.manager.CreateGame(ctx, sender.username, req.GameType, req.Private, req.TimeControl)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	sender.push(pushGameUpdate, gameUpdate{Game: game})

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	game, err := that.manager.JoinGame(ctx, req.GameID, sender.username)
	if err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}

	that.broadcast(game, gameUpdate{Game: game})

	return nil
}

func (that *Server) handleMove(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	game, outcome, err := that.manager.MakeMove(ctx, req.GameID, sender.username, req.Move)
	if err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.broadcast(game, gameUpdate{Game: game, Outcome: &outcome})

	return nil
}

func (that *Server) handleForfeit(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	game, err := that.manager.ForfeitGame(ctx, req.GameID, sender.username)
	if err != nil {
		return fmt.Errorf("failed to forfeit game: %w", err)
	}

	that.broadcast(game, gameUpdate{Game: game})

	return nil
}

func (that *Server) handleLeave(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	if err = that.manager.LeaveGame(ctx, req.GameID, sender.username); err != nil {
		return fmt.Errorf("failed to leave game: %w", err)
	}

	sender.push(actionGameLeave, gameRequest{GameID: req.GameID})

	return nil
}

func (that *Server) handleTimeout(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	game, err := that.manager.CheckTimeout(ctx, req.GameID)
	if err != nil {
		return fmt.Errorf("failed to check timeout: %w", err)
	}

	if game.IsFinished() {
		that.broadcast(game, gameUpdate{Game: game})
		return nil
	}

	sender.push(pushGameUpdate, gameUpdate{Game: game})

	return nil
}

func (that *Server) handleFindMatch(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[gameRequest](message)
	if err != nil {
		return err
	}

	outcome, err := that.manager.FindMatch(ctx, sender.username, req.GameType, req.TimeControl)
	if err != nil {
		return fmt.Errorf("failed to find match: %w", err)
	}

	if outcome.Ticket != nil {
		go that.watchTicket(that.lifetime, outcome.Ticket)
		sender.push(actionMatchFind, matchResponse{Queued: true})

		return nil
	}

	sender.push(pushMatchFound, matchResponse{Game: outcome.Game})

	return nil
}

func (that *Server) handleCancelMatch(_ context.Context, sender *client, message *Message) error {
	if err := that.manager.CancelMatchmaking(sender.username); err != nil {
		return err
	}

	sender.push(message.Action, matchResponse{})

	return nil
}

func (that *Server) handleSendChallenge(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[challengeRequest](message)
	if err != nil {
		return err
	}

	created, err := that.manager.ChallengePlayer(ctx, sender.username, req.Target, req.GameType, req.TimeControl)
	if err != nil {
		return fmt.Errorf("failed to send challenge: %w", err)
	}

	payload := challengeResponse{Challenge: created}
	sender.push(message.Action, payload)
	that.connections.push(created.Target, pushChallengeIncoming, payload)

	return nil
}

func (that *Server) handleAcceptChallenge(ctx context.Context, sender *client, message *Message) error {
	req, err := decode[challengeRequest](message)
	if err != nil {
		return err
	}

	game, err := that.manager.AcceptChallenge(ctx, req.ChallengeID, sender.username)
	if err != nil {
		return fmt.Errorf("failed to accept challenge: %w", err)
	}

	that.broadcast(game, gameUpdate{Game: game})

	return nil
}

func (that *Server) handleDeclineChallenge(_ context.Context, sender *client, message *Message) error {
	req, err := decode[challengeRequest](message)
	if err != nil {
		return err
	}

	declined, err := that.manager.DeclineChallenge(req.ChallengeID, sender.username)
	if err != nil {
		return fmt.Errorf("failed to decline challenge: %w", err)
	}

	payload := challengeResponse{Challenge: declined}
	sender.push(message.Action, payload)
	that.connections.push(declined.Challenger, message.Action, payload)

	return nil
}

func (that *Server) handleCancelChallenge(_ context.Context, sender *client, message *Message) error {
	req, err := decode[challengeRequest](message)
	if err != nil {
		return err
	}

	cancelled, err := that.manager.CancelChallenge(req.ChallengeID, sender.username)
	if err != nil {
		return fmt.Errorf("failed to cancel challenge: %w", err)
	}

	payload := challengeResponse{Challenge: cancelled}
	sender.push(message.Action, payload)
	that.connections.push(cancelled.Target, message.Action, payload)

	return nil
}
