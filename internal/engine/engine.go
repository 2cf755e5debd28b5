// Package engine implements the tennis scoring rules as pure functions
// over domain.MatchState. It performs no I/O and keeps no state of its
// own; every operation returns a fresh snapshot.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
)

// New creates the baseline state for a fresh match. Home serves first.
func New(rules domain.Rules, homeName, awayName string) domain.MatchState {
	return domain.MatchState{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		HomeName:  homeName,
		AwayName:  awayName,
		Rules:     rules,
		Server:    domain.Home,
		Status:    domain.InProgress,
	}
}

// ApplyPoint scores a rally for the given side and returns the next
// state. Points on a completed match are ignored: same state back,
// nothing appended to history.
func ApplyPoint(st domain.MatchState, side domain.Side) domain.MatchState {
	if st.Status == domain.Completed {
		return st
	}
	next := st.Clone()
	next.History = append(next.History, domain.Event{
		Type: domain.EventPoint,
		Side: &side,
		At:   time.Now(),
	})
	if next.InTiebreak {
		scoreTiebreakPoint(&next, side)
	} else {
		scoreGamePoint(&next, side)
	}
	return next
}

// SwapServer toggles the serving side. Used to correct server tracking,
// valid any time before the match completes.
func SwapServer(st domain.MatchState) domain.MatchState {
	next := st.Clone()
	next.Server = next.Server.Other()
	next.History = append(next.History, domain.Event{
		Type: domain.EventSwapServer,
		At:   time.Now(),
	})
	return next
}

// Reset returns the match to its baseline: identity, names and rules
// survive, every counter is zeroed and Home serves again.
func Reset(st domain.MatchState) domain.MatchState {
	next := New(st.Rules, st.HomeName, st.AwayName)
	next.ID = st.ID
	next.StartedAt = st.StartedAt
	next.History = append(next.History, domain.Event{
		Type: domain.EventReset,
		At:   time.Now(),
	})
	return next
}

func scoreGamePoint(st *domain.MatchState, side domain.Side) {
	mine, theirs := scores(st, side)
	switch {
	case *mine == domain.Advantage:
		winGame(st, side)
	case *mine == domain.Forty && *theirs == domain.Advantage:
		// Back to deuce.
		*theirs = domain.Forty
	case *mine == domain.Forty && *theirs == domain.Forty:
		*mine = domain.Advantage
	case *mine == domain.Forty:
		winGame(st, side)
	default:
		*mine++
	}
}

func scoreTiebreakPoint(st *domain.MatchState, side domain.Side) {
	mine, theirs := tiebreakPoints(st, side)
	*mine++
	if *mine >= 7 && *mine-*theirs >= 2 {
		st.InTiebreak = false
		st.HomeTiebreak, st.AwayTiebreak = 0, 0
		// The tiebreak decides the set but still rotates the serve
		// like any other completed game.
		winSet(st, side)
		rotateServer(st)
	}
}

func winGame(st *domain.MatchState, side domain.Side) {
	mine, theirs := gameCounts(st, side)
	*mine++
	st.HomeScore, st.AwayScore = domain.Love, domain.Love
	switch {
	case *mine >= 6 && *mine-*theirs >= 2:
		winSet(st, side)
	case st.Rules.Tiebreak && st.HomeGames == 6 && st.AwayGames == 6:
		st.InTiebreak = true
		st.HomeTiebreak, st.AwayTiebreak = 0, 0
	}
	rotateServer(st)
}

func winSet(st *domain.MatchState, side domain.Side) {
	mine := &st.HomeSets
	if side == domain.Away {
		mine = &st.AwaySets
	}
	*mine++
	st.HomeGames, st.AwayGames = 0, 0
	if *mine >= st.Rules.SetsToWin {
		st.Status = domain.Completed
		winner := side
		st.Winner = &winner
	}
}

// rotateServer flips the serve after a completed game, except after the
// match's final point.
func rotateServer(st *domain.MatchState) {
	if st.Status == domain.Completed {
		return
	}
	st.Server = st.Server.Other()
}

func scores(st *domain.MatchState, side domain.Side) (mine, theirs *domain.Point) {
	if side == domain.Home {
		return &st.HomeScore, &st.AwayScore
	}
	return &st.AwayScore, &st.HomeScore
}

func gameCounts(st *domain.MatchState, side domain.Side) (mine, theirs *int) {
	if side == domain.Home {
		return &st.HomeGames, &st.AwayGames
	}
	return &st.AwayGames, &st.HomeGames
}

func tiebreakPoints(st *domain.MatchState, side domain.Side) (mine, theirs *int) {
	if side == domain.Home {
		return &st.HomeTiebreak, &st.AwayTiebreak
	}
	return &st.AwayTiebreak, &st.HomeTiebreak
}
