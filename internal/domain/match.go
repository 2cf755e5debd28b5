package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Side identifies one of the two players on the board.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Away {
		return "away"
	}
	return "home"
}

func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Point is the score within a game. Advantage is reachable only from deuce.
type Point int

const (
	Love Point = iota
	Fifteen
	Thirty
	Forty
	Advantage
)

var pointNames = [...]string{"0", "15", "30", "40", "Ad"}

func (p Point) String() string {
	if p < Love || p > Advantage {
		return "?"
	}
	return pointNames[p]
}

type Status int

const (
	InProgress Status = iota
	Completed
)

func (st Status) String() string {
	if st == Completed {
		return "completed"
	}
	return "in_progress"
}

type EventType string

const (
	EventPoint      EventType = "point"
	EventSwapServer EventType = "swap_server"
	EventReset      EventType = "reset"
)

// Event is one applied input, kept in match history in arrival order.
type Event struct {
	Type EventType `json:"type"`
	Side *Side     `json:"side,omitempty"`
	At   time.Time `json:"at"`
}

// Rules is the scoring configuration frozen into a match at creation.
type Rules struct {
	SetsToWin int  `json:"setsToWin"`
	Tiebreak  bool `json:"tiebreak"`
}

// MatchState is the complete snapshot of a match at one instant.
type MatchState struct {
	ID        uuid.UUID `json:"matchId"`
	StartedAt time.Time `json:"startedAt"`
	HomeName  string    `json:"homeName"`
	AwayName  string    `json:"awayName"`

	Rules Rules `json:"rules"`

	HomeScore Point `json:"homeScore"`
	AwayScore Point `json:"awayScore"`
	HomeGames int   `json:"homeGames"`
	AwayGames int   `json:"awayGames"`
	HomeSets  int   `json:"homeSets"`
	AwaySets  int   `json:"awaySets"`

	InTiebreak   bool `json:"inTiebreak"`
	HomeTiebreak int  `json:"homeTiebreak"`
	AwayTiebreak int  `json:"awayTiebreak"`

	Server Side   `json:"server"`
	Status Status `json:"matchStatus"`
	Winner *Side  `json:"winner,omitempty"`

	History []Event `json:"history"`
}

// Clone returns a deep copy, so a handed-out snapshot can never alias
// the live state's history.
func (m MatchState) Clone() MatchState {
	out := m
	if m.Winner != nil {
		w := *m.Winner
		out.Winner = &w
	}
	out.History = make([]Event, len(m.History))
	copy(out.History, m.History)
	return out
}

// PointsDisplay formats the in-game score the traditional way:
// "15 - 40", "40 - 40", "Ad - 40", or the tiebreak tally.
func (m MatchState) PointsDisplay() string {
	if m.InTiebreak {
		return fmt.Sprintf("Tiebreak: %d - %d", m.HomeTiebreak, m.AwayTiebreak)
	}
	return m.HomeScore.String() + " - " + m.AwayScore.String()
}

// ScoreLine is a one-line summary used by the console log and the bot.
func (m MatchState) ScoreLine() string {
	return fmt.Sprintf("sets %d-%d, games %d-%d, %s, serving: %s",
		m.HomeSets, m.AwaySets,
		m.HomeGames, m.AwayGames,
		m.PointsDisplay(),
		m.Server)
}

// Snapshot is what observers receive after every transition. Durable is
// false while the system is in degraded-durability mode (the last save
// failed after retries).
type Snapshot struct {
	State   MatchState
	Durable bool
	SavedAs string
}
