package web

import (
	"errors"
	"fmt"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
)

type scoreResponse struct {
	MatchID   string `json:"matchId"`
	HomeName  string `json:"homeName"`
	AwayName  string `json:"awayName"`
	Sets      string `json:"sets"`
	Games     string `json:"games"`
	Points    string `json:"points"`
	Server    string `json:"server"`
	Status    string `json:"status"`
	Winner    string `json:"winner,omitempty"`
	Durable   bool   `json:"durable"`
	SavedAs   string `json:"savedAs,omitempty"`
	StartedAt string `json:"startedAt"`
}

func convertSnapshot(snap domain.Snapshot) scoreResponse {
	st := snap.State
	resp := scoreResponse{
		MatchID:   st.ID.String(),
		HomeName:  st.HomeName,
		AwayName:  st.AwayName,
		Sets:      formatPair(st.HomeSets, st.AwaySets),
		Games:     formatPair(st.HomeGames, st.AwayGames),
		Points:    st.PointsDisplay(),
		Server:    st.Server.String(),
		Status:    st.Status.String(),
		Durable:   snap.Durable,
		SavedAs:   snap.SavedAs,
		StartedAt: st.StartedAt.Format("2006-01-02 15:04:05"),
	}
	if st.Winner != nil {
		resp.Winner = st.Winner.String()
	}
	return resp
}

func formatPair(a, b int) string {
	return fmt.Sprintf("%d - %d", a, b)
}

type postEvent struct {
	Type string `json:"type"`
	Side string `json:"side"`
}

var ErrUnknownEvent = errors.New("unknown event type")
var ErrMissingSide = errors.New("point events need a side")

func (e postEvent) convertToCommand() (domain.Command, error) {
	switch domain.CommandType(e.Type) {
	case domain.CmdPointWon:
		var side domain.Side
		if err := side.UnmarshalText([]byte(e.Side)); err != nil {
			return domain.Command{}, ErrMissingSide
		}
		return domain.Command{Type: domain.CmdPointWon, Side: side}, nil
	case domain.CmdSwapServer, domain.CmdResetMatch, domain.CmdNewMatch, domain.CmdLoadLatest:
		return domain.Command{Type: domain.CommandType(e.Type)}, nil
	default:
		return domain.Command{}, ErrUnknownEvent
	}
}
