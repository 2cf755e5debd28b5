package domain

// CommandType tags one input from the device feed.
type CommandType string

const (
	CmdPointWon   CommandType = "point_won"
	CmdSwapServer CommandType = "swap_server"
	CmdResetMatch CommandType = "reset_match"
	CmdNewMatch   CommandType = "new_match"
	CmdLoadLatest CommandType = "load_latest"
)

// Command is a single already-debounced input event. Side is only
// meaningful for CmdPointWon.
type Command struct {
	Type CommandType `json:"type"`
	Side Side        `json:"side"`
}
