package storage

import (
	"errors"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
)

var (
	// ErrNotFound is returned when no saved match exists to load.
	ErrNotFound = errors.New("no saved match")
	// ErrCorrupt is returned when a snapshot file exists but cannot be
	// parsed. Corrupt files fail the load, they are never silently
	// replaced with an empty state.
	ErrCorrupt = errors.New("snapshot file corrupt")
)

// MatchStorage durably stores match snapshots and reloads the most
// recent one. Save reports the file name the snapshot was written under.
type MatchStorage interface {
	Save(domain.MatchState) (string, error)
	LoadLatest() (domain.MatchState, error)
	ListMatches() ([]string, error)
}

// MatchArchive records finished matches for later browsing.
type MatchArchive interface {
	Record(domain.MatchState) error
	ListResults() ([]domain.Result, error)
}

// Info reports storage usage.
type Info struct {
	Matches    int
	TotalBytes int64
	Dir        string
}

// Inspector is implemented by storages that can report their disk
// usage. Optional, checked with a type assertion.
type Inspector interface {
	Info() (Info, error)
}
