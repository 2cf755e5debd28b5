package domain

import (
	"time"

	"github.com/google/uuid"
)

// Result is a finished match as kept in the archive.
type Result struct {
	ID         uuid.UUID
	HomeName   string
	AwayName   string
	HomeSets   int
	AwaySets   int
	Winner     Side
	StartedAt  time.Time
	FinishedAt time.Time
}
