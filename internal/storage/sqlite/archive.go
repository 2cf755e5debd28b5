// Package sqlite keeps the archive of finished matches. The live match
// itself is persisted by fsjson; this database only records results for
// browsing once a match completes.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
	sqlite3 "github.com/rsiwady29/tennis-scoreboard/internal/migrate"
	"github.com/rsiwady29/tennis-scoreboard/internal/storage"
)

type Archive struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.MatchArchive = (*Archive)(nil)

func New(l *logrus.Logger, fileName string) (*Archive, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "match-archive",
	})
	db, err := sql.Open("sqlite3", buildSource(fileName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlite3.UpArchiveDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("match archive connected")
	return &Archive{
		db:  db,
		log: log,
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}

func (a *Archive) Record(st domain.MatchState) error {
	if st.Status != domain.Completed || st.Winner == nil {
		return fmt.Errorf("match %s is not finished", st.ID)
	}
	_, err := a.db.Exec(`
		INSERT INTO matches (id, home_name, away_name, home_sets, away_sets, winner, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO NOTHING`,
		st.ID.String(), st.HomeName, st.AwayName,
		st.HomeSets, st.AwaySets, st.Winner.String(), st.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("record match %s: %w", st.ID, err)
	}
	return nil
}

func (a *Archive) ListResults() ([]domain.Result, error) {
	rows, err := a.db.Query(`
		SELECT id, home_name, away_name, home_sets, away_sets, winner, started_at, finished_at
		FROM matches
		ORDER BY finished_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var (
			r      domain.Result
			idStr  string
			winner string
		)
		err := rows.Scan(&idStr, &r.HomeName, &r.AwayName, &r.HomeSets, &r.AwaySets, &winner, &r.StartedAt, &r.FinishedAt)
		if err != nil {
			return nil, err
		}
		r.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		if err := r.Winner.UnmarshalText([]byte(winner)); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (a *Archive) Close() error {
	return a.db.Close()
}
