// Package fsjson stores match snapshots as JSON files, one file per
// match, named YYYY-MM-DD-N.json with N a per-day sequence number.
// A "latest" pointer file always names the most recently saved match.
//
// Writes are two-phase: the full snapshot goes to a temp file in the
// same directory, is fsynced, then renamed over the target. The pointer
// is rewritten the same way. A crash at any moment leaves either the
// previous complete snapshot or the new one, never a torn file.
package fsjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
	"github.com/rsiwady29/tennis-scoreboard/internal/storage"
)

const (
	latestName = "latest"
	tmpPrefix  = ".tmp-"
)

type Storage struct {
	dir   string
	log   *logrus.Entry
	names map[uuid.UUID]string
}

var (
	_ storage.MatchStorage = (*Storage)(nil)
	_ storage.Inspector    = (*Storage)(nil)
)

type envelope struct {
	MatchID uuid.UUID         `json:"match_id"`
	SavedAt time.Time         `json:"saved_at"`
	Data    domain.MatchState `json:"data"`
}

func New(l *logrus.Logger, dir string) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "match-storage",
	})
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create match dir: %w", err)
	}
	s := &Storage{
		dir:   dir,
		log:   log,
		names: make(map[uuid.UUID]string),
	}
	if err := s.scan(); err != nil {
		return nil, err
	}
	log.WithField("dir", dir).Info("match storage ready")
	return s, nil
}

// scan rebuilds the match-id to file-name index from existing files, so
// a resumed match keeps writing to its original file.
func (s *Storage) scan() error {
	files, err := s.matchFiles()
	if err != nil {
		return err
	}
	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.MatchID == uuid.Nil {
			s.log.WithField("file", name).Warn("skipping unreadable snapshot")
			continue
		}
		s.names[env.MatchID] = name
	}
	return nil
}

func (s *Storage) Save(st domain.MatchState) (string, error) {
	name, err := s.fileNameFor(st)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(envelope{
		MatchID: st.ID,
		SavedAt: time.Now(),
		Data:    st,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.writeAtomic(name, data); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := s.writeAtomic(latestName, []byte(name+"\n")); err != nil {
		return "", fmt.Errorf("update latest pointer: %w", err)
	}
	s.names[st.ID] = name
	return name, nil
}

func (s *Storage) LoadLatest() (domain.MatchState, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, latestName))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.MatchState{}, storage.ErrNotFound
		}
		return domain.MatchState{}, fmt.Errorf("read latest pointer: %w", err)
	}
	name := strings.TrimSpace(string(raw))
	if name == "" {
		return domain.MatchState{}, storage.ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.MatchState{}, fmt.Errorf("%w: latest points to missing file %s", storage.ErrNotFound, name)
		}
		return domain.MatchState{}, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.MatchState{}, fmt.Errorf("%w: %s: %v", storage.ErrCorrupt, name, err)
	}
	if env.Data.ID == uuid.Nil {
		return domain.MatchState{}, fmt.Errorf("%w: %s: missing match id", storage.ErrCorrupt, name)
	}
	return env.Data, nil
}

func (s *Storage) ListMatches() ([]string, error) {
	return s.matchFiles()
}

func (s *Storage) matchFiles() ([]string, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read match dir: %w", err)
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// fileNameFor returns the existing file for a match, or allocates the
// next free YYYY-MM-DD-N.json for the match's start date.
func (s *Storage) fileNameFor(st domain.MatchState) (string, error) {
	if name, ok := s.names[st.ID]; ok {
		return name, nil
	}
	day := st.StartedAt.Format("2006-01-02")
	files, err := s.matchFiles()
	if err != nil {
		return "", err
	}
	max := 0
	for _, name := range files {
		rest, ok := strings.CutPrefix(name, day+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(rest, ".json"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%d.json", day, max+1), nil
}

func (s *Storage) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, tmpPrefix+"*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return err
	}
	return syncDir(s.dir)
}

// syncDir makes the rename itself durable against power loss.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// Info reports storage usage, mirroring what the on-device status screen
// shows.
func (s *Storage) Info() (storage.Info, error) {
	files, err := s.matchFiles()
	if err != nil {
		return storage.Info{}, err
	}
	info := storage.Info{Matches: len(files), Dir: s.dir}
	for _, name := range files {
		fi, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		info.TotalBytes += fi.Size()
	}
	return info, nil
}
