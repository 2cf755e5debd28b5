// Package service owns the live match. It is the single writer: all
// commands pass through one ordered queue, every accepted transition is
// persisted before the next command is taken, and subscribers get a
// fresh snapshot after each commit.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
	"github.com/rsiwady29/tennis-scoreboard/internal/engine"
	"github.com/rsiwady29/tennis-scoreboard/internal/storage"
)

const (
	queueSize    = 16
	saveAttempts = 3
	saveBackoff  = 100 * time.Millisecond
)

// Subscriber receives the full state after every committed transition.
type Subscriber interface {
	Update(domain.Snapshot)
}

type MatchService struct {
	matchStorage storage.MatchStorage
	archive      storage.MatchArchive
	log          *logrus.Entry

	rules    domain.Rules
	homeName string
	awayName string

	cmds chan domain.Command
	subs []Subscriber

	mu      sync.RWMutex
	current domain.MatchState
	durable bool
	savedAs string
}

func New(
	l *logrus.Logger,
	matchStorage storage.MatchStorage,
	archive storage.MatchArchive,
	rules domain.Rules,
	homeName, awayName string,
) *MatchService {
	return &MatchService{
		matchStorage: matchStorage,
		archive:      archive,
		log: l.WithFields(map[string]interface{}{
			"from": "match-service",
		}),
		rules:    rules,
		homeName: homeName,
		awayName: awayName,
		cmds:     make(chan domain.Command, queueSize),
		current:  engine.New(rules, homeName, awayName),
		durable:  true,
	}
}

// Attach registers a subscriber. Subscribers are notified in attach
// order; a failing subscriber never blocks scoring.
func (s *MatchService) Attach(sub Subscriber) {
	s.subs = append(s.subs, sub)
}

// Detach removes a previously attached subscriber. Unknown subscribers
// are ignored.
func (s *MatchService) Detach(sub Subscriber) {
	for i, registered := range s.subs {
		if registered == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Dispatch queues a command for in-order processing by Run.
func (s *MatchService) Dispatch(cmd domain.Command) {
	s.cmds <- cmd
}

// Run processes commands until the context is cancelled. Commands are
// applied strictly in arrival order; the durable write for command N
// finishes (or is reported failed) before command N+1 is touched.
func (s *MatchService) Run(ctx context.Context) {
	s.notify()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.cmds:
			s.Handle(cmd)
		}
	}
}

// Handle applies one command. Exposed for tests and for callers that
// want synchronous errors; Run is the only goroutine calling it in
// production.
func (s *MatchService) Handle(cmd domain.Command) {
	switch cmd.Type {
	case domain.CmdPointWon:
		if s.current.Status == domain.Completed {
			// The input stream is untrusted: late presses after
			// match point are expected, not an error.
			s.log.WithField("side", cmd.Side.String()).Debug("point after match completion ignored")
			return
		}
		s.commit(engine.ApplyPoint(s.current, cmd.Side))
	case domain.CmdSwapServer:
		if s.current.Status == domain.Completed {
			s.log.Debug("server swap after match completion ignored")
			return
		}
		s.commit(engine.SwapServer(s.current))
	case domain.CmdResetMatch:
		s.commit(engine.Reset(s.current))
	case domain.CmdNewMatch:
		s.commit(engine.New(s.rules, s.homeName, s.awayName))
	case domain.CmdLoadLatest:
		if err := s.LoadLatest(); err != nil {
			s.log.WithError(err).Warn("load latest failed")
		}
	default:
		s.log.WithField("command", string(cmd.Type)).Warn("unknown command ignored")
	}
}

// LoadLatest replaces the live state with the most recently persisted
// snapshot. storage.ErrNotFound is returned as-is when there is nothing
// to resume.
func (s *MatchService) LoadLatest() error {
	st, err := s.matchStorage.LoadLatest()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = st
	s.durable = true
	s.savedAs = ""
	s.mu.Unlock()
	s.log.WithField("match", st.ID.String()).Info("match resumed")
	s.notify()
	return nil
}

// commit persists the transition, then pushes it to subscribers. A save
// failure after retries keeps the in-memory state and flags the
// snapshot as non-durable instead of rolling back.
func (s *MatchService) commit(next domain.MatchState) {
	name, err := s.saveWithRetry(next)
	if err != nil {
		s.log.WithError(err).Error("snapshot not persisted, scoring continues without durability")
	}
	s.mu.Lock()
	s.current = next
	s.durable = err == nil
	if err == nil {
		s.savedAs = name
	}
	s.mu.Unlock()
	if next.Status == domain.Completed {
		s.recordResult(next)
	}
	s.notify()
}

func (s *MatchService) saveWithRetry(st domain.MatchState) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		name, err := s.matchStorage.Save(st)
		if err == nil {
			return name, nil
		}
		lastErr = err
		s.log.WithError(err).WithField("attempt", attempt).Warn("snapshot save failed")
		if attempt < saveAttempts {
			time.Sleep(time.Duration(attempt) * saveBackoff)
		}
	}
	return "", lastErr
}

func (s *MatchService) recordResult(st domain.MatchState) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Record(st); err != nil {
		s.log.WithError(err).Error("archiving finished match failed")
	}
}

func (s *MatchService) notify() {
	s.mu.RLock()
	snap := domain.Snapshot{
		State:   s.current.Clone(),
		Durable: s.durable,
		SavedAs: s.savedAs,
	}
	s.mu.RUnlock()
	for _, sub := range s.subs {
		s.push(sub, snap)
	}
}

func (s *MatchService) push(sub Subscriber, snap domain.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("subscriber update failed")
		}
	}()
	sub.Update(snap)
}

// Current returns a copy of the live state.
func (s *MatchService) Current() domain.MatchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// ListMatches returns the identifiers of all persisted matches.
func (s *MatchService) ListMatches() ([]string, error) {
	return s.matchStorage.ListMatches()
}

// ListResults returns finished matches from the archive, newest first.
func (s *MatchService) ListResults() ([]domain.Result, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.ListResults()
}

// StorageInfo reports disk usage when the storage supports it.
func (s *MatchService) StorageInfo() (storage.Info, error) {
	insp, ok := s.matchStorage.(storage.Inspector)
	if !ok {
		return storage.Info{}, errors.New("storage does not report usage")
	}
	return insp.Info()
}

// ErrQueueFull is kept for callers that need non-blocking dispatch.
var ErrQueueFull = errors.New("command queue full")

// TryDispatch queues a command without blocking.
func (s *MatchService) TryDispatch(cmd domain.Command) error {
	select {
	case s.cmds <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}
