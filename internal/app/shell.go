package app

import (
	"context"
	"log"
	"sync"

	"rights-arcade/internal/domain"
)

// Shell tracks which mode each profile has mounted. It only routes: the game
// rules live in the engine and the side effects in GameService.
type Shell struct {
	games    *GameService
	progress *ProgressStore

	mu      sync.Mutex
	mounted map[string]string // profile -> session ID
}

// NewShell wires itself as the completion hook of games.
func NewShell(games *GameService, progress *ProgressStore) *Shell {
	s := &Shell{
		games:    games,
		progress: progress,
		mounted:  make(map[string]string),
	}
	games.OnComplete(s.OnModeComplete)
	return s
}

// Modes lists the game selector entries.
func (s *Shell) Modes() []domain.ModeSpec {
	return s.games.Modes()
}

// Select unmounts whatever profile is playing and mounts a fresh session of mode.
func (s *Shell) Select(ctx context.Context, profile string, mode domain.ModeID) (SessionView, error) {
	if _, err := s.games.Mode(mode); err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.mounted[profile]; ok {
		s.games.End(ctx, id)
		delete(s.mounted, profile)
	}
	view, err := s.games.Start(ctx, profile, mode)
	if err != nil {
		return SessionView{}, err
	}
	s.mounted[profile] = view.ID
	return view, nil
}

// Mounted returns the session profile is playing.
func (s *Shell) Mounted(ctx context.Context, profile string) (SessionView, error) {
	s.mu.Lock()
	id, ok := s.mounted[profile]
	s.mu.Unlock()
	if !ok {
		return SessionView{}, domain.ErrNoMountedMode
	}
	return s.games.Snapshot(ctx, id)
}

// Close unmounts profile's mode, discarding its session.
func (s *Shell) Close(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.mounted[profile]
	if !ok {
		return domain.ErrNoMountedMode
	}
	delete(s.mounted, profile)
	s.games.End(ctx, id)
	return nil
}

// CloseSession unmounts only if sessionID is still the mounted one.
func (s *Shell) CloseSession(ctx context.Context, profile, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted[profile] == sessionID {
		delete(s.mounted, profile)
	}
	s.games.End(ctx, sessionID)
}

// OnModeComplete relays a finished game into the progress store.
func (s *Shell) OnModeComplete(ctx context.Context, profile string, mode domain.ModeID, score, currency int) {
	if _, err := s.progress.RecordModeCompletion(ctx, profile, mode, score, currency); err != nil {
		log.Printf("record completion of %s for %s failed: %v", mode, profile, err)
	}
}
