package picker

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/what2pick/internal/platform/errors"
	"github.com/louisbranch/what2pick/internal/platform/id"
	"github.com/louisbranch/what2pick/internal/platform/storage/sqlspec"
)

// Service owns game persistence and serializes concurrent transitions.
// Every transition runs load, validate, mutate, persist under a
// per-game mutex, and notifies waiters exactly once after the write.
type Service struct {
	store *sqlspec.Store
	log   zerolog.Logger
	now   func() time.Time
	waits *WaitRegistry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService ensures the games table exists and returns the service.
func NewService(ctx context.Context, store *sqlspec.Store, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if err := store.EnsureTable(ctx, gameSchema); err != nil {
		return nil, err
	}
	return &Service{
		store: store,
		log:   logger,
		now:   time.Now,
		waits: NewWaitRegistry(DefaultAwaitTimeout),
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *Service) gameLock(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[gameID] = lock
	}
	return lock
}

// CreateGame starts a new game with creator as admin, sole player, and
// first player on turn.
func (s *Service) CreateGame(ctx context.Context, creator string) (*Game, error) {
	gameID, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate game id: %w", err)
	}

	game := newGame(gameID, creator)
	game.LastAccess = s.now().UTC()
	if err := s.store.Insert(ctx, game.syncRecord()); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}

	s.log.Info().Str("game_id", gameID).Str("admin", creator).Msg("game created")
	return game, nil
}

// GetGameByID loads a game without taking its lock.
func (s *Service) GetGameByID(ctx context.Context, gameID string) (*Game, error) {
	return s.load(ctx, gameID)
}

func (s *Service) load(ctx context.Context, gameID string) (*Game, error) {
	record, err := s.store.FindOne(ctx, gameSchema, map[string]any{"gameid": gameID})
	if err != nil {
		if stderrors.Is(err, sqlspec.ErrNotFound) {
			return nil, errors.New(errors.CodeGameNotFound, "game not found")
		}
		return nil, err
	}
	return fromRecord(record), nil
}

// JoinGame adds uid to the game, creating a fresh game when gameID does
// not exist. The second return reports whether the roster changed; a
// caller seeing a different game id knows the join was redirected.
func (s *Service) JoinGame(ctx context.Context, gameID, uid string) (*Game, bool, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.load(ctx, gameID)
	if err != nil {
		if stderrors.Is(err, errors.New(errors.CodeGameNotFound, "")) {
			created, cerr := s.CreateGame(ctx, uid)
			if cerr != nil {
				return nil, false, cerr
			}
			return created, false, nil
		}
		return nil, false, err
	}

	joined, derr := game.join(uid)
	if derr != nil {
		return nil, false, derr
	}
	if !joined {
		return game, false, nil
	}
	if err := s.commit(ctx, game); err != nil {
		return nil, false, err
	}
	return game, true, nil
}

// AddOption appends an option for the player on turn.
func (s *Service) AddOption(ctx context.Context, gameID, uid, text string) (*Game, error) {
	return s.transition(ctx, gameID, func(game *Game) *errors.Error {
		return game.addOption(uid, text)
	})
}

// RemoveOption deletes the option at index.
func (s *Service) RemoveOption(ctx context.Context, gameID, uid string, index int) (*Game, error) {
	return s.transition(ctx, gameID, func(game *Game) *errors.Error {
		return game.removeOption(uid, index)
	})
}

// Select decides the game on its single remaining option.
func (s *Service) Select(ctx context.Context, gameID, uid string) (*Game, error) {
	return s.transition(ctx, gameID, func(game *Game) *errors.Error {
		return game.selectFinal(uid)
	})
}

// SkipNext advances the turn on the admin's behalf.
func (s *Service) SkipNext(ctx context.Context, gameID, uid string) (*Game, error) {
	return s.transition(ctx, gameID, func(game *Game) *errors.Error {
		return game.skipNext(uid)
	})
}

// SetPlayerToWatcher moves target from the players to the watchers.
func (s *Service) SetPlayerToWatcher(ctx context.Context, gameID, adminUID, target string) (*Game, error) {
	return s.transition(ctx, gameID, func(game *Game) *errors.Error {
		return game.setPlayerToWatcher(adminUID, target)
	})
}

// ToggleKickOnLastRemove flips the kick-on-last-remove policy.
func (s *Service) ToggleKickOnLastRemove(ctx context.Context, gameID, uid string) (*Game, error) {
	return s.transition(ctx, gameID, func(game *Game) *errors.Error {
		return game.toggleKickOnLastRemove(uid)
	})
}

// AwaitChange blocks until the game changes or the poll window closes.
func (s *Service) AwaitChange(ctx context.Context, gameID string) (bool, error) {
	return s.waits.AwaitChange(ctx, gameID)
}

func (s *Service) transition(ctx context.Context, gameID string, apply func(*Game) *errors.Error) (*Game, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if derr := apply(game); derr != nil {
		return nil, derr
	}
	if err := s.commit(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// commit stamps last access, persists the diff, and notifies waiters.
// Notification happens only after a successful write so pollers never
// observe state older than the change that woke them.
func (s *Service) commit(ctx context.Context, game *Game) error {
	game.LastAccess = s.now().UTC()
	if err := s.store.Update(ctx, game.syncRecord()); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	s.waits.NotifyChange(game.ID, game.Decided)
	return nil
}
