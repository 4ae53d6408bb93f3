package battle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/ledger"
	"github.com/cory-johannsen/turnbattle/internal/storage/snapshot"
)

// Save writes the current battle to path. It never consumes a turn.
//
// Postcondition: the battle is unchanged; the result is also emitted as an
// EventSaved or EventPersistenceFailed.
func (s *Session) Save(path string) error {
	if err := s.save(path); err != nil {
		s.logger.Warn("save failed", zap.String("path", path), zap.Error(err))
		s.emit(Event{Kind: EventPersistenceFailed, Narrative: fmt.Sprintf("Could not save: %v", err)})
		return err
	}
	s.logger.Info("battle saved", zap.String("path", path), zap.Int("turn", s.turn))
	s.emit(Event{Kind: EventSaved, Narrative: fmt.Sprintf("Battle saved to %s.", path)})
	return nil
}

func (s *Session) save(path string) error {
	if s.deps.Persistence == nil {
		return ErrNoPersistence
	}
	if path == "" {
		return fmt.Errorf("no snapshot path given")
	}
	return s.deps.Persistence.Save(path, snapshot.Capture(s.turn, s.roster))
}

// Load replaces the roster slots and the turn counter with the snapshot at
// path. Hero pouches stay with their slots; relations, statuses and the
// undo history are cleared.
//
// Postcondition: on error nothing changed. The result is also emitted as
// an EventLoaded or EventPersistenceFailed.
func (s *Session) Load(ctx context.Context, path string) error {
	b, err := s.load(path)
	if err != nil {
		s.logger.Warn("load failed", zap.String("path", path), zap.Error(err))
		s.emit(Event{Kind: EventPersistenceFailed, Narrative: fmt.Sprintf("Could not load: %v", err)})
		return err
	}
	snapshot.Apply(b, s.roster)
	s.turn = max(1, b.Turn)
	s.ledger.Clear()
	s.logger.Info("battle loaded", zap.String("path", path), zap.Int("turn", s.turn))
	s.emit(Event{Kind: EventLoaded, Narrative: fmt.Sprintf("Battle loaded from %s (turn %d).", path, s.turn)})
	s.conclude(ctx)
	return nil
}

func (s *Session) load(path string) (snapshot.Battle, error) {
	if s.deps.Persistence == nil {
		return snapshot.Battle{}, ErrNoPersistence
	}
	if path == "" {
		return snapshot.Battle{}, fmt.Errorf("no snapshot path given")
	}
	b, err := s.deps.Persistence.Load(path)
	if err != nil {
		return snapshot.Battle{}, err
	}
	if err := b.Fits(len(s.roster.Heroes()), len(s.roster.Enemies())); err != nil {
		var pe *snapshot.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return snapshot.Battle{}, err
	}
	return b, nil
}

// Undo reverts the most recent recorded action. It never consumes a turn.
//
// Postcondition: returns false and changes nothing when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) bool {
	rec, ok := s.ledger.Undo()
	if !ok {
		s.emit(Event{Kind: EventFailure, Narrative: "Nothing to undo."})
		return false
	}
	if err := ledger.Revert(s.roster, rec); err != nil {
		s.logger.Error("undo failed", zap.Error(err))
	}
	s.emit(Event{Kind: EventUndo, Actor: rec.Actor.Name, Narrative: fmt.Sprintf("Undone: %s", rec.Description)})
	s.conclude(ctx)
	return true
}

// Redo replays the most recently undone action without re-rolling anything.
//
// Postcondition: returns false and changes nothing when there is nothing to redo.
func (s *Session) Redo(ctx context.Context) bool {
	rec, ok := s.ledger.Redo()
	if !ok {
		s.emit(Event{Kind: EventFailure, Narrative: "Nothing to redo."})
		return false
	}
	if err := ledger.Replay(s.roster, rec); err != nil {
		s.logger.Error("redo failed", zap.Error(err))
	}
	s.emit(Event{Kind: EventRedo, Actor: rec.Actor.Name, Narrative: fmt.Sprintf("Redone: %s", rec.Description)})
	s.conclude(ctx)
	return true
}
