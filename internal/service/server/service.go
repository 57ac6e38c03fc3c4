package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/encoding/protojson"

	api "github.com/oshokin/game-controller/internal/api/grpc/controller"
	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/domain/game"
	"github.com/oshokin/game-controller/internal/logger"
	"github.com/oshokin/game-controller/internal/repository/journal"
	repo "github.com/oshokin/game-controller/internal/repository/state"
	"github.com/oshokin/game-controller/internal/telemetry"
)

// ClockActor is the actor recorded for actions triggered by timer expiries.
const ClockActor = "clock"

// errRosterMismatch is returned when a snapshot was taken with another team size.
var errRosterMismatch = errors.New("snapshot roster does not match players per team")

// Observer is notified with a fresh view after every change. It is called
// while the game is locked and must not block or call back into the service.
type Observer func(view action.View)

// service is the single writer of the match. Every action and timer tick is
// serialized on one action context. It is unexported to keep the transport
// decoupled from the implementation.
type service struct {
	// repo persists game snapshots.
	repo repo.Repository
	// journal records every apply attempt. It may be nil.
	journal journal.Recorder
	// tracer opens a span per apply.
	tracer trace.Tracer
	// now returns the current time.
	now func() time.Time

	// mu protects everything below.
	mu sync.RWMutex
	// ctx is the live action context.
	ctx *action.Context
	// candidates are the actions whose legality is published.
	candidates []action.Action
	// observers receive views after changes.
	observers []Observer
	// chargedAt is the instant up to which the timers have been advanced.
	chargedAt time.Time
}

// serviceOption customizes a service.
type serviceOption func(*service)

// withJournal sets the journal recorder.
func withJournal(recorder journal.Recorder) serviceOption {
	return func(s *service) {
		s.journal = recorder
	}
}

// withTracer sets the tracer used for apply spans.
func withTracer(tracer trace.Tracer) serviceOption {
	return func(s *service) {
		s.tracer = tracer
	}
}

// withClock overrides time.Now.
func withClock(now func() time.Time) serviceOption {
	return func(s *service) {
		s.now = now
	}
}

// newService creates a service for a match played with params, resuming the
// snapshot stored in repository when there is one.
func newService(
	ctx context.Context,
	params *game.Params,
	repository repo.Repository,
	opts ...serviceOption,
) (*service, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("validate params: %w", err)
	}

	s := &service{
		repo:       repository,
		tracer:     telemetry.Tracer(nil),
		now:        time.Now,
		ctx:        &action.Context{Game: game.NewGame(params), Params: params},
		candidates: action.Candidates(params),
	}

	for _, opt := range opts {
		opt(s)
	}

	if repository == nil {
		return s, nil
	}

	snapshot, err := repository.Load(ctx)
	switch {
	case err == nil:
		if snapshot != nil && snapshot.Game != nil {
			for _, side := range game.Sides {
				if players := len(snapshot.Game.Teams[side].Players); players != params.PlayersPerTeam {
					return nil, fmt.Errorf("load state: %s has %d players, want %d: %w",
						side, players, params.PlayersPerTeam, errRosterMismatch)
				}
			}

			s.ctx.Game = snapshot.Game
			logger.InfoKV(ctx, "Game resumed from snapshot",
				"state", snapshot.Game.State, "is_paused", snapshot.Game.IsPaused, "saved_at", snapshot.SavedAt)
		}
	case errors.Is(err, repo.ErrNotFound):
		// Keep the fresh game.
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	return s, nil
}

// Subscribe registers an observer. It is meant to be called before serving.
func (s *service) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, observer)
}

// ApplyAction checks a against the live game and executes it when legal, then
// persists, journals and publishes the result. A rejected action or a failed
// save leaves the game as it was.
func (s *service) ApplyAction(ctx context.Context, actor string, a action.Action) (action.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advanceLocked(ctx, s.now())

	if err := s.applyLocked(ctx, actor, a); err != nil {
		return action.View{}, err
	}

	return action.NewView(s.ctx, s.candidates), nil
}

// View returns a copy of the game with the legality of every candidate action.
func (s *service) View(_ context.Context) action.View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return action.NewView(s.ctx, s.candidates)
}

// Journal returns the most recent journal entries.
func (s *service) Journal(ctx context.Context, limit int) ([]journal.Entry, error) {
	if s.journal == nil {
		return nil, api.ErrJournalDisabled
	}

	entries, err := s.journal.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	return entries, nil
}

// Advance charges the timers with the time elapsed since they were last
// charged, up to now. Paused time is never charged.
func (s *service) Advance(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advanceLocked(ctx, now)
}

// Tick advances the timers by dt and applies the follow-up action of every
// expiry. Nothing moves while the game is paused.
func (s *service) Tick(ctx context.Context, dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickLocked(ctx, dt)
}

// advanceLocked moves chargedAt to now, ticking by the difference. Calling it
// before every referee action splits a tick interval exactly at pause and
// resume.
func (s *service) advanceLocked(ctx context.Context, now time.Time) {
	if s.chargedAt.IsZero() {
		s.chargedAt = now

		return
	}

	if !now.After(s.chargedAt) {
		return
	}

	dt := now.Sub(s.chargedAt)
	s.chargedAt = now

	s.tickLocked(ctx, dt)
}

func (s *service) tickLocked(ctx context.Context, dt time.Duration) {
	if s.ctx.Game.IsPaused || dt <= 0 || !anyTimerRunning(s.ctx.Game) {
		return
	}

	applied := false

	for _, expiry := range game.Seek(s.ctx.Game, dt) {
		followUp := followUpAction(expiry)
		if followUp == nil {
			logger.InfoKV(ctx, "Penalty expired", "side", expiry.Side, "player", expiry.Player)

			continue
		}

		logger.DebugKV(ctx, "Timer expired", "expiry", expiry.Kind, "follow_up", followUp.Type())

		if err := s.applyLocked(ctx, ClockActor, followUp); err != nil {
			logger.WarnKV(ctx, "Timer follow-up not applied", "expiry", expiry.Kind, "type", followUp.Type(), "error", err)

			continue
		}

		applied = true
	}

	// Every applied follow-up has already published the latest view.
	if !applied {
		s.notifyLocked()
	}
}

// Flush saves the current game.
func (s *service) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saveLocked(ctx)
}

// applyLocked runs the apply-protocol. The caller holds the write lock.
func (s *service) applyLocked(ctx context.Context, actor string, a action.Action) error {
	typ := actionType(a)

	ctx, span := s.tracer.Start(ctx, "apply "+typ, trace.WithAttributes(
		telemetry.AttrActionType.String(typ),
		telemetry.AttrActor.String(actor),
	))

	previous := s.ctx.Game.Clone()

	err := action.Apply(s.ctx, a)
	if err == nil {
		if err = s.saveLocked(ctx); err != nil {
			s.ctx.Game = previous
			err = fmt.Errorf("persist game: %w", err)
		}
	}

	s.record(ctx, actor, a, err)

	telemetry.End(span, err,
		telemetry.AttrGameState.String(string(s.ctx.Game.State)),
		telemetry.AttrIsPaused.Bool(s.ctx.Game.IsPaused),
	)

	if err != nil {
		if errors.Is(err, action.ErrIllegalAction) {
			logger.WarnKV(ctx, "Action rejected", "type", typ, "actor", actor, "state", s.ctx.Game.State)
		} else {
			logger.ErrorKV(ctx, "Action failed", "type", typ, "actor", actor, "error", err)
		}

		return err
	}

	logger.InfoKV(ctx, "Action applied", "type", typ, "actor", actor,
		"state", s.ctx.Game.State, "is_paused", s.ctx.Game.IsPaused)

	s.notifyLocked()

	return nil
}

func (s *service) saveLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	return s.repo.Save(ctx, &repo.Snapshot{Game: s.ctx.Game.Clone(), SavedAt: s.now()})
}

// record journals an apply attempt. Journal failures are logged only.
func (s *service) record(ctx context.Context, actor string, a action.Action, err error) {
	if s.journal == nil {
		return
	}

	entry := journal.Entry{
		At:        s.now(),
		Actor:     actor,
		Type:      actionType(a),
		Accepted:  err == nil,
		GameState: string(s.ctx.Game.State),
	}

	if a != nil {
		payload, marshalErr := protojson.Marshal(codec.EncodeAction(a))
		if marshalErr == nil {
			entry.Payload = string(payload)
		}
	}

	if err != nil {
		entry.Reason = err.Error()
	}

	if _, appendErr := s.journal.Append(ctx, entry); appendErr != nil {
		logger.ErrorKV(ctx, "Failed to journal action", "type", entry.Type, "error", appendErr)
	}
}

func (s *service) notifyLocked() {
	if len(s.observers) == 0 {
		return
	}

	view := action.NewView(s.ctx, s.candidates)

	for _, observer := range s.observers {
		observer(view)
	}
}

func anyTimerRunning(g *game.Game) bool {
	if g.PrimaryTimer.Running || g.SecondaryTimer.Running {
		return true
	}

	for _, team := range g.Teams {
		for _, player := range team.Players {
			if player.PenaltyTimer.Running {
				return true
			}
		}
	}

	return false
}

// followUpAction maps a timer expiry to the action it triggers, or nil.
func followUpAction(expiry game.Expiry) action.Action {
	switch expiry.Kind {
	case game.ExpiryReady:
		return action.WaitForSet{}
	case game.ExpiryHalf:
		return action.FinishHalf{}
	case game.ExpiryTimeout:
		return action.WaitForReady{}
	default:
		return nil
	}
}

func actionType(a action.Action) string {
	if a == nil {
		return "none"
	}

	return string(a.Type())
}
