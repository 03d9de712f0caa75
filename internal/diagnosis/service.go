package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Oshichecker/internal/hermes"
	"github.com/MikeSquared-Agency/Oshichecker/internal/metrics"
)

// Persister stores one snapshot per slot. Load returns nil, nil for an empty slot.
type Persister interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	Clear(ctx context.Context, slot string) error
}

// Service runs sessions: it restores a session's snapshot, reduces the action,
// overwrites the snapshot with the result and publishes lifecycle events.
// Persistence and publishing failures are logged and never fail a transition.
type Service struct {
	engine *Engine
	store  Persister
	hermes hermes.Client
	logger *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock serialises transitions of one session. refs counts holders and
// waiters so the entry can be dropped once nobody needs it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewService wires an engine to a snapshot store. h may be nil.
func NewService(e *Engine, p Persister, h hermes.Client, logger *slog.Logger) *Service {
	return &Service{
		engine: e,
		store:  p,
		hermes: h,
		logger: logger,
		locks:  make(map[string]*sessionLock),
	}
}

// Engine returns the underlying state machine.
func (s *Service) Engine() *Engine { return s.engine }

// Start opens a new session and persists its initial state.
func (s *Service) Start(ctx context.Context) (string, State) {
	id := uuid.New().String()
	state := InitialState()
	s.save(ctx, id, state)
	s.publish(ctx, hermes.SessionStartedEvent{
		SessionID: id,
		StartedAt: time.Now().UTC(),
	})
	s.logger.Info("session started", "session_id", id)
	return id, state
}

// Exists reports whether the session was started and has not expired. A reset
// session still exists even though its snapshot is gone.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	for _, slot := range []string{SlotKey(id), ResetKey(id)} {
		data, err := s.store.Load(ctx, slot)
		if err != nil {
			return false, err
		}
		if data != nil {
			return true, nil
		}
	}
	return false, nil
}

// State returns the session's current state, falling back to the initial
// state when the snapshot is missing or unreadable.
func (s *Service) State(ctx context.Context, id string) State {
	return s.load(ctx, id)
}

// Dispatch applies one action to a session. Validation failures come back as
// *TransitionError together with the unchanged state.
func (s *Service) Dispatch(ctx context.Context, id string, a Action) (State, error) {
	return s.DispatchWith(ctx, id, func(State) (Action, error) { return a, nil })
}

// DispatchWith builds the action from the session's current state and applies
// it, all under the session lock. An error from build is returned as is with
// the unchanged state.
func (s *Service) DispatchWith(ctx context.Context, id string, build func(State) (Action, error)) (State, error) {
	unlock := s.lock(id)
	defer unlock()

	current := s.load(ctx, id)
	a, err := build(current)
	if err != nil {
		return current, err
	}
	return s.apply(ctx, id, current, a)
}

func (s *Service) apply(ctx context.Context, id string, current State, a Action) (State, error) {
	name := actionName(a)
	next, err := s.engine.Reduce(current, a)
	if err != nil {
		metrics.Transitions.WithLabelValues(name, "rejected").Inc()
		s.logger.Info("transition rejected", "session_id", id, "action", name, "error", err)
		return current, err
	}

	switch act := a.(type) {
	case nil, Unknown:
		metrics.Transitions.WithLabelValues(name, "ignored").Inc()
		s.logger.Debug("ignoring unknown action", "session_id", id, "action", name)
		return current, nil

	case Reset:
		s.reset(ctx, id)
		s.publish(ctx, hermes.DiagnosisResetEvent{SessionID: id})
		metrics.Transitions.WithLabelValues(name, "applied").Inc()
		return next, nil

	case RecordBattle:
		record := next.BattleRecords[len(next.BattleRecords)-1]
		metrics.BattlesRecorded.Inc()
		s.publish(ctx, hermes.BattleRecordedEvent{
			SessionID: id,
			Round:     record.Round,
			MemberA:   act.MemberAID,
			MemberB:   act.MemberBID,
			WinnerID:  act.WinnerID,
		})
		if next.CurrentBattleRound == s.engine.Rounds() {
			s.completed(ctx, id, next)
		}
	}

	s.save(ctx, id, next)
	metrics.Transitions.WithLabelValues(name, "applied").Inc()
	return next, nil
}

func (s *Service) completed(ctx context.Context, id string, st State) {
	metrics.RankingsComputed.Inc()
	placements := s.engine.Ranker().Explain(st.Candidates, st.BattleRecords, st.KoreanLevel, st.PreferJapaneseSupport)
	if len(placements) > 0 {
		metrics.TopComposite.Observe(placements[0].Composite)
	}

	ranked := make([]string, len(st.FinalRanking))
	for i, c := range st.FinalRanking {
		ranked[i] = c.ID
	}
	s.publish(ctx, hermes.DiagnosisCompletedEvent{
		SessionID:   id,
		RankedIDs:   ranked,
		KoreanLevel: string(st.KoreanLevel),
		PreferJP:    st.PreferJapaneseSupport,
	})
	s.logger.Info("diagnosis complete", "session_id", id, "ranked", ranked)
}

func (s *Service) load(ctx context.Context, id string) State {
	data, err := s.store.Load(ctx, SlotKey(id))
	if err != nil {
		metrics.SnapshotErrors.WithLabelValues("load").Inc()
		s.logger.Warn("failed to load session snapshot", "session_id", id, "error", err)
		return InitialState()
	}
	state, err := s.engine.Restore(data)
	if err != nil {
		metrics.SnapshotErrors.WithLabelValues("load").Inc()
		s.logger.Warn("discarding unreadable session snapshot", "session_id", id, "error", err)
	}
	return state
}

func (s *Service) save(ctx context.Context, id string, st State) {
	data, err := EncodeSnapshot(st)
	if err == nil {
		err = s.store.Save(ctx, SlotKey(id), data)
	}
	if err != nil {
		metrics.SnapshotErrors.WithLabelValues("save").Inc()
		s.logger.Warn("failed to save session snapshot, continuing in memory", "session_id", id, "error", err)
	}
}

// reset clears the snapshot slot and, for a session that existed, leaves a
// reset marker behind so the session stays addressable.
func (s *Service) reset(ctx context.Context, id string) {
	existed, err := s.Exists(ctx, id)
	if err != nil {
		s.logger.Warn("failed to check session before reset", "session_id", id, "error", err)
	}
	if err := s.store.Clear(ctx, SlotKey(id)); err != nil {
		metrics.SnapshotErrors.WithLabelValues("clear").Inc()
		s.logger.Warn("failed to clear session snapshot", "session_id", id, "error", err)
	}
	if !existed {
		return
	}
	marker, _ := json.Marshal(resetMarker{ResetAt: time.Now().UTC()})
	if err := s.store.Save(ctx, ResetKey(id), marker); err != nil {
		metrics.SnapshotErrors.WithLabelValues("save").Inc()
		s.logger.Warn("failed to mark session reset", "session_id", id, "error", err)
	}
}

type resetMarker struct {
	ResetAt time.Time `json:"resetAt"`
}

func (s *Service) publish(ctx context.Context, e hermes.Event) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "subject", e.Subject(), "error", err)
	}
}

func (s *Service) lock(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

func actionName(a Action) string {
	if a == nil {
		return "nil"
	}
	return string(a.Type())
}

// IsValidation reports whether err is a rejected transition.
func IsValidation(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
