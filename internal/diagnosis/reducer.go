package diagnosis

import (
	"fmt"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

// DefaultBattleRounds is the tournament length when config leaves it unset.
const DefaultBattleRounds = 5

// Engine is the session state machine. Reduce is a pure function of
// (state, action); persistence and events live in Service.
type Engine struct {
	rounds int
	ranker *scoring.Ranker
}

// NewEngine creates an Engine running tournaments of the given length.
func NewEngine(rounds int, ranker *scoring.Ranker) *Engine {
	if rounds <= 0 {
		rounds = DefaultBattleRounds
	}
	return &Engine{rounds: rounds, ranker: ranker}
}

// Rounds returns the number of battles in a tournament.
func (e *Engine) Rounds() int { return e.rounds }

// Ranker returns the final ranking calculator.
func (e *Engine) Ranker() *scoring.Ranker { return e.ranker }

// Reduce applies a to s and returns the next state. s is never modified.
// Rejected transitions return s unchanged together with a *TransitionError.
// Unknown actions are ignored.
func (e *Engine) Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case AnswerQuestion:
		next := s.Clone()
		next.CurrentQuestionIndex++
		next.SurveyScores = scoring.AccumulateOne(s.SurveyScores, act.ScoreKey, act.ScoreValue)
		return next, nil

	case AnswerMulti:
		next := s.Clone()
		next.CurrentQuestionIndex++
		next.SurveyScores = scoring.Accumulate(s.SurveyScores, act.Scores)
		return next, nil

	case AnswerKoreanLevel:
		if !act.Level.Valid() {
			return s, reject(act.Type(), fmt.Errorf("%w: %q", ErrInvalidKoreanLevel, act.Level))
		}
		next := s.Clone()
		next.CurrentQuestionIndex++
		next.KoreanLevel = act.Level
		return next, nil

	case SetKoreanLevel:
		if !act.Level.Valid() {
			return s, reject(act.Type(), fmt.Errorf("%w: %q", ErrInvalidKoreanLevel, act.Level))
		}
		next := s.Clone()
		next.KoreanLevel = act.Level
		return next, nil

	case SetPreferJPSupport:
		next := s.Clone()
		next.PreferJapaneseSupport = act.Value
		return next, nil

	case SetCandidates:
		if err := checkPool(act.Candidates); err != nil {
			return s, reject(act.Type(), err)
		}
		next := s.Clone()
		next.Candidates = scoring.CloneCandidates(act.Candidates)
		for i := range next.Candidates {
			next.Candidates[i].WinCount = 0
		}
		next.BattleRecords = nil
		next.CurrentBattleRound = 0
		next.FinalRanking = nil
		return next, nil

	case RecordBattle:
		return e.recordBattle(s, act)

	case SetFinalRanking:
		if s.CurrentBattleRound < e.rounds {
			return s, reject(act.Type(), ErrTournamentIncomplete)
		}
		if !isPermutation(act.Ranking, s.Candidates) {
			return s, reject(act.Type(), ErrInvalidRanking)
		}
		next := s.Clone()
		next.FinalRanking = scoring.CloneCandidates(act.Ranking)
		return next, nil

	case Reset:
		return InitialState(), nil

	default:
		return s, nil
	}
}

func (e *Engine) recordBattle(s State, act RecordBattle) (State, error) {
	if len(s.Candidates) == 0 {
		return s, reject(act.Type(), ErrNoCandidates)
	}
	if s.CurrentBattleRound >= e.rounds {
		return s, reject(act.Type(), ErrTournamentComplete)
	}

	round := s.CurrentBattleRound + 1
	pool, record, err := ApplyBattle(s.Candidates, round, act.MemberAID, act.MemberBID, act.WinnerID)
	if err != nil {
		return s, reject(act.Type(), err)
	}

	next := s.Clone()
	next.Candidates = pool
	next.BattleRecords = append(next.BattleRecords, record)
	next.CurrentBattleRound = round
	if round == e.rounds {
		next.FinalRanking = e.ranker.Rank(pool, next.BattleRecords, s.KoreanLevel, s.PreferJapaneseSupport)
	}
	return next, nil
}

// Stage reports where s sits in the survey → battle → result flow.
func (e *Engine) Stage(s State) Stage {
	switch {
	case s.CurrentBattleRound >= e.rounds:
		return StageComplete
	case len(s.Candidates) > 0:
		return StageBattling
	default:
		return StageSurvey
	}
}

// Progress reports survey and battle progress. totalQuestions comes from the
// question catalog.
func (e *Engine) Progress(s State, totalQuestions int) Progress {
	return Progress{
		Stage:          e.Stage(s),
		Survey:         Step{Current: s.CurrentQuestionIndex, Total: totalQuestions},
		Battle:         Step{Current: s.CurrentBattleRound, Total: e.rounds},
		SurveyComplete: s.CurrentQuestionIndex >= totalQuestions,
		BattleComplete: s.CurrentBattleRound >= e.rounds,
	}
}

func checkPool(pool []scoring.Candidate) error {
	seen := make(map[string]bool, len(pool))
	for _, c := range pool {
		if c.ID == "" {
			return fmt.Errorf("%w: empty id", ErrUnknownCandidate)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateCandidate, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// isPermutation reports whether ranking holds exactly the ids of pool.
func isPermutation(ranking, pool []scoring.Candidate) bool {
	if len(ranking) != len(pool) {
		return false
	}
	want := make(map[string]int, len(pool))
	for _, c := range pool {
		want[c.ID]++
	}
	for _, c := range ranking {
		if want[c.ID] == 0 {
			return false
		}
		want[c.ID]--
	}
	return true
}
