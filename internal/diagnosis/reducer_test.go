package diagnosis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

func newTestEngine() *Engine {
	return NewEngine(5, scoring.NewRanker(scoring.DefaultRankingWeights()))
}

func mustReduce(t *testing.T, e *Engine, s State, a Action) State {
	t.Helper()
	next, err := e.Reduce(s, a)
	require.NoError(t, err)
	return next
}

func candidateIDs(cs []scoring.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Equal(t, 0, s.CurrentQuestionIndex)
	assert.Empty(t, s.SurveyScores)
	assert.Equal(t, scoring.KoreanNone, s.KoreanLevel)
	assert.False(t, s.PreferJapaneseSupport)
	assert.Empty(t, s.Candidates)
	assert.Empty(t, s.BattleRecords)
	assert.Zero(t, s.CurrentBattleRound)
	assert.Empty(t, s.FinalRanking)
}

func TestAnswerActionsAccumulate(t *testing.T) {
	e := newTestEngine()
	s := InitialState()

	s = mustReduce(t, e, s, AnswerQuestion{ScoreKey: "cute", ScoreValue: 1})
	s = mustReduce(t, e, s, AnswerMulti{Scores: map[string]float64{"cute": 2, "artist_a": 1}})
	s = mustReduce(t, e, s, AnswerQuestion{ScoreKey: "artist_a", ScoreValue: -3})
	s = mustReduce(t, e, s, AnswerMulti{})

	assert.Equal(t, 4, s.CurrentQuestionIndex)
	assert.Equal(t, map[string]float64{"cute": 3, "artist_a": -2}, s.SurveyScores)
}

func TestAnswerDoesNotMutatePreviousState(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), AnswerQuestion{ScoreKey: "cute", ScoreValue: 1})
	_ = mustReduce(t, e, s, AnswerQuestion{ScoreKey: "cute", ScoreValue: 5})

	assert.Equal(t, 1.0, s.SurveyScores["cute"])
	assert.Equal(t, 1, s.CurrentQuestionIndex)
}

func TestKoreanLevelActions(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), AnswerKoreanLevel{Level: scoring.KoreanBeginner})
	assert.Equal(t, scoring.KoreanBeginner, s.KoreanLevel)
	assert.Equal(t, 1, s.CurrentQuestionIndex)

	s = mustReduce(t, e, s, SetKoreanLevel{Level: scoring.KoreanFluent})
	assert.Equal(t, scoring.KoreanFluent, s.KoreanLevel)
	assert.Equal(t, 1, s.CurrentQuestionIndex, "SET_KOREAN_LEVEL does not advance the cursor")

	_, err := e.Reduce(s, SetKoreanLevel{Level: "native"})
	assert.ErrorIs(t, err, ErrInvalidKoreanLevel)
	_, err = e.Reduce(s, AnswerKoreanLevel{Level: ""})
	assert.ErrorIs(t, err, ErrInvalidKoreanLevel)
}

func TestSetPreferJPSupport(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), SetPreferJPSupport{Value: true})
	assert.True(t, s.PreferJapaneseSupport)
	s = mustReduce(t, e, s, SetPreferJPSupport{Value: false})
	assert.False(t, s.PreferJapaneseSupport)
}

func playBattles(t *testing.T, e *Engine, s State, winners ...string) State {
	t.Helper()
	for _, w := range winners {
		s = mustReduce(t, e, s, RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: w})
	}
	return s
}

func TestTournamentCompletesAfterRounds(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), SetCandidates{Candidates: testPool()})
	assert.Equal(t, StageBattling, e.Stage(s))

	for i, w := range []string{"a", "b", "a", "b"} {
		s = mustReduce(t, e, s, RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: w})
		assert.Equal(t, i+1, s.CurrentBattleRound)
		assert.Len(t, s.BattleRecords, i+1)
		assert.Equal(t, i+1, s.BattleRecords[i].Round)
		assert.Empty(t, s.FinalRanking, "no ranking before the last round")
	}

	s = mustReduce(t, e, s, RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: "a"})
	assert.Equal(t, 5, s.CurrentBattleRound)
	assert.Equal(t, StageComplete, e.Stage(s))
	require.Len(t, s.FinalRanking, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, candidateIDs(s.FinalRanking))
}

func TestThreeTwoSplitRanksHigherWinnerFirst(t *testing.T) {
	e := newTestEngine()
	pool := []scoring.Candidate{
		{ID: "a", SurveyScore: 4},
		{ID: "b", SurveyScore: 4},
	}
	s := mustReduce(t, e, InitialState(), SetCandidates{Candidates: pool})
	s = playBattles(t, e, s, "b", "a", "b", "a", "b")

	require.Len(t, s.FinalRanking, 2)
	assert.Equal(t, "b", s.FinalRanking[0].ID)
	assert.Equal(t, 3, s.FinalRanking[0].WinCount)
	assert.Equal(t, 2, s.FinalRanking[1].WinCount)
}

func TestRecordBattleRejectedLeavesStateUnchanged(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), SetCandidates{Candidates: testPool()})
	s = playBattles(t, e, s, "a")

	next, err := e.Reduce(s, RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: "c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWinner)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, ActionRecordBattle, te.Action)
	assert.True(t, IsValidation(err))

	assert.Equal(t, s, next)
	assert.Equal(t, 1, next.CurrentBattleRound)
}

func TestRecordBattleRefusedAfterCompletion(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), SetCandidates{Candidates: testPool()})
	s = playBattles(t, e, s, "a", "a", "a", "a", "a")
	ranking := candidateIDs(s.FinalRanking)

	next, err := e.Reduce(s, RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: "b"})
	assert.ErrorIs(t, err, ErrTournamentComplete)
	assert.Equal(t, 5, next.CurrentBattleRound)
	assert.Equal(t, ranking, candidateIDs(next.FinalRanking))
}

func TestRecordBattleWithoutPool(t *testing.T) {
	e := newTestEngine()
	_, err := e.Reduce(InitialState(), RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: "a"})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestSetCandidatesRestartsTournament(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), SetCandidates{Candidates: testPool()})
	s = playBattles(t, e, s, "a", "a", "a", "a", "a")
	require.NotEmpty(t, s.FinalRanking)

	pool := testPool()
	pool[0].WinCount = 7
	s = mustReduce(t, e, s, SetCandidates{Candidates: pool})

	assert.Zero(t, s.CurrentBattleRound)
	assert.Empty(t, s.BattleRecords)
	assert.Empty(t, s.FinalRanking)
	for _, c := range s.Candidates {
		assert.Zero(t, c.WinCount, c.ID)
	}
	assert.Equal(t, 7, pool[0].WinCount, "input pool must not be mutated")

	s = playBattles(t, e, s, "b")
	assert.Equal(t, 1, s.CurrentBattleRound)
}

func TestSetCandidatesRejectsDuplicates(t *testing.T) {
	e := newTestEngine()
	pool := append(testPool(), scoring.Candidate{ID: "a"})
	_, err := e.Reduce(InitialState(), SetCandidates{Candidates: pool})
	assert.ErrorIs(t, err, ErrDuplicateCandidate)

	_, err = e.Reduce(InitialState(), SetCandidates{Candidates: []scoring.Candidate{{ID: ""}}})
	assert.ErrorIs(t, err, ErrUnknownCandidate)
}

func TestSetFinalRanking(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), SetCandidates{Candidates: testPool()})

	_, err := e.Reduce(s, SetFinalRanking{Ranking: testPool()})
	assert.ErrorIs(t, err, ErrTournamentIncomplete)

	s = playBattles(t, e, s, "a", "a", "a", "a", "a")

	override := []scoring.Candidate{s.Candidates[2], s.Candidates[1], s.Candidates[0]}
	next := mustReduce(t, e, s, SetFinalRanking{Ranking: override})
	assert.Equal(t, []string{"c", "b", "a"}, candidateIDs(next.FinalRanking))

	bad := [][]scoring.Candidate{
		{s.Candidates[0], s.Candidates[1]},
		{s.Candidates[0], s.Candidates[1], s.Candidates[1]},
		{s.Candidates[0], s.Candidates[1], {ID: "zzz"}},
	}
	for _, ranking := range bad {
		got, err := e.Reduce(next, SetFinalRanking{Ranking: ranking})
		assert.ErrorIs(t, err, ErrInvalidRanking)
		assert.Equal(t, []string{"c", "b", "a"}, candidateIDs(got.FinalRanking))
	}
}

func TestResetIsIdempotent(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), AnswerQuestion{ScoreKey: "cute", ScoreValue: 1})
	s = mustReduce(t, e, s, SetCandidates{Candidates: testPool()})
	s = playBattles(t, e, s, "a", "b")

	once := mustReduce(t, e, s, Reset{})
	twice := mustReduce(t, e, once, Reset{})
	assert.Equal(t, InitialState(), once)
	assert.Equal(t, once, twice)
}

func TestUnknownActionIsNoop(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), AnswerQuestion{ScoreKey: "cute", ScoreValue: 1})

	next, err := e.Reduce(s, Unknown{Name: "SHUFFLE"})
	assert.NoError(t, err)
	assert.Equal(t, s, next)

	next, err = e.Reduce(s, nil)
	assert.NoError(t, err)
	assert.Equal(t, s, next)
}

func TestInvariantsHoldThroughout(t *testing.T) {
	e := newTestEngine()
	actions := []Action{
		AnswerQuestion{ScoreKey: "cute", ScoreValue: 1},
		SetCandidates{Candidates: testPool()},
		RecordBattle{MemberAID: "a", MemberBID: "c", WinnerID: "c"},
		RecordBattle{MemberAID: "a", MemberBID: "c", WinnerID: "x"},
		RecordBattle{MemberAID: "b", MemberBID: "c", WinnerID: "b"},
		SetPreferJPSupport{Value: true},
		RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: "a"},
		RecordBattle{MemberAID: "a", MemberBID: "c", WinnerID: "a"},
		RecordBattle{MemberAID: "b", MemberBID: "c", WinnerID: "c"},
		RecordBattle{MemberAID: "b", MemberBID: "c", WinnerID: "c"},
	}

	s := InitialState()
	for _, a := range actions {
		s, _ = e.Reduce(s, a)
		assert.GreaterOrEqual(t, s.CurrentBattleRound, 0)
		assert.LessOrEqual(t, s.CurrentBattleRound, e.Rounds())
		assert.Len(t, s.BattleRecords, s.CurrentBattleRound)
		assert.Equal(t, s.CurrentBattleRound == e.Rounds(), len(s.FinalRanking) > 0)
		if len(s.FinalRanking) > 0 {
			assert.ElementsMatch(t, candidateIDs(s.Candidates), candidateIDs(s.FinalRanking))
		}
	}
	assert.Equal(t, 5, s.CurrentBattleRound)
}

func TestProgress(t *testing.T) {
	e := newTestEngine()
	s := mustReduce(t, e, InitialState(), AnswerQuestion{ScoreKey: "cute", ScoreValue: 1})

	p := e.Progress(s, 6)
	assert.Equal(t, StageSurvey, p.Stage)
	assert.Equal(t, Step{Current: 1, Total: 6}, p.Survey)
	assert.Equal(t, Step{Current: 0, Total: 5}, p.Battle)
	assert.False(t, p.SurveyComplete)
	assert.False(t, p.BattleComplete)

	assert.True(t, e.Progress(s, 1).SurveyComplete)
}

func TestNewEngineDefaultsRounds(t *testing.T) {
	e := NewEngine(0, scoring.NewRanker(scoring.DefaultRankingWeights()))
	assert.Equal(t, DefaultBattleRounds, e.Rounds())
}
