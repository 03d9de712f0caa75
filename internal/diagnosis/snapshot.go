package diagnosis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

// StorageKey is the fixed slot a session snapshot is saved under.
const StorageKey = "oshichecker_diagnosis_state"

// SlotKey returns the storage slot for one session.
func SlotKey(sessionID string) string { return StorageKey + ":" + sessionID }

// ResetKey marks a session whose snapshot was cleared by RESET. The session
// stays addressable and restores to InitialState until its next transition.
func ResetKey(sessionID string) string { return "oshichecker_diagnosis_reset:" + sessionID }

var errMissingCursor = errors.New("snapshot has no valid currentQuestionIndex")

// EncodeSnapshot serialises the whole state.
func EncodeSnapshot(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Restore rebuilds a state from a snapshot. It never fails hard: a snapshot
// that is empty, unparseable or lacks a question cursor yields InitialState
// (with the error for logging), and each remaining field falls back to its
// default on its own when missing or invalid. Battle fields that contradict
// each other are dropped together, and a complete tournament without a valid
// ranking gets its ranking recomputed. Unknown fields are ignored.
func (e *Engine) Restore(data []byte) (State, error) {
	if len(data) == 0 {
		return InitialState(), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return InitialState(), fmt.Errorf("parse snapshot: %w", err)
	}

	s := InitialState()
	if !decodeField(fields, "currentQuestionIndex", &s.CurrentQuestionIndex) || s.CurrentQuestionIndex < 0 {
		return InitialState(), errMissingCursor
	}

	var scores map[string]float64
	if decodeField(fields, "surveyScores", &scores) && scores != nil {
		s.SurveyScores = scores
	}

	var level scoring.KoreanLevel
	if decodeField(fields, "koreanLevel", &level) && level.Valid() {
		s.KoreanLevel = level
	}

	decodeField(fields, "preferJapaneseSupport", &s.PreferJapaneseSupport)

	var pool []scoring.Candidate
	if decodeField(fields, "candidates", &pool) && checkPool(pool) == nil {
		s.Candidates = pool
	}

	var records []scoring.BattleRecord
	var round int
	if decodeField(fields, "battleRecords", &records) &&
		decodeField(fields, "currentBattleRound", &round) &&
		e.consistentHistory(s.Candidates, records, round) {
		s.BattleRecords = records
		s.CurrentBattleRound = round
	}
	if s.CurrentBattleRound == 0 {
		s.BattleRecords = nil
		for i := range s.Candidates {
			s.Candidates[i].WinCount = 0
		}
	}

	if s.CurrentBattleRound == e.rounds {
		var ranking []scoring.Candidate
		if decodeField(fields, "finalRanking", &ranking) && isPermutation(ranking, s.Candidates) {
			s.FinalRanking = ranking
		} else {
			s.FinalRanking = e.ranker.Rank(s.Candidates, s.BattleRecords, s.KoreanLevel, s.PreferJapaneseSupport)
		}
	}
	return s, nil
}

func decodeField(fields map[string]json.RawMessage, name string, dst interface{}) bool {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// consistentHistory checks a restored history against the pool: the round
// counter matches the record count, rounds are numbered 1..n, every record is
// a valid battle, and win counts agree with the history.
func (e *Engine) consistentHistory(pool []scoring.Candidate, records []scoring.BattleRecord, round int) bool {
	if round < 0 || round > e.rounds || len(records) != round {
		return false
	}
	if round > 0 && len(pool) == 0 {
		return false
	}
	wins := make(map[string]int, len(pool))
	for i, r := range records {
		if r.Round != i+1 {
			return false
		}
		if _, _, err := ApplyBattle(pool, r.Round, r.MemberA, r.MemberB, r.WinnerID); err != nil {
			return false
		}
		wins[r.WinnerID]++
	}
	for _, c := range pool {
		if c.WinCount != wins[c.ID] {
			return false
		}
	}
	return true
}
