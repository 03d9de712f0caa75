package diagnosis

import (
	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

// Stage is the coarse position of a session in the survey → battle → result flow.
type Stage string

const (
	StageSurvey   Stage = "survey"
	StageBattling Stage = "battling"
	StageComplete Stage = "complete"
)

// State is one diagnosis session. Its JSON form is the persisted snapshot.
type State struct {
	// Survey
	CurrentQuestionIndex  int                 `json:"currentQuestionIndex"`
	SurveyScores          map[string]float64  `json:"surveyScores"`
	KoreanLevel           scoring.KoreanLevel `json:"koreanLevel"`
	PreferJapaneseSupport bool                `json:"preferJapaneseSupport"`

	// Battles
	Candidates         []scoring.Candidate    `json:"candidates"`
	BattleRecords      []scoring.BattleRecord `json:"battleRecords"`
	CurrentBattleRound int                    `json:"currentBattleRound"`

	// Result
	FinalRanking []scoring.Candidate `json:"finalRanking"`
}

// InitialState returns a fresh session.
func InitialState() State {
	return State{
		SurveyScores: map[string]float64{},
		KoreanLevel:  scoring.KoreanNone,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.SurveyScores = scoring.Accumulate(s.SurveyScores, nil)
	out.Candidates = scoring.CloneCandidates(s.Candidates)
	if s.BattleRecords != nil {
		out.BattleRecords = append([]scoring.BattleRecord(nil), s.BattleRecords...)
	}
	out.FinalRanking = scoring.CloneCandidates(s.FinalRanking)
	return out
}

// Candidate returns the pool member with the given id.
func (s State) Candidate(id string) (scoring.Candidate, bool) {
	for _, c := range s.Candidates {
		if c.ID == id {
			return c, true
		}
	}
	return scoring.Candidate{}, false
}

// Step is a current/total progress pair.
type Step struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Progress summarises where a session stands.
type Progress struct {
	Stage          Stage `json:"stage"`
	Survey         Step  `json:"survey"`
	Battle         Step  `json:"battle"`
	SurveyComplete bool  `json:"survey_complete"`
	BattleComplete bool  `json:"battle_complete"`
}
