package diagnosis

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

// ActionType names a session transition.
type ActionType string

const (
	ActionAnswerQuestion     ActionType = "ANSWER_QUESTION"
	ActionAnswerMulti        ActionType = "ANSWER_MULTI"
	ActionAnswerKoreanLevel  ActionType = "ANSWER_KOREAN_LEVEL"
	ActionSetKoreanLevel     ActionType = "SET_KOREAN_LEVEL"
	ActionSetPreferJPSupport ActionType = "SET_PREFER_JP_SUPPORT"
	ActionSetCandidates      ActionType = "SET_CANDIDATES"
	ActionRecordBattle       ActionType = "RECORD_BATTLE"
	ActionSetFinalRanking    ActionType = "SET_FINAL_RANKING"
	ActionReset              ActionType = "RESET"
)

// Action is the closed set of transitions Engine.Reduce understands.
type Action interface {
	Type() ActionType
	action()
}

type AnswerQuestion struct {
	ScoreKey   string  `json:"scoreKey" validate:"required"`
	ScoreValue float64 `json:"scoreValue"`
}

type AnswerMulti struct {
	Scores map[string]float64 `json:"scores"`
}

type AnswerKoreanLevel struct {
	Level scoring.KoreanLevel `json:"level" validate:"required"`
}

type SetKoreanLevel struct {
	Level scoring.KoreanLevel `json:"level" validate:"required"`
}

type SetPreferJPSupport struct {
	Value bool `json:"value"`
}

type SetCandidates struct {
	Candidates []scoring.Candidate `json:"candidates"`
}

// RecordBattle carries one user decision. The round is stamped by the reducer.
type RecordBattle struct {
	MemberAID string `json:"memberAId" validate:"required"`
	MemberBID string `json:"memberBId" validate:"required"`
	WinnerID  string `json:"winnerId" validate:"required"`
}

// SetFinalRanking overrides the computed ranking, e.g. when resuming a
// completed session.
type SetFinalRanking struct {
	Ranking []scoring.Candidate `json:"ranking" validate:"required"`
}

type Reset struct{}

// Unknown stands in for an action type this version does not know. Reducing
// it is a no-op.
type Unknown struct {
	Name string
}

func (AnswerQuestion) Type() ActionType     { return ActionAnswerQuestion }
func (AnswerMulti) Type() ActionType        { return ActionAnswerMulti }
func (AnswerKoreanLevel) Type() ActionType  { return ActionAnswerKoreanLevel }
func (SetKoreanLevel) Type() ActionType     { return ActionSetKoreanLevel }
func (SetPreferJPSupport) Type() ActionType { return ActionSetPreferJPSupport }
func (SetCandidates) Type() ActionType      { return ActionSetCandidates }
func (RecordBattle) Type() ActionType       { return ActionRecordBattle }
func (SetFinalRanking) Type() ActionType    { return ActionSetFinalRanking }
func (Reset) Type() ActionType              { return ActionReset }
func (u Unknown) Type() ActionType          { return ActionType(u.Name) }

func (AnswerQuestion) action()     {}
func (AnswerMulti) action()        {}
func (AnswerKoreanLevel) action()  {}
func (SetKoreanLevel) action()     {}
func (SetPreferJPSupport) action() {}
func (SetCandidates) action()      {}
func (RecordBattle) action()       {}
func (SetFinalRanking) action()    {}
func (Reset) action()              {}
func (Unknown) action()            {}

var validate = validator.New()

// DecodeAction parses a {"type": ..., ...} JSON action. Unrecognised types
// decode to Unknown rather than failing.
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	var a Action
	switch envelope.Type {
	case ActionAnswerQuestion:
		var v AnswerQuestion
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionAnswerMulti:
		var v AnswerMulti
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionAnswerKoreanLevel:
		var v AnswerKoreanLevel
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionSetKoreanLevel:
		var v SetKoreanLevel
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionSetPreferJPSupport:
		var v SetPreferJPSupport
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionSetCandidates:
		var v SetCandidates
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionRecordBattle:
		var v RecordBattle
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionSetFinalRanking:
		var v SetFinalRanking
		if err := decodeInto(data, &v); err != nil {
			return nil, err
		}
		a = v
	case ActionReset:
		a = Reset{}
	default:
		a = Unknown{Name: string(envelope.Type)}
	}
	return a, nil
}

func decodeInto(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode action: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}
	return nil
}
