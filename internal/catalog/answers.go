package catalog

import (
	"fmt"

	"github.com/MikeSquared-Agency/Oshichecker/internal/diagnosis"
)

// Answer maps the options a user picked for a question to the session action
// that applies them. Single and korean_level questions take exactly one
// option; multi questions take one or more and sum their deltas.
func (c *Catalog) Answer(questionID string, optionIDs []string) (diagnosis.Action, error) {
	q, ok := c.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	picked := make([]Option, 0, len(optionIDs))
	for _, id := range optionIDs {
		o, ok := q.option(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownOption, questionID, id)
		}
		picked = append(picked, o)
	}

	switch q.Kind {
	case KindKoreanLevel:
		if len(picked) != 1 {
			return nil, fmt.Errorf("%w: %s takes 1, got %d", ErrOptionCount, questionID, len(picked))
		}
		return diagnosis.AnswerKoreanLevel{Level: picked[0].KoreanLevel}, nil

	case KindSingle:
		if len(picked) != 1 {
			return nil, fmt.Errorf("%w: %s takes 1, got %d", ErrOptionCount, questionID, len(picked))
		}
		o := picked[0]
		if o.ScoreKey != "" && len(o.Scores) == 0 {
			return diagnosis.AnswerQuestion{ScoreKey: o.ScoreKey, ScoreValue: o.value()}, nil
		}
		return diagnosis.AnswerMulti{Scores: o.deltas()}, nil

	default:
		if len(picked) == 0 {
			return nil, fmt.Errorf("%w: %s takes at least 1", ErrOptionCount, questionID)
		}
		scores := make(map[string]float64)
		for _, o := range picked {
			for k, v := range o.deltas() {
				scores[k] += v
			}
		}
		return diagnosis.AnswerMulti{Scores: scores}, nil
	}
}

func (q Question) option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// value is the option's score delta; an unset score_value counts as 1.
func (o Option) value() float64 {
	if o.ScoreValue == nil {
		return 1
	}
	return *o.ScoreValue
}

func (o Option) deltas() map[string]float64 {
	out := make(map[string]float64, len(o.Scores)+1)
	for k, v := range o.Scores {
		out[k] += v
	}
	if o.ScoreKey != "" {
		out[o.ScoreKey] += o.value()
	}
	return out
}
