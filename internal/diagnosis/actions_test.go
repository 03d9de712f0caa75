package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Action
	}{
		{"answer", `{"type":"ANSWER_QUESTION","scoreKey":"cute","scoreValue":1}`, AnswerQuestion{ScoreKey: "cute", ScoreValue: 1}},
		{"multi", `{"type":"ANSWER_MULTI","scores":{"a":1,"b":-1}}`, AnswerMulti{Scores: map[string]float64{"a": 1, "b": -1}}},
		{"answer level", `{"type":"ANSWER_KOREAN_LEVEL","level":"beginner"}`, AnswerKoreanLevel{Level: scoring.KoreanBeginner}},
		{"set level", `{"type":"SET_KOREAN_LEVEL","level":"fluent"}`, SetKoreanLevel{Level: scoring.KoreanFluent}},
		{"prefer", `{"type":"SET_PREFER_JP_SUPPORT","value":true}`, SetPreferJPSupport{Value: true}},
		{"candidates", `{"type":"SET_CANDIDATES","candidates":[{"id":"a"}]}`, SetCandidates{Candidates: []scoring.Candidate{{ID: "a"}}}},
		{"battle", `{"type":"RECORD_BATTLE","memberAId":"a","memberBId":"b","winnerId":"a"}`, RecordBattle{MemberAID: "a", MemberBID: "b", WinnerID: "a"}},
		{"ranking", `{"type":"SET_FINAL_RANKING","ranking":[{"id":"b"},{"id":"a"}]}`, SetFinalRanking{Ranking: []scoring.Candidate{{ID: "b"}, {ID: "a"}}}},
		{"reset", `{"type":"RESET"}`, Reset{}},
		{"unknown", `{"type":"SHUFFLE","seed":4}`, Unknown{Name: "SHUFFLE"}},
		{"missing type", `{"scoreKey":"cute"}`, Unknown{Name: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"type":"ANSWER_QUESTION","scoreValue":1}`,
		`{"type":"RECORD_BATTLE","memberAId":"a","memberBId":"b"}`,
		`{"type":"ANSWER_QUESTION","scoreKey":"cute","scoreValue":"high"}`,
		`{"type":"SET_FINAL_RANKING"}`,
	}
	for _, body := range bodies {
		_, err := DecodeAction([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestActionTypes(t *testing.T) {
	assert.Equal(t, ActionRecordBattle, RecordBattle{}.Type())
	assert.Equal(t, ActionType("FUTURE"), Unknown{Name: "FUTURE"}.Type())
}
