package hermes

import "time"

// Event is a message published on the OSHI_EVENTS stream. Each event knows
// the subject it belongs on.
type Event interface {
	Subject() string
}

type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

func (e SessionStartedEvent) Subject() string { return SubjectSessionStarted(e.SessionID) }

type BattleRecordedEvent struct {
	SessionID string `json:"session_id"`
	Round     int    `json:"round"`
	MemberA   string `json:"member_a"`
	MemberB   string `json:"member_b"`
	WinnerID  string `json:"winner_id"`
}

func (e BattleRecordedEvent) Subject() string { return SubjectBattleRecorded(e.SessionID) }

type DiagnosisCompletedEvent struct {
	SessionID   string   `json:"session_id"`
	RankedIDs   []string `json:"ranked_ids"`
	KoreanLevel string   `json:"korean_level"`
	PreferJP    bool     `json:"prefer_jp_support"`
}

func (e DiagnosisCompletedEvent) Subject() string { return SubjectDiagnosisCompleted(e.SessionID) }

type DiagnosisResetEvent struct {
	SessionID string `json:"session_id"`
}

func (e DiagnosisResetEvent) Subject() string { return SubjectDiagnosisReset(e.SessionID) }

type SessionsSweptEvent struct {
	Deleted   int64     `json:"deleted"`
	Before    time.Time `json:"before"`
	Timestamp time.Time `json:"timestamp"`
}

func (SessionsSweptEvent) Subject() string { return SubjectSessionsSwept() }
