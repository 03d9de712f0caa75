package hermes

import "time"

const (
	StreamName = "OSHI_EVENTS"

	// DefaultStreamMaxAge keeps a week of diagnosis history.
	DefaultStreamMaxAge = 7 * 24 * time.Hour

	diagnosisPrefix = "oshi.diagnosis."
	sessionsPrefix  = "oshi.sessions."
)

// StreamSubjects are captured by the OSHI_EVENTS stream.
var StreamSubjects = []string{diagnosisPrefix + ">", sessionsPrefix + ">"}

// SubjectAnyCompleted matches the completion event of every session.
const SubjectAnyCompleted = diagnosisPrefix + "*.completed"

// Diagnosis lifecycle subjects
func SubjectSessionStarted(sessionID string) string {
	return diagnosisPrefix + sessionID + ".started"
}
func SubjectBattleRecorded(sessionID string) string {
	return diagnosisPrefix + sessionID + ".battle.recorded"
}
func SubjectDiagnosisCompleted(sessionID string) string {
	return diagnosisPrefix + sessionID + ".completed"
}
func SubjectDiagnosisReset(sessionID string) string { return diagnosisPrefix + sessionID + ".reset" }

// Sweeper subjects
func SubjectSessionsSwept() string { return sessionsPrefix + "swept" }
