package hermes

import (
	"strings"
	"testing"
)

func TestSubjectsMatchStream(t *testing.T) {
	subjects := []string{
		SubjectSessionStarted("s1"),
		SubjectBattleRecorded("s1"),
		SubjectDiagnosisCompleted("s1"),
		SubjectDiagnosisReset("s1"),
	}
	for _, s := range subjects {
		if !strings.HasPrefix(s, "oshi.diagnosis.s1.") {
			t.Errorf("subject %q outside oshi.diagnosis.> stream", s)
		}
	}
	if got := SubjectBattleRecorded("abc"); got != "oshi.diagnosis.abc.battle.recorded" {
		t.Errorf("unexpected subject %q", got)
	}
	if !strings.HasPrefix(SubjectSessionsSwept(), "oshi.sessions.") {
		t.Errorf("swept subject outside oshi.sessions.> stream")
	}
}
