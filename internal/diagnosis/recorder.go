package diagnosis

import (
	"fmt"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

// ApplyBattle applies one battle outcome to a pool. It returns a new pool in
// which only the winner's win count has changed, plus the record to append to
// the history. The input pool is never modified; on error nothing is returned.
func ApplyBattle(pool []scoring.Candidate, round int, memberA, memberB, winnerID string) ([]scoring.Candidate, scoring.BattleRecord, error) {
	if round < 1 {
		return nil, scoring.BattleRecord{}, fmt.Errorf("%w: %d", ErrInvalidRound, round)
	}
	if winnerID != memberA && winnerID != memberB {
		return nil, scoring.BattleRecord{}, fmt.Errorf("%w: %q not in {%q, %q}", ErrInvalidWinner, winnerID, memberA, memberB)
	}
	if memberA == memberB {
		return nil, scoring.BattleRecord{}, fmt.Errorf("%w: %q", ErrSameCandidate, memberA)
	}

	winner := -1
	foundA, foundB := false, false
	for i, c := range pool {
		switch c.ID {
		case memberA:
			foundA = true
		case memberB:
			foundB = true
		}
		if c.ID == winnerID {
			winner = i
		}
	}
	if !foundA {
		return nil, scoring.BattleRecord{}, fmt.Errorf("%w: %q", ErrUnknownCandidate, memberA)
	}
	if !foundB {
		return nil, scoring.BattleRecord{}, fmt.Errorf("%w: %q", ErrUnknownCandidate, memberB)
	}

	updated := scoring.CloneCandidates(pool)
	updated[winner].WinCount++

	record := scoring.BattleRecord{
		Round:    round,
		MemberA:  memberA,
		MemberB:  memberB,
		WinnerID: winnerID,
	}
	return updated, record, nil
}
