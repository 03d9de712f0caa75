package diagnosis

import (
	"sort"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

// Pair is the next battle to show the user.
type Pair struct {
	Round   int               `json:"round"`
	MemberA scoring.Candidate `json:"memberA"`
	MemberB scoring.Candidate `json:"memberB"`
}

// NextPair picks the next two candidates to compare. Candidates that have
// appeared least go first (higher survey score, then id, breaks ties), and a
// pairing already played is skipped while an unplayed one exists. ok is false
// when the tournament is over or the pool has fewer than two members.
func (e *Engine) NextPair(s State) (Pair, bool) {
	if len(s.Candidates) < 2 || s.CurrentBattleRound >= e.rounds {
		return Pair{}, false
	}

	appearances := make(map[string]int, len(s.Candidates))
	played := make(map[[2]string]bool, len(s.BattleRecords))
	for _, r := range s.BattleRecords {
		appearances[r.MemberA]++
		appearances[r.MemberB]++
		played[pairKey(r.MemberA, r.MemberB)] = true
	}

	order := scoring.CloneCandidates(s.Candidates)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if appearances[a.ID] != appearances[b.ID] {
			return appearances[a.ID] < appearances[b.ID]
		}
		if a.SurveyScore != b.SurveyScore {
			return a.SurveyScore > b.SurveyScore
		}
		return a.ID < b.ID
	})

	round := s.CurrentBattleRound + 1
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if !played[pairKey(order[i].ID, order[j].ID)] {
				return Pair{Round: round, MemberA: order[i], MemberB: order[j]}, true
			}
		}
	}
	return Pair{Round: round, MemberA: order[0], MemberB: order[1]}, true
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
