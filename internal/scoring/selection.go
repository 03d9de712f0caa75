package scoring

import (
	"sort"
)

// SurveyScore is a member's affinity with the user's survey answers: the sum of
// the user's scores for each of the member's tags, plus the bounded artist
// affinity scaled by artistWeight.
func SurveyScore(c Candidate, surveyScores map[string]float64, artistWeight float64) float64 {
	var total float64
	for _, tag := range c.Tags {
		total += surveyScores[tag]
	}
	return total + artistWeight*ArtistAffinity(c.ArtistCovers, surveyScores).Score
}

// SelectCandidates scores every member and returns the best n as a fresh pool
// (win counts zeroed). n <= 0 keeps everyone.
func SelectCandidates(members []Candidate, surveyScores map[string]float64, n int, artistWeight float64) []Candidate {
	pool := make([]Candidate, len(members))
	for i, m := range members {
		c := m.Clone()
		c.SurveyScore = SurveyScore(c, surveyScores, artistWeight)
		c.WinCount = 0
		pool[i] = c
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].SurveyScore != pool[j].SurveyScore {
			return pool[i].SurveyScore > pool[j].SurveyScore
		}
		return pool[i].ID < pool[j].ID
	})
	if n > 0 && n < len(pool) {
		pool = pool[:n]
	}
	return pool
}
