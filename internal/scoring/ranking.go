package scoring

import (
	"sort"
)

// Placement is one row of an explained final ranking.
type Placement struct {
	Rank        int     `json:"rank"`
	ID          string  `json:"id"`
	Layer       int     `json:"layer"`
	Composite   float64 `json:"composite"`
	Base        float64 `json:"base"`
	Adjustment  float64 `json:"adjustment"`
	SurveyScore float64 `json:"survey_score"`
	WinCount    int     `json:"win_count"`
	Appearances int     `json:"appearances"`

	index int
}

// Ranker produces the terminal ordering of a candidate pool.
//
// Candidates are first grouped into Pareto layers over (survey score, wins).
// Inside a layer they are ordered by
//
//	composite = survey*Survey + wins*Wins + adjustment
//
// where adjustment adds JapaneseSupportBoost for members with Japanese support
// when the user asked for it, and subtracts LanguagePenalty[level] for members
// without it. Remaining ties fall back to wins, survey score, id, then input
// position, so the order is total and reproducible.
//
// Because adjustments only reorder inside a layer, a candidate that beats
// another on both survey score and wins always ranks above it.
type Ranker struct {
	weights RankingWeights
}

// NewRanker creates a Ranker with the given weights.
func NewRanker(weights RankingWeights) *Ranker {
	return &Ranker{weights: weights}
}

// Weights returns the ranker's weights.
func (r *Ranker) Weights() RankingWeights { return r.weights }

// Rank returns the pool reordered best-first. The result is a deep copy.
func (r *Ranker) Rank(pool []Candidate, history []BattleRecord, level KoreanLevel, preferJP bool) []Candidate {
	placements := r.Explain(pool, history, level, preferJP)
	out := make([]Candidate, len(placements))
	for i, p := range placements {
		out[i] = pool[p.index].Clone()
	}
	return out
}

// Explain returns the ranking with the per-candidate breakdown.
func (r *Ranker) Explain(pool []Candidate, history []BattleRecord, level KoreanLevel, preferJP bool) []Placement {
	appearances := make(map[string]int)
	for _, b := range history {
		appearances[b.MemberA]++
		appearances[b.MemberB]++
	}

	points := make([]ParetoPoint, len(pool))
	for i, c := range pool {
		points[i] = ParetoPoint{ID: c.ID, SurveyScore: c.SurveyScore, WinCount: c.WinCount}
	}
	layers := ComputeLayers(points)

	placements := make([]Placement, len(pool))
	for i, c := range pool {
		base := c.SurveyScore*r.weights.Survey + float64(c.WinCount)*r.weights.Wins
		adj := r.adjustment(c, level, preferJP)
		placements[i] = Placement{
			ID:          c.ID,
			Layer:       layers[i],
			Composite:   base + adj,
			Base:        base,
			Adjustment:  adj,
			SurveyScore: c.SurveyScore,
			WinCount:    c.WinCount,
			Appearances: appearances[c.ID],
			index:       i,
		}
	}

	sort.Slice(placements, func(i, j int) bool {
		a, b := placements[i], placements[j]
		switch {
		case a.Layer != b.Layer:
			return a.Layer < b.Layer
		case a.Composite != b.Composite:
			return a.Composite > b.Composite
		case a.WinCount != b.WinCount:
			return a.WinCount > b.WinCount
		case a.SurveyScore != b.SurveyScore:
			return a.SurveyScore > b.SurveyScore
		case a.ID != b.ID:
			return a.ID < b.ID
		default:
			return a.index < b.index
		}
	})
	for i := range placements {
		placements[i].Rank = i + 1
	}
	return placements
}

func (r *Ranker) adjustment(c Candidate, level KoreanLevel, preferJP bool) float64 {
	if c.JapaneseSupport {
		if preferJP {
			return r.weights.JapaneseSupportBoost
		}
		return 0
	}
	return -r.weights.penalty(level)
}
