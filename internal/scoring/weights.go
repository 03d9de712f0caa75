package scoring

import (
	"fmt"
)

// RankingWeights controls how the final ranking merges survey affinity,
// battle wins and the two language preferences.
type RankingWeights struct {
	Survey               float64
	Wins                 float64
	JapaneseSupportBoost float64
	// LanguagePenalty is subtracted from members without Japanese support,
	// keyed by the user's Korean level.
	LanguagePenalty map[KoreanLevel]float64
}

// DefaultRankingWeights returns the weighting used when config leaves it unset.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Survey:               1.0,
		Wins:                 2.0,
		JapaneseSupportBoost: 1.5,
		LanguagePenalty: map[KoreanLevel]float64{
			KoreanNone:           2.0,
			KoreanBeginner:       1.0,
			KoreanConversational: 0.5,
			KoreanFluent:         0,
		},
	}
}

// Validate checks weights are non-negative and that the language penalty
// never grows as Korean proficiency rises.
func (w RankingWeights) Validate() error {
	if w.Survey < 0 || w.Wins < 0 {
		return fmt.Errorf("negative ranking weight: survey=%f wins=%f", w.Survey, w.Wins)
	}
	if w.Survey == 0 && w.Wins == 0 {
		return fmt.Errorf("survey and wins weights cannot both be zero")
	}
	if w.JapaneseSupportBoost < 0 {
		return fmt.Errorf("negative japanese support boost: %f", w.JapaneseSupportBoost)
	}
	prev := -1.0
	for i := len(KoreanLevels) - 1; i >= 0; i-- {
		p := w.LanguagePenalty[KoreanLevels[i]]
		if p < 0 {
			return fmt.Errorf("negative language penalty for %s: %f", KoreanLevels[i], p)
		}
		if p < prev {
			return fmt.Errorf("language penalty for %s (%f) is below a more fluent level", KoreanLevels[i], p)
		}
		prev = p
	}
	return nil
}

func (w RankingWeights) penalty(level KoreanLevel) float64 {
	if !level.Valid() {
		level = KoreanNone
	}
	return w.LanguagePenalty[level]
}
