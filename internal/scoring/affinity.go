package scoring

import (
	"sort"
	"strings"
)

const (
	// ArtistPrefix namespaces the survey keys that feed ArtistAffinity.
	ArtistPrefix = "artist_"
	// MaxArtistValue caps a single entry's contribution.
	MaxArtistValue = 5.0
	// TopArtistEntries is how many entries are summed.
	TopArtistEntries = 3
	// MaxArtistAffinity is the largest score ArtistAffinity can return.
	MaxArtistAffinity = MaxArtistValue * TopArtistEntries
)

// AffinityEntry is one artist key that contributed to an affinity score.
type AffinityEntry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// AffinityResult is the bounded artist score plus the entries it was built from.
type AffinityResult struct {
	Score float64         `json:"score"`
	Used  []AffinityEntry `json:"used"`
}

// ArtistAffinity scores how well a member's cover table matches the artists the
// user picked in the survey. Each selected key contributes the member's value
// capped at MaxArtistValue; non-positive values are dropped and only the
// TopArtistEntries largest are summed. Survey scores are a map and carry no
// answer order, so equal values are ordered by key (lexically) instead, which
// keeps Used reproducible. A nil table is treated as empty.
func ArtistAffinity(covers, surveyScores map[string]float64) AffinityResult {
	keys := make([]string, 0, len(surveyScores))
	for k := range surveyScores {
		if strings.HasPrefix(k, ArtistPrefix) {
			keys = append(keys, k)
		}
	}
	// lexical order stands in for the order the artists were answered
	sort.Strings(keys)

	entries := make([]AffinityEntry, 0, len(keys))
	for _, k := range keys {
		v := covers[k]
		if v > MaxArtistValue {
			v = MaxArtistValue
		}
		if v <= 0 {
			continue
		}
		entries = append(entries, AffinityEntry{Key: k, Value: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	if len(entries) > TopArtistEntries {
		entries = entries[:TopArtistEntries]
	}
	var sum float64
	for _, e := range entries {
		sum += e.Value
	}
	return AffinityResult{Score: sum, Used: entries}
}
