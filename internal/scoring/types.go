package scoring

// KoreanLevel is the user's self-reported Korean proficiency.
type KoreanLevel string

const (
	KoreanNone           KoreanLevel = "none"
	KoreanBeginner       KoreanLevel = "beginner"
	KoreanConversational KoreanLevel = "conversational"
	KoreanFluent         KoreanLevel = "fluent"
)

// KoreanLevels lists every level in ascending proficiency.
var KoreanLevels = []KoreanLevel{KoreanNone, KoreanBeginner, KoreanConversational, KoreanFluent}

// Valid reports whether l is one of the known levels.
func (l KoreanLevel) Valid() bool {
	for _, k := range KoreanLevels {
		if l == k {
			return true
		}
	}
	return false
}

// Candidate is one rankable member in a session's pool.
type Candidate struct {
	ID              string             `json:"id"`
	Names           map[string]string  `json:"names,omitempty"`
	PhotoURL        string             `json:"photoUrl,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	ArtistCovers    map[string]float64 `json:"artistCovers,omitempty"`
	JapaneseSupport bool               `json:"japaneseSupport"`

	// Run state
	SurveyScore float64 `json:"surveyScore"`
	WinCount    int     `json:"winCount"`
}

// Clone returns a deep copy so callers never share maps or slices.
func (c Candidate) Clone() Candidate {
	out := c
	if c.Names != nil {
		out.Names = make(map[string]string, len(c.Names))
		for k, v := range c.Names {
			out.Names[k] = v
		}
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.ArtistCovers != nil {
		out.ArtistCovers = make(map[string]float64, len(c.ArtistCovers))
		for k, v := range c.ArtistCovers {
			out.ArtistCovers[k] = v
		}
	}
	return out
}

// CloneCandidates deep-copies a pool.
func CloneCandidates(in []Candidate) []Candidate {
	if in == nil {
		return nil
	}
	out := make([]Candidate, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// BattleRecord is one decided pairwise comparison. Records are never mutated
// after being appended to a session's history.
type BattleRecord struct {
	Round    int    `json:"round"`
	MemberA  string `json:"memberA"`
	MemberB  string `json:"memberB"`
	WinnerID string `json:"winnerId"`
}
