package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
	"github.com/MikeSquared-Agency/Oshichecker/internal/diagnosis"
	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

type ResultHandler struct {
	svc     *diagnosis.Service
	catalog *catalog.Catalog
}

func NewResultHandler(svc *diagnosis.Service, cat *catalog.Catalog) *ResultHandler {
	return &ResultHandler{svc: svc, catalog: cat}
}

// MemberCard is a candidate as shown to the user.
type MemberCard struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PhotoURL        string   `json:"photo_url,omitempty"`
	Tags            []string `json:"tags"`
	JapaneseSupport bool     `json:"japanese_support"`
}

func newMemberCard(cat *catalog.Catalog, c scoring.Candidate, locale string) MemberCard {
	tags := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = cat.Label(t, locale)
	}
	return MemberCard{
		ID:              c.ID,
		Name:            catalog.Localize(c.Names, locale, c.ID),
		PhotoURL:        c.PhotoURL,
		Tags:            tags,
		JapaneseSupport: c.JapaneseSupport,
	}
}

type RankedMember struct {
	Rank int `json:"rank"`
	MemberCard
	Breakdown scoring.Placement `json:"breakdown"`
}

type ResultResponse struct {
	SessionID   string         `json:"session_id"`
	KoreanLevel string         `json:"korean_level"`
	PreferJP    bool           `json:"prefer_jp_support"`
	Ranking     []RankedMember `json:"ranking"`
}

// Result returns the final ranking with each member's score breakdown. The
// stored ranking decides the order and the rank; the rest of the breakdown is
// recomputed.
// GET /api/v1/sessions/{id}/result
func (h *ResultHandler) Result(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := h.svc.Exists(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	st := h.svc.State(r.Context(), id)
	if st.FinalRanking == nil {
		writeError(w, http.StatusConflict, "diagnosis not complete")
		return
	}

	placements := h.svc.Engine().Ranker().Explain(st.Candidates, st.BattleRecords, st.KoreanLevel, st.PreferJapaneseSupport)
	byID := make(map[string]scoring.Placement, len(placements))
	for _, p := range placements {
		byID[p.ID] = p
	}

	locale := requestLocale(r)
	ranking := make([]RankedMember, len(st.FinalRanking))
	for i, c := range st.FinalRanking {
		breakdown := byID[c.ID]
		breakdown.Rank = i + 1
		ranking[i] = RankedMember{
			Rank:       i + 1,
			MemberCard: newMemberCard(h.catalog, c, locale),
			Breakdown:  breakdown,
		}
	}

	writeJSON(w, http.StatusOK, ResultResponse{
		SessionID:   id,
		KoreanLevel: string(st.KoreanLevel),
		PreferJP:    st.PreferJapaneseSupport,
		Ranking:     ranking,
	})
}

// requestLocale prefers ?locale= over Accept-Language.
func requestLocale(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return catalog.MatchLocale(l)
	}
	return catalog.MatchLocale(r.Header.Get("Accept-Language"))
}
