package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

type AttributeView struct {
	Key      string           `json:"key"`
	Category catalog.Category `json:"category"`
	Label    string           `json:"label"`
}

type OptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type QuestionView struct {
	ID      string               `json:"id"`
	Kind    catalog.QuestionKind `json:"kind"`
	Text    string               `json:"text"`
	Options []OptionView         `json:"options"`
}

// GET /api/v1/attributes
func (h *CatalogHandler) Attributes(w http.ResponseWriter, r *http.Request) {
	locale := requestLocale(r)
	out := make([]AttributeView, len(h.catalog.Attributes))
	for i, a := range h.catalog.Attributes {
		out[i] = AttributeView{
			Key:      a.Key,
			Category: a.Category,
			Label:    catalog.Localize(a.Labels, locale, a.Key),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/v1/questions
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	locale := requestLocale(r)
	out := make([]QuestionView, len(h.catalog.Questions))
	for i, q := range h.catalog.Questions {
		opts := make([]OptionView, len(q.Options))
		for j, o := range q.Options {
			label := catalog.Localize(o.Labels, locale, "")
			if label == "" && o.ScoreKey != "" {
				label = h.catalog.Label(o.ScoreKey, locale)
			}
			if label == "" {
				label = o.ID
			}
			opts[j] = OptionView{ID: o.ID, Label: label}
		}
		out[i] = QuestionView{
			ID:      q.ID,
			Kind:    q.Kind,
			Text:    catalog.Localize(q.Text, locale, q.ID),
			Options: opts,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
