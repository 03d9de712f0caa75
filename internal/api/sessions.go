package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
	"github.com/MikeSquared-Agency/Oshichecker/internal/diagnosis"
	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

type SessionsHandler struct {
	svc          *diagnosis.Service
	catalog      *catalog.Catalog
	poolSize     int
	artistWeight float64
}

func NewSessionsHandler(svc *diagnosis.Service, cat *catalog.Catalog, poolSize int, artistWeight float64) *SessionsHandler {
	return &SessionsHandler{svc: svc, catalog: cat, poolSize: poolSize, artistWeight: artistWeight}
}

type SessionResponse struct {
	SessionID string             `json:"session_id"`
	State     diagnosis.State    `json:"state"`
	Progress  diagnosis.Progress `json:"progress"`
	Error     string             `json:"error,omitempty"`
}

type AnswerRequest struct {
	QuestionID string   `json:"question_id" validate:"required"`
	OptionIDs  []string `json:"option_ids" validate:"required"`
}

type CandidatesRequest struct {
	Size int `json:"size" validate:"omitempty,min=2,max=100"`
}

func (h *SessionsHandler) respond(w http.ResponseWriter, status int, id string, st diagnosis.State, err error) {
	resp := SessionResponse{
		SessionID: id,
		State:     st,
		Progress:  h.svc.Engine().Progress(st, len(h.catalog.Questions)),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

// requireSession writes 404 and returns false when the session has no snapshot.
func (h *SessionsHandler) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	ok, err := h.svc.Exists(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return id, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return id, false
	}
	return id, true
}

func (h *SessionsHandler) dispatch(w http.ResponseWriter, r *http.Request, id string, a diagnosis.Action) {
	st, err := h.svc.Dispatch(r.Context(), id, a)
	if err != nil {
		h.respond(w, statusFor(err), id, st, err)
		return
	}
	h.respond(w, http.StatusOK, id, st, nil)
}

// Create opens a session.
// POST /api/v1/sessions
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, st := h.svc.Start(r.Context())
	h.respond(w, http.StatusCreated, id, st, nil)
}

// GET /api/v1/sessions/{id}
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, id, h.svc.State(r.Context(), id), nil)
}

// Reset discards the session's progress. The session itself stays open and
// starts over from the first question. Resetting an unknown session is not an
// error.
// DELETE /api/v1/sessions/{id}
func (h *SessionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.dispatch(w, r, id, diagnosis.Reset{})
}

// Action applies a raw action body such as {"type":"RECORD_BATTLE",...}.
// POST /api/v1/sessions/{id}/actions
func (h *SessionsHandler) Action(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := diagnosis.DecodeAction(body)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	h.dispatch(w, r, id, a)
}

// Answer applies the options picked for one catalog question.
// POST /api/v1/sessions/{id}/answers
func (h *SessionsHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	a, err := h.catalog.Answer(req.QuestionID, req.OptionIDs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	h.dispatch(w, r, id, a)
}

// Candidates selects the session's pool from the catalog by survey score.
// POST /api/v1/sessions/{id}/candidates
func (h *SessionsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	var req CandidatesRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
	}
	size := req.Size
	if size == 0 {
		size = h.poolSize
	}

	st, err := h.svc.DispatchWith(r.Context(), id, func(current diagnosis.State) (diagnosis.Action, error) {
		pool := scoring.SelectCandidates(h.catalog.Candidates(), current.SurveyScores, size, h.artistWeight)
		return diagnosis.SetCandidates{Candidates: pool}, nil
	})
	if err != nil {
		h.respond(w, statusFor(err), id, st, err)
		return
	}
	h.respond(w, http.StatusOK, id, st, nil)
}

type BattleResponse struct {
	SessionID string     `json:"session_id"`
	Round     int        `json:"round"`
	Total     int        `json:"total"`
	MemberA   MemberCard `json:"member_a"`
	MemberB   MemberCard `json:"member_b"`
}

// Battle returns the next pair to compare.
// GET /api/v1/sessions/{id}/battle
func (h *SessionsHandler) Battle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	st := h.svc.State(r.Context(), id)
	pair, ok := h.svc.Engine().NextPair(st)
	if !ok {
		writeError(w, http.StatusConflict, "no battle available")
		return
	}
	locale := requestLocale(r)
	writeJSON(w, http.StatusOK, BattleResponse{
		SessionID: id,
		Round:     pair.Round,
		Total:     h.svc.Engine().Rounds(),
		MemberA:   newMemberCard(h.catalog, pair.MemberA, locale),
		MemberB:   newMemberCard(h.catalog, pair.MemberB, locale),
	})
}
