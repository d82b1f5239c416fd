package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/opencube/cube-draft-api/internal/analytics"
	"github.com/opencube/cube-draft-api/internal/auth"
	"github.com/opencube/cube-draft-api/internal/config"
	"github.com/opencube/cube-draft-api/internal/dal"
	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/importer"
	"github.com/opencube/cube-draft-api/internal/logger"
	"github.com/opencube/cube-draft-api/internal/models"
	"github.com/opencube/cube-draft-api/internal/pubsub"
)

// APIHandlers contains all API handler methods.
type APIHandlers struct {
	dal    dal.DraftDAL
	pubsub *pubsub.PubSub
	lookup draft.Lookup
	oracle draft.Oracle
	sink   analytics.Sink
	cfg    *config.Config
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(d dal.DraftDAL, ps *pubsub.PubSub, lookup draft.Lookup, oracle draft.Oracle, sink analytics.Sink, cfg *config.Config) *APIHandlers {
	return &APIHandlers{
		dal:    d,
		pubsub: ps,
		lookup: lookup,
		oracle: oracle,
		sink:   sink,
		cfg:    cfg,
	}
}

// StartDraft starts a native draft for a cube.
func (h *APIHandlers) StartDraft(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		writeError(w, &draft.AuthorizationError{Reason: "you must be logged in to start a draft"})
		return
	}

	var req struct {
		ID    *int `json:"id"`
		Packs *int `json:"packs"`
		Cards *int `json:"cards"`
		Seats *int `json:"seats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode start draft request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := draft.FormatRequest{
		ID:    -1,
		Packs: h.cfg.DefaultPacks,
		Cards: h.cfg.DefaultCards,
		Seats: h.cfg.DefaultSeats,
	}
	if req.ID != nil {
		format.ID = *req.ID
	}
	if req.Packs != nil {
		format.Packs = *req.Packs
	}
	if req.Cards != nil {
		format.Cards = *req.Cards
	}
	if req.Seats != nil {
		format.Seats = *req.Seats
	}

	// Everything below mutates in-memory state only; the PutDraft at the
	// end is the single commit point.
	plan, err := draft.PlanFormat(format, h.cfg.FormatBounds, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	cubeID := r.PathValue("cubeID")
	cube, err := h.dal.GetCube(cubeID)
	if err != nil {
		writeError(w, err)
		return
	}

	pool, err := h.dal.GetCubeCards(cubeID)
	if err != nil {
		writeError(w, err)
		return
	}

	basics, err := h.resolveBasics(cube)
	if err != nil {
		writeError(w, err)
		return
	}

	d, err := draft.NewDraftState(cube, plan, pool, basics, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := h.dal.PutDraft(d)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Draft started", "draft_id", id, "cube_id", cubeID, "seats", plan.Seats)
	h.record(analytics.Event{DraftID: id, Kind: analytics.KindDraftStart})
	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventDraftStart,
		Payload: map[string]interface{}{
			"draftId": id,
			"cubeId":  cubeID,
		},
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"draftId": id})
}

// GetDraft returns a persisted draft.
func (h *APIHandlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.dal.GetDraft(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

// Redraft creates a fresh draft over a completed draft's card pool.
func (h *APIHandlers) Redraft(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		writeError(w, &draft.AuthorizationError{Reason: "you must be logged in to redraft"})
		return
	}

	base, err := h.dal.GetDraft(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	seat, err := strconv.Atoi(r.PathValue("seat"))
	if err != nil || seat < 0 || seat >= len(base.Seats) {
		writeError(w, &draft.ValidationError{Field: "seat", Msg: "invalid seat index to redraft as"})
		return
	}

	d, err := draft.Redraft(base, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := h.dal.PutDraft(d)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Redraft created", "draft_id", id, "base_id", base.ID)
	h.record(analytics.Event{DraftID: id, Kind: analytics.KindDraftRedraft})
	h.pubsub.Publish(pubsub.Event{
		Type:    pubsub.EventDraftRedraft,
		Payload: map[string]interface{}{"draftId": id, "baseId": base.ID},
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"draftId": id})
}

// SaveDeck stores manually edited mainboard/sideboard grids for a seat and
// marks the draft complete.
func (h *APIHandlers) SaveDeck(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		writeError(w, &draft.AuthorizationError{Reason: "you must be logged in to finish a draft"})
		return
	}

	var req struct {
		Seat      int         `json:"seat"`
		Mainboard models.Grid `json:"mainboard"`
		Sideboard models.Grid `json:"sideboard"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.dal.GetDraft(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if d.Owner != user.ID {
		writeError(w, &draft.AuthorizationError{Reason: "you do not own this draft"})
		return
	}
	if req.Seat < 0 || req.Seat >= len(d.Seats) {
		writeError(w, &draft.ValidationError{Field: "seat", Msg: "seat index out of range"})
		return
	}
	if err := validateGrid(req.Mainboard, draft.MainboardRows, len(d.Cards)); err != nil {
		writeError(w, err)
		return
	}
	if err := validateGrid(req.Sideboard, draft.SideboardRows, len(d.Cards)); err != nil {
		writeError(w, err)
		return
	}

	d.Seats[req.Seat].Mainboard = req.Mainboard
	d.Seats[req.Seat].Sideboard = req.Sideboard
	d.Complete = true

	id, err := h.dal.PutDraft(d)
	if err != nil {
		writeError(w, err)
		return
	}

	h.record(analytics.Event{DraftID: id, Kind: analytics.KindDeckSave, Seat: req.Seat})
	h.pubsub.Publish(pubsub.Event{
		Type:    pubsub.EventDeckSave,
		Payload: map[string]interface{}{"draftId": id, "seat": req.Seat},
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// PublishImport accepts an externally drafted session and converts it into a
// canonical draft.
func (h *APIHandlers) PublishImport(w http.ResponseWriter, r *http.Request) {
	var payload models.ImportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn("Failed to decode import payload", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.cfg.DraftmancerAPIKey == "" ||
		subtle.ConstantTimeCompare([]byte(payload.APIKey), []byte(h.cfg.DraftmancerAPIKey)) != 1 {
		writeError(w, &draft.AuthorizationError{Reason: "bad api key"})
		return
	}

	if err := validateImportPayload(&payload); err != nil {
		writeError(w, err)
		return
	}

	cube, err := h.dal.GetCube(payload.CubeID)
	if err != nil {
		writeError(w, err)
		return
	}

	report := func(rerr *draft.ReconciliationError) {
		logger.Warn("Dropped unmatched identity during import", "session_id", payload.SessionID, "oracle_id", rerr.Identity)
		h.record(analytics.Event{
			DraftID:  payload.SessionID,
			Kind:     analytics.KindReconcileDrop,
			OracleID: rerr.Identity,
		})
	}

	d, err := importer.New(h.lookup, h.oracle, report).Import(&payload, cube)
	if err != nil {
		logger.Error("Failed to import draft", "error", err, "session_id", payload.SessionID)
		writeError(w, err)
		return
	}

	id, err := h.dal.PutDraft(d)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Imported draft", "draft_id", id, "session_id", payload.SessionID, "players", len(payload.Players))
	h.record(analytics.Event{DraftID: id, Kind: analytics.KindDraftImport})
	h.pubsub.Publish(pubsub.Event{
		Type:    pubsub.EventDraftImport,
		Payload: map[string]interface{}{"draftId": id, "sessionId": payload.SessionID},
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"draftId": id})
}

func (h *APIHandlers) resolveBasics(cube *models.Cube) ([]models.CardRecord, error) {
	basics := make([]models.CardRecord, 0, len(cube.Basics))
	for _, id := range cube.Basics {
		rec, err := h.lookup.RecordByLocalID(id)
		if err != nil {
			return nil, err
		}
		basics = append(basics, rec)
	}
	return basics, nil
}

func (h *APIHandlers) record(ev analytics.Event) {
	if h.sink == nil {
		return
	}
	if err := h.sink.RecordEvent(ev); err != nil {
		logger.Warn("Failed to record analytics event", "error", err, "kind", ev.Kind)
	}
}

func validateImportPayload(p *models.ImportPayload) error {
	if p.CubeID == "" {
		return &draft.ValidationError{Field: "cubeID", Msg: "required"}
	}
	if p.SessionID == "" {
		return &draft.ValidationError{Field: "sessionID", Msg: "required"}
	}
	if len(p.Players) == 0 {
		return &draft.ValidationError{Field: "players", Msg: "at least one player required"}
	}
	return nil
}

func validateGrid(g models.Grid, rows, tableLen int) error {
	if len(g) != rows {
		return &draft.ValidationError{Field: "grid", Msg: "wrong row count"}
	}
	for _, row := range g {
		if len(row) != draft.GridCols {
			return &draft.ValidationError{Field: "grid", Msg: "wrong column count"}
		}
		for _, cell := range row {
			for _, idx := range cell {
				if idx < 0 || idx >= tableLen {
					return &draft.NotFoundError{Kind: "card index", ID: strconv.Itoa(idx)}
				}
			}
		}
	}
	return nil
}

// writeError maps the core error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		vErr *draft.ValidationError
		nErr *draft.NotFoundError
		aErr *draft.AuthorizationError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
	case errors.As(err, &nErr):
		status = http.StatusNotFound
	case errors.As(err, &aErr):
		status = http.StatusUnauthorized
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
