package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opencube/cube-draft-api/internal/analytics"
	"github.com/opencube/cube-draft-api/internal/auth"
	"github.com/opencube/cube-draft-api/internal/carddb"
	"github.com/opencube/cube-draft-api/internal/config"
	"github.com/opencube/cube-draft-api/internal/dal"
	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/logger"
	"github.com/opencube/cube-draft-api/internal/mocks"
	"github.com/opencube/cube-draft-api/internal/models"
	"github.com/opencube/cube-draft-api/internal/pubsub"
)

func init() {
	logger.Init()
}

// poolOracle mainboards every non-basic pool identity.
type poolOracle struct{}

func (poolOracle) ChooseMainboard(pool, basics []models.CardRecord) []string {
	out := []string{}
	for _, rec := range pool {
		if !rec.IsBasicLand() {
			out = append(out, rec.OracleID)
		}
	}
	return out
}

type testEnv struct {
	handlers *APIHandlers
	dal      dal.DraftDAL
	sink     *mocks.MockAnalyticsSink
	auth     *auth.MockAuth
	cubeID   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := dal.NewMemoryDAL()

	cube := &models.Cube{Name: "Test Cube", Owner: "dev-user", Basics: []string{"print-forest"}}
	if err := store.PutCube(cube); err != nil {
		t.Fatalf("PutCube() failed: %v", err)
	}

	cards := make([]models.CardRecord, 8)
	for i := range cards {
		cards[i] = models.CardRecord{
			OracleID: "oracle-" + string(rune('a'+i)),
			Name:     "Card " + string(rune('A'+i)),
			Type:     "Creature - Test",
			CMC:      float64(i),
		}
	}
	if err := store.PutCubeCards(cube.ID, cards); err != nil {
		t.Fatalf("PutCubeCards() failed: %v", err)
	}

	db := carddb.NewMemoryDB(map[string]models.CardRecord{
		"print-forest": {OracleID: "forest", Name: "Forest", Type: "Basic Land - Forest"},
		"print-bear":   {OracleID: "bear", Name: "Grizzly Bears", Type: "Creature - Bear", CMC: 2},
		"print-bolt":   {OracleID: "bolt", Name: "Lightning Bolt", Type: "Instant", CMC: 1},
	})

	sink := mocks.NewMockAnalyticsSink()
	cfg := &config.Config{
		DraftmancerAPIKey: "secret",
		FormatBounds:      draft.DefaultFormatBounds(),
		DefaultPacks:      2,
		DefaultCards:      2,
		DefaultSeats:      2,
	}

	return &testEnv{
		handlers: NewAPIHandlers(store, pubsub.New(), db, poolOracle{}, sink, cfg),
		dal:      store,
		sink:     sink,
		auth:     auth.NewMockAuth(),
		cubeID:   cube.ID,
	}
}

// do routes a request through a mux with the production patterns so path
// values resolve, wrapping handlers in the mock auth middleware when authed.
func (e *testEnv) do(t *testing.T, authed bool, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		if authed {
			return e.auth.Middleware(h)
		}
		return h
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/draft/start/{cubeID}", wrap(e.handlers.StartDraft))
	mux.HandleFunc("GET /api/draft/{id}", wrap(e.handlers.GetDraft))
	mux.HandleFunc("POST /api/draft/redraft/{id}/{seat}", wrap(e.handlers.Redraft))
	mux.HandleFunc("POST /api/draft/{id}/deck", wrap(e.handlers.SaveDeck))
	mux.HandleFunc("POST /api/draftmancer/publish", e.handlers.PublishImport)

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) startDraft(t *testing.T) string {
	t.Helper()
	rec := e.do(t, true, http.MethodPost, "/api/draft/start/"+e.cubeID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("StartDraft status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["draftId"] == "" {
		t.Fatal("StartDraft returned no draftId")
	}
	return resp["draftId"]
}

func TestStartDraft(t *testing.T) {
	env := newTestEnv(t)

	id := env.startDraft(t)

	d, err := env.dal.GetDraft(id)
	if err != nil {
		t.Fatalf("GetDraft() failed: %v", err)
	}
	if len(d.Seats) != 2 {
		t.Errorf("seats = %d, want 2", len(d.Seats))
	}
	if d.Seats[0].Owner != "dev-user" {
		t.Errorf("seat 0 owner = %q", d.Seats[0].Owner)
	}
	if len(d.InitialState) != 2 || len(d.InitialState[0]) != 2 {
		t.Errorf("initial state shape wrong: %d seats", len(d.InitialState))
	}

	events := env.sink.Events()
	if len(events) != 1 || events[0].Kind != analytics.KindDraftStart {
		t.Errorf("analytics events = %+v", events)
	}
}

func TestStartDraftUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, false, http.MethodPost, "/api/draft/start/"+env.cubeID, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestStartDraftUnknownCube(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, true, http.MethodPost, "/api/draft/start/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStartDraftFormatOutOfBounds(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]int{"packs": 99}
	rec := env.do(t, true, http.MethodPost, "/api/draft/start/"+env.cubeID, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStartDraftPoolTooSmall(t *testing.T) {
	env := newTestEnv(t)

	// 8 cards in the cube; 3 packs of 15 for 8 seats cannot be dealt.
	body := map[string]int{"packs": 3, "cards": 15, "seats": 8}
	rec := env.do(t, true, http.MethodPost, "/api/draft/start/"+env.cubeID, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestGetDraftNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, false, http.MethodGet, "/api/draft/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRedraft(t *testing.T) {
	env := newTestEnv(t)

	baseID := env.startDraft(t)

	rec := env.do(t, true, http.MethodPost, "/api/draft/redraft/"+baseID+"/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Redraft status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["draftId"] == baseID {
		t.Error("redraft reused the base draft id")
	}

	fresh, err := env.dal.GetDraft(resp["draftId"])
	if err != nil {
		t.Fatalf("GetDraft() failed: %v", err)
	}
	base, _ := env.dal.GetDraft(baseID)
	if len(fresh.Cards) != len(base.Cards) {
		t.Error("redraft changed the card table")
	}
	if fresh.Complete {
		t.Error("redraft started complete")
	}
}

func TestRedraftInvalidSeat(t *testing.T) {
	env := newTestEnv(t)

	baseID := env.startDraft(t)

	rec := env.do(t, true, http.MethodPost, "/api/draft/redraft/"+baseID+"/9", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSaveDeck(t *testing.T) {
	env := newTestEnv(t)

	id := env.startDraft(t)

	main := draft.NewMainboard()
	main[0][0] = append(main[0][0], 0)
	body := map[string]any{"seat": 0, "mainboard": main, "sideboard": draft.NewSideboard()}

	rec := env.do(t, true, http.MethodPost, "/api/draft/"+id+"/deck", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveDeck status = %d, body %s", rec.Code, rec.Body.String())
	}

	d, err := env.dal.GetDraft(id)
	if err != nil {
		t.Fatalf("GetDraft() failed: %v", err)
	}
	if !d.Complete {
		t.Error("SaveDeck did not mark the draft complete")
	}
	if len(d.Seats[0].Mainboard[0][0]) != 1 {
		t.Error("mainboard not persisted")
	}
}

func TestSaveDeckWrongOwner(t *testing.T) {
	env := newTestEnv(t)

	id := env.startDraft(t)
	d, _ := env.dal.GetDraft(id)
	d.Owner = "someone-else"
	if _, err := env.dal.PutDraft(d); err != nil {
		t.Fatalf("PutDraft() failed: %v", err)
	}

	body := map[string]any{"seat": 0, "mainboard": draft.NewMainboard(), "sideboard": draft.NewSideboard()}
	rec := env.do(t, true, http.MethodPost, "/api/draft/"+id+"/deck", body)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSaveDeckBadGrid(t *testing.T) {
	env := newTestEnv(t)

	id := env.startDraft(t)

	// Mainboard with one row instead of two.
	body := map[string]any{"seat": 0, "mainboard": draft.NewSideboard(), "sideboard": draft.NewSideboard()}
	rec := env.do(t, true, http.MethodPost, "/api/draft/"+id+"/deck", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// Index outside the card table.
	main := draft.NewMainboard()
	main[0][0] = append(main[0][0], 999)
	body = map[string]any{"seat": 0, "mainboard": main, "sideboard": draft.NewSideboard()}
	rec = env.do(t, true, http.MethodPost, "/api/draft/"+id+"/deck", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func importPayload(env *testEnv, apiKey string) *models.ImportPayload {
	return &models.ImportPayload{
		CubeID:    env.cubeID,
		SessionID: "sess-1",
		APIKey:    apiKey,
		Players: []models.ImportPlayer{{
			UserName: "alice",
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear", "bolt"}, Picks: []int{0}},
			},
			Decklist: models.ImportDecklist{Main: []string{"bear"}},
		}},
	}
}

func TestPublishImport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, false, http.MethodPost, "/api/draftmancer/publish", importPayload(env, "secret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("PublishImport status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	d, err := env.dal.GetDraft(resp["draftId"])
	if err != nil {
		t.Fatalf("GetDraft() failed: %v", err)
	}
	if !d.Complete {
		t.Error("imported draft not complete")
	}
	if d.ImportLog == nil || d.ImportLog.SessionID != "sess-1" {
		t.Errorf("import log = %+v", d.ImportLog)
	}
}

func TestPublishImportBadAPIKey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, false, http.MethodPost, "/api/draftmancer/publish", importPayload(env, "wrong"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPublishImportNoConfiguredKey(t *testing.T) {
	env := newTestEnv(t)
	env.handlers.cfg.DraftmancerAPIKey = ""

	// An unset server key must reject everything, including empty keys.
	rec := env.do(t, false, http.MethodPost, "/api/draftmancer/publish", importPayload(env, ""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPublishImportMissingFields(t *testing.T) {
	env := newTestEnv(t)

	payload := importPayload(env, "secret")
	payload.Players = nil

	rec := env.do(t, false, http.MethodPost, "/api/draftmancer/publish", payload)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
