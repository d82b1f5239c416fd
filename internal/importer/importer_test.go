package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencube/cube-draft-api/internal/carddb"
	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/logger"
	"github.com/opencube/cube-draft-api/internal/models"
)

func init() {
	logger.Init()
}

// fixedOracle mainboards every non-basic identity it is given.
type fixedOracle struct{}

func (fixedOracle) ChooseMainboard(pool, basics []models.CardRecord) []string {
	out := []string{}
	for _, rec := range pool {
		if !rec.IsBasicLand() {
			out = append(out, rec.OracleID)
		}
	}
	return out
}

func testDB() *carddb.MemoryDB {
	return carddb.NewMemoryDB(map[string]models.CardRecord{
		"print-forest": {OracleID: "forest", Name: "Forest", Type: "Basic Land - Forest"},
		"print-island": {OracleID: "island", Name: "Island", Type: "Basic Land - Island"},
		"print-bear":   {OracleID: "bear", Name: "Grizzly Bears", Type: "Creature - Bear", CMC: 2},
		"print-bolt":   {OracleID: "bolt", Name: "Lightning Bolt", Type: "Instant", CMC: 1},
		"print-wurm":   {OracleID: "wurm", Name: "Scaled Wurm", Type: "Creature - Wurm", CMC: 9},
	})
}

func testCube() *models.Cube {
	return &models.Cube{
		ID:     "cube-1",
		Owner:  "alice",
		Basics: []string{"print-forest", "print-island"},
	}
}

func TestImportSeedsBasicsFirst(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "alice",
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear", "bolt"}, Picks: []int{0}},
			},
			Decklist: models.ImportDecklist{Main: []string{"bear"}},
		}},
	}

	d, err := imp.Import(payload, testCube())
	require.NoError(t, err)

	// Basics occupy the lowest indices, established before any booster.
	assert.Equal(t, []int{0, 1}, d.Basics)
	assert.Equal(t, "forest", d.Cards[0].OracleID)
	assert.Equal(t, "island", d.Cards[1].OracleID)
	assert.True(t, d.Complete)
	assert.Equal(t, "cube-1", d.Cube)
	assert.Equal(t, "Draftmancer Draft", d.Name)
}

func TestImportRecordsPicksNotBurns(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "alice",
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear", "bolt", "wurm"}, Picks: []int{1}, Burn: []int{2}},
			},
			Decklist: models.ImportDecklist{Main: []string{"bolt"}},
		}},
	}

	d, err := imp.Import(payload, testCube())
	require.NoError(t, err)

	seat := d.Seats[0]
	require.Len(t, seat.Pickorder, 1)
	picked := d.Cards[seat.Pickorder[0]]
	assert.Equal(t, "bolt", picked.OracleID)
	assert.Empty(t, seat.Trashorder)

	require.NotNil(t, d.ImportLog)
	require.Len(t, d.ImportLog.Players, 1)
	require.Len(t, d.ImportLog.Players[0], 1)
	assert.Equal(t, seat.Pickorder[0], d.ImportLog.Players[0][0].Pick)
}

func TestImportHumanDecklistPlacedDirectly(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "alice",
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear", "bolt"}, Picks: []int{0}},
			},
			Decklist: models.ImportDecklist{Main: []string{"bear"}, Side: []string{"bolt"}},
		}},
	}

	d, err := imp.Import(payload, testCube())
	require.NoError(t, err)

	seat := d.Seats[0]
	assert.False(t, seat.Bot)
	assert.Equal(t, "This deck was drafted on Draftmancer by alice", seat.Description)
	assert.Len(t, seat.Mainboard[0][2], 1, "bear in the creature row at column 2")
	assert.Len(t, seat.Sideboard[0][1], 1, "bolt sideboarded")
}

func TestImportBotDeckBuilt(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "Bot 1",
			IsBot:    true,
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear", "bolt"}, Picks: []int{0}},
				{Booster: []string{"bolt", "wurm"}, Picks: []int{1}},
			},
		}},
	}

	d, err := imp.Import(payload, testCube())
	require.NoError(t, err)

	seat := d.Seats[0]
	assert.True(t, seat.Bot)
	assert.Equal(t, "This deck was drafted by a bot on Draftmancer", seat.Description)

	// fixedOracle mainboards the whole pool: bear and wurm.
	assert.Len(t, seat.Mainboard[0][2], 1)
	assert.Len(t, seat.Mainboard[0][7], 1)
}

func TestImportBotDecklistIdentityUpserted(t *testing.T) {
	// A decklist can name a card that never appeared in a pick event. The
	// identity still joins the shared table even though the bot's grids are
	// rebuilt from its pool afterwards.
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "Bot 1",
			IsBot:    true,
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear"}, Picks: []int{0}},
			},
			Decklist: models.ImportDecklist{Main: []string{"wurm"}},
		}},
	}

	d, err := imp.Import(payload, testCube())
	require.NoError(t, err)

	oracles := map[string]bool{}
	for _, rec := range d.Cards {
		oracles[rec.OracleID] = true
	}
	assert.True(t, oracles["wurm"], "decklist identity must be in the table")
}

func TestImportOffsetOutsideBooster(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "alice",
			Picks: []models.ImportPickEvent{
				{Booster: []string{"bear"}, Picks: []int{3}},
			},
		}},
	}

	_, err := imp.Import(payload, testCube())
	var ve *draft.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "player 0 (alice)")
}

func TestImportUnknownBoosterIdentity(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	payload := &models.ImportPayload{
		SessionID: "sess-1",
		Players: []models.ImportPlayer{{
			UserName: "alice",
			Picks: []models.ImportPickEvent{
				{Booster: []string{"phantom"}, Picks: []int{0}},
			},
		}},
	}

	_, err := imp.Import(payload, testCube())
	var nf *draft.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestImportUnknownBasicPrinting(t *testing.T) {
	imp := New(testDB(), fixedOracle{}, nil)

	cube := testCube()
	cube.Basics = []string{"print-missing"}

	_, err := imp.Import(&models.ImportPayload{SessionID: "s"}, cube)
	var nf *draft.NotFoundError
	require.ErrorAs(t, err, &nf)
}
