package draft

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencube/cube-draft-api/internal/models"
)

func testPool(n int) []models.CardRecord {
	pool := make([]models.CardRecord, n)
	for i := range pool {
		pool[i] = card(
			"oracle-"+string(rune('a'+i%26))+string(rune('a'+i/26)),
			"Card",
			"Creature - Test",
			float64(i%8),
		)
	}
	return pool
}

func testPlan(t *testing.T, packs, cards, seats int) *Plan {
	t.Helper()
	gen := &ShuffleGenerator{Packs: packs, Cards: cards, Seats: seats, Rand: rand.New(rand.NewSource(42))}
	plan, err := PlanFormat(FormatRequest{ID: -1, Packs: packs, Cards: cards, Seats: seats}, DefaultFormatBounds(), gen)
	require.NoError(t, err)
	return plan
}

func TestNewDraftStateSeats(t *testing.T) {
	cube := &models.Cube{ID: "c1", Owner: "alice"}
	basics := []models.CardRecord{card("forest", "Forest", "Basic Land - Forest", 0)}

	d, err := NewDraftState(cube, testPlan(t, 2, 3, 2), testPool(12), basics, "alice")
	require.NoError(t, err)

	require.Len(t, d.Seats, 2)
	assert.Equal(t, "alice", d.Seats[0].Owner)
	assert.False(t, d.Seats[0].Bot)
	assert.True(t, d.Seats[1].Bot)
	assert.Equal(t, "Drafted by alice", d.Seats[0].Description)
	assert.Equal(t, TypeDraft, d.Type)
	assert.False(t, d.Complete)
}

func TestNewDraftStateBasicsAfterPool(t *testing.T) {
	cube := &models.Cube{ID: "c1", Owner: "alice"}
	pool := testPool(12)
	basics := []models.CardRecord{
		card("forest", "Forest", "Basic Land - Forest", 0),
		card("island", "Island", "Basic Land - Island", 0),
	}

	d, err := NewDraftState(cube, testPlan(t, 2, 3, 2), pool, basics, "alice")
	require.NoError(t, err)

	assert.Equal(t, []int{12, 13}, d.Basics)
	assert.Len(t, d.Cards, 14)
}

func TestNewDraftStateInitialStateShape(t *testing.T) {
	cube := &models.Cube{ID: "c1", Owner: "alice"}

	d, err := NewDraftState(cube, testPlan(t, 2, 3, 2), testPool(12), nil, "alice")
	require.NoError(t, err)

	require.Len(t, d.InitialState, 2)
	for seat := range d.InitialState {
		require.Len(t, d.InitialState[seat], 2)
		for pack := range d.InitialState[seat] {
			assert.Len(t, d.InitialState[seat][pack], 3)
		}
	}
}

func TestNewDraftStateEmptyPool(t *testing.T) {
	cube := &models.Cube{ID: "c1", Owner: "alice"}

	_, err := NewDraftState(cube, testPlan(t, 2, 3, 2), nil, nil, "alice")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "pool", ve.Field)
}

func TestRedraftResetsSeats(t *testing.T) {
	cube := &models.Cube{ID: "c1", Owner: "alice"}
	basics := []models.CardRecord{card("forest", "Forest", "Basic Land - Forest", 0)}

	base, err := NewDraftState(cube, testPlan(t, 1, 3, 4), testPool(12), basics, "alice")
	require.NoError(t, err)

	table := NewCardTableFrom(base.Cards)
	for i := range base.Seats {
		require.NoError(t, RecordPick(&base.Seats[i], table, i))
	}
	base.Complete = true

	fresh, err := Redraft(base, "bob")
	require.NoError(t, err)

	assert.Equal(t, base.Cards, fresh.Cards)
	assert.Equal(t, base.Basics, fresh.Basics)
	assert.Equal(t, base.InitialState, fresh.InitialState)
	assert.False(t, fresh.Complete)
	assert.Equal(t, "bob", fresh.Owner)
	assert.Equal(t, "bob", fresh.Seats[0].Owner)
	for i, seat := range fresh.Seats {
		assert.Empty(t, seat.Pickorder, "seat %d", i)
		assert.Empty(t, seat.Trashorder, "seat %d", i)
		assert.Equal(t, base.Seats[i].Bot && i != 0, seat.Bot, "seat %d", i)
	}
}

func TestRedraftNilBase(t *testing.T) {
	_, err := Redraft(nil, "bob")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLedgerBoundsChecked(t *testing.T) {
	table := NewCardTable()
	table.Upsert(card("bear", "Grizzly Bears", "Creature - Bear", 2))
	seat := NewSeat("Seat 1")

	require.NoError(t, RecordPick(&seat, table, 0))
	assert.Equal(t, []int{0}, Pool(&seat))

	var nf *NotFoundError
	require.ErrorAs(t, RecordPick(&seat, table, 3), &nf)
	require.ErrorAs(t, RecordBurn(&seat, table, -1), &nf)

	require.NoError(t, RecordBurn(&seat, table, 0))
	assert.Equal(t, []int{0}, seat.Trashorder)
	assert.Equal(t, []int{0}, Pool(&seat), "burns never enter the pool")
}
