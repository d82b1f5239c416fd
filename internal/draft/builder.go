package draft

import (
	"fmt"
	"time"

	"github.com/opencube/cube-draft-api/internal/models"
)

// DraftType tags for persisted drafts.
const (
	TypeDraft = "d"
)

// NewDraftState allocates a fully seeded draft: a card table over the cube
// pool, basics appended after the pool, generated packs attached as the
// initial state, and one empty seat per planned player. Seat 0 belongs to the
// initiating user; the remaining seats are bots until humans claim them.
//
// Nothing is persisted here; the caller commits the returned draft through
// the DAL once assembly succeeds.
func NewDraftState(cube *models.Cube, plan *Plan, pool []models.CardRecord, basics []models.CardRecord, owner string) (*models.Draft, error) {
	if len(pool) == 0 {
		return nil, &ValidationError{Field: "pool", Msg: "cube has no cards"}
	}

	// The pool keeps one position per physical copy; only basics and import
	// paths dedupe by identity.
	table := NewCardTableFrom(pool)

	poolIndices := make([]int, len(pool))
	for i := range poolIndices {
		poolIndices[i] = i
	}

	packs, err := plan.Generator.Generate(poolIndices)
	if err != nil {
		return nil, err
	}
	if len(packs) != plan.Packs*plan.Seats {
		return nil, &ValidationError{
			Field: "format",
			Msg:   fmt.Sprintf("generator produced %d packs, want %d", len(packs), plan.Packs*plan.Seats),
		}
	}

	// Basics join the table after the pool so pool indices stay dense.
	basicIndices := make([]int, 0, len(basics))
	for _, rec := range basics {
		basicIndices = append(basicIndices, table.Upsert(rec))
	}

	initialState := make([][][]int, plan.Seats)
	for s := 0; s < plan.Seats; s++ {
		initialState[s] = make([][]int, plan.Packs)
		for p := 0; p < plan.Packs; p++ {
			initialState[s][p] = packs[p*plan.Seats+s]
		}
	}

	seats := make([]models.Seat, plan.Seats)
	for s := range seats {
		seats[s] = NewSeat(fmt.Sprintf("Seat %d", s+1))
		if s == 0 {
			seats[s].Owner = owner
			seats[s].Description = "Drafted by " + owner
		} else {
			seats[s].Bot = true
			seats[s].Description = "Drafted by a bot"
		}
	}

	return &models.Draft{
		Cube:         cube.ID,
		CubeOwner:    cube.Owner,
		Owner:        owner,
		Date:         time.Now().UnixMilli(),
		Type:         TypeDraft,
		Cards:        table.Cards(),
		Basics:       basicIndices,
		Seats:        seats,
		InitialState: initialState,
	}, nil
}

// NewSeat returns an empty seat: fresh grids, empty ledgers.
func NewSeat(name string) models.Seat {
	return models.Seat{
		Name:       name,
		Mainboard:  NewMainboard(),
		Sideboard:  NewSideboard(),
		Pickorder:  []int{},
		Trashorder: []int{},
	}
}
