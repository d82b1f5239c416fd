package draft

import (
	"strconv"

	"github.com/opencube/cube-draft-api/internal/models"
)

// RecordPick appends a picked index to the seat's pick order. The index must
// be a valid card table position; no ownership or duplicate check happens
// here, those are deck-assembly invariants.
func RecordPick(seat *models.Seat, table *CardTable, index int) error {
	if index < 0 || index >= table.Len() {
		return &NotFoundError{Kind: "card index", ID: strconv.Itoa(index)}
	}
	seat.Pickorder = append(seat.Pickorder, index)
	return nil
}

// RecordBurn appends a burned index to the seat's trash order. Burned cards
// never enter the seat's pool.
func RecordBurn(seat *models.Seat, table *CardTable, index int) error {
	if index < 0 || index >= table.Len() {
		return &NotFoundError{Kind: "card index", ID: strconv.Itoa(index)}
	}
	seat.Trashorder = append(seat.Trashorder, index)
	return nil
}

// Pool returns the seat's resulting pool: the full pick order. Burns are
// excluded by construction, not by filtering.
func Pool(seat *models.Seat) []int {
	out := make([]int, len(seat.Pickorder))
	copy(out, seat.Pickorder)
	return out
}
