package draft

import (
	"math"

	"github.com/opencube/cube-draft-api/internal/models"
)

// Grid shape constants. Mainboards have a creature row and a spell row;
// sideboards a single row. Columns are mana value buckets 0..7, where 7
// means "7 or more".
const (
	MainboardRows = 2
	SideboardRows = 1
	GridCols      = 8
)

// NewGrid allocates a grid of the given shape. Every cell is an
// independently owned empty slice: cells are appended to in place, so they
// must never alias one another.
func NewGrid(rows, cols int) models.Grid {
	g := make(models.Grid, rows)
	for r := range g {
		g[r] = make([][]int, cols)
		for c := range g[r] {
			g[r][c] = []int{}
		}
	}
	return g
}

// NewMainboard allocates an empty 2x8 mainboard grid.
func NewMainboard() models.Grid {
	return NewGrid(MainboardRows, GridCols)
}

// NewSideboard allocates an empty 1x8 sideboard grid.
func NewSideboard() models.Grid {
	return NewGrid(SideboardRows, GridCols)
}

// Column returns the mana value bucket for a cost: clamp(floor(cmc), 0, 7).
func Column(cmc float64) int {
	col := int(math.Floor(cmc))
	if col < 0 {
		col = 0
	}
	if col > GridCols-1 {
		col = GridCols - 1
	}
	return col
}

// Row returns the mainboard row for a card: creatures and basic lands on
// row 0, everything else on row 1. The basic-land rule is applied uniformly
// across all placement paths.
func Row(rec models.CardRecord) int {
	if rec.IsCreature() || rec.IsBasicLand() {
		return 0
	}
	return 1
}

// PlaceMain appends an index to the mainboard cell for its record.
func PlaceMain(g models.Grid, rec models.CardRecord, index int) {
	g[Row(rec)][Column(rec.CMC)] = append(g[Row(rec)][Column(rec.CMC)], index)
}

// PlaceSide appends an index to the sideboard cell for its record.
func PlaceSide(g models.Grid, rec models.CardRecord, index int) {
	g[0][Column(rec.CMC)] = append(g[0][Column(rec.CMC)], index)
}
