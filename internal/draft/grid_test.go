package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencube/cube-draft-api/internal/models"
)

func TestGridCellsAreIndependent(t *testing.T) {
	grid := NewMainboard()

	grid[0][0] = append(grid[0][0], 7)

	assert.Len(t, grid[0][0], 1)
	assert.Empty(t, grid[0][1], "writing one cell must not leak into its neighbor")
	assert.Empty(t, grid[1][0])
}

func TestColumnClamps(t *testing.T) {
	cases := []struct {
		cmc  float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{3.5, 3},
		{7, 7},
		{12, 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Column(tc.cmc), "cmc %v", tc.cmc)
	}
}

func TestRowPlacement(t *testing.T) {
	creature := models.CardRecord{Type: "Creature - Elf", CMC: 2}
	basic := models.CardRecord{Name: "Forest", Type: "Basic Land - Forest"}
	spell := models.CardRecord{Type: "Instant", CMC: 1}

	assert.Equal(t, 0, Row(creature))
	assert.Equal(t, 0, Row(basic))
	assert.Equal(t, 1, Row(spell))
}

func TestPlaceMainSpellsAndCreatures(t *testing.T) {
	grid := NewMainboard()

	PlaceMain(grid, models.CardRecord{Type: "Creature - Bear", CMC: 2}, 0)
	PlaceMain(grid, models.CardRecord{Type: "Sorcery", CMC: 9}, 1)

	assert.Equal(t, []int{0}, grid[0][2])
	assert.Equal(t, []int{1}, grid[1][7])
}
