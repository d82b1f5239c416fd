package models

import "strings"

// CardRecord is an immutable snapshot of one printing of a card. Records are
// owned by a draft's card table; seats refer to them by table index only.
type CardRecord struct {
	OracleID      string   `json:"oracleId"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	CMC           float64  `json:"cmc"`
	Colors        []string `json:"colors,omitempty"`
	ColorCategory string   `json:"colorCategory,omitempty"`
	ImageNormal   string   `json:"imageNormal,omitempty"`
}

// IsCreature reports whether the card's type line includes Creature.
func (c CardRecord) IsCreature() bool {
	return strings.Contains(strings.ToLower(c.Type), "creature")
}

// IsBasicLand reports whether the card is a basic land.
func (c CardRecord) IsBasicLand() bool {
	t := strings.ToLower(c.Type)
	return strings.Contains(t, "basic") && strings.Contains(t, "land")
}

// Grid is a fixed-shape layout of card table indices: grid[row][column] is an
// ordered list of indices. Mainboards are 2x8 (creature row / spell row, by
// mana value bucket), sideboards 1x8.
type Grid [][][]int

// Seat is one participant's slot in a draft.
type Seat struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	Bot         bool   `json:"bot"`
	Mainboard   Grid   `json:"mainboard"`
	Sideboard   Grid   `json:"sideboard"`
	Pickorder   []int  `json:"pickorder"`
	Trashorder  []int  `json:"trashorder"`
}

// Draft owns one card table (Cards), one basics set and its seats. It is
// mutated in memory only; persistence is the single commit point.
type Draft struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Cube      string       `json:"cube"`
	CubeOwner string       `json:"cubeOwner,omitempty"`
	Owner     string       `json:"owner,omitempty"`
	Date      int64        `json:"date"`
	Type      string       `json:"type"`
	Cards     []CardRecord `json:"cards"`
	Basics    []int        `json:"basics"`
	Seats     []Seat       `json:"seats"`
	Complete  bool         `json:"complete"`

	// InitialState holds the generated packs per seat for native drafts:
	// InitialState[seat][pack] is a list of card table indices. Imported
	// drafts have no initial state because pack contents are only known per
	// pick event.
	InitialState [][][]int `json:"initialState,omitempty"`

	// ImportLog records the per-player pick sequence of an imported session.
	ImportLog *ImportLog `json:"importLog,omitempty"`
}

// ImportLog is the reconstructed log of an externally drafted session.
type ImportLog struct {
	SessionID string         `json:"sessionID"`
	Players   [][]ImportPick `json:"players"`
}

// ImportPick is a single resolved pick: the booster as table indices and the
// index that was taken from it.
type ImportPick struct {
	Booster []int `json:"booster"`
	Pick    int   `json:"pick"`
}

// Cube is the draft pool source. Basics are printing ids resolved through
// the card lookup; the pool itself is stored separately (see
// DraftDAL.GetCubeCards).
type Cube struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Owner  string   `json:"owner"`
	Basics []string `json:"basics"`
}
