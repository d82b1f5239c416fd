package draft

import (
	"strconv"

	"github.com/opencube/cube-draft-api/internal/models"
)

// CardTable is a draft's append-only card list. A given oracle identity maps
// to exactly one position for the lifetime of the draft; positions are the
// sole addressing unit used by seats, grids and ledgers.
type CardTable struct {
	cards    []models.CardRecord
	byOracle map[string]int
}

// NewCardTable returns an empty card table.
func NewCardTable() *CardTable {
	return &CardTable{byOracle: make(map[string]int)}
}

// NewCardTableFrom builds a table over an existing card list, e.g. the Cards
// of a persisted draft. Reprints sharing an oracle identity keep the position
// of their first occurrence.
func NewCardTableFrom(cards []models.CardRecord) *CardTable {
	t := &CardTable{
		cards:    make([]models.CardRecord, len(cards)),
		byOracle: make(map[string]int, len(cards)),
	}
	copy(t.cards, cards)
	for i, c := range cards {
		if _, ok := t.byOracle[c.OracleID]; !ok {
			t.byOracle[c.OracleID] = i
		}
	}
	return t
}

// Upsert returns the position of the record's identity, appending the record
// only if the identity has not been seen before.
func (t *CardTable) Upsert(rec models.CardRecord) int {
	if i, ok := t.byOracle[rec.OracleID]; ok {
		return i
	}
	t.cards = append(t.cards, rec)
	i := len(t.cards) - 1
	t.byOracle[rec.OracleID] = i
	return i
}

// Get returns the record at a position, or a NotFoundError for an index
// outside the table.
func (t *CardTable) Get(index int) (models.CardRecord, error) {
	if index < 0 || index >= len(t.cards) {
		return models.CardRecord{}, &NotFoundError{Kind: "card index", ID: strconv.Itoa(index)}
	}
	return t.cards[index], nil
}

// Len returns the number of records in the table.
func (t *CardTable) Len() int {
	return len(t.cards)
}

// Cards returns a copy of the table contents, suitable for persisting.
func (t *CardTable) Cards() []models.CardRecord {
	out := make([]models.CardRecord, len(t.cards))
	copy(out, t.cards)
	return out
}

// Records resolves a list of positions to their records. Fails on the first
// invalid position.
func (t *CardTable) Records(indices []int) ([]models.CardRecord, error) {
	out := make([]models.CardRecord, 0, len(indices))
	for _, i := range indices {
		rec, err := t.Get(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
