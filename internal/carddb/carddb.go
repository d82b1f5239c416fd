// Package carddb provides the card lookup collaborator: resolving printing
// ids and oracle identities to card records.
package carddb

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/models"
)

// MemoryDB is an in-memory card database loaded once at startup.
type MemoryDB struct {
	byLocalID map[string]models.CardRecord
	byOracle  map[string][]models.CardRecord
}

// entry is the on-disk shape: a record plus its printing id.
type entry struct {
	LocalID string            `json:"localId"`
	Card    models.CardRecord `json:"card"`
}

// NewMemoryDB builds a database from records keyed by printing id.
func NewMemoryDB(records map[string]models.CardRecord) *MemoryDB {
	db := &MemoryDB{
		byLocalID: make(map[string]models.CardRecord, len(records)),
		byOracle:  make(map[string][]models.CardRecord),
	}
	for id, rec := range records {
		db.byLocalID[id] = rec
		db.byOracle[rec.OracleID] = append(db.byOracle[rec.OracleID], rec)
	}
	return db
}

// LoadFile reads a JSON card file (array of {localId, card} entries).
func LoadFile(path string) (*MemoryDB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card database: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse card database: %w", err)
	}

	records := make(map[string]models.CardRecord, len(entries))
	for _, e := range entries {
		records[e.LocalID] = e.Card
	}
	return NewMemoryDB(records), nil
}

// RecordByLocalID returns the record for a printing id.
func (db *MemoryDB) RecordByLocalID(id string) (models.CardRecord, error) {
	rec, ok := db.byLocalID[id]
	if !ok {
		return models.CardRecord{}, &draft.NotFoundError{Kind: "card", ID: id}
	}
	return rec, nil
}

// RepresentativeRecordByOracle returns one canonical printing for an oracle
// identity: the first printing loaded for it.
func (db *MemoryDB) RepresentativeRecordByOracle(oracleID string) (models.CardRecord, error) {
	printings := db.byOracle[oracleID]
	if len(printings) == 0 {
		return models.CardRecord{}, &draft.NotFoundError{Kind: "oracle", ID: oracleID}
	}
	return printings[0], nil
}
