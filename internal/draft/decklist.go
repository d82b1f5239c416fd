package draft

import "github.com/opencube/cube-draft-api/internal/models"

// Lookup resolves cards from the global card database. RecordByLocalID keys
// on a printing id; RepresentativeRecordByOracle returns one canonical
// printing for a dedupe identity.
type Lookup interface {
	RecordByLocalID(id string) (models.CardRecord, error)
	RepresentativeRecordByOracle(oracleID string) (models.CardRecord, error)
}

// PlaceDecklist places a human-authored decklist into fresh grids. The
// player already decided membership, so no oracle is involved: each identity
// is upserted into the table and placed by the standard row/column rules.
func PlaceDecklist(table *CardTable, lookup Lookup, main, side []string) (models.Grid, models.Grid, error) {
	mainboard := NewMainboard()
	sideboard := NewSideboard()

	for _, oracleID := range main {
		idx, rec, err := upsertByOracle(table, lookup, oracleID)
		if err != nil {
			return nil, nil, err
		}
		PlaceMain(mainboard, rec, idx)
	}

	for _, oracleID := range side {
		idx, rec, err := upsertByOracle(table, lookup, oracleID)
		if err != nil {
			return nil, nil, err
		}
		PlaceSide(sideboard, rec, idx)
	}

	return mainboard, sideboard, nil
}

func upsertByOracle(table *CardTable, lookup Lookup, oracleID string) (int, models.CardRecord, error) {
	rec, err := lookup.RepresentativeRecordByOracle(oracleID)
	if err != nil {
		return 0, models.CardRecord{}, err
	}
	idx := table.Upsert(rec)
	return idx, rec, nil
}
