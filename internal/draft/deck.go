package draft

import "github.com/opencube/cube-draft-api/internal/models"

// Oracle chooses mainboard membership for a pool. It operates on card
// records and answers in oracle identities because it has no notion of a
// draft's index numbering.
type Oracle interface {
	ChooseMainboard(pool, basics []models.CardRecord) []string
}

// Reporter receives recoverable reconciliation drops for diagnostics.
// A nil Reporter discards them.
type Reporter func(err *ReconciliationError)

// BuildDeck turns a seat's pool plus the basics set into populated
// mainboard/sideboard grids.
//
// The oracle's identity answers are matched back to pool indices through a
// removable multiset keyed by identity: each answer consumes the oldest
// remaining pool index for that identity. Identities absent from the pool
// fall back to the basics set, which is never consumed (supply is infinite).
// Identities matching neither are dropped and reported.
//
// Every non-basic pool index ends up in exactly one of mainboard or
// sideboard.
func BuildDeck(table *CardTable, pool []int, basics []int, oracle Oracle, report Reporter) (models.Grid, models.Grid, error) {
	poolRecs, err := table.Records(pool)
	if err != nil {
		return nil, nil, err
	}
	basicRecs, err := table.Records(basics)
	if err != nil {
		return nil, nil, err
	}

	// FIFO of available pool indices per identity.
	available := make(map[string][]int, len(pool))
	for i, rec := range poolRecs {
		available[rec.OracleID] = append(available[rec.OracleID], pool[i])
	}

	basicByOracle := make(map[string]int, len(basics))
	isBasic := make(map[int]bool, len(basics))
	for i, rec := range basicRecs {
		if _, ok := basicByOracle[rec.OracleID]; !ok {
			basicByOracle[rec.OracleID] = basics[i]
		}
		isBasic[basics[i]] = true
	}

	chosen := []int{}
	fromPool := make(map[int]int) // index -> times consumed from the pool

	for _, oracleID := range oracle.ChooseMainboard(poolRecs, basicRecs) {
		if q := available[oracleID]; len(q) > 0 {
			chosen = append(chosen, q[0])
			fromPool[q[0]]++
			available[oracleID] = q[1:]
			continue
		}
		if idx, ok := basicByOracle[oracleID]; ok {
			chosen = append(chosen, idx)
			continue
		}
		if report != nil {
			report(&ReconciliationError{Identity: oracleID})
		}
	}

	mainboard := NewMainboard()
	sideboard := NewSideboard()

	for _, idx := range chosen {
		rec, err := table.Get(idx)
		if err != nil {
			return nil, nil, err
		}
		PlaceMain(mainboard, rec, idx)
	}

	// Unchosen, non-basic pool cards go to the sideboard in pool order.
	for i, idx := range pool {
		if fromPool[idx] > 0 {
			fromPool[idx]--
			continue
		}
		if isBasic[idx] {
			continue
		}
		PlaceSide(sideboard, poolRecs[i], idx)
	}

	return mainboard, sideboard, nil
}
