// Package importer reconciles an externally drafted session (identity-keyed)
// into the canonical index-keyed draft model.
package importer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/logger"
	"github.com/opencube/cube-draft-api/internal/models"
)

// Importer converts an import payload into one canonical draft. All players
// share a single card table and basics set; players are processed in input
// order because later upserts depend on the table state left by earlier ones.
type Importer struct {
	Lookup draft.Lookup
	Oracle draft.Oracle
	Report draft.Reporter
}

// New returns an importer over the given collaborators.
func New(lookup draft.Lookup, oracle draft.Oracle, report draft.Reporter) *Importer {
	return &Importer{Lookup: lookup, Oracle: oracle, Report: report}
}

// Import builds the draft in memory. Nothing is persisted here, so any error
// leaves no partial state behind.
func (imp *Importer) Import(payload *models.ImportPayload, cube *models.Cube) (*models.Draft, error) {
	table := draft.NewCardTable()

	// Basics are seeded first so their indices are established, and stay
	// stable, before any pack processing.
	basics := make([]int, 0, len(cube.Basics))
	for _, cardID := range cube.Basics {
		rec, err := imp.Lookup.RecordByLocalID(cardID)
		if err != nil {
			return nil, err
		}
		basics = append(basics, table.Upsert(rec))
	}

	seats := make([]models.Seat, 0, len(payload.Players))
	log := &models.ImportLog{SessionID: payload.SessionID}

	for pi, player := range payload.Players {
		seat, picks, err := imp.importPlayer(table, basics, player)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s): %w", pi, player.UserName, err)
		}
		seats = append(seats, seat)
		log.Players = append(log.Players, picks)
	}

	return &models.Draft{
		Name:      "Draftmancer Draft",
		Cube:      cube.ID,
		CubeOwner: cube.Owner,
		Date:      time.Now().UnixMilli(),
		Type:      draft.TypeDraft,
		Cards:     table.Cards(),
		Basics:    basics,
		Seats:     seats,
		Complete:  true,
		ImportLog: log,
	}, nil
}

func (imp *Importer) importPlayer(table *draft.CardTable, basics []int, player models.ImportPlayer) (models.Seat, []models.ImportPick, error) {
	seat := draft.NewSeat(player.UserName)
	seat.Bot = player.IsBot
	if player.IsBot {
		seat.Description = "This deck was drafted by a bot on Draftmancer"
	} else {
		seat.Description = "This deck was drafted on Draftmancer by " + player.UserName
	}

	picks := []models.ImportPick{}

	for _, ev := range player.Picks {
		// Every identity in the booster is upserted so the full pack is
		// addressable, not just the chosen card. Burn offsets are
		// deliberately not ledgered: they never join the pool.
		pack := make([]int, len(ev.Booster))
		for i, oracleID := range ev.Booster {
			rec, err := imp.Lookup.RepresentativeRecordByOracle(oracleID)
			if err != nil {
				return models.Seat{}, nil, err
			}
			pack[i] = table.Upsert(rec)
		}

		for _, offset := range ev.Picks {
			if offset < 0 || offset >= len(pack) {
				return models.Seat{}, nil, &draft.ValidationError{
					Field: "picks",
					Msg:   "offset " + strconv.Itoa(offset) + " outside booster of " + strconv.Itoa(len(pack)),
				}
			}
			if err := draft.RecordPick(&seat, table, pack[offset]); err != nil {
				return models.Seat{}, nil, err
			}
			picks = append(picks, models.ImportPick{Booster: pack, Pick: pack[offset]})
		}
	}

	// The declared decklist is placed for every player. This also upserts
	// decklist identities that never appeared in a pick event, so bot deck
	// building below sees a complete table.
	mainboard, sideboard, err := draft.PlaceDecklist(table, imp.Lookup, player.Decklist.Main, player.Decklist.Side)
	if err != nil {
		return models.Seat{}, nil, err
	}
	seat.Mainboard = mainboard
	seat.Sideboard = sideboard

	if player.IsBot {
		mainboard, sideboard, err := draft.BuildDeck(table, draft.Pool(&seat), basics, imp.Oracle, imp.Report)
		if err != nil {
			return models.Seat{}, nil, err
		}
		seat.Mainboard = mainboard
		seat.Sideboard = sideboard
		logger.Debug("Built bot deck", "player", player.UserName, "pool", len(seat.Pickorder))
	}

	return seat, picks, nil
}
