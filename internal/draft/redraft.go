package draft

import (
	"time"

	"github.com/opencube/cube-draft-api/internal/models"
)

// Redraft creates a new draft reusing a completed draft's card table, basics
// and initial state, with every seat emptied. Seat 0 belongs to the
// requesting user; bot flags carry over so the table fills the same way.
func Redraft(base *models.Draft, owner string) (*models.Draft, error) {
	if base == nil {
		return nil, &NotFoundError{Kind: "draft", ID: ""}
	}

	cards := make([]models.CardRecord, len(base.Cards))
	copy(cards, base.Cards)
	basics := make([]int, len(base.Basics))
	copy(basics, base.Basics)

	seats := make([]models.Seat, len(base.Seats))
	for i, prev := range base.Seats {
		seats[i] = NewSeat(prev.Name)
		seats[i].Bot = prev.Bot
	}
	if len(seats) > 0 {
		seats[0].Owner = owner
		seats[0].Bot = false
	}

	return &models.Draft{
		Cube:         base.Cube,
		CubeOwner:    base.CubeOwner,
		Owner:        owner,
		Date:         time.Now().UnixMilli(),
		Type:         base.Type,
		Cards:        cards,
		Basics:       basics,
		Seats:        seats,
		InitialState: base.InitialState,
	}, nil
}
