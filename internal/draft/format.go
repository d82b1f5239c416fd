package draft

import (
	"fmt"
	"math/rand"
)

// Bounds is an inclusive integer range.
type Bounds struct {
	Min int
	Max int
}

func (b Bounds) contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// FormatBounds centralizes the format parameter limits consumed by the
// planner. All call sites validate against one instance of this struct.
type FormatBounds struct {
	Packs Bounds
	Cards Bounds
	Seats Bounds
}

// DefaultFormatBounds returns the standard draft limits.
func DefaultFormatBounds() FormatBounds {
	return FormatBounds{
		Packs: Bounds{Min: 1, Max: 16},
		Cards: Bounds{Min: 1, Max: 25},
		Seats: Bounds{Min: 2, Max: 17},
	}
}

// FormatRequest is a requested draft format. ID selects a stored custom
// format; -1 means the algorithmic default.
type FormatRequest struct {
	ID    int
	Packs int
	Cards int
	Seats int
}

// PackGenerator materializes concrete packs from a candidate pool of card
// table indices. Implementations must deterministically (for a fixed seed)
// produce Packs*Seats packs of Cards indices each, repeating an index only
// if the pool itself holds duplicate copies.
type PackGenerator interface {
	Generate(pool []int) ([][]int, error)
}

// Plan is a validated, expanded pack-generation plan.
type Plan struct {
	Packs     int
	Cards     int
	Seats     int
	Generator PackGenerator
}

// PlanFormat validates a format request against bounds and expands it into a
// plan. A nil generator selects the shuffle-based default.
func PlanFormat(req FormatRequest, bounds FormatBounds, gen PackGenerator) (*Plan, error) {
	if !bounds.Packs.contains(req.Packs) {
		return nil, &ValidationError{Field: "packs", Msg: fmt.Sprintf("%d not in [%d,%d]", req.Packs, bounds.Packs.Min, bounds.Packs.Max)}
	}
	if !bounds.Cards.contains(req.Cards) {
		return nil, &ValidationError{Field: "cards", Msg: fmt.Sprintf("%d not in [%d,%d]", req.Cards, bounds.Cards.Min, bounds.Cards.Max)}
	}
	if !bounds.Seats.contains(req.Seats) {
		return nil, &ValidationError{Field: "seats", Msg: fmt.Sprintf("%d not in [%d,%d]", req.Seats, bounds.Seats.Min, bounds.Seats.Max)}
	}

	plan := &Plan{Packs: req.Packs, Cards: req.Cards, Seats: req.Seats, Generator: gen}
	if plan.Generator == nil {
		plan.Generator = &ShuffleGenerator{Packs: req.Packs, Cards: req.Cards, Seats: req.Seats}
	}
	return plan, nil
}

// ShuffleGenerator is the default algorithmic pack generator: shuffle the
// pool once and slice it into packs. Custom cube formats plug in their own
// PackGenerator instead.
type ShuffleGenerator struct {
	Packs int
	Cards int
	Seats int
	Rand  *rand.Rand // nil uses the global source
}

// Generate slices a shuffled copy of the pool into Packs*Seats packs of
// Cards indices each.
func (g *ShuffleGenerator) Generate(pool []int) ([][]int, error) {
	need := g.Packs * g.Cards * g.Seats
	if len(pool) < need {
		return nil, &ValidationError{
			Field: "pool",
			Msg:   fmt.Sprintf("need %d cards for %d seats, have %d", need, g.Seats, len(pool)),
		}
	}

	shuffled := make([]int, len(pool))
	copy(shuffled, pool)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if g.Rand != nil {
		g.Rand.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	packs := make([][]int, 0, g.Packs*g.Seats)
	for i := 0; i < g.Packs*g.Seats; i++ {
		pack := make([]int, g.Cards)
		copy(pack, shuffled[i*g.Cards:(i+1)*g.Cards])
		packs = append(packs, pack)
	}
	return packs, nil
}
