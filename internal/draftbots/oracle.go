// Package draftbots implements the deck evaluation oracle used to build bot
// decks. The heuristic here is deliberately simple; the deck assembly engine
// only depends on the identity-list contract, so a smarter evaluator can be
// swapped in without touching placement.
package draftbots

import (
	"sort"

	"github.com/opencube/cube-draft-api/internal/models"
)

const (
	defaultSpellCount = 23
	defaultLandCount  = 17
)

// GreedyOracle picks the highest scoring spells from the pool and fills the
// remaining slots with basics matching the deck's dominant colors.
type GreedyOracle struct {
	SpellCount int // non-land mainboard slots, default 23
	LandCount  int // basic land slots, default 17
}

// ChooseMainboard returns oracle identities for the mainboard: chosen pool
// spells first, then basics. Answers are identities, not indices; the
// oracle knows nothing about a draft's card table numbering.
func (o GreedyOracle) ChooseMainboard(pool, basics []models.CardRecord) []string {
	spellCount := o.SpellCount
	if spellCount <= 0 {
		spellCount = defaultSpellCount
	}
	landCount := o.LandCount
	if landCount <= 0 {
		landCount = defaultLandCount
	}

	candidates := make([]models.CardRecord, 0, len(pool))
	for _, rec := range pool {
		if !rec.IsBasicLand() {
			candidates = append(candidates, rec)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i]) > score(candidates[j])
	})

	if len(candidates) > spellCount {
		candidates = candidates[:spellCount]
	}

	mainboard := make([]string, 0, len(candidates)+landCount)
	colorWeight := make(map[string]int)
	for _, rec := range candidates {
		mainboard = append(mainboard, rec.OracleID)
		for _, c := range rec.Colors {
			colorWeight[c]++
		}
	}

	mainboard = append(mainboard, chooseBasics(basics, colorWeight, landCount)...)
	return mainboard
}

// score is a crude playability estimate: creatures over spells, cheap over
// expensive.
func score(rec models.CardRecord) float64 {
	s := 10.0 - rec.CMC
	if rec.IsCreature() {
		s += 2
	}
	return s
}

// chooseBasics distributes land slots over the available basics in
// proportion to the deck's color weights. With no color signal the basics
// are cycled evenly.
func chooseBasics(basics []models.CardRecord, colorWeight map[string]int, count int) []string {
	if len(basics) == 0 {
		return nil
	}

	byColor := make(map[string]models.CardRecord)
	for _, rec := range basics {
		for _, c := range rec.Colors {
			byColor[c] = rec
		}
		if len(rec.Colors) == 0 && len(rec.Type) > 0 {
			byColor[""] = rec
		}
	}

	total := 0
	colors := make([]string, 0, len(colorWeight))
	for c, w := range colorWeight {
		if _, ok := byColor[c]; ok {
			colors = append(colors, c)
			total += w
		}
	}
	sort.Strings(colors)

	out := make([]string, 0, count)
	if total == 0 {
		for i := 0; i < count; i++ {
			out = append(out, basics[i%len(basics)].OracleID)
		}
		return out
	}

	remaining := count
	for i, c := range colors {
		share := colorWeight[c] * count / total
		if i == len(colors)-1 {
			share = remaining
		}
		for j := 0; j < share; j++ {
			out = append(out, byColor[c].OracleID)
		}
		remaining -= share
	}
	return out
}
