// Package selection decides which item a learner sees next.
package selection

import (
	"errors"
	"math/rand"
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// ErrNoItems is returned when the catalog is empty and nothing can be picked.
var ErrNoItems = errors.New("selection: no items available")

// Policy picks the next item in priority order: due cards first, then unseen
// catalog items, then any catalog item as a fallback. The previously
// presented item is excluded from every pool, so the same item never comes up
// twice in a row unless the catalog holds exactly one item.
type Policy struct {
	rng *rand.Rand
}

// NewPolicy returns a policy drawing randomness from rng. A nil rng gets a
// time-seeded source.
func NewPolicy(rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{rng: rng}
}

// Next chooses the next item. due is the current due set, all the full card
// set, catalog the full item list and last the previously presented item id
// (empty at session start). When the pick is an unseen item, a fresh Card is
// returned alongside it so the caller can persist it before presenting.
func (p *Policy) Next(due, all []domain.Card, catalog []string, last string, now time.Time) (string, *domain.Card, error) {
	if len(catalog) == 0 {
		return "", nil, ErrNoItems
	}

	if candidates := excludeCards(due, last); len(candidates) > 0 {
		pick := candidates[p.rng.Intn(len(candidates))]
		return pick.ItemID, nil, nil
	}

	seen := make(map[string]bool, len(all))
	for _, card := range all {
		seen[card.ItemID] = true
	}
	var unseen []string
	for _, item := range catalog {
		if !seen[item] && item != last {
			unseen = append(unseen, item)
		}
	}
	if len(unseen) > 0 {
		pick := unseen[p.rng.Intn(len(unseen))]
		card := domain.NewCard(pick, now)
		return pick, &card, nil
	}

	// Everything has been seen and nothing is due: recycle any item.
	candidates := excludeItems(catalog, last)
	if len(candidates) == 0 {
		// Single-item catalog; repeating it is the only option.
		return catalog[0], nil, nil
	}
	return candidates[p.rng.Intn(len(candidates))], nil, nil
}

func excludeCards(cards []domain.Card, last string) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.ItemID != last {
			out = append(out, c)
		}
	}
	return out
}

func excludeItems(items []string, last string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != last {
			out = append(out, item)
		}
	}
	return out
}
