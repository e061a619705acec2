package session

import "fmt"

// Progress summarizes how much of the catalog a learner has covered.
type Progress struct {
	Due          int // learned and scheduled for review now
	NotDue       int // learned, next review still in the future
	NeverLearned int // catalog items with no card yet
	Total        int
}

// Progress computes the current coverage summary from the card store.
func (c *Controller) Progress() (Progress, error) {
	now := c.now()
	all, err := c.cards.All()
	if err != nil {
		return Progress{}, fmt.Errorf("session: listing cards: %w", err)
	}
	due, err := c.cards.QueryDue(now)
	if err != nil {
		return Progress{}, fmt.Errorf("session: querying due cards: %w", err)
	}
	return Progress{
		Due:          len(due),
		NotDue:       len(all) - len(due),
		NeverLearned: len(c.catalog) - len(all),
		Total:        len(c.catalog),
	}, nil
}
