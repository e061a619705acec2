package legacy

import "sort"

// ConfusionPair is an unordered pair of items repeatedly mistaken for each
// other. ItemA sorts before ItemB so the pair has one canonical form.
type ConfusionPair struct {
	ItemA string `json:"item_a"`
	ItemB string `json:"item_b"`
	Count int    `json:"count"`
}

// ItemFailures is the per-item failure record used in snapshots.
type ItemFailures struct {
	ItemID              string `json:"item_id"`
	Failures            int    `json:"failures"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// StatsSnapshot is the serializable form of Stats. Slices instead of maps so
// the round trip survives storage layers without native map support.
type StatsSnapshot struct {
	Items          []ItemFailures  `json:"items"`
	ConfusionPairs []ConfusionPair `json:"confusion_pairs"`
}

// Stats accumulates failure and confusion analytics across answers.
type Stats struct {
	failures            map[string]int
	consecutiveFailures map[string]int
	pairs               []ConfusionPair // sorted by descending count
}

// NewStats returns empty analytics.
func NewStats() *Stats {
	return &Stats{
		failures:            make(map[string]int),
		consecutiveFailures: make(map[string]int),
	}
}

func (st *Stats) recordAnswer(item string, correct bool) {
	if correct {
		st.consecutiveFailures[item] = 0
		return
	}
	st.failures[item]++
	st.consecutiveFailures[item]++
}

func (st *Stats) recordConfusion(a, b string) {
	if b < a {
		a, b = b, a
	}
	for i := range st.pairs {
		if st.pairs[i].ItemA == a && st.pairs[i].ItemB == b {
			st.pairs[i].Count++
			st.sortPairs()
			return
		}
	}
	st.pairs = append(st.pairs, ConfusionPair{ItemA: a, ItemB: b, Count: 1})
	st.sortPairs()
}

func (st *Stats) sortPairs() {
	sort.SliceStable(st.pairs, func(i, j int) bool {
		return st.pairs[i].Count > st.pairs[j].Count
	})
}

// HardestItem returns the item with the most recorded failures. An item
// qualifies only with more than two failures; otherwise the result is empty.
func (st *Stats) HardestItem() string {
	best, bestCount := "", 2
	for item, count := range st.failures {
		if count > bestCount || (count == bestCount && best != "" && item < best) {
			best, bestCount = item, count
		}
	}
	return best
}

// MostConfused returns the head of the confusion-pair list, or false when no
// confusion has been recorded yet.
func (st *Stats) MostConfused() (string, string, bool) {
	if len(st.pairs) == 0 {
		return "", "", false
	}
	return st.pairs[0].ItemA, st.pairs[0].ItemB, true
}

// ConfusionPairs returns a copy of the pair list, most confused first.
func (st *Stats) ConfusionPairs() []ConfusionPair {
	return append([]ConfusionPair(nil), st.pairs...)
}

// Nemesis returns the item with the longest current unbroken run of incorrect
// answers, or empty when no item is currently failing.
func (st *Stats) Nemesis() string {
	best, bestStreak := "", 0
	for item, streak := range st.consecutiveFailures {
		if streak > bestStreak || (streak == bestStreak && streak > 0 && item < best) {
			best, bestStreak = item, streak
		}
	}
	if bestStreak == 0 {
		return ""
	}
	return best
}

// Snapshot exports the analytics for persistence.
func (st *Stats) Snapshot() StatsSnapshot {
	items := make([]ItemFailures, 0, len(st.failures))
	seen := make(map[string]bool, len(st.failures))
	for item := range st.failures {
		seen[item] = true
	}
	for item := range st.consecutiveFailures {
		seen[item] = true
	}
	for item := range seen {
		items = append(items, ItemFailures{
			ItemID:              item,
			Failures:            st.failures[item],
			ConsecutiveFailures: st.consecutiveFailures[item],
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return StatsSnapshot{Items: items, ConfusionPairs: st.ConfusionPairs()}
}

// FromSnapshot rebuilds Stats from a stored snapshot.
func FromSnapshot(snap StatsSnapshot) *Stats {
	st := NewStats()
	for _, it := range snap.Items {
		if it.Failures > 0 {
			st.failures[it.ItemID] = it.Failures
		}
		if it.ConsecutiveFailures > 0 {
			st.consecutiveFailures[it.ItemID] = it.ConsecutiveFailures
		}
	}
	st.pairs = append(st.pairs, snap.ConfusionPairs...)
	st.sortPairs()
	return st
}
