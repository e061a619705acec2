package domain

// ChallengeSlot is one prompt of a daily challenge: which item to find and at
// what difficulty level it is shown.
type ChallengeSlot struct {
	ItemID          string
	DifficultyLevel int
}

// ChallengeResult records the outcome of one answered challenge slot.
type ChallengeResult struct {
	ItemID          string
	Correct         bool
	ElapsedMs       int64
	DifficultyLevel int
}

// DailyChallengeRun is the stored record of one calendar date's challenge:
// the derived slots plus the accumulated results and totals.
type DailyChallengeRun struct {
	Date        string // UTC calendar date, YYYY-MM-DD
	Slots       []ChallengeSlot
	Results     []ChallengeResult
	TotalScore  int
	TotalTimeMs int64
}
