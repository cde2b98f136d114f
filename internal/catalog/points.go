package catalog

// Difficulty tiers.
const (
	Easy   = 1
	Medium = 2
	Hard   = 3
)

// Tiers lists the difficulty tiers a board draws from, easiest first.
var Tiers = []int{Easy, Medium, Hard}

// PerTier is how many questions of each tier one category contributes to a board.
const PerTier = 2

// PointsFor returns the point value of a difficulty tier. ok is false for
// difficulties outside the schedule, which are worth nothing.
func PointsFor(difficulty int) (points int, ok bool) {
	switch difficulty {
	case Easy:
		return 250, true
	case Medium:
		return 500, true
	case Hard:
		return 750, true
	default:
		return 0, false
	}
}

// TierName returns a label for a difficulty tier.
func TierName(difficulty int) string {
	switch difficulty {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}
