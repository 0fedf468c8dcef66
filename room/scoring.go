package room

import "time"

const (
	fullScoreWindow = 10 * time.Second
	scoreDecayStep  = 5 * time.Second
	maxGuessScore   = 10
	minGuessScore   = 1

	// drawerBonus is what the drawer earns per distinct correct guesser.
	drawerBonus = 1
)

// scoreForLatency maps a correct guess's latency to points: 10 within the
// first ten seconds, then one less per further five seconds, never below 1.
func scoreForLatency(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}

	score := maxGuessScore
	if elapsed > fullScoreWindow {
		steps := int((elapsed - fullScoreWindow) / scoreDecayStep)
		score = maxGuessScore - steps
	}
	if score < minGuessScore {
		score = minGuessScore
	}
	return score
}
