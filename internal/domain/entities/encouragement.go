package entities

// Encouragement returns the feedback line for the session summary screen.
// Five bands: a perfect score, then 80%, 60% and 40% thresholds, with a
// catch-all for everything below. For the standard 10-question session that
// works out to 10 / 8-9 / 6-7 / 4-5 / 0-3.
func Encouragement(correct, total int) string {
	if total <= 0 {
		return "Come back and give it a try!"
	}

	switch pct := correct * 100 / total; {
	case correct == total:
		return "Perfect score! You really know this book!"
	case pct >= 80:
		return "Excellent work! You're almost there!"
	case pct >= 60:
		return "Good job! Keep studying and you'll master it!"
	case pct >= 40:
		return "Nice effort! A little more reading will go a long way."
	default:
		return "Keep at it! Every question you review brings you closer."
	}
}
