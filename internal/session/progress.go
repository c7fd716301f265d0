package session

// Progress reports completion as a whole-number percentage. It floors
// rather than rounds, so progress only shows 100 at true completion.
func Progress(index, total int) int {
	if total <= 0 {
		return 0
	}
	if index >= total {
		return 100
	}
	return index * 100 / total
}
