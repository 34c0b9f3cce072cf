package services

// Ratio returns a normalized similarity score in [0,1] between two strings:
// 1.0 for identical strings, shrinking toward 0 as they diverge. It is
// 2·LCS(a,b) / (len(a)+len(b)) over runes, so insertions, deletions and
// substitutions all lower the score, and Ratio(a, b) == Ratio(b, a).
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcsLength(ra, rb)) / float64(total)
}

// lcsLength computes the longest-common-subsequence length with a two-row
// rolling table, O(len(a)·len(b)) time, O(len(b)) space.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
