package match

// Ratio is the sequence similarity of two strings in [0,1]: twice the total
// size of the matching blocks divided by the combined length. Runs over runes
// so Hangul compares per syllable, not per byte.
func Ratio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}
	matched := matchingSize(ar, br)
	return 2 * float64(matched) / float64(len(ar)+len(br))
}

// matchingSize sums the matching blocks found by taking the longest common
// substring and recursing into what is left on either side of it.
func matchingSize(a, b []rune) int {
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingSize(a[:i], b[:j]) + matchingSize(a[i+size:], b[j+size:])
}

// longestMatch finds the longest common substring, preferring the earliest
// position in a, then in b, so the decomposition is deterministic.
func longestMatch(a, b []rune) (bestI, bestJ, bestSize int) {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] is the length of the match ending at a[i-1], b[j]
	j2len := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int, len(b2j[r]))
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return bestI, bestJ, bestSize
}
