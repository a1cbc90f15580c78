// Package levenshtein computes edit distances between short identifiers and
// picks the closest candidate for "did you mean" hints.
package levenshtein

// Context reuses its row buffer across Distance calls.
// A Context is not safe for concurrent use.
type Context struct {
	row []int
}

func (ctx *Context) buffer(length int) []int {
	if cap(ctx.row) < length {
		ctx.row = make([]int, length)
	}

	return ctx.row[:length]
}

// Distance returns the minimum number of single-rune insertions, deletions,
// and substitutions that turn a into b.
func (ctx *Context) Distance(a, b string) int {
	src := []rune(a)
	dst := []rune(b)

	if len(src) < len(dst) {
		src, dst = dst, src
	}

	if len(dst) == 0 {
		return len(src)
	}

	row := ctx.buffer(len(dst) + 1)
	for col := range row {
		row[col] = col
	}

	for i, srcRune := range src {
		diag := row[0]
		row[0] = i + 1

		for j, dstRune := range dst {
			above := row[j+1]

			cost := 1
			if srcRune == dstRune {
				cost = 0
			}

			row[j+1] = min(above+1, row[j]+1, diag+cost)
			diag = above
		}
	}

	return row[len(dst)]
}

// Closest returns the candidate nearest to target when its distance is at
// most maxDistance. Ties keep the earliest candidate.
func Closest(target string, candidates []string, maxDistance int) (string, bool) {
	var ctx Context

	best := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		if d := ctx.Distance(target, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best, bestDistance <= maxDistance
}
