package problemgen

// nearMissOffsets are tried first, in order: they mimic off-by-one and
// off-by-two slips.
var nearMissOffsets = []int{-2, -1, 1, 2, -3, 3}

// WrongChoices returns count distinct non-negative distractors for answer.
// Near misses come first; after those it probes +4, -4, +5, -5, ...
func WrongChoices(answer, count int) []int {
	if count <= 0 {
		return nil
	}

	wrong := make([]int, 0, count)
	seen := map[int]bool{answer: true}
	add := func(c int) {
		if c < 0 || seen[c] {
			return
		}
		seen[c] = true
		wrong = append(wrong, c)
	}

	for _, off := range nearMissOffsets {
		if len(wrong) >= count {
			return wrong
		}
		add(answer + off)
	}

	for off := 4; len(wrong) < count; off++ {
		add(answer + off)
		if len(wrong) < count {
			add(answer - off)
		}
	}
	return wrong
}
