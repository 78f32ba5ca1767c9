package view

// ComputeScrollBegin returns the index of the first visible row of a listing
// of length entries shown in height rows, keeping selected at least margin
// rows away from either edge when the window allows it.
//
// previous is the value returned last time. A negative previous resets the
// window to the top. The result is always within [0, max(0, length-height)]
// and feeding it back with the same selection returns it unchanged.
func ComputeScrollBegin(selected, previous, length, height, margin int) int {
	for {
		if previous < 0 {
			return 0
		}
		if length <= height {
			return 0
		}
		if margin*2 >= height {
			return clamp(selected-height/2, 0, length-height)
		}
		if previous > length-height {
			previous = length - height
			continue
		}
		break
	}

	distance := selected - previous
	upper := height - 1 - margin
	switch {
	case margin < distance && distance < upper:
		return previous
	case distance >= upper:
		return min(length-height, previous+(distance-upper))
	default:
		return max(0, previous-(margin-distance))
	}
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
