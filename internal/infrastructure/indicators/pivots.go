package indicators

// FindPivotHighs returns local maxima confirmed by leftBars strictly
// lower-or-equal-free bars on the left and rightBars on the right.
// An equal neighbor disqualifies the pivot.
func FindPivotHighs(highs []float64, leftBars, rightBars int) []float64 {
	var pivots []float64
	length := len(highs)

	for i := leftBars; i < length-rightBars; i++ {
		currentHigh := highs[i]
		isPivot := true

		for j := 1; j <= leftBars; j++ {
			if highs[i-j] >= currentHigh {
				isPivot = false
				break
			}
		}
		if isPivot {
			for j := 1; j <= rightBars; j++ {
				if highs[i+j] >= currentHigh {
					isPivot = false
					break
				}
			}
		}

		if isPivot {
			pivots = append(pivots, currentHigh)
		}
	}

	return pivots
}

// FindPivotLows returns confirmed local minima, mirroring
// FindPivotHighs.
func FindPivotLows(lows []float64, leftBars, rightBars int) []float64 {
	var pivots []float64
	length := len(lows)

	for i := leftBars; i < length-rightBars; i++ {
		currentLow := lows[i]
		isPivot := true

		for j := 1; j <= leftBars; j++ {
			if lows[i-j] <= currentLow {
				isPivot = false
				break
			}
		}
		if isPivot {
			for j := 1; j <= rightBars; j++ {
				if lows[i+j] <= currentLow {
					isPivot = false
					break
				}
			}
		}

		if isPivot {
			pivots = append(pivots, currentLow)
		}
	}

	return pivots
}
