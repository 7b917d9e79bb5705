package viz

import "math"

// ============================================================================
// TREND — least-squares fit and correlation for scatter charts
// ============================================================================

// TrendLine is a fitted y = Slope*x + Intercept with the Pearson correlation
// of the underlying points.
type TrendLine struct {
	Slope     float64
	Intercept float64
	R         float64
}

// FitTrend computes an ordinary least-squares line and Pearson r over paired
// samples. Pairs containing NaN are skipped. Returns ok=false with fewer than
// two usable points or zero x-variance.
func FitTrend(xs, ys []float64) (TrendLine, bool) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	var count float64
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		count++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}

	if count < 2 {
		return TrendLine{}, false
	}

	varX := sumXX - sumX*sumX/count
	varY := sumYY - sumY*sumY/count
	covXY := sumXY - sumX*sumY/count

	if varX == 0 {
		return TrendLine{}, false
	}

	slope := covXY / varX
	intercept := (sumY - slope*sumX) / count

	r := 0.0
	if varY > 0 {
		r = covXY / math.Sqrt(varX*varY)
	}

	return TrendLine{Slope: slope, Intercept: intercept, R: r}, true
}

// At evaluates the fitted line at x.
func (t TrendLine) At(x float64) float64 {
	return t.Slope*x + t.Intercept
}
