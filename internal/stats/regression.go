package stats

import "math"

// PearsonCorrelation calculates the Pearson correlation coefficient between
// two variables. Returns 0 when either variable has no spread.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}

	return cov / math.Sqrt(varX*varY)
}

// LinearRegression performs simple linear regression (y = intercept + slope*x)
// using ordinary least squares
func LinearRegression(x, y []float64) (slope, intercept float64) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var num, den float64
	for i := range x {
		dx := x[i] - meanX
		num += dx * (y[i] - meanY)
		den += dx * dx
	}

	if den == 0 {
		return 0, meanY
	}

	slope = num / den
	intercept = meanY - slope*meanX
	return slope, intercept
}

// RSquared calculates the coefficient of determination for a simple linear fit
func RSquared(x, y []float64) float64 {
	r := PearsonCorrelation(x, y)
	return r * r
}
