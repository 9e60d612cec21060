package umap

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// curveParams holds the a/b coefficients of the output kernel
// 1 / (1 + a*d^(2b))
type curveParams struct {
	a float64
	b float64
}

// findABParams fits the output kernel to the desired min_dist shape: flat
// at 1.0 out to minDist, then exponential decay. Nelder-Mead least squares
// over a sampled target curve, the same construction the reference UMAP
// uses (it calls scipy's curve_fit).
func findABParams(minDist float64) curveParams {
	const (
		nSamples = 300
		xMax     = 3.0
	)

	xs := make([]float64, nSamples)
	ys := make([]float64, nSamples)
	for i := range xs {
		xs[i] = xMax * float64(i+1) / float64(nSamples)
		if xs[i] <= minDist {
			ys[i] = 1.0
		} else {
			ys[i] = math.Exp(-(xs[i] - minDist))
		}
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			a := math.Abs(p[0])
			b := math.Abs(p[1])
			sse := 0.0
			for i, x := range xs {
				fit := 1.0 / (1.0 + a*math.Pow(x, 2*b))
				diff := fit - ys[i]
				sse += diff * diff
			}
			return sse
		},
	}

	result, err := optimize.Minimize(problem, []float64{1.0, 1.0}, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		// Fall back to the well-known fit for min_dist=0.1
		return curveParams{a: 1.577, b: 0.895}
	}

	return curveParams{
		a: math.Abs(result.X[0]),
		b: math.Abs(result.X[1]),
	}
}
