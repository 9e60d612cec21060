package umap

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const initScale = 10.0

// pcaInit seeds the embedding with the first nComponents principal
// components of the input, rescaled so coordinates span roughly
// [-initScale, initScale], plus seeded jitter to break ties between
// duplicate frames.
func pcaInit(x [][]float64, nComponents int, rng *rand.Rand) ([][]float64, error) {
	n := len(x)
	dim := len(x[0])

	// Center columns
	means := make([]float64, dim)
	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}

	data := mat.NewDense(n, dim, nil)
	for i, row := range x {
		for j, v := range row {
			data.Set(i, j, v-means[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(data, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}

	var u mat.Dense
	svd.UTo(&u)
	sigma := svd.Values(nil)

	if len(sigma) < nComponents {
		return nil, fmt.Errorf("input rank %d below %d components", len(sigma), nComponents)
	}

	// Scores = U * S for the leading components
	emb := make([][]float64, n)
	maxAbs := 0.0
	for i := range emb {
		emb[i] = make([]float64, nComponents)
		for c := range nComponents {
			v := u.At(i, c) * sigma[c]
			emb[i][c] = v
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
			}
		}
	}

	if maxAbs == 0 {
		maxAbs = 1.0
	}

	scale := initScale / maxAbs
	for i := range emb {
		for c := range emb[i] {
			emb[i][c] = emb[i][c]*scale + rng.NormFloat64()*1e-4
		}
	}

	return emb, nil
}
