package umap

import (
	"math"
	"math/rand"
)

const gradientClip = 4.0

// optimizeLayout runs the SGD force layout over the fuzzy graph edges.
// Attractive forces pull edge endpoints together under the output kernel;
// negative sampling pushes random pairs apart. The embedding is modified
// in place.
func optimizeLayout(emb [][]float64, edges []edge, params curveParams, cfg Config, nEpochs int, rng *rand.Rand) {
	if len(edges) == 0 || len(emb) == 0 {
		return
	}

	n := len(emb)
	dim := len(emb[0])
	a, b := params.a, params.b

	// Per-edge sampling schedule: strong edges update every epoch, weak
	// edges proportionally less often
	maxWeight := 0.0
	for _, e := range edges {
		if e.weight > maxWeight {
			maxWeight = e.weight
		}
	}

	epochsPerSample := make([]float64, len(edges))
	epochOfNext := make([]float64, len(edges))
	epochsPerNeg := make([]float64, len(edges))
	epochOfNextNeg := make([]float64, len(edges))
	for i, e := range edges {
		epochsPerSample[i] = maxWeight / e.weight
		epochOfNext[i] = epochsPerSample[i]
		epochsPerNeg[i] = epochsPerSample[i] / float64(cfg.NegativeSampleRate)
		epochOfNextNeg[i] = epochsPerNeg[i]
	}

	initialAlpha := cfg.LearningRate

	for epoch := 1; epoch <= nEpochs; epoch++ {
		alpha := initialAlpha * (1.0 - float64(epoch)/float64(nEpochs))
		if alpha < initialAlpha*1e-4 {
			alpha = initialAlpha * 1e-4
		}

		for ei := range edges {
			if epochOfNext[ei] > float64(epoch) {
				continue
			}

			i := edges[ei].from
			j := edges[ei].to
			yi := emb[i]
			yj := emb[j]

			// Attractive update along the edge
			dsq := 0.0
			for d := range dim {
				diff := yi[d] - yj[d]
				dsq += diff * diff
			}

			if dsq > 0 {
				gradCoeff := (-2.0 * a * b * math.Pow(dsq, b-1.0)) / (a*math.Pow(dsq, b) + 1.0)
				for d := range dim {
					grad := clip(gradCoeff * (yi[d] - yj[d]))
					yi[d] += grad * alpha
					yj[d] -= grad * alpha
				}
			}

			epochOfNext[ei] += epochsPerSample[ei]

			// Repulsive updates against random points
			nNeg := int((float64(epoch) - epochOfNextNeg[ei]) / epochsPerNeg[ei])
			for range nNeg {
				k := rng.Intn(n)
				if k == i {
					continue
				}
				yk := emb[k]

				dsq := 0.0
				for d := range dim {
					diff := yi[d] - yk[d]
					dsq += diff * diff
				}

				var gradCoeff float64
				if dsq > 0 {
					gradCoeff = (2.0 * b) / ((0.001 + dsq) * (a*math.Pow(dsq, b) + 1.0))
				}

				for d := range dim {
					var grad float64
					if gradCoeff > 0 {
						grad = clip(gradCoeff * (yi[d] - yk[d]))
					} else {
						grad = gradientClip
					}
					yi[d] += grad * alpha
				}
			}

			epochOfNextNeg[ei] += float64(nNeg) * epochsPerNeg[ei]
		}
	}
}

// clip bounds a gradient component to the stability range
func clip(v float64) float64 {
	if v > gradientClip {
		return gradientClip
	}
	if v < -gradientClip {
		return -gradientClip
	}
	return v
}
