package umap

import (
	"math"
	"sort"
)

// edge is one weighted connection in the symmetrized fuzzy graph
type edge struct {
	from   int
	to     int
	weight float64
}

const (
	smoothKIterations = 64
	smoothKTolerance  = 1e-5
	minKDistScale     = 1e-3
)

// smoothKNNDist finds, for one point, the bandwidth sigma such that the
// exponential kernel over its neighbor distances sums to log2(k), and the
// connectivity offset rho (distance to the nearest neighbor).
func smoothKNNDist(distances []float64, k int) (rho, sigma float64) {
	target := math.Log2(float64(k))

	// rho: smallest nonzero distance
	meanDist := 0.0
	for _, d := range distances {
		meanDist += d
		if d > 0 && (rho == 0 || d < rho) {
			rho = d
		}
	}
	if len(distances) > 0 {
		meanDist /= float64(len(distances))
	}

	lo := 0.0
	hi := math.Inf(1)
	mid := 1.0

	for range smoothKIterations {
		sum := 0.0
		for _, d := range distances {
			adj := d - rho
			if adj > 0 {
				sum += math.Exp(-adj / mid)
			} else {
				sum += 1.0
			}
		}

		if math.Abs(sum-target) < smoothKTolerance {
			break
		}

		if sum > target {
			hi = mid
			mid = (lo + hi) / 2.0
		} else {
			lo = mid
			if math.IsInf(hi, 1) {
				mid *= 2
			} else {
				mid = (lo + hi) / 2.0
			}
		}
	}

	sigma = mid

	// Keep sigma from collapsing on duplicate-heavy neighborhoods
	if rho > 0 {
		if sigma < minKDistScale*meanDist {
			sigma = minKDistScale * meanDist
		}
	}
	if sigma <= 0 {
		sigma = 1.0
	}

	return rho, sigma
}

// fuzzySimplicialSet converts a kNN graph into the symmetrized weighted
// edge list that drives layout optimization
func fuzzySimplicialSet(graph *knnGraph, k int) []edge {
	n := len(graph.indices)

	// Directed membership strengths
	type key struct{ a, b int }
	directed := make(map[key]float64, n*k)

	for i := range n {
		rho, sigma := smoothKNNDist(graph.distances[i], k)

		for j, nbr := range graph.indices[i] {
			d := graph.distances[i][j]

			var w float64
			switch {
			case d <= rho:
				w = 1.0
			default:
				w = math.Exp(-(d - rho) / sigma)
			}

			directed[key{i, nbr}] = w
		}
	}

	// Probabilistic t-conorm symmetrization: w = a + b - a*b
	edges := make([]edge, 0, len(directed))
	seen := make(map[key]bool, len(directed))
	for kk := range directed {
		a, b := kk.a, kk.b
		if a > b {
			a, b = b, a
		}
		pair := key{a, b}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		wAB := directed[key{a, b}]
		wBA := directed[key{b, a}]
		combined := wAB + wBA - wAB*wBA
		if combined > 0 {
			edges = append(edges, edge{from: a, to: b, weight: combined})
		}
	}

	// Map iteration order is random; fix it so a seeded layout is reproducible
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	return edges
}
