package umap

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/vecgo"
)

// knnGraph holds the k nearest neighbors of every point
type knnGraph struct {
	indices   [][]int     // neighbor row indices, nearest first
	distances [][]float64 // matching distances under the configured metric
}

// nearestNeighbors builds the kNN graph with a vecgo HNSW index. The index
// ranks candidates; exact distances are recomputed from the float64 input
// so the fuzzy set construction is not sensitive to float32 rounding. The
// index itself is seeded so candidate sets, and therefore layouts, repeat
// across runs.
func nearestNeighbors(ctx context.Context, x [][]float64, k int, metric Metric, seed int64) (*knnGraph, error) {
	n := len(x)
	dim := len(x[0])

	builder := vecgo.HNSW[int](dim).RandomSeed(seed)
	switch metric {
	case MetricCosine:
		builder = builder.Cosine()
	default:
		builder = builder.SquaredL2()
	}

	vg, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("knn index: %w", err)
	}
	defer vg.Close()

	items := make([]vecgo.VectorWithData[int], n)
	for i, row := range x {
		vec := make([]float32, dim)
		for j, v := range row {
			vec[j] = float32(v)
		}
		items[i] = vecgo.VectorWithData[int]{Vector: vec, Data: i}
	}

	batch := vg.BatchInsert(ctx, items)
	for _, err := range batch.Errors {
		if err != nil {
			return nil, fmt.Errorf("knn insert: %w", err)
		}
	}

	dist := metricFunc(metric)

	graph := &knnGraph{
		indices:   make([][]int, n),
		distances: make([][]float64, n),
	}

	for i, item := range items {
		// k+1 because the point itself comes back as its own neighbor
		results, err := vg.KNNSearch(ctx, item.Vector, k+1)
		if err != nil {
			return nil, fmt.Errorf("knn search for point %d: %w", i, err)
		}

		type cand struct {
			idx int
			d   float64
		}
		cands := make([]cand, 0, len(results))
		for _, r := range results {
			if r.Data == i {
				continue
			}
			cands = append(cands, cand{idx: r.Data, d: dist(x[i], x[r.Data])})
		}

		sort.Slice(cands, func(a, b int) bool { return cands[a].d < cands[b].d })
		if len(cands) > k {
			cands = cands[:k]
		}

		graph.indices[i] = make([]int, len(cands))
		graph.distances[i] = make([]float64, len(cands))
		for j, c := range cands {
			graph.indices[i][j] = c.idx
			graph.distances[i][j] = c.d
		}
	}

	return graph, nil
}

// metricFunc returns the exact distance function for a metric
func metricFunc(metric Metric) func(a, b []float64) float64 {
	if metric == MetricCosine {
		return cosineDistance
	}
	return euclideanDistance
}

func euclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func cosineDistance(a, b []float64) float64 {
	dot := 0.0
	normA := 0.0
	normB := 0.0
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 1.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Guard against rounding pushing similarity outside [-1, 1]
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return 1.0 - sim
}
