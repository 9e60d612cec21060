// Package umap projects high-dimensional frame features into 2D or 3D
// point clouds.
//
// The construction follows the standard UMAP recipe: a k-nearest-neighbor
// graph (vecgo HNSW), per-point smoothed membership strengths symmetrized
// into a fuzzy graph, and a negative-sampling SGD layout under the
// min_dist output kernel. Layouts are deterministic for a fixed
// RandomState.
package umap

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/birdmach/mach/logging"
)

// UMAP embeds feature matrices into low-dimensional space
type UMAP struct {
	cfg Config
}

// New creates a UMAP embedder for the given configuration
func New(cfg Config) *UMAP {
	return &UMAP{cfg: cfg.withDefaults()}
}

// Embed projects x (nPoints x nFeatures) into nComponents dimensions.
// nComponents must be 2 or 3. Requires at least NNeighbors points.
func (u *UMAP) Embed(ctx context.Context, x [][]float64, nComponents int) ([][]float64, error) {
	if nComponents != 2 && nComponents != 3 {
		return nil, fmt.Errorf("n_components must be 2 or 3, got %d", nComponents)
	}
	if err := u.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("empty feature matrix")
	}

	dim := len(x[0])
	if dim == 0 {
		return nil, fmt.Errorf("feature matrix has zero-width rows")
	}
	for i, row := range x {
		if len(row) != dim {
			return nil, fmt.Errorf("ragged feature matrix: row %d has %d features, expected %d", i, len(row), dim)
		}
	}

	if len(x) < u.cfg.NNeighbors {
		return nil, fmt.Errorf(
			"too few frames (%d) for n_neighbors=%d: decrease stride or provide a longer recording",
			len(x), u.cfg.NNeighbors,
		)
	}

	logger := logging.WithFields(logging.Fields{
		"component":    "umap",
		"points":       len(x),
		"n_neighbors":  u.cfg.NNeighbors,
		"n_components": nComponents,
	})

	graph, err := nearestNeighbors(ctx, x, u.cfg.NNeighbors, u.cfg.Metric, u.cfg.RandomState)
	if err != nil {
		return nil, fmt.Errorf("neighbor graph: %w", err)
	}

	edges := fuzzySimplicialSet(graph, u.cfg.NNeighbors)
	logger.Debug("Fuzzy graph built", logging.Fields{"edges": len(edges)})

	rng := rand.New(rand.NewSource(u.cfg.RandomState))

	emb, err := pcaInit(x, nComponents, rng)
	if err != nil {
		return nil, fmt.Errorf("embedding init: %w", err)
	}

	params := findABParams(u.cfg.MinDist)
	nEpochs := u.cfg.epochs(len(x))

	optimizeLayout(emb, edges, params, u.cfg, nEpochs, rng)

	logger.Debug("Layout optimized", logging.Fields{
		"epochs": nEpochs,
		"a":      params.a,
		"b":      params.b,
	})

	return emb, nil
}

// Embed3D projects into three dimensions
func (u *UMAP) Embed3D(ctx context.Context, x [][]float64) ([][]float64, error) {
	return u.Embed(ctx, x, 3)
}

// Embed2D projects into two dimensions
func (u *UMAP) Embed2D(ctx context.Context, x [][]float64) ([][]float64, error) {
	return u.Embed(ctx, x, 2)
}
