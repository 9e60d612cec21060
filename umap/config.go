package umap

import (
	"fmt"
)

// Metric selects the distance used for neighbor graph construction
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// Config holds parameters for the UMAP embedding
type Config struct {
	NNeighbors  int     `json:"n_neighbors"`  // Neighborhood size (default: 15)
	MinDist     float64 `json:"min_dist"`     // Minimum output distance (default: 0.1)
	Metric      Metric  `json:"metric"`       // Distance metric (default: cosine)
	RandomState int64   `json:"random_state"` // Seed for deterministic layouts (default: 42)

	// NEpochs is the number of optimization epochs; 0 picks 500 for small
	// inputs and 200 for large ones
	NEpochs int `json:"n_epochs,omitempty"`

	// NegativeSampleRate is the number of repulsive samples per positive
	// edge update (default: 5)
	NegativeSampleRate int `json:"negative_sample_rate,omitempty"`

	// LearningRate is the initial SGD step size (default: 1.0)
	LearningRate float64 `json:"learning_rate,omitempty"`
}

// DefaultConfig returns the default UMAP configuration
func DefaultConfig() Config {
	return Config{
		NNeighbors:  15,
		MinDist:     0.1,
		Metric:      MetricCosine,
		RandomState: 42,
	}
}

// Validate checks parameter ranges
func (c Config) Validate() error {
	if c.NNeighbors < 2 {
		return fmt.Errorf("n_neighbors must be at least 2, got %d", c.NNeighbors)
	}
	if c.MinDist < 0 || c.MinDist > 1 {
		return fmt.Errorf("min_dist must be in [0, 1], got %f", c.MinDist)
	}
	switch c.Metric {
	case MetricCosine, MetricEuclidean:
	default:
		return fmt.Errorf("unsupported metric %q", c.Metric)
	}
	return nil
}

// withDefaults fills zero-valued optional fields
func (c Config) withDefaults() Config {
	if c.Metric == "" {
		c.Metric = MetricCosine
	}
	if c.NegativeSampleRate <= 0 {
		c.NegativeSampleRate = 5
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 1.0
	}
	return c
}

// epochs resolves the epoch count for n points
func (c Config) epochs(n int) int {
	if c.NEpochs > 0 {
		return c.NEpochs
	}
	if n <= 10000 {
		return 500
	}
	return 200
}
