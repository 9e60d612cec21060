package umap

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clusteredData builds two well-separated gaussian blobs.
func clusteredData(n, dim int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	for i := range x {
		row := make([]float64, dim)
		offset := 0.0
		if i >= n/2 {
			offset = 10.0
		}
		for j := range row {
			row[j] = offset + rng.NormFloat64()*0.5
		}
		x[i] = row
	}
	return x
}

func TestEmbed3DShape(t *testing.T) {
	x := clusteredData(60, 12, 1)

	emb, err := New(DefaultConfig()).Embed3D(context.Background(), x)
	require.NoError(t, err)
	require.Len(t, emb, 60)
	for _, p := range emb {
		require.Len(t, p, 3)
		for _, v := range p {
			assert.False(t, math.IsNaN(v))
			assert.False(t, math.IsInf(v, 0))
		}
	}
}

func TestEmbed2DShape(t *testing.T) {
	x := clusteredData(40, 8, 2)

	emb, err := New(DefaultConfig()).Embed2D(context.Background(), x)
	require.NoError(t, err)
	require.Len(t, emb, 40)
	for _, p := range emb {
		require.Len(t, p, 2)
	}
}

func TestEmbedDeterministic(t *testing.T) {
	x := clusteredData(50, 10, 3)
	cfg := DefaultConfig()
	cfg.NEpochs = 50 // keep the test fast

	a, err := New(cfg).Embed3D(context.Background(), x)
	require.NoError(t, err)
	b, err := New(cfg).Embed3D(context.Background(), x)
	require.NoError(t, err)

	for i := range a {
		for j := range a[i] {
			assert.InDelta(t, a[i][j], b[i][j], 1e-12)
		}
	}
}

// Overlapping noisy data keeps HNSW recall below 100%, so identical
// layouts require the neighbor index itself to be seeded, not just the
// SGD stage.
func TestEmbedDeterministicNoisyData(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	x := make([][]float64, 200)
	for i := range x {
		row := make([]float64, 24)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		x[i] = row
	}

	cfg := DefaultConfig()
	cfg.NEpochs = 30 // keep the test fast

	a, err := New(cfg).Embed3D(context.Background(), x)
	require.NoError(t, err)
	b, err := New(cfg).Embed3D(context.Background(), x)
	require.NoError(t, err)

	for i := range a {
		for j := range a[i] {
			assert.InDelta(t, a[i][j], b[i][j], 1e-12)
		}
	}
}

func TestEmbedSeparatesClusters(t *testing.T) {
	x := clusteredData(80, 16, 4)
	cfg := DefaultConfig()
	cfg.Metric = MetricEuclidean

	emb, err := New(cfg).Embed3D(context.Background(), x)
	require.NoError(t, err)

	// Mean within-cluster distance should be clearly smaller than the
	// distance between the two cluster centroids.
	centroid := func(points [][]float64) []float64 {
		c := make([]float64, len(points[0]))
		for _, p := range points {
			for j, v := range p {
				c[j] += v
			}
		}
		for j := range c {
			c[j] /= float64(len(points))
		}
		return c
	}
	dist := func(a, b []float64) float64 {
		sum := 0.0
		for j := range a {
			d := a[j] - b[j]
			sum += d * d
		}
		return math.Sqrt(sum)
	}

	c1 := centroid(emb[:40])
	c2 := centroid(emb[40:])
	between := dist(c1, c2)

	within := 0.0
	for _, p := range emb[:40] {
		within += dist(p, c1)
	}
	within /= 40

	assert.Greater(t, between, within)
}

func TestEmbedTooFewFrames(t *testing.T) {
	x := clusteredData(5, 4, 5)

	_, err := New(DefaultConfig()).Embed3D(context.Background(), x)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too few frames")
}

func TestEmbedRejectsBadInput(t *testing.T) {
	u := New(DefaultConfig())
	ctx := context.Background()

	_, err := u.Embed(ctx, clusteredData(30, 4, 6), 4)
	assert.Error(t, err)

	_, err = u.Embed3D(ctx, nil)
	assert.Error(t, err)

	ragged := clusteredData(30, 4, 7)
	ragged[3] = []float64{1, 2}
	_, err = u.Embed3D(ctx, ragged)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestFindABParams(t *testing.T) {
	p := findABParams(0.1)
	// Known-good fit for min_dist=0.1
	assert.InDelta(t, 1.577, p.a, 0.15)
	assert.InDelta(t, 0.895, p.b, 0.1)

	// Larger min_dist flattens the curve
	p2 := findABParams(0.5)
	assert.Less(t, p2.a, p.a)
	assert.Greater(t, p2.a, 0.0)
	assert.Greater(t, p2.b, 0.0)
}

func TestSmoothKNNDist(t *testing.T) {
	distances := []float64{0, 0.5, 1.0, 1.5, 2.0}
	rho, sigma := smoothKNNDist(distances, len(distances))

	// rho is the nearest nonzero neighbor distance
	assert.InDelta(t, 0.5, rho, 1e-9)
	assert.Greater(t, sigma, 0.0)

	// The membership strengths should sum to about log2(k)
	sum := 0.0
	for _, d := range distances {
		if d <= rho {
			sum += 1.0
		} else {
			sum += math.Exp(-(d - rho) / sigma)
		}
	}
	assert.InDelta(t, math.Log2(float64(len(distances))), sum, 0.05)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.NNeighbors = 1
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MinDist = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Metric = "manhattan"
	assert.Error(t, bad.Validate())
}
