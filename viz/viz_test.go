package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCloud() PointCloud {
	return PointCloud{
		Emb: [][]float64{
			{0, 0, 0},
			{1, 1, 1},
			{2, 0, 1},
			{3, 2, 0},
		},
		Times:    []float64{0, 0.1, 0.2, 0.3},
		Energy:   []float64{-40, -30, -20, -10},
		Flatness: []float64{0.1, 0.2, 0.3, 0.4},
		ColorBy:  ColorByTime,
		Title:    "test cloud",
	}
}

func TestParseColorBy(t *testing.T) {
	assert.Equal(t, ColorByTime, ParseColorBy("time"))
	assert.Equal(t, ColorByEnergy, ParseColorBy("energy"))
	assert.Equal(t, ColorByFlatness, ParseColorBy("flatness"))
	assert.Equal(t, ColorByTime, ParseColorBy(""))
	assert.Equal(t, ColorByTime, ParseColorBy("bogus"))
}

func TestBuildSingleview(t *testing.T) {
	fig, err := BuildSingleview(testCloud())
	require.NoError(t, err)
	require.Len(t, fig.Data, 1)

	trace := fig.Data[0]
	assert.Equal(t, "scatter3d", trace.Type)
	assert.Equal(t, "markers", trace.Mode)
	assert.Equal(t, []float64{0, 1, 2, 3}, trace.X)
	assert.Equal(t, []float64{0, 1, 0, 2}, trace.Y)
	assert.Equal(t, []float64{0, 1, 1, 0}, trace.Z)

	require.NotNil(t, trace.Marker)
	assert.Equal(t, []float64{0, 0.1, 0.2, 0.3}, trace.Marker.Color)
	assert.True(t, trace.Marker.ShowScale)
	require.NotNil(t, trace.Marker.Colorbar)
	assert.Equal(t, "time (s)", trace.Marker.Colorbar.Title)
	assert.Equal(t, "Turbo", trace.Marker.Colorscale)

	assert.Equal(t, 700, fig.Layout.Height)
	require.NotNil(t, fig.Layout.Scene)
	assert.Equal(t, "D1", fig.Layout.Scene.XAxis.Title)
}

func TestBuildSingleviewConnect(t *testing.T) {
	pc := testCloud()
	pc.Connect = true

	fig, err := BuildSingleview(pc)
	require.NoError(t, err)
	assert.Equal(t, "markers+lines", fig.Data[0].Mode)
	assert.NotNil(t, fig.Data[0].Line)
}

func TestBuildSingleviewColorByEnergy(t *testing.T) {
	pc := testCloud()
	pc.ColorBy = ColorByEnergy

	fig, err := BuildSingleview(pc)
	require.NoError(t, err)
	assert.Equal(t, pc.Energy, fig.Data[0].Marker.Color)
	assert.Equal(t, "energy", fig.Data[0].Marker.Colorbar.Title)
}

func TestBuildSingleviewFlatnessFallback(t *testing.T) {
	pc := testCloud()
	pc.ColorBy = ColorByFlatness
	pc.Flatness = nil

	fig, err := BuildSingleview(pc)
	require.NoError(t, err)
	assert.Equal(t, pc.Energy, fig.Data[0].Marker.Color)
	assert.Equal(t, "energy", fig.Data[0].Marker.Colorbar.Title)
}

func TestBuildMultiview(t *testing.T) {
	fig, err := BuildMultiview(testCloud())
	require.NoError(t, err)
	require.Len(t, fig.Data, 3)

	assert.Equal(t, "scene", fig.Data[0].Scene)
	assert.Equal(t, "scene2", fig.Data[1].Scene)
	assert.Equal(t, "scene3", fig.Data[2].Scene)

	assert.True(t, fig.Data[0].Marker.ShowScale)
	assert.NotNil(t, fig.Data[0].Marker.Colorbar)
	assert.False(t, fig.Data[1].Marker.ShowScale)
	assert.Nil(t, fig.Data[1].Marker.Colorbar)
	assert.False(t, fig.Data[2].Marker.ShowScale)

	require.NotNil(t, fig.Layout.ShowLegend)
	assert.False(t, *fig.Layout.ShowLegend)
	assert.Equal(t, 900, fig.Layout.Height)

	require.NotNil(t, fig.Layout.Scene)
	require.NotNil(t, fig.Layout.Scene2)
	require.NotNil(t, fig.Layout.Scene3)
	assert.Equal(t, []float64{0.68, 1.0}, fig.Layout.Scene.Domain.Y)
	assert.Equal(t, []float64{0.34, 0.66}, fig.Layout.Scene2.Domain.Y)
	assert.Equal(t, []float64{0.0, 0.32}, fig.Layout.Scene3.Domain.Y)

	// Three distinct viewpoints
	assert.NotEqual(t, fig.Layout.Scene.Camera.Eye, fig.Layout.Scene2.Camera.Eye)
	assert.NotEqual(t, fig.Layout.Scene2.Camera.Eye, fig.Layout.Scene3.Camera.Eye)
}

func TestBuild2D(t *testing.T) {
	pc := testCloud()
	pc.Emb = [][]float64{{0, 0}, {1, 1}, {2, 0}, {3, 2}}

	fig, err := Build2D(pc)
	require.NoError(t, err)
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "scatter", fig.Data[0].Type)
	assert.Nil(t, fig.Data[0].Z)
	assert.Equal(t, "D1", fig.Layout.XAxis.Title)
}

func TestBuildRejectsBadEmbedding(t *testing.T) {
	pc := testCloud()
	pc.Emb = [][]float64{{0, 0}, {1, 1}} // 2D rows into a 3D figure
	pc.Times = []float64{0, 0.1}

	_, err := BuildSingleview(pc)
	assert.Error(t, err)

	pc = testCloud()
	pc.Times = []float64{0} // length mismatch
	_, err = BuildMultiview(pc)
	assert.Error(t, err)

	_, err = Build2D(PointCloud{})
	assert.Error(t, err)
}

func TestBuildWaveform(t *testing.T) {
	pcm := []float64{0, 0.5, -0.5, 0.25}
	fig, err := BuildWaveform(pcm, 4, "wave")
	require.NoError(t, err)

	trace := fig.Data[0]
	assert.Equal(t, "lines", trace.Mode)
	assert.Equal(t, pcm, trace.Y)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, trace.X)
}

func TestBuildWaveformDownsamples(t *testing.T) {
	pcm := make([]float64, 200000)
	for i := range pcm {
		pcm[i] = float64(i)
	}

	fig, err := BuildWaveform(pcm, 22050, "long")
	require.NoError(t, err)

	trace := fig.Data[0]
	require.Len(t, trace.Y, maxWaveformPoints)
	require.Len(t, trace.X, maxWaveformPoints)
	assert.Equal(t, 0.0, trace.Y[0])
	assert.Equal(t, float64(len(pcm)-1), trace.Y[maxWaveformPoints-1])

	_, err = BuildWaveform(nil, 22050, "empty")
	assert.Error(t, err)
}

func TestBuildMelSpectrogramTransposes(t *testing.T) {
	X := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	}
	fig, err := BuildMelSpectrogram(X, []float64{0, 0.1}, []float64{100, 200, 300}, "mel")
	require.NoError(t, err)

	trace := fig.Data[0]
	assert.Equal(t, "heatmap", trace.Type)
	z, ok := trace.Z.([][]float64)
	require.True(t, ok)
	require.Len(t, z, 3)
	assert.Equal(t, []float64{1, 4}, z[0])
	assert.Equal(t, []float64{3, 6}, z[2])

	_, err = BuildMelSpectrogram(nil, nil, nil, "empty")
	assert.Error(t, err)
}

func TestBuildFlatnessRange(t *testing.T) {
	fig := BuildFlatness([]float64{0, 0.1}, []float64{0.2, 0.8}, "flatness")
	assert.Equal(t, "tozeroy", fig.Data[0].Fill)
	assert.Equal(t, []float64{0, 1}, fig.Layout.YAxis.Range)
}

func TestFigureJSON(t *testing.T) {
	fig, err := BuildSingleview(testCloud())
	require.NoError(t, err)

	raw, err := fig.JSON()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "layout")

	var data []map[string]any
	require.NoError(t, json.Unmarshal(decoded["data"], &data))
	require.Len(t, data, 1)
	assert.Equal(t, "scatter3d", data[0]["type"])
}

func TestFigureHTML(t *testing.T) {
	fig := BuildEnergy([]float64{0, 0.1}, []float64{-20, -10}, "energy")

	withJS, err := fig.HTML("plot-1", true)
	require.NoError(t, err)
	assert.Contains(t, withJS, "cdn.plot.ly")
	assert.Contains(t, withJS, `<div id="plot-1"></div>`)
	assert.Contains(t, withJS, `Plotly.newPlot("plot-1"`)

	withoutJS, err := fig.HTML("plot-2", false)
	require.NoError(t, err)
	assert.NotContains(t, withoutJS, "cdn.plot.ly")
	assert.Contains(t, withoutJS, `Plotly.newPlot("plot-2"`)
}

func TestFigureFullHTML(t *testing.T) {
	fig := BuildEnergy([]float64{0}, []float64{-20}, "energy")

	doc, err := fig.FullHTML("bird <song>")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "<!doctype html>"))
	assert.Contains(t, doc, "<title>bird &lt;song&gt;</title>")
	assert.Contains(t, doc, "cdn.plot.ly")
}
