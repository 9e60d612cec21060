package viz

import (
	"fmt"
)

// ColorBy selects which per-frame series colors the embedding points.
type ColorBy string

const (
	ColorByTime     ColorBy = "time"
	ColorByEnergy   ColorBy = "energy"
	ColorByFlatness ColorBy = "flatness"
)

// ParseColorBy maps a request string onto a ColorBy, defaulting to time.
func ParseColorBy(s string) ColorBy {
	switch ColorBy(s) {
	case ColorByEnergy:
		return ColorByEnergy
	case ColorByFlatness:
		return ColorByFlatness
	default:
		return ColorByTime
	}
}

// PointCloud carries an embedding plus the per-frame series used for
// coloring. Emb is (nFrames, 2|3).
type PointCloud struct {
	Emb      [][]float64
	Times    []float64
	Energy   []float64
	Flatness []float64

	ColorBy    ColorBy
	Connect    bool
	Title      string
	Colorscale string
}

func (p *PointCloud) colorscale() string {
	if p.Colorscale == "" {
		return "Turbo"
	}
	return p.Colorscale
}

// markerValues returns the color series and colorbar title for the
// configured color mode. Falls back to energy when flatness is asked
// for but absent.
func (p *PointCloud) markerValues() ([]float64, string) {
	switch p.ColorBy {
	case ColorByTime:
		return p.Times, "time (s)"
	case ColorByFlatness:
		if p.Flatness != nil {
			return p.Flatness, "flatness"
		}
	}
	return p.Energy, "energy"
}

func (p *PointCloud) mode() string {
	if p.Connect {
		return "markers+lines"
	}
	return "markers"
}

func (p *PointCloud) validate(dims int) error {
	if len(p.Emb) == 0 {
		return fmt.Errorf("empty embedding")
	}
	for i, row := range p.Emb {
		if len(row) != dims {
			return fmt.Errorf("embedding row %d has %d components, want %d", i, len(row), dims)
		}
	}
	if len(p.Times) != len(p.Emb) {
		return fmt.Errorf("times length %d does not match %d embedding rows", len(p.Times), len(p.Emb))
	}
	return nil
}

func column(emb [][]float64, j int) []float64 {
	out := make([]float64, len(emb))
	for i, row := range emb {
		out[i] = row[j]
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

// BuildSingleview builds a single interactive 3D scatter of the embedding.
func BuildSingleview(pc PointCloud) (*Figure, error) {
	if err := pc.validate(3); err != nil {
		return nil, fmt.Errorf("singleview figure: %w", err)
	}
	colors, cbTitle := pc.markerValues()

	trace := Trace{
		Type: "scatter3d",
		Mode: pc.mode(),
		X:    column(pc.Emb, 0),
		Y:    column(pc.Emb, 1),
		Z:    column(pc.Emb, 2),
		Marker: &Marker{
			Size:       3,
			Color:      colors,
			Colorscale: pc.colorscale(),
			Opacity:    0.95,
			ShowScale:  true,
			Colorbar:   &Colorbar{Title: cbTitle},
		},
	}
	if pc.Connect {
		trace.Line = &Line{Width: 2, Color: "rgba(255,255,255,0.25)"}
	}

	return &Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:  pc.Title,
			Margin: &Margin{L: 0, R: 0, T: 40, B: 0},
			Height: 700,
			Scene: &Scene{
				XAxis: &Axis{Title: "D1"},
				YAxis: &Axis{Title: "D2"},
				ZAxis: &Axis{Title: "D3"},
			},
		},
	}, nil
}

// cameraPresets are the three fixed viewpoints of the multiview figure:
// an oblique view, a reverse oblique, and a near top-down.
func cameraPresets() [3]Camera {
	return [3]Camera{
		{Eye: Eye{X: 1.4, Y: 1.4, Z: 0.9}},
		{Eye: Eye{X: -1.6, Y: 1.1, Z: 0.6}},
		{Eye: Eye{X: 0.0, Y: 0.0, Z: 2.2}},
	}
}

// BuildMultiview builds a 3-row stacked figure showing the 3D embedding
// from three camera angles. Only the top row carries the colorbar.
func BuildMultiview(pc PointCloud) (*Figure, error) {
	if err := pc.validate(3); err != nil {
		return nil, fmt.Errorf("multiview figure: %w", err)
	}
	colors, cbTitle := pc.markerValues()
	cameras := cameraPresets()

	x := column(pc.Emb, 0)
	y := column(pc.Emb, 1)
	z := column(pc.Emb, 2)

	sceneIDs := [3]string{"scene", "scene2", "scene3"}
	traces := make([]Trace, 0, 3)
	for i := 0; i < 3; i++ {
		showScale := i == 0
		m := &Marker{
			Size:       3,
			Color:      colors,
			Colorscale: pc.colorscale(),
			Opacity:    0.95,
			ShowScale:  showScale,
		}
		if showScale {
			m.Colorbar = &Colorbar{Title: cbTitle}
		}
		trace := Trace{
			Type:   "scatter3d",
			Mode:   pc.mode(),
			X:      x,
			Y:      y,
			Z:      z,
			Marker: m,
			Scene:  sceneIDs[i],
		}
		if pc.Connect {
			trace.Line = &Line{Width: 2, Color: "rgba(255,255,255,0.25)"}
		}
		traces = append(traces, trace)
	}

	newScene := func(cam Camera, yLo, yHi float64) *Scene {
		return &Scene{
			Camera: &cam,
			Domain: &Domain{Y: []float64{yLo, yHi}},
			XAxis:  &Axis{Title: "D1"},
			YAxis:  &Axis{Title: "D2"},
			ZAxis:  &Axis{Title: "D3"},
		}
	}

	return &Figure{
		Data: traces,
		Layout: Layout{
			Title:      pc.Title,
			Margin:     &Margin{L: 0, R: 0, T: 40, B: 0},
			Height:     900,
			ShowLegend: boolPtr(false),
			Scene:      newScene(cameras[0], 0.68, 1.0),
			Scene2:     newScene(cameras[1], 0.34, 0.66),
			Scene3:     newScene(cameras[2], 0.0, 0.32),
		},
	}, nil
}

// Build2D builds a 2D scatter of the embedding.
func Build2D(pc PointCloud) (*Figure, error) {
	if err := pc.validate(2); err != nil {
		return nil, fmt.Errorf("2d figure: %w", err)
	}
	colors, cbTitle := pc.markerValues()

	trace := Trace{
		Type: "scatter",
		Mode: pc.mode(),
		X:    column(pc.Emb, 0),
		Y:    column(pc.Emb, 1),
		Marker: &Marker{
			Size:       5,
			Color:      colors,
			Colorscale: pc.colorscale(),
			Opacity:    0.85,
			ShowScale:  true,
			Colorbar:   &Colorbar{Title: cbTitle},
		},
	}
	if pc.Connect {
		trace.Line = &Line{Width: 1, Color: "rgba(255,255,255,0.15)"}
	}

	return &Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:  pc.Title,
			Margin: &Margin{L: 40, R: 10, T: 40, B: 40},
			Height: 600,
			XAxis:  &Axis{Title: "D1"},
			YAxis:  &Axis{Title: "D2"},
		},
	}, nil
}

// maxWaveformPoints caps the number of samples drawn in a waveform plot
const maxWaveformPoints = 50000

// BuildWaveform builds a waveform line plot, downsampling uniformly when
// the signal exceeds maxWaveformPoints samples.
func BuildWaveform(pcm []float64, sampleRate int, title string) (*Figure, error) {
	n := len(pcm)
	if n == 0 {
		return nil, fmt.Errorf("waveform figure: empty signal")
	}

	var yPlot, tPlot []float64
	if n > maxWaveformPoints {
		yPlot = make([]float64, maxWaveformPoints)
		tPlot = make([]float64, maxWaveformPoints)
		for i := 0; i < maxWaveformPoints; i++ {
			idx := i * (n - 1) / (maxWaveformPoints - 1)
			yPlot[i] = pcm[idx]
			tPlot[i] = float64(idx) / float64(sampleRate)
		}
	} else {
		yPlot = pcm
		tPlot = make([]float64, n)
		for i := range tPlot {
			tPlot[i] = float64(i) / float64(sampleRate)
		}
	}

	return &Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines",
			X:    tPlot,
			Y:    yPlot,
			Line: &Line{Width: 1, Color: "rgba(147,197,253,0.9)"},
		}},
		Layout: Layout{
			Title:  title,
			Margin: &Margin{L: 40, R: 10, T: 40, B: 40},
			Height: 260,
			XAxis:  &Axis{Title: "time (s)"},
			YAxis:  &Axis{Title: "amplitude"},
		},
	}, nil
}

// BuildMelSpectrogram builds a heatmap of log-mel features. X is
// (nFrames, nMels); melFreqs labels the frequency axis in Hz.
func BuildMelSpectrogram(X [][]float64, times, melFreqs []float64, title string) (*Figure, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("mel spectrogram figure: empty feature matrix")
	}
	nMels := len(X[0])

	// transpose to (nMels, nFrames) for the heatmap z matrix
	z := make([][]float64, nMels)
	for m := 0; m < nMels; m++ {
		z[m] = make([]float64, len(X))
		for t := range X {
			z[m][t] = X[t][m]
		}
	}

	return &Figure{
		Data: []Trace{{
			Type:       "heatmap",
			X:          times,
			Y:          melFreqs,
			Z:          z,
			Colorscale: "Turbo",
			Colorbar:   &Colorbar{Title: "dB"},
		}},
		Layout: Layout{
			Title:  title,
			Margin: &Margin{L: 50, R: 10, T: 40, B: 40},
			Height: 320,
			XAxis:  &Axis{Title: "time (s)"},
			YAxis:  &Axis{Title: "mel frequency (Hz)"},
		},
	}, nil
}

// BuildEnergy builds a line chart of per-frame energy over time.
func BuildEnergy(times, energy []float64, title string) *Figure {
	return &Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines",
			X:    times,
			Y:    energy,
			Line: &Line{Width: 2, Color: "rgba(251,191,36,0.9)"},
		}},
		Layout: Layout{
			Title:  title,
			Margin: &Margin{L: 40, R: 10, T: 40, B: 40},
			Height: 240,
			XAxis:  &Axis{Title: "time (s)"},
			YAxis:  &Axis{Title: "energy"},
		},
	}
}

// BuildFlatness builds a filled line chart of per-frame spectral
// flatness over time. The y range is pinned to [0, 1].
func BuildFlatness(times, flatness []float64, title string) *Figure {
	return &Figure{
		Data: []Trace{{
			Type:      "scatter",
			Mode:      "lines",
			X:         times,
			Y:         flatness,
			Fill:      "tozeroy",
			Line:      &Line{Width: 1.5, Color: "rgba(56,189,248,0.85)"},
			FillColor: "rgba(56,189,248,0.15)",
		}},
		Layout: Layout{
			Title:  title,
			Margin: &Margin{L: 40, R: 10, T: 40, B: 40},
			Height: 240,
			XAxis:  &Axis{Title: "time (s)"},
			YAxis:  &Axis{Title: "spectral flatness", Range: []float64{0, 1}},
		},
	}
}
