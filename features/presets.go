package features

import (
	"strings"

	"github.com/birdmach/mach/umap"
)

// Preset bundles configuration for a common analysis scenario
type Preset struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Features    Config      `json:"features"`
	UMAP        umap.Config `json:"umap"`
	Colorscale  string      `json:"colorscale"`
	ColorBy     string      `json:"color_by"`
	Stride      int         `json:"stride"`
}

var presetMusic = Preset{
	Name:        "Music",
	Description: "Optimized for songs and musical recordings",
	Features: Config{
		SampleRate: 22050,
		NFFT:       2048,
		HopLength:  512,
		NMels:      128,
		FMin:       20.0,
	},
	UMAP:       umap.Config{NNeighbors: 30, MinDist: 0.05, Metric: umap.MetricCosine, RandomState: 42},
	Colorscale: "Turbo",
	ColorBy:    "time",
	Stride:     2,
}

var presetSpeech = Preset{
	Name:        "Speech",
	Description: "Optimized for spoken word and podcasts",
	Features: Config{
		SampleRate: 22050,
		NFFT:       2048,
		HopLength:  256,
		NMels:      64,
		FMin:       80.0,
	},
	UMAP:       umap.Config{NNeighbors: 20, MinDist: 0.1, Metric: umap.MetricCosine, RandomState: 42},
	Colorscale: "Viridis",
	ColorBy:    "energy",
	Stride:     3,
}

var presetNature = Preset{
	Name:        "Nature / Field Recording",
	Description: "Optimized for environmental and nature sounds",
	Features: Config{
		SampleRate: 22050,
		NFFT:       2048,
		HopLength:  1024,
		NMels:      128,
		FMin:       20.0,
	},
	UMAP:       umap.Config{NNeighbors: 15, MinDist: 0.2, Metric: umap.MetricCosine, RandomState: 42},
	Colorscale: "Plasma",
	ColorBy:    "time",
	Stride:     1,
}

var presetPercussive = Preset{
	Name:        "Percussive / Drums",
	Description: "Optimized for rhythmic and percussive content",
	Features: Config{
		SampleRate: 22050,
		NFFT:       2048,
		HopLength:  256,
		NMels:      64,
		FMin:       20.0,
	},
	UMAP:       umap.Config{NNeighbors: 10, MinDist: 0.01, Metric: umap.MetricCosine, RandomState: 42},
	Colorscale: "Hot",
	ColorBy:    "energy",
	Stride:     2,
}

var allPresets = map[string]Preset{
	"music":      presetMusic,
	"speech":     presetSpeech,
	"nature":     presetNature,
	"percussive": presetPercussive,
}

// GetPreset looks up a preset by name, case-insensitive
func GetPreset(name string) (Preset, bool) {
	p, ok := allPresets[strings.ToLower(name)]
	return p, ok
}

// PresetNames returns the available preset keys in a stable order
func PresetNames() []string {
	return []string{"music", "speech", "nature", "percussive"}
}
