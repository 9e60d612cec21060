package spectral

import (
	"math"
)

// SpectralFlux measures frame-to-frame spectral change, the input to
// onset detection
type SpectralFlux struct {
	rectify bool // keep only positive changes (energy increases)
}

// NewSpectralFlux creates a rectified flux calculator, which is what onset
// detection wants
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{
		rectify: true,
	}
}

// Compute calculates the flux between consecutive frames of a magnitude
// spectrogram. Output has len(magnitude) entries; the first is zero.
func (sf *SpectralFlux) Compute(magnitude [][]float64) []float64 {
	if len(magnitude) == 0 {
		return []float64{}
	}

	flux := make([]float64, len(magnitude))

	for t := 1; t < len(magnitude); t++ {
		sum := 0.0
		prev := magnitude[t-1]
		curr := magnitude[t]

		n := min(len(prev), len(curr))
		for i := 0; i < n; i++ {
			diff := curr[i] - prev[i]
			if sf.rectify {
				if diff > 0 {
					sum += diff * diff
				}
			} else {
				sum += diff * diff
			}
		}

		flux[t] = math.Sqrt(sum)
	}

	return flux
}
