package temporal

import (
	"github.com/birdmach/mach/dsp/spectral"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// OnsetDetection detects note/event onsets using spectral flux peaks
type OnsetDetection struct {
	spectralFlux *spectral.SpectralFlux
	stft         *spectral.STFT
	windowSize   int
	hopSize      int
}

// OnsetResult holds detected onsets
type OnsetResult struct {
	TimesS    []float64 `json:"times_s"`   // Onset times in seconds
	Strengths []float64 `json:"strengths"` // Flux value at each onset
	Count     int       `json:"count"`     // Number of onsets
}

// MeanInterval returns the mean inter-onset interval in seconds,
// or 0 when fewer than two onsets were found
func (r *OnsetResult) MeanInterval() float64 {
	if r.Count < 2 {
		return 0.0
	}

	sum := 0.0
	for i := 1; i < len(r.TimesS); i++ {
		sum += r.TimesS[i] - r.TimesS[i-1]
	}
	return sum / float64(r.Count-1)
}

// NewOnsetDetection creates a new onset detector
func NewOnsetDetection() *OnsetDetection {
	return &OnsetDetection{
		spectralFlux: spectral.NewSpectralFlux(),
		stft:         spectral.NewSTFT(),
		windowSize:   1024,
		hopSize:      512,
	}
}

// Detect finds onsets in a signal. The threshold adapts to the flux
// distribution (mean + 1.5 stddev) and peaks closer than minInterval
// seconds are suppressed.
func (od *OnsetDetection) Detect(signal []float64, sampleRate int) (*OnsetResult, error) {
	if len(signal) < od.windowSize {
		return &OnsetResult{TimesS: []float64{}, Strengths: []float64{}}, nil
	}

	stftResult, err := od.stft.ComputeWithWindow(signal, od.windowSize, od.hopSize, sampleRate, nil)
	if err != nil {
		return nil, err
	}

	flux := od.spectralFlux.Compute(stftResult.Magnitude)
	if len(flux) == 0 {
		return &OnsetResult{TimesS: []float64{}, Strengths: []float64{}}, nil
	}

	threshold := stat.Mean(flux, nil) + 1.5*stat.StdDev(flux, nil)
	minInterval := 0.05 // 50 ms refractory period

	frames := od.findFluxPeaks(flux, threshold, minInterval, sampleRate)

	times := make([]float64, len(frames))
	strengths := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = float64(f*od.hopSize) / float64(sampleRate)
		strengths[i] = flux[f]
	}

	return &OnsetResult{
		TimesS:    times,
		Strengths: strengths,
		Count:     len(frames),
	}, nil
}

// findFluxPeaks finds local maxima above threshold with a refractory period
func (od *OnsetDetection) findFluxPeaks(flux []float64, threshold, minInterval float64, sampleRate int) []int {
	if len(flux) < 3 {
		return []int{}
	}

	minFrameGap := int(minInterval * float64(sampleRate) / float64(od.hopSize))

	var peaks []int
	lastPeak := -minFrameGap - 1

	for i := 1; i < len(flux)-1; i++ {
		if flux[i] < threshold {
			continue
		}
		if flux[i] <= flux[i-1] || flux[i] < flux[i+1] {
			continue
		}
		if i-lastPeak <= minFrameGap {
			// Keep the stronger of the two competing peaks
			if len(peaks) > 0 && flux[i] > flux[peaks[len(peaks)-1]] {
				peaks[len(peaks)-1] = i
				lastPeak = i
			}
			continue
		}

		peaks = append(peaks, i)
		lastPeak = i
	}

	return peaks
}

// OnsetEnvelope returns the raw spectral flux curve and its frame times,
// for callers that want the novelty function itself
func (od *OnsetDetection) OnsetEnvelope(signal []float64, sampleRate int) ([]float64, []float64, error) {
	if len(signal) < od.windowSize {
		return []float64{}, []float64{}, nil
	}

	stftResult, err := od.stft.ComputeWithWindow(signal, od.windowSize, od.hopSize, sampleRate, nil)
	if err != nil {
		return nil, nil, err
	}

	flux := od.spectralFlux.Compute(stftResult.Magnitude)

	// Normalize to [0, 1] so envelopes are comparable across recordings
	if m := floats.Max(flux); m > 0 {
		floats.Scale(1.0/m, flux)
	}

	times := make([]float64, len(flux))
	for i := range times {
		times[i] = float64(i*od.hopSize) / float64(sampleRate)
	}

	return flux, times, nil
}
