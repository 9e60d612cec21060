// Package analysis builds per-recording feature summaries on top of the
// dsp primitives.
package analysis

import (
	"fmt"

	"github.com/birdmach/mach/dsp/spectral"
	"github.com/birdmach/mach/dsp/temporal"
	"github.com/birdmach/mach/dsp/windowing"
	"gonum.org/v1/gonum/stat"
)

// Summary is the single-recording analysis result
type Summary struct {
	DurationS            float64  `json:"duration_s"`
	SampleRate           int      `json:"sample_rate"`
	TempoBPM             float64  `json:"tempo_bpm"`
	OnsetCount           int      `json:"onset_count"`
	OnsetMeanIntervalS   float64  `json:"onset_mean_interval_s"`
	RMSMean              float64  `json:"rms_mean"`
	RMSMax               float64  `json:"rms_max"`
	SpectralCentroidMean float64  `json:"spectral_centroid_mean"`
	SpectralBandwidth    float64  `json:"spectral_bandwidth_mean"`
	SpectralRolloffMean  float64  `json:"spectral_rolloff_mean"`
	SpectralFlatnessMean float64  `json:"spectral_flatness_mean"`
	ZeroCrossingRateMean float64  `json:"zero_crossing_rate_mean"`
	Tags                 []string `json:"tags"`
}

// Analyzer runs the summary pipeline
type Analyzer struct {
	stft     *spectral.STFT
	win      *windowing.Hann
	window   int
	hop      int
	onsets   *temporal.OnsetDetection
	tempo    *temporal.TempoEstimation
	envelope *temporal.Envelope
	zcr      *spectral.ZeroCrossingRate
	flatness *spectral.SpectralFlatness
}

// NewAnalyzer creates an analyzer with the standard framing
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		stft:     spectral.NewSTFT(),
		win:      windowing.NewHann(2048, false),
		window:   2048,
		hop:      512,
		onsets:   temporal.NewOnsetDetection(),
		tempo:    temporal.NewTempoEstimation(),
		envelope: temporal.NewEnvelope(),
		zcr:      spectral.NewZeroCrossingRate(),
		flatness: spectral.NewSpectralFlatness(),
	}
}

// Summarize computes the full feature summary for a mono signal
func (a *Analyzer) Summarize(pcm []float64, sampleRate int) (*Summary, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	s := &Summary{
		DurationS:  float64(len(pcm)) / float64(sampleRate),
		SampleRate: sampleRate,
	}

	if len(pcm) >= a.window {
		stftResult, err := a.stft.ComputeWithWindow(pcm, a.window, a.hop, sampleRate, a.win)
		if err != nil {
			return nil, fmt.Errorf("stft: %w", err)
		}

		centroid := spectral.NewSpectralCentroid(sampleRate).ComputeFrames(stftResult.Magnitude)
		bandwidth := spectral.NewSpectralBandwidth(sampleRate).ComputeFrames(stftResult.Magnitude)
		rolloff := spectral.NewSpectralRolloff(sampleRate).ComputeFrames(stftResult.Magnitude)
		flatness := a.flatness.ComputeFrames(stftResult.Magnitude)

		s.SpectralCentroidMean = stat.Mean(centroid, nil)
		s.SpectralBandwidth = stat.Mean(bandwidth, nil)
		s.SpectralRolloffMean = stat.Mean(rolloff, nil)
		s.SpectralFlatnessMean = stat.Mean(flatness, nil)
	}

	rms := a.envelope.ComputeRMS(pcm, a.window, a.hop)
	if len(rms) > 0 {
		s.RMSMean = stat.Mean(rms, nil)
		for _, v := range rms {
			if v > s.RMSMax {
				s.RMSMax = v
			}
		}
	}

	s.ZeroCrossingRateMean = a.zcr.ComputeMean(pcm)

	onsets, err := a.onsets.Detect(pcm, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("onset detection: %w", err)
	}
	s.OnsetCount = onsets.Count
	s.OnsetMeanIntervalS = onsets.MeanInterval()

	beats, err := a.tempo.Estimate(pcm, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("tempo estimation: %w", err)
	}
	s.TempoBPM = beats.TempoBPM

	s.Tags = deriveTags(s)

	return s, nil
}

// deriveTags maps summary statistics to coarse descriptive labels
func deriveTags(s *Summary) []string {
	tags := []string{}

	if s.RMSMean < 0.02 {
		tags = append(tags, "quiet")
	} else if s.RMSMean > 0.2 {
		tags = append(tags, "loud")
	}

	if s.SpectralFlatnessMean > 0.5 {
		tags = append(tags, "noisy")
	} else if s.SpectralFlatnessMean < 0.1 {
		tags = append(tags, "tonal")
	}

	if s.SpectralCentroidMean > 3000 {
		tags = append(tags, "bright")
	} else if s.SpectralCentroidMean > 0 && s.SpectralCentroidMean < 800 {
		tags = append(tags, "dark")
	}

	if s.DurationS > 0 && float64(s.OnsetCount)/s.DurationS > 3.0 {
		tags = append(tags, "percussive")
	}

	if s.TempoBPM > 0 {
		tags = append(tags, "rhythmic")
	}

	return tags
}
