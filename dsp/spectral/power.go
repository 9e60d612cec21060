package spectral

import (
	"math"
)

// PowerToDB converts power spectra to decibels
type PowerToDB struct {
	amin  float64 // floor for the log argument
	topDB float64 // dynamic range clamp below the peak; <= 0 disables
}

// NewPowerToDB creates a converter with the conventional settings
// (amin=1e-10, 80 dB dynamic range, reference = matrix peak)
func NewPowerToDB() *PowerToDB {
	return &PowerToDB{
		amin:  1e-10,
		topDB: 80.0,
	}
}

// NewPowerToDBWithRange creates a converter with a custom dynamic range
func NewPowerToDBWithRange(topDB float64) *PowerToDB {
	return &PowerToDB{
		amin:  1e-10,
		topDB: topDB,
	}
}

// Convert maps a power matrix to dB relative to its own maximum.
// Values are clamped to peak - topDB. The input is not modified.
func (p *PowerToDB) Convert(power [][]float64) [][]float64 {
	if len(power) == 0 {
		return [][]float64{}
	}

	ref := p.amin
	for _, row := range power {
		for _, v := range row {
			if v > ref {
				ref = v
			}
		}
	}

	logRef := 10.0 * math.Log10(ref)

	db := make([][]float64, len(power))
	peak := math.Inf(-1)
	for i, row := range power {
		db[i] = make([]float64, len(row))
		for j, v := range row {
			db[i][j] = 10.0*math.Log10(math.Max(v, p.amin)) - logRef
			if db[i][j] > peak {
				peak = db[i][j]
			}
		}
	}

	if p.topDB > 0 {
		floor := peak - p.topDB
		for i := range db {
			for j := range db[i] {
				if db[i][j] < floor {
					db[i][j] = floor
				}
			}
		}
	}

	return db
}
