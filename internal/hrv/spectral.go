package hrv

import "math"

// Frequency-domain thresholds and band edges (Hz). The engine gates the
// whole analysis on window length and sample count; MinSamplesForSpectral
// is this package's own floor below which band powers come back all-zero.
const (
	SpectralMinWindowSeconds = 120.0
	SpectralMinSamples       = 120
	MinSamplesForSpectral    = 64

	vlfLowHz  = 0.003
	vlfHighHz = 0.04
	lfHighHz  = 0.15
	hfHighHz  = 0.40
	maxFreqHz = 0.5
)

// ComputeSpectral estimates VLF/LF/HF band powers for a cleaned interval
// sequence via a direct discrete Fourier transform.
//
// The interval series is treated as pseudo-evenly sampled at 1000/meanRR Hz,
// the standard simplification for interval-domain HRV spectra. The series
// is detrended by its mean and shaped with a Hanning window before the
// transform. Fewer than MinSamplesForSpectral samples yield all-zero band
// powers, which callers must distinguish from "analysis not attempted".
func ComputeSpectral(cleaned []float64) SpectralMetrics {
	var sm SpectralMetrics
	n := len(cleaned)
	if n < MinSamplesForSpectral {
		return sm
	}

	meanRR := mean(cleaned)
	if meanRR <= 0 {
		return sm
	}
	sampleRate := 1000.0 / meanRR

	windowed := make([]float64, n)
	for i, v := range cleaned {
		hann := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - meanRR) * hann
	}

	// Direct DFT, one bin at a time. O(N²) by construction; correctness
	// reference rather than performance.
	nf := float64(n)
	for k := 1; k <= n/2; k++ {
		freq := float64(k) * sampleRate / nf
		if freq > maxFreqHz {
			break
		}

		re, im := 0.0, 0.0
		for i, w := range windowed {
			angle := 2 * math.Pi * float64(k) * float64(i) / nf
			re += w * math.Cos(angle)
			im += w * math.Sin(angle)
		}
		power := (re*re + im*im) / (nf * nf)

		sm.TotalPower += power
		switch {
		case freq >= vlfLowHz && freq < vlfHighHz:
			sm.VLFPower += power
		case freq >= vlfHighHz && freq < lfHighHz:
			sm.LFPower += power
		case freq >= lfHighHz && freq < hfHighHz:
			sm.HFPower += power
		}
	}

	if sm.HFPower > 0 {
		sm.LFHFRatio = sm.LFPower / sm.HFPower
		sm.HasRatio = true
	}
	if denom := sm.TotalPower - sm.VLFPower; denom > 0 {
		sm.LFNorm = sm.LFPower / denom * 100.0
		sm.HFNorm = sm.HFPower / denom * 100.0
		sm.HasNormalized = true
	}

	return sm
}
