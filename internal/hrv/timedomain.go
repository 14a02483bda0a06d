package hrv

import "math"

// nn50ThresholdMS is the successive-difference threshold for NN50/pNN50.
const nn50ThresholdMS = 50.0

// ComputeTimeDomain computes the time-domain HRV statistics for a cleaned
// interval sequence. Pure function of its input. Sequences shorter than
// two samples degrade to zeros for the successive-difference metrics;
// meaningfulness thresholds are the engine's concern, not this one's.
func ComputeTimeDomain(cleaned []float64) TimeDomain {
	var td TimeDomain
	if len(cleaned) == 0 {
		return td
	}

	td.MeanRR = mean(cleaned)
	if td.MeanRR > 0 {
		td.MeanHR = 60000.0 / td.MeanRR
	}

	if len(cleaned) < 2 {
		return td
	}

	td.SDNN = sampleStdDev(cleaned)

	diffs := make([]float64, len(cleaned)-1)
	sumSq := 0.0
	for i := 1; i < len(cleaned); i++ {
		d := cleaned[i] - cleaned[i-1]
		diffs[i-1] = d
		sumSq += d * d
		if math.Abs(d) > nn50ThresholdMS {
			td.NN50++
		}
	}

	td.RMSSD = math.Sqrt(sumSq / float64(len(diffs)))
	td.SDSD = sampleStdDev(diffs)
	td.PNN50 = 100.0 * float64(td.NN50) / float64(len(diffs))

	return td
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the Bessel-corrected (N-1) standard deviation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
