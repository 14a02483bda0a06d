package hrv

import (
	"math"
	"testing"
)

func approxEqual(got, want, tolerance float64) bool {
	if want == 0 {
		return math.Abs(got) <= tolerance
	}
	return math.Abs(got-want)/math.Abs(want) <= tolerance
}

func TestComputeTimeDomainConstantSequence(t *testing.T) {
	cleaned := []float64{800, 800, 800, 800, 800, 800, 800, 800, 800, 800}

	td := ComputeTimeDomain(cleaned)

	if td.RMSSD != 0 {
		t.Errorf("Expected RMSSD 0 for constant sequence, got %v", td.RMSSD)
	}
	if td.SDNN != 0 {
		t.Errorf("Expected SDNN 0 for constant sequence, got %v", td.SDNN)
	}
	if td.SDSD != 0 {
		t.Errorf("Expected SDSD 0 for constant sequence, got %v", td.SDSD)
	}
	if !approxEqual(td.MeanHR, 75.0, 1e-12) {
		t.Errorf("Expected mean HR 75 bpm, got %v", td.MeanHR)
	}
	if td.NN50 != 0 || td.PNN50 != 0 {
		t.Errorf("Expected NN50=0 pNN50=0, got NN50=%d pNN50=%v", td.NN50, td.PNN50)
	}
}

func TestComputeTimeDomainKnownValues(t *testing.T) {
	cleaned := []float64{800, 850, 790}

	td := ComputeTimeDomain(cleaned)

	// Successive differences are +50 and -60.
	wantRMSSD := math.Sqrt((50.0*50.0 + 60.0*60.0) / 2.0)
	if !approxEqual(td.RMSSD, wantRMSSD, 1e-12) {
		t.Errorf("Expected RMSSD %v, got %v", wantRMSSD, td.RMSSD)
	}

	wantSDNN := math.Sqrt(18600.0 / 9.0 / 2.0)
	if !approxEqual(td.SDNN, wantSDNN, 1e-12) {
		t.Errorf("Expected SDNN %v, got %v", wantSDNN, td.SDNN)
	}

	wantSDSD := math.Sqrt(6050.0)
	if !approxEqual(td.SDSD, wantSDSD, 1e-12) {
		t.Errorf("Expected SDSD %v, got %v", wantSDSD, td.SDSD)
	}

	// Only the -60 difference exceeds the 50ms threshold.
	if td.NN50 != 1 {
		t.Errorf("Expected NN50 1, got %d", td.NN50)
	}
	if !approxEqual(td.PNN50, 50.0, 1e-12) {
		t.Errorf("Expected pNN50 50, got %v", td.PNN50)
	}

	wantMeanRR := 2440.0 / 3.0
	if !approxEqual(td.MeanRR, wantMeanRR, 1e-12) {
		t.Errorf("Expected mean RR %v, got %v", wantMeanRR, td.MeanRR)
	}
	if !approxEqual(td.MeanHR, 60000.0/wantMeanRR, 1e-12) {
		t.Errorf("Expected mean HR %v, got %v", 60000.0/wantMeanRR, td.MeanHR)
	}
}

func TestComputeTimeDomainShortSequences(t *testing.T) {
	td := ComputeTimeDomain(nil)
	if td.MeanRR != 0 || td.RMSSD != 0 {
		t.Errorf("Expected zeroed result for empty input, got %+v", td)
	}

	td = ComputeTimeDomain([]float64{800})
	if td.RMSSD != 0 || td.SDNN != 0 {
		t.Errorf("Expected successive-difference metrics to degrade to 0, got %+v", td)
	}
	if !approxEqual(td.MeanHR, 75.0, 1e-12) {
		t.Errorf("Expected mean HR 75 from single sample, got %v", td.MeanHR)
	}
}

func TestComputeTimeDomainNonNegativity(t *testing.T) {
	inputs := [][]float64{
		{800, 810},
		{1000, 400, 1000, 400},
		{750, 760, 770, 780, 790, 800, 810, 820},
	}

	for _, cleaned := range inputs {
		td := ComputeTimeDomain(cleaned)
		if td.RMSSD < 0 || td.SDNN < 0 || td.SDSD < 0 {
			t.Errorf("Expected non-negative dispersion metrics, got %+v", td)
		}
		if td.PNN50 < 0 || td.PNN50 > 100 {
			t.Errorf("Expected pNN50 within [0,100], got %v", td.PNN50)
		}
	}
}
