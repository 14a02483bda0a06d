package hrv

import "testing"

func validMetrics(rmssd float64, confidence ConfidenceLevel) Metrics {
	return Metrics{
		TimeDomain:     TimeDomain{RMSSD: rmssd, MeanRR: 800, MeanHR: 75},
		SampleCount:    75,
		WindowSeconds:  60,
		IsValid:        true,
		Confidence:     confidence,
		Interpretation: InterpretRMSSD(rmssd),
	}
}

func TestAssessFlowInvalidMetrics(t *testing.T) {
	a := AssessFlow(Metrics{IsValid: false}, 50)

	if a.Score != 0 {
		t.Errorf("Expected score 0 for invalid metrics, got %d", a.Score)
	}
	if a.Interpretation != "insufficient data" {
		t.Errorf("Expected insufficient data interpretation, got %q", a.Interpretation)
	}
	if a.Recommendation == "" {
		t.Error("Expected a recommendation even for invalid metrics")
	}
}

func TestAssessFlowScoreTracksRMSSDBand(t *testing.T) {
	tests := []struct {
		rmssd    float64
		minScore int
		maxScore int
	}{
		{10, 0, 39},   // very_low
		{25, 40, 59},  // low, no baseline adjustment
		{40, 60, 79},  // normal
		{75, 80, 100}, // good
		{120, 80, 100},
	}

	for _, test := range tests {
		a := AssessFlow(validMetrics(test.rmssd, ConfidenceHigh), 0)
		if a.Score < test.minScore || a.Score > test.maxScore {
			t.Errorf("RMSSD %v: expected score in [%d,%d], got %d", test.rmssd, test.minScore, test.maxScore, a.Score)
		}
	}
}

func TestAssessFlowBaselineAdjustment(t *testing.T) {
	m := validMetrics(40, ConfidenceHigh)

	neutral := AssessFlow(m, 0)
	above := AssessFlow(m, 30)    // +33% vs baseline
	below := AssessFlow(m, 60)    // -33% vs baseline
	slightly := AssessFlow(m, 47) // ~-15% vs baseline

	if above.Score <= neutral.Score {
		t.Errorf("Expected above-baseline score (%d) to exceed neutral (%d)", above.Score, neutral.Score)
	}
	if below.Score >= neutral.Score {
		t.Errorf("Expected far-below-baseline score (%d) under neutral (%d)", below.Score, neutral.Score)
	}
	if slightly.Score <= below.Score {
		t.Errorf("Expected mild deficit (%d) to outrank severe deficit (%d)", slightly.Score, below.Score)
	}
}

func TestAssessFlowLowConfidenceCap(t *testing.T) {
	a := AssessFlow(validMetrics(120, ConfidenceLow), 0)

	if a.Score > 50 {
		t.Errorf("Expected low-confidence score capped at 50, got %d", a.Score)
	}
}

func TestAssessFlowScoreBounds(t *testing.T) {
	inputs := []struct {
		rmssd    float64
		baseline float64
		conf     ConfidenceLevel
	}{
		{5, 200, ConfidenceLow},
		{150, 10, ConfidenceHigh},
		{0, 0, ConfidenceMedium},
		{60, 60, ConfidenceHigh},
	}

	for _, in := range inputs {
		a := AssessFlow(validMetrics(in.rmssd, in.conf), in.baseline)
		if a.Score < 0 || a.Score > 100 {
			t.Errorf("Score out of range for rmssd=%v baseline=%v: %d", in.rmssd, in.baseline, a.Score)
		}
		if a.Interpretation == "" || a.Recommendation == "" {
			t.Errorf("Expected interpretation and recommendation, got %+v", a)
		}
	}
}
