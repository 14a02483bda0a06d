package hrv

// AssessFlow evaluates how favorable a metrics record is for sustained
// focus. The score starts from the RMSSD band, shifts with the deviation
// from the caller's personal baseline (pass 0 for none), and is capped
// when confidence in the underlying record is low. Computed on demand,
// never persisted here.
func AssessFlow(m Metrics, baseline float64) FlowAssessment {
	if !m.IsValid {
		return FlowAssessment{
			Score:          0,
			Interpretation: "insufficient data",
			Recommendation: "Keep the sensor in contact and collect at least a minute of clean beats.",
		}
	}

	score := baseScore(m.Interpretation)

	if baseline > 0 {
		deviation, _ := CompareToBaseline(m.RMSSD, baseline)
		switch {
		case deviation >= 10:
			score += 10
		case deviation >= -10:
			score += 5
		case deviation >= -20:
			score -= 10
		default:
			score -= 25
		}
	}

	if m.Confidence == ConfidenceLow && score > 50 {
		score = 50
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	interpretation, recommendation := describeScore(score)
	return FlowAssessment{
		Score:          score,
		Interpretation: interpretation,
		Recommendation: recommendation,
	}
}

func baseScore(band RMSSDBand) int {
	switch band {
	case RMSSDVeryLow:
		return 20
	case RMSSDLow:
		return 40
	case RMSSDNormal:
		return 60
	case RMSSDGood:
		return 80
	case RMSSDExcellent:
		return 90
	default:
		return 0
	}
}

func describeScore(score int) (string, string) {
	switch {
	case score >= 80:
		return "primed for deep focus",
			"Recovery looks excellent. Schedule your hardest work now."
	case score >= 60:
		return "favorable for focused work",
			"Good vagal tone. A sustained focus block should feel comfortable."
	case score >= 40:
		return "moderate readiness",
			"Workable, but prefer shorter focus blocks with breaks."
	case score >= 20:
		return "reduced readiness",
			"Recovery is lagging. Favor lighter tasks and take it easy."
	default:
		return "poor recovery state",
			"Your system is under strain. Rest before attempting deep work."
	}
}
