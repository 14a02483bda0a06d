package hrv

// Baseline deviation interpretations. The baseline value itself is owned
// and persisted by the caller; this comparator is stateless.
const (
	BaselineNone               = "no baseline established"
	BaselineSignificantlyBelow = "significantly below baseline"
	BaselineBelow              = "below baseline"
	BaselineNormal             = "within normal range"
	BaselineAbove              = "above baseline"
	BaselineSignificantlyAbove = "significantly above baseline"
)

// CompareToBaseline returns the percentage deviation of a current metric
// from a personal baseline, plus a qualitative interpretation. A baseline
// at or below zero yields zero deviation and BaselineNone.
func CompareToBaseline(current, baseline float64) (float64, string) {
	if baseline <= 0 {
		return 0, BaselineNone
	}

	deviation := (current - baseline) / baseline * 100.0

	switch {
	case deviation < -20:
		return deviation, BaselineSignificantlyBelow
	case deviation < -10:
		return deviation, BaselineBelow
	case deviation < 10:
		return deviation, BaselineNormal
	case deviation < 20:
		return deviation, BaselineAbove
	default:
		return deviation, BaselineSignificantlyAbove
	}
}
