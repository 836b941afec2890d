package models

type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// RiskLevels lists the levels in increasing severity.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskExtreme}

func (r RiskLevel) Text() string {
	switch r {
	case RiskLow:
		return "Low risk"
	case RiskMedium:
		return "Medium risk"
	case RiskHigh:
		return "High risk"
	case RiskExtreme:
		return "Extreme risk"
	default:
		return string(r)
	}
}

// Severity orders levels 0..3; unknown levels sort before low.
func (r RiskLevel) Severity() int {
	for i, l := range RiskLevels {
		if l == r {
			return i
		}
	}
	return -1
}
