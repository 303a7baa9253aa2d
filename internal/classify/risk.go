package classify

// Risk levels.
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

// RiskAssessment pairs a summed change-risk score with its severity.
type RiskAssessment struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// AssessRisk buckets a summed risk score: 5 and up is critical, 3 and
// 4 high, exactly 2 medium, everything below (negative input
// included) low. The input score is echoed back unmodified.
func AssessRisk(score int) RiskAssessment {
	a := RiskAssessment{Score: score}
	switch {
	case score >= 5:
		a.Level = RiskCritical
	case score >= 3:
		a.Level = RiskHigh
	case score >= 2:
		a.Level = RiskMedium
	default:
		a.Level = RiskLow
	}
	return a
}
