package governance

// Summary is the governance server's policy evaluation for one component.
// A nil *Summary means the server knows nothing about the component.
type Summary struct {
	Alerts []Alert `json:"policyViolations"`
}

// Alert is one violated policy, carrying the policy's threat level on the
// server's 0-10 scale.
type Alert struct {
	PolicyName  string       `json:"policyName"`
	ThreatLevel int          `json:"threatLevel"`
	Constraints []Constraint `json:"constraintViolations"`
}

// Constraint is the policy constraint that matched, with the condition facts
// explaining why.
type Constraint struct {
	Name       string      `json:"constraintName"`
	Conditions []Condition `json:"conditions"`
}

// Condition is a single matched condition fact.
type Condition struct {
	Summary string `json:"summary"`
	Reason  string `json:"reason"`
}

// WorstThreat returns the highest threat level across all alerts, and false
// when the summary is absent or carries no alerts.
func (s *Summary) WorstThreat() (int, bool) {
	if s == nil || len(s.Alerts) == 0 {
		return 0, false
	}
	worst := s.Alerts[0].ThreatLevel
	for _, alert := range s.Alerts[1:] {
		if alert.ThreatLevel > worst {
			worst = alert.ThreatLevel
		}
	}
	return worst, true
}
