package report

// Threat bands on the governance server's 0-10 scale.
const (
	threatCritical = 8 // 8-10
	threatHigh     = 4 // 4-7
	threatMedium   = 2 // 2-3
)

// noThreatData marks a component the governance server had nothing on (or
// lookups were disabled).
const noThreatData = -1

// threatBadge maps a threat level to the marker shown in front of a
// component line. No data means no badge.
func threatBadge(level int) string {
	switch {
	case level < 0:
		return ""
	case level >= threatCritical:
		return "🔴"
	case level >= threatHigh:
		return "🟠"
	case level >= threatMedium:
		return "🟡"
	default:
		return "⚪"
	}
}

// threatLabel maps a threat level to its band name.
func threatLabel(level int) string {
	switch {
	case level < 0:
		return ""
	case level >= threatCritical:
		return "critical"
	case level >= threatHigh:
		return "high"
	case level >= threatMedium:
		return "medium"
	default:
		return "low"
	}
}
