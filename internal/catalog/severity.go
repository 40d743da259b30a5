package catalog

// Severity grades a single metric outcome. Unknown marks results that could
// not be computed and never counts toward pass or fail totals.
type Severity string

const (
	SeverityFair      Severity = "Fair"
	SeverityWarning   Severity = "Warning"
	SeverityViolation Severity = "Violation"
	SeverityUnknown   Severity = "Unknown"
)

// Rank orders severities from best to worst. Anything unrecognized ranks
// with Unknown.
func (s Severity) Rank() int {
	switch s {
	case SeverityFair:
		return 0
	case SeverityWarning:
		return 1
	case SeverityViolation:
		return 2
	default:
		return 3
	}
}

// Worse reports whether s outranks other.
func (s Severity) Worse(other Severity) bool {
	return s.Rank() > other.Rank()
}

// Policy selects how a reduced metric value walks the definition's value
// segments. Min-anchored treats larger as better (the 80% rule); max-anchored
// treats values nearer zero as better and compares absolute values.
type Policy string

const (
	PolicyMinAnchored Policy = "min_anchored"
	PolicyMaxAnchored Policy = "max_anchored"
)
