package catalog

import (
	"math"

	"github.com/fairlens/backend/internal/fairness"
)

// Classification pairs a severity with the matched segment's wording.
type Classification struct {
	Severity       Severity `json:"severity"`
	Interpretation string   `json:"interpretation"`
}

// Classify grades a reduced metric value against the metric's segments.
// Values matching no segment grade as Violation; metrics absent from the
// catalog grade as Unknown.
func (c *Catalog) Classify(kind fairness.Kind, value float64) Severity {
	d, ok := c.defs[kind]
	if !ok {
		return SeverityUnknown
	}
	if len(d.ValueSegments) == 0 {
		return fallbackSeverity(d, value)
	}
	if seg, ok := matchSegment(d, value); ok {
		return seg.Severity
	}
	return SeverityViolation
}

// SegmentInfo grades a value and also reports the matched segment's
// interpretation text.
func (c *Catalog) SegmentInfo(kind fairness.Kind, value float64) Classification {
	d, ok := c.defs[kind]
	if !ok {
		return Classification{
			Severity:       SeverityUnknown,
			Interpretation: "No segment information available",
		}
	}
	if len(d.ValueSegments) == 0 {
		return Classification{
			Severity:       fallbackSeverity(d, value),
			Interpretation: "No segment information available",
		}
	}
	if seg, ok := matchSegment(d, value); ok {
		return Classification{Severity: seg.Severity, Interpretation: seg.Interpretation}
	}
	return Classification{
		Severity:       SeverityViolation,
		Interpretation: "Exceeds all thresholds",
	}
}

// matchSegment walks segments in declared order and returns the first match.
// Under the min-anchored policy a segment with a min matches values at or
// above it, and a segment with only a max matches values below it. Under the
// max-anchored policy segments match when the absolute value stays within
// their max.
func matchSegment(d Definition, value float64) (ValueSegment, bool) {
	if d.Policy == PolicyMinAnchored {
		for _, seg := range d.ValueSegments {
			if seg.Min != nil {
				if value >= *seg.Min {
					return seg, true
				}
				continue
			}
			if seg.Max != nil && value < *seg.Max {
				return seg, true
			}
		}
		return ValueSegment{}, false
	}

	abs := math.Abs(value)
	for _, seg := range d.ValueSegments {
		if seg.Max != nil && abs <= *seg.Max {
			return seg, true
		}
	}
	return ValueSegment{}, false
}

// fallbackSeverity grades metrics whose definition carries no segments.
func fallbackSeverity(d Definition, value float64) Severity {
	if d.Policy == PolicyMinAnchored {
		if value >= 0.8 {
			return SeverityFair
		}
		return SeverityViolation
	}

	abs := math.Abs(value)
	fair, warn := 0.05, 0.15
	if d.MetricName == string(fairness.TheilIndex) {
		fair, warn = 0.5, 1.0
	}
	switch {
	case abs < fair:
		return SeverityFair
	case abs < warn:
		return SeverityWarning
	default:
		return SeverityViolation
	}
}
