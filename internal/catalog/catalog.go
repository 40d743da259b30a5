// Package catalog holds the metric definitions shown to recruiters and the
// threshold segments that turn a reduced metric value into a severity.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairlens/backend/internal/fairness"
)

// ValueSegment is one threshold band. A segment carrying a min matches when
// the value is at or above it; a segment carrying only a max matches when the
// value falls below it (min-anchored) or when the absolute value does not
// exceed it (max-anchored).
type ValueSegment struct {
	Min            *float64 `json:"min,omitempty" yaml:"min"`
	Max            *float64 `json:"max,omitempty" yaml:"max"`
	Interpretation string   `json:"interpretation" yaml:"interpretation"`
	Severity       Severity `json:"severity" yaml:"severity"`
}

// Definition is the full recruiter-facing description of one metric.
type Definition struct {
	MetricName              string         `json:"name" yaml:"name"`
	DisplayName             string         `json:"display_name" yaml:"display_name"`
	Description             string         `json:"definition" yaml:"definition"`
	Interpretation          string         `json:"interpretation" yaml:"interpretation"`
	Context                 string         `json:"context" yaml:"context"`
	WhatThisMeans           string         `json:"what_this_means" yaml:"what_this_means"`
	WhatIsWrong             string         `json:"what_is_wrong" yaml:"what_is_wrong"`
	RootCauses              []string       `json:"root_causes" yaml:"root_causes"`
	RecruiterActions        []string       `json:"recruiter_actions" yaml:"recruiter_actions"`
	DashboardRecommendation string         `json:"dashboard_recommendation" yaml:"dashboard_recommendation"`
	Policy                  Policy         `json:"-" yaml:"policy"`
	ValueSegments           []ValueSegment `json:"value_segments" yaml:"value_segments"`
}

// Catalog maps every metric kind to its definition. Lookups never consult
// globals, so tests can carry their own doctored catalogs.
type Catalog struct {
	defs map[fairness.Kind]Definition
}

// Default returns a catalog holding the built-in definitions.
func Default() *Catalog {
	c := &Catalog{defs: make(map[fairness.Kind]Definition, len(builtins))}
	for _, d := range builtins {
		c.defs[fairness.Kind(d.MetricName)] = d
	}
	return c
}

// Load returns the default catalog with overrides from a YAML file merged
// over it. The file maps metric names to partial definitions; empty override
// fields keep the built-in value.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog overrides: %w", err)
	}

	var overrides map[string]Definition
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse catalog overrides: %w", err)
	}

	c := Default()
	for name, over := range overrides {
		kind, ok := fairness.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("catalog override names unknown metric %q", name)
		}
		if err := validateOverride(name, over); err != nil {
			return nil, err
		}
		c.defs[kind] = merge(c.defs[kind], over)
	}
	return c, nil
}

func validateOverride(name string, d Definition) error {
	if d.Policy != "" && d.Policy != PolicyMinAnchored && d.Policy != PolicyMaxAnchored {
		return fmt.Errorf("catalog override for %q has invalid policy %q", name, d.Policy)
	}
	for i, s := range d.ValueSegments {
		switch s.Severity {
		case SeverityFair, SeverityWarning, SeverityViolation:
		default:
			return fmt.Errorf("catalog override for %q segment %d has invalid severity %q", name, i, s.Severity)
		}
		if s.Min == nil && s.Max == nil {
			return fmt.Errorf("catalog override for %q segment %d has neither min nor max", name, i)
		}
	}
	return nil
}

func merge(base, over Definition) Definition {
	out := base
	if over.DisplayName != "" {
		out.DisplayName = over.DisplayName
	}
	if over.Description != "" {
		out.Description = over.Description
	}
	if over.Interpretation != "" {
		out.Interpretation = over.Interpretation
	}
	if over.Context != "" {
		out.Context = over.Context
	}
	if over.WhatThisMeans != "" {
		out.WhatThisMeans = over.WhatThisMeans
	}
	if over.WhatIsWrong != "" {
		out.WhatIsWrong = over.WhatIsWrong
	}
	if len(over.RootCauses) > 0 {
		out.RootCauses = over.RootCauses
	}
	if len(over.RecruiterActions) > 0 {
		out.RecruiterActions = over.RecruiterActions
	}
	if over.DashboardRecommendation != "" {
		out.DashboardRecommendation = over.DashboardRecommendation
	}
	if over.Policy != "" {
		out.Policy = over.Policy
	}
	if len(over.ValueSegments) > 0 {
		out.ValueSegments = over.ValueSegments
	}
	return out
}

// Definition looks up one metric's definition.
func (c *Catalog) Definition(kind fairness.Kind) (Definition, bool) {
	d, ok := c.defs[kind]
	return d, ok
}

// Definitions lists every definition in canonical metric order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.defs))
	for _, kind := range fairness.Kinds() {
		if d, ok := c.defs[kind]; ok {
			out = append(out, d)
		}
	}
	return out
}
