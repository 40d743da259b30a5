package catalog

func fp(v float64) *float64 { return &v }

var builtins = []Definition{
	{
		MetricName:     "demographic_parity",
		DisplayName:    "Demographic Parity",
		Description:    "Ensures that the proportion of individuals receiving a positive outcome (e.g., being shortlisted) is equal across all groups defined by protected attributes.",
		Interpretation: "The shortlisting rates should be similar across all groups. Differences less than 10% are generally considered fair.",
		Context:        "Use this metric when you want to ensure equal representation in positive outcomes regardless of group membership. Most appropriate for screening decisions.",
		WhatThisMeans:  "One group is being shortlisted more often regardless of qualification.",
		WhatIsWrong:    "The screening system is over-selecting one group. Hiring is outcome-biased, not merit-based.",
		RootCauses: []string{
			"Use of biased historical data",
			"Proxy features (education, experience) correlated with gender/age",
			"Single hard threshold applied uniformly",
		},
		RecruiterActions: []string{
			"Review screening score distribution by group",
			"Introduce group-aware threshold audits",
			"Remove or re-weight proxy features",
			"Add post-screening fairness checks",
		},
		DashboardRecommendation: "Selection rates differ significantly across groups. Review screening thresholds and feature weights to ensure equal access to shortlisting.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Practically equal selection", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Noticeable imbalance", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Strong imbalance", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "disparate_impact",
		DisplayName:    "Disparate Impact (80% Rule)",
		Description:    "Measures the ratio of selection rates between groups. The 80% rule (also called four-fifths rule) is a legal standard in employment.",
		Interpretation: "The ratio should be at least 0.8 (80%). Values below 0.8 may indicate adverse impact.",
		Context:        "This is a legal standard used by EEOC and courts to detect discrimination. Particularly important for hiring and promotion decisions.",
		WhatThisMeans:  "A protected group receives less than 80% of the opportunities compared to the reference group.",
		WhatIsWrong:    "The system violates regulatory fairness standards. Potential legal and compliance risk.",
		RootCauses: []string{
			"Screening score penalizes certain demographics",
			"Hard filters disproportionately remove one group",
		},
		RecruiterActions: []string{
			"Immediately audit AI screening rules",
			"Run counterfactual tests (same candidate, different group)",
			"Adjust thresholds or scoring weights",
			"Introduce fairness-aware post-processing",
		},
		DashboardRecommendation: "Fails the 80% rule. This indicates adverse impact and potential regulatory risk. Immediate model and threshold review required.",
		Policy:                  PolicyMinAnchored,
		ValueSegments: []ValueSegment{
			{Min: fp(0.80), Interpretation: "Passes 80% rule", Severity: SeverityFair},
			{Min: fp(0.60), Max: fp(0.79), Interpretation: "Potential adverse impact", Severity: SeverityWarning},
			{Max: fp(0.60), Interpretation: "Strong adverse impact", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "equal_opportunity",
		DisplayName:    "Equal Opportunity (TPR Equality)",
		Description:    "Ensures that the True Positive Rate (correctly identifying qualified candidates) is equal across groups.",
		Interpretation: "All qualified candidates should have an equal chance of being identified as qualified, regardless of group. Values should be similar across groups.",
		Context:        "Use when the cost of false negatives (missing qualified candidates) is high and should be distributed fairly.",
		WhatThisMeans:  "Qualified candidates from one group are being missed.",
		WhatIsWrong:    "Merit is not rewarded equally. High-quality candidates are lost unfairly.",
		RootCauses: []string{
			"Screening score underestimates capability of one group",
			"Resume features are unevenly interpreted",
		},
		RecruiterActions: []string{
			"Re-evaluate what 'qualified' means",
			"Improve feature engineering (skills over proxies)",
			"Introduce manual review for borderline cases",
		},
		DashboardRecommendation: "Qualified candidates from one group are less likely to be shortlisted. Review feature relevance and qualification definitions.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Qualified treated equally", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Unequal access", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Qualified candidates missed", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "predictive_equality",
		DisplayName:    "Predictive Equality (FPR Equality)",
		Description:    "Ensures that the False Positive Rate (incorrectly identifying unqualified candidates) is equal across groups.",
		Interpretation: "Unqualified candidates from all groups should have an equal chance of being incorrectly selected. Rates should be similar.",
		Context:        "Use when the cost of false positives (selecting unqualified candidates) should be distributed fairly across groups.",
		WhatThisMeans:  "One group is being shortlisted incorrectly more often.",
		WhatIsWrong:    "Hiring quality is inconsistent. One group benefits from leniency.",
		RootCauses: []string{
			"Threshold too low for certain groups",
			"Noise or bias in score calibration",
		},
		RecruiterActions: []string{
			"Tighten screening thresholds",
			"Improve validation of shortlisting decisions",
			"Apply consistent evaluation criteria",
		},
		DashboardRecommendation: "False positive rates differ across groups, indicating inconsistent shortlisting quality.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Balanced errors", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Inconsistent leniency", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "One group favored", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "calibration_by_group",
		DisplayName:    "Calibration by Group",
		Description:    "Ensures that predicted probabilities or scores reflect actual outcomes equally well across groups.",
		Interpretation: "For each score range, the actual success rate should be similar across groups. Good calibration means scores are trustworthy.",
		Context:        "Important when using risk scores or probability estimates that inform human decision-making.",
		WhatThisMeans:  "Same score means different outcomes across groups.",
		WhatIsWrong:    "AI score is unreliable. Trust in ATS is compromised.",
		RootCauses: []string{
			"Score trained on biased labels",
			"Unequal representation in training data",
		},
		RecruiterActions: []string{
			"Retrain scoring model with balanced data",
			"Calibrate scores separately by group",
			"Avoid strict score cutoffs",
		},
		DashboardRecommendation: "Screening scores are not equally predictive across groups. Model recalibration is recommended.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Well-calibrated", Severity: SeverityFair},
			{Max: fp(0.10), Interpretation: "Mild calibration drift", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Score unreliable", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "false_negative_rate_parity",
		DisplayName:    "False Negative Rate Parity",
		Description:    "Ensures that the rate of missing qualified candidates (false negatives) is equal across groups.",
		Interpretation: "The proportion of qualified candidates who are incorrectly rejected should be similar across groups.",
		Context:        "Critical when missing qualified candidates has significant negative consequences (e.g., talent loss, diversity goals).",
		WhatThisMeans:  "One group has higher rate of qualified candidates being wrongly rejected.",
		WhatIsWrong:    "Talent loss. Unfair exclusion.",
		RootCauses: []string{
			"Conservative thresholds",
			"Poor skill extraction for certain groups",
		},
		RecruiterActions: []string{
			"Lower rejection thresholds for borderline cases",
			"Add second-stage review",
			"Improve resume parsing logic",
		},
		DashboardRecommendation: "Higher rejection errors for a group indicate potential talent loss. Review rejection thresholds.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Equal rejection errors", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Talent loss risk", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Systematic rejection", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "false_discovery_rate_parity",
		DisplayName:    "False Discovery Rate Parity",
		Description:    "Ensures that among those selected, the proportion who are unqualified is equal across groups.",
		Interpretation: "The 'error rate' among selected candidates should be consistent across groups. Similar FDR values indicate fairness.",
		Context:        "Important when you want to ensure equal quality among selected candidates from different groups.",
		WhatThisMeans:  "Shortlisted candidates from one group are less reliable.",
		WhatIsWrong:    "Shortlisting quality varies. Hiring inefficiency.",
		RootCauses: []string{
			"Bias in resume keyword matching",
			"Uneven scoring noise",
		},
		RecruiterActions: []string{
			"Strengthen validation of shortlisted candidates",
			"Use skill-based assessments",
			"Reduce over-reliance on AI scores",
		},
		DashboardRecommendation: "Shortlisting reliability differs across groups. Review validation mechanisms.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Consistent shortlist quality", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Uneven reliability", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Poor hiring quality", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "accuracy_equality",
		DisplayName:    "Accuracy Equality",
		Description:    "Ensures that the overall prediction accuracy is equal across all groups.",
		Interpretation: "The model should perform equally well for all groups. Differences in accuracy indicate potential bias.",
		Context:        "Use as a general fairness check. However, equal accuracy doesn't guarantee fairness in all error types.",
		WhatThisMeans:  "The AI system performs better for one group.",
		WhatIsWrong:    "Unequal system performance. Model favors dominant group.",
		RootCauses: []string{
			"Data imbalance",
			"Overfitting to majority group patterns",
		},
		RecruiterActions: []string{
			"Balance training data",
			"Perform group-wise performance testing",
			"Avoid deploying model without fairness validation",
		},
		DashboardRecommendation: "Prediction accuracy differs across groups. Indicates unequal system performance.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Equal system performance", Severity: SeverityFair},
			{Max: fp(0.10), Interpretation: "Uneven performance", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "System favors one group", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "predictive_parity_ppv",
		DisplayName:    "Predictive Parity (PPV)",
		Description:    "Ensures that the Positive Predictive Value (precision) is equal across groups - i.e., among those selected, the success rate is equal.",
		Interpretation: "Among shortlisted candidates, the actual qualification rate should be similar across groups.",
		Context:        "Important when you want to ensure that selection decisions have equal predictive validity across groups.",
		WhatThisMeans:  "Shortlisted candidates from one group are more likely to be truly qualified.",
		WhatIsWrong:    "Hiring confidence differs by group. Biased talent perception.",
		RootCauses: []string{
			"Score calibration issues",
			"Threshold inconsistencies",
		},
		RecruiterActions: []string{
			"Align confidence thresholds",
			"Improve model calibration",
			"Standardize evaluation criteria",
		},
		DashboardRecommendation: "Shortlisting precision differs across groups. Indicates unequal confidence in selections.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Equal confidence", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Uneven confidence", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Biased confidence", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "equalized_odds",
		DisplayName:    "Equalized Odds",
		Description:    "Ensures that both True Positive Rate and False Positive Rate are equal across groups. This is a combination of equal opportunity and predictive equality.",
		Interpretation: "Both qualified and unqualified candidates should have equal error rates across groups. This is a strong fairness criterion.",
		Context:        "Use when you want comprehensive fairness that accounts for both types of errors. Often considered one of the most rigorous fairness metrics.",
		WhatThisMeans:  "Overall error behavior is biased.",
		WhatIsWrong:    "One group is both favored and protected from errors.",
		RootCauses: []string{
			"Structural bias in scoring pipeline",
		},
		RecruiterActions: []string{
			"Re-design scoring pipeline",
			"Use fairness-aware optimization",
			"Apply post-processing corrections",
		},
		DashboardRecommendation: "Error rates differ across groups. Comprehensive fairness correction required.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Balanced errors", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Partial imbalance", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Structural bias", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "statistical_parity_difference",
		DisplayName:    "Statistical Parity Difference",
		Description:    "Measures the absolute difference in selection rates between the most and least favored groups.",
		Interpretation: "Values close to 0 indicate fairness. Typically, |SPD| < 0.1 is considered fair.",
		Context:        "A simple, interpretable metric for measuring outcome differences. Good for initial bias screening.",
		WhatThisMeans:  "Clear imbalance in outcomes.",
		WhatIsWrong:    "Systematic bias.",
		RootCauses: []string{
			"Biased selection process",
			"Unfair thresholds",
		},
		RecruiterActions: []string{
			"Review entire screening workflow",
			"Introduce fairness constraints",
		},
		DashboardRecommendation: "Statistical parity difference is significant. Review entire screening workflow and introduce fairness constraints.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Minimal disparity", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Moderate disparity", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Strong disparity", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "average_odds_difference",
		DisplayName:    "Average Odds Difference",
		Description:    "Measures the average of the absolute differences in False Positive Rate and True Positive Rate between groups.",
		Interpretation: "Values close to 0 indicate fairness. This metric balances both types of errors.",
		Context:        "Use when you want a single metric that captures both opportunity and predictive equality.",
		WhatThisMeans:  "Combined error imbalance.",
		WhatIsWrong:    "Both acceptance and rejection errors are biased.",
		RootCauses: []string{
			"Systematic scoring bias",
			"Poorly calibrated thresholds",
		},
		RecruiterActions: []string{
			"Address both acceptance and rejection bias",
			"Adjust thresholds + retraining",
		},
		DashboardRecommendation: "Average odds difference indicates combined error imbalance. Address both acceptance and rejection bias through threshold adjustment and retraining.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.05), Interpretation: "Minimal error difference", Severity: SeverityFair},
			{Max: fp(0.15), Interpretation: "Unequal errors", Severity: SeverityWarning},
			{Max: fp(1.0), Interpretation: "Serious bias", Severity: SeverityViolation},
		},
	},
	{
		MetricName:     "theil_index",
		DisplayName:    "Theil Index",
		Description:    "Measures inequality in the distribution of positive outcomes relative to group representation. Based on information theory.",
		Interpretation: "Values close to 0 indicate fairness. Higher values indicate greater inequality in outcome distribution.",
		Context:        "Useful for understanding overall distributional fairness across multiple groups simultaneously.",
		WhatThisMeans:  "Outcomes are highly unequal.",
		WhatIsWrong:    "Structural inequality amplified by AI.",
		RootCauses: []string{
			"Biased historical data",
			"Over-filtering certain groups",
		},
		RecruiterActions: []string{
			"Review hiring volume & thresholds",
			"Reduce over-filtering",
			"Improve inclusivity measures",
		},
		DashboardRecommendation: "Theil Index indicates high inequality. Review hiring volume, reduce over-filtering, and improve inclusivity measures.",
		Policy:                  PolicyMaxAnchored,
		ValueSegments: []ValueSegment{
			{Max: fp(0.5), Interpretation: "Low inequality", Severity: SeverityFair},
			{Max: fp(1.0), Interpretation: "Moderate inequality", Severity: SeverityWarning},
			{Max: fp(10.0), Interpretation: "High inequality", Severity: SeverityViolation},
		},
	},
}
