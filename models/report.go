package models

import "time"

// Rule names reported by the schema validator.
const (
	RuleColumnPresent        = "column_in_dataframe"
	RuleColumnChecks         = "column_checks"
	RuleNotNull              = "not_nullable"
	RuleMissingFraction      = "missing_fraction"
	RuleGreaterThanZero      = "greater_than_0"
	RuleNonNegative          = "greater_than_or_equal_to_0"
	RuleAllowedValues        = "isin"
	RuleStringLength         = "str_length"
	RuleDuplicateRows        = "duplicate_rows"
	RuleAllNullRows          = "all_null_rows"
	RuleOutliers             = "outliers"
	RuleUnexpectedCategories = "unexpected_categories"
	RuleTargetDistribution   = "target_distribution"
	RuleTargetCorrelation    = "target_correlation"
	RuleFeatureCorrelation   = "feature_correlation"
)

// Violation is a single failed check. Rows are 0-based indices into the
// validated table; Values holds a sample of the offending values.
type Violation struct {
	Rule    string
	Column  string
	Message string
	Rows    []int
	Values  []string
}

// CheckResult is the outcome of one rule. Column is empty for table-level
// rules.
type CheckResult struct {
	Rule    string
	Column  string
	Passed  bool
	Skipped bool
	Message string
}

// ValidationReport collects every violation found in one validation run.
type ValidationReport struct {
	RunID       string
	ValidatedAt time.Time
	Rows        int
	Checks      []CheckResult
	Violations  []Violation
}

// Passed reports whether no rule was violated.
func (r *ValidationReport) Passed() bool {
	return len(r.Violations) == 0
}

// Failed returns the names of the violated rules, in first-seen order.
func (r *ValidationReport) Failed() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range r.Violations {
		if _, ok := seen[v.Rule]; ok {
			continue
		}
		seen[v.Rule] = struct{}{}
		out = append(out, v.Rule)
	}
	return out
}

// HasViolation reports whether the given rule was violated.
func (r *ValidationReport) HasViolation(rule string) bool {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}
