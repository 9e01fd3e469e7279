package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/stats"
	"rental-pipeline/utils"
)

// tableRule is a predicate over the whole table. It returns the check result
// and the violations behind a failure.
type tableRule struct {
	name  string
	check func(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation)
}

var tableRules = []tableRule{
	{models.RuleDuplicateRows, checkDuplicateRows},
	{models.RuleAllNullRows, checkAllNullRows},
	{models.RuleOutliers, checkOutliers},
	{models.RuleUnexpectedCategories, checkCategories},
	{models.RuleTargetDistribution, checkTargetDistribution},
	{models.RuleTargetCorrelation, checkTargetCorrelation},
	{models.RuleFeatureCorrelation, checkFeatureCorrelation},
}

// checkColumn runs the per-column rule for one schema entry.
func (v *Validator) checkColumn(df dataframe.DataFrame, rule models.ColumnRule) []models.Violation {
	if !frame.HasColumn(df, rule.Name) {
		return []models.Violation{{
			Rule:    models.RuleColumnPresent,
			Column:  rule.Name,
			Message: fmt.Sprintf("column %q not in dataframe", rule.Name),
		}}
	}

	missing := frame.Missing(df, rule.Name)
	var out []models.Violation

	switch rule.Kind {
	case models.KindNumeric:
		if frac := fraction(missing); frac > v.rules.MaxMissingFraction {
			out = append(out, v.violation(models.RuleMissingFraction, rule.Name,
				fmt.Sprintf("%.1f%% missing exceeds %.1f%%", frac*100, v.rules.MaxMissingFraction*100),
				trueRows(missing), nil))
		}
		vals := frame.Floats(df, rule.Name)
		var rows []int
		for i, x := range vals {
			if missing[i] {
				continue
			}
			if (rule.Bound == models.BoundPositive && !(x > 0)) ||
				(rule.Bound == models.BoundNonNegative && !(x >= 0)) {
				rows = append(rows, i)
			}
		}
		if len(rows) > 0 {
			name, msg := models.RuleGreaterThanZero, "values must be greater than 0"
			if rule.Bound == models.BoundNonNegative {
				name, msg = models.RuleNonNegative, "values must be greater than or equal to 0"
			}
			out = append(out, v.violation(name, rule.Name, msg, rows, formatRows(vals, rows)))
		}

	case models.KindCategorical, models.KindLabel:
		if !rule.Nullable {
			if rows := trueRows(missing); len(rows) > 0 {
				out = append(out, v.violation(models.RuleNotNull, rule.Name,
					fmt.Sprintf("%d null value(s) in non-nullable column", len(rows)), rows, nil))
			}
		}
		vals := frame.Values(df, rule.Name)
		allowed := toSet(rule.Allowed)
		var badValue, tooShort []int
		for i, s := range vals {
			if missing[i] {
				continue
			}
			if _, ok := allowed[s]; !ok {
				badValue = append(badValue, i)
			}
			if len(s) < rule.MinLength {
				tooShort = append(tooShort, i)
			}
		}
		if len(badValue) > 0 {
			out = append(out, v.violation(models.RuleAllowedValues, rule.Name,
				fmt.Sprintf("%d value(s) outside the allowed set", len(badValue)),
				badValue, pick(vals, badValue)))
		}
		if len(tooShort) > 0 {
			out = append(out, v.violation(models.RuleStringLength, rule.Name,
				fmt.Sprintf("values shorter than %d character(s)", rule.MinLength),
				tooShort, pick(vals, tooShort)))
		}
	}
	return out
}

func checkDuplicateRows(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	seen := utils.NewKeySet()
	var dups []int
	var repeats []string
	for i, key := range frame.RowKeys(df) {
		if !seen.Add(key, i) {
			first, _ := seen.FirstRow(key)
			dups = append(dups, i)
			repeats = append(repeats, fmt.Sprintf("repeats row %d", first))
		}
	}
	if len(dups) == 0 {
		return passed(models.RuleDuplicateRows), nil
	}
	msg := fmt.Sprintf("Duplicate rows detected: %d", len(dups))
	return failed(models.RuleDuplicateRows, msg),
		[]models.Violation{v.violation(models.RuleDuplicateRows, "", msg, dups, repeats)}
}

func checkAllNullRows(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	names := df.Names()
	if len(names) == 0 {
		return passed(models.RuleAllNullRows), nil
	}
	cols := make([][]bool, len(names))
	for j, name := range names {
		cols[j] = frame.Missing(df, name)
	}
	var rows []int
	for i := 0; i < df.Nrow(); i++ {
		empty := true
		for _, col := range cols {
			if !col[i] {
				empty = false
				break
			}
		}
		if empty {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return passed(models.RuleAllNullRows), nil
	}
	msg := fmt.Sprintf("%d row(s) entirely null", len(rows))
	return failed(models.RuleAllNullRows, msg),
		[]models.Violation{v.violation(models.RuleAllNullRows, "", msg, rows, nil)}
}

func checkOutliers(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	var out []models.Violation
	for _, name := range v.schema.NumericColumns {
		if !frame.HasColumn(df, name) {
			continue
		}
		vals := frame.Floats(df, name)
		finite := stats.DropNaN(vals)
		if len(finite) == 0 {
			continue
		}
		lower, upper := stats.IQRFence(finite, v.rules.IQRMultiplier)
		var rows []int
		for i, x := range vals {
			if !math.IsNaN(x) && (x < lower || x > upper) {
				rows = append(rows, i)
			}
		}
		if len(rows) > 0 {
			out = append(out, v.violation(models.RuleOutliers, name,
				fmt.Sprintf("%d value(s) outside [%.2f, %.2f]", len(rows), lower, upper),
				rows, formatRows(vals, rows)))
		}
	}
	if len(out) == 0 {
		return passed(models.RuleOutliers), nil
	}
	return failed(models.RuleOutliers, "Outliers detected in numeric columns."), out
}

func checkCategories(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	var out []models.Violation
	for _, rule := range v.schema.Columns {
		if rule.Kind != models.KindCategorical || !frame.HasColumn(df, rule.Name) {
			continue
		}
		allowed := toSet(rule.Allowed)
		vals := frame.Values(df, rule.Name)
		missing := frame.Missing(df, rule.Name)
		var rows []int
		for i, s := range vals {
			if missing[i] {
				continue
			}
			if _, ok := allowed[s]; !ok {
				rows = append(rows, i)
			}
		}
		if len(rows) > 0 {
			out = append(out, v.violation(models.RuleUnexpectedCategories, rule.Name,
				fmt.Sprintf("Unexpected values in column '%s'", rule.Name), rows, pick(vals, rows)))
		}
	}
	if len(out) == 0 {
		return passed(models.RuleUnexpectedCategories), nil
	}
	return failed(models.RuleUnexpectedCategories, "Unexpected categorical values."), out
}

func checkTargetDistribution(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	label := v.schema.Label
	fail := func(msg string, rows []int, vals []string) (models.CheckResult, []models.Violation) {
		return failed(models.RuleTargetDistribution, msg),
			[]models.Violation{v.violation(models.RuleTargetDistribution, label, msg, rows, vals)}
	}
	if !frame.HasColumn(df, label) {
		return fail(fmt.Sprintf("label column %q not in dataframe", label), nil, nil)
	}

	vals := frame.Floats(df, label)
	var bad []int
	positives, n := 0, 0
	for i, y := range vals {
		switch y {
		case 0:
			n++
		case 1:
			n++
			positives++
		default:
			bad = append(bad, i)
		}
	}
	if len(bad) > 0 {
		return fail("Unexpected target values found", bad, pick(frame.Values(df, label), bad))
	}
	if n == 0 {
		return fail("Target variable has no labelled rows", nil, nil)
	}
	ratio := float64(positives) / float64(n)
	if ratio <= v.rules.MinPositiveRate || ratio >= v.rules.MaxPositiveRate {
		return fail(fmt.Sprintf("Target distribution is extremely imbalanced: %.2f proportion of 1s", ratio), nil, nil)
	}
	res := passed(models.RuleTargetDistribution)
	res.Message = fmt.Sprintf("%.2f proportion of 1s", ratio)
	return res, nil
}

func checkTargetCorrelation(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	label := v.schema.Label
	if !frame.HasColumn(df, label) {
		return skipped(models.RuleTargetCorrelation, "label column missing"), nil
	}
	y := frame.Floats(df, label)
	var out []models.Violation
	var undefined []string
	for _, name := range v.schema.NumericColumns {
		if !frame.HasColumn(df, name) {
			continue
		}
		r, ok := stats.Correlation(pairwise(frame.Floats(df, name), y))
		if !ok {
			undefined = append(undefined, name)
			continue
		}
		if math.Abs(r) >= v.rules.MaxCorrelation {
			out = append(out, v.violation(models.RuleTargetCorrelation, name,
				fmt.Sprintf("|corr(%s, %s)| = %.3f >= %.2f", name, label, math.Abs(r), v.rules.MaxCorrelation),
				nil, nil))
		}
	}
	if len(out) > 0 {
		return failed(models.RuleTargetCorrelation, "Anomalous correlation between target and features."), out
	}
	res := passed(models.RuleTargetCorrelation)
	res.Message = undefinedMessage(undefined)
	return res, nil
}

func checkFeatureCorrelation(v *Validator, df dataframe.DataFrame) (models.CheckResult, []models.Violation) {
	var cols []string
	for _, name := range v.schema.NumericColumns {
		if frame.HasColumn(df, name) {
			cols = append(cols, name)
		}
	}
	var out []models.Violation
	var undefined []string
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r, ok := stats.Correlation(pairwise(frame.Floats(df, cols[i]), frame.Floats(df, cols[j])))
			if !ok {
				undefined = append(undefined, cols[i]+","+cols[j])
				continue
			}
			if math.Abs(r) < v.rules.MaxCorrelation {
				continue
			}
			out = append(out, v.violation(models.RuleFeatureCorrelation, cols[i]+","+cols[j],
				fmt.Sprintf("|corr(%s, %s)| = %.3f >= %.2f", cols[i], cols[j], math.Abs(r), v.rules.MaxCorrelation),
				nil, nil))
		}
	}
	if len(out) > 0 {
		return failed(models.RuleFeatureCorrelation, "Anomalous correlation between features"), out
	}
	res := passed(models.RuleFeatureCorrelation)
	res.Message = undefinedMessage(undefined)
	return res, nil
}

// undefinedMessage notes the correlations that could not be computed. Those
// pairs count as passing, not as a NaN comparison failing the check.
func undefinedMessage(pairs []string) string {
	if len(pairs) == 0 {
		return ""
	}
	return fmt.Sprintf("correlation undefined (zero variance) for %s; counted as passing, not as a failure",
		strings.Join(pairs, "; "))
}

// pairwise keeps the positions where both x and y are present.
func pairwise(x, y []float64) ([]float64, []float64) {
	px := make([]float64, 0, len(x))
	py := make([]float64, 0, len(y))
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		px = append(px, x[i])
		py = append(py, y[i])
	}
	return px, py
}

func passed(rule string) models.CheckResult {
	return models.CheckResult{Rule: rule, Passed: true}
}

func failed(rule, msg string) models.CheckResult {
	return models.CheckResult{Rule: rule, Message: msg}
}

func skipped(rule, msg string) models.CheckResult {
	return models.CheckResult{Rule: rule, Passed: true, Skipped: true, Message: msg}
}

func fraction(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}

func trueRows(flags []bool) []int {
	var rows []int
	for i, f := range flags {
		if f {
			rows = append(rows, i)
		}
	}
	return rows
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func pick(vals []string, rows []int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = vals[r]
	}
	return out
}

func formatRows(vals []float64, rows []int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strconv.FormatFloat(vals[r], 'f', -1, 64)
	}
	return out
}
