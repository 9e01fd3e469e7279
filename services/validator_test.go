package services

import (
	"strconv"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-pipeline/config"
	"rental-pipeline/frame"
	"rental-pipeline/models"
)

func newTestValidator() *Validator {
	return NewValidator(config.DefaultRules(), newTestLogger())
}

func findCheck(t *testing.T, r *models.ValidationReport, rule, column string) models.CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.Rule == rule && c.Column == column {
			return c
		}
	}
	t.Fatalf("no check %s/%s in report", rule, column)
	return models.CheckResult{}
}

func violationsFor(r *models.ValidationReport, rule, column string) []models.Violation {
	var out []models.Violation
	for _, v := range r.Violations {
		if v.Rule == rule && v.Column == column {
			out = append(out, v)
		}
	}
	return out
}

func TestValidateSkewedLabelFails(t *testing.T) {
	df := derivedFrame(t, skewedRows()...)
	require.Equal(t, 100, df.Nrow())

	report := newTestValidator().Validate(df)

	assert.False(t, report.Passed())
	assert.True(t, report.HasViolation(models.RuleTargetDistribution))
	assert.False(t, findCheck(t, report, models.RuleTargetDistribution, "").Passed)
	assert.Contains(t, report.Failed(), models.RuleTargetDistribution)
}

func TestValidateBalancedLabelPassesDistribution(t *testing.T) {
	report := newTestValidator().Validate(labelledFrame(100, 30))

	res := findCheck(t, report, models.RuleTargetDistribution, "")
	assert.True(t, res.Passed)
	assert.Equal(t, "0.30 proportion of 1s", res.Message)
	assert.False(t, report.HasViolation(models.RuleTargetDistribution))
}

func TestValidateEmptyTableFailsDistribution(t *testing.T) {
	report := newTestValidator().Validate(labelledFrame(0, 0))

	assert.Equal(t, 0, report.Rows)
	assert.True(t, report.HasViolation(models.RuleTargetDistribution))
}

func TestValidateCategoricalRules(t *testing.T) {
	df := derivedFrame(t,
		[]string{"1000", "500", "1", "2", "ZZ", "Cats", "No", "Yes"},
		[]string{"1100", "510", "1", "2", "CA", "", "", "Yes"},
		[]string{"1200", "520", "1", "2", "CA", "Cats", "No", ""},
		[]string{"1300", "530", "1", "2", "CA", "Birds", "No", "Yes"},
	)

	report := newTestValidator().Validate(df)

	isin := violationsFor(report, models.RuleAllowedValues, models.ColState)
	require.Len(t, isin, 1)
	assert.Equal(t, []int{0}, isin[0].Rows)
	assert.Equal(t, []string{"ZZ"}, isin[0].Values)

	assert.Len(t, violationsFor(report, models.RuleUnexpectedCategories, models.ColState), 1)
	assert.Len(t, violationsFor(report, models.RuleUnexpectedCategories, models.ColPetsAllowed), 1)

	assert.Empty(t, violationsFor(report, models.RuleNotNull, models.ColPetsAllowed), "pets_allowed is nullable")
	assert.Empty(t, violationsFor(report, models.RuleNotNull, models.ColFee), "fee is nullable")

	notNull := violationsFor(report, models.RuleNotNull, models.ColHasPhoto)
	require.Len(t, notNull, 1)
	assert.Equal(t, []int{2}, notNull[0].Rows)

	assert.False(t, findCheck(t, report, models.RuleColumnChecks, models.ColState).Passed)
	assert.True(t, findCheck(t, report, models.RuleColumnChecks, models.ColFee).Passed)
}

func TestValidateMissingColumn(t *testing.T) {
	df := derivedFrame(t, row("1000", "500", "CA"), row("2000", "600", "CA"))
	df, err := frame.Select(df, []string{
		models.ColPrice, models.ColSquareFeet, models.ColBathrooms, models.ColBedrooms,
		models.ColState, models.ColPetsAllowed, models.ColHasPhoto,
		models.ColStateMedianPrice, models.ColHighPrice,
	})
	require.NoError(t, err)

	report := newTestValidator().Validate(df)

	v := violationsFor(report, models.RuleColumnPresent, models.ColFee)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "not in dataframe")
}

func TestValidateNumericRules(t *testing.T) {
	rows := make([][]string, 0, 10)
	for i := 0; i < 9; i++ {
		rows = append(rows, row(strconv.Itoa(1000+i), strconv.Itoa(500+i), "CA"))
	}
	rows = append(rows, []string{"-50", "600", "", "2", "CA", "Cats", "No", "Yes"})
	df := derivedFrame(t, rows...)

	report := newTestValidator().Validate(df)

	frac := violationsFor(report, models.RuleMissingFraction, models.ColBathrooms)
	require.Len(t, frac, 1)
	assert.Equal(t, []int{9}, frac[0].Rows)

	pos := violationsFor(report, models.RuleGreaterThanZero, models.ColPrice)
	require.Len(t, pos, 1)
	assert.Equal(t, []string{"-50"}, pos[0].Values)
}

func TestValidateDuplicateRows(t *testing.T) {
	df := derivedFrame(t,
		row("1000", "500", "CA"), row("1000", "500", "CA"), row("2000", "600", "CA"), row("1000", "500", "CA"))

	report := newTestValidator().Validate(df)

	v := violationsFor(report, models.RuleDuplicateRows, "")
	require.Len(t, v, 1)
	assert.Equal(t, []int{1, 3}, v[0].Rows)
	assert.Equal(t, []string{"repeats row 0", "repeats row 0"}, v[0].Values)
}

func TestValidateSamplesValues(t *testing.T) {
	rows := make([][]string, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, row(strconv.Itoa(1000+i), strconv.Itoa(500+i), "ZZ"))
	}

	report := newTestValidator().Validate(derivedFrame(t, rows...))

	v := violationsFor(report, models.RuleAllowedValues, models.ColState)
	require.Len(t, v, 1)
	assert.Len(t, v[0].Rows, 12)
	assert.Len(t, v[0].Values, defaultSampleSize)
}

func TestValidateLeavesTableUntouched(t *testing.T) {
	df := derivedFrame(t, skewedRows()...)
	before := frame.Records(df)

	report := newTestValidator().Validate(df)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 100, report.Rows)
	assert.Equal(t, before, frame.Records(df))
}

func TestValidateUndefinedCorrelationIsSkipped(t *testing.T) {
	report := newTestValidator().Validate(labelledFrame(100, 30))

	res := findCheck(t, report, models.RuleTargetCorrelation, "")
	assert.True(t, res.Passed)
	assert.Contains(t, res.Message, "undefined", "constant state_median_price has no correlation")
	assert.Contains(t, res.Message, models.ColStateMedianPrice)
	assert.Contains(t, res.Message, "counted as passing")
	assert.Empty(t, violationsFor(report, models.RuleTargetCorrelation, models.ColStateMedianPrice))

	feat := findCheck(t, report, models.RuleFeatureCorrelation, "")
	assert.True(t, feat.Passed)
	assert.Contains(t, feat.Message, models.ColPrice+","+models.ColStateMedianPrice)
}

func TestValidateCleanTablePasses(t *testing.T) {
	report := newTestValidator().Validate(labelledFrame(100, 30))

	assert.True(t, report.Passed(), "unexpected violations: %v", report.Violations)
	for _, rule := range []string{
		models.RuleDuplicateRows, models.RuleAllNullRows, models.RuleOutliers,
		models.RuleUnexpectedCategories, models.RuleTargetDistribution,
		models.RuleTargetCorrelation, models.RuleFeatureCorrelation,
	} {
		assert.True(t, findCheck(t, report, rule, "").Passed, rule)
	}
}

// setCell returns df with one cell of column name replaced. "NaN" marks the
// cell missing whatever the column type.
func setCell(t *testing.T, df dataframe.DataFrame, name string, row int, value string) dataframe.DataFrame {
	t.Helper()
	vals := frame.Values(df, name)
	for i, m := range frame.Missing(df, name) {
		if m {
			vals[i] = "NaN"
		}
	}
	vals[row] = value
	out, err := frame.WithColumn(df, series.New(vals, df.Col(name).Type(), name))
	require.NoError(t, err)
	return out
}

func setColumn(t *testing.T, df dataframe.DataFrame, name string, vals []float64) dataframe.DataFrame {
	t.Helper()
	out, err := frame.WithColumn(df, series.New(vals, series.Float, name))
	require.NoError(t, err)
	return out
}

func TestValidateTableRuleViolations(t *testing.T) {
	labelAsFeature := func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame {
		return setColumn(t, df, models.ColBathrooms, frame.Floats(df, models.ColHighPrice))
	}
	bedsFollowBaths := func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame {
		baths := frame.Floats(df, models.ColBathrooms)
		beds := make([]float64, len(baths))
		for i, b := range baths {
			beds[i] = b + 1
		}
		return setColumn(t, df, models.ColBedrooms, beds)
	}
	nullRow := func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame {
		for _, name := range df.Names() {
			df = setCell(t, df, name, 7, "NaN")
		}
		return df
	}
	extremePrice := func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame {
		return setCell(t, df, models.ColPrice, 5, "100000")
	}
	negativeBeds := func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame {
		return setCell(t, df, models.ColBedrooms, 3, "-1")
	}
	negativeBaths := func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame {
		return setCell(t, df, models.ColBathrooms, 11, "-2")
	}

	// check names the table-level result expected to fail; empty means the
	// column's own column_checks result.
	tests := []struct {
		name       string
		mutate     func(t *testing.T, df dataframe.DataFrame) dataframe.DataFrame
		rule       string
		check      string
		column     string
		wantRows   []int
		wantValues []string
		wantMsg    string
	}{
		{
			name:       "extreme price outside the IQR fence",
			mutate:     extremePrice,
			rule:       models.RuleOutliers,
			check:      models.RuleOutliers,
			column:     models.ColPrice,
			wantRows:   []int{5},
			wantValues: []string{"100000"},
			wantMsg:    "1 value(s) outside",
		},
		{
			name:    "feature tracks the label",
			mutate:  labelAsFeature,
			rule:    models.RuleTargetCorrelation,
			check:   models.RuleTargetCorrelation,
			column:  models.ColBathrooms,
			wantMsg: "|corr(bathrooms, high_price)| = 1.000",
		},
		{
			name:    "collinear features",
			mutate:  bedsFollowBaths,
			rule:    models.RuleFeatureCorrelation,
			check:   models.RuleFeatureCorrelation,
			column:  models.ColBathrooms + "," + models.ColBedrooms,
			wantMsg: "|corr(bathrooms, bedrooms)| = 1.000",
		},
		{
			name:     "entirely null row",
			mutate:   nullRow,
			rule:     models.RuleAllNullRows,
			check:    models.RuleAllNullRows,
			wantRows: []int{7},
			wantMsg:  "1 row(s) entirely null",
		},
		{
			name:       "negative bedrooms",
			mutate:     negativeBeds,
			rule:       models.RuleNonNegative,
			column:     models.ColBedrooms,
			wantRows:   []int{3},
			wantValues: []string{"-1"},
			wantMsg:    "greater than or equal to 0",
		},
		{
			name:       "negative bathrooms",
			mutate:     negativeBaths,
			rule:       models.RuleNonNegative,
			column:     models.ColBathrooms,
			wantRows:   []int{11},
			wantValues: []string{"-2"},
			wantMsg:    "greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := newTestValidator().Validate(tt.mutate(t, labelledFrame(100, 30)))

			v := violationsFor(report, tt.rule, tt.column)
			require.Len(t, v, 1, "violations: %v", report.Violations)
			assert.Contains(t, v[0].Message, tt.wantMsg)
			assert.Equal(t, tt.wantRows, v[0].Rows)
			assert.Equal(t, tt.wantValues, v[0].Values)
			assert.Contains(t, report.Failed(), tt.rule)

			if tt.check != "" {
				assert.False(t, findCheck(t, report, tt.check, "").Passed)
			} else {
				assert.False(t, findCheck(t, report, models.RuleColumnChecks, tt.column).Passed)
			}
		})
	}
}
