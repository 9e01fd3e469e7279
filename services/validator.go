package services

import (
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"rental-pipeline/models"
	"rental-pipeline/utils"
)

const defaultSampleSize = 10

// Validator checks a derived listing table against the schema built from a
// rule set. It never stops at the first failure and never modifies the table.
type Validator struct {
	rules      models.RuleSet
	schema     models.Schema
	logger     *utils.Logger
	sampleSize int
}

// NewValidator creates a Validator for the given rules.
func NewValidator(rules models.RuleSet, logger *utils.Logger) *Validator {
	return &Validator{
		rules:      rules,
		schema:     rules.ValidationSchema(),
		logger:     logger,
		sampleSize: defaultSampleSize,
	}
}

// Validate evaluates every column rule and every table rule and returns the
// collected report.
func (v *Validator) Validate(df dataframe.DataFrame) *models.ValidationReport {
	report := &models.ValidationReport{
		RunID:       uuid.NewString(),
		ValidatedAt: time.Now(),
		Rows:        df.Nrow(),
	}

	for _, rule := range v.schema.Columns {
		violations := v.checkColumn(df, rule)
		res := models.CheckResult{Rule: models.RuleColumnChecks, Column: rule.Name, Passed: len(violations) == 0}
		if !res.Passed {
			res.Message = violations[0].Message
		}
		report.Checks = append(report.Checks, res)
		report.Violations = append(report.Violations, violations...)
	}

	for _, tr := range tableRules {
		res, violations := tr.check(v, df)
		report.Checks = append(report.Checks, res)
		report.Violations = append(report.Violations, violations...)
	}

	if report.Passed() {
		v.logger.Info("[validator] All checks passed on %d rows (run %s)", report.Rows, report.RunID)
	} else {
		v.logger.Warn("[validator] %d violation(s) across rules %v (run %s)",
			len(report.Violations), report.Failed(), report.RunID)
	}
	return report
}

// violation builds a Violation, keeping only a sample of the offending values.
func (v *Validator) violation(rule, column, msg string, rows []int, values []string) models.Violation {
	if len(values) > v.sampleSize {
		values = values[:v.sampleSize]
	}
	return models.Violation{Rule: rule, Column: column, Message: msg, Rows: rows, Values: values}
}
