package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/stats"
	"rental-pipeline/utils"
)

// DescribeColumns are summarised by the insight service.
var DescribeColumns = []string{models.ColPrice, models.ColSquareFeet, models.ColBathrooms}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes descriptive statistics, the label distribution and the
// per-state breakdown of a cleaned table. Absent columns are skipped.
func (s *InsightService) Generate(df dataframe.DataFrame) *models.InsightReport {
	report := &models.InsightReport{
		TotalListings:   df.Nrow(),
		ListingsByState: make(map[string]int),
		MedianByState:   make(map[string]float64),
	}

	for _, name := range DescribeColumns {
		if !frame.HasColumn(df, name) {
			s.logger.Warn("[insights] Column %s missing, skipping summary", name)
			continue
		}
		report.Columns = append(report.Columns, Describe(name, frame.Floats(df, name)))
	}

	if frame.HasColumn(df, models.ColHighPrice) {
		report.LabelShares = LabelShares(frame.Values(df, models.ColHighPrice))
	}

	if frame.HasColumn(df, models.ColState) && frame.HasColumn(df, models.ColPrice) {
		for _, st := range frame.Values(df, models.ColState) {
			report.ListingsByState[st]++
		}
		report.MedianByState = StateMedians(df)
	}
	return report
}

// Describe summarises the non-missing values of one column.
func Describe(name string, values []float64) models.ColumnSummary {
	vals := stats.DropNaN(values)
	sum := models.ColumnSummary{Column: name, Count: len(vals)}
	sum.Mean, sum.Std = stats.MeanStd(vals)
	sum.Min, sum.Max = stats.MinMax(vals)
	sum.Median = stats.Quantile(vals, 0.5)
	sum.Q25, sum.Q75 = stats.Quartiles(vals)
	return sum
}

// LabelShares returns the normalized frequency of each label value, most
// frequent first.
func LabelShares(labels []string) []models.LabelShare {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	out := make([]models.LabelShare, 0, len(counts))
	for l, c := range counts {
		out = append(out, models.LabelShare{Label: l, Proportion: float64(c) / float64(len(labels))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Proportion != out[j].Proportion {
			return out[i].Proportion > out[j].Proportion
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// DescribeRecords lays the column summaries out as a CSV table with one
// statistic per row and one column per summarised field.
func DescribeRecords(cols []models.ColumnSummary) [][]string {
	header := []string{""}
	for _, c := range cols {
		header = append(header, c.Column)
	}
	rows := [][]string{header}
	stat := func(label string, get func(models.ColumnSummary) float64) {
		row := []string{label}
		for _, c := range cols {
			row = append(row, formatStat(get(c)))
		}
		rows = append(rows, row)
	}
	stat("count", func(c models.ColumnSummary) float64 { return float64(c.Count) })
	stat("mean", func(c models.ColumnSummary) float64 { return c.Mean })
	stat("std", func(c models.ColumnSummary) float64 { return c.Std })
	stat("min", func(c models.ColumnSummary) float64 { return c.Min })
	stat("25%", func(c models.ColumnSummary) float64 { return c.Q25 })
	stat("50%", func(c models.ColumnSummary) float64 { return c.Median })
	stat("75%", func(c models.ColumnSummary) float64 { return c.Q75 })
	stat("max", func(c models.ColumnSummary) float64 { return c.Max })
	return rows
}

// LabelShareRecords lays the label distribution out as a CSV table.
func LabelShareRecords(shares []models.LabelShare) [][]string {
	rows := [][]string{{models.ColHighPrice, "proportion"}}
	for _, s := range shares {
		rows = append(rows, []string{s.Label, frame.FormatFloat(s.Proportion)})
	}
	return rows
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return frame.FormatFloat(v)
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 RENTAL LISTING INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Cleaned listings : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Descriptive Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Columns) == 0 {
		fmt.Fprintf(w, "  No numeric data available\n")
	}
	for _, c := range r.Columns {
		fmt.Fprintf(w, "  %-12s n=%-6d mean=%-10.2f median=%-10.2f min=%-8.2f max=%.2f\n",
			c.Column, c.Count, c.Mean, c.Median, c.Min, c.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Target Distribution (high_price)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.LabelShares) == 0 {
		fmt.Fprintf(w, "  No label data\n")
	}
	for _, ls := range r.LabelShares {
		bar := strings.Repeat("█", int(ls.Proportion*40+0.5))
		fmt.Fprintf(w, "  %-4s %-40s %.1f%%\n", ls.Label, bar, ls.Proportion*100)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by State (top 10)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByState) == 0 {
		fmt.Fprintf(w, "  No state data\n")
	} else {
		type stateCount struct {
			state string
			count int
		}
		var states []stateCount
		for st, cnt := range r.ListingsByState {
			states = append(states, stateCount{st, cnt})
		}
		sort.Slice(states, func(i, j int) bool {
			if states[i].count != states[j].count {
				return states[i].count > states[j].count
			}
			return states[i].state < states[j].state
		})
		if len(states) > 10 {
			states = states[:10]
		}
		for _, sc := range states {
			fmt.Fprintf(w, "  %-4s %6d listings   median $%.2f\n", sc.state, sc.count, r.MedianByState[sc.state])
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}
