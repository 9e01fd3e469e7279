package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"rental-pipeline/frame"
	"rental-pipeline/models"
)

// SelectAndCoerce restricts a raw table to the required listing columns and
// coerces the numeric ones to float. Cells that do not parse become missing;
// they are removed by the row filter, not reported here.
func SelectAndCoerce(raw dataframe.DataFrame) (dataframe.DataFrame, error) {
	if missing := missingColumns(raw.Names(), models.RequiredColumns); len(missing) > 0 {
		return dataframe.DataFrame{}, &MissingColumnError{Columns: missing}
	}

	out, err := frame.Select(raw, models.RequiredColumns)
	if err != nil {
		return out, err
	}

	for _, name := range models.NumericColumns {
		coerced := coerceNumeric(frame.Values(out, name))
		out, err = frame.WithColumn(out, series.New(coerced, series.Float, name))
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// coerceNumeric parses each cell as a float. Empty, unparseable and
// non-finite cells come back as NaN.
func coerceNumeric(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil || math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
