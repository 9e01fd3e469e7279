package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/frame"
	"rental-pipeline/models"
)

// SplitOptions configures StratifiedSplit.
type SplitOptions struct {
	Label    string
	Features []string
	TestSize float64
	Seed     int64
}

// DefaultSplitOptions returns an 80/20 split on high_price with seed 123.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		Label:    models.ColHighPrice,
		Features: models.FeatureColumns,
		TestSize: 0.2,
		Seed:     123,
	}
}

// SplitResult holds the four aligned outputs of a split and the source row
// indices behind them.
type SplitResult struct {
	XTrain, XTest dataframe.DataFrame
	YTrain, YTest dataframe.DataFrame
	TrainRows     []int
	TestRows      []int
}

// StratifiedSplit partitions df into train and test sets so that every label
// class keeps roughly its share on both sides. The same seed always gives
// the same partition.
func StratifiedSplit(df dataframe.DataFrame, opts SplitOptions) (*SplitResult, error) {
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, fmt.Errorf("split: test size %.3f must be in (0, 1)", opts.TestSize)
	}
	if !frame.HasColumn(df, opts.Label) {
		return nil, &MissingColumnError{Columns: []string{opts.Label}}
	}
	n := df.Nrow()
	if n == 0 {
		return nil, fmt.Errorf("split: empty table: %w", ErrDegenerateData)
	}

	groups := make(map[string][]int)
	for i, y := range frame.Values(df, opts.Label) {
		groups[y] = append(groups[y], i)
	}
	classes := make([]string, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	if len(classes) < 2 {
		return nil, fmt.Errorf("split: label %q has %d class(es), need at least 2: %w",
			opts.Label, len(classes), ErrDegenerateData)
	}

	nTest := int(math.Ceil(float64(n) * opts.TestSize))
	if limit := n - len(classes); nTest > limit {
		nTest = limit
	}
	alloc := allocateTest(classes, groups, n, nTest)

	rng := rand.New(rand.NewSource(opts.Seed))
	var train, test []int
	for _, c := range classes {
		idx := groups[c]
		perm := rng.Perm(len(idx))
		for k, p := range perm {
			if k < alloc[c] {
				test = append(test, idx[p])
			} else {
				train = append(train, idx[p])
			}
		}
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })

	res := &SplitResult{TrainRows: train, TestRows: test}
	var err error
	if res.XTrain, res.YTrain, err = splitSide(df, train, opts); err != nil {
		return nil, err
	}
	if res.XTest, res.YTest, err = splitSide(df, test, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// allocateTest spreads nTest rows over the classes in proportion to their
// size, handing out the rounding remainder by largest fractional part. A
// class always keeps at least one row for training.
func allocateTest(classes []string, groups map[string][]int, n, nTest int) map[string]int {
	type share struct {
		class string
		frac  float64
	}
	alloc := make(map[string]int, len(classes))
	shares := make([]share, 0, len(classes))
	assigned := 0
	for _, c := range classes {
		exact := float64(nTest) * float64(len(groups[c])) / float64(n)
		alloc[c] = int(math.Floor(exact))
		assigned += alloc[c]
		shares = append(shares, share{c, exact - math.Floor(exact)})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].frac > shares[j].frac })
	for i := 0; assigned < nTest && i < len(shares); i++ {
		alloc[shares[i].class]++
		assigned++
	}
	for _, c := range classes {
		if limit := len(groups[c]) - 1; alloc[c] > limit {
			alloc[c] = limit
		}
	}
	return alloc
}

func splitSide(df dataframe.DataFrame, rows []int, opts SplitOptions) (x, y dataframe.DataFrame, err error) {
	part, err := frame.Subset(df, rows)
	if err != nil {
		return x, y, err
	}
	if x, err = frame.Select(part, opts.Features); err != nil {
		return x, y, fmt.Errorf("split features: %w", err)
	}
	if y, err = frame.Select(part, []string{opts.Label}); err != nil {
		return x, y, fmt.Errorf("split label: %w", err)
	}
	return x, y, nil
}
