package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"rental-pipeline/config"
	"rental-pipeline/services"
	"rental-pipeline/utils"
)

const usage = `usage:
  rental-pipeline clean [flags] <input> <output_dir>
  rental-pipeline eda   [flags] <full_cleaned_data.csv> <results_dir>
  rental-pipeline model [flags] <X_train> <X_test> <y_train> <y_test> <results_dir>

<input> is a delimited file, an .xlsx workbook or a postgres:// DSN.
`

func main() {
	logger := utils.NewLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, logger, os.Stdout, os.Args[1], os.Args[2:])
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Error("%s failed: %v", os.Args[1], err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger, out io.Writer, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	switch cmd {
	case "clean":
		fs.Float64Var(&cfg.TestSize, "test-size", cfg.TestSize, "fraction of rows in the test split")
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for the split")
		fs.StringVar(&cfg.ValidationPolicy, "policy", cfg.ValidationPolicy, "validation policy: warn or fail")
		pos, err := parse(fs, args, 2)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.Info("=== Rental listing pipeline: clean ===")
		logger.Info("Config: test size %.2f | seed %d | policy %s", cfg.TestSize, cfg.Seed, cfg.ValidationPolicy)
		_, err = services.NewPipeline(cfg, logger, out).Run(ctx, pos[0], pos[1])
		return err

	case "eda":
		fs.IntVar(&cfg.PlotSampleSize, "sample", cfg.PlotSampleSize, "maximum points in the scatter plot")
		pos, err := parse(fs, args, 2)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.Info("=== Rental listing pipeline: eda ===")
		_, _, err = services.NewExplorer(cfg, logger, out).Run(ctx, pos[0], pos[1])
		return err

	case "model":
		fs.IntVar(&cfg.MaxIterations, "max-iter", cfg.MaxIterations, "gradient descent iteration cap")
		pos, err := parse(fs, args, 5)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.Info("=== Rental listing pipeline: model ===")
		res, err := services.NewTrainer(cfg, logger).Run(ctx, services.TrainInputs{
			XTrain: pos[0],
			XTest:  pos[1],
			YTrain: pos[2],
			YTest:  pos[3],
		}, pos[4])
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			fmt.Fprintf(out, "  saved %s\n", f)
		}
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// parse parses flags and checks the positional argument count.
func parse(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != want {
		fs.Usage()
		return nil, fmt.Errorf("%s: want %d argument(s), got %d", fs.Name(), want, fs.NArg())
	}
	return fs.Args(), nil
}
