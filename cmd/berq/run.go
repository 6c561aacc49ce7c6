package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fairbench/berq/internal/config"
	"github.com/fairbench/berq/internal/dataset"
	"github.com/fairbench/berq/internal/errors"
	"github.com/fairbench/berq/internal/output"
	"github.com/fairbench/berq/internal/resample"
	"github.com/fairbench/berq/internal/storage"
)

// runCmd computes the BER disparity between two subgroups of a prediction table
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the BER ratio between two subgroups with a confidence interval",
	Long: `Reads a CSV of per-example true labels, predicted labels and a subgroup
column, then estimates how much worse the classifier's balanced error is for
one subgroup than the other.

The first group listed in --groups is the privileged (denominator) group, so
a ratio above 1 means the second group carries more classification error:

  berq run --input in_gender.csv --subgroup-field gender_source_value \
      --groups "Male,Female" --resamples 1000 --seed 10678`,
	RunE: runDisparity,
}

func init() {
	runCmd.Flags().String("input", "", "path to the prediction CSV (required)")
	runCmd.Flags().String("subgroup-field", "", "CSV column holding the demographic split (required)")
	runCmd.Flags().String("groups", "", "comma-separated subgroup values, privileged first (required)")
	runCmd.Flags().Int("resamples", 0, "number of balanced resampling iterations (default from config)")
	runCmd.Flags().Float64("confidence", 0, "confidence level for the empirical CI (default from config)")
	runCmd.Flags().Float64("epsilon", 0, "zero-denominator floor (default from config)")
	runCmd.Flags().Int64("seed", 0, "run seed for reproducible resampling (0 = fresh seed)")
	runCmd.Flags().Int("workers", 0, "parallel resampling workers (0 = all cores)")
	runCmd.Flags().String("label-column", "", "true-label column name (default from config)")
	runCmd.Flags().String("prediction-column", "", "predicted-label column name (default from config)")
	runCmd.Flags().Bool("quiet", false, "one-line summary output")
	runCmd.Flags().Bool("json", false, "machine-readable JSON output")
	runCmd.Flags().Bool("save", false, "persist the report to the run-history database")

	runCmd.MarkFlagRequired("input")
	runCmd.MarkFlagRequired("subgroup-field")
	runCmd.MarkFlagRequired("groups")
	runCmd.MarkFlagsMutuallyExclusive("quiet", "json")
}

func runDisparity(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	applyRunFlags(cmd)
	if err := config.ValidateOrError(cfg); err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("input")
	subgroupField, _ := cmd.Flags().GetString("subgroup-field")
	groupsArg, _ := cmd.Flags().GetString("groups")

	denominatorName, numeratorName, err := parseGroups(groupsArg)
	if err != nil {
		return err
	}

	cols := dataset.Columns{
		Label:      cfg.Data.LabelColumn,
		Prediction: cfg.Data.PredictionColumn,
		Subgroup:   subgroupField,
	}

	ds, err := dataset.LoadCSV(inputPath, cols)
	if err != nil {
		return err
	}
	if len(ds.Groups()) < 2 {
		return errors.InvalidConfigurationf(
			"column %q has fewer than 2 distinct subgroup values", subgroupField)
	}

	numerator, err := ds.Sample(numeratorName)
	if err != nil {
		return err
	}
	denominator, err := ds.Sample(denominatorName)
	if err != nil {
		return err
	}

	seed := cfg.Resample.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.WithField("seed", seed).Info("no seed configured, using a fresh one")
	}

	opts := resample.Options{
		Resamples:         cfg.Resample.Count,
		Confidence:        cfg.Resample.Confidence,
		Epsilon:           cfg.Resample.Epsilon,
		Seed:              seed,
		Workers:           cfg.Resample.Workers,
		BiasLowThreshold:  cfg.Bias.LowThreshold,
		BiasHighThreshold: cfg.Bias.HighThreshold,
	}

	logger.WithFields(map[string]interface{}{
		"numerator":   numeratorName,
		"denominator": denominatorName,
		"resamples":   opts.Resamples,
	}).Debug("starting disparity run")

	report, err := resample.Run(ctx, numerator, denominator, opts)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := storage.NewStore(cfg.History.Path, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReport(ctx, report, inputPath); err != nil {
			return err
		}
		logger.WithField("run_id", report.RunID).Info("report saved to history")
	}

	formatter := output.NewFormatter(selectVerbosity(cmd))
	return formatter.Format(report, os.Stdout)
}

// applyRunFlags overlays explicit flags onto the loaded configuration
func applyRunFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("resamples") {
		cfg.Resample.Count, _ = cmd.Flags().GetInt("resamples")
	}
	if cmd.Flags().Changed("confidence") {
		cfg.Resample.Confidence, _ = cmd.Flags().GetFloat64("confidence")
	}
	if cmd.Flags().Changed("epsilon") {
		cfg.Resample.Epsilon, _ = cmd.Flags().GetFloat64("epsilon")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Resample.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Resample.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("label-column") {
		cfg.Data.LabelColumn, _ = cmd.Flags().GetString("label-column")
	}
	if cmd.Flags().Changed("prediction-column") {
		cfg.Data.PredictionColumn, _ = cmd.Flags().GetString("prediction-column")
	}
}

// parseGroups splits the --groups argument into (privileged, comparison).
// The privileged group is the ratio denominator, matching the reporting
// convention that a ratio above 1 reads "the comparison group is worse".
func parseGroups(arg string) (privileged, comparison string, err error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return "", "", errors.InvalidConfigurationf(
			"--groups needs exactly two comma-separated subgroup values, got %q", arg)
	}
	privileged = strings.TrimSpace(parts[0])
	comparison = strings.TrimSpace(parts[1])
	if privileged == "" || comparison == "" {
		return "", "", errors.InvalidConfigurationf(
			"--groups values must be non-empty, got %q", arg)
	}
	if privileged == comparison {
		return "", "", errors.InvalidConfigurationf(
			"--groups values must be distinct, got %q twice", privileged)
	}
	return privileged, comparison, nil
}

func selectVerbosity(cmd *cobra.Command) output.VerbosityLevel {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return output.VerbosityQuiet
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return output.VerbosityJSON
	}
	return output.GetDefaultVerbosity()
}
