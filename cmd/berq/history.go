package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fairbench/berq/internal/storage"
)

// historyCmd lists previously saved disparity runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved disparity runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := storage.NewStore(cfg.History.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs. Use 'berq run --save' to persist reports.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tGROUPS\tRATIO\tCI\tBIAS\tRUN ID")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s/%s\t%.4f\t[%.4f, %.4f]\t%s\t%s\n",
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.NumeratorGroup, run.DenominatorGroup,
			run.PointEstimate, run.LowerCI, run.UpperCI,
			run.Bias, run.ID)
	}
	return w.Flush()
}
